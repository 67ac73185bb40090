package vm

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValueConstructorsReportTheirKind(t *testing.T) {
	assert.Equal(t, KindNull, NullValue().Kind())
	assert.Equal(t, KindInt32, Int32Value(5).Kind())
	assert.Equal(t, KindInt64, Int64Value(5).Kind())
	assert.Equal(t, KindFloat32, Float32Value(1.5).Kind())
	assert.Equal(t, KindFloat64, Float64Value(1.5).Kind())
	assert.Equal(t, KindBool, BoolValue(true).Kind())
	assert.Equal(t, KindChar, CharValue('x').Kind())
	assert.Equal(t, KindRef, RefValue(uuid.New()).Kind())
}

func TestNullValueIsNull(t *testing.T) {
	assert.True(t, NullValue().IsNull())
	assert.True(t, Value{}.IsNull())
	assert.False(t, Int32Value(0).IsNull())
}

func TestRefValueWithoutIdentityIsNull(t *testing.T) {
	var zero Value
	zero.kind = KindRef
	assert.True(t, zero.IsNull())
	assert.False(t, RefValue(uuid.New()).IsNull())
}

func TestAsInt64WidensAcrossKinds(t *testing.T) {
	assert.EqualValues(t, 5, Int32Value(5).AsInt64())
	assert.EqualValues(t, 5, Int64Value(5).AsInt64())
	assert.EqualValues(t, 1, BoolValue(true).AsInt64())
	assert.EqualValues(t, 'a', CharValue('a').AsInt64())
	assert.EqualValues(t, 3, Float64Value(3.9).AsInt64())
}

func TestAsFloat64WidensAcrossKinds(t *testing.T) {
	assert.InDelta(t, 5.0, Int32Value(5).AsFloat64(), 0.0001)
	assert.InDelta(t, 1.5, Float32Value(1.5).AsFloat64(), 0.0001)
	assert.InDelta(t, 2.25, Float64Value(2.25).AsFloat64(), 0.0001)
}

func TestValueStringRendersEachKind(t *testing.T) {
	assert.Equal(t, "null", NullValue().String())
	assert.Equal(t, "5", Int32Value(5).String())
	assert.Equal(t, "true", BoolValue(true).String())
	assert.Equal(t, "x", CharValue('x').String())
}
