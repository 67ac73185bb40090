package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocessLabelsMatchLineIndex(t *testing.T) {
	src := NewSourceFromString(`
const/4 v0, 0x0
:loop
add-int/2addr v0, v0
goto :loop
`)
	pre, err := Preprocess(src)
	require.NoError(t, err)
	for label, line := range pre.Labels {
		text, ok := src.Get(line)
		require.True(t, ok)
		assert.Equal(t, label, text)
	}
}

func TestPreprocessIsIdempotent(t *testing.T) {
	src := NewSourceFromString(`
:pswitch_data_0
.packed-switch 0x0
    :pswitch_0
    :pswitch_1
.end packed-switch
`)
	first, err := Preprocess(src)
	require.NoError(t, err)
	second, err := Preprocess(src)
	require.NoError(t, err)
	assert.Equal(t, first.Labels, second.Labels)
	assert.Equal(t, first.SwitchTables, second.SwitchTables)
}

func TestPreprocessPackedSwitchTable(t *testing.T) {
	src := NewSourceFromString(`
packed-switch v0, :sw
return-void
:sw
.packed-switch 0x0
    :case_0
    :case_1
    :case_2
.end packed-switch
:case_0
return-void
`)
	pre, err := Preprocess(src)
	require.NoError(t, err)
	table, ok := pre.SwitchTables[":sw"]
	require.True(t, ok)
	assert.EqualValues(t, 0, table.FirstKey)
	assert.Equal(t, []string{":case_0", ":case_1", ":case_2"}, table.Targets)
}

func TestPreprocessArrayDataTable(t *testing.T) {
	src := NewSourceFromString(`
:arr
.array-data 4
    0x1
    0x2
    0x3
.end array-data
`)
	pre, err := Preprocess(src)
	require.NoError(t, err)
	table, ok := pre.ArrayDataTables[":arr"]
	require.True(t, ok)
	assert.Equal(t, 4, table.ElementWidth)
	assert.Equal(t, []int64{1, 2, 3}, table.Values)
}

func TestPreprocessSkipsDataBlockInterior(t *testing.T) {
	src := NewSourceFromString(`
const/4 v0, 0x1
:arr
.array-data 4
    0x1
.end array-data
return-void
`)
	pre, err := Preprocess(src)
	require.NoError(t, err)
	endLine, ok := pre.SkipTo(4)
	require.True(t, ok)
	text, ok := src.Get(endLine)
	require.True(t, ok)
	assert.Equal(t, "return-void", text)
}

func TestPreprocessResolvesTryCatchRegion(t *testing.T) {
	src := NewSourceFromString(`
:try_start
const/4 v0, 0x0
:try_end
goto :after
:handler
const/4 v0, -0x1
:after
return v0
.catch Ljava/lang/Exception; {:try_start .. :try_end} :handler
`)
	pre, err := Preprocess(src)
	require.NoError(t, err)
	require.Len(t, pre.TryCatch, 1)
	region := pre.TryCatch[0]
	assert.Equal(t, "java.lang.Exception", region.ExceptionType)
	assert.True(t, region.Covers(2))
	assert.False(t, region.Covers(5))
}

func TestPreprocessUnclosedBlockFails(t *testing.T) {
	src := NewSourceFromString(`
:arr
.array-data 4
    0x1
`)
	_, err := Preprocess(src)
	assert.ErrorIs(t, err, ErrPreprocessing)
}
