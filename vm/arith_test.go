package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runLines executes a bare instruction sequence (no surrounding .method
// directives needed) against a fresh frame, returning it for inspection.
func runLines(t *testing.T, text string) *Frame {
	t.Helper()
	src := NewSourceFromString(text)
	pre, err := Preprocess(src)
	require.NoError(t, err)
	emu := NewEmulator(NewLoader(), DefaultConfig())
	frame := NewFrame(src, pre, &JavaClass{Name: "Test"}, emu, 0)
	require.NoError(t, RunFrame(frame))
	return frame
}

func TestAddIntTwoAddr(t *testing.T) {
	f := runLines(t, `
const/4 v0, 0x3
const/4 v1, 0x4
add-int/2addr v0, v1
return v0
`)
	assert.Equal(t, Int32Value(7), f.ReturnV)
}

func TestAddIntThreeRegisterForm(t *testing.T) {
	f := runLines(t, `
const/4 v1, 0x3
const/4 v2, 0x4
add-int v0, v1, v2
return v0
`)
	assert.Equal(t, Int32Value(7), f.ReturnV)
}

func TestMulIntLiteral(t *testing.T) {
	f := runLines(t, `
const/4 v1, 0x6
mul-int/lit8 v0, v1, 0x7
return v0
`)
	assert.Equal(t, Int32Value(42), f.ReturnV)
}

func TestDivIntByZeroRaisesArithmeticException(t *testing.T) {
	src := NewSourceFromString(`
const/4 v0, 0x1
const/4 v1, 0x0
div-int/2addr v0, v1
return v0
`)
	pre, err := Preprocess(src)
	require.NoError(t, err)
	emu := NewEmulator(NewLoader(), DefaultConfig())
	frame := NewFrame(src, pre, &JavaClass{Name: "Test"}, emu, 0)
	require.NoError(t, RunFrame(frame))

	require.True(t, frame.HasThrown)
	obj, ok := emu.Heap.Get(frame.Thrown)
	require.True(t, ok)
	assert.Equal(t, "java.lang.ArithmeticException", obj.ClassName())
}

func TestRemLongKeepsWideValueAsSingleSlot(t *testing.T) {
	f := runLines(t, `
const-wide v0, 0xa
const-wide v1, 0x3
rem-long v2, v0, v1
return-wide v2
`)
	assert.Equal(t, Int64Value(1), f.ReturnV)
}

func TestNegIntAndNotInt(t *testing.T) {
	f := runLines(t, `
const/4 v0, 0x5
neg-int v1, v0
not-int v2, v0
add-int v3, v1, v2
return v3
`)
	assert.Equal(t, Int32Value(-5+(^int32(5))), f.ReturnV)
}

func TestIntToDoubleConversion(t *testing.T) {
	f := runLines(t, `
const/4 v0, 0x2
int-to-double v1, v0
return-wide v1
`)
	assert.Equal(t, Float64Value(2.0), f.ReturnV)
}

func newBareFrame() *Frame {
	src := NewSourceFromString("")
	pre, _ := Preprocess(src)
	emu := NewEmulator(NewLoader(), DefaultConfig())
	return NewFrame(src, pre, &JavaClass{Name: "Test"}, emu, 0)
}

func TestCmplFloatTreatsNaNAsLess(t *testing.T) {
	f := newBareFrame()
	f.SetReg("v1", Float32Value(float32(nan())))
	f.SetReg("v2", Float32Value(1))
	handler := dispatchTable["cmpl-float"]
	_, err := handler(f, "v0, v1, v2")
	require.NoError(t, err)
	assert.Equal(t, Int32Value(-1), f.GetReg("v0"))
}

func TestCmpgFloatTreatsNaNAsGreater(t *testing.T) {
	f := newBareFrame()
	f.SetReg("v1", Float32Value(float32(nan())))
	f.SetReg("v2", Float32Value(1))
	handler := dispatchTable["cmpg-float"]
	_, err := handler(f, "v0, v1, v2")
	require.NoError(t, err)
	assert.Equal(t, Int32Value(1), f.GetReg("v0"))
}

func nan() float64 {
	var zero float64
	return zero / zero
}
