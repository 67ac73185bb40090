package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadClass(t *testing.T, loader *Loader, text string) *JavaClass {
	t.Helper()
	jc, err := loader.LoadClass(NewSourceFromString(text))
	require.NoError(t, err)
	return jc
}

func TestExecMethodReturnsALiteral(t *testing.T) {
	loader := NewLoader()
	loadClass(t, loader, `
.class public LCalc;
.super Ljava/lang/Object;

.method public static get()I
    const/4 v0, 0x5
    return v0
.end method
`)
	emu := NewEmulator(loader, DefaultConfig())
	result, err := emu.ExecMethod("Calc", "get", nil)
	require.NoError(t, err)
	assert.Equal(t, Int32Value(5), result)
}

func TestExecMethodSharesStaticFieldsAcrossCalls(t *testing.T) {
	loader := NewLoader()
	loadClass(t, loader, `
.class public LHolder;
.super Ljava/lang/Object;

.field private static msg:Ljava/lang/String;

.method static constructor <clinit>()V
    const-string v0, "hello"
    sput-object v0, LHolder;->msg:Ljava/lang/String;
    return-void
.end method

.method public static get()Ljava/lang/String;
    sget-object v0, LHolder;->msg:Ljava/lang/String;
    return-object v0
.end method
`)
	emu := NewEmulator(loader, DefaultConfig())

	_, err := emu.ExecMethod("Holder", "<clinit>", nil)
	require.NoError(t, err)

	result, err := emu.ExecMethod("Holder", "get", nil)
	require.NoError(t, err)

	require.Equal(t, KindRef, result.Kind())
	obj, ok := emu.Heap.Get(result.Ref())
	require.True(t, ok)
	str, ok := obj.(*StringObj)
	require.True(t, ok)
	assert.Equal(t, "hello", str.Decoded())
}

func TestExecMethodBranchesOnArgument(t *testing.T) {
	loader := NewLoader()
	loadClass(t, loader, `
.class public LSign;
.super Ljava/lang/Object;

.method public static classify(I)Ljava/lang/String;
    if-eqz p0, :zero
    const-string v0, "nonzero"
    return-object v0
    :zero
    const-string v0, "zero"
    return-object v0
.end method
`)
	emu := NewEmulator(loader, DefaultConfig())

	zero, err := emu.ExecMethod("Sign", "classify", map[string]Value{"p0": Int32Value(0)})
	require.NoError(t, err)
	zeroObj, _ := emu.Heap.Get(zero.Ref())
	assert.Equal(t, "zero", zeroObj.(*StringObj).Decoded())

	nonzero, err := emu.ExecMethod("Sign", "classify", map[string]Value{"p0": Int32Value(7)})
	require.NoError(t, err)
	nonzeroObj, _ := emu.Heap.Get(nonzero.Ref())
	assert.Equal(t, "nonzero", nonzeroObj.(*StringObj).Decoded())
}

func TestExecMethodRaisesNullPointerOnNullArgument(t *testing.T) {
	loader := NewLoader()
	loadClass(t, loader, `
.class public LLen;
.super Ljava/lang/Object;

.method public static len([B)I
    array-length v0, p0
    return v0
.end method
`)
	emu := NewEmulator(loader, DefaultConfig())

	_, err := emu.ExecMethod("Len", "len", map[string]Value{"p0": NullValue()})
	require.Error(t, err)

	var uncaught *UncaughtJavaException
	require.ErrorAs(t, err, &uncaught)
	assert.Equal(t, "java.lang.NullPointerException", uncaught.ClassName)
	assert.Equal(t, "array reference is null", uncaught.Message)
}

func TestExecMethodPackedSwitch(t *testing.T) {
	loader := NewLoader()
	loadClass(t, loader, `
.class public LSwitch;
.super Ljava/lang/Object;

.method public static pick(I)I
    packed-switch p0, :sw
    const/4 v0, -0x1
    return v0
    :sw
    .packed-switch 0x0
    :case0
    :case1
    :case2
    .end packed-switch
    :case0
    const/4 v0, 0xa
    return v0
    :case1
    const/4 v0, 0xb
    return v0
    :case2
    const/4 v0, 0xc
    return v0
.end method
`)
	emu := NewEmulator(loader, DefaultConfig())

	hit, err := emu.ExecMethod("Switch", "pick", map[string]Value{"p0": Int32Value(1)})
	require.NoError(t, err)
	assert.Equal(t, Int32Value(0xb), hit)

	miss, err := emu.ExecMethod("Switch", "pick", map[string]Value{"p0": Int32Value(99)})
	require.NoError(t, err)
	assert.Equal(t, Int32Value(-1), miss)
}

func TestExecMethodCatchesThrownException(t *testing.T) {
	loader := NewLoader()
	loadClass(t, loader, `
.class public LTryDemo;
.super Ljava/lang/Object;

.method public static run()I
    :try_start
    new-instance v0, Ljava/lang/ArithmeticException;
    const-string v1, "boom"
    invoke-direct {v0, v1}, Ljava/lang/ArithmeticException;-><init>(Ljava/lang/String;)V
    throw v0
    :try_end
    goto :after
    :handler
    const/4 v2, -0x1
    return v2
    :after
    const/4 v2, 0x0
    return v2
.catch Ljava/lang/ArithmeticException; {:try_start .. :try_end} :handler
.end method
`)
	emu := NewEmulator(loader, DefaultConfig())

	result, err := emu.ExecMethod("TryDemo", "run", nil)
	require.NoError(t, err)
	assert.Equal(t, Int32Value(-1), result)
}
