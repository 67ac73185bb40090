package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvokeStaticDispatchesToAnotherClass(t *testing.T) {
	loader := NewLoader()
	loadClass(t, loader, `
.class public LMath2;
.super Ljava/lang/Object;

.method public static square(I)I
    mul-int v0, p0, p0
    return v0
.end method
`)
	loadClass(t, loader, `
.class public LCaller;
.super Ljava/lang/Object;

.method public static run(I)I
    invoke-static {p0}, LMath2;->square(I)I
    move-result v0
    return v0
.end method
`)
	emu := NewEmulator(loader, DefaultConfig())
	result, err := emu.ExecMethod("Caller", "run", map[string]Value{"p0": Int32Value(6)})
	require.NoError(t, err)
	assert.Equal(t, Int32Value(36), result)
}

func TestInvokeVirtualOnNullReceiverRaisesNullPointer(t *testing.T) {
	loader := NewLoader()
	loadClass(t, loader, `
.class public LUser;
.super Ljava/lang/Object;

.method public static run(Ljava/lang/String;)I
    invoke-virtual {p0}, Ljava/lang/String;->length()I
    move-result v0
    return v0
.end method
`)
	emu := NewEmulator(loader, DefaultConfig())
	_, err := emu.ExecMethod("User", "run", map[string]Value{"p0": NullValue()})
	require.Error(t, err)

	var uncaught *UncaughtJavaException
	require.ErrorAs(t, err, &uncaught)
	assert.Equal(t, "java.lang.NullPointerException", uncaught.ClassName)
}

func TestInvokeDirectInitOnUnknownClassUsesGenericConstructor(t *testing.T) {
	loader := NewLoader()
	loadClass(t, loader, `
.class public LThrower;
.super Ljava/lang/Object;

.method public static run()Ljava/lang/String;
    new-instance v0, Ljava/lang/IllegalStateException;
    const-string v1, "bad state"
    invoke-direct {v0, v1}, Ljava/lang/IllegalStateException;-><init>(Ljava/lang/String;)V
    iget-object v2, v0, Ljava/lang/IllegalStateException;->message:Ljava/lang/String;
    return-object v2
.end method
`)
	emu := NewEmulator(loader, DefaultConfig())
	result, err := emu.ExecMethod("Thrower", "run", nil)
	require.NoError(t, err)

	obj, ok := emu.Heap.Get(result.Ref())
	require.True(t, ok)
	assert.Equal(t, "bad state", obj.(*StringObj).Decoded())
}

func TestInvokeOnNullReceiverCaughtByTryCatch(t *testing.T) {
	loader := NewLoader()
	loadClass(t, loader, `
.class public LUser2;
.super Ljava/lang/Object;

.method public static run(Ljava/lang/String;)I
    :try_start
    invoke-virtual {p0}, Ljava/lang/String;->length()I
    move-result v0
    return v0
    :try_end
    goto :after
    :handler
    const/4 v1, -0x1
    return v1
    :after
    const/4 v1, 0x0
    return v1
.catch Ljava/lang/NullPointerException; {:try_start .. :try_end} :handler
.end method
`)
	emu := NewEmulator(loader, DefaultConfig())
	result, err := emu.ExecMethod("User2", "run", map[string]Value{"p0": NullValue()})
	require.NoError(t, err)
	assert.Equal(t, Int32Value(-1), result)
}

func TestInvokeStaticUncaughtChildExceptionPropagates(t *testing.T) {
	loader := NewLoader()
	loadClass(t, loader, `
.class public LBoom;
.super Ljava/lang/Object;

.method public static boom()V
    const/4 v0, 0x1
    const/4 v1, 0x0
    div-int/2addr v0, v1
    return-void
.end method
`)
	loadClass(t, loader, `
.class public LCatcher;
.super Ljava/lang/Object;

.method public static run()I
    :try_start
    invoke-static {}, LBoom;->boom()V
    :try_end
    goto :after
    :handler
    const/4 v0, -0x1
    return v0
    :after
    const/4 v0, 0x0
    return v0
.catch Ljava/lang/ArithmeticException; {:try_start .. :try_end} :handler
.end method
`)
	emu := NewEmulator(loader, DefaultConfig())
	result, err := emu.ExecMethod("Catcher", "run", nil)
	require.NoError(t, err)
	assert.Equal(t, Int32Value(-1), result)
}

func TestInvokeExceedingMaxFrameDepthRaisesStackOverflow(t *testing.T) {
	loader := NewLoader()
	loadClass(t, loader, `
.class public LLooper;
.super Ljava/lang/Object;

.method public static run()V
    invoke-static {}, LLooper;->run()V
    return-void
.end method
`)
	cfg := DefaultConfig()
	cfg.MaxFrameDepth = 8
	emu := NewEmulator(loader, cfg)
	_, err := emu.ExecMethod("Looper", "run", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStackOverflow)
}
