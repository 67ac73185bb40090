package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJavaClassExtractsNameFieldsAndMethods(t *testing.T) {
	src := NewSourceFromString(`
.class public Lcom/example/Widget;
.super Ljava/lang/Object;

.field private count:I
.field private static label:Ljava/lang/String;

.method public static zero()I
    const/4 v0, 0x0
    return v0
.end method

.method public static one()I
    const/4 v0, 0x1
    return v0
.end method
`)
	jc, err := ParseJavaClass(src)
	require.NoError(t, err)

	assert.Equal(t, "com.example.Widget", jc.Name)
	assert.Equal(t, []FieldDecl{{Name: "count", Type: "I"}, {Name: "label", Type: "Ljava/lang/String;"}}, jc.Fields)
	assert.Equal(t, []string{"count", "label"}, jc.DeclaredFieldNames())
	assert.Len(t, jc.Methods, 2)
	assert.Equal(t, []MethodKey{newMethodKey("zero", nil, "I"), newMethodKey("one", nil, "I")}, jc.MethodOrder)
}

func TestFindMethodPrefersExactSignatureMatch(t *testing.T) {
	src := NewSourceFromString(`
.class public LOverload;
.super Ljava/lang/Object;

.method public static get(I)I
    const/4 v0, 0x1
    return v0
.end method

.method public static get(Ljava/lang/String;)I
    const/4 v0, 0x2
    return v0
.end method
`)
	jc, err := ParseJavaClass(src)
	require.NoError(t, err)

	_, key, found := jc.FindMethod("get", []string{"I"})
	require.True(t, found)
	assert.Equal(t, "I", key.Args)
}

func TestLoaderRejectsDuplicateClassNames(t *testing.T) {
	loader := NewLoader()
	text := `
.class public LDup;
.super Ljava/lang/Object;

.method public static get()I
    const/4 v0, 0x1
    return v0
.end method
`
	_, err := loader.LoadClass(NewSourceFromString(text))
	require.NoError(t, err)

	_, err = loader.LoadClass(NewSourceFromString(text))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateClass)
}
