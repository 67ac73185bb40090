package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractClassName(t *testing.T) {
	name, err := ExtractClassName("Lpkg/sub/Name;")
	require.NoError(t, err)
	assert.Equal(t, "pkg.sub.Name", name)
}

func TestExtractClassNameRejectsInvocationTarget(t *testing.T) {
	_, err := ExtractClassName("Lfoo/Bar;->baz()V")
	assert.ErrorIs(t, err, ErrMalformedDescriptor)
}

func TestExtractClassNameRoundTrip(t *testing.T) {
	for _, dotted := range []string{"a.b.C", "com.example.Widget"} {
		descriptor := "L" + replaceDots(dotted) + ";"
		got, err := ExtractClassName(descriptor)
		require.NoError(t, err)
		assert.Equal(t, dotted, got)
	}
}

func replaceDots(s string) string {
	out := []byte(s)
	for i, c := range out {
		if c == '.' {
			out[i] = '/'
		}
	}
	return string(out)
}

func TestParseArgumentListRoundTrips(t *testing.T) {
	cases := []string{
		"CLjava/lang/String;[C",
		"III",
		"[B[B[B",
		"",
	}
	for _, c := range cases {
		parts := ParseArgumentList(c)
		joined := ""
		for _, p := range parts {
			joined += p
		}
		assert.Equal(t, c, joined)
	}
}

func TestGetFieldDescriptor(t *testing.T) {
	name, typ, ok := GetFieldDescriptor(".field private static k:Ljava/lang/String;")
	require.True(t, ok)
	assert.Equal(t, "k", name)
	assert.Equal(t, "Ljava/lang/String;", typ)
}

func TestGetMethodSignature(t *testing.T) {
	name, args, ret, ok := GetMethodSignature(".method public static a(III)Ljava/lang/String;")
	require.True(t, ok)
	assert.Equal(t, "a", name)
	assert.Equal(t, []string{"I", "I", "I"}, args)
	assert.Equal(t, "Ljava/lang/String;", ret)
}

func TestShouldSkipLine(t *testing.T) {
	assert.True(t, ShouldSkipLine(""))
	assert.True(t, ShouldSkipLine("# a comment"))
	assert.True(t, ShouldSkipLine(":label"))
	assert.True(t, ShouldSkipLine(".locals 2"))
	assert.False(t, ShouldSkipLine("const/4 v0, 0x5"))
}
