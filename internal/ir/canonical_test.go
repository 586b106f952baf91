package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", IRString("hello"), `"hello"`},
		{"int", IRInt(-42), `-42`},
		{"bool", IRBool(true), `true`},
		{"null", IRNull{}, `null`},
		{"empty array", IRArray{}, `[]`},
		{"empty object", IRObject{}, `{}`},
		{"reference", NewReference("svc"), `{"$ref":"svc"}`},
		{"go map", map[string]any{"b": 1, "a": "x"}, `{"a":"x","b":1}`},
		{"go slice", []any{true, int64(2)}, `[true,2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonicalNestedSortedKeys(t *testing.T) {
	obj := IRObject{
		"z": IRObject{"y": IRInt(1), "x": IRInt(2)},
		"a": IRArray{IRObject{"d": IRBool(false), "c": IRString("s")}},
	}
	got, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":[{"c":"s","d":false}],"z":{"x":2,"y":1}}`, string(got))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	got, err := MarshalCanonical(IRString("<a & b>"))
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, string(got))
}

func TestMarshalCanonicalEscapes(t *testing.T) {
	got, err := MarshalCanonical(IRString("q\"b\\n\nt\tc\x01"))
	require.NoError(t, err)
	assert.Equal(t, `"q\"b\\n\nt\tc\u0001"`, string(got))
}

func TestMarshalCanonicalLineSeparatorsLiteral(t *testing.T) {
	got, err := MarshalCanonical(IRString("a\u2028b\u2029c"))
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(got))
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	// "e" + combining acute accent normalizes to a single U+00E9.
	got, err := MarshalCanonical(IRString("cafe\u0301"))
	require.NoError(t, err)
	assert.Equal(t, "\"caf\u00e9\"", string(got))
}

func TestMarshalCanonicalRejectsFloatsAndNil(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"p": 1.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")

	_, err = MarshalCanonical(nil)
	require.Error(t, err)

	_, err = MarshalCanonical(IRArray{nil})
	require.Error(t, err)
}

func TestMarshalCanonicalUnsupportedType(t *testing.T) {
	_, err := MarshalCanonical(struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
}
