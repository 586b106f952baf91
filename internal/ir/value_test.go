package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIRValueSealed(t *testing.T) {
	var values []IRValue = []IRValue{
		IRNull{}, IRString("a"), IRInt(1), IRBool(true),
		IRArray{}, IRObject{}, NewReference("svc"),
	}
	assert.Len(t, values, 7)
}

func TestIRObjectSortedKeysUTF16Order(t *testing.T) {
	// U+1F600 sorts after U+FFFD by code point but before it in UTF-16,
	// because the emoji encodes as a surrogate pair starting at 0xD83D.
	obj := IRObject{
		"\U0001F600": IRInt(1),
		"\uFFFD":     IRInt(2),
		"b":          IRInt(3),
		"a":          IRInt(4),
	}
	assert.Equal(t, []string{"a", "b", "\U0001F600", "\uFFFD"}, obj.SortedKeys())
}

func TestIRObjectMarshalJSONSortedKeys(t *testing.T) {
	obj := IRObject{"zeta": IRInt(1), "alpha": IRString("x"), "mid": IRBool(false)}
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":"x","mid":false,"zeta":1}`, string(data))
}

func TestIRArrayNilMarshalsEmpty(t *testing.T) {
	var arr IRArray
	data, err := json.Marshal(arr)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestReferenceJSONRoundTrip(t *testing.T) {
	arr := IRArray{NewReference("app.mailer"), IRString("@not-a-ref"), IRObject{"k": NewReference("x")}}
	data, err := json.Marshal(arr)
	require.NoError(t, err)
	assert.Equal(t, `[{"$ref":"app.mailer"},"@not-a-ref",{"k":{"$ref":"x"}}]`, string(data))

	var decoded IRArray
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, arr, decoded)
}

func TestUnmarshalIRValueRejectsFloats(t *testing.T) {
	_, err := UnmarshalIRValue([]byte(`1.5`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")

	_, err = UnmarshalIRValue([]byte(`{"a":[1,2.25]}`))
	require.Error(t, err)
}

func TestUnmarshalIRValueNullBecomesIRNull(t *testing.T) {
	v, err := UnmarshalIRValue([]byte(` null `))
	require.NoError(t, err)
	assert.Equal(t, IRNull{}, v)
}

func TestUnmarshalIRValueObjectWithRefAndOtherKeysStaysObject(t *testing.T) {
	v, err := UnmarshalIRValue([]byte(`{"$ref":"a","extra":1}`))
	require.NoError(t, err)
	assert.Equal(t, IRObject{"$ref": IRString("a"), "extra": IRInt(1)}, v)
}

func TestFromGo(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want IRValue
	}{
		{"nil", nil, IRNull{}},
		{"string", "x", IRString("x")},
		{"int", 7, IRInt(7)},
		{"int64", int64(-3), IRInt(-3)},
		{"integral float", 10.0, IRInt(10)},
		{"bool", true, IRBool(true)},
		{"list", []any{"a", 1}, IRArray{IRString("a"), IRInt(1)}},
		{"map", map[string]any{"p": 5}, IRObject{"p": IRInt(5)}},
		{"passthrough", NewReference("svc"), NewReference("svc")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromGo(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromGoRejectsFractionalFloat(t *testing.T) {
	_, err := FromGo(map[string]any{"priority": 1.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")
}

func TestReferencesWalksNestedValues(t *testing.T) {
	v := IRArray{
		NewReference("a"),
		IRObject{"z": NewReference("c"), "b": IRArray{NewReference("b")}},
		IRString("@d"),
	}
	assert.Equal(t, []Reference{{ID: "a"}, {ID: "b"}, {ID: "c"}}, References(v))
}

func TestReferenceMapObject(t *testing.T) {
	m := ReferenceMap{"json": NewReference("h.json"), "xml": NewReference("h.xml")}
	assert.Equal(t, []string{"json", "xml"}, m.SortedKeys())
	assert.Equal(t, IRObject{"json": NewReference("h.json"), "xml": NewReference("h.xml")}, m.Object())
}

func TestIsReferenceShape(t *testing.T) {
	assert.True(t, IsReferenceShape(IRObject{"$ref": IRString("svc")}))
	assert.False(t, IsReferenceShape(IRObject{"$ref": IRInt(1)}))
	assert.False(t, IsReferenceShape(IRObject{"$ref": IRString("svc"), "x": IRNull{}}))
	assert.False(t, IsReferenceShape(IRObject{}))
}
