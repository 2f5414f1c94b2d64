package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{
			name:    "string_encoded_object",
			payload: `{"id":"1","key":"db","value":"{\"user\":\"admin\",\"password\":\"hunter2\"}"}`,
			want:    `{"password":"hunter2","user":"admin"}`,
		},
		{
			name:    "plain_string",
			payload: `{"key":"db","value":"hunter2"}`,
			want:    `"hunter2"`,
		},
		{
			name:    "numeric_string",
			payload: `{"value":"42"}`,
			want:    `42`,
		},
		{
			name:    "non_string_value",
			payload: `{"value":{"a":1}}`,
			want:    `{"a":1}`,
		},
		{
			name:    "no_value_field",
			payload: `{"user":"admin"}`,
			want:    `{"user":"admin"}`,
		},
		{
			name:    "decoded_once_only",
			payload: `{"value":"{\"inner\":\"{\\\"deep\\\":true}\"}"}`,
			want:    `{"inner":"{\"deep\":true}"}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v, err := NormalizeBytes([]byte(tt.payload))
			require.NoError(t, err)

			got, err := v.CompactJSON()
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, got)
		})
	}
}

func TestNormalizeKeepsNestedStrings(t *testing.T) {
	t.Parallel()

	v, err := NormalizeBytes([]byte(`{"value":"{\"inner\":\"{\\\"deep\\\":true}\"}"}`))
	require.NoError(t, err)

	inner, ok := v.Field("inner")
	require.True(t, ok)
	assert.Equal(t, KindString, inner.Kind(), "nested JSON text must stay a string")
}

func TestNormalizeBytesRejectsNonJSON(t *testing.T) {
	t.Parallel()

	_, err := NormalizeBytes([]byte("plain text body"))
	assert.Error(t, err)
}

func TestDecodeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KindObject, DecodeString(String(`{"a":1}`)).Kind())
	assert.Equal(t, String("nope"), DecodeString(String("nope")))
	assert.Equal(t, Null, DecodeString(Null))
}
