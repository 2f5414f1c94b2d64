package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerGrammar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Placeholder
	}{
		{
			name:  "key_and_path",
			input: "bws://minio_tf_volsync/secret_key",
			want: []Placeholder{{
				Raw: "bws://minio_tf_volsync/secret_key", Key: "minio_tf_volsync",
				Path: "secret_key", HasPath: true, Start: 0, End: 33,
			}},
		},
		{
			name:  "key_only",
			input: "bws://simplekey",
			want:  []Placeholder{{Raw: "bws://simplekey", Key: "simplekey", Start: 0, End: 15}},
		},
		{
			name:  "space_ends_key",
			input: "x bws://k /path",
			want:  []Placeholder{{Raw: "bws://k", Key: "k", Start: 2, End: 9}},
		},
		{
			name:  "nested_path",
			input: `"bws://db/a.b/c-d"`,
			want: []Placeholder{{
				Raw: "bws://db/a.b/c-d", Key: "db", Path: "a.b/c-d", HasPath: true, Start: 1, End: 17,
			}},
		},
		{
			name:  "trailing_slash_without_path",
			input: "bws://k/ next",
			want:  []Placeholder{{Raw: "bws://k", Key: "k", Start: 0, End: 7}},
		},
		{
			name:  "duplicates",
			input: "bws://k and bws://k",
			want: []Placeholder{
				{Raw: "bws://k", Key: "k", Start: 0, End: 7},
				{Raw: "bws://k", Key: "k", Start: 12, End: 19},
			},
		},
		{
			name:  "no_key",
			input: "bws:// and bws:/k and https://example.com",
			want:  nil,
		},
	}

	s := NewScanner("")
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, s.ScanAll(tt.input))
		})
	}
}

func TestScannerCustomScheme(t *testing.T) {
	t.Parallel()

	s := NewScanner("vault+kv")
	assert.Equal(t, "vault+kv", s.Scheme())

	got := s.ScanAll("a: vault+kv://db/password\nb: bws://db\nc: vaultkv://db")
	require.Len(t, got, 1)
	assert.Equal(t, "db", got[0].Key)
	assert.Equal(t, "password", got[0].Path)
}

func TestScanStopsEarly(t *testing.T) {
	t.Parallel()

	s := NewScanner(DefaultScheme)
	var keys []string
	for p := range s.Scan("bws://a bws://b bws://c") {
		keys = append(keys, p.Key)
		if len(keys) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestTargetPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "k", Placeholder{Key: "k"}.TargetPath())
	assert.Equal(t, "a.b", Placeholder{Key: "k", Path: "a.b", HasPath: true}.TargetPath())
}
