package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const secretBody = `{"id":"5c1e","organizationId":"org","key":"db","value":"{\"user\":\"admin\",\"port\":5432,\"tls\":{\"mode\":\"verify\"}}","note":""}`

const listBody = `{"data":[{"id":"1","key":"plain","value":"nope"},{"id":"2","key":"db","value":"{\"password\":\"hunter2\"}"}]}`

func TestPrint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		opts    Options
		want    string
		wantErr string
	}{
		{
			name: "raw_passthrough",
			body: secretBody,
			want: secretBody + "\n",
		},
		{
			name: "raw_non_json",
			body: "Internal Server Error",
			opts: Options{ParseValue: true},
			want: "Internal Server Error\n",
		},
		{
			name:    "field_on_non_json",
			body:    "Internal Server Error",
			opts:    Options{Field: "user"},
			wantErr: "response is not valid JSON",
		},
		{
			name: "field_string_raw",
			body: secretBody,
			opts: Options{Field: "user"},
			want: "admin\n",
		},
		{
			name: "field_number",
			body: secretBody,
			opts: Options{Field: "port"},
			want: "5432\n",
		},
		{
			name: "field_object_pretty",
			body: secretBody,
			opts: Options{Field: "tls"},
			want: "{\n  \"mode\": \"verify\"\n}\n",
		},
		{
			name: "field_slash_path",
			body: secretBody,
			opts: Options{Field: "tls/mode"},
			want: "verify\n",
		},
		{
			name:    "field_missing",
			body:    secretBody,
			opts:    Options{Field: "tls.nope"},
			wantErr: "field not found: tls.nope",
		},
		{
			name: "field_from_data_items",
			body: listBody,
			opts: Options{Field: "password"},
			want: "hunter2\n",
		},
		{
			name: "parse_value_pretty",
			body: `{"key":"db","value":"{\"a\":1}"}`,
			opts: Options{ParseValue: true},
			want: "{\n  \"key\": \"db\",\n  \"value\": {\n    \"a\": 1\n  }\n}\n",
		},
		{
			name: "parse_value_data_items",
			body: `{"data":[{"value":"[1,2]"},{"value":"text"}]}`,
			opts: Options{ParseValue: true},
			want: "{\n  \"data\": [\n    {\n      \"value\": [\n        1,\n        2\n      ]\n    },\n    {\n      \"value\": \"text\"\n    }\n  ]\n}\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			err := Print(&buf, []byte(tt.body), tt.opts)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrintYAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Print(&buf, []byte(`{"data":[{"id":"1","key":"db","count":3,"ratio":0.5,"on":true,"gone":null}]}`),
		Options{Format: FormatYAML})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, map[string]any{
		"data": []any{map[string]any{
			"id": "1", "key": "db", "count": 3, "ratio": 0.5, "on": true, "gone": nil,
		}},
	}, got)
}

func TestPrintYAMLRequiresJSON(t *testing.T) {
	t.Parallel()

	err := Print(&bytes.Buffer{}, []byte("nope"), Options{Format: FormatYAML})
	assert.ErrorIs(t, err, ErrNotJSON)
}

func TestPrintYAMLField(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, []byte(secretBody), Options{Field: "tls", Format: FormatYAML}))
	assert.Equal(t, "mode: verify\n", buf.String())
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("yaml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("toml")
	assert.ErrorContains(t, err, "unsupported output format")
}
