package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", "a", []string{"a"}},
		{"two", "a\nb", []string{"a", "b"}},
		{"trailing_newline", "a\nb\n", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"blank_middle", "a\n\nb", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, splitLines(tt.input))
		})
	}
}

func TestLineAt(t *testing.T) {
	t.Parallel()

	text := "first\n  second bws://k\nthird"
	start := len("first\n  second ")
	assert.Equal(t, "  second bws://k", lineAt(text, start, start+len("bws://k")))
	assert.Equal(t, "first", lineAt(text, 0, 5))
	assert.Equal(t, "third", lineAt(text, len(text)-5, len(text)))
}

func TestAdjustIndent(t *testing.T) {
	t.Parallel()

	place := func(input, raw string) Placeholder {
		p := NewScanner("").ScanAll(input)
		for _, ph := range p {
			if ph.Raw == raw {
				return ph
			}
		}
		t.Fatalf("placeholder %s not in %q", raw, input)
		return Placeholder{}
	}

	tests := []struct {
		name        string
		input       string
		replacement string
		want        string
	}{
		{
			name:        "own_line_spaces",
			input:       "key: |\n    bws://k\n",
			replacement: "line1\nline2",
			want:        "line1\n    line2",
		},
		{
			name:        "own_line_tabs",
			input:       "\t\tbws://k",
			replacement: "a\nb\nc\n",
			want:        "a\n\t\tb\n\t\tc",
		},
		{
			name:        "trailing_spaces_on_line",
			input:       "  bws://k   \n",
			replacement: "a\nb",
			want:        "a\n  b",
		},
		{
			name:        "inline",
			input:       "key: bws://k\n",
			replacement: "a\nb",
			want:        "a\nb",
		},
		{
			name:        "single_line_value",
			input:       "    bws://k\n",
			replacement: "plain",
			want:        "plain",
		},
		{
			name:        "unindented",
			input:       "bws://k",
			replacement: "a\nb\n",
			want:        "a\nb",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := place(tt.input, "bws://k")
			assert.Equal(t, tt.want, adjustIndent(tt.input, p, tt.replacement))
		})
	}
}
