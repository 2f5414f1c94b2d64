// Package output prints secrets API responses for the non-template
// commands.
package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/systmms/bwsconnect/internal/resolve"
)

// Format selects how decoded documents are written.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrNotJSON is returned when a field or YAML output is requested for a
// response body that is not JSON.
var ErrNotJSON = errors.New("response is not valid JSON, cannot extract field")

// Options controls Print.
type Options struct {
	// ParseValue decodes string-encoded JSON in "value" members.
	ParseValue bool

	// Field is a dot or slash separated path looked up in the secret value.
	Field string

	// Format is FormatJSON when empty.
	Format Format
}

// ParseFormat validates a --output flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported output format %q (use json or yaml)", s)
}

// Print writes body to w followed by a newline.
//
// Without options the body is written untouched. With ParseValue the
// top-level "value" and every data[i].value holding JSON text are decoded
// once and the document is pretty printed. Field prints only the requested
// member, looked up in the top-level value first and then in the first
// data item that has it; strings are printed raw.
func Print(w io.Writer, body []byte, opts Options) error {
	yamlOut := opts.Format == FormatYAML
	if !opts.ParseValue && opts.Field == "" && !yamlOut {
		return writeLine(w, string(body))
	}

	doc, err := resolve.Parse(body)
	if err != nil {
		if opts.Field != "" || yamlOut {
			return ErrNotJSON
		}
		return writeLine(w, string(body))
	}

	if opts.ParseValue || opts.Field != "" {
		doc = DecodeValues(doc)
	}

	if opts.Field != "" {
		found, ok := FindField(doc, opts.Field)
		if !ok {
			return fmt.Errorf("field not found: %s", opts.Field)
		}
		if s, isString := found.AsString(); isString {
			return writeLine(w, s)
		}
		return writeValue(w, found, opts.Format)
	}

	return writeValue(w, doc, opts.Format)
}

// DecodeValues returns doc with the top-level "value" and each
// data[i].value decoded when they hold JSON text.
func DecodeValues(doc resolve.Value) resolve.Value {
	if val, ok := doc.Field(resolve.ValueField); ok {
		doc = doc.With(resolve.ValueField, resolve.DecodeString(val))
	}
	if data, ok := doc.Field("data"); ok && data.Kind() == resolve.KindArray {
		doc = doc.With("data", data.Map(func(item resolve.Value) resolve.Value {
			if val, ok := item.Field(resolve.ValueField); ok {
				return item.With(resolve.ValueField, resolve.DecodeString(val))
			}
			return item
		}))
	}
	return doc
}

// FindField extracts path from the top-level value, or else from the first
// data item whose value has it.
func FindField(doc resolve.Value, path string) (resolve.Value, bool) {
	if val, ok := doc.Field(resolve.ValueField); ok {
		if found, ok := resolve.Extract(val, path); ok {
			return found, true
		}
	}
	data, ok := doc.Field("data")
	if !ok {
		return resolve.Null, false
	}
	for i := 0; i < data.Len(); i++ {
		item, _ := data.Index(i)
		val, ok := item.Field(resolve.ValueField)
		if !ok {
			continue
		}
		if found, ok := resolve.Extract(val, path); ok {
			return found, true
		}
	}
	return resolve.Null, false
}

func writeValue(w io.Writer, v resolve.Value, format Format) error {
	if format == FormatYAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(yamlNode(v.Interface())); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		_, err := w.Write(buf.Bytes())
		return err
	}

	pretty, err := v.PrettyJSON()
	if err != nil {
		return err
	}
	return writeLine(w, pretty)
}

// yamlNode converts a decoded JSON tree into a YAML node, keeping number
// literals and sorting object keys.
func yamlNode(v any) *yaml.Node {
	switch t := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case bool:
		val := "false"
		if t {
			val = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: val}
	case json.Number:
		tag := "!!float"
		if _, err := t.Int64(); err == nil {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: t.String()}
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t}
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, el := range t {
			n.Content = append(n.Content, yamlNode(el))
		}
		return n
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range keys {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				yamlNode(t[k]))
		}
		return n
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprint(v)}
}

func writeLine(w io.Writer, s string) error {
	_, err := io.WriteString(w, s+"\n")
	return err
}
