package resolve

import "strings"

// SplitPath splits a field path on "/" when it contains one and on "."
// otherwise. The delimiter is chosen once for the whole path.
func SplitPath(path string) []string {
	sep := "."
	if strings.Contains(path, "/") {
		sep = "/"
	}
	return strings.Split(path, sep)
}

// Extract walks v one object member per path segment. Any missing member,
// or any non-object on the way, is a miss: there is no partial result and
// no array indexing.
func Extract(v Value, path string) (Value, bool) {
	cur := v
	for _, segment := range SplitPath(path) {
		next, ok := cur.Field(segment)
		if !ok {
			return Null, false
		}
		cur = next
	}
	return cur, true
}

// Text renders v as replacement text: strings verbatim, everything else as
// compact JSON.
func Text(v Value) (string, error) {
	if s, ok := v.AsString(); ok {
		return s, nil
	}
	return v.CompactJSON()
}

// DisplayText renders v for terminal display: strings verbatim, everything
// else as indented JSON.
func DisplayText(v Value) (string, error) {
	if s, ok := v.AsString(); ok {
		return s, nil
	}
	return v.PrettyJSON()
}
