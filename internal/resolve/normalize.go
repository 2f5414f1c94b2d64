package resolve

// ValueField is the payload member that carries a secret's value.
const ValueField = "value"

// Normalize returns the secret value carried by a raw secret payload.
//
// When the payload has a "value" member holding a string that itself parses
// as JSON, the parsed tree is returned. A "value" string that is not JSON is
// returned as the string, and a non-string "value" is returned as is. A
// payload without a "value" member is its own value. Decoding happens once;
// string members nested inside the decoded tree are never decoded again.
func Normalize(payload Value) Value {
	val, ok := payload.Field(ValueField)
	if !ok {
		return payload
	}
	return DecodeString(val)
}

// NormalizeBytes parses a raw secret payload and normalizes it.
func NormalizeBytes(payload []byte) (Value, error) {
	v, err := Parse(payload)
	if err != nil {
		return Null, err
	}
	return Normalize(v), nil
}

// DecodeString parses v as JSON when it is a string holding a JSON document
// and returns v unchanged otherwise.
func DecodeString(v Value) Value {
	s, ok := v.AsString()
	if !ok {
		return v
	}
	parsed, err := ParseString(s)
	if err != nil {
		return v
	}
	return parsed
}
