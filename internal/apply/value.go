package apply

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind identifies which variant a Value holds.
type ValueKind int

const (
	ValueEmpty ValueKind = iota
	ValueText
	ValueNumber
	ValueBool
	ValueFile
)

// String returns the string representation of a value kind
func (k ValueKind) String() string {
	switch k {
	case ValueEmpty:
		return "empty"
	case ValueText:
		return "text"
	case ValueNumber:
		return "number"
	case ValueBool:
		return "bool"
	case ValueFile:
		return "file"
	default:
		return "unknown"
	}
}

// FileRef describes a file chosen by the user. Only metadata is kept;
// the file contents never enter the form.
type FileRef struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MIMEType string `json:"mime_type"`
}

// Value is a single form value: text, number, boolean or file reference.
// The zero Value is empty.
type Value struct {
	kind ValueKind
	text string
	num  float64
	flag bool
	file FileRef
}

// Text returns a text value.
func Text(s string) Value { return Value{kind: ValueText, text: s} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: ValueNumber, num: n} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: ValueBool, flag: b} }

// File returns a file reference value.
func File(f FileRef) Value { return Value{kind: ValueFile, file: f} }

// Kind reports which variant the value holds.
func (v Value) Kind() ValueKind { return v.kind }

// IsEmpty reports whether the value counts as "not provided".
// Whitespace-only text and an unchecked boolean are empty.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case ValueText:
		return strings.TrimSpace(v.text) == ""
	case ValueBool:
		return !v.flag
	case ValueFile:
		return v.file.Name == ""
	case ValueNumber:
		return false
	default:
		return true
	}
}

// Text returns the text held by the value.
func (v Value) Text() (string, bool) {
	if v.kind != ValueText {
		return "", false
	}
	return v.text, true
}

// Number returns the number held by the value. Text that parses as a
// number is accepted, since terminal and form inputs deliver strings.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case ValueNumber:
		return v.num, finite(v.num)
	case ValueText:
		s := strings.TrimSpace(v.text)
		if !isDecimal(s) {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || !finite(n) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func finite(n float64) bool { return !math.IsNaN(n) && !math.IsInf(n, 0) }

// isDecimal rejects the spellings ParseFloat accepts beyond plain decimal
// notation: NaN, Inf, hex floats and digit separators.
func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '-', r == '+', r == 'e', r == 'E':
		default:
			return false
		}
	}
	return true
}

// Bool returns the boolean held by the value.
func (v Value) Bool() (bool, bool) {
	if v.kind != ValueBool {
		return false, false
	}
	return v.flag, true
}

// File returns the file reference held by the value.
func (v Value) File() (FileRef, bool) {
	if v.kind != ValueFile {
		return FileRef{}, false
	}
	return v.file, true
}

// String renders the value for display.
func (v Value) String() string {
	switch v.kind {
	case ValueText:
		return v.text
	case ValueNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case ValueBool:
		if v.flag {
			return "yes"
		}
		return "no"
	case ValueFile:
		return v.file.Name
	default:
		return ""
	}
}

// MarshalJSON encodes text, numbers and booleans as JSON scalars and files
// as objects.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueText:
		return json.Marshal(v.text)
	case ValueNumber:
		return json.Marshal(v.num)
	case ValueBool:
		return json.Marshal(v.flag)
	case ValueFile:
		return json.Marshal(v.file)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ValueOf converts a decoded JSON value (as produced by encoding/json or
// an MCP argument map) into a Value.
func ValueOf(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Value{}, nil
	case string:
		return Text(x), nil
	case float64:
		return Number(x), nil
	case int:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case bool:
		return Bool(x), nil
	case map[string]any:
		ref := FileRef{}
		ref.Name, _ = x["name"].(string)
		ref.MIMEType, _ = x["mime_type"].(string)
		switch size := x["size"].(type) {
		case float64:
			ref.Size = int64(size)
		case int:
			ref.Size = int64(size)
		case int64:
			ref.Size = size
		}
		return File(ref), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", raw)
	}
}

// FormState holds the values entered during one wizard session, keyed by
// field name.
type FormState map[string]Value

// Clone returns a copy that shares nothing with the receiver.
func (f FormState) Clone() FormState {
	out := make(FormState, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
