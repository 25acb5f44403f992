package apply

import (
	"path/filepath"
	"strings"
)

// FieldKind tells the presentation layer which input to render and the
// validator which format checks apply.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextArea FieldKind = "textarea"
	KindEmail    FieldKind = "email"
	KindURL      FieldKind = "url"
	KindPhone    FieldKind = "tel"
	KindNumber   FieldKind = "number"
	KindSelect   FieldKind = "select"
	KindFile     FieldKind = "file"
	KindCheckbox FieldKind = "checkbox"
)

// Option is one choice of a select field.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// FileRule constrains a file field.
type FileRule struct {
	MaxBytes int64 // 0 = no limit
	// AllowedTypes holds MIME types ("application/pdf") or extensions
	// (".pdf"). Empty allows any type.
	AllowedTypes []string
}

// Allows reports whether ref matches one of the allowed types.
func (r FileRule) Allows(ref FileRef) bool {
	if len(r.AllowedTypes) == 0 {
		return true
	}
	mimeType := strings.ToLower(strings.TrimSpace(ref.MIMEType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	ext := strings.ToLower(filepath.Ext(ref.Name))
	for _, allowed := range r.AllowedTypes {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		if strings.HasPrefix(allowed, ".") {
			if ext == allowed {
				return true
			}
			continue
		}
		if mimeType == allowed {
			return true
		}
	}
	return false
}

// Rule is the validation rule attached to a field.
type Rule struct {
	Required bool
	// RequiredMessage overrides the default "<Label> is required".
	RequiredMessage string

	MinLen int // in runes, 0 = unchecked
	MaxLen int // in runes, 0 = unchecked

	Min *float64 // number fields
	Max *float64

	File *FileRule // file fields
}

// Field declares one input of a step.
type Field struct {
	Name        string
	Label       string
	Kind        FieldKind
	Placeholder string
	Help        string
	Options     []Option // select fields
	Rule        Rule
}

// OptionLabel returns the label for an option value, or the value itself
// when the field has no such option.
func (f Field) OptionLabel(value string) string {
	for _, o := range f.Options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// Float is a helper for building Rule.Min / Rule.Max literals.
func Float(v float64) *float64 { return &v }
