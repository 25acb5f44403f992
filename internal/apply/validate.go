package apply

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// FieldError is a validation failure on a single field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Result maps field names to error messages. Fields that passed are absent.
type Result map[string]string

// OK reports whether every checked field passed.
func (r Result) OK() bool { return len(r) == 0 }

// Errors returns the failures sorted by field name.
func (r Result) Errors() []FieldError {
	out := make([]FieldError, 0, len(r))
	for field, msg := range r {
		out = append(out, FieldError{Field: field, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks every field of step against form. Required fields must be
// present; present values must satisfy their field's constraints.
func Validate(step Step, form FormState) Result {
	res := Result{}
	for _, f := range step.Fields {
		v, ok := form[f.Name]
		if msg := CheckField(f, v, ok); msg != "" {
			res[f.Name] = msg
		}
	}
	return res
}

// ValidateRequired checks the required fields of every step at once. It is
// the final gate before submission: a user may have gone back and cleared a
// value that was valid when its step was left.
func ValidateRequired(def Definition, form FormState) Result {
	res := Result{}
	for _, s := range def.Steps {
		for field, msg := range Validate(s.Required(), form) {
			res[field] = msg
		}
	}
	return res
}

// CheckField validates one value against its field declaration and returns
// the error message, or "" when the value is acceptable.
func CheckField(f Field, v Value, present bool) string {
	if !present || v.IsEmpty() {
		if f.Rule.Required {
			return requiredMessage(f)
		}
		return ""
	}

	label := fieldLabel(f)
	switch f.Kind {
	case KindNumber:
		n, ok := v.Number()
		if !ok {
			return fmt.Sprintf("%s must be a number", label)
		}
		if f.Rule.Min != nil && n < *f.Rule.Min {
			if *f.Rule.Min == 0 {
				return fmt.Sprintf("%s cannot be negative", label)
			}
			return fmt.Sprintf("%s must be at least %s", label, Number(*f.Rule.Min))
		}
		if f.Rule.Max != nil && n > *f.Rule.Max {
			return fmt.Sprintf("%s must be at most %s", label, Number(*f.Rule.Max))
		}
		return ""

	case KindFile:
		ref, ok := v.File()
		if !ok {
			return fmt.Sprintf("%s must be a file", label)
		}
		return checkFile(label, f.Rule.File, ref)

	case KindCheckbox:
		if _, ok := v.Bool(); !ok {
			return fmt.Sprintf("%s must be yes or no", label)
		}
		return ""
	}

	s, ok := v.Text()
	if !ok {
		return fmt.Sprintf("%s must be text", label)
	}
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	if f.Rule.MinLen > 0 && n < f.Rule.MinLen {
		return fmt.Sprintf("%s must be at least %d characters", label, f.Rule.MinLen)
	}
	if f.Rule.MaxLen > 0 && n > f.Rule.MaxLen {
		return fmt.Sprintf("%s must be at most %d characters", label, f.Rule.MaxLen)
	}

	switch f.Kind {
	case KindEmail:
		if !emailPattern.MatchString(s) {
			return "Invalid email format"
		}
	case KindURL:
		if !isWebURL(s) {
			return fmt.Sprintf("%s must be a valid http(s) URL", label)
		}
	case KindPhone:
		if !isPhone(s) {
			return fmt.Sprintf("%s must be a valid phone number", label)
		}
	case KindSelect:
		if !hasOption(f.Options, s) {
			return fmt.Sprintf("%s must be one of: %s", label, optionList(f.Options))
		}
	}
	return ""
}

func checkFile(label string, rule *FileRule, ref FileRef) string {
	if ref.Size <= 0 {
		return fmt.Sprintf("%s is empty", label)
	}
	if rule == nil {
		return ""
	}
	if rule.MaxBytes > 0 && ref.Size > rule.MaxBytes {
		return fmt.Sprintf("%s must be %s or smaller", label, humanize.IBytes(uint64(rule.MaxBytes)))
	}
	if !rule.Allows(ref) {
		return fmt.Sprintf("Invalid file format. Only %s allowed", DescribeTypes(rule.AllowedTypes))
	}
	return ""
}

var typeNames = map[string]string{
	"application/pdf":    "PDF",
	"application/msword": "DOC",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "DOCX",
	".pdf":  "PDF",
	".doc":  "DOC",
	".docx": "DOCX",
}

// DescribeTypes renders an allowed type list for humans: "PDF or DOC".
func DescribeTypes(types []string) string {
	var names []string
	seen := make(map[string]bool)
	for _, t := range types {
		name, ok := typeNames[strings.ToLower(t)]
		if !ok {
			name = strings.TrimPrefix(t, ".")
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	switch len(names) {
	case 0:
		return "any type"
	case 1:
		return names[0] + " is"
	default:
		return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1] + " are"
	}
}

func requiredMessage(f Field) string {
	if f.Rule.RequiredMessage != "" {
		return f.Rule.RequiredMessage
	}
	return fieldLabel(f) + " is required"
}

func fieldLabel(f Field) string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

func isWebURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func isPhone(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return false
		}
	}
	return digits >= 6 && digits <= 15
}

func hasOption(options []Option, value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}

func optionList(options []Option) string {
	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o.Label
	}
	return strings.Join(labels, ", ")
}
