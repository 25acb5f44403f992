package apply

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckField(t *testing.T) {
	pdfOnly := &FileRule{MaxBytes: 5 << 20, AllowedTypes: []string{"application/pdf", ".pdf"}}
	docs := &FileRule{MaxBytes: 2 << 20, AllowedTypes: []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}}

	tests := []struct {
		name    string
		field   Field
		value   Value
		present bool
		want    string
	}{
		{"optional absent", Field{Name: "phone", Kind: KindPhone}, Value{}, false, ""},
		{"required absent", Field{Name: "email", Label: "Email", Kind: KindEmail, Rule: Rule{Required: true}}, Value{}, false, "Email is required"},
		{"required whitespace", Field{Name: "email", Label: "Email", Kind: KindEmail, Rule: Rule{Required: true}}, Text("   "), true, "Email is required"},
		{"custom required message", Field{Name: "cv", Kind: KindFile, Rule: Rule{Required: true, RequiredMessage: "CV is required"}}, Value{}, false, "CV is required"},
		{"email ok", Field{Name: "email", Kind: KindEmail}, Text("x@y.com"), true, ""},
		{"email malformed", Field{Name: "email", Kind: KindEmail}, Text("x@y"), true, "Invalid email format"},
		{"email spaces", Field{Name: "email", Kind: KindEmail}, Text("x y@z.com"), true, "Invalid email format"},
		{"min length", Field{Name: "n", Label: "Name", Kind: KindText, Rule: Rule{MinLen: 2}}, Text("A"), true, "Name must be at least 2 characters"},
		{"min length counts runes", Field{Name: "n", Label: "Name", Kind: KindText, Rule: Rule{MinLen: 2}}, Text("Éa"), true, ""},
		{"max length", Field{Name: "n", Label: "Name", Kind: KindText, Rule: Rule{MaxLen: 3}}, Text("Alice"), true, "Name must be at most 3 characters"},
		{"url ok", Field{Name: "u", Label: "Portfolio", Kind: KindURL}, Text("https://a.dev/work"), true, ""},
		{"url no scheme", Field{Name: "u", Label: "Portfolio", Kind: KindURL}, Text("a.dev"), true, "Portfolio must be a valid http(s) URL"},
		{"url ftp", Field{Name: "u", Label: "Portfolio", Kind: KindURL}, Text("ftp://a.dev"), true, "Portfolio must be a valid http(s) URL"},
		{"phone ok", Field{Name: "p", Label: "Phone", Kind: KindPhone}, Text("+1 (555) 010-9999"), true, ""},
		{"phone letters", Field{Name: "p", Label: "Phone", Kind: KindPhone}, Text("call me"), true, "Phone must be a valid phone number"},
		{"number below zero", Field{Name: "x", Label: "Years", Kind: KindNumber, Rule: Rule{Min: Float(0)}}, Number(-2), true, "Years cannot be negative"},
		{"number below min", Field{Name: "x", Label: "Years", Kind: KindNumber, Rule: Rule{Min: Float(1)}}, Number(0.5), true, "Years must be at least 1"},
		{"number above max", Field{Name: "x", Label: "Years", Kind: KindNumber, Rule: Rule{Max: Float(60)}}, Text("61"), true, "Years must be at most 60"},
		{"number from text", Field{Name: "x", Label: "Years", Kind: KindNumber}, Text(" 7 "), true, ""},
		{"number NaN", Field{Name: "x", Label: "Years", Kind: KindNumber, Rule: Rule{Min: Float(0)}}, Text("NaN"), true, "Years must be a number"},
		{"number infinity", Field{Name: "x", Label: "Years", Kind: KindNumber}, Text("+Inf"), true, "Years must be a number"},
		{"number hex float", Field{Name: "x", Label: "Years", Kind: KindNumber}, Text("0x1p3"), true, "Years must be a number"},
		{"number underscores", Field{Name: "x", Label: "Years", Kind: KindNumber}, Text("1_0"), true, "Years must be a number"},
		{"number exponent", Field{Name: "x", Label: "Years", Kind: KindNumber, Rule: Rule{Max: Float(60)}}, Text("1e1"), true, ""},
		{"number NaN value", Field{Name: "x", Label: "Years", Kind: KindNumber}, Number(math.NaN()), true, "Years must be a number"},
		{"select ok", Field{Name: "s", Kind: KindSelect, Options: Positions}, Text("designer"), true, ""},
		{"select unknown", Field{Name: "s", Label: "Position", Kind: KindSelect, Options: Positions}, Text("ceo"), true, "Position must be one of: Developer, Designer, Product Manager"},
		{"file ok", Field{Name: "cv", Label: "CV", Kind: KindFile, Rule: Rule{File: pdfOnly}}, File(FileRef{Name: "a.pdf", Size: 10, MIMEType: "application/pdf"}), true, ""},
		{"file by extension", Field{Name: "cv", Label: "CV", Kind: KindFile, Rule: Rule{File: pdfOnly}}, File(FileRef{Name: "a.PDF", Size: 10}), true, ""},
		{"file empty", Field{Name: "cv", Label: "CV", Kind: KindFile, Rule: Rule{File: pdfOnly}}, File(FileRef{Name: "a.pdf"}), true, "CV is empty"},
		{"file too large", Field{Name: "cv", Label: "CV", Kind: KindFile, Rule: Rule{File: docs}}, File(FileRef{Name: "a.pdf", Size: 3 << 20, MIMEType: "application/pdf"}), true, "CV must be 2.0 MiB or smaller"},
		{"file wrong type", Field{Name: "cv", Label: "CV", Kind: KindFile, Rule: Rule{File: pdfOnly}}, File(FileRef{Name: "a.png", Size: 10, MIMEType: "image/png"}), true, "Invalid file format. Only PDF is allowed"},
		{"file wrong type several", Field{Name: "cv", Label: "CV", Kind: KindFile, Rule: Rule{File: docs}}, File(FileRef{Name: "a.txt", Size: 10, MIMEType: "text/plain"}), true, "Invalid file format. Only PDF, DOC or DOCX are allowed"},
		{"file as text", Field{Name: "cv", Label: "CV", Kind: KindFile, Rule: Rule{File: pdfOnly}}, Text("a.pdf"), true, "CV must be a file"},
		{"checkbox", Field{Name: "ok", Label: "Consent", Kind: KindCheckbox, Rule: Rule{Required: true}}, Bool(false), true, "Consent is required"},
		{"label falls back to name", Field{Name: "nick", Kind: KindText, Rule: Rule{Required: true}}, Value{}, false, "nick is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckField(tt.field, tt.value, tt.present))
		})
	}
}

func TestValidate_StepWithoutFieldsIsValid(t *testing.T) {
	res := Validate(Step{Title: "Welcome"}, FormState{"junk": Text("x")})
	assert.True(t, res.OK())
}

func TestValidate_ChecksPresentOptionalValues(t *testing.T) {
	step := JobApplication(DefaultJobOptions()).Steps[5]
	form := FormState{
		"motivation": Text(validMotivation),
		"profile":    Text("linkedin"),
	}

	res := Validate(step, form)
	require.False(t, res.OK())
	assert.Equal(t, []FieldError{{Field: "profile", Message: "LinkedIn or Other Profile must be a valid http(s) URL"}}, res.Errors())

	// The required-only view used for gating ignores it.
	assert.True(t, Validate(step.Required(), form).OK())
}

func TestValidateRequired_CoversEveryStep(t *testing.T) {
	def := JobApplication(DefaultJobOptions())

	res := ValidateRequired(def, FormState{})
	var fields []string
	for _, fe := range res.Errors() {
		fields = append(fields, fe.Field)
	}
	assert.Equal(t, []string{"cv", "email", "experience", "fullName", "motivation", "portfolio", "position"}, fields)
}

func TestFieldError_Error(t *testing.T) {
	err := FieldError{Field: "email", Message: "Email is required"}
	assert.EqualError(t, err, "email: Email is required")
}

func TestDescribeTypes(t *testing.T) {
	assert.Equal(t, "any type", DescribeTypes(nil))
	assert.Equal(t, "PDF is", DescribeTypes([]string{".pdf", "application/pdf"}))
	assert.Equal(t, "PDF or DOC are", DescribeTypes([]string{"application/pdf", ".doc"}))
	assert.Equal(t, "rtf is", DescribeTypes([]string{".rtf"}))
}

func TestFileRule_AllowsIgnoresMIMEParameters(t *testing.T) {
	r := FileRule{AllowedTypes: []string{"application/pdf"}}
	assert.True(t, r.Allows(FileRef{Name: "x", MIMEType: "application/pdf; charset=binary"}))
	assert.False(t, r.Allows(FileRef{Name: "x.pdf", MIMEType: "text/plain"}))
}
