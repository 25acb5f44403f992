package apply

import (
	"fmt"
	"sort"
)

// Form ids.
const (
	FormJob     = "job"
	FormContact = "contact"
)

// Default CV constraints: 5 MB, PDF only.
const DefaultCVMaxBytes int64 = 5 * 1024 * 1024

// DefaultCVTypes lists the CV types accepted by default.
var DefaultCVTypes = []string{"application/pdf", ".pdf"}

// JobOptions tunes the job application form.
type JobOptions struct {
	CVMaxBytes int64
	CVTypes    []string
}

// DefaultJobOptions returns the default CV constraints.
func DefaultJobOptions() JobOptions {
	return JobOptions{
		CVMaxBytes: DefaultCVMaxBytes,
		CVTypes:    append([]string(nil), DefaultCVTypes...),
	}
}

// Positions open for application.
var Positions = []Option{
	{Value: "developer", Label: "Developer"},
	{Value: "designer", Label: "Designer"},
	{Value: "product_manager", Label: "Product Manager"},
}

// JobApplication is the seven-step application wizard. Welcome and
// "Almost Done" are informational and do not count towards progress.
func JobApplication(opts JobOptions) Definition {
	if opts.CVMaxBytes <= 0 {
		opts.CVMaxBytes = DefaultCVMaxBytes
	}
	if len(opts.CVTypes) == 0 {
		opts.CVTypes = append([]string(nil), DefaultCVTypes...)
	}
	cvHelp := fmt.Sprintf("Path to your CV (%s only, max %s). Only its name, size and type are recorded.",
		typeList(opts.CVTypes), sizeLabel(opts.CVMaxBytes))

	return Definition{
		ID:    FormJob,
		Title: "Join PlayPals Studio",
		Steps: []Step{
			{
				Title: "Welcome",
				Body: "We're thrilled that you're considering applying. Learn more about " +
					"our vibrant community and modern work culture.",
			},
			{
				Title:   "Personal Information",
				Counted: true,
				Fields: []Field{
					{
						Name:  "fullName",
						Label: "Full Name",
						Kind:  KindText,
						Rule:  Rule{Required: true, RequiredMessage: "Name is required", MinLen: 2, MaxLen: 100},
					},
					{
						Name:  "email",
						Label: "Email",
						Kind:  KindEmail,
						Rule:  Rule{Required: true, RequiredMessage: "Email is required"},
					},
					{
						Name:  "phone",
						Label: "Phone Number (Optional)",
						Kind:  KindPhone,
					},
				},
			},
			{
				Title:   "Position & Experience",
				Counted: true,
				Fields: []Field{
					{
						Name:    "position",
						Label:   "Position Applying For",
						Kind:    KindSelect,
						Options: Positions,
						Rule:    Rule{Required: true, RequiredMessage: "Please select a position"},
					},
					{
						Name:  "experience",
						Label: "Years of Experience",
						Kind:  KindNumber,
						Rule:  Rule{Required: true, RequiredMessage: "Experience is required", Min: Float(0), Max: Float(60)},
					},
					{
						Name:        "skills",
						Label:       "Key Skills (comma separated)",
						Kind:        KindText,
						Placeholder: "Go, Unity, shaders",
					},
				},
			},
			{
				Title: "Almost Done",
				Body:  "You're nearly there. Get ready to share your portfolio and upload your CV.",
			},
			{
				Title:   "Portfolio & CV Upload",
				Counted: true,
				Fields: []Field{
					{
						Name:        "portfolio",
						Label:       "Portfolio Link",
						Kind:        KindURL,
						Placeholder: "https://",
						Rule:        Rule{Required: true, RequiredMessage: "Portfolio link is required"},
					},
					{
						Name:  "cv",
						Label: "CV",
						Kind:  KindFile,
						Help:  cvHelp,
						Rule: Rule{
							Required:        true,
							RequiredMessage: "CV is required",
							File:            &FileRule{MaxBytes: opts.CVMaxBytes, AllowedTypes: opts.CVTypes},
						},
					},
				},
			},
			{
				Title:   "Additional Information",
				Counted: true,
				Fields: []Field{
					{
						Name:  "motivation",
						Label: "Why do you want to join PlayPals Studio?",
						Kind:  KindTextArea,
						Rule:  Rule{Required: true, RequiredMessage: "This field is required", MinLen: 50, MaxLen: 5000},
					},
					{
						Name:        "profile",
						Label:       "LinkedIn or Other Profile",
						Kind:        KindURL,
						Placeholder: "https://",
					},
				},
			},
			{
				Title:   "Review & Submit",
				Body:    "Please review your information before submitting.",
				Counted: true,
			},
		},
	}
}

// ProjectTypes offered on the contact form.
var ProjectTypes = []Option{
	{Value: "game", Label: "Game Development"},
	{Value: "tool", Label: "Tool Development"},
	{Value: "consulting", Label: "Consulting"},
	{Value: "other", Label: "Other"},
}

// Contact is the studio contact form as a single counted step.
func Contact() Definition {
	return Definition{
		ID:    FormContact,
		Title: "Contact PlayPals Studio",
		Steps: []Step{
			{
				Title:   "Get in Touch",
				Counted: true,
				Fields: []Field{
					{Name: "name", Label: "Your Name", Kind: KindText, Rule: Rule{Required: true, MinLen: 2}},
					{Name: "email", Label: "Your Email", Kind: KindEmail, Rule: Rule{Required: true}},
					{Name: "subject", Label: "Subject", Kind: KindText, Rule: Rule{Required: true, MaxLen: 200}},
					{Name: "company", Label: "Company Name", Kind: KindText},
					{Name: "projectType", Label: "Project Type", Kind: KindSelect, Options: ProjectTypes},
					{Name: "budget", Label: "Budget Range", Kind: KindText},
					{Name: "timeline", Label: "Project Timeline", Kind: KindText},
					{Name: "message", Label: "Your Message", Kind: KindTextArea, Rule: Rule{Required: true, MinLen: 10, MaxLen: 5000}},
				},
			},
		},
	}
}

// Lookup returns the definition for a form id.
func Lookup(id string, opts JobOptions) (Definition, error) {
	switch id {
	case FormJob:
		return JobApplication(opts), nil
	case FormContact:
		return Contact(), nil
	default:
		return Definition{}, fmt.Errorf("unknown form %q (available: %v)", id, FormIDs())
	}
}

// FormIDs lists the known form ids.
func FormIDs() []string {
	ids := []string{FormJob, FormContact}
	sort.Strings(ids)
	return ids
}

func typeList(types []string) string {
	var names []string
	seen := make(map[string]bool)
	for _, t := range types {
		name, ok := typeNames[t]
		if !ok {
			name = t
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	out := ""
	for i, n := range names {
		if i > 0 {
			out += "/"
		}
		out += n
	}
	return out
}

func sizeLabel(n int64) string {
	const mb = 1024 * 1024
	if n%mb == 0 {
		return fmt.Sprintf("%dMB", n/mb)
	}
	return fmt.Sprintf("%d bytes", n)
}
