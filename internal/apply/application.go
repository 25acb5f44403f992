package apply

import "strings"

// Application is the typed record of a submitted job application.
type Application struct {
	FullName   string   `json:"full_name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone,omitempty"`
	Position   string   `json:"position"`
	Experience float64  `json:"experience"`
	Skills     []string `json:"skills,omitempty"`
	Portfolio  string   `json:"portfolio"`
	CV         FileRef  `json:"cv"`
	Motivation string   `json:"motivation"`
	Profile    string   `json:"profile,omitempty"`
}

// DecodeApplication maps a job form snapshot onto the typed record.
// Missing or mistyped values are left zero.
func DecodeApplication(values FormState) Application {
	text := func(name string) string {
		s, _ := values[name].Text()
		return strings.TrimSpace(s)
	}
	app := Application{
		FullName:   text("fullName"),
		Email:      text("email"),
		Phone:      text("phone"),
		Position:   text("position"),
		Portfolio:  text("portfolio"),
		Motivation: text("motivation"),
		Profile:    text("profile"),
	}
	app.Experience, _ = values["experience"].Number()
	app.CV, _ = values["cv"].File()
	for _, s := range strings.Split(text("skills"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			app.Skills = append(app.Skills, s)
		}
	}
	return app
}
