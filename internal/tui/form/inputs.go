package form

import (
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/playpals/studio/internal/apply"
	"github.com/playpals/studio/internal/tui/theme"
)

// input is the editor behind one form field.
type input interface {
	Focus() tea.Cmd
	Blur()
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetWidth(w int)
	// Value converts the editor content into a form value. An error is a
	// local problem (such as a missing file) that the validator cannot see.
	Value() (apply.Value, error)
	// Raw is the text behind the value, used for $EDITOR round trips.
	Raw() string
	SetRaw(s string)
	ApplyTheme(t *theme.Theme)
}

func newInput(f apply.Field) input {
	switch f.Kind {
	case apply.KindTextArea:
		return newAreaInput(f)
	case apply.KindSelect:
		return &selectInput{options: f.Options, index: -1}
	case apply.KindCheckbox:
		return &checkInput{}
	case apply.KindFile:
		return &fileInput{textInput: newTextInput(f)}
	default:
		return newTextInput(f)
	}
}

func inputStyles(t *theme.Theme) textinput.Styles {
	s := t.S()
	return textinput.Styles{
		Focused: textinput.StyleState{
			Text:        s.InputText,
			Placeholder: s.InputPlaceholder,
			Prompt:      s.InputPrompt,
		},
		Blurred: textinput.StyleState{
			Text:        s.InputPlaceholder,
			Placeholder: s.InputPlaceholder,
			Prompt:      s.HintSeparator,
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(s.InputCursor),
			Shape: tea.CursorBar,
			Blink: true,
		},
	}
}

// textInput edits single-line text, emails, URLs, phone numbers and
// numbers. Numbers stay text; the validator parses them.
type textInput struct {
	ti textinput.Model
}

func newTextInput(f apply.Field) *textInput {
	ti := textinput.New()
	ti.Placeholder = f.Placeholder
	ti.Prompt = "> "
	if f.Rule.MaxLen > 0 {
		ti.CharLimit = f.Rule.MaxLen
	}
	ti.SetStyles(inputStyles(theme.Current()))
	ti.SetWidth(50)
	return &textInput{ti: ti}
}

func (t *textInput) Focus() tea.Cmd { return t.ti.Focus() }
func (t *textInput) Blur() { t.ti.Blur() }
func (t *textInput) View() string { return t.ti.View() }
func (t *textInput) SetWidth(w int) { t.ti.SetWidth(w) }
func (t *textInput) Raw() string { return t.ti.Value() }
func (t *textInput) SetRaw(s string) { t.ti.SetValue(s) }
func (t *textInput) ApplyTheme(th *theme.Theme) { t.ti.SetStyles(inputStyles(th)) }

func (t *textInput) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	t.ti, cmd = t.ti.Update(msg)
	return cmd
}

func (t *textInput) Value() (apply.Value, error) {
	if strings.TrimSpace(t.ti.Value()) == "" {
		return apply.Value{}, nil
	}
	return apply.Text(t.ti.Value()), nil
}

// areaInput edits long text. Enter inserts a newline here, so leaving the
// field takes tab or ctrl+s.
type areaInput struct {
	ta textarea.Model
}

func newAreaInput(f apply.Field) *areaInput {
	ta := textarea.New()
	ta.Placeholder = f.Placeholder
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	if f.Rule.MaxLen > 0 {
		ta.CharLimit = f.Rule.MaxLen
	}
	ta.SetWidth(50)
	ta.SetHeight(5)
	// ctrl+t toggles the theme; keep it out of the textarea keymap.
	ta.KeyMap.LineNext = key.NewBinding(key.WithKeys("down"))
	a := &areaInput{ta: ta}
	a.ApplyTheme(theme.Current())
	return a
}

func (a *areaInput) Focus() tea.Cmd { return a.ta.Focus() }
func (a *areaInput) Blur() { a.ta.Blur() }
func (a *areaInput) View() string { return a.ta.View() }
func (a *areaInput) SetWidth(w int) { a.ta.SetWidth(w) }
func (a *areaInput) Raw() string { return a.ta.Value() }
func (a *areaInput) SetRaw(s string) { a.ta.SetValue(s) }

func (a *areaInput) ApplyTheme(th *theme.Theme) {
	styles := textarea.DefaultLightStyles()
	if th.IsDark {
		styles = textarea.DefaultDarkStyles()
	}
	styles.Cursor.Color = lipgloss.Color(th.Primary)
	styles.Cursor.Blink = true
	a.ta.SetStyles(styles)
}

func (a *areaInput) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	a.ta, cmd = a.ta.Update(msg)
	return cmd
}

func (a *areaInput) Value() (apply.Value, error) {
	if strings.TrimSpace(a.ta.Value()) == "" {
		return apply.Value{}, nil
	}
	return apply.Text(a.ta.Value()), nil
}

// selectInput cycles through a fixed option list with left/right or space.
// index -1 means nothing is chosen yet.
type selectInput struct {
	options []apply.Option
	index   int
	focused bool
	styles  *theme.Styles
}

func (s *selectInput) Focus() tea.Cmd {
	s.focused = true
	return nil
}

func (s *selectInput) Blur() { s.focused = false }
func (s *selectInput) SetWidth(int) {}
func (s *selectInput) ApplyTheme(th *theme.Theme) { s.styles = th.S() }

func (s *selectInput) Update(msg tea.Msg) tea.Cmd {
	k, ok := msg.(tea.KeyPressMsg)
	if !ok || !s.focused || len(s.options) == 0 {
		return nil
	}
	switch k.String() {
	case "right", "l", "space", " ":
		s.index = (s.index + 1) % len(s.options)
	case "left", "h":
		if s.index <= 0 {
			s.index = len(s.options) - 1
		} else {
			s.index--
		}
	}
	return nil
}

func (s *selectInput) View() string {
	st := s.styles
	if st == nil {
		st = theme.Current().S()
	}
	label := "Select..."
	style := st.InputPlaceholder
	if s.index >= 0 {
		label = s.options[s.index].Label
		style = st.InputText
	}
	arrow := st.HintSeparator
	if s.focused {
		arrow = st.InputPrompt
	}
	return arrow.Render("‹ ") + style.Render(label) + arrow.Render(" ›")
}

func (s *selectInput) Value() (apply.Value, error) {
	if s.index < 0 {
		return apply.Value{}, nil
	}
	return apply.Text(s.options[s.index].Value), nil
}

func (s *selectInput) Raw() string {
	if s.index < 0 {
		return ""
	}
	return s.options[s.index].Value
}

func (s *selectInput) SetRaw(v string) {
	s.index = -1
	for i, o := range s.options {
		if o.Value == v {
			s.index = i
		}
	}
}

// checkInput is a yes/no toggle.
type checkInput struct {
	checked bool
	focused bool
}

func (c *checkInput) Focus() tea.Cmd {
	c.focused = true
	return nil
}

func (c *checkInput) Blur() { c.focused = false }
func (c *checkInput) SetWidth(int) {}
func (c *checkInput) ApplyTheme(*theme.Theme) {}
func (c *checkInput) Value() (apply.Value, error) { return apply.Bool(c.checked), nil }

func (c *checkInput) Update(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyPressMsg); ok && c.focused {
		switch k.String() {
		case "space", " ", "x":
			c.checked = !c.checked
		}
	}
	return nil
}

func (c *checkInput) View() string {
	if c.checked {
		return "[x]"
	}
	return "[ ]"
}

func (c *checkInput) Raw() string {
	if c.checked {
		return "yes"
	}
	return "no"
}

func (c *checkInput) SetRaw(s string) {
	c.checked = strings.EqualFold(strings.TrimSpace(s), "yes")
}

// fileInput takes a path and resolves it to a file reference.
type fileInput struct {
	*textInput
}

func (f *fileInput) Value() (apply.Value, error) {
	path := strings.TrimSpace(f.ti.Value())
	if path == "" {
		return apply.Value{}, nil
	}
	ref, err := resolveFile(path)
	if err != nil {
		return apply.Value{}, err
	}
	return apply.File(ref), nil
}
