package form

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/editor"

	"github.com/playpals/studio/internal/apply"
	"github.com/playpals/studio/internal/logger"
	"github.com/playpals/studio/internal/state"
	"github.com/playpals/studio/internal/tui/theme"
)

// ErrCancelled is returned by Run when the user leaves without submitting.
var ErrCancelled = errors.New("form cancelled by user")

// DeliverFunc hands a submission to the outbox.
type DeliverFunc func(ctx context.Context, sub apply.Submission) error

// Options configures the wizard program.
type Options struct {
	// DataDir receives ui-state.json when the theme is toggled. Empty
	// disables persistence.
	DataDir string
	Deliver DeliverFunc
}

type phase int

const (
	phaseEditing phase = iota
	phaseSending
	phaseDone
)

// Model is the BubbleTea model for a form wizard. Navigation and
// validation live in the apply.Controller; the model owns the editors and
// focus.
type Model struct {
	ctx  context.Context
	ctrl *apply.Controller
	opts Options

	inputs   map[string]input
	inputErr map[string]string // local errors such as a missing file
	focus    int               // fields first, then Back, then Next

	width  int
	height int

	phase      phase
	spinner    spinner.Model
	submission *apply.Submission
	deliverErr error
	cancelled  bool
}

// New builds a model for def.
func New(ctx context.Context, def apply.Definition, opts Options) (*Model, error) {
	ctrl, err := apply.NewController(def)
	if err != nil {
		return nil, err
	}
	s := spinner.New()
	s.Spinner = spinner.Dot

	m := &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		opts:     opts,
		inputs:   make(map[string]input),
		inputErr: make(map[string]string),
		width:    80,
		height:   30,
		spinner:  s,
	}
	for _, step := range def.Steps {
		for _, f := range step.Fields {
			m.inputs[f.Name] = newInput(f)
		}
	}
	return m, nil
}

// Run shows the wizard for def and returns the submission. Leaving without
// submitting returns ErrCancelled. A failed delivery returns the
// submission together with the error.
func Run(ctx context.Context, def apply.Definition, opts Options) (*apply.Submission, error) {
	m, err := New(ctx, def, opts)
	if err != nil {
		return nil, err
	}

	finalModel, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, fmt.Errorf("form failed: %w", err)
	}
	fm, ok := finalModel.(*Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	if fm.cancelled || fm.submission == nil {
		return nil, ErrCancelled
	}
	if fm.deliverErr != nil {
		return fm.submission, fmt.Errorf("delivering submission: %w", fm.deliverErr)
	}
	return fm.submission, nil
}

// Controller exposes the session driven by the model.
func (m *Model) Controller() *apply.Controller { return m.ctrl }

// Submission returns the submitted snapshot, or nil before submission.
func (m *Model) Submission() *apply.Submission { return m.submission }

// Cancelled reports whether the user quit without submitting.
func (m *Model) Cancelled() bool { return m.cancelled }

// Init initializes the wizard model.
func (m *Model) Init() tea.Cmd {
	return m.enterStep()
}

// Update handles messages for the wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, in := range m.inputs {
			in.SetWidth(m.contentWidth())
		}
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseSending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case deliveredMsg:
		m.phase = phaseDone
		m.deliverErr = msg.err
		if msg.err != nil {
			logger.Error("Delivering submission %s failed: %v", m.submission.ID, msg.err)
		}
		return m, nil

	case editedMsg:
		if in, ok := m.inputs[msg.field]; ok {
			in.SetRaw(strings.TrimRight(msg.content, "\n"))
			m.syncField(msg.field)
		}
		return m, nil

	case tea.KeyPressMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	return m, m.updateFocused(msg)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	k := msg.String()
	if k == "ctrl+c" {
		if m.submission == nil {
			m.cancelled = true
		}
		return tea.Quit, true
	}

	switch m.phase {
	case phaseSending:
		return nil, true
	case phaseDone:
		switch k {
		case "enter", "esc", "q":
			return tea.Quit, true
		}
		return nil, true
	}

	switch k {
	case "ctrl+t":
		return m.toggleTheme(), true
	case "esc":
		if m.ctrl.Index() == 0 {
			m.cancelled = true
			return tea.Quit, true
		}
		return m.back(), true
	case "tab":
		return m.moveFocus(1), true
	case "shift+tab":
		return m.moveFocus(-1), true
	case "ctrl+s":
		return m.advance(), true
	case "ctrl+e":
		if f, ok := m.focusedField(); ok && f.Kind == apply.KindTextArea {
			return m.openEditor(f.Name), true
		}
		return nil, true
	case "enter":
		if m.focus == m.backSlot() {
			return m.back(), true
		}
		if f, ok := m.focusedField(); ok && f.Kind == apply.KindTextArea {
			return nil, false
		}
		return m.advance(), true
	}
	return nil, false
}

// advance syncs the step and moves forward, submitting at the terminal
// step. On failure focus jumps to the first field in error.
func (m *Model) advance() tea.Cmd {
	if !m.syncStep() {
		return m.focusFirstError()
	}

	if m.ctrl.IsLast() {
		sub, ok := m.ctrl.Submit()
		if !ok {
			return m.focusFirstError()
		}
		logger.Info("Form %s submitted as %s", sub.Form, sub.ID)
		m.submission = &sub
		m.phase = phaseSending
		return tea.Batch(m.spinner.Tick, m.deliver(sub), m.persist())
	}

	if !m.ctrl.Next() {
		return m.focusFirstError()
	}
	return m.enterStep()
}

func (m *Model) back() tea.Cmd {
	m.syncStep()
	if !m.ctrl.Back() {
		return nil
	}
	return m.enterStep()
}

func (m *Model) deliver(sub apply.Submission) tea.Cmd {
	if m.opts.Deliver == nil {
		return func() tea.Msg { return deliveredMsg{} }
	}
	ctx := m.ctx
	return func() tea.Msg {
		return deliveredMsg{err: m.opts.Deliver(ctx, sub)}
	}
}

// syncStep pushes every editor of the current step into the controller.
// It reports false when an editor holds content that could not be
// converted.
func (m *Model) syncStep() bool {
	ok := true
	for _, f := range m.ctrl.Step().Fields {
		if !m.syncField(f.Name) {
			ok = false
		}
	}
	return ok
}

func (m *Model) syncField(name string) bool {
	in, found := m.inputs[name]
	if !found {
		return true
	}
	v, err := in.Value()
	if err != nil {
		m.inputErr[name] = err.Error()
		m.ctrl.Clear(name)
		return false
	}
	delete(m.inputErr, name)
	if v.Kind() == apply.ValueEmpty {
		m.ctrl.Clear(name)
		return true
	}
	if err := m.ctrl.Update(name, v); err != nil {
		logger.Warn("Updating field %s: %v", name, err)
	}
	return true
}

// enterStep resets focus for a freshly shown step.
func (m *Model) enterStep() tea.Cmd {
	if len(m.ctrl.Step().Fields) == 0 {
		return m.setFocus(m.nextSlot())
	}
	return m.setFocus(0)
}

func (m *Model) backSlot() int { return len(m.ctrl.Step().Fields) }
func (m *Model) nextSlot() int { return len(m.ctrl.Step().Fields) + 1 }

func (m *Model) focusedField() (apply.Field, bool) {
	fields := m.ctrl.Step().Fields
	if m.focus < len(fields) {
		return fields[m.focus], true
	}
	return apply.Field{}, false
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	if f, ok := m.focusedField(); ok && f.Kind == apply.KindFile {
		m.syncField(f.Name)
	}
	n := m.nextSlot() + 1
	i := m.focus
	for range n {
		i = ((i+delta)%n + n) % n
		if i == m.backSlot() && m.ctrl.Index() == 0 {
			continue
		}
		break
	}
	return m.setFocus(i)
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for idx, f := range m.ctrl.Step().Fields {
		in := m.inputs[f.Name]
		if idx == i {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
	}
	return cmd
}

func (m *Model) focusFirstError() tea.Cmd {
	for idx, f := range m.ctrl.Step().Fields {
		if _, bad := m.inputErr[f.Name]; bad {
			return m.setFocus(idx)
		}
		if _, bad := m.ctrl.Errors()[f.Name]; bad {
			return m.setFocus(idx)
		}
	}
	return nil
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	if m.phase != phaseEditing {
		return nil
	}
	f, ok := m.focusedField()
	if !ok {
		return nil
	}
	cmd := m.inputs[f.Name].Update(msg)
	// File paths are resolved when the field is left, not per keystroke.
	if _, isKey := msg.(tea.KeyPressMsg); isKey && f.Kind != apply.KindFile {
		m.syncField(f.Name)
	}
	if _, isPaste := msg.(tea.PasteMsg); isPaste && f.Kind != apply.KindFile {
		m.syncField(f.Name)
	}
	return cmd
}

func (m *Model) toggleTheme() tea.Cmd {
	name := theme.Toggle()
	for _, in := range m.inputs {
		in.ApplyTheme(theme.Current())
	}
	logger.Debug("Theme switched to %s", name)
	return m.persist()
}

// persist records the theme and the form in ui-state.json.
func (m *Model) persist() tea.Cmd {
	if m.opts.DataDir == "" {
		return nil
	}
	dir := m.opts.DataDir
	mode := theme.Current().ModeName()
	form := m.ctrl.Definition().ID
	return func() tea.Msg {
		st := state.Load(dir)
		st.Theme = mode
		st.LastForm = form
		if err := state.Save(dir, st); err != nil {
			logger.Warn("Saving UI state: %v", err)
		}
		return nil
	}
}

// openEditor launches $EDITOR on the field's current text.
func (m *Model) openEditor(field string) tea.Cmd {
	tmpfile, err := os.CreateTemp("", "playpals_"+field+"_*.md")
	if err != nil {
		logger.Warn("Creating editor temp file: %v", err)
		return nil
	}
	if _, err := tmpfile.WriteString(m.inputs[field].Raw()); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(tmpfile.Name())
		return nil
	}
	_ = tmpfile.Close()

	cmd, err := editor.Command("playpals", tmpfile.Name())
	if err != nil {
		_ = os.Remove(tmpfile.Name())
		return nil
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		defer func() { _ = os.Remove(tmpfile.Name()) }()
		if err != nil {
			logger.Warn("Editor exited with error: %v", err)
			return nil
		}
		content, err := os.ReadFile(tmpfile.Name())
		if err != nil {
			return nil
		}
		return editedMsg{field: field, content: string(content)}
	})
}

func (m *Model) modalWidth() int {
	w := m.width - 10
	if w < 60 {
		w = 60
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m *Model) contentWidth() int {
	return m.modalWidth() - 8
}

// View renders the wizard UI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	content := m.renderModal(m.renderBody())

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

func (m *Model) renderModal(body string) string {
	th := theme.Current()
	s := th.S()
	title := s.ModalTitle.Width(m.contentWidth()).Render(m.ctrl.Definition().Title)
	modal := s.ModalContainer.Width(m.modalWidth()).Render(title + "\n\n" + body)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m *Model) renderBody() string {
	switch m.phase {
	case phaseSending:
		return m.spinner.View() + " Sending your submission..."
	case phaseDone:
		return m.renderDone()
	}
	return m.renderStep()
}

func (m *Model) renderDone() string {
	s := theme.Current().S()
	var b strings.Builder
	if m.deliverErr != nil {
		b.WriteString(s.FieldErr.Render("Your submission was recorded but could not be delivered."))
		b.WriteString("\n")
		b.WriteString(s.Help.Render(m.deliverErr.Error()))
	} else {
		b.WriteString(s.Success.Render("✓ Thank you! Your submission has been received."))
		b.WriteString("\n")
		b.WriteString(s.StepBody.Render("We'll be in touch soon."))
	}
	b.WriteString("\n\n")
	b.WriteString(s.Help.Render("Reference: " + m.submission.ID))
	b.WriteString("\n\n")
	b.WriteString(renderHintBar(s, "enter", "exit"))
	return b.String()
}

func (m *Model) renderStep() string {
	th := theme.Current()
	s := th.S()
	v := m.ctrl.View()
	width := m.contentWidth()

	var sections []string
	sections = append(sections,
		s.Help.Render(fmt.Sprintf("Step %d of %d", v.Index+1, v.Total))+"  "+s.StepTitle.Render(v.Title),
		renderProgress(th, width-5, v.Progress),
		"",
	)
	if v.Body != "" {
		sections = append(sections, s.StepBody.Width(width).Render(v.Body), "")
	}

	for idx, fv := range v.Fields {
		label := s.Label
		if idx == m.focus {
			label = s.LabelOn
		}
		text := fv.Label
		if fv.Rule.Required {
			text += " *"
		}
		sections = append(sections, label.Render(text), m.inputs[fv.Name].View())
		if fv.Help != "" {
			sections = append(sections, s.Help.Width(width).Render(fv.Help))
		}
		if msg := m.inputErr[fv.Name]; msg != "" {
			sections = append(sections, s.FieldErr.Render(msg))
		} else if fv.Error != "" {
			sections = append(sections, s.FieldErr.Render(fv.Error))
		}
		sections = append(sections, "")
	}

	if v.Last && len(v.Fields) == 0 {
		if summary := summaryYAML(m.ctrl.Summary()); summary != "" {
			sections = append(sections, highlightYAML(th, summary), "")
		}
	}

	if len(v.Errors) > 0 {
		sections = append(sections, s.FieldErr.Render("Please fix the following before submitting:"))
		for _, fe := range v.Errors {
			label := fe.Field
			if f, ok := m.ctrl.Definition().Field(fe.Field); ok && f.Label != "" {
				label = f.Label
			}
			sections = append(sections, s.FieldErr.Render("  • "+label+": "+fe.Message))
		}
		sections = append(sections, "")
	}

	sections = append(sections, m.renderButtons(v), "", m.renderHints(v))
	return strings.Join(sections, "\n")
}

func (m *Model) renderButtons(v apply.StepView) string {
	s := theme.Current().S()

	back := Button{Label: "← Back", State: ButtonNormal}
	if v.First {
		back.State = ButtonDisabled
	} else if m.focus == m.backSlot() {
		back.State = ButtonFocused
	}

	label := "Next →"
	if v.Last {
		label = "Submit"
	}
	next := Button{Label: label, State: ButtonNormal}
	if m.focus == m.nextSlot() {
		next.State = ButtonFocused
	}
	return renderButtons(s, m.contentWidth(), back, next)
}

func (m *Model) renderHints(v apply.StepView) string {
	s := theme.Current().S()
	pairs := []string{"tab", "next field"}
	enter := "continue"
	if v.Last {
		enter = "submit"
	}
	f, ok := m.focusedField()
	switch {
	case ok && f.Kind == apply.KindTextArea:
		pairs = append(pairs, "ctrl+s", enter)
		if os.Getenv("EDITOR") != "" {
			pairs = append(pairs, "ctrl+e", "edit")
		}
	case ok && f.Kind == apply.KindSelect:
		pairs = append(pairs, "←→", "choose", "enter", enter)
	default:
		pairs = append(pairs, "enter", enter)
	}
	if v.First {
		pairs = append(pairs, "esc", "quit")
	} else {
		pairs = append(pairs, "esc", "back")
	}
	pairs = append(pairs, "ctrl+t", "theme")
	return renderHintBar(s, pairs...)
}
