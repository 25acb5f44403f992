package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	ModalContainer lipgloss.Style
	ModalTitle     lipgloss.Style

	StepTitle lipgloss.Style
	StepBody  lipgloss.Style
	Label     lipgloss.Style
	LabelOn   lipgloss.Style
	Help      lipgloss.Style
	FieldErr  lipgloss.Style
	Success   lipgloss.Style

	Progress      lipgloss.Style
	ProgressEmpty lipgloss.Style

	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style

	ButtonNormal   lipgloss.Style
	ButtonDisabled lipgloss.Style
	ButtonFocused  lipgloss.Style

	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style
	InputPrompt      lipgloss.Style
	InputCursor      string
}

func (t *Theme) buildStyles() *Styles {
	button := lipgloss.NewStyle().Padding(0, 2).MarginLeft(1).MarginRight(1)

	return &Styles{
		ModalContainer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Tertiary)).
			Background(lipgloss.Color(t.BgBase)).
			Padding(1, 2),
		ModalTitle: t.color(t.Primary).Bold(true).Align(lipgloss.Center),

		StepTitle: t.color(t.Secondary).Bold(true),
		StepBody:  t.color(t.FgBase),
		Label:     t.color(t.FgSubtle),
		LabelOn:   t.color(t.Primary).Bold(true),
		Help:      t.color(t.FgMuted).Italic(true),
		FieldErr:  t.color(t.Error),
		Success:   t.color(t.Success).Bold(true),

		Progress:      t.color(t.Primary),
		ProgressEmpty: t.color(t.BgSurface1),

		HintKey:       t.color(t.FgSubtle).Bold(true),
		HintDesc:      t.color(t.FgMuted),
		HintSeparator: t.color(t.BgSurface2),

		ButtonNormal: button.
			Foreground(lipgloss.Color(t.FgBase)).
			Background(lipgloss.Color(t.BgSurface0)),
		ButtonDisabled: button.
			Foreground(lipgloss.Color(t.BgSurface2)).
			Background(lipgloss.Color(t.BgMantle)),
		ButtonFocused: button.
			Foreground(lipgloss.Color(t.BgBase)).
			Background(lipgloss.Color(t.Tertiary)).
			Bold(true),

		InputText:        t.color(t.FgBase),
		InputPlaceholder: t.color(t.FgMuted),
		InputPrompt:      t.color(t.Tertiary),
		InputCursor:      t.Primary,
	}
}
