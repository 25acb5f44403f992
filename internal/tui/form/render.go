package form

import (
	"bytes"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"gopkg.in/yaml.v3"

	"github.com/playpals/studio/internal/apply"
	"github.com/playpals/studio/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
	ButtonFocused                     // Focused/highlighted state
)

// Button represents a single button in the button bar.
type Button struct {
	Label string
	State ButtonState
}

// renderButtons renders buttons centred in width.
func renderButtons(s *theme.Styles, width int, buttons ...Button) string {
	var rendered []string
	for _, btn := range buttons {
		switch btn.State {
		case ButtonDisabled:
			rendered = append(rendered, s.ButtonDisabled.Render(btn.Label))
		case ButtonFocused:
			rendered = append(rendered, s.ButtonFocused.Render(btn.Label))
		default:
			rendered = append(rendered, s.ButtonNormal.Render(btn.Label))
		}
	}
	return lipgloss.Place(width, 1, lipgloss.Center, lipgloss.Center, strings.Join(rendered, ""))
}

// renderHintBar renders key/description pairs.
// Example: renderHintBar(s, "tab", "next field", "esc", "back")
// Returns: "tab next field • esc back"
func renderHintBar(s *theme.Styles, pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString(" " + s.HintSeparator.Render("•") + " ")
		}
		b.WriteString(s.HintKey.Render(pairs[i]) + " " + s.HintDesc.Render(pairs[i+1]))
	}
	return b.String()
}

// renderProgress draws a bar of width cells followed by the percentage.
// The filled part is shaded from the primary to the secondary color.
func renderProgress(th *theme.Theme, width, percent int) string {
	if width < 10 {
		width = 10
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	s := th.S()
	filled := width * percent / 100

	var b strings.Builder
	for _, c := range theme.Gradient(th.Primary, th.Secondary, filled) {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("█"))
	}
	b.WriteString(s.ProgressEmpty.Render(strings.Repeat("░", width-filled)))
	return fmt.Sprintf("%s %3d%%", b.String(), percent)
}

// summaryYAML lays the review summary out as YAML, one comment header per
// step, keeping declaration order.
func summaryYAML(items []apply.SummaryItem) string {
	if len(items) == 0 {
		return ""
	}
	doc := &yaml.Node{Kind: yaml.MappingNode}
	lastStep := ""
	for _, it := range items {
		k := &yaml.Node{Kind: yaml.ScalarNode, Value: it.Label}
		if it.Step != lastStep {
			k.HeadComment = "# " + it.Step
			lastStep = it.Step
		}
		v := &yaml.Node{Kind: yaml.ScalarNode, Value: it.Value}
		if strings.Contains(it.Value, "\n") {
			v.Style = yaml.LiteralStyle
		}
		doc.Content = append(doc.Content, k, v)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return ""
	}
	_ = enc.Close()
	return strings.TrimRight(buf.String(), "\n")
}

// highlightYAML colours source with chroma using the theme's syntax style.
// On any failure the source is returned unchanged.
func highlightYAML(th *theme.Theme, source string) string {
	lexer := lexers.Get("yaml")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		return source
	}
	style := styles.Get(th.Syntax)
	if style == nil {
		style = styles.Fallback
	}
	bg := chroma.MustParseColour(th.BgBase)
	if built, err := style.Builder().Transform(func(e chroma.StyleEntry) chroma.StyleEntry {
		e.Background = bg
		return e
	}).Build(); err == nil {
		style = built
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}
	return strings.TrimRight(buf.String(), "\n")
}
