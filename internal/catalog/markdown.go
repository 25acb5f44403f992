package catalog

import (
	"fmt"
	"strings"

	"charm.land/glamour/v2"
)

// GameMarkdown renders the detail page of a game.
func GameMarkdown(g Game) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n_%s_\n\n%s\n\n", g.Title, g.Tagline, g.Description)
	list(&b, "Features", g.Features)

	b.WriteString("## Specs\n\n")
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Engine | %s |\n", g.Specs.Engine)
	fmt.Fprintf(&b, "| Platforms | %s |\n", strings.Join(g.Specs.Platforms, ", "))
	fmt.Fprintf(&b, "| Release | %s |\n", g.Specs.Release)
	fmt.Fprintf(&b, "| Players | %s |\n\n", g.Specs.Players)

	list(&b, "Gameplay Mechanics", g.Gameplay.Mechanics)
	list(&b, "Gameplay Features", g.Gameplay.Features)
	development(&b, g.Development)
	mediaList(&b, g.Media)
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// ToolMarkdown renders the detail page of a tool.
func ToolMarkdown(t Tool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n_%s_\n\n%s\n\n", t.Title, t.Tagline, t.Description)
	list(&b, "Features", t.Features)

	b.WriteString("## Specs\n\n")
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Language | %s |\n", t.Specs.Language)
	fmt.Fprintf(&b, "| Platforms | %s |\n", strings.Join(t.Specs.Platforms, ", "))
	fmt.Fprintf(&b, "| License | %s |\n", t.Specs.License)
	fmt.Fprintf(&b, "| Support | %s |\n\n", t.Specs.Support)

	list(&b, "Architecture", t.Technical.Architecture)
	list(&b, "Technical Features", t.Technical.Features)
	development(&b, t.Development)
	list(&b, "Guides", t.Documentation.Guides)
	list(&b, "Examples", t.Documentation.Examples)
	mediaList(&b, t.Media)
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func list(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
	b.WriteString("\n")
}

func development(b *strings.Builder, d Development) {
	list(b, "Development Challenges", d.Challenges)
	list(b, "Development Insights", d.Insights)
	list(b, "Tech Stack", d.TechStack)
}

func mediaList(b *strings.Builder, media []Media) {
	if len(media) == 0 {
		return
	}
	b.WriteString("## Media\n\n")
	for _, m := range media {
		fmt.Fprintf(b, "- %s: `%s`\n", m.Type, m.URL)
	}
}

// Render formats markdown for the terminal with glamour. style is "dark"
// or "light"; width caps the word wrap. On failure the markdown is
// returned as-is.
func Render(markdown string, width int, style string) string {
	if width <= 0 || width > 120 {
		width = 120
	}
	if style != "light" {
		style = "dark"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}
	rendered, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimSuffix(rendered, "\n")
}
