package theme

import (
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string
	Secondary string
	Tertiary  string

	// Background hierarchy
	BgBase     string
	BgMantle   string
	BgSurface0 string
	BgSurface1 string
	BgSurface2 string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string

	// Status colors
	Success string
	Warning string
	Error   string

	// Chroma style used to highlight the review summary.
	Syntax string

	styles     *Styles
	stylesOnce sync.Once
}

// S returns the pre-built styles for this theme.
// Styles are lazily initialized on first call.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

func (t *Theme) color(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

var (
	mu       sync.RWMutex
	registry = map[string]*Theme{}
	current  *Theme
)

func init() {
	Register("dark", NewCatppuccinMocha())
	Register("light", NewCatppuccinLatte())
	current = registry["dark"]
}

// Register adds a theme under name.
func Register(name string, t *Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = t
}

// Current returns the active theme.
func Current() *Theme {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Set activates the theme registered under name. Unknown names are ignored
// and reported with false.
func Set(name string) bool {
	mu.Lock()
	defer mu.Unlock()
	t, ok := registry[name]
	if ok {
		current = t
	}
	return ok
}

// Toggle flips between the dark and light themes and returns the name of
// the theme now active.
func Toggle() string {
	name := "dark"
	if Current().IsDark {
		name = "light"
	}
	Set(name)
	return name
}

// ModeName returns "dark" or "light" for t.
func (t *Theme) ModeName() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}
