package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/playpals/studio/internal/config"
	"github.com/playpals/studio/internal/logger"
	"github.com/playpals/studio/internal/state"
	"github.com/playpals/studio/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▀█ █   ▄▀█ █▄█ █▀█ ▄▀█ █   █▀"
	logoText2 = "█▀▀ █▄▄ █▀█  █  █▀▀ █▀█ █▄▄ ▄█"
)

// Version set via ldflags during build
var version = "dev"

// cfg is loaded before any subcommand runs.
var cfg = config.Default()

func main() {
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "playpals",
	Short:             "PlayPals Studio from the terminal",
	PersistentPreRunE: loadConfig,
}

func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = loaded

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return err
	}

	// A theme toggled in the UI wins over the configured one.
	name := cfg.Theme
	if state.Exists(cfg.DataDir) {
		name = state.Load(cfg.DataDir).Theme
	}
	if !theme.Set(name) {
		logger.Warn("Unknown theme %q, keeping %s", name, theme.Current().ModeName())
	}
	return nil
}

// applyGradient colors each rune of text along a gradient.
func applyGradient(text, from, to string) string {
	runes := []rune(text)
	colors := theme.Gradient(from, to, len(runes))
	var b strings.Builder
	for i, r := range runes {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i])).Render(string(r)))
	}
	return b.String()
}

func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := applyGradient(logoText1, t.Primary, t.Secondary)
	line2 := applyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

playpals brings PlayPals Studio to the terminal. Browse the games and tools
the studio has shipped, apply for a position or get in touch through a
step-by-step form, and expose the same catalog and forms to agents over MCP.`

	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(setupCmd)
}
