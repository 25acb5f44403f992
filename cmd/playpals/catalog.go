package main

import (
	"fmt"
	"os"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/charmbracelet/x/term"
	"github.com/playpals/studio/internal/catalog"
	"github.com/playpals/studio/internal/tui/theme"
	"github.com/spf13/cobra"
)

var showFlags struct {
	raw   bool
	width int
}

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "Browse the studio's games",
}

var gamesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List games",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load()
		if err != nil {
			return err
		}
		var rows [][]string
		for _, g := range cat.Games() {
			rows = append(rows, []string{g.ID, g.Title, g.Tagline, g.Specs.Release})
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Title", "Tagline", "Release"}, rows))
		return nil
	},
}

var gamesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a game's detail page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load()
		if err != nil {
			return err
		}
		g, err := cat.Game(args[0])
		if err != nil {
			return err
		}
		printMarkdown(cmd, catalog.GameMarkdown(g))
		return nil
	},
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Browse the studio's development tools",
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tools",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load()
		if err != nil {
			return err
		}
		var rows [][]string
		for _, t := range cat.Tools() {
			rows = append(rows, []string{t.ID, t.Title, t.Tagline, t.Specs.License})
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Title", "Tagline", "License"}, rows))
		return nil
	},
}

var toolsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a tool's detail page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load()
		if err != nil {
			return err
		}
		t, err := cat.Tool(args[0])
		if err != nil {
			return err
		}
		printMarkdown(cmd, catalog.ToolMarkdown(t))
		return nil
	},
}

func init() {
	gamesCmd.AddCommand(gamesListCmd, gamesShowCmd)
	toolsCmd.AddCommand(toolsListCmd, toolsShowCmd)

	for _, c := range []*cobra.Command{gamesShowCmd, toolsShowCmd} {
		c.Flags().BoolVar(&showFlags.raw, "raw", false, "Print markdown without rendering")
		c.Flags().IntVarP(&showFlags.width, "width", "w", 0, "Wrap width (default: terminal width)")
	}
}

func printMarkdown(cmd *cobra.Command, md string) {
	if showFlags.raw {
		fmt.Fprint(cmd.OutOrStdout(), md)
		return
	}
	width := showFlags.width
	if width <= 0 {
		if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil {
			width = w
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), catalog.Render(md, width, theme.Current().ModeName()))
}

// renderTable renders rows with rounded borders in the active theme.
func renderTable(headers []string, rows [][]string) string {
	th := theme.Current()
	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.Primary)).
		Bold(true).
		Padding(0, 1)

	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	oddStyle := cellStyle.Foreground(lipgloss.Color(th.FgMuted))
	evenStyle := cellStyle

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(th.BgSurface2))).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return evenStyle
			default:
				return oddStyle
			}
		}).
		Headers(headers...).
		Rows(rows...)

	return t.String()
}
