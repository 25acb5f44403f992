package main

import (
	"fmt"
	"os"

	"github.com/aymanbagabas/go-udiff"
	"github.com/playpals/studio/internal/config"
	"github.com/spf13/cobra"
)

var setupFlags struct {
	project bool
	force   bool
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create playpals configuration file",
	Long: `Create a playpals configuration file with sensible defaults.

By default, creates a global config at ~/.config/playpals/playpals.yml.
Use --project to create a project-local config in the current directory.
With --force an existing file is replaced and the changes are printed as a diff.`,
	// Setup must work even when the current config does not load.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing config file")
}

func runSetup(cmd *cobra.Command, args []string) error {
	targetPath := config.GlobalPath()
	if setupFlags.project {
		targetPath = config.ProjectPath()
	}

	existing, err := os.ReadFile(targetPath)
	exists := err == nil
	if exists && !setupFlags.force {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	next := config.Default()
	if setupFlags.project {
		err = config.WriteProject(next)
	} else {
		err = config.WriteGlobal(next)
	}
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	w := cmd.OutOrStdout()
	if exists {
		data, err := config.Marshal(next)
		if err != nil {
			return err
		}
		if diff := udiff.Unified(targetPath+" (old)", targetPath, string(existing), string(data)); diff != "" {
			fmt.Fprintln(w, diff)
		} else {
			fmt.Fprintln(w, "Config already matches the defaults.")
		}
	}

	fmt.Fprintf(w, "Config written to: %s\n\n", targetPath)
	fmt.Fprintln(w, "Run 'playpals apply' to get started.")
	return nil
}
