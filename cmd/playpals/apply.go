package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/playpals/studio/internal/apply"
	"github.com/playpals/studio/internal/config"
	"github.com/playpals/studio/internal/logger"
	"github.com/playpals/studio/internal/outbox"
	"github.com/playpals/studio/internal/state"
	"github.com/playpals/studio/internal/tui/form"
	"github.com/spf13/cobra"
)

var applyFlags struct {
	form string
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply for a position or contact the studio",
	Long: `Open a step-by-step form in the terminal.

The job application walks through personal details, position, portfolio and
CV, and motivation before a final review. The contact form is a single page.
Submissions are handed to the configured transport (log or nats).`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVarP(&applyFlags.form, "form", "f", "",
		"Form to open: "+strings.Join(apply.FormIDs(), ", ")+" (default: last used, else job)")
}

func runApply(cmd *cobra.Command, args []string) error {
	formID := applyFlags.form
	if formID == "" {
		formID = state.Load(cfg.DataDir).LastForm
	}
	if formID == "" {
		formID = apply.FormJob
	}

	def, err := apply.Lookup(formID, cfg.JobOptions())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Transport == config.TransportNATS && cfg.NATSURL == "" {
		logger.Warn("No nats_url configured; submissions go to an in-process server and are not seen by other processes")
	}
	out, err := openOutbox(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); err != nil {
			logger.Warn("Closing outbox: %v", err)
		}
	}()

	sub, err := form.Run(ctx, def, form.Options{
		DataDir: cfg.DataDir,
		Deliver: out.Deliver,
	})
	if errors.Is(err, form.ErrCancelled) {
		fmt.Fprintln(cmd.OutOrStdout(), "Form closed without submitting.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Submitted %s. Reference: %s\n", def.Title, sub.ID)
	return nil
}

func openOutbox(ctx context.Context) (outbox.Transport, error) {
	out, err := outbox.New(ctx, outbox.Options{
		Kind:    outbox.Kind(cfg.Transport),
		NATSURL: cfg.NATSURL,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s transport: %w", cfg.Transport, err)
	}
	return out, nil
}
