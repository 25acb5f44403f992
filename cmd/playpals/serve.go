package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/playpals/studio/internal/apply"
	"github.com/playpals/studio/internal/catalog"
	"github.com/playpals/studio/internal/logger"
	"github.com/playpals/studio/internal/mcpserver"
	"github.com/playpals/studio/internal/outbox"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	addr string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog and forms over MCP",
	Long: `Start an MCP server over streamable HTTP.

Agents can list and show games and tools, and fill in the job and contact
forms step by step with the same validation as the terminal wizard.
With the nats transport every submission received on the bus is logged.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "127.0.0.1:0", "Listen address (default picks a free loopback port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load()
	if err != nil {
		return err
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

	if bus, ok := out.(*outbox.NATSTransport); ok {
		unsubscribe, err := bus.Subscribe(ctx, func(sub apply.Submission) {
			logger.Info("Received %s submission %s", sub.Form, sub.ID)
		})
		if err != nil {
			return fmt.Errorf("subscribing to submissions: %w", err)
		}
		defer unsubscribe()
	}

	srv := mcpserver.New(cat, cfg.JobOptions(), out, mcpserver.WithAddr(serveFlags.addr))
	if _, err := srv.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening at %s\n", srv.URL())

	<-ctx.Done()
	fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
