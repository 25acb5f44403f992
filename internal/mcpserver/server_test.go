package mcpserver

import (
	"context"
	"fmt"
	"testing"

	"github.com/playpals/studio/internal/apply"
	"github.com/playpals/studio/internal/catalog"
	"github.com/playpals/studio/internal/outbox"
)

func newTestServer(t *testing.T) (*Server, *outbox.LogTransport) {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load() failed: %v", err)
	}
	out := outbox.NewLogTransport()
	return New(cat, apply.DefaultJobOptions(), out), out
}

func TestServerStartRandomPort(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	port, err := srv.Start(ctx)
	if err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if port <= 0 || port > 65535 {
		t.Errorf("Invalid port number: %d", port)
	}

	expectedURL := fmt.Sprintf("http://localhost:%d/mcp", port)
	if srv.URL() != expectedURL {
		t.Errorf("URL mismatch: got %s, want %s", srv.URL(), expectedURL)
	}

	if err := srv.Stop(ctx); err != nil {
		t.Errorf("Stop() failed: %v", err)
	}
}

func TestServerDoubleStart(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()

	if _, err := srv.Start(ctx); err != nil {
		t.Fatalf("First Start() failed: %v", err)
	}
	defer func() {
		if err := srv.Stop(ctx); err != nil {
			t.Errorf("Stop() failed: %v", err)
		}
	}()

	if _, err := srv.Start(ctx); err == nil {
		t.Error("Second Start() should have returned an error")
	}
}

func TestServerStopWithoutStart(t *testing.T) {
	srv, _ := newTestServer(t)
	if err := srv.Stop(context.Background()); err != nil {
		t.Errorf("Stop() on an idle server failed: %v", err)
	}
}

func TestServerStopDropsSessions(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()
	if _, err := srv.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if _, err := srv.sessions.open(apply.Contact()); err != nil {
		t.Fatalf("open: %v", err)
	}
	if srv.sessions.len() != 1 {
		t.Fatalf("expected 1 session, got %d", srv.sessions.len())
	}
	if err := srv.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if srv.sessions.len() != 0 {
		t.Errorf("expected sessions to be dropped, got %d", srv.sessions.len())
	}
}
