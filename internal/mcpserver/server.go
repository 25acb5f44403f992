// Package mcpserver exposes the studio catalog and the application forms to
// agents over the Model Context Protocol.
package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"github.com/playpals/studio/internal/apply"
	"github.com/playpals/studio/internal/catalog"
	"github.com/playpals/studio/internal/logger"
	"github.com/playpals/studio/internal/outbox"
)

// Server is an MCP HTTP server. Form sessions started through it live in
// memory until they are submitted or the server stops.
type Server struct {
	catalog  *catalog.Catalog
	jobOpts  apply.JobOptions
	outbox   outbox.Transport
	sessions *registry

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
	stdServer  *http.Server
	addr       string
	port       int
	mu         sync.Mutex
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address. The default picks a free loopback port.
func WithAddr(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

// New creates a server over the given catalog. Submitted forms are handed
// to out. The server is not started until Start is called.
func New(cat *catalog.Catalog, jobOpts apply.JobOptions, out outbox.Transport, opts ...Option) *Server {
	s := &Server{
		catalog:  cat,
		jobOpts:  jobOpts,
		outbox:   out,
		sessions: newRegistry(),
		addr:     "127.0.0.1:0",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start listens and serves in the background. It returns the bound port.
func (s *Server) Start(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return 0, fmt.Errorf("server already started")
	}

	s.mcpServer = server.NewMCPServer(
		"playpals",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools()

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return 0, fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mcpHandler := server.NewStreamableHTTPServer(
		s.mcpServer,
		server.WithStateLess(true),
	)
	mux.Handle("/mcp", mcpHandler)

	s.stdServer = &http.Server{Handler: mux}
	s.httpServer = mcpHandler

	// Capture the server so Stop can reset the field while Serve runs.
	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP server error: %v", err)
		}
	}()

	logger.Info("MCP server listening on port %d", s.port)
	return s.port, nil
}

// Stop shuts the HTTP server down and drops every open form session.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil
	}

	logger.Debug("Stopping MCP server")
	if err := s.stdServer.Shutdown(ctx); err != nil {
		logger.Warn("Error stopping MCP server: %v", err)
		return fmt.Errorf("stopping MCP server: %w", err)
	}

	s.httpServer = nil
	s.stdServer = nil
	s.mcpServer = nil
	s.sessions.reset()
	logger.Debug("MCP server stopped")
	return nil
}

// URL returns the HTTP URL of the MCP endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://localhost:%d/mcp", s.port)
}
