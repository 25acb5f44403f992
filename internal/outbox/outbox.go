// Package outbox hands submitted forms to whoever processes them next.
package outbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/playpals/studio/internal/apply"
)

// ErrClosed is returned by Deliver after Close.
var ErrClosed = errors.New("outbox closed")

// Transport delivers submissions. Implementations are safe for concurrent
// use.
type Transport interface {
	Deliver(ctx context.Context, sub apply.Submission) error
	Close() error
}

// Kind names a transport implementation.
type Kind string

const (
	KindLog  Kind = "log"
	KindNATS Kind = "nats"
)

// Options selects and configures a transport.
type Options struct {
	Kind Kind
	// NATSURL is a remote server; empty starts an embedded one.
	NATSURL string
	// StoreDir holds the embedded server's JetStream directory. Empty uses
	// a temporary directory removed on Close.
	StoreDir string
}

// New opens the transport named by opts.Kind.
func New(ctx context.Context, opts Options) (Transport, error) {
	switch opts.Kind {
	case KindLog, "":
		return NewLogTransport(), nil
	case KindNATS:
		return NewNATSTransport(ctx, NATSOptions{URL: opts.NATSURL, StoreDir: opts.StoreDir})
	default:
		return nil, fmt.Errorf("unknown transport %q", opts.Kind)
	}
}
