package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/playpals/studio/internal/apply"
	"github.com/playpals/studio/internal/logger"
	"github.com/playpals/studio/internal/nats"
)

// NATSOptions configures a NATSTransport.
type NATSOptions struct {
	URL      string
	StoreDir string
}

// NATSTransport publishes submissions as JSON to playpals.submissions.<form>
// on a memory-backed JetStream stream. The submission id doubles as the
// JetStream message id, so redelivering the same submission is a no-op.
type NATSTransport struct {
	ns     *server.Server // nil when connected to a remote server
	nc     *natsgo.Conn
	js     jetstream.JetStream
	stream jetstream.Stream

	tmpDir string

	mu     sync.Mutex
	closed bool
}

// NewNATSTransport connects to opts.URL, or starts an embedded server when
// it is empty, and ensures the submissions stream exists.
func NewNATSTransport(ctx context.Context, opts NATSOptions) (*NATSTransport, error) {
	t := &NATSTransport{}

	if opts.URL == "" {
		storeDir := opts.StoreDir
		if storeDir == "" {
			dir, err := os.MkdirTemp("", "playpals-nats-*")
			if err != nil {
				return nil, fmt.Errorf("creating nats store dir: %w", err)
			}
			storeDir = dir
			t.tmpDir = dir
		}
		ns, err := nats.StartEmbeddedNATS(storeDir)
		if err != nil {
			t.cleanup()
			return nil, fmt.Errorf("starting nats: %w", err)
		}
		t.ns = ns
		if t.nc, err = nats.ConnectInProcess(ns); err != nil {
			_ = t.Close()
			return nil, fmt.Errorf("connecting to nats: %w", err)
		}
	} else {
		nc, err := nats.ConnectURL(opts.URL)
		if err != nil {
			return nil, fmt.Errorf("connecting to nats: %w", err)
		}
		t.nc = nc
	}

	js, err := nats.CreateJetStream(t.nc)
	if err != nil {
		_ = t.Close()
		return nil, fmt.Errorf("creating jetstream: %w", err)
	}
	t.js = js

	if t.stream, err = nats.SetupStream(ctx, js); err != nil {
		_ = t.Close()
		return nil, fmt.Errorf("setting up stream: %w", err)
	}
	return t, nil
}

// Deliver publishes sub and waits for the stream to acknowledge it.
func (t *NATSTransport) Deliver(ctx context.Context, sub apply.Submission) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return ErrClosed
	}

	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encoding submission: %w", err)
	}

	ack, err := t.js.Publish(ctx, nats.SubjectForForm(sub.Form), data, jetstream.WithMsgID(sub.ID))
	if err != nil {
		return fmt.Errorf("publishing submission: %w", err)
	}
	if ack.Duplicate {
		logger.Debug("Submission %s already published", sub.ID)
		return nil
	}
	logger.Info("Submission %s published to %s (seq %d)", sub.ID, nats.SubjectForForm(sub.Form), ack.Sequence)
	return nil
}

// Subscribe calls fn for every submission in the stream, starting with
// those already published. The returned stop function ends the
// subscription.
func (t *NATSTransport) Subscribe(ctx context.Context, fn func(apply.Submission)) (stop func(), err error) {
	cons, err := nats.CreateConsumer(ctx, t.stream, "playpals-"+uuid.NewString()[:8])
	if err != nil {
		return nil, fmt.Errorf("creating consumer: %w", err)
	}

	cc, err := cons.Consume(func(msg jetstream.Msg) {
		var sub apply.Submission
		if err := json.Unmarshal(msg.Data(), &sub); err != nil {
			logger.Warn("Dropping malformed submission on %s: %v", msg.Subject(), err)
			_ = msg.Term()
			return
		}
		fn(sub)
		_ = msg.Ack()
	})
	if err != nil {
		return nil, fmt.Errorf("consuming submissions: %w", err)
	}

	name := cons.CachedInfo().Name
	return func() {
		cc.Stop()
		delCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = t.stream.DeleteConsumer(delCtx, name)
	}, nil
}

// Pending returns the number of submissions held by the stream.
func (t *NATSTransport) Pending(ctx context.Context) (uint64, error) {
	info, err := t.stream.Info(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading stream info: %w", err)
	}
	return info.State.Msgs, nil
}

// Close drains the connection and stops the embedded server.
func (t *NATSTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	err := nats.Shutdown(t.nc, t.ns)
	t.cleanup()
	return err
}

func (t *NATSTransport) cleanup() {
	if t.tmpDir != "" {
		_ = os.RemoveAll(t.tmpDir)
		t.tmpDir = ""
	}
}
