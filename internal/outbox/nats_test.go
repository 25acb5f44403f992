package outbox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playpals/studio/internal/apply"
)

func startNATS(t *testing.T) *NATSTransport {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tr, err := NewNATSTransport(ctx, NATSOptions{StoreDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func TestNATSTransport_DeliverAndSubscribe(t *testing.T) {
	tr := startNATS(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Published before anyone listens; the stream replays it.
	require.NoError(t, tr.Deliver(ctx, testSubmission("s-1", "job")))

	got := make(chan apply.Submission, 4)
	stop, err := tr.Subscribe(ctx, func(sub apply.Submission) { got <- sub })
	require.NoError(t, err)
	defer stop()

	require.NoError(t, tr.Deliver(ctx, testSubmission("s-2", "contact")))

	var ids []string
	for len(ids) < 2 {
		select {
		case sub := <-got:
			ids = append(ids, sub.ID)
			if sub.ID == "s-1" {
				assert.Equal(t, apply.Text("Alice"), sub.Values["fullName"])
				ref, ok := sub.Values["cv"].File()
				require.True(t, ok)
				assert.Equal(t, int64(1024), ref.Size)
			}
		case <-ctx.Done():
			t.Fatalf("timed out waiting for submissions, got %v", ids)
		}
	}
	assert.ElementsMatch(t, []string{"s-1", "s-2"}, ids)
}

func TestNATSTransport_DuplicateIsIgnored(t *testing.T) {
	tr := startNATS(t)
	ctx := context.Background()

	sub := testSubmission("s-dup", "job")
	require.NoError(t, tr.Deliver(ctx, sub))
	require.NoError(t, tr.Deliver(ctx, sub))

	n, err := tr.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
}

func TestNATSTransport_Closed(t *testing.T) {
	tr := startNATS(t)
	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close(), "closing twice is harmless")

	err := tr.Deliver(context.Background(), testSubmission("s-1", "job"))
	assert.ErrorIs(t, err, ErrClosed)
}
