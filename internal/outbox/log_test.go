package outbox

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playpals/studio/internal/apply"
	"github.com/playpals/studio/internal/logger"
)

func testSubmission(id, form string) apply.Submission {
	return apply.Submission{
		ID:          id,
		Form:        form,
		SubmittedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Values: apply.FormState{
			"fullName": apply.Text("Alice"),
			"cv":       apply.File(apply.FileRef{Name: "cv.pdf", Size: 1024, MIMEType: "application/pdf"}),
		},
	}
}

func TestLogTransport_Deliver(t *testing.T) {
	var buf bytes.Buffer
	logger.Default.SetOutput(&buf)
	logger.Default.SetLevel(logger.LevelInfo)

	tr := NewLogTransport()
	require.NoError(t, tr.Deliver(context.Background(), testSubmission("s-1", "job")))

	assert.Equal(t, 1, tr.Delivered())
	out := buf.String()
	assert.Contains(t, out, "Submission s-1 (job)")
	assert.Contains(t, out, `"name":"cv.pdf"`)
}

func TestLogTransport_Closed(t *testing.T) {
	tr := NewLogTransport()
	require.NoError(t, tr.Close())
	assert.ErrorIs(t, tr.Deliver(context.Background(), testSubmission("s-1", "job")), ErrClosed)
}

func TestLogTransport_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewLogTransport().Deliver(ctx, testSubmission("s-1", "job")), context.Canceled)
}

func TestNew(t *testing.T) {
	tr, err := New(context.Background(), Options{})
	require.NoError(t, err)
	assert.IsType(t, &LogTransport{}, tr)

	_, err = New(context.Background(), Options{Kind: "pigeon"})
	assert.ErrorContains(t, err, "unknown transport")
}
