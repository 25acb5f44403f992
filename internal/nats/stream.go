package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	streamName    = "playpals_submissions"
	subjectPrefix = "playpals.submissions"
)

// SubjectForForm returns the subject submissions of a form are published on.
// Example: "playpals.submissions.job"
func SubjectForForm(form string) string {
	return fmt.Sprintf("%s.%s", subjectPrefix, slug.Make(form))
}

// SubjectAll matches submissions of every form.
func SubjectAll() string {
	return subjectPrefix + ".>"
}

// SetupStream creates or updates the submissions stream. Messages are kept
// in memory for a day; nothing is written to disk.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       streamName,
		Subjects:   []string{SubjectAll()},
		Storage:    jetstream.MemoryStorage,
		MaxAge:     24 * time.Hour,
		Duplicates: 10 * time.Minute,
	})
}

// CreateConsumer creates a consumer that replays the stream from the start
// and requires explicit acknowledgment. An empty name makes it ephemeral.
func CreateConsumer(ctx context.Context, stream jetstream.Stream, name string) (jetstream.Consumer, error) {
	return stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       name,
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
		FilterSubject: SubjectAll(),
	})
}
