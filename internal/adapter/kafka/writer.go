package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/covid-stats-dashboard/internal/config"
	"github.com/couchcryptid/covid-stats-dashboard/internal/domain"
	"github.com/couchcryptid/covid-stats-dashboard/internal/observability"
	"github.com/couchcryptid/covid-stats-dashboard/internal/state"
	kafkago "github.com/segmentio/kafka-go"
)

// StateEvent is the published form of one committed selection change.
type StateEvent struct {
	Session      string          `json:"session"`
	Changed      []string        `json:"changed"`
	Scope        string          `json:"scope"`
	Metric       domain.Metric   `json:"metric"`
	Snapshot     domain.Snapshot `json:"snapshot"`
	Viewport     domain.Viewport `json:"viewport"`
	CountryCount int             `json:"country_count"`
	Seq          uint64          `json:"seq"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Writer publishes committed state changes to a Kafka topic.
type Writer struct {
	writer  *kafkago.Writer
	session string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates a Kafka producer for the configured topic. session tags
// every event so consumers can tell dashboard instances apart.
func NewWriter(cfg *config.Config, session string, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, session: session, logger: logger, metrics: metrics}
}

// Run publishes every change received until ctx is done or changes is closed.
// A failed write is logged and counted; the next change is still attempted.
func (w *Writer) Run(ctx context.Context, changes <-chan state.Change) error {
	w.logger.Info("state publisher started", "topic", w.writer.Topic, "session", w.session)
	for {
		select {
		case <-ctx.Done():
			return nil
		case c, ok := <-changes:
			if !ok {
				return nil
			}
			if err := w.Publish(ctx, c); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.metrics.PublishErrors.Inc()
				w.logger.Warn("publish state change failed", "error", err, "changed", c.Kinds.String())
				continue
			}
			w.metrics.EventsPublished.Inc()
		}
	}
}

// Publish writes a single change.
func (w *Writer) Publish(ctx context.Context, c state.Change) error {
	msg, err := serializeToMessage(c, w.session)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a change into a Kafka message keyed by scope,
// so all changes of one scope land on the same partition.
func serializeToMessage(c state.Change, session string) (kafkago.Message, error) {
	sel := c.Selection
	event := StateEvent{
		Session:      session,
		Changed:      c.Kinds.Names(),
		Scope:        sel.Scope,
		Metric:       sel.Metric,
		Snapshot:     sel.Snapshot,
		Viewport:     sel.Viewport,
		CountryCount: len(sel.Countries),
		Seq:          sel.Seq,
		UpdatedAt:    sel.UpdatedAt,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize state event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(sel.Scope),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "change", Value: []byte(c.Kinds.String())},
			{Key: "session", Value: []byte(session)},
			{Key: "updated_at", Value: []byte(sel.UpdatedAt.Format(time.RFC3339))},
		},
	}, nil
}
