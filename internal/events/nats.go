package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/HaroldK3/Student-Tracker/common/metrics"

	"github.com/nats-io/nats.go"
)

type NATSPublisher struct {
	conn          *nats.Conn
	subjectPrefix string
	metrics       *metrics.EventMetrics
	logger        *slog.Logger
}

func NewNATSPublisher(url, subjectPrefix string, m *metrics.EventMetrics, logger *slog.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("student-tracker"))
	if err != nil {
		return nil, err
	}

	logger.Info("NATS publisher initialized", "url", url, "subject_prefix", subjectPrefix)

	return &NATSPublisher{
		conn:          nc,
		subjectPrefix: subjectPrefix,
		metrics:       m,
		logger:        logger,
	}, nil
}

// Subject returns the subject an event type is published on.
func (p *NATSPublisher) Subject(eventType string) string {
	if p.subjectPrefix == "" {
		return eventType
	}
	return p.subjectPrefix + "." + eventType
}

func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	start := time.Now()
	err := p.publish(event)
	p.metrics.RecordPublish(ctx, "nats", event.Type, time.Since(start), err)
	return err
}

func (p *NATSPublisher) publish(event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	subject := p.Subject(event.Type)
	if err := p.conn.Publish(subject, data); err != nil {
		return err
	}

	p.logger.Debug("event sent to NATS", "subject", subject)
	return nil
}

func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
