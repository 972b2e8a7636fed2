package events

import (
	"fmt"
	"log/slog"

	"github.com/HaroldK3/Student-Tracker/common/metrics"
	"github.com/HaroldK3/Student-Tracker/internal/config"
)

// New builds the publisher selected by cfg.Driver.
func New(cfg config.EventsConfig, m *metrics.EventMetrics, logger *slog.Logger) (Publisher, error) {
	switch cfg.Driver {
	case "", config.EventsDriverNone:
		logger.Info("event publishing disabled")
		return NewNoop(), nil
	case config.EventsDriverNATS:
		p, err := NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix, m, logger)
		if err != nil {
			return nil, fmt.Errorf("connect nats: %w", err)
		}
		return p, nil
	case config.EventsDriverKafka:
		p, err := NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, m, logger)
		if err != nil {
			return nil, fmt.Errorf("connect kafka: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}
