// Package events publishes attendance and location changes to NATS or Kafka.
package events

import (
	"context"
	"log/slog"
	"strconv"
	"time"
)

const (
	TypeCheckedIn        = "attendance.checked_in"
	TypeCheckedOut       = "attendance.checked_out"
	TypeApproved         = "attendance.approved"
	TypeMarked           = "attendance.marked"
	TypeLocationRecorded = "location.recorded"
)

type Event struct {
	Type         string    `json:"type"`
	AttendanceID int       `json:"attendanceId,omitempty"`
	LocationID   int       `json:"locationId,omitempty"`
	StudentID    int       `json:"studentId"`
	Status       string    `json:"status,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// Key partitions events by student.
func (e Event) Key() string {
	return strconv.Itoa(e.StudentID)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Emit publishes event and logs a failure instead of returning it; a lost
// event never fails the write that produced it.
func Emit(ctx context.Context, publisher Publisher, event Event, logger *slog.Logger) {
	if publisher == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "failed to publish event",
			"type", event.Type,
			"student_id", event.StudentID,
			"error", err,
		)
	}
}

type noopPublisher struct{}

// NewNoop returns a publisher that drops every event.
func NewNoop() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, Event) error { return nil }

func (noopPublisher) Close() error { return nil }
