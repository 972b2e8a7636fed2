package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/HaroldK3/Student-Tracker/common/metrics"
	"github.com/HaroldK3/Student-Tracker/internal/config"
	"github.com/HaroldK3/Student-Tracker/internal/events"
	"github.com/HaroldK3/Student-Tracker/testing/testnats"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNATSPublisher(t *testing.T) {
	natsContainer := testnats.SetupSharedNATS(t)
	defer natsContainer.Cleanup(t)

	t.Run("Publish_UsesPrefixedSubject", func(t *testing.T) {
		publisher, err := events.NewNATSPublisher(natsContainer.URL, "tracker", metrics.NewMock().Events, discardLogger())
		require.NoError(t, err)
		defer publisher.Close()

		nc := natsContainer.Connect(t)
		received := make(chan *nats.Msg, 1)
		_, err = nc.Subscribe("tracker.attendance.checked_in", func(msg *nats.Msg) {
			received <- msg
		})
		require.NoError(t, err)
		require.NoError(t, nc.Flush())

		occurred := time.Date(2025, 3, 4, 9, 30, 0, 0, time.UTC)
		err = publisher.Publish(context.Background(), events.Event{
			Type:         events.TypeCheckedIn,
			AttendanceID: 11,
			StudentID:    5,
			OccurredAt:   occurred,
		})
		require.NoError(t, err)

		select {
		case msg := <-received:
			var got events.Event
			require.NoError(t, json.Unmarshal(msg.Data, &got))
			assert.Equal(t, events.TypeCheckedIn, got.Type)
			assert.Equal(t, 11, got.AttendanceID)
			assert.Equal(t, 5, got.StudentID)
			assert.True(t, occurred.Equal(got.OccurredAt))
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for event")
		}
	})

	t.Run("New_SelectsDriver", func(t *testing.T) {
		publisher, err := events.New(config.EventsConfig{
			Driver: config.EventsDriverNATS,
			NATS:   config.NATSConfig{URL: natsContainer.URL, SubjectPrefix: "tracker"},
		}, metrics.NewMock().Events, discardLogger())
		require.NoError(t, err)
		defer publisher.Close()

		_, ok := publisher.(*events.NATSPublisher)
		assert.True(t, ok)
	})

	t.Run("New_NoneIsNoop", func(t *testing.T) {
		publisher, err := events.New(config.EventsConfig{Driver: config.EventsDriverNone}, metrics.NewMock().Events, discardLogger())
		require.NoError(t, err)
		assert.NoError(t, publisher.Publish(context.Background(), events.Event{Type: events.TypeApproved}))
		assert.NoError(t, publisher.Close())
	})

	t.Run("New_UnknownDriver", func(t *testing.T) {
		_, err := events.New(config.EventsConfig{Driver: "smoke-signals"}, metrics.NewMock().Events, discardLogger())
		assert.Error(t, err)
	})
}
