package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotely/internal/events"
	"github.com/smallbiznis/quotely/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingDispatcher struct {
	seen   []string
	failOn string
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, record events.Record) error {
	if record.EventType == d.failOn {
		return errors.New("sink unavailable")
	}
	d.seen = append(d.seen, record.EventType)
	return nil
}

func seedEvents(t *testing.T, outbox *events.Outbox, orgID snowflake.ID, types ...string) {
	t.Helper()
	for _, eventType := range types {
		require.NoError(t, outbox.Publish(context.Background(), events.Event{
			OrgID:   orgID,
			Type:    eventType,
			Payload: map[string]any{"quotation_id": "1"},
		}))
	}
}

func TestRunOnceRelaysInOrder(t *testing.T) {
	db := dbtest.Open(t)
	node := dbtest.Node(t)
	_, org := dbtest.SeedOrg(t, db, node)
	outbox := events.NewOutbox(db, node)
	seedEvents(t, outbox, org.ID,
		events.EventQuotationCreated,
		events.EventQuotationUpdated,
		events.EventQuotationExported,
	)

	dispatcher := &recordingDispatcher{}
	s := NewScheduler(Config{BatchSize: 2}, db, zap.NewNop(), outbox, dispatcher)

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{
		events.EventQuotationCreated,
		events.EventQuotationUpdated,
		events.EventQuotationExported,
	}, dispatcher.seen)

	pending, err := outbox.Pending(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	n, err = s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunOnceKeepsFailedEventPending(t *testing.T) {
	db := dbtest.Open(t)
	node := dbtest.Node(t)
	_, org := dbtest.SeedOrg(t, db, node)
	outbox := events.NewOutbox(db, node)
	seedEvents(t, outbox, org.ID,
		events.EventQuotationCreated,
		events.EventQuotationStatusChanged,
		events.EventQuotationDeleted,
	)

	dispatcher := &recordingDispatcher{failOn: events.EventQuotationStatusChanged}
	s := NewScheduler(Config{BatchSize: 10}, db, zap.NewNop(), outbox, dispatcher)

	n, err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, n)

	pending, err := outbox.Pending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, events.EventQuotationStatusChanged, pending[0].EventType)
}

func TestStartStop(t *testing.T) {
	db := dbtest.Open(t)
	node := dbtest.Node(t)
	s := NewScheduler(Config{}, db, zap.NewNop(), events.NewOutbox(db, node), nil)
	s.Start()
	s.Stop()
	s.Stop()
}
