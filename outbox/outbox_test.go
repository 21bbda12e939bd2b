package outbox_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThreeDotsLabs/eventful/outbox"
)

type orderCreated struct {
	OrderID string `json:"order_id"`
}

func (orderCreated) EventName() string { return "order.created" }

func newTestOutbox(t *testing.T, store outbox.Store) *outbox.Outbox {
	t.Helper()

	o, err := outbox.NewOutbox(store, outbox.Config{
		Now: func() time.Time {
			return time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
		},
	})
	require.NoError(t, err)

	return o
}

func TestOutbox_publish_stages_entry(t *testing.T) {
	store := outbox.NewInMemoryStore()
	o := newTestOutbox(t, store)

	require.NoError(t, o.Publish(context.Background(), orderCreated{OrderID: "1"}))

	entries, err := store.Unpublished(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.NotEmpty(t, entries[0].UUID)
	assert.Equal(t, "order.created", entries[0].Name)
	assert.JSONEq(t, `{"order_id": "1"}`, string(entries[0].Payload))
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), entries[0].OccurredAt)
}

func TestOutbox_relay_forwards_in_order(t *testing.T) {
	store := outbox.NewInMemoryStore()
	o := newTestOutbox(t, store)

	ctx := context.Background()
	require.NoError(t, o.Publish(ctx, orderCreated{OrderID: "1"}))
	require.NoError(t, o.Publish(ctx, orderCreated{OrderID: "2"}))

	var forwarded []string
	published, err := o.Relay(ctx, func(ctx context.Context, entry outbox.Entry) error {
		forwarded = append(forwarded, string(entry.Payload))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, published)
	assert.Equal(t, []string{`{"order_id":"1"}`, `{"order_id":"2"}`}, forwarded)

	entries, err := store.Unpublished(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOutbox_relay_is_idempotent(t *testing.T) {
	store := outbox.NewInMemoryStore()
	o := newTestOutbox(t, store)

	ctx := context.Background()
	require.NoError(t, o.Publish(ctx, orderCreated{OrderID: "1"}))

	forwarded := 0
	forward := func(ctx context.Context, entry outbox.Entry) error {
		forwarded++
		return nil
	}

	published, err := o.Relay(ctx, forward)
	require.NoError(t, err)
	assert.Equal(t, 1, published)

	published, err = o.Relay(ctx, forward)
	require.NoError(t, err)
	assert.Equal(t, 0, published)

	assert.Equal(t, 1, forwarded)
}

func TestOutbox_relay_stops_on_failure(t *testing.T) {
	store := outbox.NewInMemoryStore()
	o := newTestOutbox(t, store)

	ctx := context.Background()
	require.NoError(t, o.Publish(ctx, orderCreated{OrderID: "1"}))
	require.NoError(t, o.Publish(ctx, orderCreated{OrderID: "2"}))
	require.NoError(t, o.Publish(ctx, orderCreated{OrderID: "3"}))

	failures := 1
	forwarded := 0
	forward := func(ctx context.Context, entry outbox.Entry) error {
		if forwarded == 1 && failures > 0 {
			failures--
			return assert.AnError
		}
		forwarded++
		return nil
	}

	published, err := o.Relay(ctx, forward)
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, published)

	entries, unpublishedErr := store.Unpublished(ctx)
	require.NoError(t, unpublishedErr)
	assert.Len(t, entries, 2, "the failing entry and all entries after it must stay unpublished")

	// the next relay run picks up where the failed one stopped
	published, err = o.Relay(ctx, forward)
	require.NoError(t, err)
	assert.Equal(t, 2, published)
}

func TestOutbox_missing_store(t *testing.T) {
	_, err := outbox.NewOutbox(nil, outbox.Config{})
	require.Error(t, err)
}

func TestOutbox_missing_event(t *testing.T) {
	o := newTestOutbox(t, outbox.NewInMemoryStore())

	require.Error(t, o.Publish(context.Background(), nil))
}
