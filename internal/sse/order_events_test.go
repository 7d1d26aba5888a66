package sse_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pos-backend/internal/models"
	"pos-backend/internal/sse"
)

func TestSubscriberReceivesExactlyOneCopy(t *testing.T) {
	emitter := sse.NewOrderEventEmitter()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := emitter.Subscribe(ctx)

	order := models.Order{ID: "ORD-1", Status: models.StatusPending}
	emitter.Publish(models.EventOrderNew, order)

	select {
	case got := <-events:
		assert.Equal(t, models.EventOrderNew, got.Event)
		assert.Equal(t, "ORD-1", got.Data.ID)
	case <-time.After(time.Second):
		t.Fatal("expected event was not delivered")
	}

	// Exactly one copy: no second delivery pending.
	select {
	case got := <-events:
		t.Fatalf("unexpected extra event: %+v", got)
	default:
	}
}

func TestLateSubscriberMissesEarlierEvents(t *testing.T) {
	emitter := sse.NewOrderEventEmitter()

	emitter.Publish(models.EventOrderNew, models.Order{ID: "ORD-before"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := emitter.Subscribe(ctx)

	emitter.Publish(models.EventOrderUpdated, models.Order{ID: "ORD-after"})

	got := <-events
	assert.Equal(t, "ORD-after", got.Data.ID, "the pre-subscription event must never be replayed")
}

func TestAllSubscribersReceiveBroadcast(t *testing.T) {
	emitter := sse.NewOrderEventEmitter()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := emitter.Subscribe(ctx)
	second := emitter.Subscribe(ctx)
	assert.Equal(t, 2, emitter.ClientCount())

	emitter.Publish(models.EventOrderNew, models.Order{ID: "ORD-1"})

	assert.Equal(t, "ORD-1", (<-first).Data.ID)
	assert.Equal(t, "ORD-1", (<-second).Data.ID)
}

func TestContextCancelUnsubscribes(t *testing.T) {
	emitter := sse.NewOrderEventEmitter()

	ctx, cancel := context.WithCancel(context.Background())
	events := emitter.Subscribe(ctx)
	assert.Equal(t, 1, emitter.ClientCount())

	cancel()

	assert.Eventually(t, func() bool {
		return emitter.ClientCount() == 0
	}, time.Second, 10*time.Millisecond)

	// Channel is closed after removal.
	assert.Eventually(t, func() bool {
		select {
		case _, open := <-events:
			return !open
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestSlowSubscriberIsSkippedNotBlocked(t *testing.T) {
	emitter := sse.NewOrderEventEmitter()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	emitter.Subscribe(ctx)

	done := make(chan struct{})
	go func() {
		// Publish far more events than the subscriber buffer holds without
		// ever draining it; publish must never block.
		for i := 0; i < 100; i++ {
			emitter.Publish(models.EventOrderNew, models.Order{ID: "ORD-flood"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a stalled subscriber")
	}
}
