package events

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesSubscribersAsynchronously(t *testing.T) {
	dispatcher := NewAsyncDispatcher()
	received := make(chan Event, 1)
	dispatcher.Subscribe(EventTicketCreated, func(ctx context.Context, event Event) {
		received <- event
	})

	event := NewTicketEvent(EventTicketCreated, "t1")
	dispatcher.Publish(context.Background(), event)

	select {
	case got := <-received:
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, "t1", got.TicketID)
	case <-time.After(time.Second):
		t.Fatal("handler was never invoked")
	}
	dispatcher.Close()
}

func TestPublishDoesNotBlockOnSlowHandler(t *testing.T) {
	dispatcher := NewAsyncDispatcher()
	release := make(chan struct{})
	dispatcher.Subscribe(EventTicketRefresh, func(ctx context.Context, event Event) {
		<-release
	})

	done := make(chan struct{})
	go func() {
		dispatcher.Publish(context.Background(), NewTicketEvent(EventTicketRefresh, "t1"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on handler")
	}
	close(release)
	dispatcher.Close()
}

func TestPublishIgnoresUnsubscribedEventTypes(t *testing.T) {
	dispatcher := NewAsyncDispatcher()
	var calls atomic.Int64
	dispatcher.Subscribe(EventTicketCreated, func(ctx context.Context, event Event) {
		calls.Add(1)
	})

	dispatcher.Publish(context.Background(), NewTicketEvent(EventTicketRefresh, "t1"))
	dispatcher.Close()

	assert.Zero(t, calls.Load())
}

func TestHandlerContextSurvivesCallerCancellation(t *testing.T) {
	dispatcher := NewAsyncDispatcher()
	ctxErr := make(chan error, 1)
	dispatcher.Subscribe(EventTicketCreated, func(ctx context.Context, event Event) {
		ctxErr <- ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dispatcher.Publish(ctx, NewTicketEvent(EventTicketCreated, "t1"))
	dispatcher.Close()

	require.NoError(t, <-ctxErr)
}

func TestCloseWaitsForInflightHandlers(t *testing.T) {
	dispatcher := NewAsyncDispatcher()
	var finished atomic.Bool
	dispatcher.Subscribe(EventTicketCreated, func(ctx context.Context, event Event) {
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
	})

	dispatcher.Publish(context.Background(), NewTicketEvent(EventTicketCreated, "t1"))
	dispatcher.Close()

	assert.True(t, finished.Load())
}
