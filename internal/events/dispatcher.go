package events

import (
	"context"
	"sync"
)

// EventHandler handles a published event. Handlers own their outcome; nothing
// is reported back to the publisher.
type EventHandler func(context.Context, Event)

// Dispatcher decouples event producers from workflow execution.
type Dispatcher interface {
	Publish(ctx context.Context, event Event)
	Subscribe(eventType EventType, handler EventHandler)
	Close()
}

// asyncDispatcher runs every handler in its own goroutine so the publishing
// request never blocks on triage work.
type asyncDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
	wg        sync.WaitGroup
}

// NewAsyncDispatcher creates a dispatcher instance.
func NewAsyncDispatcher() Dispatcher {
	return &asyncDispatcher{
		listeners: make(map[EventType][]EventHandler),
	}
}

// Publish starts one handler invocation per subscriber and returns
// immediately. The handler context is detached from the caller's so an HTTP
// request finishing does not cancel the run it triggered.
func (d *asyncDispatcher) Publish(ctx context.Context, event Event) {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	detached := context.WithoutCancel(ctx)
	for _, handler := range handlers {
		d.wg.Add(1)
		go func(h EventHandler) {
			defer d.wg.Done()
			h(detached, event)
		}(handler)
	}
}

// Subscribe registers a handler for the given event type.
func (d *asyncDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// Close waits for in-flight handlers to finish. Runs have no cancel signal;
// shutdown drains them instead.
func (d *asyncDispatcher) Close() {
	d.wg.Wait()
}
