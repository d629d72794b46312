package worker

import (
	"context"

	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/triage"
)

// StartTriageWorker subscribes the workflow engine to the trigger events.
// Exactly one run starts per event; outcomes surface through logs and the
// run recorder only.
func StartTriageWorker(dispatcher events.Dispatcher, engine *triage.Engine) {
	if dispatcher == nil || engine == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketCreated, func(ctx context.Context, event events.Event) {
		engine.RunCreate(ctx, event.TicketID)
	})
	dispatcher.Subscribe(events.EventTicketRefresh, func(ctx context.Context, event events.Event) {
		engine.RunRefresh(ctx, event.TicketID)
	})
}
