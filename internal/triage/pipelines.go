package triage

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/pkg/util"
)

// Pipeline names, one per triggering event.
const (
	PipelineCreate  = "on-ticket-created"
	PipelineRefresh = "on-ticket-refresh"
)

func (e *Engine) createSteps(ticketID string, state *runState) []step {
	return []step{
		{name: "fetch-ticket", run: e.fetchStep(ticketID, state)},
		{name: "update-ticket-status", run: e.statusStep(ticketID)},
		{name: "ai-processing", run: e.analyzeStep(ticketID, state, true)},
		{name: "assign-moderator", run: e.assignStep(ticketID, state, true)},
		{name: "send-email-notification", run: e.notifyStep(ticketID, state)},
	}
}

func (e *Engine) refreshSteps(ticketID string, state *runState) []step {
	return []step{
		{name: "fetch-ticket", run: e.fetchStep(ticketID, state)},
		{name: "ai-analysis", run: e.analyzeStep(ticketID, state, false)},
		{name: "assign-user", run: e.assignStep(ticketID, state, false)},
	}
}

// fetchStep loads the ticket. A missing ticket is terminal: it was deleted
// between the event being sent and the run starting, and no retry helps.
func (e *Engine) fetchStep(ticketID string, state *runState) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		ticket, err := e.store.Get(ctx, ticketID)
		if err != nil {
			if util.IsNotFound(err) {
				return nil, Terminal(err)
			}
			return nil, err
		}
		state.ticket = ticket
		return ticket, nil
	}
}

// statusStep normalizes the ticket to TODO right after creation.
func (e *Engine) statusStep(ticketID string) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		status := domain.TicketStatusTodo
		if err := e.store.UpdateTriage(ctx, ticketID, TicketUpdate{Status: &status}); err != nil {
			return nil, err
		}
		return string(status), nil
	}
}

// analyzeStep classifies the ticket, normalizes skills and persists the
// enrichment. A classifier fallback is a valid success, not a failure; only
// the persistence write can fail here, and it is retriable.
func (e *Engine) analyzeStep(ticketID string, state *runState, forceStatus bool) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		analysis := e.classifier.Classify(ctx, state.ticket.Title, state.ticket.Description)
		skills := NormalizeSkills(analysis.RelatedSkills)

		priority := analysis.Priority
		if !domain.ValidPriority(priority) {
			priority = domain.TicketPriorityMedium
		}

		update := TicketUpdate{
			Priority:      &priority,
			HelpfulNotes:  &analysis.HelpfulNotes,
			RelatedSkills: skills,
		}
		if forceStatus {
			status := domain.TicketStatusTodo
			update.Status = &status
		}
		if err := e.store.UpdateTriage(ctx, ticketID, update); err != nil {
			return nil, err
		}
		state.skills = skills
		return skills, nil
	}
}

// assignStep resolves a moderator for the normalized skills and persists the
// result. The create pipeline persists null when nobody is eligible; the
// refresh pipeline leaves an existing assignee alone in that case.
func (e *Engine) assignStep(ticketID string, state *runState, persistNull bool) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		assignee, err := e.resolver.Resolve(ctx, state.skills)
		if err != nil {
			return nil, err
		}
		if assignee == nil && !persistNull {
			return nil, nil
		}
		update := TicketUpdate{SetAssignedTo: true}
		if assignee != nil {
			update.AssignedTo = &assignee.ID
		}
		if err := e.store.UpdateTriage(ctx, ticketID, update); err != nil {
			return nil, err
		}
		state.assignee = assignee
		if assignee == nil {
			return nil, nil
		}
		return assignee.Email, nil
	}
}

// notifyStep tells the assigned moderator about the ticket. Delivery is
// best-effort: a notifier error is logged and the run outcome is unaffected.
func (e *Engine) notifyStep(ticketID string, state *runState) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		if state.assignee == nil || e.notifier == nil {
			return nil, nil
		}
		title := state.ticket.Title
		if ticket, err := e.store.Get(ctx, ticketID); err == nil {
			title = ticket.Title
		}
		body := "A new ticket is assigned to you: " + title
		if err := e.notifier.Send(ctx, state.assignee.Email, "Ticket Assigned", body); err != nil {
			e.metrics.RecordStepFailure("send-email-notification", "notify")
			e.logger.Warn("notification failed",
				zap.String("ticket_id", ticketID),
				zap.String("to", state.assignee.Email),
				zap.Error(err))
		}
		return state.assignee.Email, nil
	}
}
