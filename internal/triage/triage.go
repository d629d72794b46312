// Package triage implements the event-driven workflow engine that enriches
// and routes newly created or stale tickets: fetch, classify, normalize,
// assign, notify. The engine consumes narrow interfaces for its collaborators
// so runs are testable in isolation with fakes.
package triage

import (
	"context"

	"github.com/spec-kit/ticket-triage/internal/domain"
)

// TicketStore is the slice of ticket persistence the engine needs. Get must
// return an error satisfying util.IsNotFound when the ticket is gone.
type TicketStore interface {
	Get(ctx context.Context, id string) (*domain.Ticket, error)
	UpdateTriage(ctx context.Context, id string, fields TicketUpdate) error
}

// TicketUpdate is a partial-field update. Nil pointers leave the column
// untouched; AssignedTo is only written when SetAssignedTo is true so the
// zero value never clears an assignee by accident.
type TicketUpdate struct {
	Status        *domain.TicketStatus
	Priority      *domain.TicketPriority
	HelpfulNotes  *string
	RelatedSkills []string
	SetAssignedTo bool
	AssignedTo    *string
}

// UserFilter selects directory entries by role and, optionally, by skill
// overlap.
type UserFilter struct {
	Role      domain.UserRole
	SkillsAny []string
}

// UserDirectory resolves users for assignment. FindOne returns (nil, nil)
// when no user matches; an error means the lookup itself failed.
type UserDirectory interface {
	FindOne(ctx context.Context, filter UserFilter) (*domain.User, error)
}

// Notifier delivers best-effort messages to handlers.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Oracle is the external text-analysis call behind the Classifier.
type Oracle interface {
	Analyze(ctx context.Context, title, description string) (*AnalysisResult, error)
}

// RunRecorder persists run telemetry. Recording is best-effort; the engine
// logs and continues when it fails.
type RunRecorder interface {
	Record(ctx context.Context, run *Run) error
}

// AnalysisResult is the structured outcome of classifying one ticket.
type AnalysisResult struct {
	Summary       string                `json:"summary"`
	Priority      domain.TicketPriority `json:"priority"`
	HelpfulNotes  string                `json:"helpfulNotes"`
	RelatedSkills []string              `json:"relatedSkills"`
}
