package service

import (
	"context"
	"strings"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/repository"
	apperrors "github.com/spec-kit/ticket-triage/pkg/util"
)

// TicketService owns the request-side ticket operations. Triage itself runs
// asynchronously: creation and refresh only publish the trigger event, the
// caller never waits for workflow completion.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	CreatedBy   string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket persists a new ticket and triggers the create pipeline.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}
	if len(title) > domain.MaxTitleLength {
		return nil, apperrors.NewValidationError("title too long", map[string]any{"max": domain.MaxTitleLength})
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, apperrors.NewValidationError("description too long", map[string]any{"max": domain.MaxDescriptionLength})
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: description,
		Status:      domain.TicketStatusTodo,
		Priority:    domain.TicketPriorityMedium,
		CreatedBy:   input.CreatedBy,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventTicketCreated, ticket.ID)
	return ticket, nil
}

// RefreshTicket triggers the refresh pipeline for an existing ticket. It is
// the repair path for tickets that missed priority/assignment enrichment.
func (s *TicketService) RefreshTicket(ctx context.Context, ticketID string) error {
	if _, err := s.tickets.Get(ctx, ticketID); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.EventTicketRefresh, ticketID)
	return nil
}

// GetTicket loads one ticket.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.Get(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// ListTickets lists tickets newest first.
func (s *TicketService) ListTickets(ctx context.Context, limit, offset int) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func (s *TicketService) publish(ctx context.Context, eventType events.EventType, ticketID string) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Publish(ctx, events.NewTicketEvent(eventType, ticketID))
}
