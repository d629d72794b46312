package dto

import (
	"time"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/triage"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedBy   string `json:"created_by"`
}

// TicketResponse is the full ticket view, including the fields the triage
// engine writes.
type TicketResponse struct {
	ID            string                `json:"id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Status        domain.TicketStatus   `json:"status"`
	Priority      domain.TicketPriority `json:"priority"`
	CreatedBy     string                `json:"created_by"`
	AssignedTo    *string               `json:"assigned_to"`
	RelatedSkills []string              `json:"related_skills"`
	HelpfulNotes  string                `json:"helpful_notes"`
	Deadline      *time.Time            `json:"deadline,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// TicketDetailResponse adds the last workflow run telemetry when available.
type TicketDetailResponse struct {
	TicketResponse
	LastRun *triage.Run `json:"last_run,omitempty"`
}

// FromTicket maps a domain ticket onto the response shape.
func FromTicket(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:            ticket.ID,
		Title:         ticket.Title,
		Description:   ticket.Description,
		Status:        ticket.Status,
		Priority:      ticket.Priority,
		CreatedBy:     ticket.CreatedBy,
		AssignedTo:    ticket.AssignedTo,
		RelatedSkills: ticket.RelatedSkills,
		HelpfulNotes:  ticket.HelpfulNotes,
		Deadline:      ticket.Deadline,
		CreatedAt:     ticket.CreatedAt,
		UpdatedAt:     ticket.UpdatedAt,
	}
}
