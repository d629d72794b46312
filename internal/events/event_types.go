package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated EventType = "ticket/created"
	EventTicketRefresh EventType = "ticket/refresh"
)

// Event is a trigger carrying the ticket a workflow run should process.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  string    `json:"ticket_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTicketEvent builds an event for the given ticket.
func NewTicketEvent(eventType EventType, ticketID string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Timestamp: time.Now(),
	}
}
