package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusTodo       TicketStatus = "TODO"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusDone       TicketStatus = "DONE"
	TicketStatusCancelled  TicketStatus = "CANCELLED"
)

// TicketPriority enumerates triage urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// ValidPriority reports whether p is one of the known priority values.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// Title and description bounds enforced at creation.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// Ticket is the aggregate for support requests. Priority, RelatedSkills and
// HelpfulNotes are written by the triage engine; AssignedTo stays nil until
// an assignment step succeeds.
type Ticket struct {
	ID            string
	Title         string
	Description   string
	Status        TicketStatus
	Priority      TicketPriority
	CreatedBy     string
	AssignedTo    *string
	RelatedSkills []string
	HelpfulNotes  string
	Deadline      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
