package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-triage/internal/api/dto"
	"github.com/spec-kit/ticket-triage/internal/repository"
	"github.com/spec-kit/ticket-triage/internal/service"
	apperrors "github.com/spec-kit/ticket-triage/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
	runLog  *repository.RunLogRepository
}

// NewTicketsHandler constructs handler. runLog may be nil.
func NewTicketsHandler(ticketService *service.TicketService, runLog *repository.RunLogRepository) *TicketsHandler {
	return &TicketsHandler{service: ticketService, runLog: runLog}
}

// CreateTicket POST /tickets. Returns 201 as soon as the ticket is stored;
// triage runs asynchronously.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "ticket created and processing started",
		"data":    dto.FromTicket(ticket),
	})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)

	tickets, err := h.service.ListTickets(c.UserContext(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.FromTicket(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	detail := dto.TicketDetailResponse{TicketResponse: dto.FromTicket(ticket)}
	if h.runLog != nil {
		// telemetry is best-effort; a redis miss never fails the read
		if run, err := h.runLog.LastRun(c.UserContext(), ticket.ID); err == nil {
			detail.LastRun = run
		}
	}
	return c.JSON(fiber.Map{"data": detail})
}

// RefreshTicket POST /tickets/:id/refresh. Fire-and-continue: the response
// only acknowledges that the refresh run was triggered.
func (h *TicketsHandler) RefreshTicket(c *fiber.Ctx) error {
	if err := h.service.RefreshTicket(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"message": "ticket refresh started",
	})
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
