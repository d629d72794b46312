package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/events"
	"github.com/spec-kit/ticket-triage/internal/triage"
	"github.com/spec-kit/ticket-triage/pkg/util"
)

type fakeTicketRepo struct {
	tickets map[string]*domain.Ticket
	nextID  int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.nextID++
	ticket.ID = fmt.Sprintf("t%d", r.nextID)
	r.tickets[ticket.ID] = ticket
	return nil
}

func (r *fakeTicketRepo) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, util.NewNotFound("ticket", nil)
	}
	return ticket, nil
}

func (r *fakeTicketRepo) List(ctx context.Context, limit, offset int) ([]domain.Ticket, error) {
	result := make([]domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		result = append(result, *ticket)
	}
	return result, nil
}

func (r *fakeTicketRepo) UpdateTriage(ctx context.Context, id string, fields triage.TicketUpdate) error {
	return nil
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) {
	d.published = append(d.published, event)
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *recordingDispatcher) Close() {}

func newServiceFixture() (*TicketService, *fakeTicketRepo, *recordingDispatcher) {
	repo := newFakeTicketRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewTicketService(TicketDependencies{TicketRepo: repo, Dispatcher: dispatcher})
	return svc, repo, dispatcher
}

func TestCreateTicketPublishesCreatedEvent(t *testing.T) {
	svc, _, dispatcher := newServiceFixture()

	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		Title:       "Database down",
		Description: "prod db timeout errors",
		CreatedBy:   "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusTodo, ticket.Status)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventTicketCreated, dispatcher.published[0].Type)
	assert.Equal(t, ticket.ID, dispatcher.published[0].TicketID)
}

func TestCreateTicketValidatesInput(t *testing.T) {
	svc, _, dispatcher := newServiceFixture()

	cases := []struct {
		name  string
		input TicketCreateInput
	}{
		{"missing title", TicketCreateInput{Description: "d"}},
		{"missing description", TicketCreateInput{Title: "t"}},
		{"blank title", TicketCreateInput{Title: "   ", Description: "d"}},
		{"title too long", TicketCreateInput{Title: strings.Repeat("a", domain.MaxTitleLength+1), Description: "d"}},
		{"description too long", TicketCreateInput{Title: "t", Description: strings.Repeat("a", domain.MaxDescriptionLength+1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateTicket(context.Background(), tc.input)
			require.Error(t, err)
			domainErr := util.ToDomainError(err)
			assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
		})
	}
	assert.Empty(t, dispatcher.published)
}

func TestRefreshTicketPublishesRefreshEvent(t *testing.T) {
	svc, repo, dispatcher := newServiceFixture()
	ticket := &domain.Ticket{Title: "t", Description: "d"}
	require.NoError(t, repo.Create(context.Background(), ticket))

	require.NoError(t, svc.RefreshTicket(context.Background(), ticket.ID))

	require.Len(t, dispatcher.published, 1)
	assert.Equal(t, events.EventTicketRefresh, dispatcher.published[0].Type)
	assert.Equal(t, ticket.ID, dispatcher.published[0].TicketID)
}

func TestRefreshTicketUnknownIDFails(t *testing.T) {
	svc, _, dispatcher := newServiceFixture()

	err := svc.RefreshTicket(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, util.IsNotFound(err))
	assert.Empty(t, dispatcher.published)
}

func TestGetTicketMapsNotFound(t *testing.T) {
	svc, _, _ := newServiceFixture()

	_, err := svc.GetTicket(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, util.IsNotFound(err))
}
