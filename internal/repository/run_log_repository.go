package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/ticket-triage/internal/triage"
)

// runLogRetention caps how many runs are kept per ticket.
const runLogRetention = 20

// RunLogRepository records workflow run outcomes in Redis so they are
// observable without a synchronous caller. Satisfies triage.RunRecorder.
type RunLogRepository struct {
	client *redis.Client
}

// NewRunLogRepository creates the run log. A nil client disables recording.
func NewRunLogRepository(client *redis.Client) *RunLogRepository {
	if client == nil {
		return nil
	}
	return &RunLogRepository{client: client}
}

// Record appends the run to the ticket's capped history and updates the
// last-run key.
func (r *RunLogRepository) Record(ctx context.Context, run *triage.Run) error {
	if r == nil || r.client == nil {
		return nil
	}
	payload, err := json.Marshal(run)
	if err != nil {
		return err
	}

	historyKey := "triage:runs:" + run.TicketID
	lastKey := "triage:run:last:" + run.TicketID

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, historyKey, payload)
	pipe.LTrim(ctx, historyKey, 0, runLogRetention-1)
	pipe.Set(ctx, lastKey, payload, 0)
	_, err = pipe.Exec(ctx)
	return err
}

// LastRun returns the most recent run recorded for a ticket, or nil when
// none exists.
func (r *RunLogRepository) LastRun(ctx context.Context, ticketID string) (*triage.Run, error) {
	if r == nil || r.client == nil {
		return nil, nil
	}
	payload, err := r.client.Get(ctx, "triage:run:last:"+ticketID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var run triage.Run
	if err := json.Unmarshal(payload, &run); err != nil {
		return nil, err
	}
	return &run, nil
}
