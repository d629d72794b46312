package triage

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus enumerates workflow run states.
type RunStatus string

const (
	RunPending         RunStatus = "PENDING"
	RunRunning         RunStatus = "RUNNING"
	RunCompleted       RunStatus = "COMPLETED"
	RunAborted         RunStatus = "ABORTED"
	RunFailedExhausted RunStatus = "FAILED_EXHAUSTED"
)

// StepStatus enumerates per-step outcomes within a run.
type StepStatus string

const (
	StepPending         StepStatus = "pending"
	StepSucceeded       StepStatus = "succeeded"
	StepFailedRetriable StepStatus = "failed-retriable"
	StepFailedTerminal  StepStatus = "failed-terminal"
)

// StepResult records one step's outcome. Output is the memoized value; once
// Status is succeeded the step is never re-executed within the run.
type StepResult struct {
	Name     string     `json:"name"`
	Status   StepStatus `json:"status"`
	Attempts int        `json:"attempts"`
	Output   any        `json:"output,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// Run is one execution of a pipeline for one ticket and one triggering
// event. It is ephemeral: the engine keeps it only for the duration of the
// execution and hands it to the recorder afterwards.
type Run struct {
	ID         string       `json:"id"`
	TicketID   string       `json:"ticket_id"`
	Pipeline   string       `json:"pipeline"`
	Status     RunStatus    `json:"status"`
	Steps      []StepResult `json:"steps"`
	Success    bool         `json:"success"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
}

func newRun(pipeline, ticketID string, stepNames []string) *Run {
	steps := make([]StepResult, len(stepNames))
	for i, name := range stepNames {
		steps[i] = StepResult{Name: name, Status: StepPending}
	}
	return &Run{
		ID:        uuid.NewString(),
		TicketID:  ticketID,
		Pipeline:  pipeline,
		Status:    RunPending,
		Steps:     steps,
		StartedAt: time.Now(),
	}
}

// terminal reports whether the run reached a final state.
func (r *Run) terminal() bool {
	switch r.Status {
	case RunCompleted, RunAborted, RunFailedExhausted:
		return true
	}
	return false
}

// finish moves the run into a terminal state. Terminal states are sticky; a
// second call is a no-op.
func (r *Run) finish(status RunStatus) {
	if r.terminal() {
		return
	}
	r.Status = status
	r.Success = status == RunCompleted
	r.FinishedAt = time.Now()
}
