package triage

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/config"
	"github.com/spec-kit/ticket-triage/internal/domain"
	"github.com/spec-kit/ticket-triage/internal/observability"
)

// Engine executes the ordered triage pipelines for a ticket, with per-step
// retry and write-once memoization. No error ever escapes the engine; every
// run resolves to a boolean outcome and step-level diagnostics go to the log.
type Engine struct {
	store      TicketStore
	resolver   *AssignmentResolver
	classifier *Classifier
	notifier   Notifier
	recorder   RunRecorder
	metrics    *observability.Metrics
	logger     *zap.Logger
	cfg        config.TriageConfig
}

// Dependencies bundles the engine's collaborators.
type Dependencies struct {
	Store      TicketStore
	Directory  UserDirectory
	Classifier *Classifier
	Notifier   Notifier
	Recorder   RunRecorder
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewEngine constructs the engine.
func NewEngine(cfg config.TriageConfig, deps Dependencies) *Engine {
	return &Engine{
		store:      deps.Store,
		resolver:   NewAssignmentResolver(deps.Directory),
		classifier: deps.Classifier,
		notifier:   deps.Notifier,
		recorder:   deps.Recorder,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		cfg:        cfg,
	}
}

// Outcome is all a caller learns about a run.
type Outcome struct {
	RunID   string
	Success bool
}

// step pairs a name with the unit of work it performs. The returned value is
// memoized on the run; the executor owns retries and idempotency.
type step struct {
	name string
	run  func(ctx context.Context) (any, error)
}

// runState carries memoized step outputs through one run. Steps execute
// strictly in order, so later steps read what earlier ones wrote.
type runState struct {
	ticket   *domain.Ticket
	skills   []string
	assignee *domain.User
}

// RunCreate executes the full triage pipeline for a freshly created ticket.
func (e *Engine) RunCreate(ctx context.Context, ticketID string) Outcome {
	state := &runState{}
	return e.execute(ctx, PipelineCreate, e.cfg.CreateRetries, e.createSteps(ticketID, state), ticketID)
}

// RunRefresh re-runs analysis and assignment to repair tickets that missed
// enrichment, without forcing status or stripping an existing assignee.
func (e *Engine) RunRefresh(ctx context.Context, ticketID string) Outcome {
	state := &runState{}
	return e.execute(ctx, PipelineRefresh, e.cfg.RefreshRetries, e.refreshSteps(ticketID, state), ticketID)
}

func (e *Engine) execute(ctx context.Context, pipeline string, retries int, steps []step, ticketID string) Outcome {
	if retries < 0 {
		retries = 0
	}
	names := make([]string, len(steps))
	for i, st := range steps {
		names[i] = st.name
	}
	run := newRun(pipeline, ticketID, names)
	run.Status = RunRunning

	logger := e.logger.With(
		zap.String("run_id", run.ID),
		zap.String("pipeline", pipeline),
		zap.String("ticket_id", ticketID))
	logger.Info("run started")

	for i := range steps {
		result := &run.Steps[i]
		if result.Status == StepSucceeded {
			continue
		}
		if err := e.executeStep(ctx, steps[i], result, retries, logger); err != nil {
			if IsTerminal(err) {
				run.finish(RunAborted)
			} else {
				run.finish(RunFailedExhausted)
			}
			break
		}
	}
	run.finish(RunCompleted)

	e.metrics.RecordRun(pipeline, string(run.Status))
	if run.Success {
		logger.Info("run completed")
	} else {
		logger.Warn("run failed", zap.String("status", string(run.Status)))
	}
	e.record(ctx, run, logger)

	return Outcome{RunID: run.ID, Success: run.Success}
}

// executeStep runs one step with its retry budget. A step that already
// recorded success is never re-invoked; the caller guarantees that by
// skipping succeeded results.
func (e *Engine) executeStep(ctx context.Context, st step, result *StepResult, retries int, logger *zap.Logger) error {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			e.metrics.RecordStepRetry(st.name)
			logger.Info("retrying step", zap.String("step", st.name), zap.Int("attempt", attempt+1))
		}
		result.Attempts++

		output, err := st.run(ctx)
		if err == nil {
			result.Status = StepSucceeded
			result.Output = output
			result.Error = ""
			return nil
		}

		lastErr = err
		result.Error = err.Error()
		if IsTerminal(err) {
			result.Status = StepFailedTerminal
			e.metrics.RecordStepFailure(st.name, "terminal")
			logger.Error("step failed terminally", zap.String("step", st.name), zap.Error(err))
			return err
		}
		result.Status = StepFailedRetriable
		e.metrics.RecordStepFailure(st.name, "retriable")
		logger.Warn("step attempt failed", zap.String("step", st.name), zap.Error(err))
	}
	e.metrics.RecordStepFailure(st.name, "exhausted")
	return lastErr
}

func (e *Engine) record(ctx context.Context, run *Run, logger *zap.Logger) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.Record(ctx, run); err != nil {
		logger.Warn("run telemetry not recorded", zap.Error(err))
	}
}
