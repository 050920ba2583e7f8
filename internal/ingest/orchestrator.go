package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/jera/internal/index"
	"github.com/starford/jera/internal/models"
	"github.com/starford/jera/internal/storage"
	"github.com/starford/jera/internal/store"
)

// State is one phase of the linear sync state machine.
type State string

const (
	StateStart          State = "start"
	StateCursorResolved State = "cursor_resolved"
	StatePlanned        State = "planned"
	StateWritten        State = "written"
	StateDone           State = "done"
	StateFailed         State = "failed"
)

// Orchestrator drives one full sync pass:
// Start → CursorResolved → Planned → Written → Done, or Failed on a
// fatal error. Per-note parse problems and per-record rejections are
// never fatal; store failures during resolve and transport failures
// mid-write are.
type Orchestrator struct {
	notes  storage.Provider
	store  store.Store
	logger *slog.Logger
	state  State
}

// NewOrchestrator prepares a single-use orchestrator.
func NewOrchestrator(notes storage.Provider, st store.Store, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{notes: notes, store: st, logger: logger, state: StateStart}
}

// State reports the machine's current phase.
func (o *Orchestrator) State() State { return o.state }

// Run executes the pass for the given run date. Records strictly
// between the resolved cursor and today are written; index warnings are
// folded into the result. The returned RunResult is meaningful whenever
// the run reached the planning phase, including on a mid-write failure.
func (o *Orchestrator) Run(ctx context.Context, today time.Time) (models.RunResult, error) {
	ix, err := index.Build(ctx, o.notes, o.logger)
	if err != nil {
		o.state = StateFailed
		return models.RunResult{}, fmt.Errorf("sync: %w", err)
	}
	o.logger.Info("sync: index built",
		slog.Int("dates", ix.Len()),
		slog.Int("warnings", len(ix.Warnings())))

	cursor, err := ResolveCursor(ctx, o.store)
	if err != nil {
		o.state = StateFailed
		return models.RunResult{}, fmt.Errorf("sync: %w", err)
	}
	o.state = StateCursorResolved
	if cursor.Present {
		o.logger.Info("sync: cursor resolved",
			slog.String("cursor", cursor.Date.Format(models.DateLayout)))
	} else {
		o.logger.Info("sync: cursor absent, first run")
	}

	plan := Plan(ix.Dates(), cursor, today)
	o.state = StatePlanned
	o.logger.Info("sync: plan computed", slog.Int("records", len(plan)))

	res, err := Write(ctx, o.store, plan, o.logger)
	res.Warnings = ix.Warnings()
	if err != nil {
		o.state = StateFailed
		return res, fmt.Errorf("sync: %w", err)
	}
	o.state = StateWritten

	o.state = StateDone
	o.logger.Info("sync: done",
		slog.Int("attempted", res.Attempted),
		slog.Int("succeeded", res.Succeeded),
		slog.Int("failed", res.Failed))
	return res, nil
}
