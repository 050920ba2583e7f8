package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/jera/internal/models"
	"github.com/starford/jera/internal/store"
)

// Write submits the plan and folds the store's per-record verdicts into
// a RunResult. Rejected records are reported and never stop the batch.
// A transport failure does stop it: the result then covers the verdicts
// settled before the failure, and the error is returned for the
// orchestrator to treat as fatal. No retries happen here; the external
// scheduler re-invokes the whole run, and the cursor makes that safe.
func Write(ctx context.Context, w store.BatchPointWriter, plan models.SyncPlan, logger *slog.Logger) (models.RunResult, error) {
	res := models.RunResult{Attempted: len(plan)}
	if len(plan) == 0 {
		return res, nil
	}

	statuses, err := w.WriteBatch(ctx, plan)
	for _, st := range statuses {
		if st.Err != nil {
			res.Failed++
			res.Failures = append(res.Failures, models.RecordFailure{
				Date:   st.Record.Date,
				Reason: st.Err.Error(),
			})
			logger.Warn("ingest: point rejected",
				slog.String("date", st.Record.Date.Format(models.DateLayout)),
				slog.String("reason", st.Err.Error()))
			continue
		}
		res.Succeeded++
		logger.Debug("ingest: point written",
			slog.String("date", st.Record.Date.Format(models.DateLayout)),
			slog.Int("tags", len(st.Record.Tags)))
	}
	if err != nil {
		return res, fmt.Errorf("ingest: write batch: %w", err)
	}
	return res, nil
}
