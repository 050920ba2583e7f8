// Package ingest implements the incremental synchronization engine:
// resolve the resume cursor from the store, plan the unsynced date
// range, and write the planned records back. Resume state lives
// entirely in the store; the engine keeps nothing between runs.
package ingest

import (
	"context"
	"fmt"

	"github.com/starford/jera/internal/models"
	"github.com/starford/jera/internal/store"
)

// ResolveCursor asks the store for the newest previously-written
// timestamp. An empty store is a valid first-run answer. Any store
// failure here is fatal: without a cursor no safe plan exists.
func ResolveCursor(ctx context.Context, q store.LatestTimestampQuery) (models.Cursor, error) {
	ts, ok, err := q.LatestTimestamp(ctx)
	if err != nil {
		return models.Cursor{}, fmt.Errorf("ingest: resolve cursor: %w", err)
	}
	if !ok {
		return models.Cursor{}, nil
	}
	return models.Cursor{Date: models.Day(ts), Present: true}, nil
}
