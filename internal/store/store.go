// Package store defines the capabilities the sync engine consumes from
// a timeseries store. Backends live in subpackages; the engine depends
// only on these interfaces.
package store

import (
	"context"
	"time"

	"github.com/starford/jera/internal/models"
)

// WriteStatus reports the store's verdict on one record. Err is nil
// when the record was accepted, and wraps apperr.ErrWriteRejected
// otherwise.
type WriteStatus struct {
	Record models.IngestionRecord
	Err    error
}

// LatestTimestampQuery returns the newest timestamp previously written
// by this tool. Implementations must scope the query to the tool's own
// series identity so unrelated data in the store never moves the
// cursor. The bool is false when the store holds no prior points.
type LatestTimestampQuery interface {
	LatestTimestamp(ctx context.Context) (time.Time, bool, error)
}

// BatchPointWriter accepts a batch of planned records and reports a
// per-record verdict. A non-nil error means transport failure
// (apperr.ErrStoreUnreachable); the statuses returned alongside it
// cover the records settled before the failure, and points already
// flushed remain written.
type BatchPointWriter interface {
	WriteBatch(ctx context.Context, records []models.IngestionRecord) ([]WriteStatus, error)
}

// Store combines the two capabilities a backend must provide.
type Store interface {
	LatestTimestampQuery
	BatchPointWriter
}
