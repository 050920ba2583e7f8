package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/starford/jera/internal/models"
	"github.com/starford/jera/internal/store"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

// memNotes serves note files from a map.
type memNotes map[string]string

func (m memNotes) List() ([]string, error) {
	out := make([]string, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	return out, nil
}

func (m memNotes) Read(path string) ([]byte, error) {
	content, ok := m[path]
	if !ok {
		return nil, errors.New("no such note")
	}
	return []byte(content), nil
}

// fakeStore is an in-memory store that tracks its own latest date, so
// back-to-back runs against it behave like a real backend.
type fakeStore struct {
	latest     time.Time
	present    bool
	latestErr  error
	reachErr   error             // transport failure on write
	rejections map[string]string // date string → rejection reason
	written    []models.IngestionRecord
	queries    int
}

func (f *fakeStore) LatestTimestamp(ctx context.Context) (time.Time, bool, error) {
	f.queries++
	if f.latestErr != nil {
		return time.Time{}, false, f.latestErr
	}
	return f.latest, f.present, nil
}

func (f *fakeStore) WriteBatch(ctx context.Context, records []models.IngestionRecord) ([]store.WriteStatus, error) {
	var statuses []store.WriteStatus
	for _, rec := range records {
		if f.reachErr != nil {
			return statuses, f.reachErr
		}
		if reason, bad := f.rejections[rec.Date.Format(models.DateLayout)]; bad {
			statuses = append(statuses, store.WriteStatus{Record: rec, Err: errors.New(reason)})
			continue
		}
		f.written = append(f.written, rec)
		if !f.present || rec.Date.After(f.latest) {
			f.latest = rec.Date
			f.present = true
		}
		statuses = append(statuses, store.WriteStatus{Record: rec, Err: nil})
	}
	return statuses, nil
}
