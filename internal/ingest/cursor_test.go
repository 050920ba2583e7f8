package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/starford/jera/internal/apperr"
)

func TestResolveCursor_Present(t *testing.T) {
	// Stores report full timestamps; the cursor is the calendar day.
	st := &fakeStore{latest: day("2024-01-02").Add(7 * time.Hour), present: true}

	c, err := ResolveCursor(context.Background(), st)
	if err != nil {
		t.Fatalf("ResolveCursor: %v", err)
	}
	if !c.Present || !c.Date.Equal(day("2024-01-02")) {
		t.Errorf("cursor = %+v, want 2024-01-02", c)
	}
}

func TestResolveCursor_Absent(t *testing.T) {
	c, err := ResolveCursor(context.Background(), &fakeStore{})
	if err != nil {
		t.Fatalf("an empty store is a valid first-run answer: %v", err)
	}
	if c.Present {
		t.Errorf("cursor = %+v, want absent", c)
	}
}

func TestResolveCursor_QueryRejected(t *testing.T) {
	st := &fakeStore{latestErr: fmt.Errorf("bad query: %w", apperr.ErrQueryRejected)}

	_, err := ResolveCursor(context.Background(), st)
	if !errors.Is(err, apperr.ErrQueryRejected) {
		t.Fatalf("err = %v, want ErrQueryRejected", err)
	}
}
