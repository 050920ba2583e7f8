package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/starford/jera/internal/apperr"
	"github.com/starford/jera/internal/testutil"
)

// newThreeNoteVault reproduces the canonical scenario: three complete
// days, one of them tagless, run date 2024-01-04.
func newThreeNoteVault() memNotes {
	return memNotes{
		"2024-01-01.md": "---\ntags: [a, b]\n---\n",
		"2024-01-02.md": "---\ntags: a\n---\n",
		"2024-01-03.md": "---\ntitle: quiet\n---\n",
	}
}

func TestRun_FirstSync(t *testing.T) {
	st := &fakeStore{}
	o := NewOrchestrator(newThreeNoteVault(), st, testutil.DiscardLogger())

	res, err := o.Run(context.Background(), day("2024-01-04"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if o.State() != StateDone {
		t.Errorf("state = %s, want done", o.State())
	}
	if res.Attempted != 3 || res.Succeeded != 3 || res.Failed != 0 {
		t.Errorf("result = %+v, want 3/3/0", res)
	}
	if len(st.written) != 3 {
		t.Fatalf("written = %d, want 3", len(st.written))
	}
	if got := st.written[0].Date; !got.Equal(day("2024-01-01")) {
		t.Errorf("first written date = %v, want 2024-01-01", got)
	}
	if tags := st.written[2].Tags; len(tags) != 0 {
		t.Errorf("tagless day tags = %v, want empty", tags)
	}
}

func TestRun_ResumesFromCursor(t *testing.T) {
	st := &fakeStore{latest: day("2024-01-02"), present: true}
	o := NewOrchestrator(newThreeNoteVault(), st, testutil.DiscardLogger())

	res, err := o.Run(context.Background(), day("2024-01-04"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Attempted != 1 || res.Succeeded != 1 {
		t.Errorf("result = %+v, want 1/1/0", res)
	}
	if len(st.written) != 1 || !st.written[0].Date.Equal(day("2024-01-03")) {
		t.Errorf("written = %+v, want only 2024-01-03", st.written)
	}
}

func TestRun_SecondRunIsIdempotent(t *testing.T) {
	st := &fakeStore{}
	logger := testutil.DiscardLogger()

	first := NewOrchestrator(newThreeNoteVault(), st, logger)
	if _, err := first.Run(context.Background(), day("2024-01-04")); err != nil {
		t.Fatalf("first run: %v", err)
	}

	second := NewOrchestrator(newThreeNoteVault(), st, logger)
	res, err := second.Run(context.Background(), day("2024-01-04"))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if res.Attempted != 0 {
		t.Errorf("second run attempted = %d, want 0", res.Attempted)
	}
	if len(st.written) != 3 {
		t.Errorf("store written = %d, want unchanged 3", len(st.written))
	}
}

func TestRun_FatalCursorFailure(t *testing.T) {
	st := &fakeStore{latestErr: fmt.Errorf("dial tcp: %w", apperr.ErrStoreUnreachable)}
	o := NewOrchestrator(newThreeNoteVault(), st, testutil.DiscardLogger())

	res, err := o.Run(context.Background(), day("2024-01-04"))
	if !errors.Is(err, apperr.ErrStoreUnreachable) {
		t.Fatalf("err = %v, want ErrStoreUnreachable", err)
	}
	if o.State() != StateFailed {
		t.Errorf("state = %s, want failed", o.State())
	}
	if res.Attempted != 0 || len(st.written) != 0 {
		t.Errorf("no writes may be attempted after a failed resolve: %+v", res)
	}
}

func TestRun_PartialRejectionIsNotFatal(t *testing.T) {
	st := &fakeStore{rejections: map[string]string{"2024-01-02": "invalid field"}}
	o := NewOrchestrator(newThreeNoteVault(), st, testutil.DiscardLogger())

	res, err := o.Run(context.Background(), day("2024-01-04"))
	if err != nil {
		t.Fatalf("per-record rejection must not fail the run: %v", err)
	}
	if o.State() != StateDone {
		t.Errorf("state = %s, want done", o.State())
	}
	if res.Attempted != 3 || res.Succeeded != 2 || res.Failed != 1 {
		t.Errorf("result = %+v, want 3/2/1", res)
	}
	if len(res.Failures) != 1 || res.Failures[0].Reason != "invalid field" {
		t.Errorf("failures = %+v", res.Failures)
	}
}

func TestRun_UnreachableMidWriteIsFatal(t *testing.T) {
	st := &fakeStore{reachErr: fmt.Errorf("dial tcp: %w", apperr.ErrStoreUnreachable)}
	o := NewOrchestrator(newThreeNoteVault(), st, testutil.DiscardLogger())

	_, err := o.Run(context.Background(), day("2024-01-04"))
	if !errors.Is(err, apperr.ErrStoreUnreachable) {
		t.Fatalf("err = %v, want ErrStoreUnreachable", err)
	}
	if o.State() != StateFailed {
		t.Errorf("state = %s, want failed", o.State())
	}
}

func TestRun_WarningsReachTheResult(t *testing.T) {
	notes := newThreeNoteVault()
	notes["scratch.md"] = "no frontmatter here\n"
	st := &fakeStore{}
	o := NewOrchestrator(notes, st, testutil.DiscardLogger())

	res, err := o.Run(context.Background(), day("2024-01-04"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Source != "scratch.md" {
		t.Errorf("warnings = %+v", res.Warnings)
	}
	if res.Succeeded != 3 {
		t.Errorf("succeeded = %d, want 3 despite the warning", res.Succeeded)
	}
}
