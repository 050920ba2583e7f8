// Package models defines the domain types for Jera.
package models

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for note filenames,
// frontmatter date fields, and diagnostics.
const DateLayout = "2006-01-02"

// Day truncates t to midnight UTC. Every note date in the system is a
// calendar day in this form.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Note represents one daily note discovered during a run. Notes are
// transient: built from the vault listing, never persisted.
type Note struct {
	Source string    `json:"source"` // vault-relative path, diagnostics only
	Date   time.Time `json:"date"`   // midnight UTC
	Tags   TagSet    `json:"tags"`
}

// TagSet is the normalized tag list for one date: trimmed, empties
// removed, deduplicated case-sensitively, original order preserved.
// An empty TagSet is valid; a tagless note still marks its date as
// processed.
type TagSet []string

// NormalizeTags builds a TagSet from tag values as written.
func NormalizeTags(raw []string) TagSet {
	seen := make(map[string]struct{}, len(raw))
	out := make(TagSet, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Cursor is the latest date already reflected in the store. Present is
// false on a first run against an empty store.
type Cursor struct {
	Date    time.Time
	Present bool
}

// IngestionRecord pairs one date with its TagSet, destined for one
// store write.
type IngestionRecord struct {
	Date time.Time `json:"date"`
	Tags TagSet    `json:"tags"`
}

// SyncPlan is the ordered (ascending by date) record sequence for one
// run. An empty plan is the normal "already up to date" outcome.
type SyncPlan []IngestionRecord

// Warning records a note that was skipped or conflicted during
// indexing.
type Warning struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// RecordFailure describes one planned record the store rejected.
type RecordFailure struct {
	Date   time.Time `json:"date"`
	Reason string    `json:"reason"`
}

// RunResult is the outcome of one orchestration pass.
type RunResult struct {
	Attempted int             `json:"attempted"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Failures  []RecordFailure `json:"failures,omitempty"`
	Warnings  []Warning       `json:"warnings,omitempty"`
}
