// Package index builds the per-date tag index for one run: it reads
// every listed note, parses its frontmatter, and merges the results
// into a date → TagSet mapping with deterministic conflict resolution.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/jera/internal/apperr"
	"github.com/starford/jera/internal/models"
	"github.com/starford/jera/internal/parser"
	"github.com/starford/jera/internal/storage"
)

// Index is the immutable result of one build pass.
type Index struct {
	dates    map[time.Time]models.TagSet
	warnings []models.Warning
}

// Dates returns the date → TagSet mapping.
func (ix *Index) Dates() map[time.Time]models.TagSet { return ix.dates }

// Warnings returns the per-note problems recorded during the build:
// skipped notes and duplicate-date conflicts.
func (ix *Index) Warnings() []models.Warning { return ix.warnings }

// Len returns the number of distinct dates in the index.
func (ix *Index) Len() int { return len(ix.dates) }

// Build lists every note and parses them in parallel. A note that
// cannot be read or parsed is skipped and recorded as a warning; only a
// failed listing fails the build.
func Build(ctx context.Context, notes storage.Provider, logger *slog.Logger) (*Index, error) {
	paths, err := notes.List()
	if err != nil {
		return nil, fmt.Errorf("index: list notes: %w", err)
	}

	type outcome struct {
		note models.Note
		warn *models.Warning
	}
	results := make([]outcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := notes.Read(p)
			if err != nil {
				results[i] = outcome{warn: &models.Warning{Source: p, Reason: err.Error()}}
				return nil
			}
			res, err := parser.Parse(p, data)
			if err != nil {
				results[i] = outcome{warn: &models.Warning{Source: p, Reason: err.Error()}}
				return nil
			}
			results[i] = outcome{note: models.Note{Source: p, Date: res.Date, Tags: res.Tags}}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("index: build: %w", err)
	}

	ix := &Index{dates: make(map[time.Time]models.TagSet)}
	var parsed []models.Note
	for _, out := range results {
		if out.warn != nil {
			logger.Warn("index: skipped note",
				slog.String("path", out.warn.Source),
				slog.String("reason", out.warn.Reason))
			ix.warnings = append(ix.warnings, *out.warn)
			continue
		}
		parsed = append(parsed, out.note)
	}

	ix.merge(parsed, logger)
	return ix, nil
}

// merge folds parsed notes into the date mapping. Notes are sorted by
// (date, source) first so the outcome does not depend on listing or
// completion order: when two notes claim one date, the
// lexicographically smallest source wins and the conflict is recorded.
func (ix *Index) merge(parsed []models.Note, logger *slog.Logger) {
	sort.Slice(parsed, func(i, j int) bool {
		if !parsed[i].Date.Equal(parsed[j].Date) {
			return parsed[i].Date.Before(parsed[j].Date)
		}
		return parsed[i].Source < parsed[j].Source
	})

	winner := make(map[time.Time]string, len(parsed))
	for _, n := range parsed {
		if prev, taken := winner[n.Date]; taken {
			reason := fmt.Sprintf("%v: %s already claimed by %s",
				apperr.ErrDuplicateDate, n.Date.Format(models.DateLayout), prev)
			logger.Warn("index: duplicate date",
				slog.String("path", n.Source),
				slog.String("claimed_by", prev))
			ix.warnings = append(ix.warnings, models.Warning{Source: n.Source, Reason: reason})
			continue
		}
		winner[n.Date] = n.Source
		ix.dates[n.Date] = n.Tags
		logger.Debug("index: indexed",
			slog.String("path", n.Source),
			slog.String("date", n.Date.Format(models.DateLayout)))
	}
}
