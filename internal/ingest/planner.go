package ingest

import (
	"sort"
	"time"

	"github.com/starford/jera/internal/models"
)

// Plan computes the ordered records to push: every indexed date
// strictly after the cursor (all dates when the cursor is absent) and
// strictly before today. Today's note is presumed still being written.
// Dates outside the window are already synced or not yet complete and
// are silently excluded. Pure function.
func Plan(dates map[time.Time]models.TagSet, cursor models.Cursor, today time.Time) models.SyncPlan {
	today = models.Day(today)

	plan := make(models.SyncPlan, 0, len(dates))
	for date, tags := range dates {
		if cursor.Present && !date.After(cursor.Date) {
			continue
		}
		if !date.Before(today) {
			continue
		}
		plan = append(plan, models.IngestionRecord{Date: date, Tags: tags})
	}

	sort.Slice(plan, func(i, j int) bool { return plan[i].Date.Before(plan[j].Date) })
	return plan
}
