package daily

import (
	"sort"
	"strings"
	"time"

	"github.com/daylog-app/daylog/internal/models"
)

// DailyGroup is a derived, non-persisted aggregate of one calendar day:
// the day's records in their original relative order plus checklist
// completion counts across all of them. Recomputed on every read.
type DailyGroup struct {
	DayKey          string
	Records         []*models.Record
	IncompleteCount int
	CompleteCount   int
}

// Label renders the group's day for display relative to now.
func (g *DailyGroup) Label(now time.Time, loc *time.Location) string {
	return LabelOf(g.DayKey, now, loc)
}

// Group partitions records into per-day buckets keyed by each record's
// display timestamp in the given zone, newest day first. Records without a
// usable timestamp fall into today's bucket. The relative order of records
// within a bucket matches the input. Pure function, no side effects.
func Group(records []*models.Record, loc *time.Location) []*DailyGroup {
	buckets := make(map[string]*DailyGroup)

	for _, rec := range records {
		at := rec.DisplayAt()
		if at.IsZero() {
			at = timeNow()
		}
		key := KeyOf(at, loc)

		g, ok := buckets[key]
		if !ok {
			g = &DailyGroup{DayKey: key}
			buckets[key] = g
		}
		g.Records = append(g.Records, rec)

		incomplete, complete := CountChecklistItems(rec.Content)
		g.IncompleteCount += incomplete
		g.CompleteCount += complete
	}

	groups := make([]*DailyGroup, 0, len(buckets))
	for _, g := range buckets {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].DayKey > groups[j].DayKey
	})
	return groups
}

// CountChecklistItems scans content for checklist-item lines and returns the
// incomplete and complete counts. The complete marker matches "x" in either
// case; leading whitespace before a marker is ignored.
func CountChecklistItems(content string) (incomplete, complete int) {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		switch {
		case strings.HasPrefix(trimmed, incompleteMarker):
			incomplete++
		case strings.HasPrefix(trimmed, completeMarker),
			strings.HasPrefix(trimmed, "- [X]"):
			complete++
		}
	}
	return incomplete, complete
}
