// Package daily implements the journal engine: resolving calendar-day keys,
// normalizing free text into checklist items, locating the day's container
// record, appending to or creating it under a per-day lock, and grouping
// arbitrary record sets by day with completion statistics.
package daily

import (
	"fmt"
	"strings"
	"time"

	"github.com/daylog-app/daylog/internal/common"
	"github.com/daylog-app/daylog/internal/models"
)

// dayKeyLayout is the canonical YYYY-MM-DD form. ISO lexical order on keys
// is date order, which grouping relies on.
const dayKeyLayout = "2006-01-02"

// KeyOf formats t as a day key in the given zone.
func KeyOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayKeyLayout)
}

// BoundsOf returns the half-open epoch-second interval [start, end) covering
// the calendar day named by dayKey in the given zone.
func BoundsOf(dayKey string, loc *time.Location) (int64, int64, error) {
	day, err := time.ParseInLocation(dayKeyLayout, dayKey, loc)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad day key %q: %v", common.ErrorValidation, dayKey, err)
	}
	return day.Unix(), day.AddDate(0, 0, 1).Unix(), nil
}

// LabelOf renders a day key for display relative to now: "Today",
// "Yesterday", "January 2" within the current year, or "2006 January 2"
// otherwise.
func LabelOf(dayKey string, now time.Time, loc *time.Location) string {
	switch dayKey {
	case KeyOf(now, loc):
		return "Today"
	case KeyOf(now.In(loc).AddDate(0, 0, -1), loc):
		return "Yesterday"
	}

	day, err := time.ParseInLocation(dayKeyLayout, dayKey, loc)
	if err != nil {
		return dayKey
	}
	if day.Year() == now.In(loc).Year() {
		return day.Format("January 2")
	}
	return day.Format("2006 January 2")
}

// TitleLineOf returns the markdown title line identifying a day's container.
func TitleLineOf(dayKey string) string {
	return "# " + dayKey
}

// IsContainerFor reports whether rec is the container for dayKey. Detection
// is a content prefix check on the title line; keep call sites going through
// this function so the heuristic can be swapped for a structural marker.
func IsContainerFor(rec *models.Record, dayKey string) bool {
	return strings.HasPrefix(strings.TrimSpace(rec.Content), TitleLineOf(dayKey))
}
