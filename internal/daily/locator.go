package daily

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/daylog-app/daylog/internal/models"
	"github.com/daylog-app/daylog/internal/store"
)

// locate retry policy: the listing is read-only and idempotent, so transient
// failures get a few quick attempts before surfacing.
const (
	locateRetries = 2
	locateBackoff = 200 * time.Millisecond
)

// Locator finds the container record of a creator's calendar day.
type Locator struct {
	store store.Store
	zone  *time.Location
	limit int
}

// NewLocator builds a Locator listing at most limit records per day query;
// limit <= 0 falls back to the store default.
func NewLocator(s store.Store, zone *time.Location, limit int) *Locator {
	return &Locator{store: s, zone: zone, limit: limit}
}

// Find returns the container for (creatorID, dayKey), or nil when no
// container exists yet. Absence is not an error: it signals the create path.
//
// The listing covers records the creator made within the day's bounds; the
// first one whose content starts with the day's title line wins, so
// concurrent processes that each created a container converge on the oldest.
func (l *Locator) Find(ctx context.Context, creatorID, dayKey string) (*models.Record, error) {
	start, end, err := BoundsOf(dayKey, l.zone)
	if err != nil {
		return nil, err
	}

	req := &store.ListRecordsRequest{
		CreatorID:     creatorID,
		CreatedAtFrom: start,
		CreatedAtTo:   end,
		Limit:         l.limit,
	}

	var records []*models.Record
	backoff := retry.WithMaxRetries(locateRetries, retry.NewConstant(locateBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		var listErr error
		records, listErr = l.store.ListRecords(ctx, req)
		if listErr != nil {
			return retry.RetryableError(listErr)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing records for %s/%s: %w", creatorID, dayKey, err)
	}

	for _, rec := range records {
		if rec.ParentID != "" {
			continue // annotations never count as containers
		}
		if IsContainerFor(rec, dayKey) {
			return rec, nil
		}
	}
	return nil, nil
}
