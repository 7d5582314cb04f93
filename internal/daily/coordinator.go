package daily

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/daylog-app/daylog/internal/common"
	"github.com/daylog-app/daylog/internal/logging"
	"github.com/daylog-app/daylog/internal/models"
	"github.com/daylog-app/daylog/internal/store"
	"github.com/daylog-app/daylog/internal/upload"
)

// Test seam.
var timeNow = time.Now

// How many times an append is replayed after losing a version race. Each
// replay re-runs the locate and update steps; the create path is never retried.
const appendConflictRetries = 3

// SaveRequest asks the coordinator to add one item to the creator's daily
// container. Attachments holds already-uploaded references; LocalFiles are
// uploaded first and their references appended after Attachments in order,
// without de-duplication. DayKey is optional and defaults to today in the
// coordinator's zone.
type SaveRequest struct {
	Content     string
	LocalFiles  []string
	Attachments []string
	Visibility  models.Visibility
	Relations   []models.Relation
	Location    string
	CreatorID   string
	DayKey      string
}

// SaveResult reports which container received the item and whether it was
// created by this call.
type SaveResult struct {
	ContainerID string
	Created     bool
}

// OrphanedUploadError is returned when a save was abandoned after its files
// were already uploaded but before any record mutation was dispatched. Refs
// lists the uploaded attachment references so the caller can reconcile them.
type OrphanedUploadError struct {
	Refs []string
	Err  error
}

func (e *OrphanedUploadError) Error() string {
	return fmt.Sprintf("save abandoned with %d uploaded attachments: %v", len(e.Refs), e.Err)
}

func (e *OrphanedUploadError) Unwrap() error { return e.Err }

// Coordinator orchestrates upload, locate, and append-or-create for daily
// containers. All operations sharing a (creator, day) key are serialized
// through a key-scoped mutex, so two concurrent saves can never both take
// the create path.
type Coordinator struct {
	store    store.Store
	uploader upload.Uploader
	locator  *Locator
	zone     *time.Location
	logger   logging.Logger
	keys     *keyedMutex
}

// NewCoordinator wires a coordinator. uploader may be nil when attachment
// upload is not configured; saves carrying local files then fail validation.
func NewCoordinator(s store.Store, uploader upload.Uploader, zone *time.Location, logger logging.Logger, pageSize int) *Coordinator {
	return &Coordinator{
		store:    s,
		uploader: uploader,
		locator:  NewLocator(s, zone, pageSize),
		zone:     zone,
		logger:   logger.With("module", "daily_coordinator"),
		keys:     newKeyedMutex(),
	}
}

// Save appends one normalized checklist item to the creator's container for
// the day, creating the container when it does not exist yet.
//
// Sequential saves for the same (creator, day) land in call order. A save
// arriving while another is in flight for the same key waits for it, then
// re-evaluates from the locate step. Failures propagate unmodified; only the
// read-only locate and a lost version race are retried.
func (c *Coordinator) Save(ctx context.Context, req *SaveRequest) (*SaveResult, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty content", common.ErrorValidation)
	}
	if req.CreatorID == "" {
		return nil, fmt.Errorf("%w: missing creator", common.ErrorValidation)
	}

	// Attachments go up before anything else so a container is never
	// created without them.
	var uploaded []string
	if len(req.LocalFiles) > 0 {
		if c.uploader == nil {
			return nil, fmt.Errorf("%w: no uploader configured", common.ErrorValidation)
		}
		refs, err := c.uploader.UploadBatch(ctx, req.LocalFiles)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrorUploadFailed, err)
		}
		uploaded = refs
	}

	attachments := make([]string, 0, len(req.Attachments)+len(uploaded))
	attachments = append(attachments, req.Attachments...)
	attachments = append(attachments, uploaded...)

	dayKey := req.DayKey
	if dayKey == "" {
		dayKey = KeyOf(timeNow(), c.zone)
	}

	lockKey := req.CreatorID + "/" + dayKey
	if err := c.keys.Lock(ctx, lockKey); err != nil {
		if len(uploaded) > 0 {
			return nil, &OrphanedUploadError{Refs: uploaded, Err: err}
		}
		return nil, err
	}
	defer c.keys.Unlock(lockKey)

	normalized := Normalize(content)

	var result *SaveResult
	backoff := retry.WithMaxRetries(appendConflictRetries, retry.NewConstant(50*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		existing, err := c.locator.Find(ctx, req.CreatorID, dayKey)
		if err != nil {
			return err
		}

		if existing == nil {
			created, err := c.createContainer(ctx, req, dayKey, normalized, attachments)
			if err != nil {
				return err
			}
			result = &SaveResult{ContainerID: created.ID, Created: true}
			return nil
		}

		updated, err := c.appendToContainer(ctx, existing, normalized, attachments)
		if errors.Is(err, common.ErrVersionConflict) {
			// Another session appended between our locate and update.
			// Replay from locate rather than overwrite its item.
			c.logger.Warn(ctx, "append lost version race, replaying",
				"creator", req.CreatorID, "day", dayKey)
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		result = &SaveResult{ContainerID: updated.ID, Created: false}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info(ctx, "saved item",
		"creator", req.CreatorID, "day", dayKey,
		"container", result.ContainerID, "created", result.Created)
	return result, nil
}

func (c *Coordinator) createContainer(ctx context.Context, req *SaveRequest, dayKey, normalized string, attachments []string) (*models.Record, error) {
	fullContent := TitleLineOf(dayKey) + "\n\n" + normalized

	created, err := c.store.CreateRecord(ctx, &store.CreateRecordRequest{
		CreatorID:   req.CreatorID,
		Content:     fullContent,
		Visibility:  req.Visibility,
		Attachments: attachments,
		Relations:   req.Relations,
		Location:    req.Location,
	})
	if err != nil {
		return nil, fmt.Errorf("creating container for %s: %w", dayKey, err)
	}
	return created, nil
}

func (c *Coordinator) appendToContainer(ctx context.Context, existing *models.Record, normalized string, attachments []string) (*models.Record, error) {
	merged := make([]string, 0, len(existing.Attachments)+len(attachments))
	merged = append(merged, existing.Attachments...)
	merged = append(merged, attachments...)

	return c.store.UpdateRecord(ctx, &store.UpdateRecordRequest{
		ID:              existing.ID,
		Content:         existing.Content + "\n" + normalized,
		Attachments:     merged,
		UpdateMask:      store.AppendMask(),
		ExpectedVersion: existing.Version,
	})
}
