// Package annotations manages free-form child notes attached to records.
// Annotations live and die independently of their parent; the only coupling
// is the parent-relation pointer, and their visibility is always forced to
// private. No day logic here.
package annotations

import (
	"context"
	"fmt"
	"strings"

	"github.com/daylog-app/daylog/internal/common"
	"github.com/daylog-app/daylog/internal/logging"
	"github.com/daylog-app/daylog/internal/models"
	"github.com/daylog-app/daylog/internal/store"
)

type Service struct {
	store  store.Store
	logger logging.Logger
}

func NewService(s store.Store, logger logging.Logger) *Service {
	return &Service{store: s, logger: logger.With("module", "annotations")}
}

// Add creates an annotation under parentID. The text is stored as-is:
// annotations are commentary, not checklist items, so no normalization
// applies. The parent must exist.
func (s *Service) Add(ctx context.Context, parentID, creatorID, text string) (*models.Record, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty annotation", common.ErrorValidation)
	}

	parent, err := s.store.GetRecord(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("resolving parent: %w", err)
	}

	created, err := s.store.CreateRecord(ctx, &store.CreateRecordRequest{
		CreatorID:  creatorID,
		Content:    text,
		Visibility: models.VisibilityPrivate,
		ParentID:   parent.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("creating annotation: %w", err)
	}
	return created, nil
}

// Update replaces the annotation's content. The partial update is restricted
// to content and update time; nothing else on the record can change through
// this path.
func (s *Service) Update(ctx context.Context, annotationID, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: empty annotation", common.ErrorValidation)
	}

	_, err := s.store.UpdateRecord(ctx, &store.UpdateRecordRequest{
		ID:         annotationID,
		Content:    text,
		UpdateMask: store.ContentMask(),
	})
	if err != nil {
		return fmt.Errorf("updating annotation: %w", err)
	}
	return nil
}

// Delete removes an annotation. Deleting one that is already gone reports
// common.ErrorNotFound; callers treating deletion as idempotent can match
// and ignore it.
func (s *Service) Delete(ctx context.Context, annotationID string) error {
	if err := s.store.DeleteRecord(ctx, annotationID); err != nil {
		return fmt.Errorf("deleting annotation: %w", err)
	}
	return nil
}

// List returns the annotations of parentID ascending by creation time,
// together with their count.
func (s *Service) List(ctx context.Context, parentID string) ([]*models.Record, int, error) {
	records, err := s.store.ListRecords(ctx, &store.ListRecordsRequest{ParentID: parentID})
	if err != nil {
		return nil, 0, fmt.Errorf("listing annotations: %w", err)
	}
	return records, len(records), nil
}
