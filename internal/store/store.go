// Package store defines the typed contract for the record service the
// journal engine runs against. Requests are concrete structs validated
// before dispatch; partial updates carry an explicit field mask so a backend
// can never mutate more than the caller asked for.
package store

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/fieldmaskpb"

	"github.com/daylog-app/daylog/internal/common"
	"github.com/daylog-app/daylog/internal/models"
)

// Update mask paths accepted by UpdateRecord. Anything else is rejected
// with common.ErrorInvalidMask before touching the backend.
const (
	PathContent     = "content"
	PathAttachments = "attachments"
	PathUpdateTime  = "update_time"
)

// CreateRecordRequest creates a new record. The backend assigns the identity
// and timestamps; Version starts at 1.
type CreateRecordRequest struct {
	CreatorID   string
	Content     string
	Visibility  models.Visibility
	Attachments []string
	Relations   []models.Relation
	Location    string

	// ParentID is set only when creating an annotation.
	ParentID string

	// DisplayTime optionally overrides the user-facing timestamp.
	DisplayTime *time.Time
}

// UpdateRecordRequest is a partial update of a single record. Only the
// fields named in UpdateMask are written.
//
// ExpectedVersion, when non-zero, makes the update conditional: if the
// stored version differs, the backend returns common.ErrVersionConflict and
// writes nothing.
type UpdateRecordRequest struct {
	ID          string
	Content     string
	Attachments []string

	UpdateMask      *fieldmaskpb.FieldMask
	ExpectedVersion int64
}

// Validate checks the request shape before dispatch.
func (r *UpdateRecordRequest) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: missing record id", common.ErrorValidation)
	}
	if r.UpdateMask == nil || len(r.UpdateMask.GetPaths()) == 0 {
		return fmt.Errorf("%w: empty update mask", common.ErrorInvalidMask)
	}
	for _, p := range r.UpdateMask.GetPaths() {
		switch p {
		case PathContent, PathAttachments, PathUpdateTime:
		default:
			return fmt.Errorf("%w: path %q", common.ErrorInvalidMask, p)
		}
	}
	return nil
}

// HasPath reports whether the update mask names the given path.
func (r *UpdateRecordRequest) HasPath(path string) bool {
	for _, p := range r.UpdateMask.GetPaths() {
		if p == path {
			return true
		}
	}
	return false
}

// ListRecordsRequest filters records. Zero values mean "no constraint".
// CreatedAtFrom is inclusive and CreatedAtTo exclusive, both epoch seconds,
// forming the half-open interval a calendar day maps to.
type ListRecordsRequest struct {
	CreatorID     string
	CreatedAtFrom int64
	CreatedAtTo   int64

	// ParentID restricts results to annotations of that record.
	ParentID string

	// Limit bounds the page size; backends apply a default when <= 0.
	Limit int
}

// Store is the record service the journal engine collaborates with.
// Implementations must make single-record operations atomic.
type Store interface {
	CreateRecord(ctx context.Context, req *CreateRecordRequest) (*models.Record, error)
	GetRecord(ctx context.Context, id string) (*models.Record, error)
	UpdateRecord(ctx context.Context, req *UpdateRecordRequest) (*models.Record, error)
	DeleteRecord(ctx context.Context, id string) error

	// ListRecords returns matching records ordered by creation time
	// ascending (identity as tie-breaker).
	ListRecords(ctx context.Context, req *ListRecordsRequest) ([]*models.Record, error)
}

// AppendMask is the field mask used by the coordinator's append path:
// content, attachments and update time, nothing else.
func AppendMask() *fieldmaskpb.FieldMask {
	return &fieldmaskpb.FieldMask{Paths: []string{PathContent, PathAttachments, PathUpdateTime}}
}

// ContentMask is the field mask used for annotation edits.
func ContentMask() *fieldmaskpb.FieldMask {
	return &fieldmaskpb.FieldMask{Paths: []string{PathContent, PathUpdateTime}}
}
