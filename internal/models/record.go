// Package models defines the data types shared between the record store and
// the journal engine.
package models

import "time"

// Visibility controls who can see a record.
type Visibility string

const (
	VisibilityPrivate   Visibility = "PRIVATE"
	VisibilityProtected Visibility = "PROTECTED"
	VisibilityPublic    Visibility = "PUBLIC"
)

// RowStatus marks a record as live or archived.
type RowStatus string

const (
	RowStatusNormal   RowStatus = "NORMAL"
	RowStatusArchived RowStatus = "ARCHIVED"
)

// RelationType describes how a record relates to another record.
type RelationType string

const (
	RelationReference RelationType = "REFERENCE"
)

// Relation links a record to another record, e.g. a cross-reference added by
// the editor.
type Relation struct {
	TargetID string       `json:"target_id"`
	Type     RelationType `json:"type"`
}

// Record is a single content unit owned by the record store: a journal
// container, a plain memo, or an annotation attached to a parent record.
//
// Attachments holds opaque attachment references in upload order. ParentID is
// empty except for annotations. DisplayTime is an optional user-facing
// timestamp; when nil, CreatedAt stands in for it.
//
// Version is an optimistic-concurrency counter maintained by the store; an
// update carrying a stale version is rejected.
type Record struct {
	ID          string
	CreatorID   string
	Content     string
	Attachments []string
	Relations   []Relation
	Location    string
	Visibility  Visibility
	Pinned      bool
	RowStatus   RowStatus
	ParentID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DisplayTime *time.Time
	Version     int64
}

// DisplayAt returns the timestamp grouping should bucket this record by:
// DisplayTime when set, otherwise CreatedAt.
func (r *Record) DisplayAt() time.Time {
	if r.DisplayTime != nil {
		return *r.DisplayTime
	}
	return r.CreatedAt
}
