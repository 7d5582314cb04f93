// Package postgres implements the record store over PostgreSQL via the pgx
// stdlib driver. The schema matches the sqlite backend; see the migrations
// package.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/daylog-app/daylog/internal/common"
	"github.com/daylog-app/daylog/internal/dbx"
	"github.com/daylog-app/daylog/internal/models"
	"github.com/daylog-app/daylog/internal/store"
	"github.com/daylog-app/daylog/internal/store/migrations"
)

var timeNow = time.Now

const defaultListLimit = 100

// Store implements store.Store over a dbx.DBTX (either *sql.DB or *sql.Tx).
type Store struct {
	db dbx.DBTX
}

// New returns a Store bound to the given DBTX.
func New(db dbx.DBTX) *Store {
	return &Store{db: db}
}

// Open connects using the given DSN, applies pending migrations, and returns
// a ready Store together with the underlying handle.
func Open(ctx context.Context, dsn string) (*Store, *sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("opening postgres db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("pinging postgres db: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return New(db), db, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrations.Migrations, "postgres")
	if err != nil {
		return fmt.Errorf("locating migrations: %w", err)
	}
	goose.SetBaseFS(fsys)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *Store) CreateRecord(ctx context.Context, req *store.CreateRecordRequest) (*models.Record, error) {
	now := timeNow().UTC()

	rec := &models.Record{
		ID:          uuid.NewString(),
		CreatorID:   req.CreatorID,
		Content:     req.Content,
		Attachments: req.Attachments,
		Relations:   req.Relations,
		Location:    req.Location,
		Visibility:  req.Visibility,
		RowStatus:   models.RowStatusNormal,
		ParentID:    req.ParentID,
		CreatedAt:   now,
		UpdatedAt:   now,
		DisplayTime: req.DisplayTime,
		Version:     1,
	}
	if rec.Visibility == "" {
		rec.Visibility = models.VisibilityPrivate
	}

	attachments, err := json.Marshal(emptyIfNil(rec.Attachments))
	if err != nil {
		return nil, fmt.Errorf("encoding attachments: %w", err)
	}
	relations, err := json.Marshal(rec.Relations)
	if err != nil {
		return nil, fmt.Errorf("encoding relations: %w", err)
	}
	if rec.Relations == nil {
		relations = []byte("[]")
	}

	var displayAt any
	if rec.DisplayTime != nil {
		displayAt = rec.DisplayTime.UnixNano()
	}

	// Timestamps are stored at nanosecond resolution so creation order is a
	// total order even within one second.
	query := `INSERT INTO records
		(id, creator_id, content, attachments, relations, location, visibility,
		 pinned, row_status, parent_id, created_at, updated_at, display_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = s.db.ExecContext(ctx, query,
		rec.ID, rec.CreatorID, rec.Content, string(attachments), string(relations), rec.Location,
		string(rec.Visibility), rec.Pinned, string(rec.RowStatus), rec.ParentID,
		rec.CreatedAt.UnixNano(), rec.UpdatedAt.UnixNano(), displayAt, rec.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to insert record: %w", err)
	}
	return rec, nil
}

func (s *Store) GetRecord(ctx context.Context, id string) (*models.Record, error) {
	query := selectColumns + ` FROM records WHERE id = $1`
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("record %s: %w", id, common.ErrorNotFound)
		}
		return nil, fmt.Errorf("failed to select record: %w", err)
	}
	return rec, nil
}

func (s *Store) UpdateRecord(ctx context.Context, req *store.UpdateRecordRequest) (*models.Record, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	set := make([]string, 0, 4)
	args := make([]any, 0, 6)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if req.HasPath(store.PathContent) {
		set = append(set, "content = "+arg(req.Content))
	}
	if req.HasPath(store.PathAttachments) {
		encoded, err := json.Marshal(emptyIfNil(req.Attachments))
		if err != nil {
			return nil, fmt.Errorf("encoding attachments: %w", err)
		}
		set = append(set, "attachments = "+arg(string(encoded)))
	}
	set = append(set, "updated_at = "+arg(timeNow().UnixNano()), "version = version + 1")

	query := `UPDATE records SET ` + strings.Join(set, ", ") + ` WHERE id = ` + arg(req.ID)
	if req.ExpectedVersion > 0 {
		query += ` AND version = ` + arg(req.ExpectedVersion)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		if _, err := s.GetRecord(ctx, req.ID); err != nil {
			return nil, err
		}
		return nil, common.ErrVersionConflict
	}

	return s.GetRecord(ctx, req.ID)
}

func (s *Store) DeleteRecord(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("record %s: %w", id, common.ErrorNotFound)
	}
	return nil
}

func (s *Store) ListRecords(ctx context.Context, req *store.ListRecordsRequest) ([]*models.Record, error) {
	where := []string{"1=1"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if req.CreatorID != "" {
		where = append(where, "creator_id = "+arg(req.CreatorID))
	}
	// Request bounds are epoch seconds; the column stores nanoseconds.
	if req.CreatedAtFrom > 0 {
		where = append(where, "created_at >= "+arg(req.CreatedAtFrom*int64(time.Second)))
	}
	if req.CreatedAtTo > 0 {
		where = append(where, "created_at < "+arg(req.CreatedAtTo*int64(time.Second)))
	}
	if req.ParentID != "" {
		where = append(where, "parent_id = "+arg(req.ParentID))
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := selectColumns + ` FROM records WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at ASC, id ASC LIMIT ` + arg(limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []*models.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

const selectColumns = `SELECT id, creator_id, content, attachments, relations, location,
	visibility, pinned, row_status, parent_id, created_at, updated_at, display_at, version`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.Record, error) {
	var (
		rec         models.Record
		attachments string
		relations   string
		visibility  string
		rowStatus   string
		createdAt   int64
		updatedAt   int64
		displayAt   sql.NullInt64
	)
	if err := row.Scan(&rec.ID, &rec.CreatorID, &rec.Content, &attachments, &relations,
		&rec.Location, &visibility, &rec.Pinned, &rowStatus, &rec.ParentID,
		&createdAt, &updatedAt, &displayAt, &rec.Version); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(attachments), &rec.Attachments); err != nil {
		return nil, fmt.Errorf("decoding attachments: %w", err)
	}
	if err := json.Unmarshal([]byte(relations), &rec.Relations); err != nil {
		return nil, fmt.Errorf("decoding relations: %w", err)
	}
	rec.Visibility = models.Visibility(visibility)
	rec.RowStatus = models.RowStatus(rowStatus)
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	rec.UpdatedAt = time.Unix(0, updatedAt).UTC()
	if displayAt.Valid {
		t := time.Unix(0, displayAt.Int64).UTC()
		rec.DisplayTime = &t
	}
	return &rec, nil
}

func emptyIfNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
