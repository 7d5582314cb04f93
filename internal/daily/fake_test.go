package daily

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/daylog-app/daylog/internal/common"
	"github.com/daylog-app/daylog/internal/logging"
	"github.com/daylog-app/daylog/internal/models"
	"github.com/daylog-app/daylog/internal/store"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeStore is an in-memory store.Store with the same observable semantics
// as the db backends: creation order, half-open list bounds, masked updates
// and version checks. Tests can inject listing failures, latency, and a
// beforeUpdate hook to simulate concurrent writers.
type fakeStore struct {
	mu    sync.Mutex
	seq   int
	byID  map[string]*models.Record
	order []string

	listFailures int
	listLatency  time.Duration
	listCalls    int
	createCalls  int
	updateCalls  int

	beforeUpdate func(f *fakeStore, req *store.UpdateRecordRequest)
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: map[string]*models.Record{}}
}

func (f *fakeStore) CreateRecord(_ context.Context, req *store.CreateRecordRequest) (*models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	f.seq++
	now := timeNow().UTC()

	rec := &models.Record{
		ID:          fmt.Sprintf("rec-%d", f.seq),
		CreatorID:   req.CreatorID,
		Content:     req.Content,
		Attachments: append([]string{}, req.Attachments...),
		Relations:   append([]models.Relation{}, req.Relations...),
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
	f.byID[rec.ID] = rec
	f.order = append(f.order, rec.ID)
	return cloneRecord(rec), nil
}

func (f *fakeStore) GetRecord(_ context.Context, id string) (*models.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", id, common.ErrorNotFound)
	}
	return cloneRecord(rec), nil
}

func (f *fakeStore) UpdateRecord(ctx context.Context, req *store.UpdateRecordRequest) (*models.Record, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if hook := f.beforeUpdate; hook != nil {
		f.beforeUpdate = nil
		hook(f, req)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.updateCalls++
	rec, ok := f.byID[req.ID]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", req.ID, common.ErrorNotFound)
	}
	if req.ExpectedVersion > 0 && rec.Version != req.ExpectedVersion {
		return nil, common.ErrVersionConflict
	}
	if req.HasPath(store.PathContent) {
		rec.Content = req.Content
	}
	if req.HasPath(store.PathAttachments) {
		rec.Attachments = append([]string{}, req.Attachments...)
	}
	rec.UpdatedAt = timeNow().UTC()
	rec.Version++
	return cloneRecord(rec), nil
}

func (f *fakeStore) DeleteRecord(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[id]; !ok {
		return fmt.Errorf("record %s: %w", id, common.ErrorNotFound)
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeStore) ListRecords(_ context.Context, req *store.ListRecordsRequest) ([]*models.Record, error) {
	if f.listLatency > 0 {
		time.Sleep(f.listLatency)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	if f.listFailures > 0 {
		f.listFailures--
		return nil, errors.New("transient network failure")
	}

	indexOf := make(map[string]int, len(f.order))
	for i, id := range f.order {
		indexOf[id] = i
	}

	var result []*models.Record
	for _, id := range f.order {
		rec := f.byID[id]
		if rec == nil {
			continue
		}
		if req.CreatorID != "" && rec.CreatorID != req.CreatorID {
			continue
		}
		if req.CreatedAtFrom > 0 && rec.CreatedAt.Unix() < req.CreatedAtFrom {
			continue
		}
		if req.CreatedAtTo > 0 && rec.CreatedAt.Unix() >= req.CreatedAtTo {
			continue
		}
		if req.ParentID != "" && rec.ParentID != req.ParentID {
			continue
		}
		result = append(result, cloneRecord(rec))
	}

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return indexOf[result[i].ID] < indexOf[result[j].ID]
	})

	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// containersOf returns every non-annotation record of creator, in creation order.
func (f *fakeStore) containersOf(creator string) []*models.Record {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*models.Record
	for _, id := range f.order {
		rec, ok := f.byID[id]
		if ok && rec.CreatorID == creator && rec.ParentID == "" {
			result = append(result, cloneRecord(rec))
		}
	}
	return result
}

func cloneRecord(rec *models.Record) *models.Record {
	c := *rec
	c.Attachments = append([]string{}, rec.Attachments...)
	c.Relations = append([]models.Relation{}, rec.Relations...)
	if rec.DisplayTime != nil {
		t := *rec.DisplayTime
		c.DisplayTime = &t
	}
	return &c
}

// fakeUploader returns "uploaded:<path>" references, or fails wholesale.
type fakeUploader struct {
	mu      sync.Mutex
	err     error
	batches [][]string
}

func (u *fakeUploader) UploadBatch(_ context.Context, paths []string) ([]string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.err != nil {
		return nil, u.err
	}
	refs := make([]string, 0, len(paths))
	for _, p := range paths {
		refs = append(refs, "uploaded:"+p)
	}
	u.batches = append(u.batches, paths)
	return refs, nil
}
