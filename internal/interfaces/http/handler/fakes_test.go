package handler

import (
	"context"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bookpress/backend/internal/domain/catalog"
	"github.com/bookpress/backend/internal/domain/integration"
	"github.com/bookpress/backend/internal/domain/sales"
	"github.com/bookpress/backend/internal/infrastructure/scheduler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubBookRepo struct {
	books []catalog.Book
	err   error
}

func (r *stubBookRepo) Save(context.Context, *catalog.Book) error { return r.err }

func (r *stubBookRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Book, error) {
	if r.err != nil {
		return nil, r.err
	}
	for i := range r.books {
		if r.books[i].ID == id {
			return &r.books[i], nil
		}
	}
	return nil, nil
}

func (r *stubBookRepo) FindByExternalID(context.Context, catalog.BookSource, string) (*catalog.Book, error) {
	return nil, nil
}

func (r *stubBookRepo) FindByTitleLike(context.Context, string) (*catalog.Book, error) {
	return nil, nil
}

func (r *stubBookRepo) FindBySource(_ context.Context, source catalog.BookSource) ([]catalog.Book, error) {
	var out []catalog.Book
	for _, b := range r.books {
		if b.Source == source {
			out = append(out, b)
		}
	}
	return out, r.err
}

func (r *stubBookRepo) FindAll(_ context.Context, filter catalog.BookFilter) ([]catalog.Book, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []catalog.Book
	for _, b := range r.books {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.Source != "" && b.Source != filter.Source {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *stubBookRepo) Count(context.Context) (int64, error) {
	return int64(len(r.books)), r.err
}

type stubAuthorRepo struct {
	count int64
}

func (r *stubAuthorRepo) Save(context.Context, *catalog.Author) error { return nil }
func (r *stubAuthorRepo) FindByID(context.Context, uuid.UUID) (*catalog.Author, error) {
	return nil, nil
}
func (r *stubAuthorRepo) FindByName(context.Context, string) (*catalog.Author, error) {
	return nil, nil
}
func (r *stubAuthorRepo) Count(context.Context) (int64, error) { return r.count, nil }

type stubOrderRepo struct {
	orders []sales.Order
	err    error
}

func (r *stubOrderRepo) Upsert(context.Context, *sales.Order) error { return r.err }

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*sales.Order, error) {
	for i := range r.orders {
		if r.orders[i].ID == id {
			return &r.orders[i], nil
		}
	}
	return nil, r.err
}

func (r *stubOrderRepo) FindByExternalID(context.Context, string) (*sales.Order, error) {
	return nil, nil
}

func (r *stubOrderRepo) FindAll(_ context.Context, filter sales.OrderFilter) ([]sales.Order, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []sales.Order
	for _, o := range r.orders {
		if filter.Source != "" && o.Source != filter.Source {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *stubOrderRepo) Count(context.Context) (int64, error) {
	return int64(len(r.orders)), r.err
}

type stubUploadRepo struct {
	logs []integration.UploadLog
	err  error
}

func (r *stubUploadRepo) Save(context.Context, *integration.UploadLog) error { return r.err }

func (r *stubUploadRepo) FindRecent(_ context.Context, limit int) ([]integration.UploadLog, error) {
	if r.err != nil {
		return nil, r.err
	}
	if limit > len(r.logs) {
		limit = len(r.logs)
	}
	return r.logs[:limit], nil
}

type stubTrigger struct {
	running    bool
	triggered  int
	triggerErr error
	history    []scheduler.SyncRun
}

func (t *stubTrigger) TriggerSync(context.Context) error {
	if t.triggerErr != nil {
		return t.triggerErr
	}
	t.triggered++
	return nil
}

func (t *stubTrigger) IsRunning() bool { return t.running }

func (t *stubTrigger) History(limit int) []scheduler.SyncRun {
	if limit > len(t.history) {
		limit = len(t.history)
	}
	return t.history[:limit]
}

type stubSyncer struct {
	report integration.SourceSyncReport
	err    error
	got    integration.Marketplace
}

func (s *stubSyncer) SyncMarketplace(_ context.Context, m integration.Marketplace) (integration.SourceSyncReport, error) {
	s.got = m
	return s.report, s.err
}

type stubIngestor struct {
	log      *integration.UploadLog
	err      error
	gotName  string
	gotCalls int
}

func (s *stubIngestor) IngestProducts(_ context.Context, fileName string, r io.Reader) (*integration.UploadLog, error) {
	s.gotName = fileName
	s.gotCalls++
	_, _ = io.Copy(io.Discard, r)
	return s.log, s.err
}

func (s *stubIngestor) IngestOrders(_ context.Context, fileName string, r io.Reader) (*integration.UploadLog, error) {
	s.gotName = fileName
	s.gotCalls++
	_, _ = io.Copy(io.Discard, r)
	return s.log, s.err
}

var errBoom = errors.New("boom")
