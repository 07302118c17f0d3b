package sync

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bookpress/backend/internal/domain/catalog"
	"github.com/bookpress/backend/internal/domain/integration"
	"github.com/bookpress/backend/internal/domain/sales"
	"github.com/google/uuid"
)

type fakeBookRepo struct {
	books     []*catalog.Book
	failTitle map[string]error
	saveCalls int
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{failTitle: make(map[string]error)}
}

func (r *fakeBookRepo) Save(_ context.Context, book *catalog.Book) error {
	if err, ok := r.failTitle[book.Title]; ok {
		return err
	}
	r.saveCalls++
	for i, existing := range r.books {
		if existing.ID == book.ID {
			r.books[i] = book
			return nil
		}
	}
	r.books = append(r.books, book)
	return nil
}

func (r *fakeBookRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Book, error) {
	for _, book := range r.books {
		if book.ID == id {
			return book, nil
		}
	}
	return nil, nil
}

func (r *fakeBookRepo) FindByExternalID(_ context.Context, source catalog.BookSource, externalID string) (*catalog.Book, error) {
	for _, book := range r.books {
		if book.ExternalID(source) == externalID {
			return book, nil
		}
	}
	return nil, nil
}

func (r *fakeBookRepo) FindByTitleLike(_ context.Context, title string) (*catalog.Book, error) {
	needle := strings.ToLower(strings.TrimSpace(title))
	if needle == "" {
		return nil, nil
	}
	for _, book := range r.books {
		if strings.Contains(strings.ToLower(book.Title), needle) {
			return book, nil
		}
	}
	return nil, nil
}

func (r *fakeBookRepo) FindBySource(_ context.Context, source catalog.BookSource) ([]catalog.Book, error) {
	var books []catalog.Book
	for _, book := range r.books {
		if book.Source == source {
			books = append(books, *book)
		}
	}
	return books, nil
}

func (r *fakeBookRepo) FindAll(_ context.Context, filter catalog.BookFilter) ([]catalog.Book, error) {
	var books []catalog.Book
	for _, book := range r.books {
		if filter.Status != "" && book.Status != filter.Status {
			continue
		}
		if filter.Source != "" && book.Source != filter.Source {
			continue
		}
		books = append(books, *book)
	}
	return books, nil
}

func (r *fakeBookRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.books)), nil
}

type fakeAuthorRepo struct {
	authors   map[string]*catalog.Author
	saveCalls int
}

func newFakeAuthorRepo() *fakeAuthorRepo {
	return &fakeAuthorRepo{authors: make(map[string]*catalog.Author)}
}

func (r *fakeAuthorRepo) Save(_ context.Context, author *catalog.Author) error {
	if _, exists := r.authors[author.Name]; exists {
		return fmt.Errorf("duplicate author name %q", author.Name)
	}
	r.saveCalls++
	r.authors[author.Name] = author
	return nil
}

func (r *fakeAuthorRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Author, error) {
	for _, author := range r.authors {
		if author.ID == id {
			return author, nil
		}
	}
	return nil, nil
}

func (r *fakeAuthorRepo) FindByName(_ context.Context, name string) (*catalog.Author, error) {
	return r.authors[name], nil
}

func (r *fakeAuthorRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.authors)), nil
}

type fakeOrderRepo struct {
	orders      map[string]*sales.Order
	failID      map[string]error
	upsertCalls int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[string]*sales.Order),
		failID: make(map[string]error),
	}
}

func (r *fakeOrderRepo) Upsert(_ context.Context, order *sales.Order) error {
	if err, ok := r.failID[order.ExternalID]; ok {
		return err
	}
	r.upsertCalls++
	r.orders[order.ExternalID] = order
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*sales.Order, error) {
	for _, order := range r.orders {
		if order.ID == id {
			return order, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) FindByExternalID(_ context.Context, externalID string) (*sales.Order, error) {
	return r.orders[externalID], nil
}

func (r *fakeOrderRepo) FindAll(_ context.Context, filter sales.OrderFilter) ([]sales.Order, error) {
	var orders []sales.Order
	for _, order := range r.orders {
		if filter.Source != "" && order.Source != filter.Source {
			continue
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func (r *fakeOrderRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.orders)), nil
}

type fakeUploadRepo struct {
	logs []*integration.UploadLog
}

func (r *fakeUploadRepo) Save(_ context.Context, log *integration.UploadLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func (r *fakeUploadRepo) FindRecent(_ context.Context, limit int) ([]integration.UploadLog, error) {
	var logs []integration.UploadLog
	for i := len(r.logs) - 1; i >= 0 && len(logs) < limit; i-- {
		logs = append(logs, *r.logs[i])
	}
	return logs, nil
}

type fakeClient struct {
	marketplace  integration.Marketplace
	configured   bool
	productPages [][]integration.RawProduct
	orderPages   [][]integration.RawOrder
	productErr   error
	orderErr     error
	productCalls int
	orderCalls   int
	gotStatuses  []string
}

func (c *fakeClient) Marketplace() integration.Marketplace {
	return c.marketplace
}

func (c *fakeClient) Configured() bool {
	return c.configured
}

func (c *fakeClient) FetchProducts(_ context.Context, page integration.Pagination) ([]integration.RawProduct, error) {
	c.productCalls++
	if c.productErr != nil {
		return nil, c.productErr
	}
	if page.Page-1 < len(c.productPages) {
		return c.productPages[page.Page-1], nil
	}
	return nil, nil
}

func (c *fakeClient) FetchOrders(_ context.Context, page integration.Pagination, statuses []string) ([]integration.RawOrder, error) {
	c.orderCalls++
	c.gotStatuses = statuses
	if c.orderErr != nil {
		return nil, c.orderErr
	}
	if page.Page-1 < len(c.orderPages) {
		return c.orderPages[page.Page-1], nil
	}
	return nil, nil
}

type fakeRegistry struct {
	clients []integration.MarketplaceClient
}

func (r *fakeRegistry) Client(marketplace integration.Marketplace) (integration.MarketplaceClient, error) {
	for _, client := range r.clients {
		if client.Marketplace() == marketplace {
			return client, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", integration.ErrMarketplaceUnknown, marketplace)
}

func (r *fakeRegistry) Clients() []integration.MarketplaceClient {
	return r.clients
}

type fakeProber struct {
	failURL map[string]error
	probes  []string
}

func newFakeProber() *fakeProber {
	return &fakeProber{failURL: make(map[string]error)}
}

func (p *fakeProber) Probe(_ context.Context, url string) error {
	p.probes = append(p.probes, url)
	return p.failURL[url]
}

type fakeDecoder struct {
	products []integration.RawProduct
	orders   []integration.RawOrder
	err      error
}

func (d *fakeDecoder) DecodeProducts(_ io.Reader) ([]integration.RawProduct, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.products, nil
}

func (d *fakeDecoder) DecodeOrders(_ io.Reader) ([]integration.RawOrder, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.orders, nil
}
