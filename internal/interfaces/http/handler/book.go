package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bookpress/backend/internal/domain/catalog"
	"github.com/bookpress/backend/internal/interfaces/http/dto"
)

// BookHandler serves the catalog read endpoints
type BookHandler struct {
	BaseHandler
	books catalog.BookRepository
}

// NewBookHandler creates a new BookHandler
func NewBookHandler(books catalog.BookRepository) *BookHandler {
	return &BookHandler{books: books}
}

// RegisterRoutes registers book routes
func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	books := rg.Group("/books")
	{
		books.GET("", h.List)
		books.GET("/:id", h.Get)
	}
}

// ListBooksRequest holds the book list query parameters
type ListBooksRequest struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=approved pending rejected"`
	Source string `form:"source" binding:"omitempty,oneof=manual woocommerce amazon flipkart"`
}

// BookResponse is the wire shape of one catalog book
type BookResponse struct {
	ID          string             `json:"id"`
	AuthorID    string             `json:"author_id"`
	Title       string             `json:"title"`
	Subtitle    string             `json:"subtitle,omitempty"`
	Description string             `json:"description,omitempty"`
	ISBN        string             `json:"isbn,omitempty"`
	CoverImage  catalog.CoverImage `json:"cover_image"`
	Categories  []string           `json:"categories,omitempty"`
	Language    string             `json:"language"`
	Price       string             `json:"price"`
	Status      string             `json:"status"`
	Source      string             `json:"source"`
	ExternalIDs map[string]string  `json:"external_ids,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func toBookResponse(book *catalog.Book) BookResponse {
	externalIDs := make(map[string]string)
	for _, source := range []catalog.BookSource{
		catalog.BookSourceWooCommerce,
		catalog.BookSourceAmazon,
		catalog.BookSourceFlipkart,
	} {
		if id := book.ExternalID(source); id != "" {
			externalIDs[source.String()] = id
		}
	}
	if len(externalIDs) == 0 {
		externalIDs = nil
	}
	return BookResponse{
		ID:          book.ID.String(),
		AuthorID:    book.AuthorID.String(),
		Title:       book.Title,
		Subtitle:    book.Subtitle,
		Description: book.Description,
		ISBN:        book.ISBNNumber,
		CoverImage:  book.CoverImage,
		Categories:  []string(book.Categories),
		Language:    book.Language,
		Price:       book.Price.String(),
		Status:      book.Status.String(),
		Source:      book.Source.String(),
		ExternalIDs: externalIDs,
		CreatedAt:   book.CreatedAt,
		UpdatedAt:   book.UpdatedAt,
	}
}

// List returns catalog books filtered by status and source
func (h *BookHandler) List(c *gin.Context) {
	var req ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.Normalize()

	filter := catalog.BookFilter{
		Status: catalog.BookStatus(req.Status),
		Source: catalog.BookSource(req.Source),
		Limit:  req.PageSize,
		Offset: req.Offset(),
	}
	books, err := h.books.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	total, err := h.books.Count(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]BookResponse, 0, len(books))
	for i := range books {
		responses = append(responses, toBookResponse(&books[i]))
	}
	h.SuccessWithMeta(c, responses, total, req.Page, req.PageSize)
}

// Get returns one book by id
func (h *BookHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid book id")
		return
	}

	book, err := h.books.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if book == nil {
		h.NotFound(c, "book not found")
		return
	}
	h.Success(c, toBookResponse(book))
}
