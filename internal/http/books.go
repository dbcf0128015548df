package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mcharkviani/library/internal/books"
)

// BooksController handles book and book page endpoints.
type BooksController struct {
	service *books.Service
}

// NewBooksController creates a new books controller.
func NewBooksController(service *books.Service) *BooksController {
	return &BooksController{service: service}
}

type pageRequest struct {
	Page    int    `json:"page" binding:"required,min=1"`
	Content string `json:"content" binding:"required"`
}

type createBookRequest struct {
	Title      string        `json:"title" binding:"required"`
	ISBN       string        `json:"isbn" binding:"required"`
	TotalPages int           `json:"totalPages" binding:"required,min=1"`
	AuthorID   string        `json:"authorId" binding:"required"`
	Pages      []pageRequest `json:"pages"`
}

type updateBookRequest struct {
	Title      *string `json:"title"`
	ISBN       *string `json:"isbn"`
	TotalPages *int    `json:"totalPages"`
	AuthorID   *string `json:"authorId"`
}

type updatePageRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateBook handles POST /api/books. The book and its initial pages are
// written atomically; a rejected page leaves nothing behind.
func (bc *BooksController) CreateBook(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	params := books.CreateBookParams{
		Title:      req.Title,
		ISBN:       req.ISBN,
		TotalPages: req.TotalPages,
		AuthorID:   req.AuthorID,
	}
	for _, p := range req.Pages {
		params.Pages = append(params.Pages, books.PageParams{Page: p.Page, Content: p.Content})
	}

	book, err := bc.service.CreateBook(params)
	if err != nil {
		respondDomainError(c, err, "create book")
		return
	}

	respondCreated(c, book)
}

// GetBook handles GET /api/books/:id.
func (bc *BooksController) GetBook(c *gin.Context) {
	book, err := bc.service.GetBook(c.Param("id"))
	if err != nil {
		respondDomainError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// ListBooks handles GET /api/books with page/limit/search query parameters.
func (bc *BooksController) ListBooks(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	limit := parseIntQuery(c, "limit", 10)
	search := c.Query("search")

	list, total, err := bc.service.ListBooks(page, limit, search)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    list,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasMore: int64(page*limit) < total,
	})
}

// UpdateBook handles PATCH /api/books/:id.
func (bc *BooksController) UpdateBook(c *gin.Context) {
	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	book, err := bc.service.UpdateBook(c.Param("id"), books.UpdateBookParams{
		Title:      req.Title,
		ISBN:       req.ISBN,
		TotalPages: req.TotalPages,
		AuthorID:   req.AuthorID,
	})
	if err != nil {
		respondDomainError(c, err, "update book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook handles DELETE /api/books/:id. Pages and reading cursors go
// with the book.
func (bc *BooksController) DeleteBook(c *gin.Context) {
	if err := bc.service.DeleteBook(c.Param("id")); err != nil {
		respondDomainError(c, err, "delete book")
		return
	}
	respondSuccess(c, "book deleted")
}

// CreateBookPage handles POST /api/books/:id/pages.
func (bc *BooksController) CreateBookPage(c *gin.Context) {
	var req pageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	page, err := bc.service.CreateBookPage(c.Param("id"), req.Page, req.Content)
	if err != nil {
		respondDomainError(c, err, "create book page")
		return
	}
	respondCreated(c, page)
}

// GetBookPage handles GET /api/books/:id/pages/:page (exact page number).
func (bc *BooksController) GetBookPage(c *gin.Context) {
	page, ok := parsePageParam(c)
	if !ok {
		return
	}

	bookPage, err := bc.service.GetBookPage(c.Param("id"), page)
	if err != nil {
		respondDomainError(c, err, "get book page")
		return
	}
	c.JSON(http.StatusOK, bookPage)
}

// GetMinBookPage handles GET /api/books/:id/pages/min.
func (bc *BooksController) GetMinBookPage(c *gin.Context) {
	min, err := bc.service.GetMinBookPage(c.Param("id"))
	if err != nil {
		respondDomainError(c, err, "get min book page")
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": min})
}

// UpdateBookPage handles PATCH /api/pages/:pageId (content only).
func (bc *BooksController) UpdateBookPage(c *gin.Context) {
	var req updatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	page, err := bc.service.UpdateBookPage(c.Param("pageId"), req.Content)
	if err != nil {
		respondDomainError(c, err, "update book page")
		return
	}
	c.JSON(http.StatusOK, page)
}

// DeleteBookPage handles DELETE /api/pages/:pageId.
func (bc *BooksController) DeleteBookPage(c *gin.Context) {
	if err := bc.service.DeleteBookPage(c.Param("pageId")); err != nil {
		respondDomainError(c, err, "delete book page")
		return
	}
	respondSuccess(c, "book page deleted")
}
