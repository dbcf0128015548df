package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mcharkviani/library/internal/readingprogress"
)

// UserBooksController handles reading progress endpoints. The user is always
// the authenticated one; cursors are never addressable across users.
type UserBooksController struct {
	service *readingprogress.Service
}

// NewUserBooksController creates a new user books controller.
func NewUserBooksController(service *readingprogress.Service) *UserBooksController {
	return &UserBooksController{service: service}
}

type attachBookRequest struct {
	BookID string `json:"bookId" binding:"required"`
}

type turnPageRequest struct {
	// Zero means "no explicit page": read at the stored cursor position
	// without moving it.
	Page int `json:"page" binding:"omitempty,min=1"`
}

// AttachBook handles POST /api/user-books. It creates (or re-seeds) the
// reading cursor at the book's first available page.
func (uc *UserBooksController) AttachBook(c *gin.Context) {
	var req attachBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	cursor, err := uc.service.Attach(GetUserID(c), req.BookID)
	if err != nil {
		respondDomainError(c, err, "attach book")
		return
	}
	respondCreated(c, cursor)
}

// TurnPage handles POST /api/user-books/:bookId/turn-page. Without a page in
// the body it re-reads the window at the stored cursor; with one it jumps
// there and persists the page actually served.
func (uc *UserBooksController) TurnPage(c *gin.Context) {
	var req turnPageRequest
	// An empty body is a plain "read where I am"
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "invalid request body: "+err.Error())
			return
		}
	}

	window, err := uc.service.TurnPage(GetUserID(c), c.Param("bookId"), req.Page)
	if err != nil {
		respondDomainError(c, err, "turn page")
		return
	}
	c.JSON(http.StatusOK, window)
}
