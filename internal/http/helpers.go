package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mcharkviani/library/internal/auth"
	"github.com/mcharkviani/library/internal/authors"
	"github.com/mcharkviani/library/internal/books"
	"github.com/mcharkviani/library/internal/readingprogress"
)

// GetUserID extracts the authenticated user's id from the Gin context.
func GetUserID(c *gin.Context) string {
	return auth.GetUserID(c)
}

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data    any   `json:"data"`
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	HasMore bool  `json:"has_more"`
}

// --- Error Response Helpers ---

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: message})
}

func respondConflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, ErrorResponse{Error: message})
}

// respondInternalError logs the error and sends a 500 response. The actual
// error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondDomainError maps a service error onto its HTTP status. Unrecognized
// errors are treated as internal.
func respondDomainError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, authors.ErrAuthorNotFound),
		errors.Is(err, books.ErrBookNotFound),
		errors.Is(err, books.ErrBookPageNotFound),
		errors.Is(err, readingprogress.ErrCursorNotFound):
		respondNotFound(c, err.Error())
	case errors.Is(err, books.ErrISBNAlreadyExists),
		errors.Is(err, books.ErrPagesMustBeUnique):
		respondConflict(c, err.Error())
	case errors.Is(err, books.ErrPageExceedsTotal),
		errors.Is(err, books.ErrBookHasNoPages),
		errors.Is(err, books.ErrInvalidTotalPages):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// --- Parameter Parsing ---

// parsePageParam parses the :page path parameter. Page numbers start at 1.
func parsePageParam(c *gin.Context) (int, bool) {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil || page < 1 {
		respondBadRequest(c, "invalid page number")
		return 0, false
	}
	return page, true
}

// parseIntQuery parses an optional integer query parameter, falling back to
// the default on absence or garbage.
func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
