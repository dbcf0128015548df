package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mcharkviani/library/internal/authors"
)

// AuthorsController handles author CRUD endpoints.
type AuthorsController struct {
	service *authors.Service
}

// NewAuthorsController creates a new authors controller.
func NewAuthorsController(service *authors.Service) *AuthorsController {
	return &AuthorsController{service: service}
}

type createAuthorRequest struct {
	FirstName   string     `json:"firstName" binding:"required"`
	LastName    string     `json:"lastName" binding:"required"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
}

type updateAuthorRequest struct {
	FirstName   *string    `json:"firstName"`
	LastName    *string    `json:"lastName"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
}

// CreateAuthor handles POST /api/authors.
func (ac *AuthorsController) CreateAuthor(c *gin.Context) {
	var req createAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	author, err := ac.service.CreateAuthor(authors.CreateAuthorParams{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		respondDomainError(c, err, "create author")
		return
	}

	respondCreated(c, author)
}

// GetAuthor handles GET /api/authors/:id.
func (ac *AuthorsController) GetAuthor(c *gin.Context) {
	author, err := ac.service.GetAuthor(c.Param("id"))
	if err != nil {
		respondDomainError(c, err, "get author")
		return
	}
	c.JSON(http.StatusOK, author)
}

// ListAuthors handles GET /api/authors.
func (ac *AuthorsController) ListAuthors(c *gin.Context) {
	list, err := ac.service.ListAuthors()
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdateAuthor handles PATCH /api/authors/:id.
func (ac *AuthorsController) UpdateAuthor(c *gin.Context) {
	var req updateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	author, err := ac.service.UpdateAuthor(c.Param("id"), authors.UpdateAuthorParams{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		respondDomainError(c, err, "update author")
		return
	}
	c.JSON(http.StatusOK, author)
}

// DeleteAuthor handles DELETE /api/authors/:id.
func (ac *AuthorsController) DeleteAuthor(c *gin.Context) {
	if err := ac.service.DeleteAuthor(c.Param("id")); err != nil {
		respondDomainError(c, err, "delete author")
		return
	}
	respondSuccess(c, "author deleted")
}
