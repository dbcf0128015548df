// Package authors implements author management. From the point of view of
// the book subsystem it is only the existence-check collaborator; the CRUD
// surface is exposed over HTTP like every other aggregate.
package authors

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mcharkviani/library/internal/database/authors"
	"github.com/mcharkviani/library/internal/entities"
)

var ErrAuthorNotFound = errors.New("author not found")

// Service handles author business logic.
type Service struct {
	repo *authors.Repository
}

// NewService creates a new author service.
func NewService(repo *authors.Repository) *Service {
	return &Service{repo: repo}
}

// CreateAuthorParams carries the fields for a new author.
type CreateAuthorParams struct {
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
}

// UpdateAuthorParams carries a partial update; nil fields are left unchanged.
type UpdateAuthorParams struct {
	FirstName   *string
	LastName    *string
	DateOfBirth *time.Time
}

// Exists reports whether a live author with the given id exists.
func (s *Service) Exists(id string) (bool, error) {
	return s.repo.Exists(id)
}

// CreateAuthor persists a new author.
func (s *Service) CreateAuthor(params CreateAuthorParams) (*entities.Author, error) {
	author := &entities.Author{
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		DateOfBirth: params.DateOfBirth,
	}
	if err := s.repo.Create(author); err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}
	return author, nil
}

// GetAuthor retrieves an author by id.
func (s *Service) GetAuthor(id string) (*entities.Author, error) {
	author, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	return author, nil
}

// ListAuthors returns all live authors.
func (s *Service) ListAuthors() ([]entities.Author, error) {
	return s.repo.List()
}

// UpdateAuthor applies a partial update to an existing author.
func (s *Service) UpdateAuthor(id string, params UpdateAuthorParams) (*entities.Author, error) {
	author, err := s.GetAuthor(id)
	if err != nil {
		return nil, err
	}

	if params.FirstName != nil {
		author.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		author.LastName = *params.LastName
	}
	if params.DateOfBirth != nil {
		author.DateOfBirth = params.DateOfBirth
	}

	if err := s.repo.Save(author); err != nil {
		return nil, fmt.Errorf("failed to update author: %w", err)
	}
	return author, nil
}

// DeleteAuthor tombstones an author.
func (s *Service) DeleteAuthor(id string) error {
	exists, err := s.repo.Exists(id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrAuthorNotFound
	}
	return s.repo.SoftDelete(id)
}
