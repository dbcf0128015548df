// Package books implements book assembly and page lookup.
//
// Book assembly covers creating a book together with its initial content
// pages and the follow-up mutations; page lookup covers the exact-match,
// minimum-page and current+next window queries that the reading progress
// tracker builds on.
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mcharkviani/library/internal/authors"
	booksrepo "github.com/mcharkviani/library/internal/database/books"
	"github.com/mcharkviani/library/internal/entities"
)

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrBookPageNotFound  = errors.New("book page not found")
	ErrISBNAlreadyExists = errors.New("isbn already exists")
	ErrPagesMustBeUnique = errors.New("pages must be unique")
	ErrPageExceedsTotal  = errors.New("page exceeds total pages")
	ErrBookHasNoPages    = errors.New("book does not have any page yet")
	ErrInvalidTotalPages = errors.New("total pages must be at least 1")
)

// AuthorChecker is the author collaborator contract. The author aggregate is
// owned elsewhere; this service only needs existence checks.
type AuthorChecker interface {
	Exists(id string) (bool, error)
}

// Service handles book business logic.
type Service struct {
	repo    *booksrepo.Repository
	authors AuthorChecker
}

// NewService creates a new book service.
func NewService(repo *booksrepo.Repository, authors AuthorChecker) *Service {
	return &Service{repo: repo, authors: authors}
}

// PageParams is one initial content page of a new book.
type PageParams struct {
	Page    int
	Content string
}

// CreateBookParams carries the fields for a new book.
type CreateBookParams struct {
	Title      string
	ISBN       string
	TotalPages int
	AuthorID   string
	Pages      []PageParams
}

// UpdateBookParams carries a partial update; nil fields are left unchanged.
type UpdateBookParams struct {
	Title      *string
	ISBN       *string
	TotalPages *int
	AuthorID   *string
}

// CreateBook validates and persists a book together with its optional initial
// pages. The book row and all page rows are written in one transaction. The
// pre-checks are advisory fast-fails: under a concurrent duplicate-isbn
// submission the partial unique indexes are the final arbiter, and their
// violations surface as the same conflict errors the pre-checks produce.
func (s *Service) CreateBook(params CreateBookParams) (*entities.Book, error) {
	if params.TotalPages < 1 {
		return nil, ErrInvalidTotalPages
	}

	exists, err := s.authors.Exists(params.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check author: %w", err)
	}
	if !exists {
		return nil, authors.ErrAuthorNotFound
	}

	if err := s.checkISBN(params.ISBN); err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(params.Pages))
	for _, p := range params.Pages {
		if seen[p.Page] {
			return nil, ErrPagesMustBeUnique
		}
		seen[p.Page] = true
		if p.Page > params.TotalPages {
			return nil, ErrPageExceedsTotal
		}
	}

	book := &entities.Book{
		Title:      params.Title,
		ISBN:       params.ISBN,
		TotalPages: params.TotalPages,
		AuthorID:   params.AuthorID,
	}
	pages := make([]entities.BookPage, 0, len(params.Pages))
	for _, p := range params.Pages {
		pages = append(pages, entities.BookPage{Page: p.Page, Content: p.Content})
	}

	if err := s.repo.CreateWithPages(book, pages); err != nil {
		return nil, translateConflict(err)
	}
	return book, nil
}

// GetBook retrieves a book by id.
func (s *Service) GetBook(id string) (*entities.Book, error) {
	book, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

// ListBooks returns one page of books plus the total count; search matches
// title or isbn by substring.
func (s *Service) ListBooks(page, limit int, search string) ([]entities.Book, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return s.repo.List(page, limit, search)
}

// UpdateBook applies a partial update. Author and isbn are re-validated only
// when the update actually changes them.
func (s *Service) UpdateBook(id string, params UpdateBookParams) (*entities.Book, error) {
	book, err := s.GetBook(id)
	if err != nil {
		return nil, err
	}

	if params.AuthorID != nil && *params.AuthorID != book.AuthorID {
		exists, err := s.authors.Exists(*params.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("failed to check author: %w", err)
		}
		if !exists {
			return nil, authors.ErrAuthorNotFound
		}
		book.AuthorID = *params.AuthorID
	}

	if params.ISBN != nil && *params.ISBN != book.ISBN {
		if err := s.checkISBN(*params.ISBN); err != nil {
			return nil, err
		}
		book.ISBN = *params.ISBN
	}

	if params.Title != nil {
		book.Title = *params.Title
	}
	if params.TotalPages != nil {
		if *params.TotalPages < 1 {
			return nil, ErrInvalidTotalPages
		}
		book.TotalPages = *params.TotalPages
	}

	if err := s.repo.Save(book); err != nil {
		return nil, translateConflict(err)
	}
	return book, nil
}

// CreateBookPage validates and inserts a single content page.
func (s *Service) CreateBookPage(bookID string, page int, content string) (*entities.BookPage, error) {
	book, err := s.GetBook(bookID)
	if err != nil {
		return nil, err
	}

	if page > book.TotalPages {
		return nil, ErrPageExceedsTotal
	}

	taken, err := s.repo.PageExistsAt(bookID, page)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrPagesMustBeUnique
	}

	bookPage := &entities.BookPage{BookID: bookID, Page: page, Content: content}
	if err := s.repo.CreatePage(bookPage); err != nil {
		return nil, translateConflict(err)
	}
	return bookPage, nil
}

// UpdateBookPage replaces the content of a page. Page number and book
// reference are immutable through this operation.
func (s *Service) UpdateBookPage(id, content string) (*entities.BookPage, error) {
	if _, err := s.repo.GetPageByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookPageNotFound
		}
		return nil, err
	}

	if err := s.repo.UpdatePageContent(id, content); err != nil {
		return nil, err
	}
	return s.repo.GetPageByID(id)
}

// GetBookPage retrieves the page with the exact page number.
func (s *Service) GetBookPage(bookID string, page int) (*entities.BookPage, error) {
	bookPage, err := s.repo.GetPage(bookID, page)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookPageNotFound
		}
		return nil, err
	}
	return bookPage, nil
}

// GetMinBookPage returns the smallest live page number of a book. This is the
// seed value for a fresh reading cursor.
func (s *Service) GetMinBookPage(bookID string) (int, error) {
	if err := s.ValidateBook(bookID); err != nil {
		return 0, err
	}

	min, found, err := s.repo.MinPage(bookID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, ErrBookHasNoPages
	}
	return min, nil
}

// GetCurrentAndNextPages returns up to two live pages at or after the given
// page number, ordered ascending. If the page at exactly `from` no longer
// exists the window starts at the nearest later page, so reading can proceed
// after a page was deleted from underneath a cursor. An empty slice is not an
// error.
func (s *Service) GetCurrentAndNextPages(bookID string, from int) ([]entities.BookPage, error) {
	return s.repo.CurrentAndNext(bookID, from)
}

// ValidateBook fails with ErrBookNotFound when no live book has the id.
func (s *Service) ValidateBook(id string) error {
	exists, err := s.repo.Exists(id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrBookNotFound
	}
	return nil
}

// DeleteBook tombstones a book with its pages and reading cursors.
func (s *Service) DeleteBook(id string) error {
	if err := s.ValidateBook(id); err != nil {
		return err
	}
	return s.repo.SoftDelete(id)
}

// DeleteBookPage tombstones a single content page.
func (s *Service) DeleteBookPage(id string) error {
	if _, err := s.repo.GetPageByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookPageNotFound
		}
		return err
	}
	return s.repo.SoftDeletePage(id)
}

func (s *Service) checkISBN(isbn string) error {
	count, err := s.repo.CountByISBN(isbn)
	if err != nil {
		return fmt.Errorf("failed to check isbn: %w", err)
	}
	if count > 0 {
		return ErrISBNAlreadyExists
	}
	return nil
}

// translateConflict maps storage-layer constraint violations (the race path)
// onto the same errors the pre-checks produce (the fast path).
func translateConflict(err error) error {
	switch {
	case errors.Is(err, booksrepo.ErrISBNConflict):
		return ErrISBNAlreadyExists
	case errors.Is(err, booksrepo.ErrPageConflict):
		return ErrPagesMustBeUnique
	default:
		return err
	}
}
