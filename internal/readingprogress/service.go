// Package readingprogress owns the per-(user, book) reading cursor.
//
// A cursor is created by Attach and only ever moved by TurnPage calls that
// carry an explicit page. TurnPage assumes Attach has been called for the
// pair first; nothing in this layer re-attaches automatically, and a missing
// cursor surfaces as ErrCursorNotFound.
package readingprogress

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mcharkviani/library/internal/books"
	"github.com/mcharkviani/library/internal/database/userbooks"
	"github.com/mcharkviani/library/internal/entities"
)

var ErrCursorNotFound = errors.New("reading cursor not found, attach the book first")

// PageLookup is the book collaborator contract: existence checks plus the
// two page queries the tracker is built on.
type PageLookup interface {
	ValidateBook(id string) error
	GetMinBookPage(bookID string) (int, error)
	GetCurrentAndNextPages(bookID string, from int) ([]entities.BookPage, error)
}

// Service handles reading progress logic.
type Service struct {
	cursors *userbooks.Repository
	books   PageLookup
}

// NewService creates a new reading progress service.
func NewService(cursors *userbooks.Repository, books PageLookup) *Service {
	return &Service{cursors: cursors, books: books}
}

// PageView is the content of the page a cursor points at.
type PageView struct {
	Page    int    `json:"page"`
	Content string `json:"content"`
}

// Window is the current+next reading window returned by TurnPage.
type Window struct {
	CurrentPage PageView `json:"currentPage"`
	NextPage    *int     `json:"nextPage"`
}

// Attach creates (or re-seeds) the cursor for a (user, book) pair at the
// book's minimum live page. Books without any live page cannot be attached.
func (s *Service) Attach(userID, bookID string) (*entities.UserBook, error) {
	minPage, err := s.books.GetMinBookPage(bookID)
	if err != nil {
		return nil, err
	}

	cursor := &entities.UserBook{
		UserID:               userID,
		BookID:               bookID,
		LastPageUserLookedAt: minPage,
	}
	if err := s.cursors.Upsert(cursor); err != nil {
		return nil, err
	}
	return cursor, nil
}

// TurnPage reads the current+next window. page <= 0 means "no explicit page":
// the window is read at the cursor's stored position and the cursor is left
// untouched. With an explicit page the cursor is persisted to the page number
// actually returned, which, after deletions, may be the nearest later page
// rather than the requested one — the cursor always mirrors a page that truly
// exists.
func (s *Service) TurnPage(userID, bookID string, page int) (*Window, error) {
	if err := s.books.ValidateBook(bookID); err != nil {
		return nil, err
	}

	cursor, err := s.cursors.Get(userID, bookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCursorNotFound
		}
		return nil, err
	}

	effective := cursor.LastPageUserLookedAt
	if page > 0 {
		effective = page
	}

	pages, err := s.books.GetCurrentAndNextPages(bookID, effective)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, books.ErrBookPageNotFound
	}

	if page > 0 {
		if err := s.cursors.SetLastPage(userID, bookID, pages[0].Page); err != nil {
			return nil, err
		}
	}

	window := &Window{
		CurrentPage: PageView{Page: pages[0].Page, Content: pages[0].Content},
	}
	if len(pages) > 1 {
		next := pages[1].Page
		window.NextPage = &next
	}
	return window, nil
}
