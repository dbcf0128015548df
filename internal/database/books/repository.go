// Package books provides database operations for books and their content
// pages.
//
// Uniqueness of isbn and of (book_id, page) among live rows is enforced by
// partial unique indexes, so a concurrent writer that slips past the
// service-level pre-checks still fails at insert time. Those constraint
// violations are translated to ErrISBNConflict / ErrPageConflict here so the
// service layer sees one error shape regardless of timing.
package books

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/mcharkviani/library/internal/entities"
)

var (
	ErrISBNConflict = errors.New("isbn already taken")
	ErrPageConflict = errors.New("page number already taken for book")
)

// Repository handles all book and book page database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithPages persists a book together with its initial content pages as
// one transaction. Either everything is written or nothing is.
func (r *Repository) CreateWithPages(book *entities.Book, pages []entities.BookPage) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Pages").Create(book).Error; err != nil {
			return err
		}
		for i := range pages {
			pages[i].BookID = book.ID
		}
		if len(pages) > 0 {
			if err := tx.Omit("Book").Create(&pages).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translateUniqueViolation(err)
}

// GetByID retrieves a live book by id.
func (r *Repository) GetByID(id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("id = ?", id).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Exists reports whether a live book with the given id exists.
func (r *Repository) Exists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// CountByISBN counts live books carrying the given isbn.
func (r *Repository) CountByISBN(isbn string) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Where("isbn = ?", isbn).Count(&count).Error
	return count, err
}

// List returns one page of live books plus the total count. When search is
// non-empty, matches title or isbn by substring.
func (r *Repository) List(page, limit int, search string) ([]entities.Book, int64, error) {
	query := r.db.Model(&entities.Book{})
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title LIKE ? OR isbn LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var books []entities.Book
	err := query.Order("created_at ASC").Offset((page - 1) * limit).Limit(limit).Find(&books).Error
	return books, total, err
}

// Save writes all fields of an already-loaded book.
func (r *Repository) Save(book *entities.Book) error {
	return translateUniqueViolation(r.db.Omit("Author", "Pages").Save(book).Error)
}

// CreatePage inserts a single content page.
func (r *Repository) CreatePage(page *entities.BookPage) error {
	return translateUniqueViolation(r.db.Omit("Book").Create(page).Error)
}

// GetPage retrieves the live page with the exact page number.
func (r *Repository) GetPage(bookID string, page int) (*entities.BookPage, error) {
	var bookPage entities.BookPage
	err := r.db.Where("book_id = ? AND page = ?", bookID, page).First(&bookPage).Error
	if err != nil {
		return nil, err
	}
	return &bookPage, nil
}

// GetPageByID retrieves a live page by its id.
func (r *Repository) GetPageByID(id string) (*entities.BookPage, error) {
	var bookPage entities.BookPage
	err := r.db.Where("id = ?", id).First(&bookPage).Error
	if err != nil {
		return nil, err
	}
	return &bookPage, nil
}

// PageExistsAt reports whether a live page with the given number exists for
// the book.
func (r *Repository) PageExistsAt(bookID string, page int) (bool, error) {
	var count int64
	err := r.db.Model(&entities.BookPage{}).
		Where("book_id = ? AND page = ?", bookID, page).Count(&count).Error
	return count > 0, err
}

// UpdatePageContent updates only the content column of a page.
func (r *Repository) UpdatePageContent(id, content string) error {
	return r.db.Model(&entities.BookPage{}).Where("id = ?", id).
		Update("content", content).Error
}

// MinPage returns the smallest live page number of a book. The second return
// value is false when the book has no live pages.
func (r *Repository) MinPage(bookID string) (int, bool, error) {
	row := r.db.Model(&entities.BookPage{}).
		Where("book_id = ?", bookID).Select("MIN(page)").Row()

	var min sql.NullInt64
	if err := row.Scan(&min); err != nil {
		return 0, false, err
	}
	if !min.Valid {
		return 0, false, nil
	}
	return int(min.Int64), true, nil
}

// CurrentAndNext returns up to two live pages at or after the given page
// number, ordered ascending. Range semantics on purpose: if the page at
// exactly `from` was deleted, reading resumes from the nearest later page.
func (r *Repository) CurrentAndNext(bookID string, from int) ([]entities.BookPage, error) {
	var pages []entities.BookPage
	err := r.db.Where("book_id = ? AND page >= ?", bookID, from).
		Order("page ASC").Limit(2).Find(&pages).Error
	return pages, err
}

// SoftDelete tombstones a book together with its pages and reading cursors.
// The cascade is explicit rather than delegated to foreign-key actions so it
// holds regardless of the storage engine's pragma settings.
func (r *Repository) SoftDelete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&entities.BookPage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.UserBook{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Book{}).Error
	})
}

// SoftDeletePage tombstones a single content page.
func (r *Repository) SoftDeletePage(id string) error {
	return r.db.Where("id = ?", id).Delete(&entities.BookPage{}).Error
}

// PurgeDeleted hard-deletes books and pages that were tombstoned before the
// cutoff. Returns the number of rows removed.
func (r *Repository) PurgeDeleted(cutoff time.Time) (int64, error) {
	var purged int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Unscoped().
			Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
			Delete(&entities.BookPage{})
		if res.Error != nil {
			return res.Error
		}
		purged += res.RowsAffected

		res = tx.Unscoped().
			Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
			Delete(&entities.Book{})
		if res.Error != nil {
			return res.Error
		}
		purged += res.RowsAffected
		return nil
	})
	return purged, err
}

// translateUniqueViolation maps sqlite unique-constraint failures onto the
// repository's conflict errors. Everything else passes through untouched.
func translateUniqueViolation(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	isUnique := errors.As(err, &sqliteErr) &&
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	if !isUnique {
		return err
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "books.isbn"):
		return ErrISBNConflict
	case strings.Contains(msg, "book_details"):
		return ErrPageConflict
	default:
		return err
	}
}
