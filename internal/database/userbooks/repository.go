// Package userbooks provides database operations for per-(user, book)
// reading cursors.
package userbooks

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mcharkviani/library/internal/entities"
)

// Repository handles all reading cursor database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reading cursor repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert creates the cursor or, when the (user_id, book_id) row already
// exists, resets its position. Attaching twice re-seeds the cursor, matching
// save semantics on the composite key.
func (r *Repository) Upsert(cursor *entities.UserBook) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_page_user_looked_at": cursor.LastPageUserLookedAt,
			"updated_at":               time.Now(),
			"deleted_at":               nil,
		}),
	}).Omit("User", "Book").Create(cursor).Error
}

// Get retrieves the live cursor for a (user, book) pair.
func (r *Repository) Get(userID, bookID string) (*entities.UserBook, error) {
	var cursor entities.UserBook
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&cursor).Error
	if err != nil {
		return nil, err
	}
	return &cursor, nil
}

// SetLastPage moves the cursor to the given page number.
func (r *Repository) SetLastPage(userID, bookID string, page int) error {
	return r.db.Model(&entities.UserBook{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Update("last_page_user_looked_at", page).Error
}

// PurgeDeleted hard-deletes cursors tombstoned before the cutoff.
func (r *Repository) PurgeDeleted(cutoff time.Time) (int64, error) {
	res := r.db.Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(&entities.UserBook{})
	return res.RowsAffected, res.Error
}
