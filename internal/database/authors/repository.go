// Package authors provides database operations for author management.
package authors

import (
	"time"

	"gorm.io/gorm"

	"github.com/mcharkviani/library/internal/entities"
)

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new author.
func (r *Repository) Create(author *entities.Author) error {
	return r.db.Create(author).Error
}

// GetByID retrieves a live author by id.
func (r *Repository) GetByID(id string) (*entities.Author, error) {
	var author entities.Author
	err := r.db.Where("id = ?", id).First(&author).Error
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// Exists reports whether a live author with the given id exists.
func (r *Repository) Exists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Author{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// List returns all live authors.
func (r *Repository) List() ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.Order("created_at ASC").Find(&authors).Error
	return authors, err
}

// Save writes all fields of an already-loaded author.
func (r *Repository) Save(author *entities.Author) error {
	return r.db.Omit("Books").Save(author).Error
}

// SoftDelete tombstones an author.
func (r *Repository) SoftDelete(id string) error {
	return r.db.Where("id = ?", id).Delete(&entities.Author{}).Error
}

// PurgeDeleted hard-deletes authors tombstoned before the cutoff.
func (r *Repository) PurgeDeleted(cutoff time.Time) (int64, error) {
	res := r.db.Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(&entities.Author{})
	return res.RowsAffected, res.Error
}
