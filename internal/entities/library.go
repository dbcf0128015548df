package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Author struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	FirstName   string         `gorm:"size:256" json:"first_name"`
	LastName    string         `gorm:"size:256" json:"last_name"`
	DateOfBirth *time.Time     `json:"date_of_birth,omitempty"`
	Books       []Book         `gorm:"foreignKey:AuthorID" json:"books,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type Book struct {
	ID         string         `gorm:"primaryKey;size:36" json:"id"`
	ISBN       string         `gorm:"size:20;uniqueIndex:idx_books_isbn,where:deleted_at IS NULL" json:"isbn"`
	Title      string         `gorm:"index;size:512" json:"title"`
	TotalPages int            `json:"total_pages"`
	AuthorID   string         `gorm:"index;size:36" json:"author_id"`
	Author     Author         `gorm:"foreignKey:AuthorID" json:"-"`
	Pages      []BookPage     `gorm:"foreignKey:BookID" json:"pages,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// BookPage is a single numbered content page of a book. The table keeps the
// reference schema's name, book_details.
type BookPage struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	BookID    string         `gorm:"size:36;uniqueIndex:idx_book_details_book_page,where:deleted_at IS NULL" json:"book_id"`
	Page      int            `gorm:"uniqueIndex:idx_book_details_book_page,where:deleted_at IS NULL" json:"page"`
	Content   string         `gorm:"type:text" json:"content"`
	Book      Book           `gorm:"foreignKey:BookID" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// UserBook is the per-(user, book) reading cursor. LastPageUserLookedAt always
// mirrors a page number that exists in book_details for the book.
type UserBook struct {
	UserID               string         `gorm:"primaryKey;size:36" json:"user_id"`
	BookID               string         `gorm:"primaryKey;size:36" json:"book_id"`
	LastPageUserLookedAt int            `json:"last_page_user_looked_at"`
	User                 User           `gorm:"foreignKey:UserID" json:"-"`
	Book                 Book           `gorm:"foreignKey:BookID" json:"-"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (a *Author) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (b *Book) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (p *BookPage) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (Author) TableName() string {
	return "authors"
}

func (Book) TableName() string {
	return "books"
}

func (BookPage) TableName() string {
	return "book_details"
}

func (UserBook) TableName() string {
	return "user_books"
}
