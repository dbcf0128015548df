package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	FirstName    string         `gorm:"size:256" json:"first_name"`
	LastName     string         `gorm:"size:256" json:"last_name"`
	Email        string         `gorm:"size:255;uniqueIndex:idx_users_email,where:deleted_at IS NULL" json:"email"`
	PasswordHash string         `gorm:"size:128" json:"-"`
	APITokenHash string         `gorm:"index;size:64" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (User) TableName() string {
	return "users"
}
