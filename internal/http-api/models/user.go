package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account. Usernames are unique as typed; emails are unique
// case-insensitively through the uq_users_email_lower index created by
// database.Migrate.
type User struct {
	ID           string     `gorm:"primaryKey;type:uuid" json:"id"`
	Username     string     `gorm:"size:150;not null;uniqueIndex:uq_users_username" json:"username"`
	Email        string     `gorm:"size:254;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastLogin    *time.Time `json:"last_login"`
}

// BeforeCreate assigns a random id to accounts created without one.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
