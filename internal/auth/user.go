package auth

import (
	"strings"
	"time"
)

type User struct {
	ID           uint64    `gorm:"primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	FirstName    string    `gorm:"type:text"`
	LastName     string    `gorm:"type:text"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

// FullName is the display name used in outgoing email signatures.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
