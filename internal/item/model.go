package item

import (
	"time"

	"github.com/lib/pq"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusFinished Status = "FINISHED"
)

// Item is the task a reminder follows up on. Reminders hold a reference to
// it; they do not own its lifecycle.
type Item struct {
	ID      uint64 `gorm:"primaryKey"`
	OwnerID uint64 `gorm:"index;not null"`

	Name   string `gorm:"type:text;not null"`
	Status Status `gorm:"type:text;index;not null"`

	// The customer the follow-up emails go to.
	CustomerName  string `gorm:"type:text"`
	CustomerEmail string `gorm:"type:text"`

	Tags pq.StringArray `gorm:"type:text[]"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
