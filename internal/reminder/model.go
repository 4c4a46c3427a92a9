package reminder

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusSent      Status = "SENT"
	StatusCanceled  Status = "CANCELED"
	StatusError     Status = "ERROR"
)

type Kind string

const (
	KindAmendmentAfter5Days Kind = "AMENDMENT_AFTER_5_DAYS"
	KindQuoteAfter10Days    Kind = "QUOTE_AFTER_10_DAYS"
	KindPreviewTest         Kind = "PREVIEW_TEST"
)

// Reminder is the durable record of one scheduled send. Rows are never
// deleted; once Status leaves SCHEDULED it is terminal.
type Reminder struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	ItemID uint64    `gorm:"index;not null"`

	// PostHookID is the job id the provider assigned at registration, unique
	// per scheduled invocation.
	PostHookID  string    `gorm:"uniqueIndex;not null"`
	Type        Kind      `gorm:"type:text;not null"`
	SendingDate time.Time `gorm:"not null"`
	Status      Status    `gorm:"type:text;index;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
