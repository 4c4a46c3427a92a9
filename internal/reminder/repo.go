package reminder

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repo struct {
	DB *gorm.DB
}

func (r *Repo) Create(ctx context.Context, rem *Reminder) error {
	if rem.ID == uuid.Nil {
		rem.ID = uuid.New()
	}
	if rem.Status == "" {
		rem.Status = StatusScheduled
	}
	return r.DB.WithContext(ctx).Create(rem).Error
}

// FindScheduledByPostHookID returns the still-pending record the provider's
// callback refers to, or nil when there is none. Terminal records are
// deliberately invisible here so a replayed callback never matches twice.
func (r *Repo) FindScheduledByPostHookID(ctx context.Context, postHookID string) (*Reminder, error) {
	var rem Reminder
	err := r.DB.WithContext(ctx).
		Where("post_hook_id = ? AND status = ?", postHookID, StatusScheduled).
		First(&rem).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rem, nil
}

// Transition moves a record from one status to another as a single
// conditional update. Returns false when the record was not in the expected
// status, which callers treat as an idempotent no-op.
func (r *Repo) Transition(ctx context.Context, id uuid.UUID, from, to Status) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&Reminder{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repo) ListByItem(ctx context.Context, itemID uint64) ([]Reminder, error) {
	var rems []Reminder
	err := r.DB.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("sending_date asc").
		Find(&rems).Error
	return rems, err
}
