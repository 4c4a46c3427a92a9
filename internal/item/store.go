package item

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("item not found")

type Store struct {
	DB *gorm.DB
}

func (s *Store) Create(ctx context.Context, it *Item) error {
	if it.Status == "" {
		it.Status = StatusPending
	}
	return s.DB.WithContext(ctx).Create(it).Error
}

func (s *Store) Get(ctx context.Context, id, ownerID uint64) (*Item, error) {
	var it Item
	err := s.DB.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&it).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Finish moves an item from PENDING to FINISHED as a single conditional
// update. Returns false when the item was not pending (already finished or
// not owned), so finishing twice is a no-op.
func (s *Store) Finish(ctx context.Context, id, ownerID uint64) (bool, error) {
	res := s.DB.WithContext(ctx).Model(&Item{}).
		Where("id = ? AND owner_id = ? AND status = ?", id, ownerID, StatusPending).
		Update("status", StatusFinished)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Finished reports whether the item has reached its terminal status. An item
// that no longer exists counts as not finished; the delivery path decides
// what to do with it.
func (s *Store) Finished(ctx context.Context, itemID uint64) (bool, error) {
	var it Item
	err := s.DB.WithContext(ctx).Select("status").First(&it, itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return it.Status == StatusFinished, nil
}
