package db

import (
	"fmt"

	"inyo/internal/auth"
	"inyo/internal/item"
	"inyo/internal/reminder"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables
	if err := gdb.AutoMigrate(
		&auth.User{},
		&item.Item{},
		&reminder.Reminder{},
	); err != nil {
		return err
	}

	// Reminders are an append-only audit trail; the hot path is the callback
	// lookup on still-scheduled rows.
	stmts := []string{
		`create index if not exists idx_reminders_pending on reminders(post_hook_id) where status = 'SCHEDULED';`,
		`create index if not exists idx_reminders_item_date on reminders(item_id, sending_date);`,
		`create index if not exists idx_items_owner_status on items(owner_id, status);`,
		`create index if not exists idx_items_tags on items using gin (tags);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
