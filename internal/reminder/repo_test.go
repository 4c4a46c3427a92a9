package reminder

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	db, err := gorm.Open(dsn, &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&Reminder{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedReminder(t *testing.T, r *Repo, postHookID string, status Status) *Reminder {
	t.Helper()
	rem := &Reminder{
		ItemID:      1,
		PostHookID:  postHookID,
		Type:        KindAmendmentAfter5Days,
		SendingDate: time.Now().Add(5 * 24 * time.Hour),
		Status:      status,
	}
	if err := r.Create(context.Background(), rem); err != nil {
		t.Fatalf("create reminder: %v", err)
	}
	return rem
}

func TestFindScheduledByPostHookID(t *testing.T) {
	r := &Repo{DB: newTestDB(t)}
	ctx := context.Background()

	seedReminder(t, r, "ph_1", StatusScheduled)

	rem, err := r.FindScheduledByPostHookID(ctx, "ph_1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if rem == nil || rem.PostHookID != "ph_1" {
		t.Fatalf("expected match, got %+v", rem)
	}

	rem, err = r.FindScheduledByPostHookID(ctx, "ph_missing")
	if err != nil {
		t.Fatalf("find missing: %v", err)
	}
	if rem != nil {
		t.Fatalf("expected nil for unknown hook id, got %+v", rem)
	}
}

func TestFindScheduledByPostHookID_TerminalInvisible(t *testing.T) {
	r := &Repo{DB: newTestDB(t)}
	ctx := context.Background()

	for i, status := range []Status{StatusSent, StatusCanceled, StatusError} {
		id := fmt.Sprintf("ph_%d", i)
		seedReminder(t, r, id, status)

		rem, err := r.FindScheduledByPostHookID(ctx, id)
		if err != nil {
			t.Fatalf("find %s: %v", status, err)
		}
		if rem != nil {
			t.Fatalf("terminal %s record should not match, got %+v", status, rem)
		}
	}
}

func TestTransition_Conditional(t *testing.T) {
	r := &Repo{DB: newTestDB(t)}
	ctx := context.Background()

	rem := seedReminder(t, r, "ph_1", StatusScheduled)

	ok, err := r.Transition(ctx, rem.ID, StatusScheduled, StatusSent)
	if err != nil || !ok {
		t.Fatalf("first transition: ok=%v err=%v", ok, err)
	}

	// replayed callback: precondition no longer holds
	ok, err = r.Transition(ctx, rem.ID, StatusScheduled, StatusError)
	if err != nil {
		t.Fatalf("second transition: %v", err)
	}
	if ok {
		t.Fatalf("terminal record must not transition again")
	}

	var got Reminder
	if err := r.DB.First(&got, "id = ?", rem.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != StatusSent {
		t.Fatalf("status: %s", got.Status)
	}
}

func TestListByItem_OrderedBySendingDate(t *testing.T) {
	r := &Repo{DB: newTestDB(t)}
	ctx := context.Background()

	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	for i, d := range []time.Duration{10 * 24 * time.Hour, 5 * 24 * time.Hour} {
		rem := &Reminder{
			ItemID:      3,
			PostHookID:  fmt.Sprintf("ph_%d", i),
			Type:        KindQuoteAfter10Days,
			SendingDate: base.Add(d),
		}
		if err := r.Create(ctx, rem); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	rems, err := r.ListByItem(ctx, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rems) != 2 {
		t.Fatalf("expected 2 reminders, got %d", len(rems))
	}
	if !rems[0].SendingDate.Before(rems[1].SendingDate) {
		t.Fatalf("not ordered: %v then %v", rems[0].SendingDate, rems[1].SendingDate)
	}
	if rems[0].Status != StatusScheduled {
		t.Fatalf("default status: %s", rems[0].Status)
	}
}
