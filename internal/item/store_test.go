package item

import (
	"context"
	"errors"
	"fmt"
	"testing"

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
	if err := db.AutoMigrate(&Item{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCreate_DefaultsToPending(t *testing.T) {
	s := &Store{DB: newTestDB(t)}
	ctx := context.Background()

	it := &Item{OwnerID: 1, Name: "Logo"}
	if err := s.Create(ctx, it); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Get(ctx, it.ID, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusPending {
		t.Fatalf("status: %s", got.Status)
	}
}

func TestGet_ScopedToOwner(t *testing.T) {
	s := &Store{DB: newTestDB(t)}
	ctx := context.Background()

	it := &Item{OwnerID: 1, Name: "Logo"}
	if err := s.Create(ctx, it); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.Get(ctx, it.ID, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other owner, got %v", err)
	}
}

func TestFinish_ConditionalAndIdempotent(t *testing.T) {
	s := &Store{DB: newTestDB(t)}
	ctx := context.Background()

	it := &Item{OwnerID: 1, Name: "Logo"}
	if err := s.Create(ctx, it); err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err := s.Finish(ctx, it.ID, 1)
	if err != nil || !ok {
		t.Fatalf("first finish: ok=%v err=%v", ok, err)
	}

	ok, err = s.Finish(ctx, it.ID, 1)
	if err != nil {
		t.Fatalf("second finish: %v", err)
	}
	if ok {
		t.Fatalf("finishing twice must be a no-op")
	}
}

func TestFinished(t *testing.T) {
	s := &Store{DB: newTestDB(t)}
	ctx := context.Background()

	it := &Item{OwnerID: 1, Name: "Logo"}
	if err := s.Create(ctx, it); err != nil {
		t.Fatalf("create: %v", err)
	}

	done, err := s.Finished(ctx, it.ID)
	if err != nil || done {
		t.Fatalf("pending item: done=%v err=%v", done, err)
	}

	if _, err := s.Finish(ctx, it.ID, 1); err != nil {
		t.Fatalf("finish: %v", err)
	}

	done, err = s.Finished(ctx, it.ID)
	if err != nil || !done {
		t.Fatalf("finished item: done=%v err=%v", done, err)
	}

	// a missing item is not terminal; the delivery path decides
	done, err = s.Finished(ctx, 9999)
	if err != nil || done {
		t.Fatalf("missing item: done=%v err=%v", done, err)
	}
}
