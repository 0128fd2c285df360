package store

import (
	"errors"
	"testing"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/makxca/monitorzd/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("badger.Open: %v", err)
	}
	s := New(db)
	t.Cleanup(func() { s.Close() })
	return s
}

func testFilter(price int) model.Filter {
	return model.Filter{
		DepartureDate: "2025-12-30",
		Origin:        []model.Station{{Name: "МОСКВА", ExpressCode: "2000000"}},
		Destination:   []model.Station{{Name: "САНКТ-ПЕТЕРБУРГ", ExpressCode: "2004000"}},
		SeatClass:     model.SeatClassPlaz,
		MaxPrice:      price,
	}
}

func TestUpsertAndGet(t *testing.T) {
	s := testStore(t)

	if err := s.Upsert("123", testFilter(3000)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	sub, err := s.Get("123")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sub.TelegramID != "123" {
		t.Errorf("TelegramID = %q", sub.TelegramID)
	}
	if sub.Filter.MaxPrice != 3000 {
		t.Errorf("MaxPrice = %d, want 3000", sub.Filter.MaxPrice)
	}
	if sub.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestGetAbsent(t *testing.T) {
	s := testStore(t)
	if _, err := s.Get("404"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get absent = %v, want ErrNotFound", err)
	}
}

func TestUpsertOverwrites(t *testing.T) {
	s := testStore(t)

	if err := s.Upsert("123", testFilter(1000)); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	first, err := s.Get("123")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if err := s.Upsert("123", testFilter(2000)); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	second, err := s.Get("123")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if second.Filter.MaxPrice != 2000 {
		t.Errorf("MaxPrice = %d, want the second filter's 2000", second.Filter.MaxPrice)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Error("overwrite must preserve CreatedAt")
	}

	subs, err := s.ListActive()
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(subs) != 1 {
		t.Errorf("got %d subscriptions, want 1", len(subs))
	}
}

func TestDeleteIsSoft(t *testing.T) {
	s := testStore(t)

	if err := s.Upsert("123", testFilter(3000)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.Delete("123"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := s.Get("123"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
	if err := s.Delete("123"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}

	subs, err := s.ListActive()
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("tombstoned subscription still listed: %+v", subs)
	}
}

func TestUpsertClearsTombstone(t *testing.T) {
	s := testStore(t)

	if err := s.Upsert("123", testFilter(1000)); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.Delete("123"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Upsert("123", testFilter(2000)); err != nil {
		t.Fatalf("re-Upsert: %v", err)
	}

	sub, err := s.Get("123")
	if err != nil {
		t.Fatalf("Get after re-upsert: %v", err)
	}
	if sub.DeletedAt != nil {
		t.Error("tombstone not cleared by Upsert")
	}
	if sub.Filter.MaxPrice != 2000 {
		t.Errorf("MaxPrice = %d, want 2000", sub.Filter.MaxPrice)
	}
}

func TestListActive(t *testing.T) {
	s := testStore(t)

	for _, id := range []string{"1", "2", "3"} {
		if err := s.Upsert(id, testFilter(3000)); err != nil {
			t.Fatalf("Upsert %s: %v", id, err)
		}
	}
	if err := s.Delete("2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	subs, err := s.ListActive()
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("got %d subscriptions, want 2", len(subs))
	}
	for _, sub := range subs {
		if sub.TelegramID == "2" {
			t.Error("deleted subscription listed as active")
		}
	}
}
