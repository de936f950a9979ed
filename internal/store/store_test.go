package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackzampolin/booksmith/internal/book"
)

func TestMemoryStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec, err := s.Create(ctx, book.New("first prompt"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rec.ID == "" {
		t.Fatal("Create() returned empty ID")
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}

	t.Run("get", func(t *testing.T) {
		got, err := s.Get(ctx, rec.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Book.BasePrompt != "first prompt" {
			t.Errorf("BasePrompt = %q", got.Book.BasePrompt)
		}
	})

	t.Run("get_missing", func(t *testing.T) {
		_, err := s.Get(ctx, "nope")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("update", func(t *testing.T) {
		b := book.New("first prompt")
		b.Title = "Updated"
		updated, err := s.Update(ctx, rec.ID, b)
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.Book.Title != "Updated" {
			t.Errorf("Title = %q", updated.Book.Title)
		}

		got, _ := s.Get(ctx, rec.ID)
		if got.Book.Title != "Updated" {
			t.Error("update did not persist")
		}
	})

	t.Run("update_missing", func(t *testing.T) {
		_, err := s.Update(ctx, "nope", book.New("x"))
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Update() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("list", func(t *testing.T) {
		s.now = func() time.Time { return time.Now().Add(time.Hour) }
		if _, err := s.Create(ctx, book.New("second prompt")); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		records, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("len(List()) = %d, want 2", len(records))
		}
		if records[0].Book.BasePrompt != "first prompt" {
			t.Error("List() not ordered by creation time")
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := s.Delete(ctx, rec.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := s.Get(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete_missing", func(t *testing.T) {
		if err := s.Delete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Delete() error = %v, want ErrNotFound", err)
		}
	})
}

func TestMemoryStore_CreateRequiresBook(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Create(context.Background(), nil); err == nil {
		t.Fatal("Create(nil) = nil error")
	}
}
