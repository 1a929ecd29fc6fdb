package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "prefs.db")

	s := NewSQLite(path)
	if s.Get() != nil {
		t.Error("Expected no connection before InitDb")
	}
	if err := s.InitDb(ctx); err != nil {
		t.Fatalf("InitDb failed: %v", err)
	}
	defer s.Close()

	t.Run("Schema is idempotent", func(t *testing.T) {
		if _, err := s.Exec(ctx, schema); err != nil {
			t.Errorf("Expected schema to apply twice, got %v", err)
		}
	})

	t.Run("Write and read a value", func(t *testing.T) {
		if _, err := s.Exec(ctx, `INSERT INTO prefs (key, value) VALUES (?, ?)`, "theme", []byte("advent")); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}

		var value []byte
		if err := s.QueryRow(ctx, `SELECT value FROM prefs WHERE key = ?`, "theme").Scan(&value); err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		if string(value) != "advent" {
			t.Errorf("Expected advent, got %q", value)
		}
	})

	t.Run("Missing key", func(t *testing.T) {
		var value []byte
		err := s.QueryRow(ctx, `SELECT value FROM prefs WHERE key = ?`, "missing").Scan(&value)
		if !errors.Is(err, sql.ErrNoRows) {
			t.Errorf("Expected sql.ErrNoRows, got %v", err)
		}
	})

	t.Run("Reopen keeps data", func(t *testing.T) {
		s.Close()
		again := NewSQLite(path)
		if err := again.InitDb(ctx); err != nil {
			t.Fatalf("InitDb failed: %v", err)
		}
		defer again.Close()

		var count int
		if err := again.QueryRow(ctx, `SELECT COUNT(*) FROM prefs`).Scan(&count); err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected 1 row, got %d", count)
		}
	})
}

func TestSQLiteInMemory(t *testing.T) {
	s := NewSQLite(":memory:")
	if err := s.InitDb(context.Background()); err != nil {
		t.Fatalf("InitDb failed: %v", err)
	}
	defer s.Close()

	if s.Path() != ":memory:" {
		t.Errorf("Expected :memory:, got %q", s.Path())
	}
}
