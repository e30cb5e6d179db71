package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/AnshRaj112/wordstreak-backend/internal/config"
	"github.com/AnshRaj112/wordstreak-backend/internal/database"
	"github.com/AnshRaj112/wordstreak-backend/internal/logging"
)

func testConfig(dbURL string) *config.Config {
	return &config.Config{
		Port:            "0",
		Environment:     "test",
		AllowedOrigins:  []string{"http://localhost:3000"},
		DatabaseDriver:  database.DriverSQLite,
		DatabaseURL:     dbURL,
		LogLevel:        "error",
		DefaultUserName: "Learner",
	}
}

func TestRunServesUntilCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.db")
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	if err := run(ctx, testConfig(path), logging.Discard()); err != nil {
		t.Fatalf("run: %v", err)
	}

	// The default user was committed and the store released.
	db, err := database.Open(database.DriverSQLite, path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users`); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 user, got %d", n)
	}
}

func TestRunReturnsStartupErrors(t *testing.T) {
	t.Run("unopenable database", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "dir", "vocab.db")
		if err := run(context.Background(), testConfig(path), logging.Discard()); err == nil {
			t.Fatal("expected error for unopenable database")
		}
	})

	t.Run("cancelled before default user", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		path := filepath.Join(t.TempDir(), "vocab.db")
		if err := run(ctx, testConfig(path), logging.Discard()); err == nil {
			t.Fatal("expected error when the default user can't be created")
		}
	})
}
