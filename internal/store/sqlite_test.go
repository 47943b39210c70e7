package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) Repository {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSaveAndCountTurns(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	records := []TurnRecord{
		{SessionID: "s1", Role: "user", Content: "hello"},
		{SessionID: "s1", Role: "assistant", Content: "hi there"},
		{SessionID: "s2", Role: "user", Content: "other session"},
	}
	for _, rec := range records {
		if err := repo.SaveTurn(ctx, rec); err != nil {
			t.Fatalf("SaveTurn failed: %v", err)
		}
	}

	n, err := repo.CountTurns(ctx, "s1")
	if err != nil {
		t.Fatalf("CountTurns failed: %v", err)
	}
	if n != 2 {
		t.Errorf("CountTurns(s1) = %d, want 2", n)
	}

	n, err = repo.CountTurns(ctx, "s2")
	if err != nil {
		t.Fatalf("CountTurns failed: %v", err)
	}
	if n != 1 {
		t.Errorf("CountTurns(s2) = %d, want 1", n)
	}
}

func TestPing(t *testing.T) {
	repo := newTestStore(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestRecorderArchivesAsync(t *testing.T) {
	repo := newTestStore(t)
	rec := NewRecorder(repo, 16, nil)

	rec.Record("s1", "user", "best beaches in bali")
	rec.Record("s1", "assistant", "BEACHES:\nKuta - Surf beach")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if n, _ := repo.CountTurns(context.Background(), "s1"); n == 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := rec.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	n, err := repo.CountTurns(context.Background(), "s1")
	if err != nil {
		t.Fatalf("CountTurns failed: %v", err)
	}
	if n != 2 {
		t.Errorf("archived records = %d, want 2", n)
	}
}

func TestIsSQLiteConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"busy", errors.New("SQLITE_BUSY (5)"), true},
		{"locked", errors.New("database is locked"), true},
		{"other", errors.New("no such table"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSQLiteConflict(tt.err); got != tt.want {
				t.Errorf("isSQLiteConflict(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRecorderDropsRecordsAfterClose(t *testing.T) {
	repo := newTestStore(t)
	rec := NewRecorder(repo, 4, nil)

	if err := rec.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Connection handlers can outlive server shutdown; a late record must be
	// dropped, not panic.
	rec.Record("s1", "user", "late message")

	n, err := repo.CountTurns(context.Background(), "s1")
	if err != nil {
		t.Fatalf("CountTurns failed: %v", err)
	}
	if n != 0 {
		t.Errorf("archived records = %d, want 0", n)
	}
}

func TestRecorderCloseIdempotent(t *testing.T) {
	repo := newTestStore(t)
	rec := NewRecorder(repo, 4, nil)

	if err := rec.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}
