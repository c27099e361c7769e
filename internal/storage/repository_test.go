package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestRepo(t *testing.T) (*SQLiteRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "config.db")
	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo, path
}

func TestGetUnsetSlot(t *testing.T) {
	repo, _ := newTestRepo(t)
	got, err := repo.GetStrings(context.Background(), "productionLines")
	if err != nil {
		t.Fatalf("GetStrings: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unset slot, got %v", got)
	}
}

func TestSetAndReplaceSlot(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	if err := repo.SetStrings(ctx, "productionLines", []string{"Torno 1", "Telar 3"}); err != nil {
		t.Fatalf("SetStrings: %v", err)
	}
	if err := repo.SetStrings(ctx, "productionLines", []string{"Prensa"}); err != nil {
		t.Fatalf("SetStrings: %v", err)
	}
	got, err := repo.GetStrings(ctx, "productionLines")
	if err != nil {
		t.Fatalf("GetStrings: %v", err)
	}
	if len(got) != 1 || got[0] != "Prensa" {
		t.Fatalf("expected [Prensa], got %v", got)
	}

	if err := repo.SetStrings(ctx, "productionLines", nil); err != nil {
		t.Fatalf("SetStrings: %v", err)
	}
	got, _ = repo.GetStrings(ctx, "productionLines")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
}

func TestSlotsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	repo, path := newTestRepo(t)
	if err := repo.SetStrings(ctx, "productionLines", []string{"Torno 1"}); err != nil {
		t.Fatalf("SetStrings: %v", err)
	}
	repo.Close()

	reopened, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.GetStrings(ctx, "productionLines")
	if err != nil || len(got) != 1 || got[0] != "Torno 1" {
		t.Fatalf("expected persisted slot, got %v err=%v", got, err)
	}
	if err := reopened.HealthCheck(ctx); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	_, path := newTestRepo(t)
	for i := 0; i < 2; i++ {
		version, err := Migrate(path)
		if err != nil {
			t.Fatalf("Migrate run %d: %v", i+1, err)
		}
		if version != 1 {
			t.Fatalf("schema version = %d, want 1", version)
		}
	}
}
