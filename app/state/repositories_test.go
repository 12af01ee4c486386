package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/feedbridge/catalog-sync/app/catalog"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "state.sqlite"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func TestIdentityRepository_GetMissingMapping(t *testing.T) {
	repo := NewIdentityRepository(openTestDB(t))

	identity, err := repo.GetMapping("UNKNOWN")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if identity != nil {
		t.Errorf("Expected nil for unknown SKU, got %+v", identity)
	}
}

func TestIdentityRepository_UpsertAndGet(t *testing.T) {
	repo := NewIdentityRepository(openTestDB(t))
	now := time.Now()

	err := repo.UpsertMapping("X1", catalog.RemoteIdentity{ProductID: "P1", VariantID: "V1"}, now)
	if err != nil {
		t.Fatalf("Failed to upsert mapping: %v", err)
	}

	identity, err := repo.GetMapping("X1")
	if err != nil {
		t.Fatalf("Failed to get mapping: %v", err)
	}
	if identity == nil {
		t.Fatal("Expected mapping, got nil")
	}
	if identity.ProductID != "P1" || identity.VariantID != "V1" {
		t.Errorf("Unexpected identity: %+v", identity)
	}

	// Last write wins on conflict.
	err = repo.UpsertMapping("X1", catalog.RemoteIdentity{ProductID: "P2", VariantID: "V2"}, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("Failed to re-upsert mapping: %v", err)
	}

	identity, err = repo.GetMapping("X1")
	if err != nil {
		t.Fatalf("Failed to get mapping after re-upsert: %v", err)
	}
	if identity.ProductID != "P2" || identity.VariantID != "V2" {
		t.Errorf("Expected replaced identity, got %+v", identity)
	}
}

func TestFingerprintRepository_UpsertAndGet(t *testing.T) {
	repo := NewFingerprintRepository(openTestDB(t))
	now := time.Now()

	fp, err := repo.GetFingerprint("X1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if fp != "" {
		t.Errorf("Expected empty fingerprint for unknown SKU, got %q", fp)
	}

	if err := repo.UpsertFingerprint("X1", "abc123", now); err != nil {
		t.Fatalf("Failed to upsert fingerprint: %v", err)
	}
	if err := repo.UpsertFingerprint("X1", "def456", now.Add(time.Minute)); err != nil {
		t.Fatalf("Failed to re-upsert fingerprint: %v", err)
	}

	fp, err = repo.GetFingerprint("X1")
	if err != nil {
		t.Fatalf("Failed to get fingerprint: %v", err)
	}
	if fp != "def456" {
		t.Errorf("Expected def456, got %q", fp)
	}
}

func TestFingerprintRepository_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.sqlite")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	repo := NewFingerprintRepository(db)
	if err := repo.UpsertFingerprint("X1", "abc123", time.Now()); err != nil {
		t.Fatalf("Failed to upsert fingerprint: %v", err)
	}
	db.Close()

	// State must survive a process restart.
	db, err = Open(path)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer db.Close()

	fp, err := NewFingerprintRepository(db).GetFingerprint("X1")
	if err != nil {
		t.Fatalf("Failed to get fingerprint after reopen: %v", err)
	}
	if fp != "abc123" {
		t.Errorf("Expected abc123 after reopen, got %q", fp)
	}
}

func TestRunRepository_StartAndFinish(t *testing.T) {
	repo := NewRunRepository(openTestDB(t))
	started := time.Now()

	if err := repo.StartRun("run-1", "full", started); err != nil {
		t.Fatalf("Failed to start run: %v", err)
	}

	run, err := repo.GetRun("run-1")
	if err != nil {
		t.Fatalf("Failed to get run: %v", err)
	}
	if run == nil {
		t.Fatal("Expected run, got nil")
	}
	if run.FinishedAt != nil {
		t.Errorf("Expected unfinished run, got finished_at %v", run.FinishedAt)
	}

	if err := repo.FinishRun("run-1", started.Add(time.Minute), 3, 2, 10, 1, 0); err != nil {
		t.Fatalf("Failed to finish run: %v", err)
	}

	run, err = repo.GetRun("run-1")
	if err != nil {
		t.Fatalf("Failed to get finished run: %v", err)
	}
	if run.FinishedAt == nil {
		t.Error("Expected finished_at to be set")
	}
	if run.Created != 3 || run.Updated != 2 || run.Unchanged != 10 || run.Skipped != 1 || run.Failed != 0 {
		t.Errorf("Unexpected counters: %+v", run)
	}
}
