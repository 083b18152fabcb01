package db

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMigration(t *testing.T, dir, name, sql string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(sql), 0o644); err != nil {
		t.Fatalf("write migration file: %v", err)
	}
}

func TestLoadMigrations_SortedByVersion(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "003_visit.sql", "CREATE TABLE visit ();")
	writeMigration(t, dir, "001_patient.sql", "CREATE TABLE patient ();")
	writeMigration(t, dir, "002_clinical_history.sql", "CREATE TABLE clinical_history ();")

	m := NewMigrator(nil, dir)
	migs, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(migs) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migs))
	}
	for i, wantVersion := range []int{1, 2, 3} {
		if migs[i].Version != wantVersion {
			t.Errorf("migration %d: version = %d, want %d", i, migs[i].Version, wantVersion)
		}
	}
	if migs[0].Name != "001_patient.sql" {
		t.Errorf("first migration name = %s, want 001_patient.sql", migs[0].Name)
	}
	if migs[0].SQL != "CREATE TABLE patient ();" {
		t.Errorf("migration SQL not loaded: %q", migs[0].SQL)
	}
}

func TestLoadMigrations_SkipsNonNumericAndNonSQL(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "001_patient.sql", "CREATE TABLE patient ();")
	writeMigration(t, dir, "README.md", "not a migration")
	writeMigration(t, dir, "notes_draft.sql", "-- no numeric prefix")
	writeMigration(t, dir, "noseparator.sql", "-- no underscore")

	m := NewMigrator(nil, dir)
	migs, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(migs) != 1 {
		t.Fatalf("expected 1 migration, got %d", len(migs))
	}
}

func TestLoadMigrations_MissingDir(t *testing.T) {
	m := NewMigrator(nil, "/nonexistent/migrations")
	if _, err := m.LoadMigrations(); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
