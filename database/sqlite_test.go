package database

import (
	"path/filepath"
	"testing"
)

func TestOpenDBAppliesPragmas(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "pragmas.db")

	if err := OpenDB(dbPath); err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { CloseDB() })

	var foreignKeys int
	if err := GetDB().QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
		t.Fatalf("Failed to read foreign_keys pragma: %v", err)
	}
	if foreignKeys != 1 {
		t.Error("Expected foreign key enforcement to be enabled")
	}

	var journalMode string
	if err := GetDB().QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("Failed to read journal_mode pragma: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("Expected WAL journal mode, got %s", journalMode)
	}
}
