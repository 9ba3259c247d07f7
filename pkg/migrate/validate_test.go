package migrate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations failed validation: %v", err)
	}
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "not_versioned.sql")
	if err := os.WriteFile(bad, []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatalf("expected filename validation error")
	}
}

func TestValidateDirRejectsMissingHeaders(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "20240610120000_orders.sql")
	if err := os.WriteFile(bad, []byte("CREATE TABLE orders (id BIGINT);"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatalf("expected header validation error")
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Store Tokens!")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	base := filepath.Base(path)
	if m := sqlFileRe.FindStringSubmatch(base); m == nil {
		t.Fatalf("created filename %q does not match the versioned pattern", base)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration failed validation: %v", err)
	}
}
