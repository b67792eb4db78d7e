package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ratedesk/ratedesk-backend/pkg/migrate"
)

func TestCatalogMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init_catalog.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no catalog migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS offers",
		"CONSTRAINT ux_offers_tuple UNIQUE (supplier_id, connection_id, network_id)",
		"previous_price NUMERIC",
		"CONSTRAINT ux_connections_supplier_name UNIQUE (supplier_id, connection_name)",
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_networks_mccmnc",
		"CHECK (price >= 0)",
		"DROP TABLE IF EXISTS offers",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()

	path, err := migrate.CreateSQLMigration(dir, "Add Offer Audit!!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_offer_audit.sql") {
		t.Fatalf("unexpected filename %s", path)
	}

	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("generated migration did not validate: %v", err)
	}
}
