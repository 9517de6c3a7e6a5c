package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arjunpatil/vendortrack-backend/pkg/migrate"
)

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestPurchaseOrdersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_purchase_orders.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS purchase_orders",
		"FOREIGN KEY (vendor_code) REFERENCES vendors(vendor_code) ON DELETE CASCADE",
		"CHECK (quantity > 0)",
		"CHECK (quality_rating IS NULL OR (quality_rating >= 0 AND quality_rating <= 5))",
		"DROP TABLE IF EXISTS purchase_orders",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestVendorsMigrationDefinesMetricColumns(t *testing.T) {
	content := readMigration(t, "*_create_vendors.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS vendors",
		"on_time_delivery_rate",
		"quality_rating_avg",
		"average_response_time",
		"fulfillment_rate",
		"DROP TABLE IF EXISTS vendors",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
