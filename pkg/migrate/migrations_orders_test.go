package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOrderItemsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_order_items.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no order_items migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS order_items",
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
		"FOREIGN KEY (product_card_id) REFERENCES product_cards(id) ON DELETE SET NULL",
		"idx_order_items_order_chrt",
		"DROP TABLE IF EXISTS order_items",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestProductCardsMigrationIndexesAreNotUnique(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_product_cards.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no product_cards migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	// Duplicate rows are collapsed by the sync pipeline, not the schema.
	if strings.Contains(content, "CREATE UNIQUE INDEX") {
		t.Errorf("product_cards indexes must allow duplicate (store_id, wb_character_id) rows")
	}
	if !strings.Contains(content, "idx_product_cards_store_chrt") {
		t.Errorf("missing lookup index idx_product_cards_store_chrt")
	}
}
