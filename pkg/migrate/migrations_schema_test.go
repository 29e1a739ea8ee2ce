package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

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

func TestProfileMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_users_and_profiles.sql")

	checks := []string{
		"CREATE TABLE profiles",
		"account_id        UUID UNIQUE REFERENCES users(id)",
		"slug              TEXT NOT NULL UNIQUE",
		"'breakup', 'divorce', 'canceled_wedding', 'fresh_start'",
		"DROP TABLE profiles",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestRegistryMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_registry_items_and_funds.sql")

	checks := []string{
		"REFERENCES profiles(id) ON DELETE CASCADE",
		"CHECK (price_cents >= 0 AND price_cents <= 99999999)",
		"CHECK (goal_cents >= 100 AND goal_cents <= 99999999)",
		"'available', 'claimed', 'partially_funded', 'fulfilled'",
		"DROP TABLE registry_items",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestProxyMigrationGuardsCreator(t *testing.T) {
	content := readMigration(t, "*_add_proxy_profiles.sql")

	checks := []string{
		"ADD COLUMN is_proxy",
		"ADD COLUMN claimed_by_user_id UUID REFERENCES users(id)",
		"CHECK (NOT is_proxy OR created_by_user_id IS NOT NULL)",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
