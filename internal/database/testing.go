package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/bayes-bet/internal/config"
)

// TestConfigEnv names the config file used by integration tests
const TestConfigEnv = "BAYESBET_TEST_CONFIG"

// SetupTestDB connects to the integration database and applies the schema.
// The test is skipped when no test config is provided.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	path := os.Getenv(TestConfigEnv)
	if path == "" {
		t.Skipf("Integration test - set %s to a config file with a test database", TestConfigEnv)
	}

	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := Initialize(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	if _, err := db.Exec(ctx, "TRUNCATE prediction_runs"); err != nil {
		db.Close()
		t.Fatalf("failed to truncate prediction_runs: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}
