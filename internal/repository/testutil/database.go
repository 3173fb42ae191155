// Package testutil gives integration tests a throwaway postgres schema with
// the history tables already migrated.
package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/opencart-qa/storefront-suite/internal/config"
	"github.com/opencart-qa/storefront-suite/internal/database"
)

// localDefaults point at a stock local postgres when POSTGRES_* is unset
var localDefaults = map[string]string{
	"POSTGRES_USER":     "postgres",
	"POSTGRES_PASSWORD": "postgres",
	"POSTGRES_DB":       "postgres",
	"POSTGRES_HOSTNAME": "localhost",
}

// TestDatabase is one isolated schema. DB has its search_path set to it.
type TestDatabase struct {
	DB         *sql.DB
	SchemaName string
	admin      *sql.DB
}

// SetupTestDatabase creates a fresh schema and runs the migrations in it
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()

	pgConfig, err := config.LoadPostgresConfig(func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return localDefaults[key]
	})
	if err != nil {
		t.Fatalf("Failed to load postgres config: %v", err)
	}

	td := &TestDatabase{
		SchemaName: "history_test_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
	}

	if td.admin, err = open(pgConfig.ConnectionString()); err != nil {
		t.Fatalf("Failed to connect to postgres: %v", err)
	}
	if _, err := td.admin.Exec("CREATE SCHEMA " + td.SchemaName); err != nil {
		td.Teardown(t)
		t.Fatalf("Failed to create schema %s: %v", td.SchemaName, err)
	}

	dsn := fmt.Sprintf("%s search_path=%s", pgConfig.ConnectionString(), td.SchemaName)
	if td.DB, err = open(dsn); err != nil {
		td.Teardown(t)
		t.Fatalf("Failed to connect to schema %s: %v", td.SchemaName, err)
	}
	td.DB.SetMaxOpenConns(5)
	td.DB.SetMaxIdleConns(2)

	if err := database.Migrate(td.DB); err != nil {
		td.Teardown(t)
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return td
}

func open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Teardown drops the schema and closes both connections
func (td *TestDatabase) Teardown(t *testing.T) {
	t.Helper()

	if td.DB != nil {
		td.DB.Close()
	}
	if td.admin == nil {
		return
	}
	if _, err := td.admin.Exec("DROP SCHEMA IF EXISTS " + td.SchemaName + " CASCADE"); err != nil {
		t.Logf("Warning: failed to drop schema %s: %v", td.SchemaName, err)
	}
	td.admin.Close()
}
