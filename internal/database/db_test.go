package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name        string
		driver      string
		dsn         string
		expectError bool
	}{
		{
			name:   "sqlite in memory",
			driver: DriverSQLite,
			dsn:    ":memory:",
		},
		{
			name:   "sqlite file",
			driver: DriverSQLite,
			dsn:    filepath.Join(t.TempDir(), "jobs.db") + "?_txlock=immediate",
		},
		{
			name:        "unknown driver",
			driver:      "mysql",
			dsn:         "whatever",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := Open(tt.driver, tt.dsn)
			defer func() {
				if db != nil {
					db.Close()
				}
			}()

			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if db.Conn() == nil {
				t.Error("Expected database connection but got nil")
			}
			if db.Driver() != tt.driver {
				t.Errorf("Driver() = %q, want %q", db.Driver(), tt.driver)
			}
		})
	}
}

func TestSQLitePragmas(t *testing.T) {
	db := setupTestDB(t)

	var foreignKeys int
	if err := db.Conn().QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
		t.Fatalf("Failed to read pragma: %v", err)
	}
	if foreignKeys != 1 {
		t.Errorf("foreign_keys = %d, want 1", foreignKeys)
	}

	var busyTimeout int
	if err := db.Conn().QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout); err != nil {
		t.Fatalf("Failed to read pragma: %v", err)
	}
	if busyTimeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", busyTimeout)
	}
}

func TestMigrate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	version, err := db.Version(ctx)
	if err != nil {
		t.Fatalf("Version() error: %v", err)
	}
	want := migrations[len(migrations)-1].Version
	if version != want {
		t.Errorf("Version() = %d, want %d", version, want)
	}

	// Running again is a no-op
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error: %v", err)
	}

	var applied int
	if err := db.Conn().QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&applied); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if applied != len(migrations) {
		t.Errorf("applied %d migrations, want %d", applied, len(migrations))
	}
}

func TestMigrationVersionsAreOrdered(t *testing.T) {
	for i, m := range migrations {
		if m.Version != i+1 {
			t.Errorf("migration %q has version %d, want %d", m.Name, m.Version, i+1)
		}
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		driver string
		query  string
		want   string
	}{
		{DriverSQLite, "SELECT * FROM jobs WHERE id = ? AND status = ?", "SELECT * FROM jobs WHERE id = ? AND status = ?"},
		{DriverPostgres, "SELECT * FROM jobs WHERE id = ? AND status = ?", "SELECT * FROM jobs WHERE id = $1 AND status = $2"},
		{DriverPostgres, "SELECT 1", "SELECT 1"},
	}

	for _, tt := range tests {
		db := &DB{driver: tt.driver}
		if got := db.rebind(tt.query); got != tt.want {
			t.Errorf("rebind(%q) on %s = %q, want %q", tt.query, tt.driver, got, tt.want)
		}
	}
}

func TestOpenPostgres(t *testing.T) {
	dsn := setupPostgresDB(t, "open")

	db, err := Open(DriverPostgres, dsn)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
}
