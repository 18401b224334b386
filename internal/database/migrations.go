package database

import (
	"context"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations contains all database migrations in order. Statements must be
// valid for both SQLite and PostgreSQL.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_schema_version_table",
		SQL: `
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`,
	},
	{
		Version: 2,
		Name:    "create_jobs_table",
		SQL: `
			CREATE TABLE IF NOT EXISTS jobs (
				id TEXT PRIMARY KEY,
				file_id TEXT NOT NULL,
				file_path TEXT NOT NULL,
				status TEXT NOT NULL,
				type TEXT NOT NULL,
				result TEXT,
				error TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			)
		`,
	},
	{
		Version: 3,
		Name:    "create_jobs_file_id_index",
		SQL:     `CREATE INDEX IF NOT EXISTS idx_jobs_file_id ON jobs(file_id)`,
	},
	{
		Version: 4,
		Name:    "create_jobs_status_index",
		SQL:     `CREATE INDEX IF NOT EXISTS idx_jobs_status_updated_at ON jobs(status, updated_at)`,
	},
}

// Migrate runs all pending migrations
func (db *DB) Migrate(ctx context.Context) error {
	// Ensure schema_version table exists
	if _, err := db.conn.ExecContext(ctx, migrations[0].SQL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var currentVersion int
	err := db.conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	db.logger.Info("checking schema version", "current_version", currentVersion, "latest_version", migrations[len(migrations)-1].Version)

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		db.logger.Info("applying migration", "version", migration.Version, "name", migration.Name)
		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to run migration %d (%s): %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.ExecContext(ctx, db.rebind("INSERT INTO schema_version (version) VALUES (?)"), migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	db.logger.Info("migrations complete")
	return nil
}

// Version returns the highest applied migration
func (db *DB) Version(ctx context.Context) (int, error) {
	var version int
	err := db.conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
