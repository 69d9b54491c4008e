package migrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/zakiByline/remui-kids-sub019/internal/db"
)

// Migrator applies the plugin's SQL migrations against the Moodle database
type Migrator struct {
	db     *pgxpool.Pool
	schema db.Schema
	logger zerolog.Logger
}

// Status reports whether one migration file has been applied
type Status struct {
	Version string
	File    string
	Applied bool
}

// NewMigrator creates a new migrator
func NewMigrator(pool *pgxpool.Pool, schema db.Schema, logger zerolog.Logger) *Migrator {
	return &Migrator{
		db:     pool,
		schema: schema,
		logger: logger,
	}
}

func (m *Migrator) trackingTable() string {
	return m.schema.T("remui_schema_migrations")
}

func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`, m.trackingTable())

	if _, err := m.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE version = $1);`, m.trackingTable())
	if err := m.db.QueryRow(ctx, query, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

func (m *Migrator) recordMigration(ctx context.Context, tx pgx.Tx, version string) error {
	query := fmt.Sprintf(`INSERT INTO %s (version) VALUES ($1)`, m.trackingTable())
	if _, err := tx.Exec(ctx, query, version); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return nil
}

// MigrateFromFile executes one migration file unless it was already applied
func (m *Migrator) MigrateFromFile(ctx context.Context, filePath string) error {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	filename := filepath.Base(filePath)
	version := versionOf(filename)

	applied, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return err
	}
	if applied {
		m.logger.Debug().Str("file", filename).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	err = db.WithTransaction(ctx, m.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, m.schema.Expand(string(content))); err != nil {
			return fmt.Errorf("error occurred during SQL migration %s: %w", filename, err)
		}
		return m.recordMigration(ctx, tx, version)
	})
	if err != nil {
		return err
	}

	m.logger.Info().Str("file", filename).Msg("Migration applied")
	return nil
}

// MigrateFromDirectory applies every pending SQL file in dirPath in version order
func (m *Migrator) MigrateFromDirectory(ctx context.Context, dirPath string) error {
	files, err := listMigrationFiles(dirPath)
	if err != nil {
		return err
	}

	for _, file := range files {
		if err := m.MigrateFromFile(ctx, filepath.Join(dirPath, file)); err != nil {
			return err
		}
	}
	return nil
}

// Status lists the migrations in dirPath and whether each has been applied
func (m *Migrator) Status(ctx context.Context, dirPath string) ([]Status, error) {
	files, err := listMigrationFiles(dirPath)
	if err != nil {
		return nil, err
	}
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return nil, err
	}

	out := make([]Status, 0, len(files))
	for _, file := range files {
		version := versionOf(file)
		applied, err := m.isMigrationApplied(ctx, version)
		if err != nil {
			return nil, err
		}
		out = append(out, Status{Version: version, File: file, Applied: applied})
	}
	return out, nil
}

func listMigrationFiles(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var sqlFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			sqlFiles = append(sqlFiles, e.Name())
		}
	}
	sort.Strings(sqlFiles)
	return sqlFiles, nil
}

// versionOf extracts the version from a file name ("001_init.sql" => "001")
func versionOf(filename string) string {
	return strings.Split(filename, "_")[0]
}
