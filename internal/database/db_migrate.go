package database

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var EmbeddedMigrationsFS embed.FS

// MigrationFile represents a migration file with its metadata
type MigrationFile struct {
	FileName    string
	Version     int
	Description string
}

// Migrate applies all pending embedded migrations in version order
func (db *Database) Migrate() error {
	if _, err := db.mainDB.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	migrations, err := getEmbeddedMigrationFiles()
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		applied, err := db.isMigrationApplied(migration.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(EmbeddedMigrationsFS, "migrations/"+migration.FileName)
		if err != nil {
			return fmt.Errorf("failed to read embedded migration file %s: %w", migration.FileName, err)
		}

		err = retryableTransactionExec(db.mainDB, func(tx *sql.Tx) error {
			if _, err := tx.Exec(string(content)); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", migration.FileName, err)
			}
			if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", migration.Version); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", migration.FileName, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		log.Printf("Applied migration %04d: %s", migration.Version, migration.Description)
	}

	return nil
}

// isMigrationApplied checks the schema_migrations bookkeeping table
func (db *Database) isMigrationApplied(version int) (bool, error) {
	var count int
	err := retryableQueryRowScan(db.mainDB,
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?",
		[]interface{}{version}, &count)
	if err != nil {
		return false, fmt.Errorf("failed to check migration version %d: %w", version, err)
	}
	return count > 0, nil
}

// getEmbeddedMigrationFiles reads and parses all migration files from the embedded filesystem
func getEmbeddedMigrationFiles() ([]*MigrationFile, error) {
	files, err := fs.ReadDir(EmbeddedMigrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations directory: %w", err)
	}

	var migrations []*MigrationFile
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".sql") {
			continue
		}

		migration, err := parseMigrationFileName(f.Name())
		if err != nil {
			return nil, err
		}
		migrations = append(migrations, migration)
	}

	// Sort by version number
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// parseMigrationFileName parses a migration file name to extract metadata.
// Expected format: NNNN_description.sql
func parseMigrationFileName(fileName string) (*MigrationFile, error) {
	name := strings.TrimSuffix(fileName, ".sql")
	parts := strings.SplitN(name, "_", 2)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid migration file name format: %s (expected format: 0001_description.sql)", fileName)
	}

	version, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid version number in migration file: %s", fileName)
	}

	return &MigrationFile{
		FileName:    fileName,
		Version:     version,
		Description: parts[1],
	}, nil
}
