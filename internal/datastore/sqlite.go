package datastore

import (
	"context"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"

	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/logger"
)

const (
	dbDirPermissions  = 0o700
	dbFilePermissions = 0o600
)

// SQLiteStore persists keys in a local SQLite file through GORM.
type SQLiteStore struct {
	*gormStore
	path string
}

// OpenSQLite opens (creating if needed) the database at path and migrates the schema.
// The special path ":memory:" opens a private in-memory database.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	log := logger.Global().Module("datastore")

	if path == "" {
		return nil, errors.Newf("sqlite path is empty").
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), dbDirPermissions); err != nil {
			return nil, errors.New(err).
				Component("datastore").
				Category(errors.CategoryStorage).
				FileContext(path, 0).
				Context("operation", "create_db_dir").
				Build()
		}
	}

	store, err := openGorm(ctx, sqlite.Open(path), "sqlite", log, opts)
	if err != nil {
		return nil, err
	}

	// One connection: SQLite serialises writers anyway and ":memory:" is per connection.
	if sqlDB, err := store.db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	if path != ":memory:" {
		// the table holds the session identifier
		if err := os.Chmod(path, dbFilePermissions); err != nil {
			log.Warn("failed to restrict database file permissions",
				logger.String("path", path),
				logger.Error(err))
		}
	}

	log.Debug("sqlite store opened", logger.String("path", path))

	return &SQLiteStore{gormStore: store, path: path}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}
