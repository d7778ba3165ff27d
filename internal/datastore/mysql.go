package datastore

import (
	"context"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"

	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/logger"
)

const (
	mysqlMaxOpenConns    = 4
	mysqlMaxIdleConns    = 2
	mysqlConnMaxLifetime = 5 * time.Minute
)

// MySQLStore persists keys in a shared MySQL database, for kiosks or shared
// devices that keep their state on a server.
type MySQLStore struct {
	*gormStore
	database string
}

// OpenMySQL connects with dsn (go-sql-driver format) and migrates the schema.
func OpenMySQL(ctx context.Context, dsn string, opts ...Option) (*MySQLStore, error) {
	log := logger.Global().Module("datastore")

	cfg, err := parseMySQLDSN(dsn)
	if err != nil {
		return nil, err
	}

	store, err := openGorm(ctx, mysql.New(mysql.Config{DSNConfig: cfg}), "mysql", log, opts)
	if err != nil {
		return nil, err
	}

	if sqlDB, err := store.db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(mysqlMaxOpenConns)
		sqlDB.SetMaxIdleConns(mysqlMaxIdleConns)
		sqlDB.SetConnMaxLifetime(mysqlConnMaxLifetime)
	}

	log.Debug("mysql store opened",
		logger.String("address", cfg.Addr),
		logger.String("database", cfg.DBName))

	return &MySQLStore{gormStore: store, database: cfg.DBName}, nil
}

// parseMySQLDSN validates dsn and forces the options the store relies on.
func parseMySQLDSN(dsn string) (*mysqldriver.Config, error) {
	if dsn == "" {
		return nil, errors.Newf("mysql dsn is empty").
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}
	cfg, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		// the DSN carries a password; keep it out of the message
		return nil, errors.Newf("invalid mysql dsn").
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if cfg.DBName == "" {
		return nil, errors.Newf("mysql dsn has no database name").
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Build()
	}
	cfg.ParseTime = true
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["charset"]; !ok {
		cfg.Params["charset"] = "utf8mb4"
	}
	return cfg, nil
}

// Database returns the schema name the store writes to.
func (s *MySQLStore) Database() string {
	return s.database
}
