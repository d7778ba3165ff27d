package datastore

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormStore implements Store on a single key_values table. The SQL backends
// embed it and differ only in how the connection is opened.
type gormStore struct {
	db   *gorm.DB
	opts options
	log  logger.Logger
}

// openGorm opens dialector and migrates the schema. backend names the
// operation in errors, e.g. "sqlite".
func openGorm(ctx context.Context, dialector gorm.Dialector, backend string, log logger.Logger, opts []Option) (*gormStore, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.NewGormLoggerAdapter(log, slowQueryThreshold),
	})
	if err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryStorage).
			Context("operation", "open_"+backend).
			Build()
	}

	if err := db.WithContext(ctx).AutoMigrate(&KeyValue{}); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryStorage).
			Context("operation", "auto_migrate").
			Context("backend", backend).
			Build()
	}

	return &gormStore{db: db, opts: applyOptions(opts), log: log}, nil
}

// Get implements Store.
func (s *gormStore) Get(ctx context.Context, key string) (value string, err error) {
	start := time.Now()
	defer func() { s.opts.observe("get", start, err) }()

	if err := validateKey(key); err != nil {
		return "", err
	}

	var kv KeyValue
	result := s.db.WithContext(ctx).Where("key_name = ?", key).Limit(1).Find(&kv)
	if result.Error != nil {
		return "", storageError(result.Error, "get", key)
	}
	if result.RowsAffected == 0 {
		return "", notFoundError(key)
	}
	return kv.Value, nil
}

// Set implements Store.
func (s *gormStore) Set(ctx context.Context, key, value string) (err error) {
	start := time.Now()
	defer func() { s.opts.observe("set", start, err) }()

	if err := validateKey(key); err != nil {
		return err
	}

	kv := KeyValue{Key: key, Value: value, UpdatedAt: time.Now()}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&kv).Error; err != nil {
		return storageError(err, "set", key)
	}
	return nil
}

// Clear implements Store.
func (s *gormStore) Clear(ctx context.Context, key string) (err error) {
	start := time.Now()
	defer func() { s.opts.observe("clear", start, err) }()

	if err := validateKey(key); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Where("key_name = ?", key).Delete(&KeyValue{}).Error; err != nil {
		return storageError(err, "clear", key)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return storageError(err, "close", "")
	}
	if err := sqlDB.Close(); err != nil {
		return storageError(err, "close", "")
	}
	return nil
}
