// Package datastore persists the client's small set of string-valued keys
// (onboarding flag, session identifier, preferences).
package datastore

import (
	"context"
	"time"

	"github.com/sayah-app/sayah-go/internal/conf"
	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/secrets"
)

// ErrKeyNotFound is returned by Get when a key has never been set or was cleared.
var ErrKeyNotFound = errors.NewStd("key not found")

// Store is a string key-value store. Writes are last-writer-wins per key.
type Store interface {
	// Get returns the stored value or an error wrapping ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Clear removes key. Clearing an absent key is not an error.
	Clear(ctx context.Context, key string) error
	// Close releases the underlying resources.
	Close() error
}

// OperationRecorder observes store operations, e.g. for metrics.
type OperationRecorder interface {
	RecordOperation(operation, status string, duration time.Duration)
}

// Option configures a store.
type Option func(*options)

type options struct {
	recorder OperationRecorder
}

// WithRecorder attaches an OperationRecorder.
func WithRecorder(r OperationRecorder) Option {
	return func(o *options) { o.recorder = r }
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New opens the store selected by settings.
func New(ctx context.Context, settings *conf.StorageSettings, opts ...Option) (Store, error) {
	switch settings.Type {
	case conf.StorageMemory:
		return NewMemoryStore(opts...), nil
	case conf.StorageSQLite, "":
		return OpenSQLite(ctx, settings.Path, opts...)
	case conf.StorageMySQL:
		dsn, err := secrets.Resolve(settings.DSNFile, settings.DSN)
		if err != nil {
			return nil, err
		}
		return OpenMySQL(ctx, dsn, opts...)
	default:
		return nil, errors.Newf("unsupported storage type: %s", settings.Type).
			Component("datastore").
			Category(errors.CategoryConfiguration).
			Context("storage_type", settings.Type).
			Build()
	}
}

// observe reports an operation outcome to the recorder, if any.
func (o options) observe(operation string, start time.Time, err error) {
	if o.recorder == nil {
		return
	}
	status := "success"
	switch {
	case errors.Is(err, ErrKeyNotFound):
		status = "not_found"
	case err != nil:
		status = "error"
	}
	o.recorder.RecordOperation(operation, status, time.Since(start))
}
