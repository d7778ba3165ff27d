package datastore

import (
	"github.com/sayah-app/sayah-go/internal/errors"
)

// storageError wraps a backend failure so callers can match errors.ErrStorage.
func storageError(err error, operation, key string) error {
	return errors.New(err).
		Component("datastore").
		Category(errors.CategoryStorage).
		Context("operation", operation).
		Context("key", key).
		Build()
}

// notFoundError wraps ErrKeyNotFound with the key for context.
func notFoundError(key string) error {
	return errors.New(ErrKeyNotFound).
		Component("datastore").
		Category(errors.CategoryNotFound).
		Context("key", key).
		Build()
}

// validateKey rejects empty keys.
func validateKey(key string) error {
	if key == "" {
		return errors.Newf("empty key").
			Component("datastore").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}
