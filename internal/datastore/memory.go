package datastore

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps keys in process memory. Selected by storage.type "memory"
// and used as the fallback when the configured store cannot be opened.
type MemoryStore struct {
	cache *cache.Cache
	opts  options
}

// NewMemoryStore creates an empty MemoryStore. Entries never expire.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		cache: cache.New(cache.NoExpiration, 0),
		opts:  applyOptions(opts),
	}
}

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context, key string) (value string, err error) {
	start := time.Now()
	defer func() { m.opts.observe("get", start, err) }()

	if err := validateKey(key); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", storageError(err, "get", key)
	}

	v, found := m.cache.Get(key)
	if !found {
		return "", notFoundError(key)
	}
	s, ok := v.(string)
	if !ok {
		return "", notFoundError(key)
	}
	return s, nil
}

// Set implements Store.
func (m *MemoryStore) Set(ctx context.Context, key, value string) (err error) {
	start := time.Now()
	defer func() { m.opts.observe("set", start, err) }()

	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return storageError(err, "set", key)
	}

	m.cache.Set(key, value, cache.NoExpiration)
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(ctx context.Context, key string) (err error) {
	start := time.Now()
	defer func() { m.opts.observe("clear", start, err) }()

	if err := validateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return storageError(err, "clear", key)
	}

	m.cache.Delete(key)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.cache.Flush()
	return nil
}
