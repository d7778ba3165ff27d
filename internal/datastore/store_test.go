package datastore

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sayah-app/sayah-go/internal/conf"
	"github.com/sayah-app/sayah-go/internal/errors"
)

// storeFactories runs a test against every Store implementation.
func storeFactories(t *testing.T) map[string]func(t *testing.T, opts ...Option) Store {
	t.Helper()
	return map[string]func(t *testing.T, opts ...Option) Store{
		"memory": func(t *testing.T, opts ...Option) Store {
			t.Helper()
			s := NewMemoryStore(opts...)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
		"sqlite": func(t *testing.T, opts ...Option) Store {
			t.Helper()
			s, err := OpenSQLite(t.Context(), filepath.Join(t.TempDir(), "sayah.db"), opts...)
			require.NoError(t, err)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func TestStore_GetSetClear(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			s := newStore(t)

			_, err := s.Get(ctx, "authToken")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrKeyNotFound)

			require.NoError(t, s.Set(ctx, "authToken", "abc"))
			got, err := s.Get(ctx, "authToken")
			require.NoError(t, err)
			assert.Equal(t, "abc", got)

			// last writer wins
			require.NoError(t, s.Set(ctx, "authToken", "def"))
			got, err = s.Get(ctx, "authToken")
			require.NoError(t, err)
			assert.Equal(t, "def", got)

			require.NoError(t, s.Clear(ctx, "authToken"))
			_, err = s.Get(ctx, "authToken")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			// clearing an absent key is fine
			require.NoError(t, s.Clear(ctx, "authToken"))
		})
	}
}

func TestStore_KeysAreIndependent(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			s := newStore(t)

			require.NoError(t, s.Set(ctx, "hasSeenOnboarding", "true"))
			require.NoError(t, s.Set(ctx, "authToken", "tok"))
			require.NoError(t, s.Clear(ctx, "authToken"))

			got, err := s.Get(ctx, "hasSeenOnboarding")
			require.NoError(t, err)
			assert.Equal(t, "true", got)
		})
	}
}

func TestStore_EmptyKeyRejected(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			err := s.Set(t.Context(), "", "x")
			require.Error(t, err)
			assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
		})
	}
}

func TestStore_ConcurrentWriters(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			s := newStore(t)

			var wg sync.WaitGroup
			for i := range 10 {
				wg.Go(func() {
					assert.NoError(t, s.Set(ctx, "notifications", []string{"true", "false"}[i%2]))
				})
			}
			wg.Wait()

			got, err := s.Get(ctx, "notifications")
			require.NoError(t, err)
			assert.Contains(t, []string{"true", "false"}, got)
		})
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sayah.db")

	s, err := OpenSQLite(t.Context(), path)
	require.NoError(t, err)
	require.NoError(t, s.Set(t.Context(), "hasSeenOnboarding", "true"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(t.Context(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	got, err := s.Get(t.Context(), "hasSeenOnboarding")
	require.NoError(t, err)
	assert.Equal(t, "true", got)
	assert.Equal(t, path, s.Path())
}

func TestSQLiteStore_ClosedStoreReturnsStorageError(t *testing.T) {
	s, err := OpenSQLite(t.Context(), ":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Get(t.Context(), "authToken")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrStorage)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := s.Set(ctx, "authToken", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrStorage)
}

type recordedOp struct {
	operation, status string
}

type fakeRecorder struct {
	mu  sync.Mutex
	ops []recordedOp
}

func (f *fakeRecorder) RecordOperation(operation, status string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, recordedOp{operation, status})
}

func TestStore_RecordsOperations(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			rec := &fakeRecorder{}
			s := newStore(t, WithRecorder(rec))

			_, _ = s.Get(t.Context(), "authToken")
			_ = s.Set(t.Context(), "authToken", "x")
			_ = s.Clear(t.Context(), "authToken")

			assert.Equal(t, []recordedOp{
				{"get", "not_found"},
				{"set", "success"},
				{"clear", "success"},
			}, rec.ops)
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		s, err := New(t.Context(), &conf.StorageSettings{Type: conf.StorageMemory})
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, s)
	})

	t.Run("sqlite", func(t *testing.T) {
		s, err := New(t.Context(), &conf.StorageSettings{Type: conf.StorageSQLite, Path: filepath.Join(t.TempDir(), "db.sqlite")})
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		assert.IsType(t, &SQLiteStore{}, s)
	})

	t.Run("mysql without dsn", func(t *testing.T) {
		_, err := New(t.Context(), &conf.StorageSettings{Type: conf.StorageMySQL})
		require.Error(t, err)
		assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
	})

	t.Run("mysql dsn from missing env", func(t *testing.T) {
		_, err := New(t.Context(), &conf.StorageSettings{Type: conf.StorageMySQL, DSN: "${SAYAH_TEST_UNSET_DSN}"})
		require.Error(t, err)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := New(t.Context(), &conf.StorageSettings{Type: "redis"})
		require.Error(t, err)
		assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
	})
}

func TestParseMySQLDSN(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		wantErr string
	}{
		{name: "empty", dsn: "", wantErr: "empty"},
		{name: "malformed", dsn: "sayah:secret@tcp(db:3306", wantErr: "invalid mysql dsn"},
		{name: "no database", dsn: "sayah:secret@tcp(db:3306)/", wantErr: "no database"},
		{name: "valid", dsn: "sayah:secret@tcp(db:3306)/sayah"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseMySQLDSN(tt.dsn)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.NotContains(t, err.Error(), "secret", "password must not leak")
				assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "sayah", cfg.DBName)
			assert.True(t, cfg.ParseTime)
			assert.Equal(t, "utf8mb4", cfg.Params["charset"])
		})
	}
}
