package telemetry

import (
	"context"

	"github.com/sayah-app/sayah-go/internal/datastore"
	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/privacy"
)

// KeySystemID is the store key holding the installation identifier.
const KeySystemID = "system_id"

// SystemID loads the installation identifier from store, creating it on first use.
// An invalid stored value is replaced.
func SystemID(ctx context.Context, store datastore.Store) (string, error) {
	if store == nil {
		return "", errors.Newf("no store for system ID").
			Component("telemetry").
			Category(errors.CategoryValidation).
			Build()
	}

	id, err := store.Get(ctx, KeySystemID)
	switch {
	case err == nil && privacy.IsValidSystemID(id):
		return id, nil
	case err != nil && !errors.Is(err, datastore.ErrKeyNotFound):
		return "", err
	}

	id, err = privacy.GenerateSystemID()
	if err != nil {
		return "", errors.New(err).
			Component("telemetry").
			Category(errors.CategorySystem).
			Build()
	}
	if err := store.Set(ctx, KeySystemID, id); err != nil {
		return "", err
	}
	return id, nil
}
