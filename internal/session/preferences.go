package session

import (
	"context"
	"encoding/json"

	"github.com/sayah-app/sayah-go/internal/datastore"
	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/logger"
)

// Preferences stores user settings next to the session keys.
type Preferences struct {
	store datastore.Store
	log   logger.Logger
}

// NewPreferences creates Preferences backed by store.
func NewPreferences(store datastore.Store) *Preferences {
	return &Preferences{store: store, log: logger.Global().Module("session")}
}

// Notifications reports whether notifications are enabled. Unset, unreadable
// or unparsable values default to true.
func (p *Preferences) Notifications(ctx context.Context) bool {
	raw, err := p.store.Get(ctx, KeyNotifications)
	if err != nil {
		if !errors.Is(err, datastore.ErrKeyNotFound) {
			p.log.Warn("failed to read notification preference", logger.Error(err))
		}
		return true
	}

	var enabled bool
	if err := json.Unmarshal([]byte(raw), &enabled); err != nil {
		p.log.Warn("ignoring malformed notification preference", logger.String("value", raw))
		return true
	}
	return enabled
}

// SetNotifications persists the notification preference as a JSON boolean.
func (p *Preferences) SetNotifications(ctx context.Context, enabled bool) error {
	raw, _ := json.Marshal(enabled) //nolint:errchkjson // bool always marshals
	if err := p.store.Set(ctx, KeyNotifications, string(raw)); err != nil {
		return errors.New(err).
			Component("session").
			Category(errors.CategoryStorage).
			Context("operation", "set_notifications").
			Build()
	}
	return nil
}
