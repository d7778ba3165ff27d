// Package notify pushes a short notice for each new result to the user's own
// notification services (ntfy, Telegram, email, ...) through shoutrrr.
package notify

import (
	"context"
	"io"
	"log"

	shoutrrr "github.com/nicholas-fedor/shoutrrr"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"

	"github.com/sayah-app/sayah-go/internal/conf"
	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/logger"
	"github.com/sayah-app/sayah-go/internal/privacy"
	"github.com/sayah-app/sayah-go/internal/secrets"
)

// Sender delivers one message to every configured service.
type Sender interface {
	Send(message string, params *stypes.Params) []error
}

// PreferenceReader reports the user's notifications preference.
type PreferenceReader interface {
	Notifications(ctx context.Context) bool
}

// Notifier sends notices while the notifications preference is on.
// A Notifier without URLs sends nothing.
type Notifier struct {
	sender Sender
	prefs  PreferenceReader
	log    logger.Logger
}

// New builds a Notifier from settings. URLs may reference ${ENV_VAR}.
func New(settings *conf.NotifySettings, prefs PreferenceReader) (*Notifier, error) {
	n := &Notifier{prefs: prefs, log: logger.Global().Module("notify")}
	if len(settings.URLs) == 0 {
		return n, nil
	}

	urls := make([]string, 0, len(settings.URLs))
	for _, raw := range settings.URLs {
		u, err := secrets.Resolve("", raw)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}

	router, err := shoutrrr.CreateSender(urls...)
	if err != nil {
		return nil, errors.New(privacy.WrapError(err)).
			Component("notify").
			Category(errors.CategoryConfiguration).
			Context("url_count", len(urls)).
			Build()
	}
	if settings.Timeout > 0 {
		router.Timeout = settings.Timeout
	}
	router.SetLogger(log.New(io.Discard, "", 0))

	n.sender = router
	n.log.Debug("notifier configured", logger.Int("services", len(urls)))
	return n, nil
}

// NewWithSender creates a Notifier around an existing sender.
func NewWithSender(sender Sender, prefs PreferenceReader) *Notifier {
	return &Notifier{sender: sender, prefs: prefs, log: logger.Global().Module("notify")}
}

// Enabled reports whether a notice would be sent now.
func (n *Notifier) Enabled(ctx context.Context) bool {
	if n == nil || n.sender == nil {
		return false
	}
	return n.prefs == nil || n.prefs.Notifications(ctx)
}

// Send delivers title and message. It is a no-op while disabled. Only the
// first delivery failure is returned, scrubbed of URLs and tokens.
func (n *Notifier) Send(ctx context.Context, title, message string) error {
	if !n.Enabled(ctx) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := stypes.Params{}
	if title != "" {
		params.SetTitle(title)
	}

	var failed int
	var first error
	for _, err := range n.sender.Send(message, &params) {
		if err == nil {
			continue
		}
		failed++
		if first == nil {
			first = err
		}
	}
	if first == nil {
		n.log.Debug("notification sent", logger.String("title", title))
		return nil
	}

	return errors.New(privacy.WrapError(first)).
		Component("notify").
		Category(errors.CategoryNetwork).
		Context("failed_services", failed).
		Build()
}
