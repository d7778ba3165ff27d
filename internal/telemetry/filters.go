package telemetry

import (
	"github.com/getsentry/sentry-go"

	"github.com/sayah-app/sayah-go/internal/privacy"
)

var (
	sensitiveContexts = []string{"device", "os", "runtime"}
	sensitiveTags     = []string{"server_name", "hostname"}
	allowedExtra      = map[string]bool{"error_type": true, "component": true}
)

// applyPrivacyFilters strips identifying data from an event before it leaves the machine
func applyPrivacyFilters(event *sentry.Event) *sentry.Event {
	if event == nil {
		return nil
	}

	event.User = sentry.User{}
	event.ServerName = ""
	event.Request = nil

	for _, key := range sensitiveContexts {
		delete(event.Contexts, key)
	}
	for _, key := range sensitiveTags {
		delete(event.Tags, key)
	}
	for k := range event.Extra {
		if !allowedExtra[k] {
			delete(event.Extra, k)
		}
	}

	event.Message = privacy.ScrubMessage(event.Message)
	for i := range event.Exception {
		event.Exception[i].Value = privacy.ScrubMessage(event.Exception[i].Value)
	}
	for _, crumb := range event.Breadcrumbs {
		if crumb == nil {
			continue
		}
		crumb.Message = privacy.ScrubMessage(crumb.Message)
		crumb.Data = nil
	}

	return event
}
