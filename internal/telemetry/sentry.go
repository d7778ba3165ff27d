// Package telemetry provides opt-in, privacy-filtered error reporting via Sentry.
package telemetry

import (
	"context"
	"runtime"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/shirou/gopsutil/v3/host"

	"github.com/sayah-app/sayah-go/internal/buildinfo"
	"github.com/sayah-app/sayah-go/internal/conf"
	"github.com/sayah-app/sayah-go/internal/datastore"
	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/logger"
	"github.com/sayah-app/sayah-go/internal/privacy"
	"github.com/sayah-app/sayah-go/internal/secrets"
)

// DefaultFlushTimeout bounds how long Close waits for queued events.
const DefaultFlushTimeout = 2 * time.Second

// Telemetry is the handle returned by Init. A disabled Telemetry is a no-op.
type Telemetry struct {
	enabled  bool
	systemID string
}

// Option configures Init.
type Option func(*sentry.ClientOptions)

// WithTransport replaces the Sentry transport, e.g. with a recording one in tests.
func WithTransport(t sentry.Transport) Option {
	return func(o *sentry.ClientOptions) { o.Transport = t }
}

// Init sets up error reporting. Reporting stays off unless settings enable it
// and a DSN resolves. The error package is wired to report through Sentry
// and to scrub messages with privacy.ScrubMessage either way.
func Init(ctx context.Context, settings *conf.TelemetrySettings, info buildinfo.BuildInfo, store datastore.Store, opts ...Option) (*Telemetry, error) {
	log := logger.Global().Module("telemetry")
	errors.SetPrivacyScrubber(privacy.ScrubMessage)

	if settings == nil || !settings.Enabled {
		errors.SetTelemetryReporter(errors.NewSentryReporter(false))
		log.Debug("telemetry disabled (opt-in required)")
		return &Telemetry{}, nil
	}

	dsn, err := secrets.Resolve(settings.DSNFile, settings.DSN)
	if err != nil {
		return nil, errors.New(err).
			Component("telemetry").
			Category(errors.CategoryConfiguration).
			Context("operation", "resolve_dsn").
			Build()
	}
	if dsn == "" {
		errors.SetTelemetryReporter(errors.NewSentryReporter(false))
		log.Warn("telemetry enabled but no DSN configured, reporting stays off")
		return &Telemetry{}, nil
	}

	systemID, err := SystemID(ctx, store)
	if err != nil {
		// A missing ID only weakens grouping; keep reporting.
		log.Warn("could not load system ID", logger.Error(err))
	}

	options := sentry.ClientOptions{
		Dsn:              dsn,
		SampleRate:       sampleRate(settings.SampleRate),
		Environment:      settings.Environment,
		Release:          info.Release(),
		AttachStacktrace: false,
		ServerName:       "",
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return applyPrivacyFilters(event)
		},
	}
	for _, opt := range opts {
		opt(&options)
	}

	if err := sentry.Init(options); err != nil {
		return nil, errors.New(err).
			Component("telemetry").
			Category(errors.CategoryConfiguration).
			Context("operation", "sentry_init").
			Build()
	}

	configureScope(systemID, info, hostContext(ctx))
	errors.SetTelemetryReporter(errors.NewSentryReporter(true))

	log.Info("telemetry initialized",
		logger.String("system_id", systemID),
		logger.String("release", info.Release()),
		logger.String("environment", settings.Environment))

	return &Telemetry{enabled: true, systemID: systemID}, nil
}

// Enabled reports whether events are being sent.
func (t *Telemetry) Enabled() bool {
	return t != nil && t.enabled
}

// SystemID returns the installation identifier attached to events.
func (t *Telemetry) SystemID() string {
	if t == nil {
		return ""
	}
	return t.systemID
}

// CapturePanic reports a recovered panic value.
func (t *Telemetry) CapturePanic(recovered any) {
	if !t.Enabled() || recovered == nil {
		return
	}
	sentry.CurrentHub().Recover(recovered)
}

// Close flushes queued events and detaches the error package reporter.
func (t *Telemetry) Close(timeout time.Duration) {
	if !t.Enabled() {
		return
	}
	if !sentry.Flush(timeout) {
		logger.Global().Module("telemetry").Warn("telemetry flush timed out", logger.Duration("timeout", timeout))
	}
	errors.SetTelemetryReporter(errors.NewSentryReporter(false))
}

func sampleRate(rate float64) float64 {
	if rate <= 0 || rate > 1 {
		return 1.0
	}
	return rate
}

// configureScope tags every event with platform details
func configureScope(systemID string, info buildinfo.BuildInfo, host map[string]any) {
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		if systemID != "" {
			scope.SetTag("system_id", systemID)
		}
		scope.SetTag("os", runtime.GOOS)
		scope.SetTag("arch", runtime.GOARCH)
		scope.SetContext("application", map[string]any{
			"name":       "sayah",
			"version":    info.Version(),
			"build_date": info.BuildDate(),
		})
		if len(host) > 0 {
			scope.SetContext("host", host)
		}
	})
}

// hostContext describes the platform without identifying the machine:
// hostname and host ID are left out.
func hostContext(ctx context.Context) map[string]any {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		logger.Global().Module("telemetry").Debug("host info unavailable", logger.Error(err))
		return nil
	}
	return map[string]any{
		"platform":         info.Platform,
		"platform_family":  info.PlatformFamily,
		"platform_version": info.PlatformVersion,
		"kernel_arch":      info.KernelArch,
		"virtualization":   info.VirtualizationSystem,
	}
}
