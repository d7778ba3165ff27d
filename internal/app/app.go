// Package app assembles the client components from settings and owns their lifetime.
package app

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/sayah-app/sayah-go/internal/alert"
	"github.com/sayah-app/sayah-go/internal/api"
	"github.com/sayah-app/sayah-go/internal/buildinfo"
	"github.com/sayah-app/sayah-go/internal/capture"
	"github.com/sayah-app/sayah-go/internal/conf"
	"github.com/sayah-app/sayah-go/internal/datastore"
	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/httpclient"
	"github.com/sayah-app/sayah-go/internal/imaging"
	"github.com/sayah-app/sayah-go/internal/logger"
	"github.com/sayah-app/sayah-go/internal/notify"
	"github.com/sayah-app/sayah-go/internal/observability"
	"github.com/sayah-app/sayah-go/internal/session"
	"github.com/sayah-app/sayah-go/internal/telemetry"
)

// App holds the wired components for one CLI invocation. The zero value is
// filled by Init; commands receive the pointer before Init runs.
type App struct {
	Settings    *conf.Settings
	Build       buildinfo.BuildInfo
	Store       datastore.Store
	Gate        *session.Gate
	Preferences *session.Preferences
	API         *api.Client
	HTTP        *httpclient.Client
	Normalizer  *imaging.Normalizer
	Metrics     *observability.Metrics // nil unless metrics are enabled
	Telemetry   *telemetry.Telemetry
	Notifier    *notify.Notifier
	Dialog      *alert.TerminalDialog
	Out         io.Writer
	Location    *time.Location
	// StoreFallback is set when the configured store could not be opened and
	// state lives in memory for this run only.
	StoreFallback bool

	fs          afero.Fs
	ownsHTTP    bool
	initialized bool
}

// Option overrides a component, mainly for tests.
type Option func(*App)

// WithStore uses store instead of opening one from settings.
func WithStore(store datastore.Store) Option {
	return func(a *App) { a.Store = store }
}

// WithHTTPClient uses hc for every request to the triage service.
func WithHTTPClient(hc *httpclient.Client) Option {
	return func(a *App) { a.HTTP = hc }
}

// WithDialog replaces the terminal dialog.
func WithDialog(d *alert.TerminalDialog) Option {
	return func(a *App) { a.Dialog = d }
}

// WithOutput sends command output to w.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.Out = w }
}

// WithFs sets the file system used for staged images.
func WithFs(fs afero.Fs) Option {
	return func(a *App) { a.fs = fs }
}

// WithNotifier replaces the notifier built from settings.
func WithNotifier(n *notify.Notifier) Option {
	return func(a *App) { a.Notifier = n }
}

// WithLocation sets the zone used for history dates.
func WithLocation(loc *time.Location) Option {
	return func(a *App) { a.Location = loc }
}

// Init wires every component from settings. Options given to Init take
// precedence over ones applied earlier.
func (a *App) Init(ctx context.Context, settings *conf.Settings, build buildinfo.BuildInfo, opts ...Option) error {
	if a.initialized {
		return nil
	}
	for _, opt := range opts {
		opt(a)
	}
	a.Settings = settings
	a.Build = build
	if a.Out == nil {
		a.Out = os.Stdout
	}
	if a.Dialog == nil {
		a.Dialog = alert.NewTerminalDialog(false)
	}
	if a.fs == nil {
		a.fs = afero.NewOsFs()
	}
	if a.Location == nil {
		a.Location = time.Local
	}

	log := logger.Global().Module("cli")

	if settings.Metrics.Enabled {
		m, err := observability.NewMetrics()
		if err != nil {
			return err
		}
		a.Metrics = m
		errors.AddErrorHook(m.ErrorHook())
	}

	if a.Store == nil {
		var storeOpts []datastore.Option
		if a.Metrics != nil {
			storeOpts = append(storeOpts, datastore.WithRecorder(a.Metrics.Client))
		}
		store, err := datastore.New(ctx, &settings.Storage, storeOpts...)
		switch {
		case err == nil:
			a.Store = store
		case errors.IsCategory(err, errors.CategoryConfiguration):
			return err
		default:
			// An empty store routes to onboarding.
			log.Warn("store unavailable, state will not persist",
				logger.String("type", settings.Storage.Type),
				logger.Error(err))
			a.Store = datastore.NewMemoryStore(storeOpts...)
			a.StoreFallback = true
		}
	}

	a.Gate = session.NewGate(a.Store, session.WithTransitionObserver(func(from, to session.Route) {
		log.Debug("route changed", logger.String("from", from.String()), logger.String("to", to.String()))
	}))
	a.Preferences = session.NewPreferences(a.Store)

	if a.Notifier == nil {
		notifier, err := notify.New(&settings.Notify, a.Preferences)
		if err != nil {
			return err
		}
		a.Notifier = notifier
	}

	if a.HTTP == nil {
		cfg := httpclient.DefaultConfig()
		cfg.DefaultTimeout = settings.Server.Timeout
		cfg.UserAgent = settings.Server.UserAgent
		if cfg.UserAgent == "" {
			cfg.UserAgent = build.UserAgent()
		}
		a.HTTP = httpclient.New(&cfg)
		a.ownsHTTP = true
	}
	if a.Metrics != nil {
		a.Metrics.InstrumentHTTPClient(a.HTTP)
	}

	client, err := api.NewClient(api.Config{
		BaseURL:       settings.Server.URL,
		SessionCookie: settings.Server.SessionCookie,
		CacheTTL:      settings.Resources.CacheTTL,
		HTTPClient:    a.HTTP,
		Location:      a.Location,
	})
	if err != nil {
		return err
	}
	if a.Metrics != nil {
		client.SetCacheRecorder(a.Metrics.Client)
	}
	a.API = client

	a.Normalizer = imaging.NewNormalizer(a.fs, imaging.Options{
		TargetWidth: settings.Capture.TargetWidth,
		Quality:     settings.Capture.Quality,
		StagingDir:  settings.Capture.StagingDir,
	})

	tel, err := telemetry.Init(ctx, &settings.Telemetry, build, a.Store)
	if err != nil {
		// Reporting is optional; a bad DSN must not block the user.
		log.Warn("telemetry disabled", logger.Error(err))
		tel = &telemetry.Telemetry{}
	}
	a.Telemetry = tel

	a.initialized = true
	return nil
}

// Initialized reports whether Init completed.
func (a *App) Initialized() bool {
	return a.initialized
}

// NewPipeline builds a capture pipeline for one analyze run.
func (a *App) NewPipeline(picker capture.Picker, sink capture.ResultSink) *capture.Pipeline {
	deps := capture.Deps{
		Permissions: capture.PermissionFunc(a.requestCameraPermission),
		Picker:      picker,
		Normalizer:  a.Normalizer,
		Gate:        a.Gate,
		Classifier:  a.API,
		Sink:        sink,
	}
	if a.Metrics != nil {
		deps.Recorder = a.Metrics.Client
	}
	return capture.NewPipeline(deps)
}

// DevicePicker returns a picker for the configured camera command.
func (a *App) DevicePicker(libraryPath string) *capture.DevicePicker {
	return &capture.DevicePicker{
		LibraryPath:   libraryPath,
		CameraCommand: a.Settings.Capture.Camera.Command,
		CameraArgs:    a.Settings.Capture.Camera.Args,
		TempDir:       a.Settings.Capture.StagingDir,
	}
}

func (a *App) requestCameraPermission(ctx context.Context) (bool, error) {
	return a.Dialog.Confirm(ctx, alert.Alert{
		Title:   "Camera Access",
		Message: "SayAh needs access to your camera to take a photo of your throat. Allow?",
	})
}

// Close exports metrics, flushes telemetry and releases the store and HTTP client.
func (a *App) Close() error {
	if !a.initialized {
		return nil
	}
	a.initialized = false

	var errs []error
	if a.Metrics != nil && a.Settings.Metrics.TextFile != "" {
		if err := a.Metrics.WriteTextFile(a.Settings.Metrics.TextFile); err != nil {
			errs = append(errs, err)
		}
	}
	a.Telemetry.Close(telemetry.DefaultFlushTimeout)
	if a.Metrics != nil {
		errors.ClearErrorHooks()
	}
	if a.ownsHTTP {
		a.HTTP.Close()
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
