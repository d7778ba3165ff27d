// Package session decides which flow the client starts in and moves between
// onboarding, authentication and the main flow on explicit events.
package session

import (
	"context"
	"sync"

	"github.com/sayah-app/sayah-go/internal/datastore"
	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/logger"
)

// Persisted keys.
const (
	KeyHasSeenOnboarding = "hasSeenOnboarding"
	KeyAuthToken         = "authToken"
	KeyNotifications     = "notifications"

	onboardingDone = "true"
)

// State is the persisted session state.
type State struct {
	HasSeenOnboarding bool
	AuthToken         string // empty when absent
}

// Authenticated reports whether a session identifier is present.
func (s State) Authenticated() bool {
	return s.AuthToken != ""
}

// Route picks the initial flow for s.
func (s State) Route() Route {
	switch {
	case !s.HasSeenOnboarding:
		return RouteOnboarding
	case !s.Authenticated():
		return RouteAuthentication
	default:
		return RouteMain
	}
}

// TransitionFunc observes flow changes.
type TransitionFunc func(from, to Route)

// Gate owns the session keys and the navigator.
type Gate struct {
	store datastore.Store
	nav   *Navigator
	log   logger.Logger

	mu           sync.Mutex
	onTransition TransitionFunc
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithTransitionObserver registers fn to be called after every flow change.
func WithTransitionObserver(fn TransitionFunc) GateOption {
	return func(g *Gate) { g.onTransition = fn }
}

// NewGate creates a Gate. Until DetermineInitialRoute runs the navigator sits at Onboarding.
func NewGate(store datastore.Store, opts ...GateOption) *Gate {
	g := &Gate{
		store: store,
		nav:   NewNavigator(RouteOnboarding),
		log:   logger.Global().Module("session"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Navigator returns the gate's navigator.
func (g *Gate) Navigator() *Navigator {
	return g.nav
}

// Flow returns the current top-level flow.
func (g *Gate) Flow() Route {
	return g.nav.Flow()
}

// DetermineInitialRoute reads the persisted flags and resets navigation to the
// matching flow. Storage failures are logged and fail closed to Onboarding.
func (g *Gate) DetermineInitialRoute(ctx context.Context) Route {
	state, err := g.Load(ctx)
	route := state.Route()
	if err != nil {
		g.log.Warn("failed to read session state, starting onboarding",
			logger.Error(err))
		route = RouteOnboarding
	}

	g.log.Debug("initial route determined",
		logger.String("route", route.String()),
		logger.Bool("has_seen_onboarding", state.HasSeenOnboarding),
		logger.Bool("authenticated", state.Authenticated()))

	g.transition(route)
	return route
}

// Load reads the persisted state. Absent keys are not errors.
func (g *Gate) Load(ctx context.Context) (State, error) {
	var state State

	seen, err := g.read(ctx, KeyHasSeenOnboarding)
	if err != nil {
		return State{}, err
	}
	state.HasSeenOnboarding = seen == onboardingDone

	token, err := g.read(ctx, KeyAuthToken)
	if err != nil {
		return State{}, err
	}
	state.AuthToken = token

	return state, nil
}

// CompleteOnboarding records that onboarding was shown and moves to Authentication.
// No operation clears the flag afterwards.
func (g *Gate) CompleteOnboarding(ctx context.Context) error {
	if err := g.store.Set(ctx, KeyHasSeenOnboarding, onboardingDone); err != nil {
		return g.storageError(err, "complete_onboarding")
	}
	g.log.Info("onboarding completed")
	g.transition(RouteAuthentication)
	return nil
}

// CompleteLogin stores token and resets navigation to Main, dropping the auth
// screens from history.
func (g *Gate) CompleteLogin(ctx context.Context, token string) error {
	if token == "" {
		return errors.New(errors.ErrSession).
			Component("session").
			Category(errors.CategorySession).
			Context("operation", "complete_login").
			Build()
	}
	if err := g.store.Set(ctx, KeyAuthToken, token); err != nil {
		return g.storageError(err, "complete_login")
	}
	g.log.Info("login completed")
	g.transition(RouteMain)
	return nil
}

// Logout clears the session identifier and resets navigation to Authentication.
// The onboarding flag is kept.
func (g *Gate) Logout(ctx context.Context) error {
	if err := g.store.Clear(ctx, KeyAuthToken); err != nil {
		return g.storageError(err, "logout")
	}
	g.log.Info("logged out")
	g.transition(RouteAuthentication)
	return nil
}

// Token reads the session identifier from storage on every call.
// An absent token returns "" and no error.
func (g *Gate) Token(ctx context.Context) (string, error) {
	token, err := g.read(ctx, KeyAuthToken)
	if err != nil {
		return "", err
	}
	return token, nil
}

// RequireAuthentication resets navigation to Authentication after a gated
// action found no session.
func (g *Gate) RequireAuthentication() {
	g.log.Info("session missing, redirecting to authentication")
	g.transition(RouteAuthentication)
}

func (g *Gate) read(ctx context.Context, key string) (string, error) {
	value, err := g.store.Get(ctx, key)
	switch {
	case errors.Is(err, datastore.ErrKeyNotFound):
		return "", nil
	case err != nil:
		return "", g.storageError(err, "read_"+key)
	}
	return value, nil
}

func (g *Gate) storageError(err error, operation string) error {
	return errors.New(err).
		Component("session").
		Category(errors.CategoryStorage).
		Context("operation", operation).
		Build()
}

func (g *Gate) transition(to Route) {
	g.mu.Lock()
	from := g.nav.Flow()
	g.nav.Reset(to)
	observer := g.onTransition
	g.mu.Unlock()

	if observer != nil {
		observer(from, to)
	}
}
