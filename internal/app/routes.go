package app

import (
	"context"
	"slices"

	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/session"
)

// RequireFlow determines the launch route and fails unless it is one of allowed.
// The error tells the user which command moves them forward.
func (a *App) RequireFlow(ctx context.Context, allowed ...session.Route) (session.Route, error) {
	route := a.Gate.DetermineInitialRoute(ctx)
	if len(allowed) == 0 || slices.Contains(allowed, route) {
		return route, nil
	}

	switch route {
	case session.RouteOnboarding:
		return route, errors.Newf("onboarding not completed, run 'sayah onboard' first").
			Component("cli").
			Category(errors.CategoryState).
			Context("route", route.String()).
			Build()
	case session.RouteAuthentication:
		a.Gate.RequireAuthentication()
		return route, errors.New(errors.ErrNotAuthenticated).
			Component("cli").
			Context("route", route.String()).
			Build()
	default:
		return route, errors.Newf("not available while %s", route).
			Component("cli").
			Category(errors.CategoryState).
			Context("route", route.String()).
			Build()
	}
}
