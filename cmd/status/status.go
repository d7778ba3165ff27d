// Package status provides the status command.
package status

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sayah-app/sayah-go/internal/app"
	"github.com/sayah-app/sayah-go/internal/presenter"
	"github.com/sayah-app/sayah-go/internal/session"
)

// Command creates the status command, which prints where the launch flow lands.
func Command(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show onboarding and login state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			route := a.Gate.DetermineInitialRoute(ctx)

			loggedIn := "no"
			if route == session.RouteMain {
				loggedIn = "yes"
			}
			notifications := "off"
			if a.Preferences.Notifications(ctx) {
				notifications = "on"
			}

			out := a.Out
			fmt.Fprintf(out, "Route:         %s\n", presenter.RouteName(route))
			fmt.Fprintf(out, "Logged in:     %s\n", loggedIn)
			fmt.Fprintf(out, "Server:        %s\n", a.Settings.Server.URL)
			fmt.Fprintf(out, "Notifications: %s\n", notifications)
			if a.StoreFallback {
				fmt.Fprintln(out, "Storage:       unavailable, nothing will be saved")
			}
			if a.Telemetry.Enabled() {
				fmt.Fprintf(out, "System ID:     %s\n", a.Telemetry.SystemID())
			}
			return nil
		},
	}
}
