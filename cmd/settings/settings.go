// Package settings provides the in-app settings commands.
package settings

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sayah-app/sayah-go/internal/app"
	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/session"
)

// Command creates the settings command group.
func Command(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View or change preferences",
	}
	cmd.AddCommand(notificationsCommand(a))
	return cmd
}

func notificationsCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:       "notifications [on|off]",
		Short:     "Show or set the notifications preference",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.RequireFlow(ctx, session.RouteMain); err != nil {
				return err
			}
			_ = a.Gate.Navigator().Push(session.RouteSettings)

			if len(args) == 1 {
				enabled, err := parseSwitch(args[0])
				if err != nil {
					return err
				}
				if err := a.Preferences.SetNotifications(ctx, enabled); err != nil {
					return err
				}
			}

			state := "off"
			if a.Preferences.Notifications(ctx) {
				state = "on"
			}
			fmt.Fprintf(a.Out, "Notifications: %s\n", state)
			return nil
		},
	}
}

func parseSwitch(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	default:
		return false, errors.Newf("expected on or off, got %q", value).
			Component("cli").
			Category(errors.CategoryValidation).
			Build()
	}
}
