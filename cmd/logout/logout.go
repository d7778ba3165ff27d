// Package logout provides the logout command.
package logout

import (
	"github.com/spf13/cobra"

	"github.com/sayah-app/sayah-go/internal/alert"
	"github.com/sayah-app/sayah-go/internal/app"
	"github.com/sayah-app/sayah-go/internal/session"
)

// Command creates the logout command.
func Command(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.RequireFlow(ctx, session.RouteMain); err != nil {
				return err
			}
			if err := a.Logout(ctx); err != nil {
				return err
			}
			return a.Dialog.Show(ctx, alert.LoggedOut)
		},
	}
}
