// Package resources provides the resources command.
package resources

import (
	"github.com/spf13/cobra"

	"github.com/sayah-app/sayah-go/internal/alert"
	"github.com/sayah-app/sayah-go/internal/app"
	"github.com/sayah-app/sayah-go/internal/presenter"
	"github.com/sayah-app/sayah-go/internal/session"
)

// Command creates the resources command.
func Command(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "Read educational articles about strep throat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.RequireFlow(ctx, session.RouteMain); err != nil {
				return err
			}
			_ = a.Gate.Navigator().Push(session.RouteResources)

			token, err := a.Gate.Token(ctx)
			if err != nil {
				return err
			}
			items, err := a.API.Resources(ctx, token)
			if err != nil {
				if showErr := a.Dialog.Show(ctx, alert.Alert{Title: "Error", Message: "Could not load resources."}); showErr != nil {
					return showErr
				}
				return app.Shown(err)
			}
			return presenter.WriteResources(a.Out, presenter.NewResourceViews(items))
		},
	}
}
