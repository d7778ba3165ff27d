// Package faq provides the faq command.
package faq

import (
	"github.com/spf13/cobra"

	"github.com/sayah-app/sayah-go/internal/app"
	"github.com/sayah-app/sayah-go/internal/presenter"
	"github.com/sayah-app/sayah-go/internal/session"
)

// Command creates the faq command.
func Command(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "faq",
		Short: "Frequently asked questions about strep throat and SayAh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.RequireFlow(cmd.Context(), session.RouteMain); err != nil {
				return err
			}
			_ = a.Gate.Navigator().Push(session.RouteFAQ)
			return presenter.WriteFAQ(a.Out, presenter.FAQ)
		},
	}
}
