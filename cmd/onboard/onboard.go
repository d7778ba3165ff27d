// Package onboard provides the onboarding command.
package onboard

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sayah-app/sayah-go/internal/alert"
	"github.com/sayah-app/sayah-go/internal/app"
	"github.com/sayah-app/sayah-go/internal/presenter"
	"github.com/sayah-app/sayah-go/internal/session"
)

// Command creates the onboard command. It shows the introduction slides once;
// afterwards it only reports that onboarding is complete.
func Command(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "onboard",
		Short: "Show the introduction and finish onboarding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if route := a.Gate.DetermineInitialRoute(ctx); route != session.RouteOnboarding {
				fmt.Fprintln(a.Out, "Onboarding already completed.")
				return nil
			}

			total := len(presenter.OnboardingSlides)
			for i, slide := range presenter.OnboardingSlides {
				if err := presenter.WriteSlide(a.Out, slide, i, total); err != nil {
					return err
				}
				if i < total-1 {
					if err := a.Dialog.Show(ctx, alert.Alert{Title: "Next", Message: "Continue to the next page."}); err != nil {
						return err
					}
				}
			}

			if err := a.Dialog.Show(ctx, alert.Alert{Title: "Get Started", Message: "You're all set. Log in or register to begin."}); err != nil {
				return err
			}
			if err := a.Gate.CompleteOnboarding(ctx); err != nil {
				return err
			}
			fmt.Fprintln(a.Out, "Run 'sayah register' to create an account or 'sayah login' to sign in.")
			return nil
		},
	}
}
