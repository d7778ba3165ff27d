// Package login provides the login command.
package login

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sayah-app/sayah-go/internal/app"
	"github.com/sayah-app/sayah-go/internal/session"
)

// Command creates the login command.
func Command(a *app.App) *cobra.Command {
	var flags app.CredentialFlags

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the triage server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.RequireFlow(ctx, session.RouteAuthentication, session.RouteMain); err != nil {
				return err
			}
			_ = a.Gate.Navigator().Push(session.RouteLogin)

			creds, err := a.Credentials(ctx, flags)
			if err != nil {
				return err
			}
			if err := a.Login(ctx, creds); err != nil {
				return err
			}
			fmt.Fprintln(a.Out, "Logged in.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&flags.Username, "username", "u", "", "Username")
	cmd.Flags().StringVar(&flags.Password, "password", "", "Password, may reference ${ENV_VAR}")
	cmd.Flags().StringVar(&flags.PasswordFile, "password-file", "", "Read the password from a file")

	return cmd
}
