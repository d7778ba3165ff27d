// Package register provides the register command.
package register

import (
	"github.com/spf13/cobra"

	"github.com/sayah-app/sayah-go/internal/alert"
	"github.com/sayah-app/sayah-go/internal/app"
	"github.com/sayah-app/sayah-go/internal/session"
)

// Command creates the register command.
func Command(a *app.App) *cobra.Command {
	var flags app.CredentialFlags

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account on the triage server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.RequireFlow(ctx, session.RouteAuthentication, session.RouteMain); err != nil {
				return err
			}
			_ = a.Gate.Navigator().Push(session.RouteRegister)

			creds, err := a.Credentials(ctx, flags)
			if err != nil {
				return err
			}
			if err := a.API.Register(ctx, creds); err != nil {
				if showErr := a.Dialog.Show(ctx, alert.ForRegistration(err)); showErr != nil {
					return showErr
				}
				return app.Shown(err)
			}

			a.Gate.Navigator().Back()
			return a.Dialog.Show(ctx, alert.RegistrationSucceeded)
		},
	}

	setupFlags(cmd, &flags)
	return cmd
}

func setupFlags(cmd *cobra.Command, flags *app.CredentialFlags) {
	cmd.Flags().StringVarP(&flags.Username, "username", "u", "", "Username")
	cmd.Flags().StringVar(&flags.Password, "password", "", "Password, may reference ${ENV_VAR}")
	cmd.Flags().StringVar(&flags.PasswordFile, "password-file", "", "Read the password from a file")
}
