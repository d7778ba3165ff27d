// Package history provides the history command.
package history

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sayah-app/sayah-go/internal/alert"
	"github.com/sayah-app/sayah-go/internal/app"
	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/presenter"
	"github.com/sayah-app/sayah-go/internal/session"
)

var fetchFailed = alert.Alert{Title: "Error", Message: "Could not retrieve history."}

// Command creates the history command.
func Command(a *app.App) *cobra.Command {
	var openID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.RequireFlow(ctx, session.RouteMain); err != nil {
				return err
			}
			_ = a.Gate.Navigator().Push(session.RouteHistory)

			token, err := a.Gate.Token(ctx)
			if err != nil {
				return err
			}
			entries, err := a.API.History(ctx, token)
			if err != nil {
				if showErr := a.Dialog.Show(ctx, fetchFailed); showErr != nil {
					return showErr
				}
				return app.Shown(err)
			}

			rows := presenter.NewHistoryRows(entries, a.Location)
			if len(rows) == 0 {
				return a.Dialog.Show(ctx, alert.NoHistory)
			}

			if openID == "" {
				return presenter.WriteHistory(a.Out, rows)
			}
			for _, row := range rows {
				if row.ID != openID {
					continue
				}
				_ = a.Gate.Navigator().Push(session.RouteResult)
				view := row.Open()
				fmt.Fprintf(a.Out, "Date: %s\n", row.Date)
				if err := presenter.WriteResult(a.Out, view); err != nil {
					return err
				}
				if view.ShowMedicalHelp {
					return a.Dialog.Show(ctx, view.MedicalHelpAlert())
				}
				return nil
			}
			return errors.Newf("no history entry with id %q", openID).
				Component("cli").
				Category(errors.CategoryValidation).
				Build()
		},
	}

	cmd.Flags().StringVar(&openID, "open", "", "Show the full result of the entry with this id")
	return cmd
}
