// Package analyze provides the analyze command: capture or pick a throat
// photo, submit it and show the verdict.
package analyze

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sayah-app/sayah-go/internal/alert"
	"github.com/sayah-app/sayah-go/internal/api"
	"github.com/sayah-app/sayah-go/internal/app"
	"github.com/sayah-app/sayah-go/internal/capture"
	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/logger"
	"github.com/sayah-app/sayah-go/internal/presenter"
	"github.com/sayah-app/sayah-go/internal/session"
)

type options struct {
	camera    bool
	keepImage bool
	login     app.CredentialFlags
}

// Command creates the analyze command.
func Command(a *app.App) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "analyze [--camera] [file]",
		Short: "Analyze a throat photo",
		Long: `Analyze a throat photo taken with the configured camera command (--camera)
or read from an image file. The photo is resized and sent to the triage server.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.RequireFlow(cmd.Context(), session.RouteMain); err != nil {
				return err
			}
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return run(cmd.Context(), a, &opts, path)
		},
	}

	cmd.Flags().BoolVar(&opts.camera, "camera", false, "Take the photo with the configured camera command")
	cmd.Flags().BoolVar(&opts.keepImage, "keep", false, "Keep the normalized image in the staging directory")
	cmd.Flags().StringVarP(&opts.login.Username, "username", "u", "", "Username for signing in again if the session is gone")
	cmd.Flags().StringVar(&opts.login.PasswordFile, "password-file", "", "Password file for signing in again")

	return cmd
}

func run(ctx context.Context, a *app.App, opts *options, path string) error {
	log := logger.Global().Module("cli")
	_ = a.Gate.Navigator().Push(session.RouteCapture)

	source := capture.SourceLibrary
	if opts.camera {
		source = capture.SourceCamera
		if err := presenter.WriteGuidelines(a.Out); err != nil {
			return err
		}
	}
	if !opts.camera && path == "" {
		return errors.Newf("an image file or --camera is required").
			Component("cli").
			Category(errors.CategoryValidation).
			Build()
	}

	pipeline := a.NewPipeline(a.DevicePicker(path), capture.ResultSinkFunc(func(ctx context.Context, result *api.ClassificationResult) {
		if err := showResult(ctx, a, result); err != nil {
			log.Warn("could not display result", logger.Error(err))
		}
	}))
	defer func() {
		if opts.keepImage {
			return
		}
		if err := pipeline.Discard(); err != nil {
			log.Warn("could not remove staged image", logger.Error(err))
		}
	}()

	// A dismissed picker surfaces as ErrCanceled and ends the run quietly.
	if _, err := pipeline.Acquire(ctx, source); err != nil {
		return err
	}

	_, err := pipeline.Submit(ctx)
	if errors.IsCategory(err, errors.CategoryNotAuthenticated) {
		err = reauthenticate(ctx, a, opts, pipeline, err)
	}
	return err
}

// reauthenticate offers an inline login when the session vanished between
// launch and submit, then resubmits the image that is still staged.
func reauthenticate(ctx context.Context, a *app.App, opts *options, pipeline *capture.Pipeline, cause error) error {
	if showErr := a.Dialog.Show(ctx, alert.FromError(cause)); showErr != nil {
		return showErr
	}
	ok, err := a.Dialog.Confirm(ctx, alert.Alert{Title: "Log In", Message: "Log in now and resubmit the photo?"})
	if err != nil {
		return err
	}
	if !ok {
		return app.Shown(cause)
	}

	creds, err := a.Credentials(ctx, opts.login)
	if err != nil {
		return err
	}
	if err := a.Login(ctx, creds); err != nil {
		return err
	}
	_ = a.Gate.Navigator().Push(session.RouteCapture)
	_, err = pipeline.Submit(ctx)
	return err
}

func showResult(ctx context.Context, a *app.App, result *api.ClassificationResult) error {
	_ = a.Gate.Navigator().Push(session.RouteResult)

	view := presenter.NewResultView(result)
	if err := presenter.WriteResult(a.Out, view); err != nil {
		return err
	}
	if err := a.Notifier.Send(ctx, "SayAh result", presenter.NotificationText(view)); err != nil {
		logger.Global().Module("cli").Warn("could not send notification", logger.Error(err))
	}
	if !view.ShowMedicalHelp {
		return nil
	}
	ok, err := a.Dialog.Confirm(ctx, alert.Alert{Title: "Get Medical Help", Message: "Show medical guidance?"})
	if err != nil || !ok {
		return err
	}
	return a.Dialog.Show(ctx, view.MedicalHelpAlert())
}
