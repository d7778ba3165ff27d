// Package cmd builds the sayah command tree.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sayah-app/sayah-go/cmd/analyze"
	configcmd "github.com/sayah-app/sayah-go/cmd/config"
	"github.com/sayah-app/sayah-go/cmd/faq"
	"github.com/sayah-app/sayah-go/cmd/history"
	"github.com/sayah-app/sayah-go/cmd/login"
	"github.com/sayah-app/sayah-go/cmd/logout"
	"github.com/sayah-app/sayah-go/cmd/onboard"
	"github.com/sayah-app/sayah-go/cmd/register"
	"github.com/sayah-app/sayah-go/cmd/resources"
	"github.com/sayah-app/sayah-go/cmd/settings"
	"github.com/sayah-app/sayah-go/cmd/status"
	"github.com/sayah-app/sayah-go/cmd/version"
	"github.com/sayah-app/sayah-go/internal/alert"
	"github.com/sayah-app/sayah-go/internal/app"
	"github.com/sayah-app/sayah-go/internal/buildinfo"
	"github.com/sayah-app/sayah-go/internal/conf"
	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/logger"
)

// annotationNoInit marks commands that run without config or storage.
const annotationNoInit = "sayah/no-init"

// RootCommand creates and returns the root command. Components are wired
// into a before any subcommand runs unless a is already initialized.
func RootCommand(a *app.App, build buildinfo.BuildInfo) *cobra.Command {
	var (
		configFile string
		serverURL  string
		debug      bool
		assumeYes  bool
	)

	rootCmd := &cobra.Command{
		Use:           "sayah",
		Short:         "SayAh throat triage client",
		Long:          "Capture a throat photo, send it for AI triage and review past results.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Path to config file")
	flags.StringVar(&serverURL, "server", "", "Triage server base URL, overrides server.url")
	flags.BoolVarP(&debug, "debug", "d", false, "Enable debug output")
	flags.BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to every confirmation")

	versionCmd := version.Command(build)
	versionCmd.Annotations = map[string]string{annotationNoInit: "true"}

	rootCmd.AddCommand(
		status.Command(a),
		onboard.Command(a),
		register.Command(a),
		login.Command(a),
		logout.Command(a),
		analyze.Command(a),
		history.Command(a),
		resources.Command(a),
		faq.Command(a),
		settings.Command(a),
		configcmd.Command(a),
		versionCmd,
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[annotationNoInit] == "true" {
			return nil
		}
		if !a.Initialized() {
			if err := initialize(cmd.Context(), a, build, configFile, serverURL, debug); err != nil {
				return err
			}
		}
		if assumeYes {
			a.Dialog.AssumeYes = true
		}
		return nil
	}

	return rootCmd
}

// initialize loads settings, applies flag overrides and wires the components.
func initialize(ctx context.Context, a *app.App, build buildinfo.BuildInfo, configFile, serverURL string, debug bool) error {
	if configFile != "" {
		conf.SetConfigFile(configFile)
	}
	settings, err := conf.Load()
	if err != nil {
		return err
	}
	if serverURL != "" {
		settings.Server.URL = serverURL
	}
	if debug {
		settings.Debug = true
	}
	settings.Version = build.Version()
	settings.BuildDate = build.BuildDate()

	if _, err := app.ConfigureLogging(settings); err != nil {
		return err
	}
	return a.Init(ctx, settings, build)
}

// Execute runs the command tree with args and returns the process exit code.
func Execute(ctx context.Context, build buildinfo.BuildInfo, args []string) int {
	a := &app.App{}
	root := RootCommand(a, build)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	code := ReportError(os.Stderr, err)

	if closeErr := a.Close(); closeErr != nil {
		logger.Global().Module("cli").Warn("shutdown incomplete", logger.Error(closeErr))
	}
	_ = logger.Global().Close()
	return code
}

// ReportError prints err as an alert and returns the exit code for it.
// A dismissed picker is not a failure.
func ReportError(w io.Writer, err error) int {
	if err == nil || errors.IsCategory(err, errors.CategoryCanceled) {
		return 0
	}

	var shown *app.ShownError
	if errors.As(err, &shown) {
		return 1
	}

	if errors.CategoryOf(err) == errors.CategoryGeneric {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	a := alert.FromError(err)
	fmt.Fprintf(w, "%s: %s\n", a.Title, a.Message)
	if errors.IsCategory(err, errors.CategoryNotAuthenticated) {
		fmt.Fprintln(w, "Run 'sayah login' to sign in.")
	}
	return 1
}
