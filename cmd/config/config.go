// Package config provides commands for inspecting the configuration.
package config

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sayah-app/sayah-go/internal/app"
	"github.com/sayah-app/sayah-go/internal/conf"
)

// Command creates the config command group.
func Command(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}
	cmd.AddCommand(showCommand(a), pathCommand(a))
	return cmd
}

func showCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeYAML(a.Out, a.Settings)
		},
	}
}

func pathCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := viper.ConfigFileUsed()
			if path == "" {
				path = "(none, using defaults)"
			}
			_, err := fmt.Fprintln(a.Out, path)
			return err
		},
	}
}

func writeYAML(w io.Writer, settings *conf.Settings) error {
	data, err := conf.MarshalYAML(settings.Redacted())
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
