// Package version provides the version command.
package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sayah-app/sayah-go/internal/buildinfo"
)

// Command creates the version command.
func Command(build buildinfo.BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sayah %s\n", build.Version())
			fmt.Fprintf(out, "Build date: %s\n", build.BuildDate())
			fmt.Fprintf(out, "User agent: %s\n", build.UserAgent())
			return nil
		},
	}
}
