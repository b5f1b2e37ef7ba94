package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			info := map[string]string{
				"version":    version,
				"go_version": runtime.Version(),
				"platform":   runtime.GOOS + "/" + runtime.GOARCH,
			}
			return printOutput(cmd, info, func(out io.Writer) error {
				_, err := fmt.Fprintf(out, "remsfal-cli version %s (%s, %s)\n", version, info["go_version"], info["platform"])
				return err
			})
		}),
	}
}
