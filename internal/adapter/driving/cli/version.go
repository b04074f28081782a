package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// version is overridden at release time via
// -ldflags "-X github.com/domenectl/domenectl/internal/adapter/driving/cli.version=...".
var version = "dev"

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the domenectl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.jsonOut {
				printJSON(app.stdout, map[string]string{
					"version": version,
					"go":      runtime.Version(),
				})
				return nil
			}
			fmt.Fprintf(app.stdout, "domenectl %s (%s)\n", version, runtime.Version())
			return nil
		},
	}
}
