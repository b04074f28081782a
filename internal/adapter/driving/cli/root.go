package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/domenectl/domenectl/internal/config"
)

// Execute runs the CLI with production wiring and returns the process exit
// code.
func Execute() int {
	cfg, err := config.Load()
	if err != nil {
		// Config failed before any wiring exists, so reportError needs a
		// stream of its own.
		app := &App{stderr: os.Stderr}
		app.reportError(err)
		return 1
	}
	app := NewApp(cfg)
	if err := NewRootCmd(app).Execute(); err != nil {
		app.reportError(err)
		return 1
	}
	return 0
}

// NewRootCmd builds the full command tree around app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "domenectl",
		Short: "Manage Domeneshop domains, DNS records, forwards and invoices",
		Long: "domenectl talks to the Domeneshop REST API to inspect domains and\n" +
			"invoices, manage DNS records and HTTP forwards, update dynamic DNS\n" +
			"and administer stored API credentials.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&app.jsonOut, "json", false, "emit raw JSON instead of tables")
	root.PersistentFlags().StringVar(&app.account, "account", "", "stored account to use")

	root.AddCommand(
		newDomainsCmd(app),
		newDNSCmd(app),
		newForwardsCmd(app),
		newInvoicesCmd(app),
		newDDNSCmd(app),
		newAccountsCmd(app),
		newConfigureCmd(app),
		newVersionCmd(app),
	)
	return root
}
