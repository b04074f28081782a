package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/domenectl/domenectl/internal/domain/model"
)

func newConfigureCmd(app *App) *cobra.Command {
	var status, deleteAll, migrate bool
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Set up, inspect or remove stored API credentials",
		Long: "Without flags, runs the interactive setup: prompts for a token and\n" +
			"secret, verifies them against the API and stores them. --status shows\n" +
			"where credentials live, --delete removes every stored account and\n" +
			"--migrate-to-keychain moves file-stored accounts into the OS keychain.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case status:
				return app.configureStatus()
			case deleteAll:
				return app.configureDelete()
			case migrate:
				return app.configureMigrate()
			default:
				return app.configureSetup(cmd)
			}
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "show credential storage status")
	cmd.Flags().BoolVar(&deleteAll, "delete", false, "delete every stored account")
	cmd.Flags().BoolVar(&migrate, "migrate-to-keychain", false, "move file-stored accounts into the OS keychain")
	return cmd
}

func (a *App) configureStatus() error {
	info := a.resolver.Info()
	if a.jsonOut {
		printJSON(a.stdout, info)
		return nil
	}
	accounts := strings.Join(info.Accounts, ", ")
	if accounts == "" {
		accounts = "(none)"
	}
	printTable(a.stdout, []string{"FIELD", "VALUE"}, [][]string{
		{"Active source", info.StorageType},
		{"Environment", onOff(info.EnvConfigured)},
		{"Keychain available", onOff(info.KeyringAvailable)},
		{"Credentials file", info.FilePath},
		{"File exists", onOff(info.FileExists)},
		{"Accounts", accounts},
	})
	return nil
}

func (a *App) configureDelete() error {
	names, err := a.resolver.ListAccounts()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(a.stdout, "No stored credentials to delete.")
		return nil
	}
	summary := fmt.Sprintf("About to delete %d stored account(s): %s", len(names), strings.Join(names, ", "))
	if err := a.confirmDestructive(false, summary); err != nil {
		return err
	}
	n, err := a.accounts.RemoveAll()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Deleted %d account(s).\n", n)
	return nil
}

func (a *App) configureMigrate() error {
	n, err := a.accounts.MigrateToKeychain()
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(a.stdout, "No file-stored accounts to migrate.")
		return nil
	}
	fmt.Fprintf(a.stdout, "Migrated %d account(s) to the OS keychain.\n", n)
	return nil
}

func (a *App) configureSetup(cmd *cobra.Command) error {
	if !a.interactive {
		return model.NewError(model.KindValidation,
			"interactive setup needs a terminal; use 'accounts add NAME --token ... --secret ...' instead")
	}

	fmt.Fprintln(a.stdout, "Generate a token and secret at: https://domene.shop/admin?view=api")
	fmt.Fprintln(a.stdout)
	creds, err := promptCredentials(a.stdin, a.stdout)
	if err != nil {
		return err
	}

	name := promptLine(a.stdin, a.stdout, "Account name", "Standard")

	preferKeychain := false
	if a.resolver.Info().KeyringAvailable {
		preferKeychain = confirm(a.stdin, a.stdout, "Store in the OS keychain?")
	}

	storage, domains, err := a.accounts.Add(cmd.Context(), name, creds, preferKeychain)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "\nAccount %q verified (%d domains) and saved (%s).\n", name, domains, storage)
	return nil
}
