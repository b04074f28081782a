package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/domenectl/domenectl/internal/domain/model"
)

func newAccountsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage stored API credential accounts",
	}
	cmd.AddCommand(
		newAccountsListCmd(app),
		newAccountsAddCmd(app),
		newAccountsRemoveCmd(app),
		newAccountsRenameCmd(app),
		newAccountsTestCmd(app),
	)
	return cmd
}

func newAccountsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := app.accounts.List()
			if err != nil {
				return err
			}
			if app.jsonOut {
				printJSON(app.stdout, names)
				return nil
			}
			if len(names) == 0 {
				fmt.Fprintln(app.stdout, "No accounts stored. Add one with: domenectl accounts add NAME")
				return nil
			}
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				rows = append(rows, []string{name})
			}
			printTable(app.stdout, []string{"ACCOUNT"}, rows)
			return nil
		},
	}
}

func newAccountsAddCmd(app *App) *cobra.Command {
	var token, secret string
	var fileOnly bool
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Verify and store a credential pair under a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			creds := model.Credentials{Token: token, Secret: secret, Source: model.SourceInteractive}
			if creds.Token == "" || creds.Secret == "" {
				if !app.interactive {
					return model.NewError(model.KindValidation,
						"--token and --secret are required in non-interactive mode")
				}
				var err error
				if creds, err = promptCredentials(app.stdin, app.stdout); err != nil {
					return err
				}
			}

			storage, domains, err := app.accounts.Add(cmd.Context(), name, creds, !fileOnly)
			if err != nil {
				return err
			}
			if app.jsonOut {
				printJSON(app.stdout, map[string]any{
					"account": name, "storage": string(storage), "domains": domains,
				})
				return nil
			}
			fmt.Fprintf(app.stdout, "Account %q verified (%d domains) and saved (%s).\n", name, domains, storage)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "API token (prompted when omitted)")
	cmd.Flags().StringVar(&secret, "secret", "", "API secret (prompted, hidden, when omitted)")
	cmd.Flags().BoolVar(&fileOnly, "file", false, "store in the credentials file instead of the OS keychain")
	return cmd
}

func newAccountsRemoveCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove NAME",
		Short: "Delete a stored account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			summary := fmt.Sprintf("About to delete stored credentials for account %q.", name)
			if err := app.confirmDestructive(yes, summary); err != nil {
				return err
			}
			if err := app.accounts.Remove(name); err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "Removed account %q.\n", name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}

func newAccountsRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename OLD NEW",
		Short: "Rename a stored account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.accounts.Rename(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(app.stdout, "Renamed account %q to %q.\n", args[0], args[1])
			return nil
		},
	}
}

func newAccountsTestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "test [NAME...]",
		Short: "Check stored accounts against the remote API",
		RunE: func(cmd *cobra.Command, args []string) error {
			checks, err := app.accounts.Test(cmd.Context(), args)
			if err != nil {
				return err
			}
			if app.jsonOut {
				printJSON(app.stdout, checks)
			} else {
				rows := make([][]string, 0, len(checks))
				for _, c := range checks {
					outcome := "ok (" + strconv.Itoa(c.Domains) + " domains)"
					if !c.OK {
						outcome = "failed: " + c.Error
					}
					rows = append(rows, []string{c.Name, outcome})
				}
				printTable(app.stdout, []string{"ACCOUNT", "RESULT"}, rows)
			}
			failed := 0
			for _, c := range checks {
				if !c.OK {
					failed++
				}
			}
			if failed > 0 {
				return model.NewError(model.KindAuthRejected,
					"%d of %d accounts failed verification", failed, len(checks))
			}
			return nil
		},
	}
}
