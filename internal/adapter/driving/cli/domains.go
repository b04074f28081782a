package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/domenectl/domenectl/internal/domain/model"
)

func newDomainsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domains",
		Short: "Inspect registered domains",
	}
	cmd.AddCommand(newDomainsListCmd(app), newDomainsShowCmd(app))
	return cmd
}

func newDomainsListCmd(app *App) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List domains on the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client(cmd.Context())
			if err != nil {
				return err
			}
			domains, err := client.Domains(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if app.jsonOut {
				printJSON(app.stdout, domains)
				return nil
			}
			rows := make([][]string, 0, len(domains))
			for _, d := range domains {
				rows = append(rows, []string{
					strconv.Itoa(d.ID), d.Name, d.Status, d.ExpiryDate, renewLabel(d.Renew),
				})
			}
			printTable(app.stdout, []string{"ID", "DOMAIN", "STATUS", "EXPIRES", "RENEW"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "only domains whose name contains this string")
	return cmd
}

func newDomainsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show DOMAIN_ID",
		Short: "Show one domain in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "domain id")
			if err != nil {
				return err
			}
			client, err := app.client(cmd.Context())
			if err != nil {
				return err
			}
			domain, err := client.Domain(cmd.Context(), id)
			if err != nil {
				return err
			}
			if app.jsonOut {
				printJSON(app.stdout, domain)
				return nil
			}
			rows := [][]string{
				{"ID", strconv.Itoa(domain.ID)},
				{"Domain", domain.Name},
				{"Status", domain.Status},
				{"Registrant", domain.Registrant},
				{"Registered", domain.RegisteredDate},
				{"Expires", domain.ExpiryDate},
				{"Renew", renewLabel(domain.Renew)},
				{"Nameservers", strings.Join(domain.Nameservers, ", ")},
				{"DNS service", onOff(domain.Services.DNS)},
				{"Email service", onOff(domain.Services.Email)},
				{"Registrar", onOff(domain.Services.Registrar)},
				{"Webhotel", domain.Services.Webhotel},
			}
			printTable(app.stdout, []string{"FIELD", "VALUE"}, rows)
			return nil
		},
	}
}

func renewLabel(renew bool) string {
	if renew {
		return "auto"
	}
	return "manual"
}

func onOff(on bool) string {
	if on {
		return "yes"
	}
	return "no"
}

// parseID converts a positional argument into a numeric identifier, turning
// garbage input into a validation error before anything touches the network.
func parseID(raw, what string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		return 0, model.NewError(model.KindValidation, "invalid %s %q: must be a non-negative integer", what, raw)
	}
	return id, nil
}
