package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/domenectl/domenectl/internal/application"
	"github.com/domenectl/domenectl/internal/domain/model"
)

func newDDNSCmd(app *App) *cobra.Command {
	var ips []string
	cmd := &cobra.Command{
		Use:   "ddns HOSTNAME...",
		Short: "Update dynamic DNS for one or more hostnames",
		Long: "Points each hostname at the given IP addresses. Without --ip the\n" +
			"caller's public address is looked up once and used for every host.\n" +
			"Hostnames are updated independently; a failure on one does not stop\n" +
			"the rest.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.client(cmd.Context())
			if err != nil {
				return err
			}
			svc := application.NewDDNSService(client, app.publicIP, app.audit)
			results, err := svc.Update(cmd.Context(), args, ips)
			if err != nil {
				return err
			}

			if app.jsonOut {
				printJSON(app.stdout, results)
			} else {
				rows := make([][]string, 0, len(results))
				for _, r := range results {
					outcome := "updated"
					if !r.OK {
						outcome = "failed: " + r.Error
					}
					rows = append(rows, []string{r.Hostname, r.IP, outcome})
				}
				printTable(app.stdout, []string{"HOSTNAME", "IP", "RESULT"}, rows)
			}

			if failed := application.Failed(results); failed > 0 {
				return model.NewError(model.KindRemoteUnavailable,
					"%d of %d hostnames failed", failed, len(results))
			}
			fmt.Fprintf(app.stdout, "Updated %d hostname(s).\n", len(results))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&ips, "ip", nil, "IP address to point at (repeatable; mixes IPv4 and IPv6)")
	return cmd
}
