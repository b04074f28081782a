package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/domenectl/domenectl/internal/domain/model"
)

func newInvoicesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "Inspect invoices",
	}
	cmd.AddCommand(newInvoicesListCmd(app), newInvoicesShowCmd(app))
	return cmd
}

func newInvoicesListCmd(app *App) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List invoices on the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status = strings.ToLower(status)
			if status != "" && !slices.Contains(model.InvoiceStatuses, status) {
				return model.NewError(model.KindValidation,
					"invalid status %q (valid: %s)", status, strings.Join(model.InvoiceStatuses, ", "))
			}
			client, err := app.client(cmd.Context())
			if err != nil {
				return err
			}
			invoices, err := client.Invoices(cmd.Context(), status)
			if err != nil {
				return err
			}
			if app.jsonOut {
				printJSON(app.stdout, invoices)
				return nil
			}
			rows := make([][]string, 0, len(invoices))
			for _, inv := range invoices {
				rows = append(rows, []string{
					strconv.Itoa(inv.ID), inv.Type, formatAmount(inv.Amount, inv.Currency),
					inv.Status, inv.DueDate,
				})
			}
			printTable(app.stdout, []string{"ID", "TYPE", "AMOUNT", "STATUS", "DUE"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only invoices with this status (unpaid, paid, settled)")
	return cmd
}

func newInvoicesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show INVOICE_ID",
		Short: "Show one invoice in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "invoice id")
			if err != nil {
				return err
			}
			client, err := app.client(cmd.Context())
			if err != nil {
				return err
			}
			invoice, err := client.Invoice(cmd.Context(), id)
			if err != nil {
				return err
			}
			if app.jsonOut {
				printJSON(app.stdout, invoice)
				return nil
			}
			printTable(app.stdout, []string{"FIELD", "VALUE"}, [][]string{
				{"ID", strconv.Itoa(invoice.ID)},
				{"Type", invoice.Type},
				{"Amount", formatAmount(invoice.Amount, invoice.Currency)},
				{"Status", invoice.Status},
				{"Issued", invoice.IssuedDate},
				{"Due", invoice.DueDate},
				{"Paid", invoice.PaidDate},
				{"URL", invoice.URL},
			})
			return nil
		},
	}
}

func formatAmount(amount float64, currency string) string {
	return fmt.Sprintf("%.2f %s", amount, currency)
}
