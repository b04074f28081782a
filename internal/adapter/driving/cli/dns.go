package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/domenectl/domenectl/internal/domain/model"
)

func newDNSCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dns",
		Short: "Manage DNS records for a domain",
	}
	cmd.AddCommand(
		newDNSListCmd(app),
		newDNSShowCmd(app),
		newDNSAddCmd(app),
		newDNSUpdateCmd(app),
		newDNSDeleteCmd(app),
	)
	return cmd
}

// recordFlags is the flag set shared by dns add and dns update. Pointer
// fields are only populated when the user actually set the flag, so update
// can distinguish "unchanged" from "set to zero".
type recordFlags struct {
	recordType string
	host       string
	data       string
	ttl        int
	priority   int
	weight     int
	port       int
}

func (f *recordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.recordType, "type", "", "record type (A, AAAA, CNAME, MX, TXT, SRV)")
	cmd.Flags().StringVar(&f.host, "host", "", "subdomain, or @ for the domain itself")
	cmd.Flags().StringVar(&f.data, "data", "", "record data (address, target, text)")
	cmd.Flags().IntVar(&f.ttl, "ttl", 0, "time to live in seconds")
	cmd.Flags().IntVar(&f.priority, "priority", 0, "priority (MX and SRV)")
	cmd.Flags().IntVar(&f.weight, "weight", 0, "weight (SRV)")
	cmd.Flags().IntVar(&f.port, "port", 0, "port (SRV)")
}

// apply copies every flag the user set onto record.
func (f *recordFlags) apply(cmd *cobra.Command, record *model.DNSRecord) {
	if cmd.Flags().Changed("type") {
		record.Type = model.RecordType(strings.ToUpper(f.recordType))
	}
	if cmd.Flags().Changed("host") {
		record.Host = f.host
	}
	if cmd.Flags().Changed("data") {
		record.Data = f.data
	}
	if cmd.Flags().Changed("ttl") {
		record.TTL = f.ttl
	}
	if cmd.Flags().Changed("priority") {
		record.Priority = intPtr(f.priority)
	}
	if cmd.Flags().Changed("weight") {
		record.Weight = intPtr(f.weight)
	}
	if cmd.Flags().Changed("port") {
		record.Port = intPtr(f.port)
	}
}

func newDNSListCmd(app *App) *cobra.Command {
	var host, recordType string
	cmd := &cobra.Command{
		Use:   "list DOMAIN_ID",
		Short: "List DNS records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			domainID, err := parseID(args[0], "domain id")
			if err != nil {
				return err
			}
			client, err := app.client(cmd.Context())
			if err != nil {
				return err
			}
			records, err := client.DNSRecords(cmd.Context(), domainID, host, strings.ToUpper(recordType))
			if err != nil {
				return err
			}
			if app.jsonOut {
				printJSON(app.stdout, records)
				return nil
			}
			rows := make([][]string, 0, len(records))
			for _, r := range records {
				rows = append(rows, []string{
					strconv.Itoa(r.ID), string(r.Type), r.Host, r.Data,
					strconv.Itoa(r.TTL), intPtrLabel(r.Priority),
				})
			}
			printTable(app.stdout, []string{"ID", "TYPE", "HOST", "DATA", "TTL", "PRIO"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "only records for this host")
	cmd.Flags().StringVar(&recordType, "type", "", "only records of this type")
	return cmd
}

func newDNSShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show DOMAIN_ID RECORD_ID",
		Short: "Show one DNS record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			domainID, recordID, err := parseRecordArgs(args)
			if err != nil {
				return err
			}
			client, err := app.client(cmd.Context())
			if err != nil {
				return err
			}
			record, err := client.DNSRecord(cmd.Context(), domainID, recordID)
			if err != nil {
				return err
			}
			if app.jsonOut {
				printJSON(app.stdout, record)
				return nil
			}
			printRecord(app, *record)
			return nil
		},
	}
}

func newDNSAddCmd(app *App) *cobra.Command {
	var flags recordFlags
	cmd := &cobra.Command{
		Use:   "add DOMAIN_ID",
		Short: "Create a DNS record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			domainID, err := parseID(args[0], "domain id")
			if err != nil {
				return err
			}
			var record model.DNSRecord
			flags.apply(cmd, &record)
			if err := record.Validate(); err != nil {
				return err
			}

			client, err := app.client(cmd.Context())
			if err != nil {
				return err
			}
			id, err := client.CreateDNSRecord(cmd.Context(), domainID, record)
			if err != nil {
				return err
			}
			app.audit.Record(model.AuditDNSCreated,
				"domain_id", strconv.Itoa(domainID),
				"record_id", strconv.Itoa(id),
				"type", string(record.Type),
				"host", record.Host,
			)
			record.ID = id
			if app.jsonOut {
				printJSON(app.stdout, record)
				return nil
			}
			fmt.Fprintf(app.stdout, "Created record %d: %s\n", id, record)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newDNSUpdateCmd(app *App) *cobra.Command {
	var flags recordFlags
	cmd := &cobra.Command{
		Use:   "update DOMAIN_ID RECORD_ID",
		Short: "Update fields of an existing DNS record",
		Long: "Fetches the record, applies only the flags you set and submits\n" +
			"the merged record back. Fields you do not name keep their value.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			domainID, recordID, err := parseRecordArgs(args)
			if err != nil {
				return err
			}
			client, err := app.client(cmd.Context())
			if err != nil {
				return err
			}
			record, err := client.DNSRecord(cmd.Context(), domainID, recordID)
			if err != nil {
				return err
			}
			flags.apply(cmd, record)
			if err := record.Validate(); err != nil {
				return err
			}
			if err := client.UpdateDNSRecord(cmd.Context(), domainID, recordID, *record); err != nil {
				return err
			}
			app.audit.Record(model.AuditDNSUpdated,
				"domain_id", strconv.Itoa(domainID),
				"record_id", strconv.Itoa(recordID),
				"type", string(record.Type),
				"host", record.Host,
			)
			if app.jsonOut {
				printJSON(app.stdout, record)
				return nil
			}
			fmt.Fprintf(app.stdout, "Updated record %d: %s\n", recordID, record)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newDNSDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete DOMAIN_ID RECORD_ID",
		Short: "Delete a DNS record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			domainID, recordID, err := parseRecordArgs(args)
			if err != nil {
				return err
			}
			client, err := app.client(cmd.Context())
			if err != nil {
				return err
			}
			record, err := client.DNSRecord(cmd.Context(), domainID, recordID)
			if err != nil {
				return err
			}
			summary := fmt.Sprintf("About to delete record %d: %s", recordID, record)
			if err := app.confirmDestructive(yes, summary); err != nil {
				return err
			}
			if err := client.DeleteDNSRecord(cmd.Context(), domainID, recordID); err != nil {
				return err
			}
			app.audit.Record(model.AuditDNSDeleted,
				"domain_id", strconv.Itoa(domainID),
				"record_id", strconv.Itoa(recordID),
				"type", string(record.Type),
				"host", record.Host,
			)
			fmt.Fprintf(app.stdout, "Deleted record %d.\n", recordID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}

func printRecord(app *App, record model.DNSRecord) {
	rows := [][]string{
		{"ID", strconv.Itoa(record.ID)},
		{"Type", string(record.Type)},
		{"Host", record.Host},
		{"Data", record.Data},
		{"TTL", strconv.Itoa(record.TTL)},
	}
	if record.Priority != nil {
		rows = append(rows, []string{"Priority", strconv.Itoa(*record.Priority)})
	}
	if record.Weight != nil {
		rows = append(rows, []string{"Weight", strconv.Itoa(*record.Weight)})
	}
	if record.Port != nil {
		rows = append(rows, []string{"Port", strconv.Itoa(*record.Port)})
	}
	printTable(app.stdout, []string{"FIELD", "VALUE"}, rows)
}

func parseRecordArgs(args []string) (domainID, recordID int, err error) {
	if domainID, err = parseID(args[0], "domain id"); err != nil {
		return 0, 0, err
	}
	if recordID, err = parseID(args[1], "record id"); err != nil {
		return 0, 0, err
	}
	return domainID, recordID, nil
}

func intPtr(v int) *int { return &v }

func intPtrLabel(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
