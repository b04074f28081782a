package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/domenectl/domenectl/internal/domain/model"
)

func newForwardsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forwards",
		Short: "Manage HTTP forwards for a domain",
	}
	cmd.AddCommand(
		newForwardsListCmd(app),
		newForwardsShowCmd(app),
		newForwardsAddCmd(app),
		newForwardsUpdateCmd(app),
		newForwardsDeleteCmd(app),
	)
	return cmd
}

func newForwardsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list DOMAIN_ID",
		Short: "List HTTP forwards",
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
			forwards, err := client.Forwards(cmd.Context(), domainID)
			if err != nil {
				return err
			}
			if app.jsonOut {
				printJSON(app.stdout, forwards)
				return nil
			}
			rows := make([][]string, 0, len(forwards))
			for _, f := range forwards {
				rows = append(rows, []string{f.Host, f.URL, onOff(f.Frame)})
			}
			printTable(app.stdout, []string{"HOST", "URL", "FRAME"}, rows)
			return nil
		},
	}
}

func newForwardsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show DOMAIN_ID HOST",
		Short: "Show one HTTP forward",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			domainID, err := parseID(args[0], "domain id")
			if err != nil {
				return err
			}
			client, err := app.client(cmd.Context())
			if err != nil {
				return err
			}
			forward, err := client.Forward(cmd.Context(), domainID, args[1])
			if err != nil {
				return err
			}
			if app.jsonOut {
				printJSON(app.stdout, forward)
				return nil
			}
			printTable(app.stdout, []string{"FIELD", "VALUE"}, [][]string{
				{"Host", forward.Host},
				{"URL", forward.URL},
				{"Frame", onOff(forward.Frame)},
			})
			return nil
		},
	}
}

func newForwardsAddCmd(app *App) *cobra.Command {
	var url string
	var frame bool
	cmd := &cobra.Command{
		Use:   "add DOMAIN_ID HOST",
		Short: "Create an HTTP forward",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			domainID, err := parseID(args[0], "domain id")
			if err != nil {
				return err
			}
			forward := model.Forward{Host: args[1], URL: url, Frame: frame}
			if err := forward.Validate(); err != nil {
				return err
			}
			client, err := app.client(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.CreateForward(cmd.Context(), domainID, forward); err != nil {
				return err
			}
			app.audit.Record(model.AuditForwardCreated,
				"domain_id", args[0], "host", forward.Host, "url", forward.URL)
			if app.jsonOut {
				printJSON(app.stdout, forward)
				return nil
			}
			fmt.Fprintf(app.stdout, "Created forward %s -> %s\n", forward.Host, forward.URL)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "destination URL (http:// or https://)")
	cmd.Flags().BoolVar(&frame, "frame", false, "serve the destination inside a frame")
	return cmd
}

func newForwardsUpdateCmd(app *App) *cobra.Command {
	var url string
	var frame bool
	cmd := &cobra.Command{
		Use:   "update DOMAIN_ID HOST",
		Short: "Update an existing HTTP forward",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			domainID, err := parseID(args[0], "domain id")
			if err != nil {
				return err
			}
			client, err := app.client(cmd.Context())
			if err != nil {
				return err
			}
			forward, err := client.Forward(cmd.Context(), domainID, args[1])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("url") {
				forward.URL = url
			}
			if cmd.Flags().Changed("frame") {
				forward.Frame = frame
			}
			if err := forward.Validate(); err != nil {
				return err
			}
			if err := client.UpdateForward(cmd.Context(), domainID, forward.Host, *forward); err != nil {
				return err
			}
			app.audit.Record(model.AuditForwardUpdated,
				"domain_id", args[0], "host", forward.Host, "url", forward.URL)
			if app.jsonOut {
				printJSON(app.stdout, forward)
				return nil
			}
			fmt.Fprintf(app.stdout, "Updated forward %s -> %s\n", forward.Host, forward.URL)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "destination URL (http:// or https://)")
	cmd.Flags().BoolVar(&frame, "frame", false, "serve the destination inside a frame")
	return cmd
}

func newForwardsDeleteCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete DOMAIN_ID HOST",
		Short: "Delete an HTTP forward",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			domainID, err := parseID(args[0], "domain id")
			if err != nil {
				return err
			}
			client, err := app.client(cmd.Context())
			if err != nil {
				return err
			}
			forward, err := client.Forward(cmd.Context(), domainID, args[1])
			if err != nil {
				return err
			}
			summary := fmt.Sprintf("About to delete forward %s -> %s", forward.Host, forward.URL)
			if err := app.confirmDestructive(yes, summary); err != nil {
				return err
			}
			if err := client.DeleteForward(cmd.Context(), domainID, forward.Host); err != nil {
				return err
			}
			app.audit.Record(model.AuditForwardDeleted, "domain_id", args[0], "host", forward.Host)
			fmt.Fprintf(app.stdout, "Deleted forward %s.\n", forward.Host)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}
