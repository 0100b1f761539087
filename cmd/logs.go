package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"inventory-sync/core/reconcile"
	"inventory-sync/feature/vehicle"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var logsOutput string

// logsCmd prints the sync history.
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the sync history",
	Long:  `Prints the retained sync log entries, newest first, as a table, JSON or YAML.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer a.log.Sync()

		svc, err := vehicle.NewService(vehicle.Deps{DB: a.db, Feed: a.cfg.Feed, Logger: a.log})
		if err != nil {
			return fmt.Errorf("failed to create vehicle service: %w", err)
		}
		if err := svc.Migrate(); err != nil {
			return fmt.Errorf("failed to migrate inventory tables: %w", err)
		}

		entries, err := svc.Logs(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read sync history: %w", err)
		}
		return writeLogs(os.Stdout, entries, logsOutput)
	},
}

func init() {
	logsCmd.Flags().StringVarP(&logsOutput, "output", "o", "table", "Output format (table, json, yaml)")
	RootCmd.AddCommand(logsCmd)
}

func writeLogs(w io.Writer, entries []reconcile.LogEntry, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TIMESTAMP\tSTATUS\tIMPORTED\tUPDATED\tSKIPPED\tERRORS\tPRUNED\tMESSAGE")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
				e.Timestamp.Format(time.RFC3339), e.Status,
				e.Imported, e.Updated, e.Skipped, e.Errors, e.Pruned, e.Message)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
