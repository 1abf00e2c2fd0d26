package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/banktotal-dev/banktotal/internal/config"
	"github.com/banktotal-dev/banktotal/internal/history"
	"github.com/banktotal-dev/banktotal/internal/present"
	"github.com/banktotal-dev/banktotal/internal/runlog"
)

const listTimeLayout = "2006-01-02 15:04"

func newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently observed balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return runHistory(cmd.OutOrStdout(), cfg.State.HistoryDB, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of observations")

	return cmd
}

func runHistory(w io.Writer, dbPath string, limit int) error {
	db, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := db.Recent(limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSOURCE\tBANK\tBALANCE\tKIND\tAMOUNT")
	for _, e := range entries {
		kind := string(e.Kind)
		if kind == "" {
			kind = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ObservedAt.Local().Format(listTimeLayout),
			e.Source,
			e.Institution,
			present.FormatAmount(e.Balance),
			kind,
			present.FormatAmount(e.Amount))
	}
	return tw.Flush()
}

func newRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent update runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return runRuns(cmd.OutOrStdout(), cfg.State.RunLog, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs")

	return cmd
}

func runRuns(w io.Writer, path string, limit int) error {
	entries, err := runlog.Read(path)
	if err != nil {
		return err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTOTAL\tSMS\tCAPTURED\tNOTIFICATIONS\tFRESH")
	// Newest first.
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		fresh := make([]string, len(e.Fresh))
		for j, inst := range e.Fresh {
			fresh[j] = inst.Abbrev()
		}
		if len(fresh) == 0 {
			fresh = []string{"-"}
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			e.Timestamp.Local().Format(listTimeLayout),
			present.FormatAmount(e.Total),
			e.SMS,
			e.Captured,
			e.Notifications,
			strings.Join(fresh, ","))
	}
	return tw.Flush()
}
