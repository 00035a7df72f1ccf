package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/chargeplan/core/history"
)

var (
	histStatus string
	histLimit  int
	histSince  time.Duration
	histJSON   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded planning runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.History.Backend == "none" {
			return fmt.Errorf("history backend is disabled")
		}
		store, err := history.Open(cfg.History)
		if err != nil {
			return err
		}
		defer store.Close()

		q := history.Query{Status: histStatus, Limit: histLimit}
		if histSince > 0 {
			q.Start = time.Now().Add(-histSince)
		}
		recs, err := store.Query(context.Background(), q)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if histJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(recs)
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTIME\tSOLVER\tSTATUS\tBUDGET\tSTATIONS\tCOST\tDEMAND%")
		for _, r := range recs {
			stations, cost, demand := "-", "-", "-"
			if r.Result != nil {
				stations = fmt.Sprint(len(r.Result.Selected))
				cost = fmt.Sprintf("%.0f", r.Result.TotalCost)
				demand = fmt.Sprint(r.Result.DemandCoveragePct)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.0f\t%s\t%s\t%s\n",
				r.ID, r.Timestamp.Format(time.RFC3339), r.Solver, r.Status, r.Params.Budget, stations, cost, demand)
		}
		return tw.Flush()
	},
}

func init() {
	historyCmd.Flags().StringVar(&histStatus, "status", "", "only runs with this solver status")
	historyCmd.Flags().IntVar(&histLimit, "limit", 20, "maximum number of runs (0 for all)")
	historyCmd.Flags().DurationVar(&histSince, "since", 0, "only runs newer than this duration")
	historyCmd.Flags().BoolVar(&histJSON, "json", false, "print records as JSON")
	rootCmd.AddCommand(historyCmd)
}
