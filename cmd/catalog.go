package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/chargeplan/pkg/catalog"
)

var (
	catPath string
	catYAML bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Show the candidate sites and highway corridors",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := catPath
		if !cmd.Flags().Changed("catalog") {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path = cfg.Catalog.Path
		}
		cat, err := catalog.Load(path)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if catYAML {
			return catalog.Encode(out, cat)
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tREGION\tTYPE\tLAT\tLNG\tCOST\tDEMAND")
		for _, s := range cat.Sites {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.4f\t%.4f\t%g\t%g\n",
				s.ID, s.Name, s.Region, s.Type, s.Location.Lat(), s.Location.Lon(), s.Cost, s.Demand)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%d corridors\n", len(cat.Corridors))
		for _, hw := range cat.Corridors {
			fmt.Fprintf(out, "  %s: %d sites\n", hw.Name, len(hw.Sites))
		}
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVar(&catPath, "catalog", "", "YAML catalog file (default: built-in dataset)")
	catalogCmd.Flags().BoolVar(&catYAML, "yaml", false, "dump the catalog as YAML")
	rootCmd.AddCommand(catalogCmd)
}
