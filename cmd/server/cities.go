package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MakeNewCode/project-maps-webapp/internal/mapview"
)

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "Print the city coordinate table",
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := mapview.LoadGazetteer(cfg.Map.CitiesFile)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CITY\tLNG\tLAT")
		for _, name := range g.Cities() {
			p := g.Resolve(name)
			fmt.Fprintf(tw, "%s\t%.4f\t%.4f\n", name, p.Lon(), p.Lat())
		}
		return tw.Flush()
	},
}
