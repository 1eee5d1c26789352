package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MakeNewCode/project-maps-webapp/internal/filter"
	"github.com/MakeNewCode/project-maps-webapp/internal/models"
	"github.com/MakeNewCode/project-maps-webapp/internal/storage"
)

var (
	ordersQuery  string
	ordersFormat string
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Inspect the order store",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the orders matching --query",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.New(cfg.Storage.Backend, storage.SeedCargo())
		if err != nil {
			return err
		}
		defer store.Close()

		orders, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		matching := filter.Items(filter.Apply(orders, filter.Criteria{Query: ordersQuery}, ""))
		return writeOrders(cmd.OutOrStdout(), matching, ordersFormat)
	},
}

func writeOrders(w io.Writer, orders []models.Cargo, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(orders)
	case "", "table":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tORIGEN\tDESTINO\tKM\tPRECIO\tFORMA PAGO")
		for _, o := range orders {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", o.ID, o.Origin, o.Destination, o.Km, o.Price, o.PaymentMethod)
		}
		s := models.Summarize(orders)
		fmt.Fprintf(tw, "\t%d orders\t\t%s\t%s\t\n", s.Count, s.TotalKm, s.TotalPrice)
		return tw.Flush()
	}
	return fmt.Errorf("unknown format %q (want table or json)", format)
}

func init() {
	ordersListCmd.Flags().StringVarP(&ordersQuery, "query", "q", "", "free-text search over id, origin and destination")
	ordersListCmd.Flags().StringVarP(&ordersFormat, "format", "f", "table", "output format: table or json")
	ordersCmd.AddCommand(ordersListCmd)
}
