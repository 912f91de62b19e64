package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ariefcatur/ricemart-orders/internal/orders"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Sales reports",
	}
	var asJSON bool
	sales := &cobra.Command{
		Use:   "sales",
		Short: "Total sold per product over non-canceled orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			all, err := (&orders.PGRepo{DB: db}).ListAll(ctx)
			if err != nil {
				return err
			}
			rows := orders.Summarize(all)
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(rows)
			}
			printSales(cmd.OutOrStdout(), rows)
			return nil
		},
	}
	sales.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")
	cmd.AddCommand(sales)
	return cmd
}

func printSales(out io.Writer, rows []orders.ProductSales) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tSOLD")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\n", r.ProductName, r.TotalSold)
	}
	_ = tw.Flush()
}
