package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/ariefcatur/ricemart-orders/internal/inventory"
	"github.com/spf13/cobra"
)

func stockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Inspect and populate the stock ledger",
	}
	cmd.AddCommand(stockListCmd())
	cmd.AddCommand(stockPopulateCmd())
	return cmd
}

func stockListCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stock entries by name",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			entries, err := (&inventory.PGStore{DB: db}).List(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(entries)
			}
			printStock(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")
	return cmd
}

func printStock(out io.Writer, entries []inventory.Entry) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tBOUGHT\tAVAILABLE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", e.Name, e.Bought, e.Available)
	}
	_ = tw.Flush()
}

func stockPopulateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "populate <name> <quantity>",
		Short: "Add quantity to a product, creating its entry if absent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil || qty <= 0 {
				return fmt.Errorf("quantity must be a positive integer, got %q", args[1])
			}
			ctx := cmd.Context()
			db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			e, created, err := (&inventory.PGStore{DB: db}).Populate(ctx, args[0], qty)
			if err != nil {
				return err
			}
			verb := "updated"
			if created {
				verb = "created"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: bought=%d available=%d\n", verb, e.Name, e.Bought, e.Available)
			return nil
		},
	}
}
