package postgres

import (
	"strings"
	"testing"
)

func TestSchema_DefinesTables(t *testing.T) {
	for _, table := range []string{"stock", "orders", "order_line_items", "order_stock_deductions", "catalog_products"} {
		if !strings.Contains(schema, "CREATE TABLE IF NOT EXISTS "+table+" (") {
			t.Errorf("expected schema to define %s", table)
		}
	}
}
