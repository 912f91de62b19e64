package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ariefcatur/ricemart-orders/internal/auth"
	"github.com/ariefcatur/ricemart-orders/internal/inventory"
	"github.com/ariefcatur/ricemart-orders/internal/orders"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := rootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestToken_SignsVerifiableToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	out, err := run(t, "token", "admin@ricemart.com", "--admin")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	id, err := auth.NewJWTVerifier("cli-secret", "", nil).Verify(context.Background(), strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.Email != "admin@ricemart.com" || !id.Admin {
		t.Errorf("unexpected identity %+v", id)
	}
}

func TestToken_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := run(t, "token", "a@b.c"); err == nil {
		t.Error("expected error without JWT_SECRET")
	}
}

func TestStockPopulate_RejectsBadQuantity(t *testing.T) {
	for _, qty := range []string{"abc", "0", "-5"} {
		if _, err := run(t, "stock", "populate", "--", "Basmati Rice", qty); err == nil || !strings.Contains(err.Error(), "positive integer") {
			t.Errorf("qty %q: expected quantity error, got %v", qty, err)
		}
	}
}

func TestPrintStock(t *testing.T) {
	var buf bytes.Buffer
	printStock(&buf, []inventory.Entry{{Name: "Basmati Rice", Bought: 100, Available: 95}})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "NAME") || !strings.Contains(lines[1], "95") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestPrintSales(t *testing.T) {
	var buf bytes.Buffer
	printSales(&buf, []orders.ProductSales{{ProductName: "Basmati Rice", TotalSold: 8}})
	if !strings.Contains(buf.String(), "Basmati Rice") || !strings.Contains(buf.String(), "8") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
