package orders

import (
	"time"

	"github.com/ariefcatur/ricemart-orders/internal/inventory"
	"github.com/shopspring/decimal"
)

// LineItem is one cart entry. ProductName joins to the stock ledger by equality.
type LineItem struct {
	ProductName string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// SingleProduct is the legacy one-product order shape; its price is the order total.
type SingleProduct struct {
	ProductName string `json:"product_name"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
}

// Purchaser combines the verified identity (Email, UID) with unverified
// contact details from the order form.
type Purchaser struct {
	Email   string `json:"email"`
	UID     string `json:"uid"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Order struct {
	ID         string          `json:"id"`
	LineItems  []LineItem      `json:"items"`
	Single     *SingleProduct  `json:"single,omitempty"`
	Purchaser  Purchaser       `json:"purchaser"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     Status          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Deducted is what the ledger actually took at creation and is the
	// only quantity a cancel gives back.
	Deducted []inventory.Item `json:"stock_deducted"`
}

// StockItems is the set of quantities this order asks the ledger for.
func (o *Order) StockItems() []inventory.Item {
	if len(o.LineItems) > 0 {
		out := make([]inventory.Item, 0, len(o.LineItems))
		for _, li := range o.LineItems {
			out = append(out, inventory.Item{ProductName: li.ProductName, Quantity: li.Quantity})
		}
		return out
	}
	if o.Single != nil && o.Single.Quantity > 0 {
		return []inventory.Item{{ProductName: o.Single.ProductName, Quantity: o.Single.Quantity}}
	}
	return nil
}

// ProductNames returns the distinct product names in StockItems order.
func (o *Order) ProductNames() []string {
	return distinctNames(o.StockItems())
}
