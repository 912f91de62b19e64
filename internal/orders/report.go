package orders

import "sort"

type ProductSales struct {
	ProductName string `json:"product_name"`
	TotalSold   int    `json:"total_sold"`
}

// Summarize totals quantity sold per product over non-canceled orders,
// counting both cart and single-product orders. Sorted by product name.
func Summarize(all []Order) []ProductSales {
	totals := map[string]int{}
	for i := range all {
		if all[i].Status == StatusCanceled {
			continue
		}
		for _, it := range all[i].StockItems() {
			totals[it.ProductName] += it.Quantity
		}
	}
	out := make([]ProductSales, 0, len(totals))
	for name, n := range totals {
		out = append(out, ProductSales{ProductName: name, TotalSold: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out
}
