// Package catalog manages the rice products offered in the store. Products
// join to the stock ledger by name only.
package catalog

import (
	"strings"
	"time"

	"github.com/ariefcatur/ricemart-orders/internal/apperr"
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryBiryani Category = "Biryani"
	CategoryIdly    Category = "Idly"
	CategoryDosa    Category = "Dosa"
	CategoryGeneral Category = "General"
)

func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.TrimSpace(s)); c {
	case CategoryBiryani, CategoryIdly, CategoryDosa, CategoryGeneral:
		return c, nil
	}
	return "", apperr.InvalidInputf("invalid category %q", s)
}

var hundred = decimal.NewFromInt(100)

type Product struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	OriginalPrice      decimal.Decimal `json:"original_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	ImageURL           string          `json:"image_url"`
	Category           Category        `json:"category"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// EffectivePrice is the original price less the discount, rounded to cents.
func (p Product) EffectivePrice() decimal.Decimal {
	if !p.DiscountPercentage.IsPositive() {
		return p.OriginalPrice
	}
	factor := hundred.Sub(p.DiscountPercentage).Div(hundred)
	return p.OriginalPrice.Mul(factor).Round(2)
}

// Draft holds client-supplied product fields. On update, zero values and
// nil pointers leave the stored field unchanged.
type Draft struct {
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	OriginalPrice      *decimal.Decimal `json:"original_price"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	ImageURL           string           `json:"image_url"`
	Category           string           `json:"category"`
}

func (d Draft) empty() bool {
	return d.Name == "" && d.Description == "" && d.OriginalPrice == nil &&
		d.DiscountPercentage == nil && d.ImageURL == "" && d.Category == ""
}

// apply copies the set fields of d onto p and validates the result.
func (d Draft) apply(p *Product) error {
	if v := strings.TrimSpace(d.Name); v != "" {
		p.Name = v
	}
	if v := strings.TrimSpace(d.Description); v != "" {
		p.Description = v
	}
	if v := strings.TrimSpace(d.ImageURL); v != "" {
		p.ImageURL = v
	}
	if d.Category != "" {
		c, err := ParseCategory(d.Category)
		if err != nil {
			return err
		}
		p.Category = c
	}
	if d.OriginalPrice != nil {
		p.OriginalPrice = *d.OriginalPrice
	}
	if d.DiscountPercentage != nil {
		p.DiscountPercentage = *d.DiscountPercentage
	}
	return validate(*p)
}

func validate(p Product) error {
	if p.Name == "" || p.Description == "" || p.ImageURL == "" || p.Category == "" {
		return apperr.InvalidInput("all fields are required: name, description, original_price, image_url, category")
	}
	if !p.OriginalPrice.IsPositive() {
		return apperr.InvalidInput("original price must be positive")
	}
	if p.DiscountPercentage.IsNegative() || p.DiscountPercentage.GreaterThan(hundred) {
		return apperr.InvalidInput("discount percentage must be between 0 and 100")
	}
	return nil
}
