package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category is the fixed set of catalog sections shown in the storefront.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryFashion     Category = "fashion"
	CategoryHome        Category = "home"
	CategoryAccessories Category = "accessories"
)

// Categories lists every valid category in storefront order.
var Categories = []Category{CategoryElectronics, CategoryFashion, CategoryHome, CategoryAccessories}

// ParseCategory normalises s and reports whether it names a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	Images      []string        `json:"images,omitempty"`
	Rating      float64         `json:"rating"`
	Featured    bool            `json:"featured,omitempty"`
	Stock       *int            `json:"stock,omitempty"`
	Sales       int             `json:"sales,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}
