package domain

import "github.com/shopspring/decimal"

// CartItem is a product held in a cart. Quantity is at least 1 while present.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal is price times quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Clone returns a copy that shares no mutable state with i.
func (i CartItem) Clone() CartItem {
	out := i
	if i.Images != nil {
		out.Images = append([]string(nil), i.Images...)
	}
	if i.Stock != nil {
		stock := *i.Stock
		out.Stock = &stock
	}
	return out
}
