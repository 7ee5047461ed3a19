package models

import "github.com/shopspring/decimal"

// CartLine is a single product entry in the cart, keyed by ProductID.
type CartLine struct {
	ProductID   uint64          `json:"productId,string"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"price"`
	StoreID     uint64          `json:"storeId,string"`
	Quantity    int             `json:"quantity,string"`
}

// LineTotal is UnitPrice * Quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is a read view of the cart. Totals are derived from Lines on every read.
type Cart struct {
	Lines      []CartLine      `json:"items"`
	TotalItems int             `json:"totalItems"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// NewCart builds a cart view, computing the derived totals from scratch.
func NewCart(lines []CartLine) Cart {
	c := Cart{Lines: lines, Subtotal: decimal.Zero}
	if c.Lines == nil {
		c.Lines = []CartLine{}
	}
	for _, l := range lines {
		c.TotalItems += l.Quantity
		c.Subtotal = c.Subtotal.Add(l.LineTotal())
	}
	return c
}
