package services

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/models"

	"github.com/shopspring/decimal"
)

// Address is the delivery form filled in at checkout.
type Address struct {
	FullName string `json:"fullName"`
	Street   string `json:"street"`
	City     string `json:"city"`
	Zip      string `json:"zip"`
}

// String renders the address as "fullName, street, city zip".
func (a Address) String() string {
	return fmt.Sprintf("%s, %s, %s %s", a.FullName, a.Street, a.City, a.Zip)
}

func (a Address) validate() (Address, error) {
	a.FullName = strings.TrimSpace(a.FullName)
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.Zip = strings.TrimSpace(a.Zip)
	switch {
	case a.FullName == "":
		return a, invalid("fullName", "Full name is required.")
	case a.Street == "":
		return a, invalid("street", "Street address is required.")
	case a.City == "":
		return a, invalid("city", "City is required.")
	case a.Zip == "":
		return a, invalid("zip", "ZIP code is required.")
	}
	return a, nil
}

// Quote is the price breakdown of a cart.
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// Receipt is returned by a successful checkout.
type Receipt struct {
	Order *models.Order `json:"order"`
	Quote
}

// CheckoutService turns the signed-in user's cart into an order.
type CheckoutService struct {
	auth     *AuthService
	cart     *CartService
	orders   *OrderService
	shipping decimal.Decimal
}

// NewCheckoutService creates a new CheckoutService charging a flat shipping fee.
func NewCheckoutService(auth *AuthService, cart *CartService, orders *OrderService, shippingFee int64) *CheckoutService {
	return &CheckoutService{
		auth:     auth,
		cart:     cart,
		orders:   orders,
		shipping: decimal.NewFromInt(shippingFee),
	}
}

// QuoteCart prices a cart. Shipping is only charged on a non-empty cart.
func (s *CheckoutService) QuoteCart(cart models.Cart) Quote {
	q := Quote{Subtotal: cart.Subtotal, Shipping: decimal.Zero}
	if len(cart.Lines) > 0 {
		q.Shipping = s.shipping
	}
	q.Total = q.Subtotal.Add(q.Shipping)
	return q
}

// Checkout places an order for the current cart and empties it.
func (s *CheckoutService) Checkout(ctx context.Context, addr Address) (*Receipt, error) {
	session := s.auth.Current()
	if session == nil {
		return nil, ErrNoSession
	}
	addr, err := addr.validate()
	if err != nil {
		return nil, err
	}

	cart := s.cart.Cart(ctx)
	if len(cart.Lines) == 0 {
		return nil, invalid("cart", "Your cart is empty.")
	}

	items := make([]models.OrderItem, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		items = append(items, models.OrderItem{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}

	order, err := s.orders.PlaceOrder(ctx, PlaceOrderInput{
		UserIdentifier: session.Identifier,
		Items:          items,
		Address:        addr.String(),
	})
	if err != nil {
		return nil, err
	}
	s.cart.Clear(ctx)

	return &Receipt{Order: order, Quote: s.QuoteCart(cart)}, nil
}
