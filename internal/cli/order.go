package cli

import (
	"context"
	"errors"

	"github.com/campusbites/campusbites/internal/api"
	"github.com/campusbites/campusbites/internal/cart"
	"github.com/campusbites/campusbites/internal/domain"
)

// ErrEmptyCart is returned by PlaceOrder before any network call is made.
var ErrEmptyCart = errors.New("cart is empty")

// OrderPlacer is the slice of the API client PlaceOrder needs.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req api.CreateOrderRequest) (*domain.Order, error)
}

// PlaceOrder submits the cart as an order. The cart is cleared only after the
// server accepts the order; on any failure it is left intact so the order can
// be resubmitted.
func PlaceOrder(ctx context.Context, client OrderPlacer, cartStore *cart.Store, note string) (*domain.Order, error) {
	snapshot := cartStore.Cart()
	if snapshot.Empty() {
		return nil, ErrEmptyCart
	}

	ord, err := client.CreateOrder(ctx, api.CreateOrderRequest{
		CanteenID:           snapshot.CanteenID,
		Items:               snapshot.OrderItems(),
		SpecialInstructions: note,
	})
	if err != nil {
		return nil, err
	}

	if err := cartStore.Clear(); err != nil {
		return ord, err
	}
	return ord, nil
}
