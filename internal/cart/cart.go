package cart

import (
	"errors"

	"github.com/campusbites/campusbites/internal/domain"
)

// ErrCanteenMismatch is returned by AddItem when the cart already holds items
// from another canteen and the caller did not ask for a replace.
var ErrCanteenMismatch = errors.New("cart: item belongs to a different canteen")

// Line is one cart entry: a menu item reference plus a snapshot of the name
// and price captured at add time.
type Line struct {
	MenuItemID int    `json:"menu_item_id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	Quantity   int    `json:"quantity"`
}

// Cart is the in-progress order. Invariant: CanteenID is non-zero iff Items
// is non-empty, and every line belongs to the bound canteen.
//
// All methods are pure state transitions with no I/O; persistence is layered
// on by Store.
type Cart struct {
	CanteenID int    `json:"canteen_id"`
	Items     []Line `json:"items"`
}

// AddItem binds the cart to the item's canteen and increments the matching
// line, appending a new line with quantity 1 if none exists. Adding from a
// different canteen than the one bound fails with ErrCanteenMismatch unless
// replace is set, in which case the existing items are discarded first.
func (c *Cart) AddItem(item domain.MenuItem, replace bool) error {
	if len(c.Items) > 0 && c.CanteenID != item.CanteenID {
		if !replace {
			return ErrCanteenMismatch
		}
		c.Items = nil
	}

	c.CanteenID = item.CanteenID

	for i := range c.Items {
		if c.Items[i].MenuItemID == item.ID {
			c.Items[i].Quantity++
			return nil
		}
	}

	c.Items = append(c.Items, Line{
		MenuItemID: item.ID,
		Name:       item.Name,
		Price:      item.Price,
		Quantity:   1,
	})
	return nil
}

// UpdateQuantity sets the quantity of the matching line. A quantity of zero
// or less removes the line. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(menuItemID, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(menuItemID)
		return
	}
	for i := range c.Items {
		if c.Items[i].MenuItemID == menuItemID {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

// RemoveItem drops the matching line. When the last line goes, the canteen
// binding is cleared too.
func (c *Cart) RemoveItem(menuItemID int) {
	items := c.Items[:0]
	for _, line := range c.Items {
		if line.MenuItemID != menuItemID {
			items = append(items, line)
		}
	}
	c.Items = items
	if len(c.Items) == 0 {
		c.Items = nil
		c.CanteenID = 0
	}
}

// Clear empties the cart and unbinds the canteen.
func (c *Cart) Clear() {
	c.Items = nil
	c.CanteenID = 0
}

func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

// Total is the sum of price*quantity over all lines.
func (c *Cart) Total() int64 {
	var total int64
	for _, line := range c.Items {
		total += line.Price * int64(line.Quantity)
	}
	return total
}

// ItemCount is the sum of quantities over all lines.
func (c *Cart) ItemCount() int {
	var count int
	for _, line := range c.Items {
		count += line.Quantity
	}
	return count
}

// OrderItems converts the cart lines into the create-order payload shape.
func (c *Cart) OrderItems() []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(c.Items))
	for _, line := range c.Items {
		items = append(items, domain.OrderItem{
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
		})
	}
	return items
}
