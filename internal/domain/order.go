package domain

import "time"

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusRejected  OrderStatus = "rejected"
	OrderStatusDelivered OrderStatus = "delivered"
)

// Action is a status transition the backend exposes as its own endpoint.
type Action string

const (
	ActionAccept  Action = "accept"
	ActionReject  Action = "reject"
	ActionDeliver Action = "deliver"
)

type OrderItem struct {
	MenuItemID int   `json:"menu_item_id"`
	Quantity   int   `json:"quantity"`
	Price      int64 `json:"price,omitempty"`
}

type Order struct {
	ID                  int         `json:"id"`
	UserID              int         `json:"user_id"`
	CanteenID           int         `json:"canteen_id"`
	Items               []OrderItem `json:"items"`
	Total               int64       `json:"total"`
	Status              OrderStatus `json:"status"`
	SpecialInstructions string      `json:"special_instructions,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusRejected || s == OrderStatusDelivered
}

// CanTransition reports whether the backend permits moving from s to next.
// The vocabulary only moves forward: placed -> accepted|rejected,
// accepted -> delivered.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	switch s {
	case OrderStatusPlaced:
		return next == OrderStatusAccepted || next == OrderStatusRejected
	case OrderStatusAccepted:
		return next == OrderStatusDelivered
	default:
		return false
	}
}

// NextActions lists the transition endpoints a fulfilment view should offer
// for an order in status s. Terminal statuses offer nothing.
func (s OrderStatus) NextActions() []Action {
	switch s {
	case OrderStatusPlaced:
		return []Action{ActionAccept, ActionReject}
	case OrderStatusAccepted:
		return []Action{ActionDeliver}
	default:
		return nil
	}
}

// Target returns the status an action moves an order into.
func (a Action) Target() OrderStatus {
	switch a {
	case ActionAccept:
		return OrderStatusAccepted
	case ActionReject:
		return OrderStatusRejected
	case ActionDeliver:
		return OrderStatusDelivered
	default:
		return ""
	}
}
