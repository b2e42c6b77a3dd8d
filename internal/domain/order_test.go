package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransition(t *testing.T) {
	allowed := map[OrderStatus][]OrderStatus{
		OrderStatusPlaced:    {OrderStatusAccepted, OrderStatusRejected},
		OrderStatusAccepted:  {OrderStatusDelivered},
		OrderStatusRejected:  nil,
		OrderStatusDelivered: nil,
	}

	statuses := []OrderStatus{
		OrderStatusPlaced, OrderStatusAccepted, OrderStatusRejected, OrderStatusDelivered,
	}

	for from, targets := range allowed {
		permitted := make(map[OrderStatus]bool)
		for _, target := range targets {
			permitted[target] = true
		}
		for _, to := range statuses {
			assert.Equal(t, permitted[to], from.CanTransition(to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestOrderStatus_NoBackwardTransitions(t *testing.T) {
	assert.False(t, OrderStatusAccepted.CanTransition(OrderStatusPlaced))
	assert.False(t, OrderStatusDelivered.CanTransition(OrderStatusAccepted))
	assert.False(t, OrderStatusDelivered.CanTransition(OrderStatusPlaced))
	assert.False(t, OrderStatusRejected.CanTransition(OrderStatusPlaced))
}

func TestOrderStatus_NextActions(t *testing.T) {
	assert.Equal(t, []Action{ActionAccept, ActionReject}, OrderStatusPlaced.NextActions())

	// once accepted, accept/reject are no longer offered, deliver is
	assert.Equal(t, []Action{ActionDeliver}, OrderStatusAccepted.NextActions())

	assert.Empty(t, OrderStatusRejected.NextActions())
	assert.Empty(t, OrderStatusDelivered.NextActions())
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.False(t, OrderStatusPlaced.IsTerminal())
	assert.False(t, OrderStatusAccepted.IsTerminal())
	assert.True(t, OrderStatusRejected.IsTerminal())
	assert.True(t, OrderStatusDelivered.IsTerminal())
}

func TestAction_Target(t *testing.T) {
	assert.Equal(t, OrderStatusAccepted, ActionAccept.Target())
	assert.Equal(t, OrderStatusRejected, ActionReject.Target())
	assert.Equal(t, OrderStatusDelivered, ActionDeliver.Target())
}
