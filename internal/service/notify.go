package service

import (
	"context"
	"log"

	"laundry/internal/domain"
	"laundry/internal/redis"
)

// Event names published on the broadcast channels.
const (
	EventOrderPlaced    = "ORDER_PLACED"
	EventOrderAvailable = "ORDER_AVAILABLE"
	EventRiderAssigned  = "RIDER_ASSIGNED"
	EventPickupVerified = "PICKUP_VERIFIED"
	EventOrderCompleted = "ORDER_COMPLETED"
	EventOrderCancelled = "ORDER_CANCELLED"
	EventOrderRefunded  = "ORDER_REFUNDED"
)

// Notifier publishes order lifecycle events to role-scoped channels.
// Every method is fire-and-forget: transport errors are logged and swallowed
// so a failed broadcast can never fail or roll back a committed transition.
type Notifier struct {
	broadcaster redis.BroadcasterInterface
}

// NewNotifier creates a new Notifier.
func NewNotifier(broadcaster redis.BroadcasterInterface) *Notifier {
	return &Notifier{broadcaster: broadcaster}
}

func userChannel(id string) string   { return "user:" + id }
func vendorChannel(id string) string { return "vendor:" + id }
func riderChannel(id string) string  { return "rider:" + id }
func orderChannel(id string) string  { return "order:" + id }

// OrderPlaced tells the vendor a new order is waiting for acceptance.
func (n *Notifier) OrderPlaced(ctx context.Context, order *domain.Order) {
	n.publish(ctx, vendorChannel(order.VendorID), EventOrderPlaced, orderSummary(order))
}

// OrderAvailable tells a matched rider that an accepted order can be picked
// up. The payload carries the customer location and vendor identity but
// never the OTP.
func (n *Notifier) OrderAvailable(ctx context.Context, order *domain.Order, customer *domain.Actor, riderID string) {
	data := orderSummary(order)
	data["vendor_id"] = order.VendorID
	if customer.Location != nil {
		data["customer_lat"] = customer.Location.Lat
		data["customer_lng"] = customer.Location.Lng
	}
	n.publish(ctx, riderChannel(riderID), EventOrderAvailable, data)
}

// RiderAssigned tells the customer which rider is coming and delivers the
// pickup OTP. This is the only channel the customer-facing code travels on.
func (n *Notifier) RiderAssigned(ctx context.Context, order *domain.Order, rider *domain.Actor) {
	data := orderSummary(order)
	data["rider_id"] = rider.ID
	data["rider_name"] = rider.Name
	data["rider_phone"] = rider.Phone
	data["otp"] = order.OTP
	n.publish(ctx, userChannel(order.UserID), EventRiderAssigned, data)
}

// PickupVerified tells the vendor the rider has collected the item and
// delivers the rotated vendor-facing OTP.
func (n *Notifier) PickupVerified(ctx context.Context, order *domain.Order) {
	data := orderSummary(order)
	data["rider_id"] = order.RiderID
	data["otp"] = order.OTP
	n.publish(ctx, vendorChannel(order.VendorID), EventPickupVerified, data)
}

// OrderCompleted tells all three parties the order reached its terminal
// success state.
func (n *Notifier) OrderCompleted(ctx context.Context, order *domain.Order) {
	data := orderSummary(order)
	data["completed_at"] = order.CompletedAt
	n.publish(ctx, userChannel(order.UserID), EventOrderCompleted, data)
	n.publish(ctx, vendorChannel(order.VendorID), EventOrderCompleted, data)
	if order.RiderID != "" {
		n.publish(ctx, riderChannel(order.RiderID), EventOrderCompleted, data)
	}
}

// OrderCancelled tells the involved parties the order was cancelled.
func (n *Notifier) OrderCancelled(ctx context.Context, order *domain.Order) {
	data := orderSummary(order)
	data["reason"] = order.CancelReason
	n.publish(ctx, userChannel(order.UserID), EventOrderCancelled, data)
	n.publish(ctx, vendorChannel(order.VendorID), EventOrderCancelled, data)
	if order.RiderID != "" {
		n.publish(ctx, riderChannel(order.RiderID), EventOrderCancelled, data)
	}
}

// OrderRefunded tells the customer and vendor the order was refunded.
func (n *Notifier) OrderRefunded(ctx context.Context, order *domain.Order) {
	data := orderSummary(order)
	n.publish(ctx, userChannel(order.UserID), EventOrderRefunded, data)
	n.publish(ctx, vendorChannel(order.VendorID), EventOrderRefunded, data)
}

// publish sends the event to the scoped channel and mirrors it on the
// order-scoped channel.
func (n *Notifier) publish(ctx context.Context, channel, event string, data map[string]any) {
	if n.broadcaster == nil {
		return
	}
	if err := n.broadcaster.Publish(ctx, channel, event, data); err != nil {
		log.Printf("broadcast %s to %s failed: %v", event, channel, err)
	}
	if orderID, ok := data["order_id"].(string); ok {
		if err := n.broadcaster.Publish(ctx, orderChannel(orderID), event, data); err != nil {
			log.Printf("broadcast %s to order channel failed: %v", event, err)
		}
	}
}

// orderSummary builds the common event payload. The OTP is deliberately
// absent; events that must carry it add it explicitly.
func orderSummary(order *domain.Order) map[string]any {
	return map[string]any{
		"order_id": order.ID,
		"price":    order.Price,
		"type":     string(order.Type),
		"status":   string(order.Status),
	}
}
