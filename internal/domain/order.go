package domain

import "time"

// OrderStatus represents the current lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusAccepted  OrderStatus = "ACCEPTED"
	OrderStatusToClient  OrderStatus = "TO_CLIENT"
	OrderStatusToVendor  OrderStatus = "TO_VENDOR"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusRefunded  OrderStatus = "REFUNDED"
)

// Terminal reports whether the status is a final state that admits no
// further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled || s == OrderStatusRefunded
}

// ServiceType represents the laundry service category of an order.
type ServiceType string

const (
	ServiceTypeWash     ServiceType = "WASH"
	ServiceTypeDryClean ServiceType = "DRY_CLEAN"
	ServiceTypeIron     ServiceType = "IRON"
)

// Order represents a pickup/delivery order in the system.
type Order struct {
	ID           string
	Price        float64
	Type         ServiceType
	Status       OrderStatus
	UserID       string
	VendorID     string
	RiderID      string // empty until a rider accepts; immutable afterwards
	OTP          string // meaningful only in ACCEPTED, TO_CLIENT and TO_VENDOR
	PickTime     time.Time
	DropTime     time.Time
	Pickup       *Coordinate // optional, display only
	Drop         *Coordinate // optional, display only
	CompletedAt  time.Time
	CancelledAt  time.Time
	CancelReason string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
