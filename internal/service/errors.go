package service

import "errors"

var (
	// ErrInvalidOrderID is returned when the order ID is empty.
	ErrInvalidOrderID = errors.New("invalid order id")

	// ErrInvalidActorID is returned when an actor ID is empty.
	ErrInvalidActorID = errors.New("invalid actor id")

	// ErrInvalidPrice is returned when the order price is not positive.
	ErrInvalidPrice = errors.New("price must be positive")

	// ErrInvalidServiceType is returned when the service type is not in the
	// supported set.
	ErrInvalidServiceType = errors.New("invalid service type")

	// ErrInvalidTimeWindow is returned when a pick or drop timestamp does
	// not parse.
	ErrInvalidTimeWindow = errors.New("invalid pick/drop time")

	// ErrInvalidCoordinates is returned when a supplied coordinate pair is
	// out of range or not finite.
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrInvalidRole is returned when an unknown role is supplied.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidActorName is returned when the actor name is empty.
	ErrInvalidActorName = errors.New("invalid actor name")

	// ErrActorNotVendor is returned when the referenced actor does not hold
	// the vendor role.
	ErrActorNotVendor = errors.New("actor does not hold vendor role")

	// ErrActorNotRider is returned when the accepting actor does not hold
	// the rider role.
	ErrActorNotRider = errors.New("actor does not hold rider role")

	// ErrMissingOTP is returned when a verification request carries no code.
	ErrMissingOTP = errors.New("missing otp")

	// ErrOTPMismatch is returned when the submitted code does not equal the
	// stored one. The order is left untouched.
	ErrOTPMismatch = errors.New("otp does not match")

	// ErrNotOrderVendor is returned when an actor tries to accept an order
	// that belongs to a different vendor.
	ErrNotOrderVendor = errors.New("order belongs to a different vendor")

	// ErrNotAuthorized is returned when the actor is neither an admin nor a
	// party to the order.
	ErrNotAuthorized = errors.New("actor not authorized for this order")

	// ErrOrderNotPending is returned when vendor acceptance finds the order
	// past the PENDING state.
	ErrOrderNotPending = errors.New("order not pending")

	// ErrOrderNotAccepted is returned when rider assignment finds the order
	// outside the ACCEPTED state, including when another rider won the race.
	ErrOrderNotAccepted = errors.New("order not open for rider assignment")

	// ErrOrderNotAwaitingPickup is returned when pickup verification finds
	// the order outside the TO_CLIENT state.
	ErrOrderNotAwaitingPickup = errors.New("order not awaiting pickup verification")

	// ErrOrderNotAwaitingDelivery is returned when delivery verification
	// finds the order outside the TO_VENDOR state.
	ErrOrderNotAwaitingDelivery = errors.New("order not awaiting delivery verification")

	// ErrOrderClosed is returned when a transition targets an order already
	// in a terminal state.
	ErrOrderClosed = errors.New("order already in a terminal state")
)
