package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"laundry/internal/domain"
	"laundry/internal/repository"
)

// DefaultSearchRadiusKm bounds the rider search around the customer.
const DefaultSearchRadiusKm = 15.0

// DispatchService orchestrates the order lifecycle: placement, vendor
// acceptance, rider matching and assignment, the two OTP-verified handoffs,
// and completion or cancellation.
//
// Every state change goes through the transitioner's conditional write
// ("set these fields only if status still equals X"), so concurrent callers
// racing on the same order resolve to exactly one winner; losers get a
// conflict. Broadcasts happen after the write commits and never affect its
// outcome.
type DispatchService struct {
	orderRepo      repository.OrderRepository
	transitioner   repository.OrderTransitioner
	directory      *ActorDirectory
	notifier       *Notifier
	searchRadiusKm float64
	otpLength      int
}

// NewDispatchService creates a new DispatchService. Zero values for
// searchRadiusKm and otpLength select the defaults.
func NewDispatchService(
	orderRepo repository.OrderRepository,
	transitioner repository.OrderTransitioner,
	directory *ActorDirectory,
	notifier *Notifier,
	searchRadiusKm float64,
	otpLength int,
) *DispatchService {
	if searchRadiusKm <= 0 {
		searchRadiusKm = DefaultSearchRadiusKm
	}
	if otpLength <= 0 {
		otpLength = DefaultOTPLength
	}
	return &DispatchService{
		orderRepo:      orderRepo,
		transitioner:   transitioner,
		directory:      directory,
		notifier:       notifier,
		searchRadiusKm: searchRadiusKm,
		otpLength:      otpLength,
	}
}

// PlaceOrderRequest contains the parameters for placing an order.
type PlaceOrderRequest struct {
	UserID   string
	VendorID string
	Price    float64
	Type     string
	PickTime string
	DropTime string
	Pickup   *domain.Coordinate
	Drop     *domain.Coordinate
}

// PlaceOrder validates the actors and input, persists a PENDING order and
// notifies the vendor. Nothing is persisted when validation fails.
func (s *DispatchService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*domain.Order, error) {
	if req.UserID == "" || req.VendorID == "" {
		return nil, ErrInvalidActorID
	}

	if req.Price <= 0 {
		return nil, ErrInvalidPrice
	}

	serviceType, err := ValidateServiceType(req.Type)
	if err != nil {
		return nil, err
	}

	pickTime, err := time.Parse(time.RFC3339, req.PickTime)
	if err != nil {
		return nil, ErrInvalidTimeWindow
	}
	dropTime, err := time.Parse(time.RFC3339, req.DropTime)
	if err != nil {
		return nil, ErrInvalidTimeWindow
	}

	if req.Pickup != nil && !ValidCoordinate(*req.Pickup) {
		return nil, ErrInvalidCoordinates
	}
	if req.Drop != nil && !ValidCoordinate(*req.Drop) {
		return nil, ErrInvalidCoordinates
	}

	if _, err := s.directory.GetActor(ctx, req.UserID); err != nil {
		return nil, err
	}

	vendor, err := s.directory.GetActor(ctx, req.VendorID)
	if err != nil {
		return nil, err
	}
	if !vendor.HasRole(domain.RoleVendor) {
		return nil, ErrActorNotVendor
	}

	now := time.Now()
	order := &domain.Order{
		ID:        uuid.New().String(),
		Price:     req.Price,
		Type:      serviceType,
		Status:    domain.OrderStatusPending,
		UserID:    req.UserID,
		VendorID:  req.VendorID,
		PickTime:  pickTime,
		DropTime:  dropTime,
		Pickup:    req.Pickup,
		Drop:      req.Drop,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.OrderPlaced(ctx, order)
	}

	return order, nil
}

// VendorAcceptRequest contains the parameters for vendor acceptance.
type VendorAcceptRequest struct {
	OrderID string
	ActorID string
}

// VendorAccept moves a PENDING order to ACCEPTED, minting the customer-facing
// OTP in the same atomic write, then searches for riders near the customer
// and broadcasts availability to each match.
func (s *DispatchService) VendorAccept(ctx context.Context, req VendorAcceptRequest) (*domain.Order, error) {
	if req.OrderID == "" {
		return nil, ErrInvalidOrderID
	}
	if req.ActorID == "" {
		return nil, ErrInvalidActorID
	}

	actor, err := s.directory.GetActor(ctx, req.ActorID)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if order.VendorID != req.ActorID && !actor.HasRole(domain.RoleAdmin) {
		return nil, ErrNotOrderVendor
	}

	if order.Status != domain.OrderStatusPending {
		return nil, ErrOrderNotPending
	}

	otp, err := GenerateOTP(s.otpLength)
	if err != nil {
		return nil, err
	}

	updated := *order
	updated.Status = domain.OrderStatusAccepted
	updated.OTP = otp
	updated.UpdatedAt = time.Now()

	if err := s.transitioner.Transition(ctx, &updated, domain.OrderStatusPending); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrOrderNotPending
		}
		return nil, err
	}

	// Rider search runs after the commit; a slow or failing broadcast can
	// no longer affect the transition.
	s.broadcastToNearbyRiders(ctx, &updated)

	return &updated, nil
}

// broadcastToNearbyRiders notifies every rider within the search radius of
// the customer. Candidates without a usable location are skipped, never
// fatal for the batch.
func (s *DispatchService) broadcastToNearbyRiders(ctx context.Context, order *domain.Order) {
	if s.notifier == nil {
		return
	}

	customer, err := s.directory.GetActor(ctx, order.UserID)
	if err != nil || customer.Location == nil || !ValidCoordinate(*customer.Location) {
		return
	}

	riders, err := s.directory.ListByRole(ctx, domain.RoleRider)
	if err != nil {
		return
	}

	for _, rider := range riders {
		if rider.Location == nil || !ValidCoordinate(*rider.Location) {
			continue
		}
		if Distance(*customer.Location, *rider.Location) > s.searchRadiusKm {
			continue
		}
		s.notifier.OrderAvailable(ctx, order, customer, rider.ID)
	}
}

// RiderAcceptRequest contains the parameters for rider assignment.
type RiderAcceptRequest struct {
	OrderID string
	ActorID string
}

// RiderAccept assigns the first rider whose conditional write finds the
// order still ACCEPTED, moving it to TO_CLIENT. Losers of the race get a
// conflict. The customer is notified with the rider identity and the
// pickup OTP.
func (s *DispatchService) RiderAccept(ctx context.Context, req RiderAcceptRequest) (*domain.Order, error) {
	if req.OrderID == "" {
		return nil, ErrInvalidOrderID
	}
	if req.ActorID == "" {
		return nil, ErrInvalidActorID
	}

	rider, err := s.directory.GetActor(ctx, req.ActorID)
	if err != nil {
		return nil, err
	}
	if !rider.HasRole(domain.RoleRider) {
		return nil, ErrActorNotRider
	}

	order, err := s.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if order.Status != domain.OrderStatusAccepted {
		return nil, ErrOrderNotAccepted
	}

	updated := *order
	updated.RiderID = rider.ID
	updated.Status = domain.OrderStatusToClient
	updated.UpdatedAt = time.Now()

	if err := s.transitioner.Transition(ctx, &updated, domain.OrderStatusAccepted); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrOrderNotAccepted
		}
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.RiderAssigned(ctx, &updated, rider)
	}

	return &updated, nil
}

// VerifyRequest contains the parameters for an OTP verification step.
type VerifyRequest struct {
	OrderID string
	Code    string
}

// VerifyPickup checks the customer-revealed OTP at the pickup handoff. On a
// match the order moves TO_CLIENT -> TO_VENDOR and the code is rotated to a
// fresh vendor-facing one in the same atomic write; the vendor is notified
// with the new code. A mismatch changes nothing.
func (s *DispatchService) VerifyPickup(ctx context.Context, req VerifyRequest) (*domain.Order, error) {
	order, err := s.loadForVerification(ctx, req, domain.OrderStatusToClient, ErrOrderNotAwaitingPickup)
	if err != nil {
		return nil, err
	}

	otp, err := GenerateOTP(s.otpLength)
	if err != nil {
		return nil, err
	}

	updated := *order
	updated.Status = domain.OrderStatusToVendor
	updated.OTP = otp
	updated.UpdatedAt = time.Now()

	if err := s.transitioner.Transition(ctx, &updated, domain.OrderStatusToClient); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrOrderNotAwaitingPickup
		}
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.PickupVerified(ctx, &updated)
	}

	return &updated, nil
}

// VerifyDelivery checks the vendor-revealed OTP at the delivery handoff. On
// a match the order completes: TO_VENDOR -> COMPLETED with completed_at
// stamped, the spent code cleared, and all three parties notified.
func (s *DispatchService) VerifyDelivery(ctx context.Context, req VerifyRequest) (*domain.Order, error) {
	order, err := s.loadForVerification(ctx, req, domain.OrderStatusToVendor, ErrOrderNotAwaitingDelivery)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updated := *order
	updated.Status = domain.OrderStatusCompleted
	updated.OTP = ""
	updated.CompletedAt = now
	updated.UpdatedAt = now

	if err := s.transitioner.Transition(ctx, &updated, domain.OrderStatusToVendor); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrOrderNotAwaitingDelivery
		}
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.OrderCompleted(ctx, &updated)
	}

	return &updated, nil
}

// loadForVerification fetches the order and checks state and code. Exact
// string compare, no normalization.
func (s *DispatchService) loadForVerification(ctx context.Context, req VerifyRequest, want domain.OrderStatus, stateErr error) (*domain.Order, error) {
	if req.OrderID == "" {
		return nil, ErrInvalidOrderID
	}
	if req.Code == "" {
		return nil, ErrMissingOTP
	}

	order, err := s.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if order.Status != want {
		return nil, stateErr
	}

	if req.Code != order.OTP {
		return nil, ErrOTPMismatch
	}

	return order, nil
}

// CancelOrderRequest contains the parameters for cancelling an order.
type CancelOrderRequest struct {
	OrderID string
	ActorID string
	Reason  string
}

// CancelOrder moves a non-terminal order to CANCELLED. Permitted for admins
// and for the order's customer or vendor.
func (s *DispatchService) CancelOrder(ctx context.Context, req CancelOrderRequest) (*domain.Order, error) {
	if req.OrderID == "" {
		return nil, ErrInvalidOrderID
	}
	if req.ActorID == "" {
		return nil, ErrInvalidActorID
	}

	actor, err := s.directory.GetActor(ctx, req.ActorID)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if !actor.HasRole(domain.RoleAdmin) && req.ActorID != order.UserID && req.ActorID != order.VendorID {
		return nil, ErrNotAuthorized
	}

	if order.Status.Terminal() {
		return nil, ErrOrderClosed
	}

	now := time.Now()
	updated := *order
	updated.Status = domain.OrderStatusCancelled
	updated.OTP = ""
	updated.CancelledAt = now
	updated.CancelReason = req.Reason
	updated.UpdatedAt = now

	if err := s.transitioner.Transition(ctx, &updated, order.Status); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrOrderClosed
		}
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.OrderCancelled(ctx, &updated)
	}

	return &updated, nil
}

// RefundOrderRequest contains the parameters for refunding an order.
type RefundOrderRequest struct {
	OrderID string
	ActorID string
}

// RefundOrder moves a non-terminal order to REFUNDED. Admin only.
func (s *DispatchService) RefundOrder(ctx context.Context, req RefundOrderRequest) (*domain.Order, error) {
	if req.OrderID == "" {
		return nil, ErrInvalidOrderID
	}
	if req.ActorID == "" {
		return nil, ErrInvalidActorID
	}

	actor, err := s.directory.GetActor(ctx, req.ActorID)
	if err != nil {
		return nil, err
	}
	if !actor.HasRole(domain.RoleAdmin) {
		return nil, ErrNotAuthorized
	}

	order, err := s.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if order.Status.Terminal() {
		return nil, ErrOrderClosed
	}

	updated := *order
	updated.Status = domain.OrderStatusRefunded
	updated.OTP = ""
	updated.UpdatedAt = time.Now()

	if err := s.transitioner.Transition(ctx, &updated, order.Status); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrOrderClosed
		}
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.OrderRefunded(ctx, &updated)
	}

	return &updated, nil
}

// GetOrder retrieves an order by ID.
func (s *DispatchService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	return s.orderRepo.GetByID(ctx, orderID)
}

// ListOrders retrieves recent orders, optionally scoped to a customer.
func (s *DispatchService) ListOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	if userID != "" {
		return s.orderRepo.GetByUserID(ctx, userID)
	}
	return s.orderRepo.GetAll(ctx)
}

// DeleteOrder removes an order record. Administrative cleanup only.
func (s *DispatchService) DeleteOrder(ctx context.Context, orderID, actorID string) error {
	if orderID == "" {
		return ErrInvalidOrderID
	}
	if actorID == "" {
		return ErrInvalidActorID
	}

	actor, err := s.directory.GetActor(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.HasRole(domain.RoleAdmin) {
		return ErrNotAuthorized
	}

	return s.orderRepo.Delete(ctx, orderID)
}

// ValidateServiceType validates a service type string.
func ValidateServiceType(t string) (domain.ServiceType, error) {
	switch domain.ServiceType(t) {
	case domain.ServiceTypeWash, domain.ServiceTypeDryClean, domain.ServiceTypeIron:
		return domain.ServiceType(t), nil
	default:
		return "", ErrInvalidServiceType
	}
}
