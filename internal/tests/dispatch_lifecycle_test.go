package tests

import (
	"context"
	"errors"
	"testing"

	"laundry/internal/domain"
	"laundry/internal/repository"
	"laundry/internal/service"
)

// dispatchFixture bundles the service under test with its mocks.
type dispatchFixture struct {
	orderRepo     *MockOrderRepository
	actorRepo     *MockActorRepository
	broadcaster   *MockBroadcaster
	locationStore *MockLocationStore
	cache         *MockActorCache
	directory     *service.ActorDirectory
	dispatch      *service.DispatchService
}

func newDispatchFixture() *dispatchFixture {
	orderRepo := NewMockOrderRepository()
	actorRepo := NewMockActorRepository()
	broadcaster := NewMockBroadcaster()
	locationStore := NewMockLocationStore()
	cache := NewMockActorCache()

	directory := service.NewActorDirectory(actorRepo, cache, locationStore)
	notifier := service.NewNotifier(broadcaster)
	dispatch := service.NewDispatchService(orderRepo, orderRepo, directory, notifier, 0, 0)

	return &dispatchFixture{
		orderRepo:     orderRepo,
		actorRepo:     actorRepo,
		broadcaster:   broadcaster,
		locationStore: locationStore,
		cache:         cache,
		directory:     directory,
		dispatch:      dispatch,
	}
}

func (f *dispatchFixture) seedActor(id string, roles []string, loc *domain.Coordinate) {
	f.actorRepo.AddActor(&domain.Actor{
		ID:       id,
		Name:     "actor " + id,
		Phone:    "+910000000000",
		Roles:    roles,
		Location: loc,
	})
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func TestFullOrderLifecycle(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	ctx := context.Background()

	customerLoc := &domain.Coordinate{Lat: 12.9716, Lng: 77.5946}
	f.seedActor("user-1", []string{domain.RoleUser}, customerLoc)
	f.seedActor("vendor-1", []string{domain.RoleVendor}, &domain.Coordinate{Lat: 12.9750, Lng: 77.6000})
	f.seedActor("rider-1", []string{domain.RoleRider}, &domain.Coordinate{Lat: 12.9720, Lng: 77.5950})

	// Place.
	order, err := f.dispatch.PlaceOrder(ctx, service.PlaceOrderRequest{
		UserID:   "user-1",
		VendorID: "vendor-1",
		Price:    500,
		Type:     "WASH",
		PickTime: "2026-09-01T10:00:00Z",
		DropTime: "2026-09-02T18:00:00Z",
		Pickup:   customerLoc,
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}
	if order.Status != domain.OrderStatusPending {
		t.Errorf("expected status PENDING, got %s", order.Status)
	}
	if order.OTP != "" {
		t.Errorf("no OTP should exist before acceptance, got %q", order.OTP)
	}
	if events := f.broadcaster.EventsFor("vendor:vendor-1"); len(events) != 1 || events[0].Event != service.EventOrderPlaced {
		t.Errorf("expected one ORDER_PLACED event on the vendor channel, got %+v", events)
	}

	// Vendor accepts; the pickup OTP is minted.
	accepted, err := f.dispatch.VendorAccept(ctx, service.VendorAcceptRequest{OrderID: order.ID, ActorID: "vendor-1"})
	if err != nil {
		t.Fatalf("VendorAccept failed: %v", err)
	}
	if accepted.Status != domain.OrderStatusAccepted {
		t.Errorf("expected status ACCEPTED, got %s", accepted.Status)
	}
	pickupOTP := accepted.OTP
	if len(pickupOTP) != service.DefaultOTPLength || !isDigits(pickupOTP) {
		t.Errorf("expected a %d-digit numeric OTP, got %q", service.DefaultOTPLength, pickupOTP)
	}
	if events := f.broadcaster.EventsFor("rider:rider-1"); len(events) != 1 || events[0].Event != service.EventOrderAvailable {
		t.Errorf("expected one ORDER_AVAILABLE event on the rider channel, got %+v", events)
	}

	// Rider accepts; the customer learns the rider and the pickup OTP.
	assigned, err := f.dispatch.RiderAccept(ctx, service.RiderAcceptRequest{OrderID: order.ID, ActorID: "rider-1"})
	if err != nil {
		t.Fatalf("RiderAccept failed: %v", err)
	}
	if assigned.Status != domain.OrderStatusToClient {
		t.Errorf("expected status TO_CLIENT, got %s", assigned.Status)
	}
	if assigned.RiderID != "rider-1" {
		t.Errorf("expected rider-1 assigned, got %q", assigned.RiderID)
	}
	userEvents := f.broadcaster.EventsFor("user:user-1")
	if len(userEvents) != 1 || userEvents[0].Event != service.EventRiderAssigned {
		t.Fatalf("expected one RIDER_ASSIGNED event on the user channel, got %+v", userEvents)
	}
	if got := userEvents[0].Data["otp"]; got != pickupOTP {
		t.Errorf("customer broadcast should carry the pickup OTP %q, got %v", pickupOTP, got)
	}

	// Pickup handoff: the code matches and is rotated.
	picked, err := f.dispatch.VerifyPickup(ctx, service.VerifyRequest{OrderID: order.ID, Code: pickupOTP})
	if err != nil {
		t.Fatalf("VerifyPickup failed: %v", err)
	}
	if picked.Status != domain.OrderStatusToVendor {
		t.Errorf("expected status TO_VENDOR, got %s", picked.Status)
	}
	deliveryOTP := picked.OTP
	if deliveryOTP == pickupOTP {
		t.Error("pickup verification must rotate the OTP")
	}
	if len(deliveryOTP) != service.DefaultOTPLength || !isDigits(deliveryOTP) {
		t.Errorf("expected a %d-digit numeric OTP after rotation, got %q", service.DefaultOTPLength, deliveryOTP)
	}

	// The spent pickup code no longer verifies anything.
	if _, err := f.dispatch.VerifyDelivery(ctx, service.VerifyRequest{OrderID: order.ID, Code: pickupOTP}); !errors.Is(err, service.ErrOTPMismatch) {
		t.Errorf("expected ErrOTPMismatch for the spent code, got %v", err)
	}

	// Delivery handoff completes the order.
	done, err := f.dispatch.VerifyDelivery(ctx, service.VerifyRequest{OrderID: order.ID, Code: deliveryOTP})
	if err != nil {
		t.Fatalf("VerifyDelivery failed: %v", err)
	}
	if done.Status != domain.OrderStatusCompleted {
		t.Errorf("expected status COMPLETED, got %s", done.Status)
	}
	if done.OTP != "" {
		t.Errorf("OTP should be cleared on completion, got %q", done.OTP)
	}
	if done.CompletedAt.IsZero() {
		t.Error("completed_at should be stamped")
	}

	// Replaying the delivery code after completion is a state conflict.
	if _, err := f.dispatch.VerifyDelivery(ctx, service.VerifyRequest{OrderID: order.ID, Code: deliveryOTP}); !errors.Is(err, service.ErrOrderNotAwaitingDelivery) {
		t.Errorf("expected ErrOrderNotAwaitingDelivery after completion, got %v", err)
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	ctx := context.Background()

	f.seedActor("user-1", []string{domain.RoleUser}, nil)
	f.seedActor("vendor-1", []string{domain.RoleVendor}, nil)
	f.seedActor("plain-1", []string{domain.RoleUser}, nil)

	valid := service.PlaceOrderRequest{
		UserID:   "user-1",
		VendorID: "vendor-1",
		Price:    500,
		Type:     "WASH",
		PickTime: "2026-09-01T10:00:00Z",
		DropTime: "2026-09-02T18:00:00Z",
	}

	cases := []struct {
		name    string
		mutate  func(r *service.PlaceOrderRequest)
		wantErr error
	}{
		{"zero price", func(r *service.PlaceOrderRequest) { r.Price = 0 }, service.ErrInvalidPrice},
		{"negative price", func(r *service.PlaceOrderRequest) { r.Price = -1 }, service.ErrInvalidPrice},
		{"unknown service type", func(r *service.PlaceOrderRequest) { r.Type = "FOLD" }, service.ErrInvalidServiceType},
		{"malformed pick time", func(r *service.PlaceOrderRequest) { r.PickTime = "tomorrow" }, service.ErrInvalidTimeWindow},
		{"malformed drop time", func(r *service.PlaceOrderRequest) { r.DropTime = "2026-09-02" }, service.ErrInvalidTimeWindow},
		{"missing user id", func(r *service.PlaceOrderRequest) { r.UserID = "" }, service.ErrInvalidActorID},
		{"unknown vendor", func(r *service.PlaceOrderRequest) { r.VendorID = "vendor-404" }, repository.ErrNotFound},
		{"vendor without the role", func(r *service.PlaceOrderRequest) { r.VendorID = "plain-1" }, service.ErrActorNotVendor},
		{"out of range pickup", func(r *service.PlaceOrderRequest) { r.Pickup = &domain.Coordinate{Lat: 91, Lng: 0} }, service.ErrInvalidCoordinates},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)
			_, err := f.dispatch.PlaceOrder(ctx, req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	if n := f.orderRepo.CountOrders(); n != 0 {
		t.Errorf("rejected requests must not persist orders, found %d", n)
	}
	if n := f.broadcaster.CountEvents(); n != 0 {
		t.Errorf("rejected requests must not broadcast, found %d events", n)
	}
}

func TestVendorAcceptAuthorization(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	ctx := context.Background()

	f.seedActor("vendor-1", []string{domain.RoleVendor}, nil)
	f.seedActor("vendor-2", []string{domain.RoleVendor}, nil)
	f.seedActor("admin-1", []string{domain.RoleAdmin}, nil)

	f.orderRepo.AddOrder(&domain.Order{
		ID:       "order-1",
		Price:    300,
		Type:     domain.ServiceTypeIron,
		Status:   domain.OrderStatusPending,
		UserID:   "user-1",
		VendorID: "vendor-1",
	})

	// A different vendor cannot accept someone else's order.
	if _, err := f.dispatch.VendorAccept(ctx, service.VendorAcceptRequest{OrderID: "order-1", ActorID: "vendor-2"}); !errors.Is(err, service.ErrNotOrderVendor) {
		t.Errorf("expected ErrNotOrderVendor, got %v", err)
	}
	if got := f.orderRepo.GetOrder("order-1").Status; got != domain.OrderStatusPending {
		t.Errorf("order must stay PENDING after a rejected accept, got %s", got)
	}

	// Admins may accept on the vendor's behalf.
	accepted, err := f.dispatch.VendorAccept(ctx, service.VendorAcceptRequest{OrderID: "order-1", ActorID: "admin-1"})
	if err != nil {
		t.Fatalf("admin accept failed: %v", err)
	}
	if accepted.Status != domain.OrderStatusAccepted {
		t.Errorf("expected ACCEPTED, got %s", accepted.Status)
	}

	// Accepting twice is a state conflict.
	if _, err := f.dispatch.VendorAccept(ctx, service.VendorAcceptRequest{OrderID: "order-1", ActorID: "vendor-1"}); !errors.Is(err, service.ErrOrderNotPending) {
		t.Errorf("expected ErrOrderNotPending on double accept, got %v", err)
	}
}

func TestVerifyPickupFailuresLeaveOrderUntouched(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	ctx := context.Background()

	f.orderRepo.AddOrder(&domain.Order{
		ID:       "order-1",
		Price:    200,
		Type:     domain.ServiceTypeWash,
		Status:   domain.OrderStatusToClient,
		UserID:   "user-1",
		VendorID: "vendor-1",
		RiderID:  "rider-1",
		OTP:      "123456",
	})

	if _, err := f.dispatch.VerifyPickup(ctx, service.VerifyRequest{OrderID: "order-1", Code: ""}); !errors.Is(err, service.ErrMissingOTP) {
		t.Errorf("expected ErrMissingOTP, got %v", err)
	}
	if _, err := f.dispatch.VerifyPickup(ctx, service.VerifyRequest{OrderID: "order-1", Code: "654321"}); !errors.Is(err, service.ErrOTPMismatch) {
		t.Errorf("expected ErrOTPMismatch, got %v", err)
	}

	stored := f.orderRepo.GetOrder("order-1")
	if stored.Status != domain.OrderStatusToClient || stored.OTP != "123456" || stored.RiderID != "rider-1" {
		t.Errorf("failed verification must not mutate the order, got %+v", stored)
	}
	if n := f.orderRepo.TransitionCallCount; n != 0 {
		t.Errorf("failed verification must not attempt a transition, got %d", n)
	}
	if n := f.broadcaster.CountEvents(); n != 0 {
		t.Errorf("failed verification must not broadcast, got %d events", n)
	}

	// Verifying pickup on an order that is not in transit is a state conflict
	// even with a matching code.
	f.orderRepo.AddOrder(&domain.Order{
		ID: "order-2", Status: domain.OrderStatusAccepted, UserID: "user-1", VendorID: "vendor-1", OTP: "111111",
	})
	if _, err := f.dispatch.VerifyPickup(ctx, service.VerifyRequest{OrderID: "order-2", Code: "111111"}); !errors.Is(err, service.ErrOrderNotAwaitingPickup) {
		t.Errorf("expected ErrOrderNotAwaitingPickup, got %v", err)
	}
}

func TestCancelOrder(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	ctx := context.Background()

	f.seedActor("user-1", []string{domain.RoleUser}, nil)
	f.seedActor("vendor-1", []string{domain.RoleVendor}, nil)
	f.seedActor("rider-1", []string{domain.RoleRider}, nil)
	f.seedActor("admin-1", []string{domain.RoleAdmin}, nil)

	seed := func(id string, status domain.OrderStatus) {
		f.orderRepo.AddOrder(&domain.Order{
			ID: id, Price: 100, Type: domain.ServiceTypeWash,
			Status: status, UserID: "user-1", VendorID: "vendor-1", OTP: "222222",
		})
	}

	// Uninvolved actors cannot cancel.
	seed("order-1", domain.OrderStatusAccepted)
	if _, err := f.dispatch.CancelOrder(ctx, service.CancelOrderRequest{OrderID: "order-1", ActorID: "rider-1"}); !errors.Is(err, service.ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized, got %v", err)
	}

	// The customer can, mid-flight, and the OTP is invalidated.
	cancelled, err := f.dispatch.CancelOrder(ctx, service.CancelOrderRequest{OrderID: "order-1", ActorID: "user-1", Reason: "changed plans"})
	if err != nil {
		t.Fatalf("customer cancel failed: %v", err)
	}
	if cancelled.Status != domain.OrderStatusCancelled || cancelled.OTP != "" || cancelled.CancelledAt.IsZero() {
		t.Errorf("unexpected cancelled order state: %+v", cancelled)
	}
	if cancelled.CancelReason != "changed plans" {
		t.Errorf("expected reason recorded, got %q", cancelled.CancelReason)
	}

	// Terminal orders stay terminal.
	if _, err := f.dispatch.CancelOrder(ctx, service.CancelOrderRequest{OrderID: "order-1", ActorID: "admin-1"}); !errors.Is(err, service.ErrOrderClosed) {
		t.Errorf("expected ErrOrderClosed on a cancelled order, got %v", err)
	}
	seed("order-2", domain.OrderStatusCompleted)
	if _, err := f.dispatch.CancelOrder(ctx, service.CancelOrderRequest{OrderID: "order-2", ActorID: "admin-1"}); !errors.Is(err, service.ErrOrderClosed) {
		t.Errorf("expected ErrOrderClosed on a completed order, got %v", err)
	}
}

func TestRefundOrder(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	ctx := context.Background()

	f.seedActor("user-1", []string{domain.RoleUser}, nil)
	f.seedActor("admin-1", []string{domain.RoleAdmin}, nil)

	f.orderRepo.AddOrder(&domain.Order{
		ID: "order-1", Price: 400, Type: domain.ServiceTypeDryClean,
		Status: domain.OrderStatusAccepted, UserID: "user-1", VendorID: "vendor-1", OTP: "333333",
	})

	// Refunds are admin only, even for the order's own customer.
	if _, err := f.dispatch.RefundOrder(ctx, service.RefundOrderRequest{OrderID: "order-1", ActorID: "user-1"}); !errors.Is(err, service.ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized, got %v", err)
	}

	refunded, err := f.dispatch.RefundOrder(ctx, service.RefundOrderRequest{OrderID: "order-1", ActorID: "admin-1"})
	if err != nil {
		t.Fatalf("admin refund failed: %v", err)
	}
	if refunded.Status != domain.OrderStatusRefunded || refunded.OTP != "" {
		t.Errorf("unexpected refunded order state: %+v", refunded)
	}
}
