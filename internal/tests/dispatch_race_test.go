package tests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"laundry/internal/domain"
	"laundry/internal/service"
)

// TestRiderAcceptRace fires many riders at the same ACCEPTED order at once.
// The conditional transition must admit exactly one.
func TestRiderAcceptRace(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	ctx := context.Background()

	const riderCount = 8
	riderIDs := make([]string, riderCount)
	for i := range riderIDs {
		riderIDs[i] = fmt.Sprintf("rider-%d", i)
		f.seedActor(riderIDs[i], []string{domain.RoleRider}, nil)
	}

	f.orderRepo.AddOrder(&domain.Order{
		ID: "order-1", Price: 250, Type: domain.ServiceTypeWash,
		Status: domain.OrderStatusAccepted, UserID: "user-1", VendorID: "vendor-1", OTP: "987654",
	})

	var wg sync.WaitGroup
	results := make([]error, riderCount)
	for i, riderID := range riderIDs {
		wg.Add(1)
		go func(i int, riderID string) {
			defer wg.Done()
			_, err := f.dispatch.RiderAccept(ctx, service.RiderAcceptRequest{OrderID: "order-1", ActorID: riderID})
			results[i] = err
		}(i, riderID)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, service.ErrOrderNotAccepted):
			// Expected for the losers.
		default:
			t.Errorf("unexpected error from losing rider: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winning rider, got %d", winners)
	}

	stored := f.orderRepo.GetOrder("order-1")
	if stored.Status != domain.OrderStatusToClient {
		t.Errorf("expected TO_CLIENT after the race, got %s", stored.Status)
	}
	if stored.RiderID == "" {
		t.Error("the winning rider must be recorded on the order")
	}
}

// TestVendorAcceptVsCancelRace races a vendor acceptance against a customer
// cancellation of the same PENDING order. One side must win cleanly; the
// loser must see a conflict, never a half-applied state.
func TestVendorAcceptVsCancelRace(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	ctx := context.Background()

	f.seedActor("user-1", []string{domain.RoleUser}, nil)
	f.seedActor("vendor-1", []string{domain.RoleVendor}, nil)

	f.orderRepo.AddOrder(&domain.Order{
		ID: "order-1", Price: 150, Type: domain.ServiceTypeIron,
		Status: domain.OrderStatusPending, UserID: "user-1", VendorID: "vendor-1",
	})

	var wg sync.WaitGroup
	var acceptErr, cancelErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, acceptErr = f.dispatch.VendorAccept(ctx, service.VendorAcceptRequest{OrderID: "order-1", ActorID: "vendor-1"})
	}()
	go func() {
		defer wg.Done()
		_, cancelErr = f.dispatch.CancelOrder(ctx, service.CancelOrderRequest{OrderID: "order-1", ActorID: "user-1"})
	}()
	wg.Wait()

	stored := f.orderRepo.GetOrder("order-1")

	switch {
	case acceptErr == nil && cancelErr == nil:
		// Both can succeed when the cancel observes the order after the
		// accept committed; ACCEPTED is not terminal. The final state must
		// then be CANCELLED.
		if stored.Status != domain.OrderStatusCancelled {
			t.Errorf("accept then cancel must end CANCELLED, got %s", stored.Status)
		}
	case acceptErr == nil:
		if !errors.Is(cancelErr, service.ErrOrderClosed) {
			t.Errorf("losing cancel should see a conflict, got %v", cancelErr)
		}
		if stored.Status != domain.OrderStatusAccepted {
			t.Errorf("expected ACCEPTED when only the accept won, got %s", stored.Status)
		}
	case cancelErr == nil:
		if !errors.Is(acceptErr, service.ErrOrderNotPending) {
			t.Errorf("losing accept should see a conflict, got %v", acceptErr)
		}
		if stored.Status != domain.OrderStatusCancelled {
			t.Errorf("expected CANCELLED when only the cancel won, got %s", stored.Status)
		}
		if stored.OTP != "" {
			t.Errorf("a cancelled order must not retain an OTP, got %q", stored.OTP)
		}
	default:
		t.Errorf("both operations failed: accept=%v cancel=%v", acceptErr, cancelErr)
	}
}

// TestConcurrentPlacement checks that independent orders do not contend.
func TestConcurrentPlacement(t *testing.T) {
	t.Parallel()

	f := newDispatchFixture()
	ctx := context.Background()

	f.seedActor("user-1", []string{domain.RoleUser}, nil)
	f.seedActor("vendor-1", []string{domain.RoleVendor}, nil)

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.dispatch.PlaceOrder(ctx, service.PlaceOrderRequest{
				UserID:   "user-1",
				VendorID: "vendor-1",
				Price:    float64(100 + i),
				Type:     "WASH",
				PickTime: "2026-09-01T10:00:00Z",
				DropTime: "2026-09-02T18:00:00Z",
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("placement %d failed: %v", i, err)
		}
	}
	if got := f.orderRepo.CountOrders(); got != n {
		t.Errorf("expected %d orders, got %d", n, got)
	}
}
