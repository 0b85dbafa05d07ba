package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laundry/internal/domain"
	"laundry/internal/service"
)

const actorIDHeader = "X-Actor-ID"

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	dispatch *service.DispatchService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(dispatch *service.DispatchService) *OrderHandler {
	return &OrderHandler{dispatch: dispatch}
}

// CoordinateBody is an optional coordinate pair in request bodies.
type CoordinateBody struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlaceOrderRequest is the HTTP request body for placing an order.
type PlaceOrderRequest struct {
	VendorID string          `json:"vendor_id"`
	Price    float64         `json:"price"`
	Type     string          `json:"type"`
	PickTime string          `json:"pick_time"`
	DropTime string          `json:"drop_time"`
	Pickup   *CoordinateBody `json:"pickup_location,omitempty"`
	Drop     *CoordinateBody `json:"drop_location,omitempty"`
}

// VerifyOTPRequest is the HTTP request body for the verification steps.
type VerifyOTPRequest struct {
	OTP string `json:"otp"`
}

// CancelOrderRequest is the HTTP request body for cancelling an order.
type CancelOrderRequest struct {
	Reason string `json:"reason,omitempty"`
}

// OrderView is the HTTP representation of an order. The OTP is deliberately
// not part of it: codes reach the entitled party only through the broadcast
// a verification step itself triggers, never through reads.
type OrderView struct {
	ID           string          `json:"id"`
	Price        float64         `json:"price"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	UserID       string          `json:"user_id"`
	VendorID     string          `json:"vendor_id"`
	RiderID      string          `json:"rider_id,omitempty"`
	PickTime     string          `json:"pick_time"`
	DropTime     string          `json:"drop_time"`
	Pickup       *CoordinateBody `json:"pickup_location,omitempty"`
	Drop         *CoordinateBody `json:"drop_location,omitempty"`
	CompletedAt  string          `json:"completed_at,omitempty"`
	CancelledAt  string          `json:"cancelled_at,omitempty"`
	CancelReason string          `json:"cancel_reason,omitempty"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func toOrderView(o *domain.Order) OrderView {
	view := OrderView{
		ID:           o.ID,
		Price:        o.Price,
		Type:         string(o.Type),
		Status:       string(o.Status),
		UserID:       o.UserID,
		VendorID:     o.VendorID,
		RiderID:      o.RiderID,
		PickTime:     o.PickTime.Format(timeLayout),
		DropTime:     o.DropTime.Format(timeLayout),
		CancelReason: o.CancelReason,
		CreatedAt:    o.CreatedAt.Format(timeLayout),
		UpdatedAt:    o.UpdatedAt.Format(timeLayout),
	}
	if o.Pickup != nil {
		view.Pickup = &CoordinateBody{Lat: o.Pickup.Lat, Lng: o.Pickup.Lng}
	}
	if o.Drop != nil {
		view.Drop = &CoordinateBody{Lat: o.Drop.Lat, Lng: o.Drop.Lng}
	}
	if !o.CompletedAt.IsZero() {
		view.CompletedAt = o.CompletedAt.Format(timeLayout)
	}
	if !o.CancelledAt.IsZero() {
		view.CancelledAt = o.CancelledAt.Format(timeLayout)
	}
	return view
}

// actorID extracts the authenticated actor id handed over by the external
// authorization layer.
func actorID(c *gin.Context) string {
	return c.GetHeader(actorIDHeader)
}

// PlaceOrder handles POST /v1/orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	order, err := h.dispatch.PlaceOrder(c.Request.Context(), service.PlaceOrderRequest{
		UserID:   actorID(c),
		VendorID: req.VendorID,
		Price:    req.Price,
		Type:     req.Type,
		PickTime: req.PickTime,
		DropTime: req.DropTime,
		Pickup:   toCoordinate(req.Pickup),
		Drop:     toCoordinate(req.Drop),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, "order placed", toOrderView(order))
}

// GetOrder handles GET /v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.dispatch.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, "order found", toOrderView(order))
}

// GetAll handles GET /v1/orders
func (h *OrderHandler) GetAll(c *gin.Context) {
	orders, err := h.dispatch.ListOrders(c.Request.Context(), c.Query("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}

	respondData(c, http.StatusOK, "orders listed", views)
}

// VendorAccept handles POST /v1/orders/:id/accept
func (h *OrderHandler) VendorAccept(c *gin.Context) {
	order, err := h.dispatch.VendorAccept(c.Request.Context(), service.VendorAcceptRequest{
		OrderID: c.Param("id"),
		ActorID: actorID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, "order accepted", toOrderView(order))
}

// RiderAccept handles POST /v1/orders/:id/assign
func (h *OrderHandler) RiderAccept(c *gin.Context) {
	order, err := h.dispatch.RiderAccept(c.Request.Context(), service.RiderAcceptRequest{
		OrderID: c.Param("id"),
		ActorID: actorID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, "rider assigned", toOrderView(order))
}

// VerifyPickup handles POST /v1/orders/:id/verify-pickup
func (h *OrderHandler) VerifyPickup(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	order, err := h.dispatch.VerifyPickup(c.Request.Context(), service.VerifyRequest{
		OrderID: c.Param("id"),
		Code:    req.OTP,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, "pickup verified", toOrderView(order))
}

// VerifyDelivery handles POST /v1/orders/:id/verify-delivery
func (h *OrderHandler) VerifyDelivery(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	order, err := h.dispatch.VerifyDelivery(c.Request.Context(), service.VerifyRequest{
		OrderID: c.Param("id"),
		Code:    req.OTP,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, "order completed", toOrderView(order))
}

// Cancel handles POST /v1/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	order, err := h.dispatch.CancelOrder(c.Request.Context(), service.CancelOrderRequest{
		OrderID: c.Param("id"),
		ActorID: actorID(c),
		Reason:  req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, "order cancelled", toOrderView(order))
}

// Refund handles POST /v1/orders/:id/refund
func (h *OrderHandler) Refund(c *gin.Context) {
	order, err := h.dispatch.RefundOrder(c.Request.Context(), service.RefundOrderRequest{
		OrderID: c.Param("id"),
		ActorID: actorID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, "order refunded", toOrderView(order))
}

// Delete handles DELETE /v1/orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.dispatch.DeleteOrder(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, "order deleted", nil)
}

func toCoordinate(body *CoordinateBody) *domain.Coordinate {
	if body == nil {
		return nil
	}
	return &domain.Coordinate{Lat: body.Lat, Lng: body.Lng}
}
