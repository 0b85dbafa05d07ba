package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"laundry/internal/repository"
	"laundry/internal/service"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Error   string `json:"error,omitempty"`
}

// respondData sends a success envelope.
func respondData(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// respondError sends a failure envelope with the mapped HTTP status code.
func respondError(c *gin.Context, err error) {
	c.JSON(mapErrorToHTTPStatus(err), Response{
		Success: false,
		Message: "request failed",
		Error:   err.Error(),
	})
}

// respondBadRequest sends a 400 for malformed request bodies.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Message: "request failed",
		Error:   message,
	})
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidOrderID),
		errors.Is(err, service.ErrInvalidActorID),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidServiceType),
		errors.Is(err, service.ErrInvalidTimeWindow),
		errors.Is(err, service.ErrInvalidCoordinates),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidActorName),
		errors.Is(err, service.ErrActorNotVendor),
		errors.Is(err, service.ErrActorNotRider),
		errors.Is(err, service.ErrMissingOTP),
		errors.Is(err, service.ErrOTPMismatch):
		return http.StatusBadRequest

	// Authorization errors
	case errors.Is(err, service.ErrNotOrderVendor),
		errors.Is(err, service.ErrNotAuthorized):
		return http.StatusForbidden

	// Conflict errors - wrong state or lost race; safe to retry after
	// re-fetching the current status
	case errors.Is(err, service.ErrOrderNotPending),
		errors.Is(err, service.ErrOrderNotAccepted),
		errors.Is(err, service.ErrOrderNotAwaitingPickup),
		errors.Is(err, service.ErrOrderNotAwaitingDelivery),
		errors.Is(err, service.ErrOrderClosed),
		errors.Is(err, repository.ErrStaleStatus):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
