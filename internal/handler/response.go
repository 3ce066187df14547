package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehail/internal/auth"
	"ridehail/internal/repository"
	"ridehail/internal/service"
)

// Response is the envelope wrapping every API reply.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func respondError(c *gin.Context, err error) {
	status := statusForError(err)
	msg := "request failed"
	switch status {
	case http.StatusBadRequest:
		msg = "invalid request"
	case http.StatusUnauthorized:
		msg = "unauthorized"
	case http.StatusForbidden:
		msg = "forbidden"
	case http.StatusNotFound:
		msg = "not found"
	case http.StatusInternalServerError:
		msg = "internal server error"
	}
	c.JSON(status, Response{
		Success: false,
		Message: msg,
		Error:   err.Error(),
	})
}

var badRequestErrors = []error{
	service.ErrInvalidRiderID,
	service.ErrInvalidDriverID,
	service.ErrInvalidRideID,
	service.ErrInvalidUserID,
	service.ErrInvalidDistance,
	service.ErrMissingPickupLocation,
	service.ErrMissingDestinationLocation,
	service.ErrMissingCancellationReason,
	service.ErrMissingRejectReason,
	service.ErrInvalidRating,
	service.ErrInvalidPaymentMethod,
	service.ErrUnknownStatusAction,
	service.ErrInvalidSignupInput,
	service.ErrInvalidRole,
	service.ErrInvalidVehicleType,
	service.ErrRideUnavailable,
	service.ErrRideNotAccepted,
	service.ErrRideNotPickedUp,
	service.ErrRideNotInProgress,
	service.ErrRideNotCompleted,
	service.ErrRideAlreadyCancelled,
	service.ErrCannotCancelCompleted,
	service.ErrCannotCancelInProgress,
	service.ErrActiveRideExists,
	service.ErrRideAlreadyAccepted,
	service.ErrAlreadyRejected,
	service.ErrAlreadyRated,
	service.ErrEmailTaken,
	service.ErrPhoneTaken,
}

var forbiddenErrors = []error{
	service.ErrDriverNotApproved,
	service.ErrDriverSuspended,
	service.ErrAccountBlocked,
}

// statusForError maps service and repository sentinel errors onto HTTP
// status codes. Unknown errors are internal.
func statusForError(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidAdminToken),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	}
	for _, target := range forbiddenErrors {
		if errors.Is(err, target) {
			return http.StatusForbidden
		}
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}
