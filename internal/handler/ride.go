package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ridehail/internal/middleware"
	"ridehail/internal/service"
)

// RideHandler handles ride lifecycle endpoints.
type RideHandler struct {
	rideService *service.RideService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService) *RideHandler {
	return &RideHandler{rideService: rideService}
}

type createRideRequest struct {
	PickupLocation      string  `json:"pickup_location"`
	DestinationLocation string  `json:"destination_location"`
	EstimatedDistance   float64 `json:"estimated_distance"`
	PaymentMethod       string  `json:"payment_method"`
}

// RequestRide handles POST /v1/rides/request
func (h *RideHandler) RequestRide(c *gin.Context) {
	var req createRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrMissingPickupLocation)
		return
	}

	detail, err := h.rideService.CreateRide(c.Request.Context(), middleware.ActorID(c), service.CreateRideRequest{
		PickupLocation:      req.PickupLocation,
		DestinationLocation: req.DestinationLocation,
		EstimatedDistance:   req.EstimatedDistance,
		PaymentMethod:       req.PaymentMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, "ride requested", toRideDTO(detail))
}

type cancelRideRequest struct {
	CancellationReason string `json:"cancellation_reason"`
}

// CancelRide handles PATCH /v1/rides/:id/cancel
func (h *RideHandler) CancelRide(c *gin.Context) {
	var req cancelRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrMissingCancellationReason)
		return
	}

	detail, err := h.rideService.CancelRide(c.Request.Context(), c.Param("id"), middleware.ActorID(c), req.CancellationReason)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "ride cancelled", toRideDTO(detail))
}

// AcceptRide handles PATCH /v1/rides/:id/accept
func (h *RideHandler) AcceptRide(c *gin.Context) {
	detail, err := h.rideService.AcceptRide(c.Request.Context(), c.Param("id"), middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "ride accepted", toRideDTO(detail))
}

type rejectRideRequest struct {
	RejectReason string `json:"reject_reason"`
}

// RejectRide handles PATCH /v1/rides/:id/reject
func (h *RideHandler) RejectRide(c *gin.Context) {
	var req rejectRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrMissingRejectReason)
		return
	}

	detail, err := h.rideService.RejectRide(c.Request.Context(), c.Param("id"), middleware.ActorID(c), req.RejectReason)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "ride rejected", toRideDTO(detail))
}

// PickUpRide handles PATCH /v1/rides/:id/pickup
func (h *RideHandler) PickUpRide(c *gin.Context) {
	detail, err := h.rideService.PickUpRide(c.Request.Context(), c.Param("id"), middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "rider picked up", toRideDTO(detail))
}

// StartRide handles PATCH /v1/rides/:id/start
func (h *RideHandler) StartRide(c *gin.Context) {
	detail, err := h.rideService.StartRide(c.Request.Context(), c.Param("id"), middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "ride started", toRideDTO(detail))
}

// CompleteRide handles PATCH /v1/rides/:id/complete
func (h *RideHandler) CompleteRide(c *gin.Context) {
	detail, err := h.rideService.CompleteRide(c.Request.Context(), c.Param("id"), middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "ride completed", toRideDTO(detail))
}

type rateRideRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// RateRide handles PATCH /v1/rides/:id/rate
func (h *RideHandler) RateRide(c *gin.Context) {
	var req rateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrInvalidRating)
		return
	}

	detail, err := h.rideService.RateRide(c.Request.Context(), c.Param("id"), middleware.ActorID(c), req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "ride rated", toRideDTO(detail))
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	detail, err := h.rideService.GetRide(c.Request.Context(), c.Param("id"), middleware.ActorID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "ride retrieved", toRideDTO(detail))
}

// GetHistory handles GET /v1/rides/history
func (h *RideHandler) GetHistory(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)

	history, err := h.rideService.GetRideHistory(c.Request.Context(), middleware.ActorID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "ride history retrieved", gin.H{
		"rides":      toRideDTOs(history.Rides),
		"pagination": toPaginationDTO(history.Pagination),
	})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}
