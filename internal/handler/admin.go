package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehail/internal/service"
)

// AdminHandler handles admin listing and account status endpoints.
type AdminHandler struct {
	accountService *service.AccountService
	rideService    *service.RideService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(accountService *service.AccountService, rideService *service.RideService) *AdminHandler {
	return &AdminHandler{
		accountService: accountService,
		rideService:    rideService,
	}
}

// ListUsers handles GET /v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.accountService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "users retrieved", toUserDTOs(users))
}

// ListDrivers handles GET /v1/admin/drivers
func (h *AdminHandler) ListDrivers(c *gin.Context) {
	drivers, err := h.accountService.ListDrivers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "drivers retrieved", toUserDTOs(drivers))
}

// adminRideDTO is the compact ride row for admin listings. Contact details
// are not joined here.
type adminRideDTO struct {
	ID                  string  `json:"id"`
	RiderID             string  `json:"rider_id"`
	DriverID            string  `json:"driver_id,omitempty"`
	PickupLocation      string  `json:"pickup_location"`
	DestinationLocation string  `json:"destination_location"`
	Status              string  `json:"status"`
	Fare                fareDTO `json:"fare"`
	PaymentStatus       string  `json:"payment_status"`
	RequestedAt         string  `json:"requested_at"`
}

// ListRides handles GET /v1/admin/rides
func (h *AdminHandler) ListRides(c *gin.Context) {
	rides, err := h.rideService.ListAllRides(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	dtos := make([]adminRideDTO, 0, len(rides))
	for _, r := range rides {
		dtos = append(dtos, adminRideDTO{
			ID:                  r.ID,
			RiderID:             r.RiderID,
			DriverID:            r.DriverID,
			PickupLocation:      r.PickupLocation,
			DestinationLocation: r.DestinationLocation,
			Status:              string(r.Status),
			Fare:                toFareDTO(r.Fare),
			PaymentStatus:       string(r.PaymentStatus),
			RequestedAt:         formatTime(r.RequestedAt),
		})
	}

	respond(c, http.StatusOK, "rides retrieved", dtos)
}

type statusActionRequest struct {
	Action string `json:"action"`
}

// UpdateDriverStatus handles PATCH /v1/admin/drivers/:id/status
func (h *AdminHandler) UpdateDriverStatus(c *gin.Context) {
	var req statusActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrUnknownStatusAction)
		return
	}

	user, err := h.accountService.UpdateDriverStatus(c.Request.Context(), c.Param("id"), req.Action)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "driver status updated", toUserDTO(user))
}

// UpdateUserStatus handles PATCH /v1/admin/users/:id/status
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	var req statusActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, service.ErrUnknownStatusAction)
		return
	}

	user, err := h.accountService.UpdateUserStatus(c.Request.Context(), c.Param("id"), req.Action)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "user status updated", toUserDTO(user))
}
