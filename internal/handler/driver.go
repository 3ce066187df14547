package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ridehail/internal/middleware"
	"ridehail/internal/service"
)

// DriverHandler handles driver-facing endpoints.
type DriverHandler struct {
	earningsService *service.EarningsService
	accountService  *service.AccountService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(earningsService *service.EarningsService, accountService *service.AccountService) *DriverHandler {
	return &DriverHandler{
		earningsService: earningsService,
		accountService:  accountService,
	}
}

type earningsRideDTO struct {
	RideID              string     `json:"ride_id"`
	Rider               contactDTO `json:"rider"`
	PickupLocation      string     `json:"pickup_location"`
	DestinationLocation string     `json:"destination_location"`
	Distance            float64    `json:"distance"`
	Fare                fareDTO    `json:"fare"`
	CompletedAt         string     `json:"completed_at"`
	PaymentMethod       string     `json:"payment_method"`
	DriverRating        int        `json:"driver_rating,omitempty"`
}

type earningsSummaryDTO struct {
	TotalEarnings float64 `json:"total_earnings"`
	TotalRides    int     `json:"total_rides"`
	AverageFare   float64 `json:"average_fare"`
	TotalDistance float64 `json:"total_distance"`
}

// GetEarnings handles GET /v1/drivers/earnings
func (h *DriverHandler) GetEarnings(c *gin.Context) {
	query := service.EarningsQuery{
		Page:      queryInt(c, "page", 1),
		Limit:     queryInt(c, "limit", 10),
		StartDate: queryDate(c, "startDate"),
		EndDate:   queryDate(c, "endDate"),
	}

	history, err := h.earningsService.GetEarningsHistory(c.Request.Context(), middleware.ActorID(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	rides := make([]earningsRideDTO, 0, len(history.Rides))
	for _, r := range history.Rides {
		rides = append(rides, earningsRideDTO{
			RideID:              r.RideID,
			Rider:               toContactDTO(r.Rider),
			PickupLocation:      r.PickupLocation,
			DestinationLocation: r.DestinationLocation,
			Distance:            r.Distance,
			Fare:                toFareDTO(r.Fare),
			CompletedAt:         formatTime(r.CompletedAt),
			PaymentMethod:       string(r.PaymentMethod),
			DriverRating:        r.DriverRating,
		})
	}

	respond(c, http.StatusOK, "earnings retrieved", gin.H{
		"rides":      rides,
		"pagination": toPaginationDTO(history.Pagination),
		"summary": earningsSummaryDTO{
			TotalEarnings: history.Summary.TotalEarnings,
			TotalRides:    history.Summary.TotalRides,
			AverageFare:   history.Summary.AverageFare,
			TotalDistance: history.Summary.TotalDistance,
		},
	})
}

type availabilityRequest struct {
	IsOnline *bool `json:"is_online"`
}

// SetAvailability handles PATCH /v1/drivers/availability
func (h *DriverHandler) SetAvailability(c *gin.Context) {
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsOnline == nil {
		respondError(c, service.ErrUnknownStatusAction)
		return
	}

	user, err := h.accountService.SetDriverAvailability(c.Request.Context(), middleware.ActorID(c), *req.IsOnline)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "availability updated", toUserDTO(user))
}

// queryDate parses a date query parameter, accepting date-only or RFC 3339
// values. Missing or malformed values read as the zero time (open bound).
func queryDate(c *gin.Context, key string) time.Time {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return time.Time{}
}
