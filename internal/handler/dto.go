package handler

import (
	"time"

	"ridehail/internal/domain"
	"ridehail/internal/service"
)

// fareDTO is the wire form of a fare breakdown.
type fareDTO struct {
	BaseFare     float64 `json:"base_fare"`
	DistanceFare float64 `json:"distance_fare"`
	TotalFare    float64 `json:"total_fare"`
	Currency     string  `json:"currency"`
}

type contactDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type rejectedDriverDTO struct {
	DriverID     string `json:"driver_id"`
	RejectReason string `json:"reject_reason"`
}

type ratingDTO struct {
	RiderRating   int    `json:"rider_rating,omitempty"`
	RiderComment  string `json:"rider_comment,omitempty"`
	DriverRating  int    `json:"driver_rating,omitempty"`
	DriverComment string `json:"driver_comment,omitempty"`
}

// rideDTO is the wire form of a ride with its rider and driver contacts.
type rideDTO struct {
	ID                  string              `json:"id"`
	Rider               contactDTO          `json:"rider"`
	Driver              *contactDTO         `json:"driver,omitempty"`
	PickupLocation      string              `json:"pickup_location"`
	DestinationLocation string              `json:"destination_location"`
	EstimatedDistance   float64             `json:"estimated_distance"`
	Status              string              `json:"status"`
	Fare                fareDTO             `json:"fare"`
	RequestedAt         string              `json:"requested_at"`
	AcceptedAt          string              `json:"accepted_at,omitempty"`
	PickedUpAt          string              `json:"picked_up_at,omitempty"`
	CompletedAt         string              `json:"completed_at,omitempty"`
	CancelledAt         string              `json:"cancelled_at,omitempty"`
	CancelledBy         string              `json:"cancelled_by,omitempty"`
	CancellationReason  string              `json:"cancellation_reason,omitempty"`
	RejectedDrivers     []rejectedDriverDTO `json:"rejected_drivers,omitempty"`
	PaymentStatus       string              `json:"payment_status"`
	PaymentMethod       string              `json:"payment_method"`
	Rating              *ratingDTO          `json:"rating,omitempty"`
}

func toRideDTO(d *domain.RideDetail) rideDTO {
	dto := rideDTO{
		ID:                  d.ID,
		Rider:               toContactDTO(d.Rider),
		PickupLocation:      d.PickupLocation,
		DestinationLocation: d.DestinationLocation,
		EstimatedDistance:   d.EstimatedDistance,
		Status:              string(d.Status),
		Fare:                toFareDTO(d.Fare),
		RequestedAt:         formatTime(d.RequestedAt),
		AcceptedAt:          formatTime(d.AcceptedAt),
		PickedUpAt:          formatTime(d.PickedUpAt),
		CompletedAt:         formatTime(d.CompletedAt),
		CancelledAt:         formatTime(d.CancelledAt),
		CancelledBy:         string(d.CancelledBy),
		CancellationReason:  d.CancellationReason,
		PaymentStatus:       string(d.PaymentStatus),
		PaymentMethod:       string(d.PaymentMethod),
	}

	if d.Driver != nil {
		driver := toContactDTO(*d.Driver)
		dto.Driver = &driver
	}

	for _, rej := range d.RejectedDrivers {
		dto.RejectedDrivers = append(dto.RejectedDrivers, rejectedDriverDTO{
			DriverID:     rej.DriverID,
			RejectReason: rej.RejectReason,
		})
	}

	if d.Rating != (domain.Rating{}) {
		dto.Rating = &ratingDTO{
			RiderRating:   d.Rating.RiderRating,
			RiderComment:  d.Rating.RiderComment,
			DriverRating:  d.Rating.DriverRating,
			DriverComment: d.Rating.DriverComment,
		}
	}

	return dto
}

func toRideDTOs(details []*domain.RideDetail) []rideDTO {
	dtos := make([]rideDTO, 0, len(details))
	for _, d := range details {
		dtos = append(dtos, toRideDTO(d))
	}
	return dtos
}

func toContactDTO(c domain.ContactInfo) contactDTO {
	return contactDTO{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email}
}

func toFareDTO(f domain.Fare) fareDTO {
	return fareDTO{
		BaseFare:     f.BaseFare,
		DistanceFare: f.DistanceFare,
		TotalFare:    f.TotalFare,
		Currency:     f.Currency,
	}
}

type driverInfoDTO struct {
	VehicleType string `json:"vehicle_type"`
	IsApproved  bool   `json:"is_approved"`
	IsSuspended bool   `json:"is_suspended"`
	IsOnline    bool   `json:"is_online"`
}

// userDTO is the wire form of an account. The password hash never leaves
// the server.
type userDTO struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	Role       string         `json:"role"`
	IsActive   bool           `json:"is_active"`
	IsBlocked  bool           `json:"is_blocked"`
	DriverInfo *driverInfoDTO `json:"driver_info,omitempty"`
	CreatedAt  string         `json:"created_at"`
}

func toUserDTO(u *domain.User) userDTO {
	dto := userDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		IsBlocked: u.IsBlocked,
		CreatedAt: formatTime(u.CreatedAt),
	}
	if u.DriverInfo != nil {
		dto.DriverInfo = &driverInfoDTO{
			VehicleType: string(u.DriverInfo.VehicleType),
			IsApproved:  u.DriverInfo.IsApproved,
			IsSuspended: u.DriverInfo.IsSuspended,
			IsOnline:    u.DriverInfo.IsOnline,
		}
	}
	return dto
}

func toUserDTOs(users []*domain.User) []userDTO {
	dtos := make([]userDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, toUserDTO(u))
	}
	return dtos
}

type paginationDTO struct {
	CurrentPage int  `json:"current_page"`
	TotalPages  int  `json:"total_pages"`
	TotalRides  int  `json:"total_rides"`
	HasNext     bool `json:"has_next"`
	HasPrev     bool `json:"has_prev"`
}

func toPaginationDTO(p service.Pagination) paginationDTO {
	return paginationDTO{
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
		TotalRides:  p.TotalRides,
		HasNext:     p.HasNext,
		HasPrev:     p.HasPrev,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
