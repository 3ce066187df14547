package domain

import "time"

// RideStatus represents the current status of a ride.
type RideStatus string

const (
	RideStatusRequested  RideStatus = "requested"
	RideStatusAccepted   RideStatus = "accepted"
	RideStatusPickedUp   RideStatus = "picked_up"
	RideStatusInProgress RideStatus = "in_progress"
	RideStatusCompleted  RideStatus = "completed"
	RideStatusCancelled  RideStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are allowed.
func (s RideStatus) IsTerminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// ActiveRideStatuses are the statuses that count against the one-active-ride
// limit per rider.
var ActiveRideStatuses = []RideStatus{
	RideStatusRequested,
	RideStatusAccepted,
	RideStatusInProgress,
}

// Fare is the fare breakdown computed once at request time and never
// recalculated.
type Fare struct {
	BaseFare     float64
	DistanceFare float64
	TotalFare    float64
	Currency     string
}

// RejectedDriver records a driver who declined a ride request.
// A driver appears at most once per ride and may never accept it afterwards.
type RejectedDriver struct {
	DriverID     string
	RejectReason string
}

// Rating holds the optional post-completion ratings for a ride.
type Rating struct {
	RiderRating   int
	RiderComment  string
	DriverRating  int
	DriverComment string
}

// Ride represents a single transport request from creation to terminal
// resolution. Once completed or cancelled the record is immutable except
// for the rating.
type Ride struct {
	ID                  string
	RiderID             string
	DriverID            string // empty until a driver accepts
	PickupLocation      string
	DestinationLocation string
	EstimatedDistance   float64 // km
	Status              RideStatus
	Fare                Fare
	RequestedAt         time.Time
	AcceptedAt          time.Time
	PickedUpAt          time.Time
	CompletedAt         time.Time
	CancelledAt         time.Time
	CancelledBy         Role
	CancellationReason  string
	RejectedDrivers     []RejectedDriver
	PaymentStatus       PaymentStatus
	PaymentMethod       PaymentMethod
	Rating              Rating
	CreatedAt           time.Time
}

// ContactInfo is the denormalized display view of a counterpart account.
type ContactInfo struct {
	ID    string
	Name  string
	Phone string
	Email string
}

// RideDetail is a ride joined with its rider and, once assigned, driver
// display fields.
type RideDetail struct {
	Ride
	Rider  ContactInfo
	Driver *ContactInfo
}
