package repository

import (
	"context"
	"time"

	"ridehail/internal/domain"
)

// AcceptPatch is the set of fields mutated by the accept transition.
type AcceptPatch struct {
	DriverID   string
	AcceptedAt time.Time
}

// CancelPatch is the set of fields mutated by the cancel transition.
type CancelPatch struct {
	CancelledBy domain.Role
	Reason      string
	CancelledAt time.Time
}

// CompletePatch is the set of fields mutated by the complete transition.
type CompletePatch struct {
	CompletedAt   time.Time
	PaymentStatus domain.PaymentStatus
}

// RatingPatch is the set of fields mutated when a rider rates a ride.
type RatingPatch struct {
	Rating  int
	Comment string
}

// EarningsFilter bounds earnings queries by completion date. Zero times
// leave the corresponding bound open.
type EarningsFilter struct {
	Start time.Time
	End   time.Time
}

// EarningsSummary aggregates a driver's completed, paid rides.
type EarningsSummary struct {
	TotalEarnings float64
	TotalRides    int
	AverageFare   float64
	TotalDistance float64
}

// RideRepository defines the persistence operations for rides.
//
// Every transition method is a single conditional update: the expected
// status and ownership checks are part of the update predicate, so exactly
// one of two concurrent writers can succeed. A transition that matches no
// row returns ErrNotFound; callers re-read to classify the failure.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID, including its rejection history.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// GetDetail retrieves a ride joined with rider and driver display fields.
	GetDetail(ctx context.Context, id string) (*domain.RideDetail, error)

	// FindActiveByRider returns the rider's ride in requested, accepted, or
	// in_progress status, or ErrNotFound when there is none.
	FindActiveByRider(ctx context.Context, riderID string) (*domain.Ride, error)

	// Accept assigns a driver to a ride currently in requested status with
	// no assigned driver and no prior rejection by the same driver.
	Accept(ctx context.Context, rideID string, patch AcceptPatch) error

	// AppendRejection records a driver's rejection of a ride currently in
	// requested status with no assigned driver. ErrDuplicate when the driver
	// already rejected this ride.
	AppendRejection(ctx context.Context, rideID string, rejection domain.RejectedDriver) error

	// Cancel moves a rider-owned ride from a cancellable status to cancelled.
	Cancel(ctx context.Context, rideID, riderID string, patch CancelPatch) error

	// PickUp moves a driver-owned ride from accepted to picked_up.
	PickUp(ctx context.Context, rideID, driverID string, at time.Time) error

	// Start moves a driver-owned ride from picked_up to in_progress.
	Start(ctx context.Context, rideID, driverID string) error

	// Complete moves a driver-owned ride from in_progress to completed.
	Complete(ctx context.Context, rideID, driverID string, patch CompletePatch) error

	// SetRiderRating sets the rider rating on a completed, not-yet-rated ride.
	SetRiderRating(ctx context.Context, rideID, riderID string, patch RatingPatch) error

	// ListByRider returns a page of the rider's rides, newest first.
	ListByRider(ctx context.Context, riderID string, offset, limit int) ([]*domain.RideDetail, error)

	// CountByRider returns the rider's total ride count.
	CountByRider(ctx context.Context, riderID string) (int, error)

	// ListCompletedByDriver returns a page of the driver's completed, paid
	// rides, newest completion first.
	ListCompletedByDriver(ctx context.Context, driverID string, filter EarningsFilter, offset, limit int) ([]*domain.RideDetail, error)

	// CountCompletedByDriver counts the driver's completed, paid rides.
	CountCompletedByDriver(ctx context.Context, driverID string, filter EarningsFilter) (int, error)

	// EarningsSummary aggregates the driver's completed, paid rides. Returns
	// a zero summary when no rides match.
	EarningsSummary(ctx context.Context, driverID string, filter EarningsFilter) (*EarningsSummary, error)

	// ListAll retrieves recent rides for admin views.
	ListAll(ctx context.Context) ([]*domain.Ride, error)
}
