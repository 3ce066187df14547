package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"ridehail/internal/domain"
	"ridehail/internal/redis"
	"ridehail/internal/repository"
)

// RideService is the ride lifecycle engine. It enforces the legal status
// transitions, ownership checks, and side effects (timestamps, fare,
// payment status).
//
// Every transition relies on the repository's conditional updates: the
// expected status is part of the update predicate, so of two concurrent
// writers exactly one succeeds and the loser gets a conflict-shaped error
// after a re-read classifies the failure.
type RideService struct {
	rideRepo repository.RideRepository
	userRepo repository.UserRepository
	cache    *redis.RideCache
	notifier *NotificationService
}

// NewRideService creates a new RideService.
func NewRideService(
	rideRepo repository.RideRepository,
	userRepo repository.UserRepository,
	cache *redis.RideCache,
	notifier *NotificationService,
) *RideService {
	return &RideService{
		rideRepo: rideRepo,
		userRepo: userRepo,
		cache:    cache,
		notifier: notifier,
	}
}

// CreateRideRequest contains the parameters for requesting a ride.
type CreateRideRequest struct {
	PickupLocation      string
	DestinationLocation string
	EstimatedDistance   float64
	PaymentMethod       string
}

// CreateRide creates a new ride request for the rider. A rider may have at
// most one ride in requested, accepted, or in_progress status at a time.
func (s *RideService) CreateRide(ctx context.Context, riderID string, req CreateRideRequest) (*domain.RideDetail, error) {
	if riderID == "" {
		return nil, ErrInvalidRiderID
	}
	if req.PickupLocation == "" {
		return nil, ErrMissingPickupLocation
	}
	if req.DestinationLocation == "" {
		return nil, ErrMissingDestinationLocation
	}
	if req.EstimatedDistance <= 0 {
		return nil, ErrInvalidDistance
	}

	paymentMethod, err := ValidatePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	// One active ride per rider.
	_, err = s.rideRepo.FindActiveByRider(ctx, riderID)
	if err == nil {
		return nil, ErrActiveRideExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	ride := &domain.Ride{
		ID:                  uuid.New().String(),
		RiderID:             riderID,
		PickupLocation:      req.PickupLocation,
		DestinationLocation: req.DestinationLocation,
		EstimatedDistance:   req.EstimatedDistance,
		Status:              domain.RideStatusRequested,
		Fare:                CalculateFare(req.EstimatedDistance),
		RequestedAt:         now,
		PaymentStatus:       domain.PaymentStatusPending,
		PaymentMethod:       paymentMethod,
		CreatedAt:           now,
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	return s.rideRepo.GetDetail(ctx, ride.ID)
}

// CancelRide cancels a rider-owned ride. Cancellation is allowed from
// requested, accepted, and picked_up; once the ride is in progress it must
// run to completion.
func (s *RideService) CancelRide(ctx context.Context, rideID, riderID, reason string) (*domain.RideDetail, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if riderID == "" {
		return nil, ErrInvalidRiderID
	}
	if reason == "" {
		return nil, ErrMissingCancellationReason
	}

	ride, err := s.riderOwnedRide(ctx, rideID, riderID)
	if err != nil {
		return nil, err
	}
	if err := cancellableFrom(ride.Status); err != nil {
		return nil, err
	}

	err = s.rideRepo.Cancel(ctx, rideID, riderID, repository.CancelPatch{
		CancelledBy: domain.RoleRider,
		Reason:      reason,
		CancelledAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Lost a race; re-read to report the state that won.
			return nil, s.reclassifyCancel(ctx, rideID, riderID)
		}
		return nil, err
	}

	s.invalidate(ctx, rideID)

	detail, err := s.rideRepo.GetDetail(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyRideCancelled(ctx, detail, reason)
	}

	return detail, nil
}

// AcceptRide assigns the driver to a requested ride. A driver who has
// rejected this ride may never accept it, and only one driver can win a
// concurrent accept.
func (s *RideService) AcceptRide(ctx context.Context, rideID, driverID string) (*domain.RideDetail, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	if err := s.checkDriverAccount(ctx, driverID); err != nil {
		return nil, err
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if err := openForDriver(ride, driverID); err != nil {
		return nil, err
	}

	err = s.rideRepo.Accept(ctx, rideID, repository.AcceptPatch{
		DriverID:   driverID,
		AcceptedAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.reclassifyOpen(ctx, rideID, driverID)
		}
		return nil, err
	}

	s.invalidate(ctx, rideID)

	detail, err := s.rideRepo.GetDetail(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyRideAccepted(ctx, detail)
	}

	return detail, nil
}

// RejectRide appends the driver to the ride's rejection history. The ride
// stays open for other drivers.
func (s *RideService) RejectRide(ctx context.Context, rideID, driverID, reason string) (*domain.RideDetail, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	if reason == "" {
		return nil, ErrMissingRejectReason
	}

	if err := s.checkDriverAccount(ctx, driverID); err != nil {
		return nil, err
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if err := openForDriver(ride, driverID); err != nil {
		return nil, err
	}

	err = s.rideRepo.AppendRejection(ctx, rideID, domain.RejectedDriver{
		DriverID:     driverID,
		RejectReason: reason,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyRejected
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.reclassifyOpen(ctx, rideID, driverID)
		}
		return nil, err
	}

	return s.rideRepo.GetDetail(ctx, rideID)
}

// PickUpRide moves a driver-owned ride from accepted to picked_up.
func (s *RideService) PickUpRide(ctx context.Context, rideID, driverID string) (*domain.RideDetail, error) {
	return s.driverTransition(ctx, rideID, driverID, domain.RideStatusAccepted, ErrRideNotAccepted,
		func(at time.Time) error {
			return s.rideRepo.PickUp(ctx, rideID, driverID, at)
		})
}

// StartRide moves a driver-owned ride from picked_up to in_progress.
func (s *RideService) StartRide(ctx context.Context, rideID, driverID string) (*domain.RideDetail, error) {
	return s.driverTransition(ctx, rideID, driverID, domain.RideStatusPickedUp, ErrRideNotPickedUp,
		func(time.Time) error {
			return s.rideRepo.Start(ctx, rideID, driverID)
		})
}

// CompleteRide moves a driver-owned ride from in_progress to completed and
// marks the payment completed.
func (s *RideService) CompleteRide(ctx context.Context, rideID, driverID string) (*domain.RideDetail, error) {
	detail, err := s.driverTransition(ctx, rideID, driverID, domain.RideStatusInProgress, ErrRideNotInProgress,
		func(at time.Time) error {
			return s.rideRepo.Complete(ctx, rideID, driverID, repository.CompletePatch{
				CompletedAt:   at,
				PaymentStatus: domain.PaymentStatusCompleted,
			})
		})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyRideCompleted(ctx, detail)
	}

	return detail, nil
}

// RateRide sets the rider's rating on a completed ride. A ride can be rated
// at most once.
func (s *RideService) RateRide(ctx context.Context, rideID, riderID string, rating int, comment string) (*domain.RideDetail, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if riderID == "" {
		return nil, ErrInvalidRiderID
	}
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	ride, err := s.riderOwnedRide(ctx, rideID, riderID)
	if err != nil {
		return nil, err
	}
	if ride.Status != domain.RideStatusCompleted {
		return nil, ErrRideNotCompleted
	}
	if ride.Rating.RiderRating != 0 {
		return nil, ErrAlreadyRated
	}

	err = s.rideRepo.SetRiderRating(ctx, rideID, riderID, repository.RatingPatch{
		Rating:  rating,
		Comment: comment,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// A concurrent rating landed first.
			return nil, ErrAlreadyRated
		}
		return nil, err
	}

	s.invalidate(ctx, rideID)

	return s.rideRepo.GetDetail(ctx, rideID)
}

// GetRide retrieves a rider-owned ride by ID.
func (s *RideService) GetRide(ctx context.Context, rideID, riderID string) (*domain.RideDetail, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if riderID == "" {
		return nil, ErrInvalidRiderID
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, rideID); err == nil && cached != nil {
			if cached.RiderID != riderID {
				return nil, repository.ErrNotFound
			}
			return cached, nil
		}
	}

	detail, err := s.rideRepo.GetDetail(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if detail.RiderID != riderID {
		return nil, repository.ErrNotFound
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, detail)
	}

	return detail, nil
}

// RideHistory is a page of a rider's rides.
type RideHistory struct {
	Rides      []*domain.RideDetail
	Pagination Pagination
}

// GetRideHistory returns the rider's rides, newest first, with pagination
// metadata.
func (s *RideService) GetRideHistory(ctx context.Context, riderID string, page, limit int) (*RideHistory, error) {
	if riderID == "" {
		return nil, ErrInvalidRiderID
	}

	page, limit = normalizePage(page, limit)

	rides, err := s.rideRepo.ListByRider(ctx, riderID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	total, err := s.rideRepo.CountByRider(ctx, riderID)
	if err != nil {
		return nil, err
	}

	return &RideHistory{
		Rides:      rides,
		Pagination: newPagination(page, limit, total),
	}, nil
}

// ListAllRides retrieves recent rides for admin views.
func (s *RideService) ListAllRides(ctx context.Context) ([]*domain.Ride, error) {
	return s.rideRepo.ListAll(ctx)
}

// checkDriverAccount verifies the driver exists and is allowed to act on
// ride requests.
func (s *RideService) checkDriverAccount(ctx context.Context, driverID string) error {
	driver, err := s.userRepo.GetByID(ctx, driverID)
	if err != nil {
		return err
	}
	if driver.Role != domain.RoleDriver || driver.DriverInfo == nil {
		return repository.ErrNotFound
	}
	if driver.IsBlocked {
		return ErrAccountBlocked
	}
	if driver.DriverInfo.IsSuspended {
		return ErrDriverSuspended
	}
	if !driver.DriverInfo.IsApproved {
		return ErrDriverNotApproved
	}
	return nil
}

// riderOwnedRide loads a ride and verifies rider ownership. A ride owned by
// someone else reads as not found.
func (s *RideService) riderOwnedRide(ctx context.Context, rideID, riderID string) (*domain.Ride, error) {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.RiderID != riderID {
		return nil, repository.ErrNotFound
	}
	return ride, nil
}

// driverTransition runs a driver-owned conditional transition and
// classifies failures against the expected predecessor status.
func (s *RideService) driverTransition(
	ctx context.Context,
	rideID, driverID string,
	want domain.RideStatus,
	stateErr error,
	apply func(at time.Time) error,
) (*domain.RideDetail, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID != driverID {
		return nil, repository.ErrNotFound
	}
	if ride.Status != want {
		return nil, stateErr
	}

	if err := apply(time.Now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The status moved between the read and the write.
			return nil, stateErr
		}
		return nil, err
	}

	s.invalidate(ctx, rideID)

	return s.rideRepo.GetDetail(ctx, rideID)
}

// openForDriver checks that a ride is still open for accept/reject by this
// driver.
func openForDriver(ride *domain.Ride, driverID string) error {
	for _, rej := range ride.RejectedDrivers {
		if rej.DriverID == driverID {
			return ErrAlreadyRejected
		}
	}
	if ride.DriverID != "" {
		return ErrRideAlreadyAccepted
	}
	if ride.Status != domain.RideStatusRequested {
		return ErrRideUnavailable
	}
	return nil
}

// reclassifyOpen re-reads a ride after a lost accept/reject race and
// reports why it was no longer open.
func (s *RideService) reclassifyOpen(ctx context.Context, rideID, driverID string) error {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return err
	}
	if err := openForDriver(ride, driverID); err != nil {
		return err
	}
	return ErrRideUnavailable
}

// cancellableFrom reports whether cancellation is legal from the status.
func cancellableFrom(status domain.RideStatus) error {
	switch status {
	case domain.RideStatusRequested, domain.RideStatusAccepted, domain.RideStatusPickedUp:
		return nil
	case domain.RideStatusCompleted:
		return ErrCannotCancelCompleted
	case domain.RideStatusCancelled:
		return ErrRideAlreadyCancelled
	default:
		return ErrCannotCancelInProgress
	}
}

// reclassifyCancel re-reads a ride after a lost cancel race.
func (s *RideService) reclassifyCancel(ctx context.Context, rideID, riderID string) error {
	ride, err := s.riderOwnedRide(ctx, rideID, riderID)
	if err != nil {
		return err
	}
	if err := cancellableFrom(ride.Status); err != nil {
		return err
	}
	return repository.ErrNotFound
}

func (s *RideService) invalidate(ctx context.Context, rideID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, rideID)
}

// normalizePage clamps pagination inputs to sane values.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	return page, limit
}

// Pagination is the page metadata returned by list endpoints.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	TotalRides  int
	HasNext     bool
	HasPrev     bool
}

func newPagination(page, limit, total int) Pagination {
	totalPages := (total + limit - 1) / limit
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalRides:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}
