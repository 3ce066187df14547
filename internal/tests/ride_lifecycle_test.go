package tests

import (
	"context"
	"errors"
	"testing"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
	"ridehail/internal/service"
)

// ──────────────────────────────────────────────
// RIDE LIFECYCLE
// ──────────────────────────────────────────────

func newRideFixture() (*service.RideService, *MockRideRepository, *MockUserRepository) {
	rideRepo := NewMockRideRepository()
	userRepo := NewMockUserRepository()

	userRepo.AddUser(&domain.User{
		ID:       "rider-1",
		Name:     "Rahim",
		Role:     domain.RoleRider,
		IsActive: true,
	})
	userRepo.AddUser(&domain.User{
		ID:       "driver-1",
		Name:     "Karim",
		Role:     domain.RoleDriver,
		IsActive: true,
		DriverInfo: &domain.DriverInfo{
			VehicleType: domain.VehicleTypeCar,
			IsApproved:  true,
		},
	})

	svc := service.NewRideService(rideRepo, userRepo, nil, nil)
	return svc, rideRepo, userRepo
}

func requestRide(t *testing.T, svc *service.RideService) *domain.RideDetail {
	t.Helper()
	detail, err := svc.CreateRide(context.Background(), "rider-1", service.CreateRideRequest{
		PickupLocation:      "Dhanmondi",
		DestinationLocation: "Uttara",
		EstimatedDistance:   10,
	})
	if err != nil {
		t.Fatalf("unexpected error requesting ride: %v", err)
	}
	return detail
}

func TestRide_FullLifecycle(t *testing.T) {
	t.Parallel()

	svc, rideRepo, _ := newRideFixture()
	ctx := context.Background()

	detail := requestRide(t, svc)
	if detail.Status != domain.RideStatusRequested {
		t.Fatalf("expected status requested, got %s", detail.Status)
	}
	if detail.Fare.TotalFare != 200 {
		t.Errorf("expected fare 200 for 10 km, got %v", detail.Fare.TotalFare)
	}
	if detail.PaymentStatus != domain.PaymentStatusPending {
		t.Errorf("expected payment pending, got %s", detail.PaymentStatus)
	}
	if detail.RequestedAt.IsZero() {
		t.Error("expected requested_at to be set")
	}

	accepted, err := svc.AcceptRide(ctx, detail.ID, "driver-1")
	if err != nil {
		t.Fatalf("unexpected error accepting: %v", err)
	}
	if accepted.Status != domain.RideStatusAccepted {
		t.Errorf("expected status accepted, got %s", accepted.Status)
	}
	if accepted.DriverID != "driver-1" {
		t.Errorf("expected driver-1 assigned, got %q", accepted.DriverID)
	}
	if accepted.AcceptedAt.IsZero() {
		t.Error("expected accepted_at to be set")
	}

	pickedUp, err := svc.PickUpRide(ctx, detail.ID, "driver-1")
	if err != nil {
		t.Fatalf("unexpected error at pickup: %v", err)
	}
	if pickedUp.Status != domain.RideStatusPickedUp {
		t.Errorf("expected status picked_up, got %s", pickedUp.Status)
	}
	if pickedUp.PickedUpAt.IsZero() {
		t.Error("expected picked_up_at to be set")
	}

	inProgress, err := svc.StartRide(ctx, detail.ID, "driver-1")
	if err != nil {
		t.Fatalf("unexpected error starting: %v", err)
	}
	if inProgress.Status != domain.RideStatusInProgress {
		t.Errorf("expected status in_progress, got %s", inProgress.Status)
	}

	completed, err := svc.CompleteRide(ctx, detail.ID, "driver-1")
	if err != nil {
		t.Fatalf("unexpected error completing: %v", err)
	}
	if completed.Status != domain.RideStatusCompleted {
		t.Errorf("expected status completed, got %s", completed.Status)
	}
	if completed.PaymentStatus != domain.PaymentStatusCompleted {
		t.Errorf("expected payment completed, got %s", completed.PaymentStatus)
	}
	if completed.CompletedAt.IsZero() {
		t.Error("expected completed_at to be set")
	}

	// The fare must not change across the lifecycle.
	if completed.Fare != detail.Fare {
		t.Errorf("fare changed during lifecycle: %+v vs %+v", detail.Fare, completed.Fare)
	}

	stored := rideRepo.GetRide(detail.ID)
	if stored.Status != domain.RideStatusCompleted {
		t.Errorf("stored ride not completed: %s", stored.Status)
	}
}

func TestRide_TransitionsOutOfOrderFail(t *testing.T) {
	t.Parallel()

	svc, _, _ := newRideFixture()
	ctx := context.Background()

	detail := requestRide(t, svc)

	// Pickup before accept.
	if _, err := svc.PickUpRide(ctx, detail.ID, "driver-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected not found before driver assignment, got %v", err)
	}

	if _, err := svc.AcceptRide(ctx, detail.ID, "driver-1"); err != nil {
		t.Fatalf("unexpected error accepting: %v", err)
	}

	// Start before pickup.
	if _, err := svc.StartRide(ctx, detail.ID, "driver-1"); !errors.Is(err, service.ErrRideNotPickedUp) {
		t.Errorf("expected ErrRideNotPickedUp, got %v", err)
	}

	// Complete before start.
	if _, err := svc.CompleteRide(ctx, detail.ID, "driver-1"); !errors.Is(err, service.ErrRideNotInProgress) {
		t.Errorf("expected ErrRideNotInProgress, got %v", err)
	}

	if _, err := svc.PickUpRide(ctx, detail.ID, "driver-1"); err != nil {
		t.Fatalf("unexpected error at pickup: %v", err)
	}

	// Pickup twice.
	if _, err := svc.PickUpRide(ctx, detail.ID, "driver-1"); !errors.Is(err, service.ErrRideNotAccepted) {
		t.Errorf("expected ErrRideNotAccepted, got %v", err)
	}
}

func TestRide_OnlyAssignedDriverCanTransition(t *testing.T) {
	t.Parallel()

	svc, _, userRepo := newRideFixture()
	ctx := context.Background()

	userRepo.AddUser(&domain.User{
		ID:       "driver-2",
		Role:     domain.RoleDriver,
		IsActive: true,
		DriverInfo: &domain.DriverInfo{
			VehicleType: domain.VehicleTypeBike,
			IsApproved:  true,
		},
	})

	detail := requestRide(t, svc)
	if _, err := svc.AcceptRide(ctx, detail.ID, "driver-1"); err != nil {
		t.Fatalf("unexpected error accepting: %v", err)
	}

	// A ride owned by another driver reads as not found.
	if _, err := svc.PickUpRide(ctx, detail.ID, "driver-2"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected not found for foreign driver, got %v", err)
	}
}

func TestRide_ActiveRideLimit(t *testing.T) {
	t.Parallel()

	svc, _, _ := newRideFixture()
	ctx := context.Background()

	requestRide(t, svc)

	_, err := svc.CreateRide(ctx, "rider-1", service.CreateRideRequest{
		PickupLocation:      "Banani",
		DestinationLocation: "Gulshan",
		EstimatedDistance:   3,
	})
	if !errors.Is(err, service.ErrActiveRideExists) {
		t.Errorf("expected ErrActiveRideExists, got %v", err)
	}
}

func TestRide_NewRideAllowedAfterTerminalState(t *testing.T) {
	t.Parallel()

	svc, _, _ := newRideFixture()
	ctx := context.Background()

	detail := requestRide(t, svc)
	if _, err := svc.CancelRide(ctx, detail.ID, "rider-1", "changed plans"); err != nil {
		t.Fatalf("unexpected error cancelling: %v", err)
	}

	if _, err := svc.CreateRide(ctx, "rider-1", service.CreateRideRequest{
		PickupLocation:      "Banani",
		DestinationLocation: "Gulshan",
		EstimatedDistance:   3,
	}); err != nil {
		t.Errorf("expected new ride after cancellation, got %v", err)
	}
}

func TestRide_CreateValidation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newRideFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		req  service.CreateRideRequest
		want error
	}{
		{"missing pickup", service.CreateRideRequest{DestinationLocation: "Uttara", EstimatedDistance: 5}, service.ErrMissingPickupLocation},
		{"missing destination", service.CreateRideRequest{PickupLocation: "Dhanmondi", EstimatedDistance: 5}, service.ErrMissingDestinationLocation},
		{"zero distance", service.CreateRideRequest{PickupLocation: "Dhanmondi", DestinationLocation: "Uttara"}, service.ErrInvalidDistance},
		{"negative distance", service.CreateRideRequest{PickupLocation: "Dhanmondi", DestinationLocation: "Uttara", EstimatedDistance: -2}, service.ErrInvalidDistance},
		{"bad payment method", service.CreateRideRequest{PickupLocation: "Dhanmondi", DestinationLocation: "Uttara", EstimatedDistance: 5, PaymentMethod: "cheque"}, service.ErrInvalidPaymentMethod},
	}

	for _, tc := range cases {
		if _, err := svc.CreateRide(ctx, "rider-1", tc.req); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

// ──────────────────────────────────────────────
// CANCELLATION
// ──────────────────────────────────────────────

func TestRide_CancelFromEarlyStatuses(t *testing.T) {
	t.Parallel()

	svc, _, _ := newRideFixture()
	ctx := context.Background()

	detail := requestRide(t, svc)
	cancelled, err := svc.CancelRide(ctx, detail.ID, "rider-1", "changed plans")
	if err != nil {
		t.Fatalf("unexpected error cancelling requested ride: %v", err)
	}
	if cancelled.Status != domain.RideStatusCancelled {
		t.Errorf("expected status cancelled, got %s", cancelled.Status)
	}
	if cancelled.CancelledBy != domain.RoleRider {
		t.Errorf("expected cancelled_by rider, got %s", cancelled.CancelledBy)
	}
	if cancelled.CancellationReason != "changed plans" {
		t.Errorf("expected reason recorded, got %q", cancelled.CancellationReason)
	}
	if cancelled.CancelledAt.IsZero() {
		t.Error("expected cancelled_at to be set")
	}
}

func TestRide_CancelAfterStartForbidden(t *testing.T) {
	t.Parallel()

	svc, _, _ := newRideFixture()
	ctx := context.Background()

	detail := requestRide(t, svc)
	mustTransition(t, svc, detail.ID, "driver-1", "accept", "pickup", "start")

	if _, err := svc.CancelRide(ctx, detail.ID, "rider-1", "too late"); !errors.Is(err, service.ErrCannotCancelInProgress) {
		t.Errorf("expected ErrCannotCancelInProgress, got %v", err)
	}
}

func TestRide_CancelTerminalStatesForbidden(t *testing.T) {
	t.Parallel()

	svc, _, _ := newRideFixture()
	ctx := context.Background()

	detail := requestRide(t, svc)
	mustTransition(t, svc, detail.ID, "driver-1", "accept", "pickup", "start", "complete")

	if _, err := svc.CancelRide(ctx, detail.ID, "rider-1", "refund please"); !errors.Is(err, service.ErrCannotCancelCompleted) {
		t.Errorf("expected ErrCannotCancelCompleted, got %v", err)
	}

	other := requestRide(t, svc)
	if _, err := svc.CancelRide(ctx, other.ID, "rider-1", "first"); err != nil {
		t.Fatalf("unexpected error cancelling: %v", err)
	}
	if _, err := svc.CancelRide(ctx, other.ID, "rider-1", "second"); !errors.Is(err, service.ErrRideAlreadyCancelled) {
		t.Errorf("expected ErrRideAlreadyCancelled, got %v", err)
	}
}

func TestRide_CancelRequiresOwnershipAndReason(t *testing.T) {
	t.Parallel()

	svc, _, userRepo := newRideFixture()
	ctx := context.Background()

	userRepo.AddUser(&domain.User{ID: "rider-2", Role: domain.RoleRider, IsActive: true})

	detail := requestRide(t, svc)

	if _, err := svc.CancelRide(ctx, detail.ID, "rider-2", "not mine"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected not found for foreign rider, got %v", err)
	}
	if _, err := svc.CancelRide(ctx, detail.ID, "rider-1", ""); !errors.Is(err, service.ErrMissingCancellationReason) {
		t.Errorf("expected ErrMissingCancellationReason, got %v", err)
	}
}

// ──────────────────────────────────────────────
// RATING
// ──────────────────────────────────────────────

func TestRide_RateCompletedRideOnce(t *testing.T) {
	t.Parallel()

	svc, _, _ := newRideFixture()
	ctx := context.Background()

	detail := requestRide(t, svc)
	mustTransition(t, svc, detail.ID, "driver-1", "accept", "pickup", "start", "complete")

	rated, err := svc.RateRide(ctx, detail.ID, "rider-1", 5, "smooth ride")
	if err != nil {
		t.Fatalf("unexpected error rating: %v", err)
	}
	if rated.Rating.RiderRating != 5 || rated.Rating.RiderComment != "smooth ride" {
		t.Errorf("rating not recorded: %+v", rated.Rating)
	}

	if _, err := svc.RateRide(ctx, detail.ID, "rider-1", 1, "changed my mind"); !errors.Is(err, service.ErrAlreadyRated) {
		t.Errorf("expected ErrAlreadyRated, got %v", err)
	}
}

func TestRide_RateNonCompletedRideForbidden(t *testing.T) {
	t.Parallel()

	svc, _, _ := newRideFixture()
	ctx := context.Background()

	detail := requestRide(t, svc)
	if _, err := svc.RateRide(ctx, detail.ID, "rider-1", 4, ""); !errors.Is(err, service.ErrRideNotCompleted) {
		t.Errorf("expected ErrRideNotCompleted, got %v", err)
	}
}

func TestRide_RateOutOfRangeForbidden(t *testing.T) {
	t.Parallel()

	svc, _, _ := newRideFixture()
	ctx := context.Background()

	detail := requestRide(t, svc)
	mustTransition(t, svc, detail.ID, "driver-1", "accept", "pickup", "start", "complete")

	for _, rating := range []int{0, -1, 6} {
		if _, err := svc.RateRide(ctx, detail.ID, "rider-1", rating, ""); !errors.Is(err, service.ErrInvalidRating) {
			t.Errorf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
}

// mustTransition drives a ride through the named transitions, failing the
// test on any error.
func mustTransition(t *testing.T, svc *service.RideService, rideID, driverID string, steps ...string) {
	t.Helper()
	ctx := context.Background()
	for _, step := range steps {
		var err error
		switch step {
		case "accept":
			_, err = svc.AcceptRide(ctx, rideID, driverID)
		case "pickup":
			_, err = svc.PickUpRide(ctx, rideID, driverID)
		case "start":
			_, err = svc.StartRide(ctx, rideID, driverID)
		case "complete":
			_, err = svc.CompleteRide(ctx, rideID, driverID)
		default:
			t.Fatalf("unknown transition %q", step)
		}
		if err != nil {
			t.Fatalf("transition %s failed: %v", step, err)
		}
	}
}
