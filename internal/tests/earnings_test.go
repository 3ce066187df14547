package tests

import (
	"context"
	"testing"
	"time"

	"ridehail/internal/domain"
	"ridehail/internal/service"
)

// ──────────────────────────────────────────────
// DRIVER EARNINGS
// ──────────────────────────────────────────────

func completedRide(id, driverID string, total, distance float64, completedAt time.Time) *domain.Ride {
	return &domain.Ride{
		ID:                id,
		RiderID:           "rider-1",
		DriverID:          driverID,
		Status:            domain.RideStatusCompleted,
		EstimatedDistance: distance,
		Fare: domain.Fare{
			BaseFare:     50,
			DistanceFare: total - 50,
			TotalFare:    total,
			Currency:     "BDT",
		},
		CompletedAt:   completedAt,
		PaymentStatus: domain.PaymentStatusCompleted,
		PaymentMethod: domain.PaymentMethodCash,
	}
}

func TestEarnings_EmptyHistoryYieldsZeroSummary(t *testing.T) {
	t.Parallel()

	rideRepo := NewMockRideRepository()
	svc := service.NewEarningsService(rideRepo)

	history, err := svc.GetEarningsHistory(context.Background(), "driver-1", service.EarningsQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(history.Rides) != 0 {
		t.Errorf("expected no rides, got %d", len(history.Rides))
	}
	if history.Summary != (service.EarningsSummary{}) {
		t.Errorf("expected zero summary, got %+v", history.Summary)
	}
	if history.Pagination.TotalRides != 0 || history.Pagination.HasNext {
		t.Errorf("expected empty pagination, got %+v", history.Pagination)
	}
}

func TestEarnings_SummaryAggregation(t *testing.T) {
	t.Parallel()

	rideRepo := NewMockRideRepository()
	now := time.Now()

	rideRepo.AddRide(completedRide("ride-1", "driver-1", 200, 10, now.Add(-3*time.Hour)))
	rideRepo.AddRide(completedRide("ride-2", "driver-1", 125, 5, now.Add(-2*time.Hour)))
	rideRepo.AddRide(completedRide("ride-3", "driver-1", 110, 4, now.Add(-1*time.Hour)))

	svc := service.NewEarningsService(rideRepo)
	history, err := svc.GetEarningsHistory(context.Background(), "driver-1", service.EarningsQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if history.Summary.TotalEarnings != 435 {
		t.Errorf("expected total earnings 435, got %v", history.Summary.TotalEarnings)
	}
	if history.Summary.TotalRides != 3 {
		t.Errorf("expected 3 rides, got %d", history.Summary.TotalRides)
	}
	// 435 / 3 = 145, rounded to two decimals.
	if history.Summary.AverageFare != 145 {
		t.Errorf("expected average fare 145, got %v", history.Summary.AverageFare)
	}
	if history.Summary.TotalDistance != 19 {
		t.Errorf("expected total distance 19, got %v", history.Summary.TotalDistance)
	}

	// Newest completion first.
	if history.Rides[0].RideID != "ride-3" {
		t.Errorf("expected ride-3 first, got %s", history.Rides[0].RideID)
	}
}

func TestEarnings_AverageFareRounding(t *testing.T) {
	t.Parallel()

	rideRepo := NewMockRideRepository()
	now := time.Now()

	// 100 + 101 + 101 = 302; 302/3 = 100.666... -> 100.67
	rideRepo.AddRide(completedRide("ride-1", "driver-1", 100, 2, now))
	rideRepo.AddRide(completedRide("ride-2", "driver-1", 101, 2, now))
	rideRepo.AddRide(completedRide("ride-3", "driver-1", 101, 2, now))

	svc := service.NewEarningsService(rideRepo)
	history, err := svc.GetEarningsHistory(context.Background(), "driver-1", service.EarningsQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if history.Summary.AverageFare != 100.67 {
		t.Errorf("expected average fare 100.67, got %v", history.Summary.AverageFare)
	}
}

func TestEarnings_ExcludesUnpaidAndForeignRides(t *testing.T) {
	t.Parallel()

	rideRepo := NewMockRideRepository()
	now := time.Now()

	rideRepo.AddRide(completedRide("ride-1", "driver-1", 200, 10, now))

	// Completed but unpaid.
	unpaid := completedRide("ride-2", "driver-1", 300, 15, now)
	unpaid.PaymentStatus = domain.PaymentStatusPending
	rideRepo.AddRide(unpaid)

	// Cancelled ride.
	cancelled := completedRide("ride-3", "driver-1", 400, 20, now)
	cancelled.Status = domain.RideStatusCancelled
	rideRepo.AddRide(cancelled)

	// Someone else's ride.
	rideRepo.AddRide(completedRide("ride-4", "driver-2", 500, 25, now))

	svc := service.NewEarningsService(rideRepo)
	history, err := svc.GetEarningsHistory(context.Background(), "driver-1", service.EarningsQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if history.Summary.TotalRides != 1 {
		t.Fatalf("expected 1 qualifying ride, got %d", history.Summary.TotalRides)
	}
	if history.Summary.TotalEarnings != 200 {
		t.Errorf("expected earnings 200, got %v", history.Summary.TotalEarnings)
	}
}

func TestEarnings_DateRangeFilter(t *testing.T) {
	t.Parallel()

	rideRepo := NewMockRideRepository()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rideRepo.AddRide(completedRide("ride-old", "driver-1", 100, 5, base.AddDate(0, 0, -10)))
	rideRepo.AddRide(completedRide("ride-in", "driver-1", 200, 10, base))
	rideRepo.AddRide(completedRide("ride-new", "driver-1", 300, 15, base.AddDate(0, 0, 10)))

	svc := service.NewEarningsService(rideRepo)
	history, err := svc.GetEarningsHistory(context.Background(), "driver-1", service.EarningsQuery{
		StartDate: base.AddDate(0, 0, -1),
		EndDate:   base.AddDate(0, 0, 1),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if history.Summary.TotalRides != 1 {
		t.Fatalf("expected 1 ride in range, got %d", history.Summary.TotalRides)
	}
	if history.Rides[0].RideID != "ride-in" {
		t.Errorf("expected ride-in, got %s", history.Rides[0].RideID)
	}
}

func TestEarnings_Pagination(t *testing.T) {
	t.Parallel()

	rideRepo := NewMockRideRepository()
	now := time.Now()
	for i := 0; i < 5; i++ {
		rideRepo.AddRide(completedRide(
			string(rune('a'+i)), "driver-1", 100, 5, now.Add(time.Duration(i)*time.Minute),
		))
	}

	svc := service.NewEarningsService(rideRepo)
	history, err := svc.GetEarningsHistory(context.Background(), "driver-1", service.EarningsQuery{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(history.Rides) != 2 {
		t.Errorf("expected 2 rides on page 2, got %d", len(history.Rides))
	}
	p := history.Pagination
	if p.CurrentPage != 2 || p.TotalPages != 3 || p.TotalRides != 5 || !p.HasNext || !p.HasPrev {
		t.Errorf("unexpected pagination: %+v", p)
	}

	// The summary covers all matching rides, not just the page.
	if history.Summary.TotalRides != 5 {
		t.Errorf("expected summary over 5 rides, got %d", history.Summary.TotalRides)
	}
}

func TestEarnings_RequiresDriverID(t *testing.T) {
	t.Parallel()

	svc := service.NewEarningsService(NewMockRideRepository())
	if _, err := svc.GetEarningsHistory(context.Background(), "", service.EarningsQuery{}); err != service.ErrInvalidDriverID {
		t.Errorf("expected ErrInvalidDriverID, got %v", err)
	}
}
