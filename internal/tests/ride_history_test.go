package tests

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
	"ridehail/internal/service"
)

// ──────────────────────────────────────────────
// RIDE RETRIEVAL AND HISTORY
// ──────────────────────────────────────────────

func TestRide_GetRequiresOwnership(t *testing.T) {
	t.Parallel()

	svc, _, userRepo := newRideFixture()
	ctx := context.Background()

	userRepo.AddUser(&domain.User{ID: "rider-2", Role: domain.RoleRider, IsActive: true})

	detail := requestRide(t, svc)

	got, err := svc.GetRide(ctx, detail.ID, "rider-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != detail.ID {
		t.Errorf("expected ride %s, got %s", detail.ID, got.ID)
	}

	// Another rider's lookup reads as not found, never as forbidden.
	if _, err := svc.GetRide(ctx, detail.ID, "rider-2"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected not found for foreign rider, got %v", err)
	}
}

func TestRide_HistoryPagination(t *testing.T) {
	t.Parallel()

	rideRepo := NewMockRideRepository()
	userRepo := NewMockUserRepository()
	svc := service.NewRideService(rideRepo, userRepo, nil, nil)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		rideRepo.AddRide(&domain.Ride{
			ID:      fmt.Sprintf("ride-%d", i),
			RiderID: "rider-1",
			Status:  domain.RideStatusCancelled,
		})
	}

	history, err := svc.GetRideHistory(ctx, "rider-1", 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(history.Rides) != 3 {
		t.Errorf("expected 3 rides on first page, got %d", len(history.Rides))
	}
	// Newest first.
	if history.Rides[0].ID != "ride-6" {
		t.Errorf("expected ride-6 first, got %s", history.Rides[0].ID)
	}
	p := history.Pagination
	if p.CurrentPage != 1 || p.TotalPages != 3 || p.TotalRides != 7 || !p.HasNext || p.HasPrev {
		t.Errorf("unexpected pagination: %+v", p)
	}

	last, err := svc.GetRideHistory(ctx, "rider-1", 3, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(last.Rides) != 1 {
		t.Errorf("expected 1 ride on last page, got %d", len(last.Rides))
	}
	if !last.Pagination.HasPrev || last.Pagination.HasNext {
		t.Errorf("unexpected pagination on last page: %+v", last.Pagination)
	}
}

func TestRide_HistoryClampsPageInputs(t *testing.T) {
	t.Parallel()

	rideRepo := NewMockRideRepository()
	svc := service.NewRideService(rideRepo, NewMockUserRepository(), nil, nil)

	rideRepo.AddRide(&domain.Ride{ID: "ride-1", RiderID: "rider-1", Status: domain.RideStatusCancelled})

	history, err := svc.GetRideHistory(context.Background(), "rider-1", -5, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if history.Pagination.CurrentPage != 1 {
		t.Errorf("expected page clamped to 1, got %d", history.Pagination.CurrentPage)
	}
	if len(history.Rides) != 1 {
		t.Errorf("expected the ride to be listed, got %d", len(history.Rides))
	}
}
