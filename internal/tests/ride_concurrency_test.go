package tests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"ridehail/internal/domain"
	"ridehail/internal/service"
)

// ──────────────────────────────────────────────
// CONCURRENT ACCEPT / REJECT
// ──────────────────────────────────────────────

func TestRide_ConcurrentAccept_ExactlyOneWinner(t *testing.T) {
	t.Parallel()

	svc, rideRepo, userRepo := newRideFixture()
	ctx := context.Background()

	const drivers = 8
	for i := 2; i <= drivers; i++ {
		userRepo.AddUser(&domain.User{
			ID:       fmt.Sprintf("driver-%d", i),
			Role:     domain.RoleDriver,
			IsActive: true,
			DriverInfo: &domain.DriverInfo{
				VehicleType: domain.VehicleTypeCar,
				IsApproved:  true,
			},
		})
	}

	detail := requestRide(t, svc)

	var wg sync.WaitGroup
	results := make([]error, drivers)
	for i := 0; i < drivers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.AcceptRide(ctx, detail.ID, fmt.Sprintf("driver-%d", i+1))
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range results {
		if err == nil {
			winners++
			continue
		}
		if !errors.Is(err, service.ErrRideAlreadyAccepted) && !errors.Is(err, service.ErrRideUnavailable) {
			t.Errorf("driver-%d: unexpected loser error: %v", i+1, err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winning accept, got %d", winners)
	}

	stored := rideRepo.GetRide(detail.ID)
	if stored.Status != domain.RideStatusAccepted {
		t.Errorf("expected status accepted, got %s", stored.Status)
	}
	if stored.DriverID == "" {
		t.Error("expected a driver to be assigned")
	}
}

func TestRide_AcceptAfterAcceptFails(t *testing.T) {
	t.Parallel()

	svc, _, userRepo := newRideFixture()
	ctx := context.Background()

	userRepo.AddUser(&domain.User{
		ID:       "driver-2",
		Role:     domain.RoleDriver,
		IsActive: true,
		DriverInfo: &domain.DriverInfo{
			VehicleType: domain.VehicleTypeAuto,
			IsApproved:  true,
		},
	})

	detail := requestRide(t, svc)
	if _, err := svc.AcceptRide(ctx, detail.ID, "driver-1"); err != nil {
		t.Fatalf("unexpected error accepting: %v", err)
	}

	if _, err := svc.AcceptRide(ctx, detail.ID, "driver-2"); !errors.Is(err, service.ErrRideAlreadyAccepted) {
		t.Errorf("expected ErrRideAlreadyAccepted, got %v", err)
	}
}

func TestRide_RejectedDriverCannotAccept(t *testing.T) {
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

	rejected, err := svc.RejectRide(ctx, detail.ID, "driver-1", "too far")
	if err != nil {
		t.Fatalf("unexpected error rejecting: %v", err)
	}
	if len(rejected.RejectedDrivers) != 1 || rejected.RejectedDrivers[0].DriverID != "driver-1" {
		t.Fatalf("rejection not recorded: %+v", rejected.RejectedDrivers)
	}
	if rejected.Status != domain.RideStatusRequested {
		t.Errorf("expected ride to stay requested after rejection, got %s", rejected.Status)
	}

	// The rejecting driver is locked out for good.
	if _, err := svc.AcceptRide(ctx, detail.ID, "driver-1"); !errors.Is(err, service.ErrAlreadyRejected) {
		t.Errorf("expected ErrAlreadyRejected, got %v", err)
	}

	// Another driver can still take it.
	if _, err := svc.AcceptRide(ctx, detail.ID, "driver-2"); err != nil {
		t.Errorf("expected second driver to accept, got %v", err)
	}
}

func TestRide_DoubleRejectFails(t *testing.T) {
	t.Parallel()

	svc, _, _ := newRideFixture()
	ctx := context.Background()

	detail := requestRide(t, svc)

	if _, err := svc.RejectRide(ctx, detail.ID, "driver-1", "too far"); err != nil {
		t.Fatalf("unexpected error rejecting: %v", err)
	}
	if _, err := svc.RejectRide(ctx, detail.ID, "driver-1", "still too far"); !errors.Is(err, service.ErrAlreadyRejected) {
		t.Errorf("expected ErrAlreadyRejected, got %v", err)
	}
}

func TestRide_UnapprovedDriverCannotAct(t *testing.T) {
	t.Parallel()

	svc, _, userRepo := newRideFixture()
	ctx := context.Background()

	userRepo.AddUser(&domain.User{
		ID:       "driver-pending",
		Role:     domain.RoleDriver,
		IsActive: true,
		DriverInfo: &domain.DriverInfo{
			VehicleType: domain.VehicleTypeCar,
		},
	})
	userRepo.AddUser(&domain.User{
		ID:       "driver-suspended",
		Role:     domain.RoleDriver,
		IsActive: true,
		DriverInfo: &domain.DriverInfo{
			VehicleType: domain.VehicleTypeCar,
			IsApproved:  true,
			IsSuspended: true,
		},
	})

	detail := requestRide(t, svc)

	if _, err := svc.AcceptRide(ctx, detail.ID, "driver-pending"); !errors.Is(err, service.ErrDriverNotApproved) {
		t.Errorf("expected ErrDriverNotApproved, got %v", err)
	}
	if _, err := svc.AcceptRide(ctx, detail.ID, "driver-suspended"); !errors.Is(err, service.ErrDriverSuspended) {
		t.Errorf("expected ErrDriverSuspended, got %v", err)
	}
	if _, err := svc.RejectRide(ctx, detail.ID, "driver-pending", "n/a"); !errors.Is(err, service.ErrDriverNotApproved) {
		t.Errorf("expected ErrDriverNotApproved on reject, got %v", err)
	}
}
