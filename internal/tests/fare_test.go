package tests

import (
	"math"
	"testing"

	"ridehail/internal/service"
)

// ──────────────────────────────────────────────
// FARE CALCULATION
// ──────────────────────────────────────────────

func TestFare_Breakdown(t *testing.T) {
	t.Parallel()

	fare := service.CalculateFare(10)

	if fare.BaseFare != 50 {
		t.Errorf("expected base fare 50, got %v", fare.BaseFare)
	}
	if fare.DistanceFare != 150 {
		t.Errorf("expected distance fare 150, got %v", fare.DistanceFare)
	}
	if fare.TotalFare != 200 {
		t.Errorf("expected total fare 200, got %v", fare.TotalFare)
	}
	if fare.Currency != "BDT" {
		t.Errorf("expected currency BDT, got %s", fare.Currency)
	}
}

func TestFare_TotalIsBasePlusDistance(t *testing.T) {
	t.Parallel()

	for _, distance := range []float64{0.1, 1, 2.5, 7.37, 42, 120.5} {
		fare := service.CalculateFare(distance)
		want := 50 + 15*distance
		if math.Abs(fare.TotalFare-want) > 1e-9 {
			t.Errorf("distance %v: expected total %v, got %v", distance, want, fare.TotalFare)
		}
		if fare.TotalFare != fare.BaseFare+fare.DistanceFare {
			t.Errorf("distance %v: total does not equal base + distance", distance)
		}
	}
}

func TestFare_Deterministic(t *testing.T) {
	t.Parallel()

	first := service.CalculateFare(7.37)
	second := service.CalculateFare(7.37)

	if first != second {
		t.Errorf("expected identical fares, got %+v and %+v", first, second)
	}
}

func TestFare_PaymentMethodValidation(t *testing.T) {
	t.Parallel()

	method, err := service.ValidatePaymentMethod("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(method) != "cash" {
		t.Errorf("expected empty method to default to cash, got %s", method)
	}

	for _, valid := range []string{"cash", "card", "wallet"} {
		if _, err := service.ValidatePaymentMethod(valid); err != nil {
			t.Errorf("expected %s to be valid, got %v", valid, err)
		}
	}

	if _, err := service.ValidatePaymentMethod("cheque"); err != service.ErrInvalidPaymentMethod {
		t.Errorf("expected ErrInvalidPaymentMethod, got %v", err)
	}
}
