package service

import "ridehail/internal/domain"

// Fare policy constants. The fare is computed once at request time and never
// recalculated.
const (
	baseFare     = 50.0
	perKmRate    = 15.0
	fareCurrency = "BDT"
)

// CalculateFare computes the fare breakdown for a ride of the given distance.
// Pure and deterministic; callers must validate distanceKm > 0.
func CalculateFare(distanceKm float64) domain.Fare {
	distanceFare := distanceKm * perKmRate
	return domain.Fare{
		BaseFare:     baseFare,
		DistanceFare: distanceFare,
		TotalFare:    baseFare + distanceFare,
		Currency:     fareCurrency,
	}
}

// ValidatePaymentMethod validates a payment method string. Empty defaults
// to cash.
func ValidatePaymentMethod(method string) (domain.PaymentMethod, error) {
	switch domain.PaymentMethod(method) {
	case domain.PaymentMethodCash, domain.PaymentMethodCard, domain.PaymentMethodWallet:
		return domain.PaymentMethod(method), nil
	case "":
		return domain.PaymentMethodCash, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}
