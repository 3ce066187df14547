package service

import (
	"context"
	"math"
	"time"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// EarningsService derives driver earnings summaries and history from
// completed, paid rides.
type EarningsService struct {
	rideRepo repository.RideRepository
}

// NewEarningsService creates a new EarningsService.
func NewEarningsService(rideRepo repository.RideRepository) *EarningsService {
	return &EarningsService{rideRepo: rideRepo}
}

// EarningsQuery contains the parameters for an earnings history request.
// Zero dates leave the corresponding bound open.
type EarningsQuery struct {
	Page      int
	Limit     int
	StartDate time.Time
	EndDate   time.Time
}

// EarningsRide is one completed ride formatted for the earnings history.
type EarningsRide struct {
	RideID              string
	Rider               domain.ContactInfo
	PickupLocation      string
	DestinationLocation string
	Distance            float64
	Fare                domain.Fare
	CompletedAt         time.Time
	PaymentMethod       domain.PaymentMethod
	DriverRating        int // 0 when the ride has no driver rating
}

// EarningsSummary aggregates the matching rides. All zeros when no rides
// match.
type EarningsSummary struct {
	TotalEarnings float64
	TotalRides    int
	AverageFare   float64
	TotalDistance float64
}

// EarningsHistory is a page of formatted earnings with the aggregate summary.
type EarningsHistory struct {
	Rides      []EarningsRide
	Pagination Pagination
	Summary    EarningsSummary
}

// GetEarningsHistory returns the driver's completed, paid rides, optionally
// bounded by completion date, with pagination metadata and an aggregate
// summary. An empty result yields a zero summary, never an error.
func (s *EarningsService) GetEarningsHistory(ctx context.Context, driverID string, q EarningsQuery) (*EarningsHistory, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	page, limit := normalizePage(q.Page, q.Limit)
	filter := repository.EarningsFilter{Start: q.StartDate, End: q.EndDate}

	rides, err := s.rideRepo.ListCompletedByDriver(ctx, driverID, filter, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}

	total, err := s.rideRepo.CountCompletedByDriver(ctx, driverID, filter)
	if err != nil {
		return nil, err
	}

	summary, err := s.summarize(ctx, driverID, filter)
	if err != nil {
		return nil, err
	}

	formatted := make([]EarningsRide, 0, len(rides))
	for _, ride := range rides {
		formatted = append(formatted, EarningsRide{
			RideID:              ride.ID,
			Rider:               ride.Rider,
			PickupLocation:      ride.PickupLocation,
			DestinationLocation: ride.DestinationLocation,
			Distance:            ride.EstimatedDistance,
			Fare:                ride.Fare,
			CompletedAt:         ride.CompletedAt,
			PaymentMethod:       ride.PaymentMethod,
			DriverRating:        ride.Rating.DriverRating,
		})
	}

	return &EarningsHistory{
		Rides:      formatted,
		Pagination: newPagination(page, limit, total),
		Summary:    summary,
	}, nil
}

func (s *EarningsService) summarize(ctx context.Context, driverID string, filter repository.EarningsFilter) (EarningsSummary, error) {
	agg, err := s.rideRepo.EarningsSummary(ctx, driverID, filter)
	if err != nil {
		return EarningsSummary{}, err
	}

	return EarningsSummary{
		TotalEarnings: agg.TotalEarnings,
		TotalRides:    agg.TotalRides,
		AverageFare:   math.Round(agg.AverageFare*100) / 100,
		TotalDistance: agg.TotalDistance,
	}, nil
}
