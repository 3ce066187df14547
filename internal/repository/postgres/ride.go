package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

const rideColumns = `id, rider_id, driver_id, pickup_location, destination_location, estimated_distance,
	status, base_fare, distance_fare, total_fare, currency,
	requested_at, accepted_at, picked_up_at, completed_at, cancelled_at, cancelled_by, cancellation_reason,
	payment_status, payment_method, rider_rating, rider_comment, driver_rating, driver_comment, created_at`

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (id, rider_id, pickup_location, destination_location, estimated_distance,
			status, base_fare, distance_fare, total_fare, currency,
			requested_at, payment_status, payment_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.RiderID,
		ride.PickupLocation,
		ride.DestinationLocation,
		ride.EstimatedDistance,
		ride.Status,
		ride.Fare.BaseFare,
		ride.Fare.DistanceFare,
		ride.Fare.TotalFare,
		ride.Fare.Currency,
		ride.RequestedAt,
		ride.PaymentStatus,
		ride.PaymentMethod,
		ride.CreatedAt,
	)

	return err
}

// GetByID retrieves a ride by ID, including its rejection history.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	ride, err := scanRide(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	ride.RejectedDrivers, err = r.loadRejections(ctx, id)
	if err != nil {
		return nil, err
	}

	return ride, nil
}

// GetDetail retrieves a ride joined with rider and driver display fields.
func (r *RideRepository) GetDetail(ctx context.Context, id string) (*domain.RideDetail, error) {
	query := `
		SELECT ` + prefixedRideColumns("r") + `,
			ru.id, ru.name, ru.phone, ru.email,
			du.id, du.name, du.phone, du.email
		FROM rides r
		JOIN users ru ON ru.id = r.rider_id
		LEFT JOIN users du ON du.id = r.driver_id
		WHERE r.id = $1
	`

	detail, err := scanRideDetail(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	detail.RejectedDrivers, err = r.loadRejections(ctx, id)
	if err != nil {
		return nil, err
	}

	return detail, nil
}

// FindActiveByRider returns the rider's ride in an active status, if any.
func (r *RideRepository) FindActiveByRider(ctx context.Context, riderID string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + `
		FROM rides
		WHERE rider_id = $1 AND status = ANY($2)
		LIMIT 1`

	statuses := make([]string, len(domain.ActiveRideStatuses))
	for i, s := range domain.ActiveRideStatuses {
		statuses[i] = string(s)
	}

	return scanRide(r.q.QueryRowContext(ctx, query, riderID, pq.Array(statuses)))
}

// Accept assigns a driver to a requested, unassigned ride. The status check,
// the unassigned check, and the prior-rejection check are all part of the
// update predicate so concurrent accepts cannot both succeed.
func (r *RideRepository) Accept(ctx context.Context, rideID string, patch repository.AcceptPatch) error {
	query := `
		UPDATE rides
		SET driver_id = $2, status = $3, accepted_at = $4
		WHERE id = $1
		  AND status = $5
		  AND driver_id IS NULL
		  AND NOT EXISTS (
			SELECT 1 FROM ride_rejections WHERE ride_id = $1 AND driver_id = $2
		  )
	`

	result, err := r.q.ExecContext(ctx, query,
		rideID, patch.DriverID, domain.RideStatusAccepted, patch.AcceptedAt, domain.RideStatusRequested)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// AppendRejection records a driver's rejection of a requested, unassigned
// ride. The ride's status is unchanged; it remains open for other drivers.
func (r *RideRepository) AppendRejection(ctx context.Context, rideID string, rejection domain.RejectedDriver) error {
	query := `
		INSERT INTO ride_rejections (ride_id, driver_id, reject_reason)
		SELECT $1, $2, $3
		WHERE EXISTS (
			SELECT 1 FROM rides WHERE id = $1 AND status = $4 AND driver_id IS NULL
		)
	`

	result, err := r.q.ExecContext(ctx, query,
		rideID, rejection.DriverID, rejection.RejectReason, domain.RideStatusRequested)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return repository.ErrDuplicate
		}
		return err
	}

	return requireRow(result)
}

// Cancel moves a rider-owned ride from a cancellable status to cancelled.
func (r *RideRepository) Cancel(ctx context.Context, rideID, riderID string, patch repository.CancelPatch) error {
	query := `
		UPDATE rides
		SET status = $3, cancelled_at = $4, cancelled_by = $5, cancellation_reason = $6
		WHERE id = $1 AND rider_id = $2 AND status = ANY($7)
	`

	cancellable := []string{
		string(domain.RideStatusRequested),
		string(domain.RideStatusAccepted),
		string(domain.RideStatusPickedUp),
	}

	result, err := r.q.ExecContext(ctx, query,
		rideID, riderID, domain.RideStatusCancelled,
		patch.CancelledAt, patch.CancelledBy, patch.Reason, pq.Array(cancellable))
	if err != nil {
		return err
	}

	return requireRow(result)
}

// PickUp moves a driver-owned ride from accepted to picked_up.
func (r *RideRepository) PickUp(ctx context.Context, rideID, driverID string, at time.Time) error {
	query := `
		UPDATE rides
		SET status = $3, picked_up_at = $4
		WHERE id = $1 AND driver_id = $2 AND status = $5
	`

	result, err := r.q.ExecContext(ctx, query,
		rideID, driverID, domain.RideStatusPickedUp, at, domain.RideStatusAccepted)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// Start moves a driver-owned ride from picked_up to in_progress.
func (r *RideRepository) Start(ctx context.Context, rideID, driverID string) error {
	query := `
		UPDATE rides
		SET status = $3
		WHERE id = $1 AND driver_id = $2 AND status = $4
	`

	result, err := r.q.ExecContext(ctx, query,
		rideID, driverID, domain.RideStatusInProgress, domain.RideStatusPickedUp)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// Complete moves a driver-owned ride from in_progress to completed.
func (r *RideRepository) Complete(ctx context.Context, rideID, driverID string, patch repository.CompletePatch) error {
	query := `
		UPDATE rides
		SET status = $3, completed_at = $4, payment_status = $5
		WHERE id = $1 AND driver_id = $2 AND status = $6
	`

	result, err := r.q.ExecContext(ctx, query,
		rideID, driverID, domain.RideStatusCompleted,
		patch.CompletedAt, patch.PaymentStatus, domain.RideStatusInProgress)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// SetRiderRating sets the rider rating on a completed, not-yet-rated ride.
func (r *RideRepository) SetRiderRating(ctx context.Context, rideID, riderID string, patch repository.RatingPatch) error {
	query := `
		UPDATE rides
		SET rider_rating = $3, rider_comment = $4
		WHERE id = $1 AND rider_id = $2 AND status = $5 AND rider_rating IS NULL
	`

	result, err := r.q.ExecContext(ctx, query,
		rideID, riderID, patch.Rating, patch.Comment, domain.RideStatusCompleted)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// ListByRider returns a page of the rider's rides, newest first. Rejection
// history is not loaded for list views.
func (r *RideRepository) ListByRider(ctx context.Context, riderID string, offset, limit int) ([]*domain.RideDetail, error) {
	query := `
		SELECT ` + prefixedRideColumns("r") + `,
			ru.id, ru.name, ru.phone, ru.email,
			du.id, du.name, du.phone, du.email
		FROM rides r
		JOIN users ru ON ru.id = r.rider_id
		LEFT JOIN users du ON du.id = r.driver_id
		WHERE r.rider_id = $1
		ORDER BY r.created_at DESC
		OFFSET $2 LIMIT $3
	`

	return r.queryDetails(ctx, query, riderID, offset, limit)
}

// CountByRider returns the rider's total ride count.
func (r *RideRepository) CountByRider(ctx context.Context, riderID string) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM rides WHERE rider_id = $1`, riderID).Scan(&count)
	return count, err
}

// ListCompletedByDriver returns a page of the driver's completed, paid rides,
// newest completion first.
func (r *RideRepository) ListCompletedByDriver(ctx context.Context, driverID string, filter repository.EarningsFilter, offset, limit int) ([]*domain.RideDetail, error) {
	where, args := earningsWhere(driverID, filter, "r.")

	args = append(args, offset, limit)
	query := fmt.Sprintf(`
		SELECT `+prefixedRideColumns("r")+`,
			ru.id, ru.name, ru.phone, ru.email,
			du.id, du.name, du.phone, du.email
		FROM rides r
		JOIN users ru ON ru.id = r.rider_id
		LEFT JOIN users du ON du.id = r.driver_id
		WHERE %s
		ORDER BY r.completed_at DESC
		OFFSET $%d LIMIT $%d
	`, where, len(args)-1, len(args))

	return r.queryDetails(ctx, query, args...)
}

// CountCompletedByDriver counts the driver's completed, paid rides.
func (r *RideRepository) CountCompletedByDriver(ctx context.Context, driverID string, filter repository.EarningsFilter) (int, error) {
	where, args := earningsWhere(driverID, filter, "")

	var count int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM rides WHERE `+where, args...).Scan(&count)
	return count, err
}

// EarningsSummary aggregates the driver's completed, paid rides.
func (r *RideRepository) EarningsSummary(ctx context.Context, driverID string, filter repository.EarningsFilter) (*repository.EarningsSummary, error) {
	where, args := earningsWhere(driverID, filter, "")

	query := `
		SELECT COALESCE(SUM(total_fare), 0), COUNT(*), COALESCE(AVG(total_fare), 0), COALESCE(SUM(estimated_distance), 0)
		FROM rides
		WHERE ` + where

	var summary repository.EarningsSummary
	err := r.q.QueryRowContext(ctx, query, args...).Scan(
		&summary.TotalEarnings,
		&summary.TotalRides,
		&summary.AverageFare,
		&summary.TotalDistance,
	)
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

// ListAll retrieves recent rides for admin views.
func (r *RideRepository) ListAll(ctx context.Context) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides ORDER BY created_at DESC LIMIT 100`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

// loadRejections loads a ride's rejection history in insertion order.
func (r *RideRepository) loadRejections(ctx context.Context, rideID string) ([]domain.RejectedDriver, error) {
	query := `SELECT driver_id, reject_reason FROM ride_rejections WHERE ride_id = $1 ORDER BY id`

	rows, err := r.q.QueryContext(ctx, query, rideID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rejections []domain.RejectedDriver
	for rows.Next() {
		var rej domain.RejectedDriver
		if err := rows.Scan(&rej.DriverID, &rej.RejectReason); err != nil {
			return nil, err
		}
		rejections = append(rejections, rej)
	}
	return rejections, rows.Err()
}

func (r *RideRepository) queryDetails(ctx context.Context, query string, args ...any) ([]*domain.RideDetail, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []*domain.RideDetail
	for rows.Next() {
		detail, err := scanRideDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, rows.Err()
}

// earningsWhere builds the completed-and-paid filter shared by the earnings
// queries. prefix qualifies column names for joined queries.
func earningsWhere(driverID string, filter repository.EarningsFilter, prefix string) (string, []any) {
	where := fmt.Sprintf("%sdriver_id = $1 AND %sstatus = 'completed' AND %spayment_status = 'completed'",
		prefix, prefix, prefix)
	args := []any{driverID}

	if !filter.Start.IsZero() {
		args = append(args, filter.Start)
		where += fmt.Sprintf(" AND %scompleted_at >= $%d", prefix, len(args))
	}
	if !filter.End.IsZero() {
		args = append(args, filter.End)
		where += fmt.Sprintf(" AND %scompleted_at <= $%d", prefix, len(args))
	}

	return where, args
}

// requireRow converts a zero-row conditional update into ErrNotFound.
func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// prefixedRideColumns qualifies rideColumns with a table alias.
func prefixedRideColumns(alias string) string {
	return fmt.Sprintf(`%[1]s.id, %[1]s.rider_id, %[1]s.driver_id, %[1]s.pickup_location, %[1]s.destination_location, %[1]s.estimated_distance,
	%[1]s.status, %[1]s.base_fare, %[1]s.distance_fare, %[1]s.total_fare, %[1]s.currency,
	%[1]s.requested_at, %[1]s.accepted_at, %[1]s.picked_up_at, %[1]s.completed_at, %[1]s.cancelled_at, %[1]s.cancelled_by, %[1]s.cancellation_reason,
	%[1]s.payment_status, %[1]s.payment_method, %[1]s.rider_rating, %[1]s.rider_comment, %[1]s.driver_rating, %[1]s.driver_comment, %[1]s.created_at`, alias)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanRide scans a row selected with rideColumns.
func scanRide(row rowScanner) (*domain.Ride, error) {
	var ride domain.Ride
	var fields rideNullFields

	err := row.Scan(rideScanTargets(&ride, &fields)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	fields.apply(&ride)
	return &ride, nil
}

// scanRideDetail scans a row selected with prefixedRideColumns plus the
// joined rider and driver display columns.
func scanRideDetail(row rowScanner) (*domain.RideDetail, error) {
	var detail domain.RideDetail
	var fields rideNullFields
	var driverJoin struct {
		id    sql.NullString
		name  sql.NullString
		phone sql.NullString
		email sql.NullString
	}

	targets := rideScanTargets(&detail.Ride, &fields)
	targets = append(targets,
		&detail.Rider.ID, &detail.Rider.Name, &detail.Rider.Phone, &detail.Rider.Email,
		&driverJoin.id, &driverJoin.name, &driverJoin.phone, &driverJoin.email,
	)

	if err := row.Scan(targets...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	fields.apply(&detail.Ride)

	if driverJoin.id.Valid {
		detail.Driver = &domain.ContactInfo{
			ID:    driverJoin.id.String,
			Name:  driverJoin.name.String,
			Phone: driverJoin.phone.String,
			Email: driverJoin.email.String,
		}
	}

	return &detail, nil
}

// rideNullFields holds the nullable ride columns during scanning.
type rideNullFields struct {
	driverID      sql.NullString
	acceptedAt    sql.NullTime
	pickedUpAt    sql.NullTime
	completedAt   sql.NullTime
	cancelledAt   sql.NullTime
	cancelledBy   sql.NullString
	cancelReason  sql.NullString
	riderRating   sql.NullInt64
	riderComment  sql.NullString
	driverRating  sql.NullInt64
	driverComment sql.NullString
}

func rideScanTargets(ride *domain.Ride, f *rideNullFields) []any {
	return []any{
		&ride.ID,
		&ride.RiderID,
		&f.driverID,
		&ride.PickupLocation,
		&ride.DestinationLocation,
		&ride.EstimatedDistance,
		&ride.Status,
		&ride.Fare.BaseFare,
		&ride.Fare.DistanceFare,
		&ride.Fare.TotalFare,
		&ride.Fare.Currency,
		&ride.RequestedAt,
		&f.acceptedAt,
		&f.pickedUpAt,
		&f.completedAt,
		&f.cancelledAt,
		&f.cancelledBy,
		&f.cancelReason,
		&ride.PaymentStatus,
		&ride.PaymentMethod,
		&f.riderRating,
		&f.riderComment,
		&f.driverRating,
		&f.driverComment,
		&ride.CreatedAt,
	}
}

func (f *rideNullFields) apply(ride *domain.Ride) {
	if f.driverID.Valid {
		ride.DriverID = f.driverID.String
	}
	if f.acceptedAt.Valid {
		ride.AcceptedAt = f.acceptedAt.Time
	}
	if f.pickedUpAt.Valid {
		ride.PickedUpAt = f.pickedUpAt.Time
	}
	if f.completedAt.Valid {
		ride.CompletedAt = f.completedAt.Time
	}
	if f.cancelledAt.Valid {
		ride.CancelledAt = f.cancelledAt.Time
	}
	if f.cancelledBy.Valid {
		ride.CancelledBy = domain.Role(f.cancelledBy.String)
	}
	if f.cancelReason.Valid {
		ride.CancellationReason = f.cancelReason.String
	}
	if f.riderRating.Valid {
		ride.Rating.RiderRating = int(f.riderRating.Int64)
	}
	if f.riderComment.Valid {
		ride.Rating.RiderComment = f.riderComment.String
	}
	if f.driverRating.Valid {
		ride.Rating.DriverRating = int(f.driverRating.Int64)
	}
	if f.driverComment.Valid {
		ride.Rating.DriverComment = f.driverComment.String
	}
}
