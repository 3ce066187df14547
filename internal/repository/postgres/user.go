package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, email, password_hash, phone, role, is_active, is_blocked,
	vehicle_type, is_approved, is_suspended, is_online, created_at`

// Create persists a new account.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, phone, role, is_active, is_blocked,
			vehicle_type, is_approved, is_suspended, is_online, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	var vehicleType sql.NullString
	var approved, suspended, online sql.NullBool
	if user.DriverInfo != nil {
		vehicleType = sql.NullString{String: string(user.DriverInfo.VehicleType), Valid: true}
		approved = sql.NullBool{Bool: user.DriverInfo.IsApproved, Valid: true}
		suspended = sql.NullBool{Bool: user.DriverInfo.IsSuspended, Valid: true}
		online = sql.NullBool{Bool: user.DriverInfo.IsOnline, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.Role,
		user.IsActive,
		user.IsBlocked,
		vehicleType,
		approved,
		suspended,
		online,
		user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return repository.ErrDuplicate
		}
		return err
	}

	return nil
}

// GetByID retrieves an account by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves an account by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByPhone retrieves an account by phone number.
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, phone))
}

// List retrieves all accounts.
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	return r.queryUsers(ctx, query)
}

// ListByRole retrieves all accounts with the given role.
func (r *UserRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at DESC`
	return r.queryUsers(ctx, query, role)
}

// SetBlocked sets the blocked flag on an account.
func (r *UserRepository) SetBlocked(ctx context.Context, id string, blocked bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET is_blocked = $2 WHERE id = $1`, id, blocked)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// SetDriverFlags sets the approval and suspension flags on a driver account.
func (r *UserRepository) SetDriverFlags(ctx context.Context, id string, approved, suspended bool) error {
	query := `UPDATE users SET is_approved = $2, is_suspended = $3 WHERE id = $1 AND role = $4`

	result, err := r.db.ExecContext(ctx, query, id, approved, suspended, domain.RoleDriver)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// SetDriverOnline sets the availability flag on a driver account.
func (r *UserRepository) SetDriverOnline(ctx context.Context, id string, online bool) error {
	query := `UPDATE users SET is_online = $2 WHERE id = $1 AND role = $3`

	result, err := r.db.ExecContext(ctx, query, id, online, domain.RoleDriver)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *UserRepository) queryUsers(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// scanUser scans a row selected with userColumns.
func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var vehicleType sql.NullString
	var approved, suspended, online sql.NullBool

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.Role,
		&user.IsActive,
		&user.IsBlocked,
		&vehicleType,
		&approved,
		&suspended,
		&online,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if user.Role == domain.RoleDriver {
		user.DriverInfo = &domain.DriverInfo{
			VehicleType: domain.VehicleType(vehicleType.String),
			IsApproved:  approved.Bool,
			IsSuspended: suspended.Bool,
			IsOnline:    online.Bool,
		}
	}

	return &user, nil
}
