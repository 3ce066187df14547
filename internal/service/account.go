package service

import (
	"context"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// Account status actions.
const (
	DriverActionApprove  = "approve"
	DriverActionSuspend  = "suspend"
	DriverActionActivate = "activate"

	UserActionBlock   = "block"
	UserActionUnblock = "unblock"
)

// AccountService handles admin account state toggles and driver
// availability.
type AccountService struct {
	userRepo repository.UserRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(userRepo repository.UserRepository) *AccountService {
	return &AccountService{userRepo: userRepo}
}

// UpdateDriverStatus applies an admin action to a driver account.
// approve sets isApproved and clears isSuspended; suspend does the inverse;
// activate marks the driver online.
func (s *AccountService) UpdateDriverStatus(ctx context.Context, driverID, action string) (*domain.User, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	var err error
	switch action {
	case DriverActionApprove:
		err = s.userRepo.SetDriverFlags(ctx, driverID, true, false)
	case DriverActionSuspend:
		err = s.userRepo.SetDriverFlags(ctx, driverID, false, true)
	case DriverActionActivate:
		err = s.userRepo.SetDriverOnline(ctx, driverID, true)
	default:
		return nil, ErrUnknownStatusAction
	}
	if err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, driverID)
}

// UpdateUserStatus applies an admin action to a user account.
func (s *AccountService) UpdateUserStatus(ctx context.Context, userID, action string) (*domain.User, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}

	var blocked bool
	switch action {
	case UserActionBlock:
		blocked = true
	case UserActionUnblock:
		blocked = false
	default:
		return nil, ErrUnknownStatusAction
	}

	if err := s.userRepo.SetBlocked(ctx, userID, blocked); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, userID)
}

// SetDriverAvailability lets a driver toggle their own online flag.
func (s *AccountService) SetDriverAvailability(ctx context.Context, driverID string, online bool) (*domain.User, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	if err := s.userRepo.SetDriverOnline(ctx, driverID, online); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, driverID)
}

// ListUsers retrieves all accounts for admin views.
func (s *AccountService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}

// ListDrivers retrieves all driver accounts for admin views.
func (s *AccountService) ListDrivers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.ListByRole(ctx, domain.RoleDriver)
}
