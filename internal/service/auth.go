package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"ridehail/internal/auth"
	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

const bcryptCost = 10

// AuthService handles account registration and login.
type AuthService struct {
	userRepo   repository.UserRepository
	tokens     *auth.Manager
	adminToken string
}

// NewAuthService creates a new AuthService. adminToken gates admin signups.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.Manager, adminToken string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		adminToken: adminToken,
	}
}

// RegisterRequest contains the parameters for account registration.
type RegisterRequest struct {
	Name        string
	Email       string
	Password    string
	Phone       string
	Role        string // rider or driver
	VehicleType string // required for drivers
}

// Register creates a rider or driver account. Driver accounts start
// unapproved and offline.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Phone == "" {
		return nil, ErrInvalidSignupInput
	}

	role := domain.Role(req.Role)
	if role == "" {
		role = domain.RoleRider
	}
	if role != domain.RoleRider && role != domain.RoleDriver {
		return nil, ErrInvalidRole
	}

	var driverInfo *domain.DriverInfo
	if role == domain.RoleDriver {
		vehicleType := domain.VehicleType(req.VehicleType)
		switch vehicleType {
		case domain.VehicleTypeCar, domain.VehicleTypeBike, domain.VehicleTypeAuto:
		default:
			return nil, ErrInvalidVehicleType
		}
		driverInfo = &domain.DriverInfo{VehicleType: vehicleType}
	}

	return s.createAccount(ctx, req, role, driverInfo)
}

// RegisterAdmin creates an admin account, gated by the configured admin
// token.
func (s *AuthService) RegisterAdmin(ctx context.Context, req RegisterRequest, adminToken string) (*domain.User, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Phone == "" {
		return nil, ErrInvalidSignupInput
	}
	if s.adminToken == "" || adminToken != s.adminToken {
		return nil, ErrInvalidAdminToken
	}

	return s.createAccount(ctx, req, domain.RoleAdmin, nil)
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Token string
	User  *domain.User
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.IsBlocked {
		return nil, ErrAccountBlocked
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: user}, nil
}

func (s *AuthService) createAccount(ctx context.Context, req RegisterRequest, role domain.Role, driverInfo *domain.DriverInfo) (*domain.User, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if _, err := s.userRepo.GetByPhone(ctx, req.Phone); err == nil {
		return nil, ErrPhoneTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Role:         role,
		IsActive:     true,
		DriverInfo:   driverInfo,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return user, nil
}
