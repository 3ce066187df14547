package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"ridehail/internal/auth"
	"ridehail/internal/domain"
	"ridehail/internal/service"
)

// ──────────────────────────────────────────────
// REGISTRATION AND LOGIN
// ──────────────────────────────────────────────

func newAuthFixture() (*service.AuthService, *MockUserRepository) {
	userRepo := NewMockUserRepository()
	tokens := auth.NewManager("test-secret", time.Hour)
	return service.NewAuthService(userRepo, tokens, "letmein"), userRepo
}

func riderSignup() service.RegisterRequest {
	return service.RegisterRequest{
		Name:     "Rahim",
		Email:    "rahim@example.com",
		Password: "s3cret-pass",
		Phone:    "01711111111",
	}
}

func TestAuth_RegisterRiderAndLogin(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, riderSignup())
	if err != nil {
		t.Fatalf("unexpected error registering: %v", err)
	}
	if user.Role != domain.RoleRider {
		t.Errorf("expected default role rider, got %s", user.Role)
	}
	if user.PasswordHash == "s3cret-pass" {
		t.Error("password stored in plain text")
	}

	result, err := svc.Login(ctx, "rahim@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("unexpected error logging in: %v", err)
	}
	if result.Token == "" {
		t.Error("expected a token")
	}

	// The token must carry the account identity.
	claims, err := auth.NewManager("test-secret", time.Hour).Parse(result.Token)
	if err != nil {
		t.Fatalf("unexpected error parsing token: %v", err)
	}
	if claims.Subject != user.ID || claims.Role != string(domain.RoleRider) {
		t.Errorf("unexpected claims: subject=%s role=%s", claims.Subject, claims.Role)
	}
}

func TestAuth_RegisterDriverStartsUnapproved(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthFixture()

	req := riderSignup()
	req.Role = "driver"
	req.VehicleType = "bike"

	user, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.DriverInfo == nil {
		t.Fatal("expected driver info")
	}
	if user.DriverInfo.IsApproved || user.DriverInfo.IsOnline {
		t.Errorf("new driver should start unapproved and offline: %+v", user.DriverInfo)
	}
}

func TestAuth_RegisterDriverNeedsVehicleType(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthFixture()

	req := riderSignup()
	req.Role = "driver"
	req.VehicleType = "boat"

	if _, err := svc.Register(context.Background(), req); !errors.Is(err, service.ErrInvalidVehicleType) {
		t.Errorf("expected ErrInvalidVehicleType, got %v", err)
	}
}

func TestAuth_DuplicateEmailRejected(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthFixture()
	ctx := context.Background()

	if _, err := svc.Register(ctx, riderSignup()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := riderSignup()
	dup.Phone = "01722222222"
	if _, err := svc.Register(ctx, dup); !errors.Is(err, service.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuth_LoginFailures(t *testing.T) {
	t.Parallel()

	svc, userRepo := newAuthFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, riderSignup())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Login(ctx, "rahim@example.com", "wrong"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "s3cret-pass"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	if err := userRepo.SetBlocked(ctx, user.ID, true); err != nil {
		t.Fatalf("unexpected error blocking: %v", err)
	}
	if _, err := svc.Login(ctx, "rahim@example.com", "s3cret-pass"); !errors.Is(err, service.ErrAccountBlocked) {
		t.Errorf("expected ErrAccountBlocked, got %v", err)
	}
}

func TestAuth_AdminSignupTokenGate(t *testing.T) {
	t.Parallel()

	svc, _ := newAuthFixture()
	ctx := context.Background()

	if _, err := svc.RegisterAdmin(ctx, riderSignup(), "wrong-token"); !errors.Is(err, service.ErrInvalidAdminToken) {
		t.Errorf("expected ErrInvalidAdminToken, got %v", err)
	}

	user, err := svc.RegisterAdmin(ctx, riderSignup(), "letmein")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Errorf("expected admin role, got %s", user.Role)
	}
}

func TestAuth_TokenRejectedWithWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := auth.NewManager("secret-a", time.Hour).Generate("user-1", domain.RoleRider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := auth.NewManager("secret-b", time.Hour).Parse(token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}
