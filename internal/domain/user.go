package domain

import "time"

// Role represents an account role.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleRider  Role = "rider"
	RoleDriver Role = "driver"
)

// VehicleType represents the vehicle class a driver operates.
type VehicleType string

const (
	VehicleTypeCar  VehicleType = "car"
	VehicleTypeBike VehicleType = "bike"
	VehicleTypeAuto VehicleType = "auto"
)

// DriverInfo holds driver-specific account state. Present only on accounts
// with RoleDriver.
type DriverInfo struct {
	VehicleType VehicleType
	IsApproved  bool
	IsSuspended bool
	IsOnline    bool
}

// User represents a rider, driver, or admin account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Role         Role
	IsActive     bool
	IsBlocked    bool
	DriverInfo   *DriverInfo
	CreatedAt    time.Time
}

// CanTakeRides reports whether a driver account is allowed to accept or
// reject ride requests.
func (u *User) CanTakeRides() bool {
	if u.Role != RoleDriver || u.DriverInfo == nil {
		return false
	}
	return u.DriverInfo.IsApproved && !u.DriverInfo.IsSuspended && !u.IsBlocked
}
