package service

import "errors"

// Validation errors.
var (
	// ErrInvalidRiderID is returned when rider ID is empty.
	ErrInvalidRiderID = errors.New("invalid rider id")

	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidRideID is returned when ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidUserID is returned when user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidDistance is returned when estimated distance is not positive.
	ErrInvalidDistance = errors.New("estimated distance must be positive")

	// ErrMissingPickupLocation is returned when pickup location is empty.
	ErrMissingPickupLocation = errors.New("pickup location is required")

	// ErrMissingDestinationLocation is returned when destination location is empty.
	ErrMissingDestinationLocation = errors.New("destination location is required")

	// ErrMissingCancellationReason is returned when a cancellation has no reason.
	ErrMissingCancellationReason = errors.New("cancellation reason is required")

	// ErrMissingRejectReason is returned when a rejection has no reason.
	ErrMissingRejectReason = errors.New("reject reason is required")

	// ErrInvalidRating is returned when a rating is outside 1-5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrInvalidPaymentMethod is returned when payment method is invalid.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrUnknownStatusAction is returned for an unrecognized account status action.
	ErrUnknownStatusAction = errors.New("unknown status action")

	// ErrInvalidSignupInput is returned when a signup request is incomplete.
	ErrInvalidSignupInput = errors.New("name, email, password and phone are required")

	// ErrInvalidRole is returned when a signup requests an unsupported role.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidVehicleType is returned when a driver signup has a bad vehicle type.
	ErrInvalidVehicleType = errors.New("invalid vehicle type")
)

// Invalid-state errors: the transition is not legal from the ride's current
// status.
var (
	// ErrRideUnavailable is returned when a ride request is no longer open
	// for accept/reject.
	ErrRideUnavailable = errors.New("ride request is no longer available")

	// ErrRideNotAccepted is returned when pickup is attempted before acceptance.
	ErrRideNotAccepted = errors.New("ride must be in accepted status to pick up")

	// ErrRideNotPickedUp is returned when start is attempted before pickup.
	ErrRideNotPickedUp = errors.New("ride must be in picked up status to start")

	// ErrRideNotInProgress is returned when complete is attempted before start.
	ErrRideNotInProgress = errors.New("ride must be in progress to complete")

	// ErrRideNotCompleted is returned when rating is attempted before completion.
	ErrRideNotCompleted = errors.New("can only rate completed rides")

	// ErrRideAlreadyCancelled is returned when cancelling a cancelled ride.
	ErrRideAlreadyCancelled = errors.New("ride is already cancelled")

	// ErrCannotCancelCompleted is returned when cancelling a completed ride.
	ErrCannotCancelCompleted = errors.New("cannot cancel a completed ride")

	// ErrCannotCancelInProgress is returned when cancelling a ride that is
	// already underway.
	ErrCannotCancelInProgress = errors.New("cannot cancel a ride in progress")
)

// Conflict errors: a concurrent or duplicate action already claimed the slot.
var (
	// ErrActiveRideExists is returned when a rider already has an active ride.
	ErrActiveRideExists = errors.New("rider already has an active ride request")

	// ErrRideAlreadyAccepted is returned when another driver accepted first.
	ErrRideAlreadyAccepted = errors.New("ride has already been accepted by another driver")

	// ErrAlreadyRejected is returned when a driver rejected this ride before.
	ErrAlreadyRejected = errors.New("driver has already rejected this ride request")

	// ErrAlreadyRated is returned on a second rating attempt.
	ErrAlreadyRated = errors.New("ride has already been rated")

	// ErrEmailTaken is returned when a signup email is already registered.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrPhoneTaken is returned when a signup phone is already registered.
	ErrPhoneTaken = errors.New("phone number is already registered")
)

// Authentication and authorization errors.
var (
	// ErrInvalidCredentials is returned when login fails.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidAdminToken is returned when admin signup has a bad token.
	ErrInvalidAdminToken = errors.New("invalid admin token")

	// ErrDriverNotApproved is returned when an unapproved driver acts on rides.
	ErrDriverNotApproved = errors.New("driver account is pending approval")

	// ErrDriverSuspended is returned when a suspended driver acts on rides.
	ErrDriverSuspended = errors.New("driver account is suspended")

	// ErrAccountBlocked is returned when a blocked account acts.
	ErrAccountBlocked = errors.New("account is blocked")
)
