package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is an in-memory implementation of RideRepository.
// Transition methods reproduce the conditional-update semantics of the
// real store: the expected status and ownership are checked under the
// lock, so concurrent callers race exactly like they would against
// PostgreSQL.
type MockRideRepository struct {
	mu    sync.RWMutex
	rides map[string]*domain.Ride
	seq   []string // insertion order, oldest first

	// Counters for verification
	CreateCallCount int32
	AcceptCallCount int32
	CancelCallCount int32

	// Error injection
	CreateError error
	AcceptError error
}

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides: make(map[string]*domain.Ride),
	}
}

// AddRide seeds a ride directly into the store.
func (m *MockRideRepository) AddRide(ride *domain.Ride) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[ride.ID] = ride
	m.seq = append(m.seq, ride.ID)
}

// GetRide returns the stored ride for test assertions.
func (m *MockRideRepository) GetRide(id string) *domain.Ride {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rides[id]
}

func (m *MockRideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *ride
	m.rides[ride.ID] = &copy
	m.seq = append(m.seq, ride.ID)
	return nil
}

func (m *MockRideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *ride
	copy.RejectedDrivers = append([]domain.RejectedDriver(nil), ride.RejectedDrivers...)
	return &copy, nil
}

func (m *MockRideRepository) GetDetail(ctx context.Context, id string) (*domain.RideDetail, error) {
	ride, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.toDetail(ride), nil
}

func (m *MockRideRepository) toDetail(ride *domain.Ride) *domain.RideDetail {
	detail := &domain.RideDetail{
		Ride:  *ride,
		Rider: domain.ContactInfo{ID: ride.RiderID},
	}
	if ride.DriverID != "" {
		detail.Driver = &domain.ContactInfo{ID: ride.DriverID}
	}
	return detail
}

func (m *MockRideRepository) FindActiveByRider(ctx context.Context, riderID string) (*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, ride := range m.rides {
		if ride.RiderID != riderID {
			continue
		}
		for _, status := range domain.ActiveRideStatuses {
			if ride.Status == status {
				copy := *ride
				return &copy, nil
			}
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockRideRepository) Accept(ctx context.Context, rideID string, patch repository.AcceptPatch) error {
	atomic.AddInt32(&m.AcceptCallCount, 1)
	if m.AcceptError != nil {
		return m.AcceptError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok || ride.Status != domain.RideStatusRequested || ride.DriverID != "" {
		return repository.ErrNotFound
	}
	for _, rej := range ride.RejectedDrivers {
		if rej.DriverID == patch.DriverID {
			return repository.ErrNotFound
		}
	}
	ride.DriverID = patch.DriverID
	ride.Status = domain.RideStatusAccepted
	ride.AcceptedAt = patch.AcceptedAt
	return nil
}

func (m *MockRideRepository) AppendRejection(ctx context.Context, rideID string, rejection domain.RejectedDriver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, rej := range ride.RejectedDrivers {
		if rej.DriverID == rejection.DriverID {
			return repository.ErrDuplicate
		}
	}
	if ride.Status != domain.RideStatusRequested || ride.DriverID != "" {
		return repository.ErrNotFound
	}
	ride.RejectedDrivers = append(ride.RejectedDrivers, rejection)
	return nil
}

func (m *MockRideRepository) Cancel(ctx context.Context, rideID, riderID string, patch repository.CancelPatch) error {
	atomic.AddInt32(&m.CancelCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok || ride.RiderID != riderID {
		return repository.ErrNotFound
	}
	switch ride.Status {
	case domain.RideStatusRequested, domain.RideStatusAccepted, domain.RideStatusPickedUp:
	default:
		return repository.ErrNotFound
	}
	ride.Status = domain.RideStatusCancelled
	ride.CancelledBy = patch.CancelledBy
	ride.CancellationReason = patch.Reason
	ride.CancelledAt = patch.CancelledAt
	return nil
}

func (m *MockRideRepository) PickUp(ctx context.Context, rideID, driverID string, at time.Time) error {
	return m.driverTransition(rideID, driverID, domain.RideStatusAccepted, func(ride *domain.Ride) {
		ride.Status = domain.RideStatusPickedUp
		ride.PickedUpAt = at
	})
}

func (m *MockRideRepository) Start(ctx context.Context, rideID, driverID string) error {
	return m.driverTransition(rideID, driverID, domain.RideStatusPickedUp, func(ride *domain.Ride) {
		ride.Status = domain.RideStatusInProgress
	})
}

func (m *MockRideRepository) Complete(ctx context.Context, rideID, driverID string, patch repository.CompletePatch) error {
	return m.driverTransition(rideID, driverID, domain.RideStatusInProgress, func(ride *domain.Ride) {
		ride.Status = domain.RideStatusCompleted
		ride.CompletedAt = patch.CompletedAt
		ride.PaymentStatus = patch.PaymentStatus
	})
}

func (m *MockRideRepository) driverTransition(rideID, driverID string, want domain.RideStatus, apply func(*domain.Ride)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok || ride.DriverID != driverID || ride.Status != want {
		return repository.ErrNotFound
	}
	apply(ride)
	return nil
}

func (m *MockRideRepository) SetRiderRating(ctx context.Context, rideID, riderID string, patch repository.RatingPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ride, ok := m.rides[rideID]
	if !ok || ride.RiderID != riderID || ride.Status != domain.RideStatusCompleted || ride.Rating.RiderRating != 0 {
		return repository.ErrNotFound
	}
	ride.Rating.RiderRating = patch.Rating
	ride.Rating.RiderComment = patch.Comment
	return nil
}

func (m *MockRideRepository) ListByRider(ctx context.Context, riderID string, offset, limit int) ([]*domain.RideDetail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := m.matchNewestFirst(func(r *domain.Ride) bool { return r.RiderID == riderID })
	return m.page(matched, offset, limit), nil
}

func (m *MockRideRepository) CountByRider(ctx context.Context, riderID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.matchNewestFirst(func(r *domain.Ride) bool { return r.RiderID == riderID })), nil
}

func (m *MockRideRepository) ListCompletedByDriver(ctx context.Context, driverID string, filter repository.EarningsFilter, offset, limit int) ([]*domain.RideDetail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := m.matchNewestFirst(earningsMatch(driverID, filter))
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CompletedAt.After(matched[j].CompletedAt)
	})
	return m.page(matched, offset, limit), nil
}

func (m *MockRideRepository) CountCompletedByDriver(ctx context.Context, driverID string, filter repository.EarningsFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.matchNewestFirst(earningsMatch(driverID, filter))), nil
}

func (m *MockRideRepository) EarningsSummary(ctx context.Context, driverID string, filter repository.EarningsFilter) (*repository.EarningsSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := m.matchNewestFirst(earningsMatch(driverID, filter))

	summary := &repository.EarningsSummary{TotalRides: len(matched)}
	for _, ride := range matched {
		summary.TotalEarnings += ride.Fare.TotalFare
		summary.TotalDistance += ride.EstimatedDistance
	}
	if summary.TotalRides > 0 {
		summary.AverageFare = summary.TotalEarnings / float64(summary.TotalRides)
	}
	return summary, nil
}

func (m *MockRideRepository) ListAll(ctx context.Context) ([]*domain.Ride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ride, 0, len(m.seq))
	for i := len(m.seq) - 1; i >= 0; i-- {
		copy := *m.rides[m.seq[i]]
		result = append(result, &copy)
	}
	return result, nil
}

func earningsMatch(driverID string, filter repository.EarningsFilter) func(*domain.Ride) bool {
	return func(r *domain.Ride) bool {
		if r.DriverID != driverID || r.Status != domain.RideStatusCompleted || r.PaymentStatus != domain.PaymentStatusCompleted {
			return false
		}
		if !filter.Start.IsZero() && r.CompletedAt.Before(filter.Start) {
			return false
		}
		if !filter.End.IsZero() && r.CompletedAt.After(filter.End) {
			return false
		}
		return true
	}
}

// matchNewestFirst must be called with the lock held.
func (m *MockRideRepository) matchNewestFirst(match func(*domain.Ride) bool) []*domain.Ride {
	result := make([]*domain.Ride, 0)
	for i := len(m.seq) - 1; i >= 0; i-- {
		ride := m.rides[m.seq[i]]
		if match(ride) {
			copy := *ride
			result = append(result, &copy)
		}
	}
	return result
}

func (m *MockRideRepository) page(rides []*domain.Ride, offset, limit int) []*domain.RideDetail {
	if offset >= len(rides) {
		return nil
	}
	end := offset + limit
	if end > len(rides) {
		end = len(rides)
	}
	details := make([]*domain.RideDetail, 0, end-offset)
	for _, ride := range rides[offset:end] {
		details = append(details, m.toDetail(ride))
	}
	return details
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser seeds an account directly into the store.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

// GetUser returns the stored account for test assertions.
func (m *MockUserRepository) GetUser(id string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email || u.Phone == user.Phone {
			return repository.ErrDuplicate
		}
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyUser(user), nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Email == email })
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return m.find(func(u *domain.User) bool { return u.Phone == phone })
}

func (m *MockUserRepository) find(match func(*domain.User) bool) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if match(u) {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, copyUser(u))
	}
	return result, nil
}

func (m *MockUserRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0)
	for _, u := range m.users {
		if u.Role == role {
			result = append(result, copyUser(u))
		}
	}
	return result, nil
}

func (m *MockUserRepository) SetBlocked(ctx context.Context, id string, blocked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.IsBlocked = blocked
	return nil
}

func (m *MockUserRepository) SetDriverFlags(ctx context.Context, id string, approved, suspended bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok || user.Role != domain.RoleDriver || user.DriverInfo == nil {
		return repository.ErrNotFound
	}
	user.DriverInfo.IsApproved = approved
	user.DriverInfo.IsSuspended = suspended
	return nil
}

func (m *MockUserRepository) SetDriverOnline(ctx context.Context, id string, online bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok || user.Role != domain.RoleDriver || user.DriverInfo == nil {
		return repository.ErrNotFound
	}
	user.DriverInfo.IsOnline = online
	return nil
}

func copyUser(u *domain.User) *domain.User {
	copy := *u
	if u.DriverInfo != nil {
		info := *u.DriverInfo
		copy.DriverInfo = &info
	}
	return &copy
}
