package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-gig-booking/internal/domain/availability"
	"github.com/sanosuguru/go-gig-booking/internal/domain/event"
	"github.com/sanosuguru/go-gig-booking/internal/domain/performer"
	"github.com/sanosuguru/go-gig-booking/internal/domain/quote"
	"github.com/sanosuguru/go-gig-booking/internal/domain/rating"
	"github.com/sanosuguru/go-gig-booking/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-gig-booking/internal/infrastructure/redis"
)

// === Mock implementations ===

// MockTxManager implements transaction.Manager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

// MockTx implements transaction.Tx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockEventRepository implements event.Repository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, tx transaction.Tx, e *event.Event) error {
	args := m.Called(ctx, tx, e)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*event.Event, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Event), args.Error(1)
}

func (m *MockEventRepository) ListByParticipant(ctx context.Context, performerID string, limit, offset int) ([]*event.Event, error) {
	args := m.Called(ctx, performerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) ListActiveByParticipant(ctx context.Context, performerID string) ([]*event.Event, error) {
	args := m.Called(ctx, performerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Event), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, tx transaction.Tx, e *event.Event) error {
	args := m.Called(ctx, tx, e)
	return args.Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockInvitationRepository implements event.InvitationRepository
type MockInvitationRepository struct {
	mock.Mock
}

func (m *MockInvitationRepository) CreateBulk(ctx context.Context, tx transaction.Tx, invitations []*event.Invitation) error {
	args := m.Called(ctx, tx, invitations)
	return args.Error(0)
}

func (m *MockInvitationRepository) GetByEventAndPerformer(ctx context.Context, eventID, performerID string) (*event.Invitation, error) {
	args := m.Called(ctx, eventID, performerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*event.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) ListByEvent(ctx context.Context, eventID string) ([]*event.Invitation, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) ListByEventForUpdate(ctx context.Context, tx transaction.Tx, eventID string) ([]*event.Invitation, error) {
	args := m.Called(ctx, tx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.Invitation), args.Error(1)
}

func (m *MockInvitationRepository) Update(ctx context.Context, tx transaction.Tx, inv *event.Invitation) error {
	args := m.Called(ctx, tx, inv)
	return args.Error(0)
}

// MockHistoryRepository implements event.HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(ctx context.Context, tx transaction.Tx, entry *event.HistoryEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockHistoryRepository) ListByEvent(ctx context.Context, eventID string) ([]*event.HistoryEntry, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*event.HistoryEntry), args.Error(1)
}

// MockPerformerRepository implements performer.Repository
type MockPerformerRepository struct {
	mock.Mock
}

func (m *MockPerformerRepository) Create(ctx context.Context, p *performer.Performer) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPerformerRepository) GetByID(ctx context.Context, id string) (*performer.Performer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*performer.Performer), args.Error(1)
}

func (m *MockPerformerRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*performer.Performer, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*performer.Performer), args.Error(1)
}

func (m *MockPerformerRepository) List(ctx context.Context, limit, offset int) ([]*performer.Performer, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*performer.Performer), args.Error(1)
}

func (m *MockPerformerRepository) Update(ctx context.Context, p *performer.Performer) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPerformerRepository) UpdateRatingStats(ctx context.Context, tx transaction.Tx, id string, average float64, total int) error {
	args := m.Called(ctx, tx, id, average, total)
	return args.Error(0)
}

// MockWindowRepository implements availability.Repository
type MockWindowRepository struct {
	mock.Mock
}

func (m *MockWindowRepository) Create(ctx context.Context, tx transaction.Tx, w *availability.Window) error {
	args := m.Called(ctx, tx, w)
	return args.Error(0)
}

func (m *MockWindowRepository) CreateBulk(ctx context.Context, tx transaction.Tx, windows []*availability.Window) error {
	args := m.Called(ctx, tx, windows)
	return args.Error(0)
}

func (m *MockWindowRepository) GetByID(ctx context.Context, id string) (*availability.Window, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*availability.Window), args.Error(1)
}

func (m *MockWindowRepository) ListActiveByPerformer(ctx context.Context, performerID string) ([]*availability.Window, error) {
	args := m.Called(ctx, performerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*availability.Window), args.Error(1)
}

func (m *MockWindowRepository) ListByPerformer(ctx context.Context, performerID string, publicOnly bool) ([]*availability.Window, error) {
	args := m.Called(ctx, performerID, publicOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*availability.Window), args.Error(1)
}

func (m *MockWindowRepository) Deactivate(ctx context.Context, tx transaction.Tx, id string) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockWindowRepository) Update(ctx context.Context, tx transaction.Tx, w *availability.Window) error {
	args := m.Called(ctx, tx, w)
	return args.Error(0)
}

func (m *MockWindowRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRequestRepository implements quote.RequestRepository
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Create(ctx context.Context, r *quote.Request) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id string) (*quote.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Request), args.Error(1)
}

func (m *MockRequestRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*quote.Request, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Request), args.Error(1)
}

func (m *MockRequestRepository) ListByOrganizer(ctx context.Context, organizerID string, limit, offset int) ([]*quote.Request, error) {
	args := m.Called(ctx, organizerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*quote.Request), args.Error(1)
}

func (m *MockRequestRepository) ListByPerformer(ctx context.Context, performerID string, limit, offset int) ([]*quote.Request, error) {
	args := m.Called(ctx, performerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*quote.Request), args.Error(1)
}

func (m *MockRequestRepository) Update(ctx context.Context, tx transaction.Tx, r *quote.Request) error {
	args := m.Called(ctx, tx, r)
	return args.Error(0)
}

// MockProposalRepository implements quote.ProposalRepository
type MockProposalRepository struct {
	mock.Mock
}

func (m *MockProposalRepository) Create(ctx context.Context, tx transaction.Tx, p *quote.Proposal) error {
	args := m.Called(ctx, tx, p)
	return args.Error(0)
}

func (m *MockProposalRepository) GetByID(ctx context.Context, id string) (*quote.Proposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Proposal), args.Error(1)
}

func (m *MockProposalRepository) ListByRequest(ctx context.Context, requestID string) ([]*quote.Proposal, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*quote.Proposal), args.Error(1)
}

func (m *MockProposalRepository) ListExpiredSent(ctx context.Context) ([]*quote.Proposal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*quote.Proposal), args.Error(1)
}

func (m *MockProposalRepository) Update(ctx context.Context, tx transaction.Tx, p *quote.Proposal) error {
	args := m.Called(ctx, tx, p)
	return args.Error(0)
}

// MockBookingRepository implements quote.BookingRepository
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, tx transaction.Tx, b *quote.Booking) error {
	args := m.Called(ctx, tx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*quote.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByRequestID(ctx context.Context, requestID string) (*quote.Booking, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Booking), args.Error(1)
}

func (m *MockBookingRepository) Update(ctx context.Context, tx transaction.Tx, b *quote.Booking) error {
	args := m.Called(ctx, tx, b)
	return args.Error(0)
}

// MockRatingRepository implements rating.Repository
type MockRatingRepository struct {
	mock.Mock
}

func (m *MockRatingRepository) Create(ctx context.Context, r *rating.Rating) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRatingRepository) GetByID(ctx context.Context, id string) (*rating.Rating, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rating.Rating), args.Error(1)
}

func (m *MockRatingRepository) ListByPerformer(ctx context.Context, performerID string, limit, offset int) ([]*rating.Rating, error) {
	args := m.Called(ctx, performerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rating.Rating), args.Error(1)
}

func (m *MockRatingRepository) Aggregate(ctx context.Context, tx transaction.Tx, performerID string) (float64, int, error) {
	args := m.Called(ctx, tx, performerID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

func (m *MockRatingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLockManager implements redisinfra.LockManagerInterface
type MockLockManager struct {
	mock.Mock
}

func (m *MockLockManager) AcquireLock(ctx context.Context, key string, ttl time.Duration) (redisinfra.Lock, error) {
	args := m.Called(ctx, key, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(redisinfra.Lock), args.Error(1)
}

func (m *MockLockManager) AcquireLockWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryInterval time.Duration) (redisinfra.Lock, error) {
	args := m.Called(ctx, key, ttl, maxRetries, retryInterval)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(redisinfra.Lock), args.Error(1)
}

// MockLock implements redisinfra.Lock
type MockLock struct {
	mock.Mock
}

func (m *MockLock) Release(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLock) Extend(ctx context.Context, ttl time.Duration) error {
	args := m.Called(ctx, ttl)
	return args.Error(0)
}

// MockAvailabilityCache implements redisinfra.AvailabilityCacheInterface
type MockAvailabilityCache struct {
	mock.Mock
}

func (m *MockAvailabilityCache) GetSummary(ctx context.Context, performerID string) (*redisinfra.WindowSummary, error) {
	args := m.Called(ctx, performerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redisinfra.WindowSummary), args.Error(1)
}

func (m *MockAvailabilityCache) SetSummary(ctx context.Context, summary *redisinfra.WindowSummary, ttl time.Duration) error {
	args := m.Called(ctx, summary, ttl)
	return args.Error(0)
}

func (m *MockAvailabilityCache) Invalidate(ctx context.Context, performerID string) error {
	args := m.Called(ctx, performerID)
	return args.Error(0)
}
