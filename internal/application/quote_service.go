package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-gig-booking/internal/domain/performer"
	"github.com/sanosuguru/go-gig-booking/internal/domain/quote"
	"github.com/sanosuguru/go-gig-booking/internal/domain/transaction"
	redislock "github.com/sanosuguru/go-gig-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-gig-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-gig-booking/internal/pkg/metrics"
)

// QuoteService は見積依頼から予約確定までの交渉フローを管理する
type QuoteService struct {
	txManager     transaction.Manager
	requestRepo   quote.RequestRepository
	proposalRepo  quote.ProposalRepository
	bookingRepo   quote.BookingRepository
	performerRepo performer.Repository
	lockManager   redislock.LockManagerInterface
}

func NewQuoteService(
	txManager transaction.Manager,
	rr quote.RequestRepository,
	pr quote.ProposalRepository,
	br quote.BookingRepository,
	perfRepo performer.Repository,
	lm redislock.LockManagerInterface,
) *QuoteService {
	return &QuoteService{
		txManager:     txManager,
		requestRepo:   rr,
		proposalRepo:  pr,
		bookingRepo:   br,
		performerRepo: perfRepo,
		lockManager:   lm,
	}
}

type CreateRequestInput struct {
	OrganizerID     string
	PerformerID     string
	EventDate       time.Time
	EventType       string
	Location        string
	DurationMinutes int
}

// CreateRequest は新しい見積依頼を作成する
// 非アクティブな出演者への依頼は拒否される
func (s *QuoteService) CreateRequest(ctx context.Context, input CreateRequestInput) (*quote.Request, error) {
	p, err := s.performerRepo.GetByID(ctx, input.PerformerID)
	if err != nil {
		return nil, fmt.Errorf("出演者の取得に失敗: %w", err)
	}
	if !p.Active {
		return nil, performer.ErrPerformerInactive
	}

	r := quote.NewRequest(input.OrganizerID, input.PerformerID, input.EventDate, input.EventType, input.Location, input.DurationMinutes)
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Create(ctx, r); err != nil {
		return nil, err
	}
	if m := metrics.Get(); m != nil {
		m.ActiveQuoteRequests.WithLabelValues(string(quote.RequestPending)).Inc()
	}
	return r, nil
}

type SubmitProposalInput struct {
	RequestID   string
	PerformerID string
	Message     string
	Fee         int
	ValidUntil  time.Time
}

// SubmitProposal は対象出演者が見積依頼に提案を提出する
// pending / responded の依頼にのみ提出でき、依頼は responded に遷移する
func (s *QuoteService) SubmitProposal(ctx context.Context, input SubmitProposalInput) (*quote.Proposal, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	r, err := s.requestRepo.GetByIDForUpdate(ctx, tx, input.RequestID)
	if err != nil {
		return nil, err
	}
	if r.PerformerID != input.PerformerID {
		return nil, quote.ErrNotTargetPerformer
	}

	p := quote.NewProposal(input.RequestID, input.Message, input.Fee, input.ValidUntil)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	prev := r.Status
	if err := r.MarkResponded(); err != nil {
		return nil, err
	}

	if err := s.proposalRepo.Create(ctx, tx, p); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Update(ctx, tx, r); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.trackRequestTransition(prev, r.Status)
	return p, nil
}

type AcceptProposalInput struct {
	RequestID   string
	ProposalID  string
	OrganizerID string
}

// AcceptProposal は主催者が提案を承諾し、予約を作成する
// 見積依頼単位の分散ロックと部分一意インデックスにより、
// キャンセルされていない予約が依頼ごとに高々1件であることを保証する
func (s *QuoteService) AcceptProposal(ctx context.Context, input AcceptProposalInput) (*quote.Booking, error) {
	if s.lockManager != nil {
		lockKey := "quote:request:" + input.RequestID
		start := time.Now()
		lock, err := s.lockManager.AcquireLockWithRetry(ctx, lockKey, 10*time.Second, 3, 100*time.Millisecond)
		if m := metrics.Get(); m != nil {
			status := "success"
			if err != nil {
				status = "failed"
			}
			m.DistributedLockDuration.WithLabelValues("acquire", status).Observe(time.Since(start).Seconds())
		}
		if err != nil {
			if errors.Is(err, redislock.ErrLockNotAcquired) {
				s.countBooking("lock_failed")
				return nil, fmt.Errorf("見積依頼が他のユーザーによって処理中です")
			}
			return nil, fmt.Errorf("ロック取得に失敗: %w", err)
		}
		defer lock.Release(ctx)
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	r, err := s.requestRepo.GetByIDForUpdate(ctx, tx, input.RequestID)
	if err != nil {
		return nil, err
	}
	if r.OrganizerID != input.OrganizerID {
		return nil, quote.ErrNotOrganizer
	}

	p, err := s.proposalRepo.GetByID(ctx, input.ProposalID)
	if err != nil {
		return nil, err
	}
	if p.RequestID != r.ID {
		return nil, quote.ErrProposalMismatch
	}

	if err := p.Accept(); err != nil {
		return nil, err
	}
	prev := r.Status
	if err := r.Reserve(); err != nil {
		return nil, err
	}

	b := quote.NewBooking(r.ID)
	if err := s.bookingRepo.Create(ctx, tx, b); err != nil {
		if errors.Is(err, quote.ErrBookingExists) {
			s.countBooking("conflict")
		}
		return nil, err
	}
	if err := s.proposalRepo.Update(ctx, tx, p); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Update(ctx, tx, r); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		s.countBooking("error")
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.countBooking("reserved")
	s.trackRequestTransition(prev, r.Status)
	return b, nil
}

// DeclineProposal は主催者が提案を辞退する
// 依頼のキャンセルとは独立に実行できる
func (s *QuoteService) DeclineProposal(ctx context.Context, proposalID, organizerID string) (*quote.Proposal, error) {
	p, err := s.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	r, err := s.requestRepo.GetByIDForUpdate(ctx, tx, p.RequestID)
	if err != nil {
		return nil, err
	}
	if r.OrganizerID != organizerID {
		return nil, quote.ErrNotOrganizer
	}

	if err := p.Decline(); err != nil {
		return nil, err
	}
	if err := s.proposalRepo.Update(ctx, tx, p); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	return p, nil
}

// ConfirmBooking は対象出演者が予約を確定する
// 依頼・予約の両方が confirmed に遷移する
func (s *QuoteService) ConfirmBooking(ctx context.Context, bookingID, actorID string) (*quote.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	r, err := s.requestRepo.GetByIDForUpdate(ctx, tx, b.RequestID)
	if err != nil {
		return nil, err
	}
	if r.PerformerID != actorID {
		return nil, quote.ErrNotTargetPerformer
	}

	if err := b.Confirm(); err != nil {
		return nil, err
	}
	prev := r.Status
	if err := r.Confirm(); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Update(ctx, tx, b); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Update(ctx, tx, r); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.countBooking("confirmed")
	s.trackRequestTransition(prev, r.Status)
	return b, nil
}

// CancelRequest は主催者が見積依頼をキャンセルする
// reserved / confirmed の依頼は予約側のキャンセルを経由する必要がある
func (s *QuoteService) CancelRequest(ctx context.Context, requestID, actorID string) (*quote.Request, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	r, err := s.requestRepo.GetByIDForUpdate(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}
	if r.OrganizerID != actorID {
		return nil, quote.ErrNotOrganizer
	}
	prev := r.Status
	if err := r.Cancel(); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Update(ctx, tx, r); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.trackRequestTransition(prev, r.Status)
	return r, nil
}

// CancelBooking は予約とその親依頼をまとめてキャンセルする
// 主催者・対象出演者のどちらからでも実行できる
func (s *QuoteService) CancelBooking(ctx context.Context, bookingID, actorID, reason string) (*quote.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	r, err := s.requestRepo.GetByIDForUpdate(ctx, tx, b.RequestID)
	if err != nil {
		return nil, err
	}
	if actorID != r.OrganizerID && actorID != r.PerformerID {
		return nil, quote.ErrNotParticipant
	}

	prev := r.Status
	if err := quote.CancelWithBooking(r, b, reason); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Update(ctx, tx, b); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Update(ctx, tx, r); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.countBooking("cancelled")
	s.trackRequestTransition(prev, r.Status)
	return b, nil
}

// ExpireProposals は有効期限切れの sent 提案を辞退状態にする
// バックグラウンドワーカーから定期的に呼び出される
func (s *QuoteService) ExpireProposals(ctx context.Context) (int, error) {
	proposals, err := s.proposalRepo.ListExpiredSent(ctx)
	if err != nil {
		return 0, fmt.Errorf("期限切れ提案の取得に失敗: %w", err)
	}
	if len(proposals) == 0 {
		return 0, nil
	}

	expired := 0
	for _, p := range proposals {
		if err := s.expireProposal(ctx, p); err != nil {
			logger.Warn("提案の期限切れ処理に失敗",
				zap.String("proposal_id", p.ID),
				zap.Error(err))
			continue
		}
		expired++
	}
	return expired, nil
}

func (s *QuoteService) expireProposal(ctx context.Context, p *quote.Proposal) error {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := p.Decline(); err != nil {
		return err
	}
	if err := s.proposalRepo.Update(ctx, tx, p); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}
	return nil
}

func (s *QuoteService) GetRequest(ctx context.Context, id string) (*quote.Request, error) {
	return s.requestRepo.GetByID(ctx, id)
}

func (s *QuoteService) ListRequestsByOrganizer(ctx context.Context, organizerID string, limit, offset int) ([]*quote.Request, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.requestRepo.ListByOrganizer(ctx, organizerID, limit, offset)
}

func (s *QuoteService) ListRequestsByPerformer(ctx context.Context, performerID string, limit, offset int) ([]*quote.Request, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.requestRepo.ListByPerformer(ctx, performerID, limit, offset)
}

func (s *QuoteService) ListProposals(ctx context.Context, requestID string) ([]*quote.Proposal, error) {
	return s.proposalRepo.ListByRequest(ctx, requestID)
}

func (s *QuoteService) GetBooking(ctx context.Context, id string) (*quote.Booking, error) {
	return s.bookingRepo.GetByID(ctx, id)
}

func (s *QuoteService) countBooking(status string) {
	if m := metrics.Get(); m != nil {
		m.BookingsTotal.WithLabelValues(status).Inc()
	}
}

// trackRequestTransition は状態別のアクティブ依頼ゲージを遷移に追従させる
// confirmed / cancelled は終端状態のためゲージの対象外
func (s *QuoteService) trackRequestTransition(prev, next quote.RequestStatus) {
	m := metrics.Get()
	if m == nil || prev == next {
		return
	}
	if isActiveRequestStatus(prev) {
		m.ActiveQuoteRequests.WithLabelValues(string(prev)).Dec()
	}
	if isActiveRequestStatus(next) {
		m.ActiveQuoteRequests.WithLabelValues(string(next)).Inc()
	}
}

func isActiveRequestStatus(st quote.RequestStatus) bool {
	switch st {
	case quote.RequestPending, quote.RequestResponded, quote.RequestReserved:
		return true
	}
	return false
}
