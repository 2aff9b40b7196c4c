package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-gig-booking/internal/domain/event"
	"github.com/sanosuguru/go-gig-booking/internal/domain/performer"
	"github.com/sanosuguru/go-gig-booking/internal/domain/rating"
	"github.com/sanosuguru/go-gig-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-gig-booking/internal/pkg/logger"
)

// RatingService は評価の登録・削除と出演者の評価集計を管理する
type RatingService struct {
	txManager      transaction.Manager
	ratingRepo     rating.Repository
	performerRepo  performer.Repository
	eventRepo      event.Repository
	invitationRepo event.InvitationRepository
}

func NewRatingService(
	txManager transaction.Manager,
	rr rating.Repository,
	pr performer.Repository,
	er event.Repository,
	ir event.InvitationRepository,
) *RatingService {
	return &RatingService{
		txManager:      txManager,
		ratingRepo:     rr,
		performerRepo:  pr,
		eventRepo:      er,
		invitationRepo: ir,
	}
}

type RecordRatingInput struct {
	EventID     string
	PerformerID string
	RaterID     string
	Score       int
	Comment     string
}

// RecordRating は終了済みイベントに対する評価を登録し、
// 出演者の評価集計を別トランザクションで再計算する
// 評価の登録と集計の再計算は明示的に直列に実行される
func (s *RatingService) RecordRating(ctx context.Context, input RecordRatingInput) (*rating.Rating, error) {
	r := rating.NewRating(input.EventID, input.PerformerID, input.RaterID, input.Score, input.Comment)
	if err := r.Validate(); err != nil {
		return nil, err
	}

	e, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		return nil, err
	}
	if !e.IsConcluded() {
		return nil, rating.ErrEventNotConcluded
	}
	if err := s.requireParticipant(ctx, e, input.PerformerID); err != nil {
		return nil, err
	}
	if err := s.requireParticipant(ctx, e, input.RaterID); err != nil {
		return nil, err
	}

	if err := s.ratingRepo.Create(ctx, r); err != nil {
		return nil, err
	}

	// 集計の再計算に失敗しても評価の登録自体は取り消さない
	if err := s.recomputeStats(ctx, input.PerformerID); err != nil {
		logger.Warn("評価集計の再計算に失敗",
			zap.String("performer_id", input.PerformerID),
			zap.Error(err))
	}
	return r, nil
}

// DeleteRating は評価を削除する（登録者のみ）
// 削除後に評価集計を再計算する
func (s *RatingService) DeleteRating(ctx context.Context, ratingID, actorID string) error {
	r, err := s.ratingRepo.GetByID(ctx, ratingID)
	if err != nil {
		return err
	}
	if r.RaterID != actorID {
		return rating.ErrNotRater
	}
	if err := s.ratingRepo.Delete(ctx, ratingID); err != nil {
		return err
	}
	if err := s.recomputeStats(ctx, r.PerformerID); err != nil {
		logger.Warn("評価集計の再計算に失敗",
			zap.String("performer_id", r.PerformerID),
			zap.Error(err))
	}
	return nil
}

func (s *RatingService) ListPerformerRatings(ctx context.Context, performerID string, limit, offset int) ([]*rating.Rating, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.ratingRepo.ListByPerformer(ctx, performerID, limit, offset)
}

// recomputeStats は出演者の行ロックの内側で評価の平均と件数を
// フレッシュな集計クエリで計算し直す
// 出演者が並行して削除されていた場合は何もせず成功扱いにする
func (s *RatingService) recomputeStats(ctx context.Context, performerID string) error {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.performerRepo.GetByIDForUpdate(ctx, tx, performerID); err != nil {
		if errors.Is(err, performer.ErrPerformerNotFound) {
			logger.Warn("集計対象の出演者が存在しません", zap.String("performer_id", performerID))
			return nil
		}
		return err
	}

	average, total, err := s.ratingRepo.Aggregate(ctx, tx, performerID)
	if err != nil {
		return err
	}
	if err := s.performerRepo.UpdateRatingStats(ctx, tx, performerID, average, total); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}
	return nil
}

// requireParticipant は出演者がイベントの参加者（作成者または招待済み）で
// あることを確認する
func (s *RatingService) requireParticipant(ctx context.Context, e *event.Event, performerID string) error {
	if e.CreatorID == performerID {
		return nil
	}
	_, err := s.invitationRepo.GetByEventAndPerformer(ctx, e.ID, performerID)
	if err != nil {
		if errors.Is(err, event.ErrInvitationNotFound) {
			return rating.ErrNotParticipant
		}
		return err
	}
	return nil
}
