package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-gig-booking/internal/domain/availability"
	"github.com/sanosuguru/go-gig-booking/internal/domain/event"
	"github.com/sanosuguru/go-gig-booking/internal/domain/performer"
	"github.com/sanosuguru/go-gig-booking/internal/domain/transaction"
	redisinfra "github.com/sanosuguru/go-gig-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-gig-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-gig-booking/internal/pkg/metrics"
)

const (
	summaryCacheTTL = 30 * time.Second
)

// AvailabilityService は空き枠の宣言・分割・一覧・サマリーを管理する
type AvailabilityService struct {
	txManager     transaction.Manager
	windowRepo    availability.Repository
	eventRepo     event.Repository
	performerRepo performer.Repository
	cache         redisinfra.AvailabilityCacheInterface
	loc           *time.Location
}

func NewAvailabilityService(
	txManager transaction.Manager,
	wr availability.Repository,
	er event.Repository,
	pr performer.Repository,
	cache redisinfra.AvailabilityCacheInterface,
	loc *time.Location,
) *AvailabilityService {
	return &AvailabilityService{
		txManager:     txManager,
		windowRepo:    wr,
		eventRepo:     er,
		performerRepo: pr,
		cache:         cache,
		loc:           loc,
	}
}

type DeclareWindowInput struct {
	PerformerID string
	Date        time.Time
	Start       string
	End         string
	Visibility  availability.Visibility
	Note        string
}

// DeclareWindow は空き枠を宣言し、既存のイベントとの競合を即座に評価する
// 競合がある場合は宣言した枠を非アクティブ化し、残り時間を覆う子枠に
// 置き換える。結果としてアクティブになった枠を返す
func (s *AvailabilityService) DeclareWindow(ctx context.Context, input DeclareWindowInput) ([]*availability.Window, error) {
	w, err := availability.NewWindow(input.PerformerID, input.Date, input.Start, input.End, input.Visibility, input.Note, s.loc)
	if err != nil {
		return nil, err
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.performerRepo.GetByID(ctx, input.PerformerID); err != nil {
		return nil, fmt.Errorf("出演者の取得に失敗: %w", err)
	}

	events, err := s.eventRepo.ListActiveByParticipant(ctx, input.PerformerID)
	if err != nil {
		return nil, fmt.Errorf("イベント取得に失敗: %w", err)
	}
	conflicting := availability.ConflictingEvents(w, events)

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.windowRepo.Create(ctx, tx, w); err != nil {
		return nil, err
	}

	result := []*availability.Window{w}
	if len(conflicting) > 0 {
		children := availability.SplitWindow(w, conflicting)
		if err := s.windowRepo.Deactivate(ctx, tx, w.ID); err != nil {
			return nil, err
		}
		if len(children) > 0 {
			if err := s.windowRepo.CreateBulk(ctx, tx, children); err != nil {
				return nil, err
			}
		}
		if m := metrics.Get(); m != nil {
			m.WindowSplitsTotal.Inc()
		}
		result = children
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateSummary(ctx, input.PerformerID)
	return result, nil
}

type UpdateWindowInput struct {
	WindowID   string
	ActorID    string
	Start      string
	End        string
	Visibility availability.Visibility
	Note       string
}

// UpdateWindow は空き枠を更新する（所有者のみ）
// 時間帯の変更後に競合の評価と分割を再実行する
func (s *AvailabilityService) UpdateWindow(ctx context.Context, input UpdateWindowInput) ([]*availability.Window, error) {
	w, err := s.windowRepo.GetByID(ctx, input.WindowID)
	if err != nil {
		return nil, err
	}
	if w.PerformerID != input.ActorID {
		return nil, availability.ErrNotOwner
	}
	if !w.Active {
		return nil, availability.ErrWindowInactive
	}

	startAt, endAt, err := event.ResolveTimeRange(w.Date, input.Start, input.End, s.loc)
	if err != nil {
		return nil, err
	}
	w.StartAt = startAt
	w.EndAt = endAt
	w.Visibility = input.Visibility
	w.Note = input.Note
	if err := w.Validate(); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListActiveByParticipant(ctx, w.PerformerID)
	if err != nil {
		return nil, fmt.Errorf("イベント取得に失敗: %w", err)
	}
	conflicting := availability.ConflictingEvents(w, events)

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.windowRepo.Update(ctx, tx, w); err != nil {
		return nil, err
	}

	result := []*availability.Window{w}
	if len(conflicting) > 0 {
		children := availability.SplitWindow(w, conflicting)
		if err := s.windowRepo.Deactivate(ctx, tx, w.ID); err != nil {
			return nil, err
		}
		if len(children) > 0 {
			if err := s.windowRepo.CreateBulk(ctx, tx, children); err != nil {
				return nil, err
			}
		}
		if m := metrics.Get(); m != nil {
			m.WindowSplitsTotal.Inc()
		}
		result = children
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}

	s.invalidateSummary(ctx, w.PerformerID)
	return result, nil
}

// DeleteWindow は空き枠を物理削除する（所有者のみ）
func (s *AvailabilityService) DeleteWindow(ctx context.Context, windowID, actorID string) error {
	w, err := s.windowRepo.GetByID(ctx, windowID)
	if err != nil {
		return err
	}
	if w.PerformerID != actorID {
		return availability.ErrNotOwner
	}
	if err := s.windowRepo.Delete(ctx, windowID); err != nil {
		return err
	}
	s.invalidateSummary(ctx, w.PerformerID)
	return nil
}

// ListWindows は出演者の空き枠一覧を取得する
// 所有者以外には公開枠のみを返す
func (s *AvailabilityService) ListWindows(ctx context.Context, performerID, viewerID string) ([]*availability.Window, error) {
	publicOnly := viewerID != performerID
	return s.windowRepo.ListByPerformer(ctx, performerID, publicOnly)
}

// ProbeConflicts は指定した時間帯が出演者の予定と競合するかを調べて
// 競合するイベントの一覧を返す
func (s *AvailabilityService) ProbeConflicts(ctx context.Context, performerID string, date time.Time, start, end string) ([]*event.Event, error) {
	startAt, endAt, err := event.ResolveTimeRange(date, start, end, s.loc)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.ListActiveByParticipant(ctx, performerID)
	if err != nil {
		return nil, fmt.Errorf("イベント取得に失敗: %w", err)
	}
	var conflicting []*event.Event
	for _, e := range events {
		if availability.ConflictsRange(startAt, endAt, e) {
			conflicting = append(conflicting, e)
		}
	}
	return conflicting, nil
}

// Summary は出演者の空き枠サマリーを取得する（キャッシュ経由）
func (s *AvailabilityService) Summary(ctx context.Context, performerID string) (*redisinfra.WindowSummary, error) {
	if s.cache != nil {
		summary, err := s.cache.GetSummary(ctx, performerID)
		if err == nil {
			logger.Debug("サマリーキャッシュヒット", zap.String("performer_id", performerID))
			return summary, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	windows, err := s.windowRepo.ListActiveByPerformer(ctx, performerID)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.ListActiveByParticipant(ctx, performerID)
	if err != nil {
		return nil, fmt.Errorf("イベント取得に失敗: %w", err)
	}

	summary := &redisinfra.WindowSummary{PerformerID: performerID}
	for _, w := range windows {
		summary.ActiveWindows++
		summary.OpenHours += w.EndAt.Sub(w.StartAt).Hours()
		if len(availability.ConflictingEvents(w, events)) > 0 {
			summary.ConflictCount++
		}
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetSummary(ctx, summary, summaryCacheTTL); cacheErr != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(cacheErr))
		}
	}
	return summary, nil
}

func (s *AvailabilityService) invalidateSummary(ctx context.Context, performerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, performerID); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.Error(err))
	}
}
