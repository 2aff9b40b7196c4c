package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-gig-booking/internal/domain/availability"
	"github.com/sanosuguru/go-gig-booking/internal/domain/event"
	"github.com/sanosuguru/go-gig-booking/internal/domain/performer"
	"github.com/sanosuguru/go-gig-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-gig-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-gig-booking/internal/pkg/metrics"
)

// EventService はイベントの作成・回答・確定状態の管理を行う
type EventService struct {
	txManager      transaction.Manager
	eventRepo      event.Repository
	invitationRepo event.InvitationRepository
	historyRepo    event.HistoryRepository
	performerRepo  performer.Repository
	windowRepo     availability.Repository
	loc            *time.Location
}

func NewEventService(
	txManager transaction.Manager,
	er event.Repository,
	ir event.InvitationRepository,
	hr event.HistoryRepository,
	pr performer.Repository,
	wr availability.Repository,
	loc *time.Location,
) *EventService {
	return &EventService{
		txManager:      txManager,
		eventRepo:      er,
		invitationRepo: ir,
		historyRepo:    hr,
		performerRepo:  pr,
		windowRepo:     wr,
		loc:            loc,
	}
}

type CreateEventInput struct {
	CreatorID  string
	Title      string
	Location   string
	Date       time.Time
	Start      string
	End        string
	IsSolo     bool
	IsPrivate  bool
	InviteeIDs []string
}

// CreateEvent はイベントと招待を作成し、確定状態を初期計算する
// 単独イベントまたは作成者以外の招待がない場合は即座に確定する
// 参加者の空き枠との競合は同一トランザクション内で分割して解消する
func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (*event.Event, error) {
	e, err := event.NewEvent(input.CreatorID, input.Title, input.Location, input.Date, input.Start, input.End, input.IsSolo, input.IsPrivate, s.loc)
	if err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	// 招待リストの重複を除去する（最初の出現順を維持）
	inviteeIDs := dedupPreservingOrder(input.InviteeIDs, input.CreatorID)

	if _, err := s.performerRepo.GetByID(ctx, input.CreatorID); err != nil {
		return nil, fmt.Errorf("作成者の取得に失敗: %w", err)
	}
	for _, id := range inviteeIDs {
		if _, err := s.performerRepo.GetByID(ctx, id); err != nil {
			return nil, fmt.Errorf("招待先出演者の取得に失敗: %w", err)
		}
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := s.eventRepo.Create(ctx, tx, e); err != nil {
		return nil, err
	}

	invitations := make([]*event.Invitation, 0, len(inviteeIDs)+1)
	invitations = append(invitations, event.NewCreatorInvitation(e.ID, input.CreatorID))
	for _, id := range inviteeIDs {
		invitations = append(invitations, event.NewInvitation(e.ID, id))
	}
	if err := s.invitationRepo.CreateBulk(ctx, tx, invitations); err != nil {
		return nil, err
	}

	if err := s.historyRepo.Append(ctx, tx, event.NewHistoryEntry(e.ID, input.CreatorID, "created", "イベントが作成されました")); err != nil {
		return nil, err
	}

	// 初期状態の計算（単独・作成者のみの場合はここで確定する）
	prev := e.Status
	if e.Recompute(invitations, input.CreatorID) {
		if err := s.eventRepo.Update(ctx, tx, e); err != nil {
			return nil, err
		}
		if err := s.appendTransition(ctx, tx, e, input.CreatorID, prev); err != nil {
			return nil, err
		}
	}

	// 参加者の空き枠との競合を分割で解消する
	participants := append([]string{input.CreatorID}, inviteeIDs...)
	for _, performerID := range participants {
		if err := s.splitConflictingWindows(ctx, tx, performerID, e); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	return e, nil
}

type RespondInput struct {
	EventID     string
	PerformerID string
	Decision    event.Response
	Note        string
}

// Respond は招待に回答し、イベントの行ロックの内側で確定状態を再計算する
func (s *EventService) Respond(ctx context.Context, input RespondInput) (*event.Event, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	e, err := s.eventRepo.GetByIDForUpdate(ctx, tx, input.EventID)
	if err != nil {
		return nil, err
	}
	if e.Status.IsTerminal() {
		return nil, event.ErrEventClosed
	}

	invitations, err := s.invitationRepo.ListByEventForUpdate(ctx, tx, input.EventID)
	if err != nil {
		return nil, err
	}
	var inv *event.Invitation
	for _, i := range invitations {
		if i.PerformerID == input.PerformerID {
			inv = i
			break
		}
	}
	if inv == nil {
		return nil, event.ErrNotInvited
	}

	if err := inv.Respond(input.Decision, input.Note); err != nil {
		return nil, err
	}
	if err := s.invitationRepo.Update(ctx, tx, inv); err != nil {
		return nil, err
	}

	if err := s.historyRepo.Append(ctx, tx, event.NewHistoryEntry(
		e.ID, input.PerformerID, "responded",
		fmt.Sprintf("招待に %s と回答しました", input.Decision),
	)); err != nil {
		return nil, err
	}

	prev := e.Status
	if e.Recompute(invitations, input.PerformerID) {
		if err := s.eventRepo.Update(ctx, tx, e); err != nil {
			return nil, err
		}
		if err := s.appendTransition(ctx, tx, e, input.PerformerID, prev); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	return e, nil
}

// CancelEvent はイベントをキャンセルする（作成者のみ）
func (s *EventService) CancelEvent(ctx context.Context, eventID, actorID string) (*event.Event, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	e, err := s.eventRepo.GetByIDForUpdate(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}
	prev := e.Status
	if err := e.Cancel(actorID); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, tx, e); err != nil {
		return nil, err
	}
	if err := s.appendTransition(ctx, tx, e, actorID, prev); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	return e, nil
}

// RejectEvent はイベントを却下する（作成者のみ・理由付き）
func (s *EventService) RejectEvent(ctx context.Context, eventID, actorID, reason string) (*event.Event, error) {
	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	e, err := s.eventRepo.GetByIDForUpdate(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}
	prev := e.Status
	if err := e.Reject(actorID, reason); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, tx, e); err != nil {
		return nil, err
	}
	if err := s.appendTransition(ctx, tx, e, actorID, prev); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗: %w", err)
	}
	return e, nil
}

// DeleteEvent はイベントを物理削除する（作成者のみ）
func (s *EventService) DeleteEvent(ctx context.Context, eventID, actorID string) error {
	e, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if e.CreatorID != actorID {
		return event.ErrNotCreator
	}
	return s.eventRepo.Delete(ctx, eventID)
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

func (s *EventService) ListEventsByParticipant(ctx context.Context, performerID string, limit, offset int) ([]*event.Event, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.eventRepo.ListByParticipant(ctx, performerID, limit, offset)
}

func (s *EventService) GetInvitations(ctx context.Context, eventID string) ([]*event.Invitation, error) {
	return s.invitationRepo.ListByEvent(ctx, eventID)
}

func (s *EventService) GetHistory(ctx context.Context, eventID string) ([]*event.HistoryEntry, error) {
	return s.historyRepo.ListByEvent(ctx, eventID)
}

// appendTransition は状態遷移の履歴を追記し、メトリクスを記録する
// 遷移前のステータスは呼び出し側が明示的に渡す
func (s *EventService) appendTransition(ctx context.Context, tx transaction.Tx, e *event.Event, actorID string, prev event.Status) error {
	entry := event.NewHistoryEntry(e.ID, actorID, "status_changed", event.TransitionDescription(prev, e.Status))
	if err := s.historyRepo.Append(ctx, tx, entry); err != nil {
		return err
	}
	if m := metrics.Get(); m != nil {
		switch {
		case e.Status == event.StatusConfirmed:
			m.EventTransitionsTotal.WithLabelValues("confirmed").Inc()
		case prev == event.StatusConfirmed:
			m.EventTransitionsTotal.WithLabelValues("reverted").Inc()
		}
	}
	return nil
}

// splitConflictingWindows は出演者のアクティブな空き枠のうちイベントと
// 競合するものを非アクティブ化し、残り時間を覆う子枠に置き換える
func (s *EventService) splitConflictingWindows(ctx context.Context, tx transaction.Tx, performerID string, e *event.Event) error {
	windows, err := s.windowRepo.ListActiveByPerformer(ctx, performerID)
	if err != nil {
		return fmt.Errorf("空き枠取得に失敗: %w", err)
	}
	for _, w := range windows {
		if !availability.Conflicts(w, e) {
			continue
		}
		children := availability.SplitWindow(w, []*event.Event{e})
		if err := s.windowRepo.Deactivate(ctx, tx, w.ID); err != nil {
			return err
		}
		if len(children) > 0 {
			if err := s.windowRepo.CreateBulk(ctx, tx, children); err != nil {
				return err
			}
		}
		if m := metrics.Get(); m != nil {
			m.WindowSplitsTotal.Inc()
		}
		logger.Debug("空き枠を分割しました",
			zap.String("window_id", w.ID),
			zap.String("event_id", e.ID),
			zap.Int("children", len(children)))
	}
	return nil
}

// dedupPreservingOrder は招待先IDの重複と作成者自身を取り除く
// 最初に出現した順序を維持する
func dedupPreservingOrder(ids []string, creatorID string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == creatorID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
