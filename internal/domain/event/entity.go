package event

import (
	"fmt"
	"time"
)

// Status はイベントの確定状態を表す
type Status string

const (
	StatusProposed  Status = "proposed"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// IsTerminal は終端状態（以後変更されない状態）かを返す
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusRejected
}

// Event はイベントエンティティを表す
// StartAt / EndAt は日付と時刻文字列から導出されたタイムゾーン付きタイムスタンプ
type Event struct {
	ID           string
	CreatorID    string
	Title        string
	Location     string
	Date         time.Time
	StartAt      time.Time
	EndAt        time.Time
	IsSolo       bool
	IsPrivate    bool
	Status       Status
	ConfirmedBy  *string
	ConfirmedAt  *time.Time
	RejectReason *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int // 楽観的ロック用
}

// ClockLayout は開始・終了時刻の形式（24時間表記）
const ClockLayout = "15:04"

// ResolveTimeRange は日付と時刻文字列から開始・終了タイムスタンプを導出する
// 終了時刻が開始時刻より前の場合、終了日は翌日に繰り上がる（日跨ぎ）
// 開始時刻と終了時刻が等しい場合はゼロ長の範囲としてエラーになる
func ResolveTimeRange(date time.Time, start, end string, loc *time.Location) (time.Time, time.Time, error) {
	startClock, err := time.Parse(ClockLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidTimeFormat
	}
	endClock, err := time.Parse(ClockLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidTimeFormat
	}
	if startClock.Equal(endClock) {
		return time.Time{}, time.Time{}, ErrZeroDuration
	}

	y, m, d := date.Date()
	startAt := time.Date(y, m, d, startClock.Hour(), startClock.Minute(), 0, 0, loc)
	endAt := time.Date(y, m, d, endClock.Hour(), endClock.Minute(), 0, 0, loc)
	if !endAt.After(startAt) {
		endAt = endAt.AddDate(0, 0, 1)
	}
	return startAt, endAt, nil
}

// NewEvent は新しいイベントを作成する
func NewEvent(creatorID, title, location string, date time.Time, start, end string, isSolo, isPrivate bool, loc *time.Location) (*Event, error) {
	startAt, endAt, err := ResolveTimeRange(date, start, end, loc)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Event{
		CreatorID: creatorID,
		Title:     title,
		Location:  location,
		Date:      time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc),
		StartAt:   startAt,
		EndAt:     endAt,
		IsSolo:    isSolo,
		IsPrivate: isPrivate,
		Status:    StatusProposed,
		CreatedAt: now,
		UpdatedAt: now,
		Version:   0,
	}, nil
}

// Validate はイベントの検証を行う
func (e *Event) Validate() error {
	if e.CreatorID == "" {
		return ErrCreatorRequired
	}
	if e.Title == "" {
		return ErrTitleRequired
	}
	if !e.EndAt.After(e.StartAt) {
		return ErrInvalidTimeRange
	}
	if e.StartAt.Before(time.Now()) {
		return ErrDateInPast
	}
	return nil
}

// IsActive は空き枠との競合判定に参加する状態かを返す
// キャンセル済み・却下済みのイベントは競合しない
func (e *Event) IsActive() bool {
	return e.Status == StatusProposed || e.Status == StatusConfirmed
}

// IsConcluded はイベントが終了済みかを返す
func (e *Event) IsConcluded() bool {
	return time.Now().After(e.EndAt)
}

// Recompute は招待の回答状況から確定状態を再計算する
// actorID は直近に回答した出演者（確定への遷移時に確定者として記録される）
// 終端状態は変更しない。状態が変化した場合は true を返す
func (e *Event) Recompute(invitations []*Invitation, actorID string) bool {
	if e.Status.IsTerminal() {
		return false
	}

	shouldConfirm := e.IsSolo || e.allNonCreatorAvailable(invitations)

	if shouldConfirm && e.Status != StatusConfirmed {
		now := time.Now()
		confirmer := actorID
		if confirmer == "" {
			confirmer = e.CreatorID
		}
		e.Status = StatusConfirmed
		e.ConfirmedBy = &confirmer
		e.ConfirmedAt = &now
		e.UpdatedAt = now
		return true
	}
	if !shouldConfirm && e.Status == StatusConfirmed {
		e.Status = StatusProposed
		e.ConfirmedBy = nil
		e.ConfirmedAt = nil
		e.UpdatedAt = time.Now()
		return true
	}
	return false
}

// allNonCreatorAvailable は作成者以外の全招待が available かを返す
// 作成者以外の招待が存在しない場合も true（単独イベント扱い）
func (e *Event) allNonCreatorAvailable(invitations []*Invitation) bool {
	for _, inv := range invitations {
		if inv.PerformerID == e.CreatorID {
			continue
		}
		if inv.Response != ResponseAvailable {
			return false
		}
	}
	return true
}

// Cancel はイベントをキャンセルする（作成者のみ・終端状態）
func (e *Event) Cancel(actorID string) error {
	if actorID != e.CreatorID {
		return ErrNotCreator
	}
	if e.Status == StatusCancelled {
		return ErrEventAlreadyCancelled
	}
	if e.Status == StatusRejected {
		return ErrEventClosed
	}
	now := time.Now()
	e.Status = StatusCancelled
	e.ConfirmedBy = nil
	e.ConfirmedAt = nil
	e.UpdatedAt = now
	return nil
}

// Reject はイベントを却下する（作成者のみ・終端状態）
func (e *Event) Reject(actorID, reason string) error {
	if actorID != e.CreatorID {
		return ErrNotCreator
	}
	if e.Status.IsTerminal() {
		return ErrEventClosed
	}
	e.Status = StatusRejected
	e.RejectReason = &reason
	e.ConfirmedBy = nil
	e.ConfirmedAt = nil
	e.UpdatedAt = time.Now()
	return nil
}

// Response は招待への回答を表す
type Response string

const (
	ResponsePending     Response = "pending"
	ResponseAvailable   Response = "available"
	ResponseUnavailable Response = "unavailable"
)

// Invitation は出演者ごとの招待を表す
// (イベント, 出演者) の組で一意
type Invitation struct {
	ID          string
	EventID     string
	PerformerID string
	Response    Response
	Note        string
	RespondedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewInvitation は回答待ちの招待を作成する
func NewInvitation(eventID, performerID string) *Invitation {
	now := time.Now()
	return &Invitation{
		EventID:     eventID,
		PerformerID: performerID,
		Response:    ResponsePending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewCreatorInvitation は作成者向けの招待を作成する
// 作成者は即座に available として扱われる
func NewCreatorInvitation(eventID, creatorID string) *Invitation {
	inv := NewInvitation(eventID, creatorID)
	now := time.Now()
	inv.Response = ResponseAvailable
	inv.RespondedAt = &now
	return inv
}

// Respond は招待に回答する
// 許可される回答は available / unavailable のみ
func (i *Invitation) Respond(decision Response, note string) error {
	if decision != ResponseAvailable && decision != ResponseUnavailable {
		return ErrInvalidResponse
	}
	now := time.Now()
	i.Response = decision
	i.Note = note
	i.RespondedAt = &now
	i.UpdatedAt = now
	return nil
}

// HistoryEntry は状態遷移の監査履歴を表す（追記のみ・変更不可）
type HistoryEntry struct {
	ID          string
	EventID     string
	ActorID     string
	Action      string
	Description string
	CreatedAt   time.Time
}

// NewHistoryEntry は履歴エントリを作成する
func NewHistoryEntry(eventID, actorID, action, description string) *HistoryEntry {
	return &HistoryEntry{
		EventID:     eventID,
		ActorID:     actorID,
		Action:      action,
		Description: description,
		CreatedAt:   time.Now(),
	}
}

// TransitionDescription は状態遷移の履歴向け説明文を生成する
func TransitionDescription(from, to Status) string {
	return fmt.Sprintf("ステータスが %s から %s に変更されました", from, to)
}
