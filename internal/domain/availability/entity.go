package availability

import (
	"time"

	"github.com/sanosuguru/go-gig-booking/internal/domain/event"
)

// Visibility は空き枠の公開範囲を表す
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Window は出演者が宣言する空き枠を表す
// イベントと競合した場合は非アクティブ化され、残りの空き時間を覆う
// 子枠に置き換えられる（物理削除はしない）
// 同一出演者の枠同士の重なりは許容し、それぞれ独立に分割される
type Window struct {
	ID          string
	PerformerID string
	Date        time.Time
	StartAt     time.Time
	EndAt       time.Time
	Visibility  Visibility
	Note        string
	Active      bool
	ParentID    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewWindow は新しい空き枠を作成する
// 日跨ぎの扱いはイベントと同一（終了時刻 <= 開始時刻で翌日に繰り上げ）
func NewWindow(performerID string, date time.Time, start, end string, visibility Visibility, note string, loc *time.Location) (*Window, error) {
	startAt, endAt, err := event.ResolveTimeRange(date, start, end, loc)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &Window{
		PerformerID: performerID,
		Date:        time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc),
		StartAt:     startAt,
		EndAt:       endAt,
		Visibility:  visibility,
		Note:        note,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Validate は空き枠の検証を行う
func (w *Window) Validate() error {
	if w.PerformerID == "" {
		return ErrPerformerRequired
	}
	if !w.EndAt.After(w.StartAt) {
		return ErrInvalidTimeRange
	}
	if w.StartAt.Before(time.Now()) {
		return ErrDateInPast
	}
	if w.Visibility != VisibilityPublic && w.Visibility != VisibilityPrivate {
		return ErrInvalidVisibility
	}
	return nil
}

// Deactivate は空き枠を非アクティブにする
func (w *Window) Deactivate() {
	w.Active = false
	w.UpdatedAt = time.Now()
}

// child は親の属性を引き継いだ子枠を生成する
func (w *Window) child(startAt, endAt time.Time) *Window {
	now := time.Now()
	parentID := w.ID
	return &Window{
		PerformerID: w.PerformerID,
		Date:        time.Date(startAt.Year(), startAt.Month(), startAt.Day(), 0, 0, 0, 0, startAt.Location()),
		StartAt:     startAt,
		EndAt:       endAt,
		Visibility:  w.Visibility,
		Note:        w.Note,
		Active:      true,
		ParentID:    &parentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
