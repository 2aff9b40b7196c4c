package rating

import "time"

// Rating は終了済みイベントに対する出演者への評価を表す
// (イベント, 出演者, 評価者) の組で一意
type Rating struct {
	ID          string
	EventID     string
	PerformerID string
	RaterID     string
	Score       int
	Comment     string
	CreatedAt   time.Time
}

// NewRating は新しい評価を作成する
func NewRating(eventID, performerID, raterID string, score int, comment string) *Rating {
	return &Rating{
		EventID:     eventID,
		PerformerID: performerID,
		RaterID:     raterID,
		Score:       score,
		Comment:     comment,
		CreatedAt:   time.Now(),
	}
}

// Validate は評価の検証を行う
func (r *Rating) Validate() error {
	if r.EventID == "" {
		return ErrEventIDRequired
	}
	if r.PerformerID == "" {
		return ErrPerformerIDRequired
	}
	if r.RaterID == "" {
		return ErrRaterIDRequired
	}
	if r.PerformerID == r.RaterID {
		return ErrSelfRating
	}
	if r.Score < 1 || r.Score > 5 {
		return ErrInvalidScore
	}
	return nil
}
