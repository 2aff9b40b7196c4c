package performer

import "time"

// Performer は出演者エンティティを表す
// AverageRating / TotalRatings は評価から再計算される導出フィールドであり、
// 直接編集してはならない
type Performer struct {
	ID            string
	Name          string
	Genre         string
	Active        bool
	AverageRating float64
	TotalRatings  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewPerformer は新しい出演者を作成する
func NewPerformer(name, genre string) *Performer {
	now := time.Now()
	return &Performer{
		Name:      name,
		Genre:     genre,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate は出演者の検証を行う
func (p *Performer) Validate() error {
	if p.Name == "" {
		return ErrPerformerNameRequired
	}
	return nil
}

// Deactivate は出演者を非アクティブにする
func (p *Performer) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
}
