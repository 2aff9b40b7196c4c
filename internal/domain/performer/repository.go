package performer

import (
	"context"

	"github.com/sanosuguru/go-gig-booking/internal/domain/transaction"
)

// Repository は出演者リポジトリのインターフェース
type Repository interface {
	// Create は新しい出演者を作成する
	Create(ctx context.Context, p *Performer) error

	// GetByID はIDから出演者を取得する
	GetByID(ctx context.Context, id string) (*Performer, error)

	// GetByIDForUpdate は出演者の行を排他ロックして取得する
	// 評価集計の再計算はこのロックの内側で行う
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Performer, error)

	// List は出演者一覧を取得する
	List(ctx context.Context, limit, offset int) ([]*Performer, error)

	// Update は出演者を更新する
	Update(ctx context.Context, p *Performer) error

	// UpdateRatingStats は評価集計フィールドを更新する（トランザクション必須）
	UpdateRatingStats(ctx context.Context, tx transaction.Tx, id string, average float64, total int) error
}
