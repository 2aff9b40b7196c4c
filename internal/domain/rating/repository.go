package rating

import (
	"context"

	"github.com/sanosuguru/go-gig-booking/internal/domain/transaction"
)

// Repository は評価リポジトリのインターフェース
type Repository interface {
	// Create は新しい評価を作成する
	// (イベント, 出演者, 評価者) の重複は ErrDuplicateRating
	Create(ctx context.Context, r *Rating) error

	// GetByID はIDから評価を取得する
	GetByID(ctx context.Context, id string) (*Rating, error)

	// ListByPerformer は出演者への評価一覧を取得する
	ListByPerformer(ctx context.Context, performerID string, limit, offset int) ([]*Rating, error)

	// Aggregate は出演者の評価の平均と件数を集計する
	// 増分計算ではなく毎回フレッシュな集計クエリを発行する
	Aggregate(ctx context.Context, tx transaction.Tx, performerID string) (float64, int, error)

	// Delete は評価を削除する
	Delete(ctx context.Context, id string) error
}
