package availability

import (
	"context"

	"github.com/sanosuguru/go-gig-booking/internal/domain/transaction"
)

// Repository は空き枠リポジトリのインターフェース
type Repository interface {
	// Create は新しい空き枠を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, w *Window) error

	// CreateBulk は子枠をまとめて作成する（トランザクション必須）
	CreateBulk(ctx context.Context, tx transaction.Tx, windows []*Window) error

	// GetByID はIDから空き枠を取得する
	GetByID(ctx context.Context, id string) (*Window, error)

	// ListActiveByPerformer は出演者のアクティブな空き枠を取得する
	ListActiveByPerformer(ctx context.Context, performerID string) ([]*Window, error)

	// ListByPerformer は出演者の空き枠一覧を取得する
	// publicOnly が true の場合は公開枠のみを返す
	ListByPerformer(ctx context.Context, performerID string, publicOnly bool) ([]*Window, error)

	// Deactivate は空き枠を非アクティブ化する（トランザクション必須）
	Deactivate(ctx context.Context, tx transaction.Tx, id string) error

	// Update は空き枠を更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, w *Window) error

	// Delete は空き枠を物理削除する（所有者のみが呼び出せる）
	Delete(ctx context.Context, id string) error
}
