package quote

import (
	"context"

	"github.com/sanosuguru/go-gig-booking/internal/domain/transaction"
)

// RequestRepository は見積依頼リポジトリのインターフェース
type RequestRepository interface {
	// Create は新しい見積依頼を作成する
	Create(ctx context.Context, r *Request) error

	// GetByID はIDから見積依頼を取得する
	GetByID(ctx context.Context, id string) (*Request, error)

	// GetByIDForUpdate は見積依頼の行を排他ロックして取得する
	// 承諾・確定・キャンセルの状態遷移はこのロックの内側で行う
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Request, error)

	// ListByOrganizer は主催者の見積依頼一覧を取得する
	ListByOrganizer(ctx context.Context, organizerID string, limit, offset int) ([]*Request, error)

	// ListByPerformer は出演者宛の見積依頼一覧を取得する
	ListByPerformer(ctx context.Context, performerID string, limit, offset int) ([]*Request, error)

	// Update は見積依頼を更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, r *Request) error
}

// ProposalRepository は提案リポジトリのインターフェース
type ProposalRepository interface {
	// Create は新しい提案を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, p *Proposal) error

	// GetByID はIDから提案を取得する
	GetByID(ctx context.Context, id string) (*Proposal, error)

	// ListByRequest は見積依頼の提案一覧を取得する
	ListByRequest(ctx context.Context, requestID string) ([]*Proposal, error)

	// ListExpiredSent は有効期限切れの sent 提案を取得する
	ListExpiredSent(ctx context.Context) ([]*Proposal, error)

	// Update は提案を更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, p *Proposal) error
}

// BookingRepository は予約リポジトリのインターフェース
type BookingRepository interface {
	// Create は新しい予約を作成する（トランザクション必須）
	// キャンセルされていない予約が既に存在する場合は ErrBookingExists
	Create(ctx context.Context, tx transaction.Tx, b *Booking) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Booking, error)

	// GetByRequestID は見積依頼に紐づくアクティブな予約を取得する
	GetByRequestID(ctx context.Context, requestID string) (*Booking, error)

	// Update は予約を更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, b *Booking) error
}
