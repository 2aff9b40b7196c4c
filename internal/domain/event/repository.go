package event

import (
	"context"

	"github.com/sanosuguru/go-gig-booking/internal/domain/transaction"
)

// Repository はイベントリポジトリのインターフェース
type Repository interface {
	// Create は新しいイベントを作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, e *Event) error

	// GetByID はIDからイベントを取得する
	GetByID(ctx context.Context, id string) (*Event, error)

	// GetByIDForUpdate はイベントの行を排他ロックして取得する
	// 確定状態の再計算はこのロックの内側で行う
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Event, error)

	// ListByParticipant は出演者が作成または招待されたイベント一覧を取得する
	ListByParticipant(ctx context.Context, performerID string, limit, offset int) ([]*Event, error)

	// ListActiveByParticipant は競合判定の対象となるイベントを取得する
	// (proposed / confirmed のみ)
	ListActiveByParticipant(ctx context.Context, performerID string) ([]*Event, error)

	// Update はイベントを更新する
	Update(ctx context.Context, tx transaction.Tx, e *Event) error

	// Delete はイベントを物理削除する（作成者のみが呼び出せる）
	Delete(ctx context.Context, id string) error
}

// InvitationRepository は招待リポジトリのインターフェース
type InvitationRepository interface {
	// CreateBulk は招待をまとめて作成する（トランザクション必須）
	CreateBulk(ctx context.Context, tx transaction.Tx, invitations []*Invitation) error

	// GetByEventAndPerformer はイベントと出演者の組で招待を取得する
	GetByEventAndPerformer(ctx context.Context, eventID, performerID string) (*Invitation, error)

	// ListByEvent はイベントの招待一覧を取得する
	ListByEvent(ctx context.Context, eventID string) ([]*Invitation, error)

	// ListByEventForUpdate は招待一覧を排他ロックして取得する
	ListByEventForUpdate(ctx context.Context, tx transaction.Tx, eventID string) ([]*Invitation, error)

	// Update は招待を更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, inv *Invitation) error
}

// HistoryRepository は状態遷移履歴リポジトリのインターフェース
type HistoryRepository interface {
	// Append は履歴エントリを追記する（トランザクション必須）
	Append(ctx context.Context, tx transaction.Tx, entry *HistoryEntry) error

	// ListByEvent はイベントの履歴一覧を取得する（古い順）
	ListByEvent(ctx context.Context, eventID string) ([]*HistoryEntry, error)
}
