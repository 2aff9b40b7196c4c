package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-gig-booking/internal/domain/event"
	"github.com/sanosuguru/go-gig-booking/internal/domain/transaction"
)

type invitationRow struct {
	ID          string     `db:"id"`
	EventID     string     `db:"event_id"`
	PerformerID string     `db:"performer_id"`
	Response    string     `db:"response"`
	Note        string     `db:"note"`
	RespondedAt *time.Time `db:"responded_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func (r *invitationRow) toEntity() *event.Invitation {
	return &event.Invitation{
		ID:          r.ID,
		EventID:     r.EventID,
		PerformerID: r.PerformerID,
		Response:    event.Response(r.Response),
		Note:        r.Note,
		RespondedAt: r.RespondedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

const invitationColumns = `id, event_id, performer_id, response, note, responded_at, created_at, updated_at`

// InvitationRepository は招待リポジトリのPostgreSQL実装
type InvitationRepository struct {
	db *sqlx.DB
}

// NewInvitationRepository はInvitationRepositoryを作成する
func NewInvitationRepository(db *sqlx.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// CreateBulk は招待をまとめて作成する
func (r *InvitationRepository) CreateBulk(ctx context.Context, tx transaction.Tx, invitations []*event.Invitation) error {
	query := `
		INSERT INTO event_invitations (event_id, performer_id, response, note, responded_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	for _, inv := range invitations {
		err := UnwrapTx(tx).QueryRowContext(ctx, query,
			inv.EventID, inv.PerformerID, string(inv.Response), inv.Note,
			inv.RespondedAt, inv.CreatedAt, inv.UpdatedAt,
		).Scan(&inv.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return event.ErrDuplicateInvitation
			}
			return fmt.Errorf("招待作成に失敗: %w", err)
		}
	}
	return nil
}

// GetByEventAndPerformer はイベントと出演者の組で招待を取得する
func (r *InvitationRepository) GetByEventAndPerformer(ctx context.Context, eventID, performerID string) (*event.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM event_invitations WHERE event_id = $1 AND performer_id = $2`
	var row invitationRow
	if err := r.db.GetContext(ctx, &row, query, eventID, performerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, event.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("招待取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// ListByEvent はイベントの招待一覧を取得する
func (r *InvitationRepository) ListByEvent(ctx context.Context, eventID string) ([]*event.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM event_invitations WHERE event_id = $1 ORDER BY created_at`
	var rows []invitationRow
	if err := r.db.SelectContext(ctx, &rows, query, eventID); err != nil {
		return nil, fmt.Errorf("招待一覧取得に失敗: %w", err)
	}
	invitations := make([]*event.Invitation, len(rows))
	for i, row := range rows {
		invitations[i] = row.toEntity()
	}
	return invitations, nil
}

// ListByEventForUpdate は招待一覧を排他ロックして取得する
func (r *InvitationRepository) ListByEventForUpdate(ctx context.Context, tx transaction.Tx, eventID string) ([]*event.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM event_invitations WHERE event_id = $1 ORDER BY created_at FOR UPDATE`
	var rows []invitationRow
	if err := UnwrapTx(tx).SelectContext(ctx, &rows, query, eventID); err != nil {
		if isLockNotAvailable(err) {
			return nil, transaction.ErrLockWaitTimeout
		}
		return nil, fmt.Errorf("招待のロック取得に失敗: %w", err)
	}
	invitations := make([]*event.Invitation, len(rows))
	for i, row := range rows {
		invitations[i] = row.toEntity()
	}
	return invitations, nil
}

// Update は招待を更新する
func (r *InvitationRepository) Update(ctx context.Context, tx transaction.Tx, inv *event.Invitation) error {
	query := `
		UPDATE event_invitations
		SET response = $1, note = $2, responded_at = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := UnwrapTx(tx).ExecContext(ctx, query,
		string(inv.Response), inv.Note, inv.RespondedAt, inv.UpdatedAt, inv.ID,
	)
	if err != nil {
		return fmt.Errorf("招待更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return event.ErrInvitationNotFound
	}
	return nil
}

var _ event.InvitationRepository = (*InvitationRepository)(nil)

// HistoryRepository は状態遷移履歴リポジトリのPostgreSQL実装
type HistoryRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository はHistoryRepositoryを作成する
func NewHistoryRepository(db *sqlx.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

type historyRow struct {
	ID          string    `db:"id"`
	EventID     string    `db:"event_id"`
	ActorID     string    `db:"actor_id"`
	Action      string    `db:"action"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// Append は履歴エントリを追記する
func (r *HistoryRepository) Append(ctx context.Context, tx transaction.Tx, entry *event.HistoryEntry) error {
	query := `
		INSERT INTO event_history (event_id, actor_id, action, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := UnwrapTx(tx).QueryRowContext(ctx, query,
		entry.EventID, entry.ActorID, entry.Action, entry.Description, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("履歴追記に失敗: %w", err)
	}
	return nil
}

// ListByEvent はイベントの履歴一覧を取得する（古い順）
func (r *HistoryRepository) ListByEvent(ctx context.Context, eventID string) ([]*event.HistoryEntry, error) {
	query := `SELECT id, event_id, actor_id, action, description, created_at FROM event_history WHERE event_id = $1 ORDER BY created_at`
	var rows []historyRow
	if err := r.db.SelectContext(ctx, &rows, query, eventID); err != nil {
		return nil, fmt.Errorf("履歴取得に失敗: %w", err)
	}
	entries := make([]*event.HistoryEntry, len(rows))
	for i, row := range rows {
		entries[i] = &event.HistoryEntry{
			ID:          row.ID,
			EventID:     row.EventID,
			ActorID:     row.ActorID,
			Action:      row.Action,
			Description: row.Description,
			CreatedAt:   row.CreatedAt,
		}
	}
	return entries, nil
}

var _ event.HistoryRepository = (*HistoryRepository)(nil)
