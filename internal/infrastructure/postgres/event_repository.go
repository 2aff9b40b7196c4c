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

// eventRow はDBの行を表す構造体
type eventRow struct {
	ID           string     `db:"id"`
	CreatorID    string     `db:"creator_id"`
	Title        string     `db:"title"`
	Location     *string    `db:"location"`
	Date         time.Time  `db:"date"`
	StartAt      time.Time  `db:"start_at"`
	EndAt        time.Time  `db:"end_at"`
	IsSolo       bool       `db:"is_solo"`
	IsPrivate    bool       `db:"is_private"`
	Status       string     `db:"status"`
	ConfirmedBy  *string    `db:"confirmed_by"`
	ConfirmedAt  *time.Time `db:"confirmed_at"`
	RejectReason *string    `db:"reject_reason"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	Version      int        `db:"version"`
}

func (r *eventRow) toEntity() *event.Event {
	var location string
	if r.Location != nil {
		location = *r.Location
	}
	return &event.Event{
		ID:           r.ID,
		CreatorID:    r.CreatorID,
		Title:        r.Title,
		Location:     location,
		Date:         r.Date,
		StartAt:      r.StartAt,
		EndAt:        r.EndAt,
		IsSolo:       r.IsSolo,
		IsPrivate:    r.IsPrivate,
		Status:       event.Status(r.Status),
		ConfirmedBy:  r.ConfirmedBy,
		ConfirmedAt:  r.ConfirmedAt,
		RejectReason: r.RejectReason,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Version:      r.Version,
	}
}

const eventColumns = `id, creator_id, title, location, date, start_at, end_at, is_solo, is_private, status, confirmed_by, confirmed_at, reject_reason, created_at, updated_at, version`

// EventRepository はイベントリポジトリのPostgreSQL実装
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository はEventRepositoryを作成する
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create は新しいイベントを作成する
func (r *EventRepository) Create(ctx context.Context, tx transaction.Tx, e *event.Event) error {
	query := `
		INSERT INTO events (creator_id, title, location, date, start_at, end_at, is_solo, is_private, status, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	var location *string
	if e.Location != "" {
		location = &e.Location
	}
	err := UnwrapTx(tx).QueryRowContext(ctx, query,
		e.CreatorID, e.Title, location, e.Date, e.StartAt, e.EndAt,
		e.IsSolo, e.IsPrivate, string(e.Status), e.CreatedAt, e.UpdatedAt, e.Version,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("イベント作成に失敗: %w", err)
	}
	return nil
}

// GetByID はIDからイベントを取得する
func (r *EventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	var row eventRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベント取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// GetByIDForUpdate はイベントの行を排他ロックして取得する
func (r *EventRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	var row eventRow
	if err := UnwrapTx(tx).GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, event.ErrEventNotFound
		}
		if isLockNotAvailable(err) {
			return nil, transaction.ErrLockWaitTimeout
		}
		return nil, fmt.Errorf("イベントのロック取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// ListByParticipant は出演者が作成または招待されたイベント一覧を取得する
func (r *EventRepository) ListByParticipant(ctx context.Context, performerID string, limit, offset int) ([]*event.Event, error) {
	query := `
		SELECT DISTINCT e.id, e.creator_id, e.title, e.location, e.date, e.start_at, e.end_at,
		       e.is_solo, e.is_private, e.status, e.confirmed_by, e.confirmed_at, e.reject_reason,
		       e.created_at, e.updated_at, e.version
		FROM events e
		LEFT JOIN event_invitations i ON i.event_id = e.id
		WHERE e.creator_id = $1 OR i.performer_id = $1
		ORDER BY e.start_at DESC
		LIMIT $2 OFFSET $3
	`
	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, performerID, limit, offset); err != nil {
		return nil, fmt.Errorf("イベント一覧取得に失敗: %w", err)
	}
	events := make([]*event.Event, len(rows))
	for i, row := range rows {
		events[i] = row.toEntity()
	}
	return events, nil
}

// ListActiveByParticipant は競合判定対象（proposed / confirmed）のイベントを取得する
func (r *EventRepository) ListActiveByParticipant(ctx context.Context, performerID string) ([]*event.Event, error) {
	query := `
		SELECT DISTINCT e.id, e.creator_id, e.title, e.location, e.date, e.start_at, e.end_at,
		       e.is_solo, e.is_private, e.status, e.confirmed_by, e.confirmed_at, e.reject_reason,
		       e.created_at, e.updated_at, e.version
		FROM events e
		LEFT JOIN event_invitations i ON i.event_id = e.id
		WHERE (e.creator_id = $1 OR i.performer_id = $1)
		  AND e.status IN ('proposed', 'confirmed')
		ORDER BY e.start_at
	`
	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, performerID); err != nil {
		return nil, fmt.Errorf("アクティブイベント取得に失敗: %w", err)
	}
	events := make([]*event.Event, len(rows))
	for i, row := range rows {
		events[i] = row.toEntity()
	}
	return events, nil
}

// Update はイベントを更新する
func (r *EventRepository) Update(ctx context.Context, tx transaction.Tx, e *event.Event) error {
	query := `
		UPDATE events
		SET title = $1, location = $2, date = $3, start_at = $4, end_at = $5,
		    is_solo = $6, is_private = $7, status = $8, confirmed_by = $9,
		    confirmed_at = $10, reject_reason = $11, updated_at = $12, version = version + 1
		WHERE id = $13
	`
	var location *string
	if e.Location != "" {
		location = &e.Location
	}
	result, err := UnwrapTx(tx).ExecContext(ctx, query,
		e.Title, location, e.Date, e.StartAt, e.EndAt, e.IsSolo, e.IsPrivate,
		string(e.Status), e.ConfirmedBy, e.ConfirmedAt, e.RejectReason, time.Now(), e.ID,
	)
	if err != nil {
		return fmt.Errorf("イベント更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return event.ErrEventNotFound
	}
	e.Version++
	return nil
}

// Delete はイベントを物理削除する
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("イベント削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// インターフェースを満たしているか確認
var _ event.Repository = (*EventRepository)(nil)
