package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-gig-booking/internal/domain/availability"
	"github.com/sanosuguru/go-gig-booking/internal/domain/transaction"
)

type windowRow struct {
	ID          string    `db:"id"`
	PerformerID string    `db:"performer_id"`
	Date        time.Time `db:"date"`
	StartAt     time.Time `db:"start_at"`
	EndAt       time.Time `db:"end_at"`
	Visibility  string    `db:"visibility"`
	Note        string    `db:"note"`
	Active      bool      `db:"active"`
	ParentID    *string   `db:"parent_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *windowRow) toEntity() *availability.Window {
	return &availability.Window{
		ID:          r.ID,
		PerformerID: r.PerformerID,
		Date:        r.Date,
		StartAt:     r.StartAt,
		EndAt:       r.EndAt,
		Visibility:  availability.Visibility(r.Visibility),
		Note:        r.Note,
		Active:      r.Active,
		ParentID:    r.ParentID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

const windowColumns = `id, performer_id, date, start_at, end_at, visibility, note, active, parent_id, created_at, updated_at`

// AvailabilityRepository は空き枠リポジトリのPostgreSQL実装
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository はAvailabilityRepositoryを作成する
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// Create は新しい空き枠を作成する
func (r *AvailabilityRepository) Create(ctx context.Context, tx transaction.Tx, w *availability.Window) error {
	query := `
		INSERT INTO availability_windows (performer_id, date, start_at, end_at, visibility, note, active, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := UnwrapTx(tx).QueryRowContext(ctx, query,
		w.PerformerID, w.Date, w.StartAt, w.EndAt, string(w.Visibility),
		w.Note, w.Active, w.ParentID, w.CreatedAt, w.UpdatedAt,
	).Scan(&w.ID)
	if err != nil {
		return fmt.Errorf("空き枠作成に失敗: %w", err)
	}
	return nil
}

// CreateBulk は子枠をまとめて作成する
func (r *AvailabilityRepository) CreateBulk(ctx context.Context, tx transaction.Tx, windows []*availability.Window) error {
	for _, w := range windows {
		if err := r.Create(ctx, tx, w); err != nil {
			return err
		}
	}
	return nil
}

// GetByID はIDから空き枠を取得する
func (r *AvailabilityRepository) GetByID(ctx context.Context, id string) (*availability.Window, error) {
	query := `SELECT ` + windowColumns + ` FROM availability_windows WHERE id = $1`
	var row windowRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, availability.ErrWindowNotFound
		}
		return nil, fmt.Errorf("空き枠取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// ListActiveByPerformer は出演者のアクティブな空き枠を取得する
func (r *AvailabilityRepository) ListActiveByPerformer(ctx context.Context, performerID string) ([]*availability.Window, error) {
	query := `SELECT ` + windowColumns + ` FROM availability_windows WHERE performer_id = $1 AND active = true ORDER BY start_at`
	var rows []windowRow
	if err := r.db.SelectContext(ctx, &rows, query, performerID); err != nil {
		return nil, fmt.Errorf("空き枠一覧取得に失敗: %w", err)
	}
	windows := make([]*availability.Window, len(rows))
	for i, row := range rows {
		windows[i] = row.toEntity()
	}
	return windows, nil
}

// ListByPerformer は出演者の空き枠一覧を取得する
func (r *AvailabilityRepository) ListByPerformer(ctx context.Context, performerID string, publicOnly bool) ([]*availability.Window, error) {
	query := `SELECT ` + windowColumns + ` FROM availability_windows WHERE performer_id = $1 AND active = true`
	if publicOnly {
		query += ` AND visibility = 'public'`
	}
	query += ` ORDER BY start_at`
	var rows []windowRow
	if err := r.db.SelectContext(ctx, &rows, query, performerID); err != nil {
		return nil, fmt.Errorf("空き枠一覧取得に失敗: %w", err)
	}
	windows := make([]*availability.Window, len(rows))
	for i, row := range rows {
		windows[i] = row.toEntity()
	}
	return windows, nil
}

// Deactivate は空き枠を非アクティブ化する
func (r *AvailabilityRepository) Deactivate(ctx context.Context, tx transaction.Tx, id string) error {
	query := `UPDATE availability_windows SET active = false, updated_at = NOW() WHERE id = $1`
	result, err := UnwrapTx(tx).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("空き枠の非アクティブ化に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return availability.ErrWindowNotFound
	}
	return nil
}

// Update は空き枠を更新する
func (r *AvailabilityRepository) Update(ctx context.Context, tx transaction.Tx, w *availability.Window) error {
	query := `
		UPDATE availability_windows
		SET date = $1, start_at = $2, end_at = $3, visibility = $4, note = $5, active = $6, updated_at = $7
		WHERE id = $8
	`
	result, err := UnwrapTx(tx).ExecContext(ctx, query,
		w.Date, w.StartAt, w.EndAt, string(w.Visibility), w.Note, w.Active, time.Now(), w.ID,
	)
	if err != nil {
		return fmt.Errorf("空き枠更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return availability.ErrWindowNotFound
	}
	return nil
}

// Delete は空き枠を物理削除する
func (r *AvailabilityRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM availability_windows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("空き枠削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return availability.ErrWindowNotFound
	}
	return nil
}

var _ availability.Repository = (*AvailabilityRepository)(nil)
