package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-gig-booking/internal/domain/performer"
	"github.com/sanosuguru/go-gig-booking/internal/domain/transaction"
)

type performerRow struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Genre         *string   `db:"genre"`
	Active        bool      `db:"active"`
	AverageRating float64   `db:"average_rating"`
	TotalRatings  int       `db:"total_ratings"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r *performerRow) toEntity() *performer.Performer {
	var genre string
	if r.Genre != nil {
		genre = *r.Genre
	}
	return &performer.Performer{
		ID:            r.ID,
		Name:          r.Name,
		Genre:         genre,
		Active:        r.Active,
		AverageRating: r.AverageRating,
		TotalRatings:  r.TotalRatings,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

const performerColumns = `id, name, genre, active, average_rating, total_ratings, created_at, updated_at`

// PerformerRepository は出演者リポジトリのPostgreSQL実装
type PerformerRepository struct {
	db *sqlx.DB
}

// NewPerformerRepository はPerformerRepositoryを作成する
func NewPerformerRepository(db *sqlx.DB) *PerformerRepository {
	return &PerformerRepository{db: db}
}

// Create は新しい出演者を作成する
func (r *PerformerRepository) Create(ctx context.Context, p *performer.Performer) error {
	query := `
		INSERT INTO performers (name, genre, active, average_rating, total_ratings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var genre *string
	if p.Genre != "" {
		genre = &p.Genre
	}
	err := r.db.QueryRowContext(ctx, query,
		p.Name, genre, p.Active, p.AverageRating, p.TotalRatings, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("出演者作成に失敗: %w", err)
	}
	return nil
}

// GetByID はIDから出演者を取得する
func (r *PerformerRepository) GetByID(ctx context.Context, id string) (*performer.Performer, error) {
	query := `SELECT ` + performerColumns + ` FROM performers WHERE id = $1`
	var row performerRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, performer.ErrPerformerNotFound
		}
		return nil, fmt.Errorf("出演者取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// GetByIDForUpdate は出演者の行を排他ロックして取得する
func (r *PerformerRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*performer.Performer, error) {
	query := `SELECT ` + performerColumns + ` FROM performers WHERE id = $1 FOR UPDATE`
	var row performerRow
	if err := UnwrapTx(tx).GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, performer.ErrPerformerNotFound
		}
		if isLockNotAvailable(err) {
			return nil, transaction.ErrLockWaitTimeout
		}
		return nil, fmt.Errorf("出演者のロック取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// List は出演者一覧を取得する
func (r *PerformerRepository) List(ctx context.Context, limit, offset int) ([]*performer.Performer, error) {
	query := `SELECT ` + performerColumns + ` FROM performers WHERE active = true ORDER BY name LIMIT $1 OFFSET $2`
	var rows []performerRow
	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("出演者一覧取得に失敗: %w", err)
	}
	performers := make([]*performer.Performer, len(rows))
	for i, row := range rows {
		performers[i] = row.toEntity()
	}
	return performers, nil
}

// Update は出演者を更新する
func (r *PerformerRepository) Update(ctx context.Context, p *performer.Performer) error {
	query := `UPDATE performers SET name = $1, genre = $2, active = $3, updated_at = $4 WHERE id = $5`
	var genre *string
	if p.Genre != "" {
		genre = &p.Genre
	}
	result, err := r.db.ExecContext(ctx, query, p.Name, genre, p.Active, time.Now(), p.ID)
	if err != nil {
		return fmt.Errorf("出演者更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return performer.ErrPerformerNotFound
	}
	return nil
}

// UpdateRatingStats は評価集計フィールドを更新する
func (r *PerformerRepository) UpdateRatingStats(ctx context.Context, tx transaction.Tx, id string, average float64, total int) error {
	query := `UPDATE performers SET average_rating = $1, total_ratings = $2, updated_at = NOW() WHERE id = $3`
	result, err := UnwrapTx(tx).ExecContext(ctx, query, average, total, id)
	if err != nil {
		return fmt.Errorf("評価集計の更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return performer.ErrPerformerNotFound
	}
	return nil
}

var _ performer.Repository = (*PerformerRepository)(nil)
