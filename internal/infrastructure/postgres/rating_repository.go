package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-gig-booking/internal/domain/rating"
	"github.com/sanosuguru/go-gig-booking/internal/domain/transaction"
)

type ratingRow struct {
	ID          string    `db:"id"`
	EventID     string    `db:"event_id"`
	PerformerID string    `db:"performer_id"`
	RaterID     string    `db:"rater_id"`
	Score       int       `db:"score"`
	Comment     *string   `db:"comment"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r *ratingRow) toEntity() *rating.Rating {
	var comment string
	if r.Comment != nil {
		comment = *r.Comment
	}
	return &rating.Rating{
		ID:          r.ID,
		EventID:     r.EventID,
		PerformerID: r.PerformerID,
		RaterID:     r.RaterID,
		Score:       r.Score,
		Comment:     comment,
		CreatedAt:   r.CreatedAt,
	}
}

const ratingColumns = `id, event_id, performer_id, rater_id, score, comment, created_at`

// RatingRepository は評価リポジトリのPostgreSQL実装
type RatingRepository struct {
	db *sqlx.DB
}

// NewRatingRepository はRatingRepositoryを作成する
func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Create は新しい評価を作成する
func (r *RatingRepository) Create(ctx context.Context, rt *rating.Rating) error {
	query := `
		INSERT INTO ratings (event_id, performer_id, rater_id, score, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var comment *string
	if rt.Comment != "" {
		comment = &rt.Comment
	}
	err := r.db.QueryRowContext(ctx, query,
		rt.EventID, rt.PerformerID, rt.RaterID, rt.Score, comment, rt.CreatedAt,
	).Scan(&rt.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return rating.ErrDuplicateRating
		}
		return fmt.Errorf("評価の作成に失敗: %w", err)
	}
	return nil
}

// GetByID はIDから評価を取得する
func (r *RatingRepository) GetByID(ctx context.Context, id string) (*rating.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE id = $1`
	var row ratingRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, rating.ErrRatingNotFound
		}
		return nil, fmt.Errorf("評価の取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// ListByPerformer は出演者への評価一覧を取得する
func (r *RatingRepository) ListByPerformer(ctx context.Context, performerID string, limit, offset int) ([]*rating.Rating, error) {
	query := `
		SELECT ` + ratingColumns + `
		FROM ratings
		WHERE performer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var rows []ratingRow
	if err := r.db.SelectContext(ctx, &rows, query, performerID, limit, offset); err != nil {
		return nil, fmt.Errorf("評価一覧の取得に失敗: %w", err)
	}
	ratings := make([]*rating.Rating, len(rows))
	for i, row := range rows {
		ratings[i] = row.toEntity()
	}
	return ratings, nil
}

// Aggregate は出演者の評価の平均と件数を集計する
// 導出値をインクリメンタルに保守せず、常に全件から集計し直す
func (r *RatingRepository) Aggregate(ctx context.Context, tx transaction.Tx, performerID string) (float64, int, error) {
	query := `SELECT COALESCE(AVG(score), 0) AS average, COUNT(*) AS total FROM ratings WHERE performer_id = $1`
	var result struct {
		Average float64 `db:"average"`
		Total   int     `db:"total"`
	}
	if err := UnwrapTx(tx).GetContext(ctx, &result, query, performerID); err != nil {
		return 0, 0, fmt.Errorf("評価の集計に失敗: %w", err)
	}
	return result.Average, result.Total, nil
}

// Delete は評価を削除する
func (r *RatingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("評価の削除に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return rating.ErrRatingNotFound
	}
	return nil
}

var _ rating.Repository = (*RatingRepository)(nil)
