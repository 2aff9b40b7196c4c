package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-gig-booking/internal/domain/quote"
	"github.com/sanosuguru/go-gig-booking/internal/domain/transaction"
)

type quoteRequestRow struct {
	ID              string    `db:"id"`
	OrganizerID     string    `db:"organizer_id"`
	PerformerID     string    `db:"performer_id"`
	EventDate       time.Time `db:"event_date"`
	EventType       string    `db:"event_type"`
	Location        string    `db:"location"`
	DurationMinutes int       `db:"duration_minutes"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r *quoteRequestRow) toEntity() *quote.Request {
	return &quote.Request{
		ID:              r.ID,
		OrganizerID:     r.OrganizerID,
		PerformerID:     r.PerformerID,
		EventDate:       r.EventDate,
		EventType:       r.EventType,
		Location:        r.Location,
		DurationMinutes: r.DurationMinutes,
		Status:          quote.RequestStatus(r.Status),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

const quoteRequestColumns = `id, organizer_id, performer_id, event_date, event_type, location, duration_minutes, status, created_at, updated_at`

// QuoteRequestRepository は見積依頼リポジトリのPostgreSQL実装
type QuoteRequestRepository struct {
	db *sqlx.DB
}

// NewQuoteRequestRepository はQuoteRequestRepositoryを作成する
func NewQuoteRequestRepository(db *sqlx.DB) *QuoteRequestRepository {
	return &QuoteRequestRepository{db: db}
}

// Create は新しい見積依頼を作成する
func (r *QuoteRequestRepository) Create(ctx context.Context, req *quote.Request) error {
	query := `
		INSERT INTO quote_requests (organizer_id, performer_id, event_date, event_type, location, duration_minutes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		req.OrganizerID, req.PerformerID, req.EventDate, req.EventType,
		req.Location, req.DurationMinutes, string(req.Status), req.CreatedAt, req.UpdatedAt,
	).Scan(&req.ID)
	if err != nil {
		return fmt.Errorf("見積依頼作成に失敗: %w", err)
	}
	return nil
}

// GetByID はIDから見積依頼を取得する
func (r *QuoteRequestRepository) GetByID(ctx context.Context, id string) (*quote.Request, error) {
	query := `SELECT ` + quoteRequestColumns + ` FROM quote_requests WHERE id = $1`
	var row quoteRequestRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, quote.ErrRequestNotFound
		}
		return nil, fmt.Errorf("見積依頼取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// GetByIDForUpdate は見積依頼の行を排他ロックして取得する
func (r *QuoteRequestRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*quote.Request, error) {
	query := `SELECT ` + quoteRequestColumns + ` FROM quote_requests WHERE id = $1 FOR UPDATE`
	var row quoteRequestRow
	if err := UnwrapTx(tx).GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, quote.ErrRequestNotFound
		}
		if isLockNotAvailable(err) {
			return nil, transaction.ErrLockWaitTimeout
		}
		return nil, fmt.Errorf("見積依頼のロック取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// ListByOrganizer は主催者の見積依頼一覧を取得する
func (r *QuoteRequestRepository) ListByOrganizer(ctx context.Context, organizerID string, limit, offset int) ([]*quote.Request, error) {
	query := `SELECT ` + quoteRequestColumns + ` FROM quote_requests WHERE organizer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, organizerID, limit, offset)
}

// ListByPerformer は出演者宛の見積依頼一覧を取得する
func (r *QuoteRequestRepository) ListByPerformer(ctx context.Context, performerID string, limit, offset int) ([]*quote.Request, error) {
	query := `SELECT ` + quoteRequestColumns + ` FROM quote_requests WHERE performer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, performerID, limit, offset)
}

func (r *QuoteRequestRepository) list(ctx context.Context, query string, args ...interface{}) ([]*quote.Request, error) {
	var rows []quoteRequestRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("見積依頼一覧取得に失敗: %w", err)
	}
	requests := make([]*quote.Request, len(rows))
	for i, row := range rows {
		requests[i] = row.toEntity()
	}
	return requests, nil
}

// Update は見積依頼を更新する
func (r *QuoteRequestRepository) Update(ctx context.Context, tx transaction.Tx, req *quote.Request) error {
	query := `UPDATE quote_requests SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := UnwrapTx(tx).ExecContext(ctx, query, string(req.Status), req.UpdatedAt, req.ID)
	if err != nil {
		return fmt.Errorf("見積依頼更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return quote.ErrRequestNotFound
	}
	return nil
}

var _ quote.RequestRepository = (*QuoteRequestRepository)(nil)

type proposalRow struct {
	ID         string    `db:"id"`
	RequestID  string    `db:"quote_request_id"`
	Message    string    `db:"message"`
	Fee        int       `db:"fee"`
	ValidUntil time.Time `db:"valid_until"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r *proposalRow) toEntity() *quote.Proposal {
	return &quote.Proposal{
		ID:         r.ID,
		RequestID:  r.RequestID,
		Message:    r.Message,
		Fee:        r.Fee,
		ValidUntil: r.ValidUntil,
		Status:     quote.ProposalStatus(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

const proposalColumns = `id, quote_request_id, message, fee, valid_until, status, created_at, updated_at`

// ProposalRepository は提案リポジトリのPostgreSQL実装
type ProposalRepository struct {
	db *sqlx.DB
}

// NewProposalRepository はProposalRepositoryを作成する
func NewProposalRepository(db *sqlx.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// Create は新しい提案を作成する
func (r *ProposalRepository) Create(ctx context.Context, tx transaction.Tx, p *quote.Proposal) error {
	query := `
		INSERT INTO proposals (quote_request_id, message, fee, valid_until, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := UnwrapTx(tx).QueryRowContext(ctx, query,
		p.RequestID, p.Message, p.Fee, p.ValidUntil, string(p.Status), p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("提案作成に失敗: %w", err)
	}
	return nil
}

// GetByID はIDから提案を取得する
func (r *ProposalRepository) GetByID(ctx context.Context, id string) (*quote.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE id = $1`
	var row proposalRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, quote.ErrProposalNotFound
		}
		return nil, fmt.Errorf("提案取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// ListByRequest は見積依頼の提案一覧を取得する
func (r *ProposalRepository) ListByRequest(ctx context.Context, requestID string) ([]*quote.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE quote_request_id = $1 ORDER BY created_at DESC`
	var rows []proposalRow
	if err := r.db.SelectContext(ctx, &rows, query, requestID); err != nil {
		return nil, fmt.Errorf("提案一覧取得に失敗: %w", err)
	}
	proposals := make([]*quote.Proposal, len(rows))
	for i, row := range rows {
		proposals[i] = row.toEntity()
	}
	return proposals, nil
}

// ListExpiredSent は有効期限切れの sent 提案を取得する
func (r *ProposalRepository) ListExpiredSent(ctx context.Context) ([]*quote.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE status = 'sent' AND valid_until < NOW()`
	var rows []proposalRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("期限切れ提案取得に失敗: %w", err)
	}
	proposals := make([]*quote.Proposal, len(rows))
	for i, row := range rows {
		proposals[i] = row.toEntity()
	}
	return proposals, nil
}

// Update は提案を更新する
func (r *ProposalRepository) Update(ctx context.Context, tx transaction.Tx, p *quote.Proposal) error {
	query := `UPDATE proposals SET message = $1, fee = $2, valid_until = $3, status = $4, updated_at = $5 WHERE id = $6`
	result, err := UnwrapTx(tx).ExecContext(ctx, query,
		p.Message, p.Fee, p.ValidUntil, string(p.Status), p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("提案更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return quote.ErrProposalNotFound
	}
	return nil
}

var _ quote.ProposalRepository = (*ProposalRepository)(nil)

type bookingRow struct {
	ID           string     `db:"id"`
	RequestID    string     `db:"quote_request_id"`
	Status       string     `db:"status"`
	ReservedAt   time.Time  `db:"reserved_at"`
	ConfirmedAt  *time.Time `db:"confirmed_at"`
	CancelledAt  *time.Time `db:"cancelled_at"`
	CancelReason *string    `db:"cancel_reason"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func (r *bookingRow) toEntity() *quote.Booking {
	return &quote.Booking{
		ID:           r.ID,
		RequestID:    r.RequestID,
		Status:       quote.BookingStatus(r.Status),
		ReservedAt:   r.ReservedAt,
		ConfirmedAt:  r.ConfirmedAt,
		CancelledAt:  r.CancelledAt,
		CancelReason: r.CancelReason,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

const bookingColumns = `id, quote_request_id, status, reserved_at, confirmed_at, cancelled_at, cancel_reason, created_at, updated_at`

// BookingRepository は予約リポジトリのPostgreSQL実装
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository はBookingRepositoryを作成する
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create は新しい予約を作成する
// 非キャンセル予約の一意性は部分一意インデックスで担保される
func (r *BookingRepository) Create(ctx context.Context, tx transaction.Tx, b *quote.Booking) error {
	query := `
		INSERT INTO bookings (quote_request_id, status, reserved_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := UnwrapTx(tx).QueryRowContext(ctx, query,
		b.RequestID, string(b.Status), b.ReservedAt, b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return quote.ErrBookingExists
		}
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

// GetByID はIDから予約を取得する
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*quote.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	var row bookingRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, quote.ErrBookingNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// GetByRequestID は見積依頼に紐づくアクティブな予約を取得する
func (r *BookingRepository) GetByRequestID(ctx context.Context, requestID string) (*quote.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE quote_request_id = $1 AND status <> 'cancelled'`
	var row bookingRow
	if err := r.db.GetContext(ctx, &row, query, requestID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, quote.ErrBookingNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// Update は予約を更新する
func (r *BookingRepository) Update(ctx context.Context, tx transaction.Tx, b *quote.Booking) error {
	query := `UPDATE bookings SET status = $1, confirmed_at = $2, cancelled_at = $3, cancel_reason = $4, updated_at = $5 WHERE id = $6`
	result, err := UnwrapTx(tx).ExecContext(ctx, query,
		string(b.Status), b.ConfirmedAt, b.CancelledAt, b.CancelReason, b.UpdatedAt, b.ID,
	)
	if err != nil {
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return quote.ErrBookingNotFound
	}
	return nil
}

var _ quote.BookingRepository = (*BookingRepository)(nil)
