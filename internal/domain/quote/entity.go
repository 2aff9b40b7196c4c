package quote

import "time"

// RequestStatus は見積依頼の状態を表す
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestResponded RequestStatus = "responded"
	RequestReserved  RequestStatus = "reserved"
	RequestConfirmed RequestStatus = "confirmed"
	RequestCancelled RequestStatus = "cancelled"
)

// ProposalStatus は提案の状態を表す
type ProposalStatus string

const (
	ProposalSent     ProposalStatus = "sent"
	ProposalDeclined ProposalStatus = "declined"
	ProposalAccepted ProposalStatus = "accepted"
)

// BookingStatus は予約の状態を表す
type BookingStatus string

const (
	BookingReserved  BookingStatus = "reserved"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Request は主催者から出演者への見積依頼を表す
type Request struct {
	ID              string
	OrganizerID     string
	PerformerID     string
	EventDate       time.Time
	EventType       string
	Location        string
	DurationMinutes int
	Status          RequestStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewRequest は新しい見積依頼を作成する
func NewRequest(organizerID, performerID string, eventDate time.Time, eventType, location string, durationMinutes int) *Request {
	now := time.Now()
	return &Request{
		OrganizerID:     organizerID,
		PerformerID:     performerID,
		EventDate:       eventDate,
		EventType:       eventType,
		Location:        location,
		DurationMinutes: durationMinutes,
		Status:          RequestPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Validate は見積依頼の検証を行う
func (r *Request) Validate() error {
	if r.OrganizerID == "" {
		return ErrOrganizerRequired
	}
	if r.PerformerID == "" {
		return ErrPerformerRequired
	}
	if r.EventType == "" {
		return ErrEventTypeRequired
	}
	if r.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}
	if r.EventDate.Before(time.Now()) {
		return ErrDateInPast
	}
	return nil
}

// MarkResponded は提案の提出を受けて responded に遷移させる
// pending / responded 以外からの提出は拒否される
func (r *Request) MarkResponded() error {
	switch r.Status {
	case RequestPending, RequestResponded:
		r.Status = RequestResponded
		r.UpdatedAt = time.Now()
		return nil
	case RequestCancelled:
		return ErrRequestCancelled
	default:
		return ErrRequestNotOpen
	}
}

// Reserve は提案の承諾を受けて reserved に遷移させる
func (r *Request) Reserve() error {
	if r.Status == RequestCancelled {
		return ErrRequestCancelled
	}
	if r.Status != RequestResponded {
		return ErrRequestNotResponded
	}
	r.Status = RequestReserved
	r.UpdatedAt = time.Now()
	return nil
}

// Confirm は予約の確定を受けて confirmed に遷移させる
func (r *Request) Confirm() error {
	if r.Status != RequestReserved {
		return ErrRequestNotReserved
	}
	r.Status = RequestConfirmed
	r.UpdatedAt = time.Now()
	return nil
}

// Cancel は依頼をキャンセルする
// reserved / confirmed の依頼は予約側のキャンセルを経由する必要がある
func (r *Request) Cancel() error {
	switch r.Status {
	case RequestReserved, RequestConfirmed:
		return ErrCancelViaBooking
	case RequestCancelled:
		return ErrRequestCancelled
	}
	r.Status = RequestCancelled
	r.UpdatedAt = time.Now()
	return nil
}

// cancelByBooking は予約キャンセルに連動して依頼を cancelled にする
// 予約経由のため reserved / confirmed ガードを適用しない
func (r *Request) cancelByBooking() {
	r.Status = RequestCancelled
	r.UpdatedAt = time.Now()
}

// CancelWithBooking は予約とその親依頼をまとめてキャンセルする
func CancelWithBooking(r *Request, b *Booking, reason string) error {
	if err := b.Cancel(reason); err != nil {
		return err
	}
	r.cancelByBooking()
	return nil
}

// Proposal は見積依頼に対する出演者の提案を表す
type Proposal struct {
	ID         string
	RequestID  string
	Message    string
	Fee        int
	ValidUntil time.Time
	Status     ProposalStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewProposal は新しい提案を作成する
func NewProposal(requestID, message string, fee int, validUntil time.Time) *Proposal {
	now := time.Now()
	return &Proposal{
		RequestID:  requestID,
		Message:    message,
		Fee:        fee,
		ValidUntil: validUntil,
		Status:     ProposalSent,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate は提案の検証を行う
func (p *Proposal) Validate() error {
	if p.RequestID == "" {
		return ErrRequestIDRequired
	}
	if p.Fee < 0 {
		return ErrInvalidFee
	}
	if p.ValidUntil.Before(time.Now()) {
		return ErrValidityInPast
	}
	return nil
}

// IsExpired は提案の有効期限が切れているかを返す
func (p *Proposal) IsExpired() bool {
	return time.Now().After(p.ValidUntil)
}

// Accept は提案を承諾する
func (p *Proposal) Accept() error {
	if p.Status != ProposalSent {
		return ErrProposalNotSent
	}
	if p.IsExpired() {
		return ErrProposalExpired
	}
	p.Status = ProposalAccepted
	p.UpdatedAt = time.Now()
	return nil
}

// Decline は提案を辞退する
// 親依頼のキャンセルとは独立に実行できる
func (p *Proposal) Decline() error {
	if p.Status != ProposalSent {
		return ErrProposalNotSent
	}
	p.Status = ProposalDeclined
	p.UpdatedAt = time.Now()
	return nil
}

// Booking は承諾された見積依頼に対する予約を表す
// 1つの依頼につきキャンセルされていない予約は高々1件
type Booking struct {
	ID           string
	RequestID    string
	Status       BookingStatus
	ReservedAt   time.Time
	ConfirmedAt  *time.Time
	CancelledAt  *time.Time
	CancelReason *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewBooking は reserved 状態の予約を作成する
func NewBooking(requestID string) *Booking {
	now := time.Now()
	return &Booking{
		RequestID:  requestID,
		Status:     BookingReserved,
		ReservedAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Confirm は予約を確定する（対象出演者のみ）
func (b *Booking) Confirm() error {
	if b.Status == BookingCancelled {
		return ErrBookingCancelled
	}
	if b.Status != BookingReserved {
		return ErrBookingNotReserved
	}
	now := time.Now()
	b.Status = BookingConfirmed
	b.ConfirmedAt = &now
	b.UpdatedAt = now
	return nil
}

// Cancel は予約をキャンセルする
func (b *Booking) Cancel(reason string) error {
	if b.Status == BookingCancelled {
		return ErrBookingCancelled
	}
	now := time.Now()
	b.Status = BookingCancelled
	b.CancelledAt = &now
	b.CancelReason = &reason
	b.UpdatedAt = now
	return nil
}
