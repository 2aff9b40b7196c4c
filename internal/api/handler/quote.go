package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-gig-booking/internal/application"
	"github.com/sanosuguru/go-gig-booking/internal/domain/quote"
)

type QuoteHandler struct {
	quoteService QuoteServiceInterface
}

func NewQuoteHandler(quoteService QuoteServiceInterface) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

type CreateQuoteRequestRequest struct {
	PerformerID     string `json:"performer_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	EventDate       string `json:"event_date" validate:"required" example:"2026-11-15"`
	EventType       string `json:"event_type" validate:"required" example:"wedding"`
	Location        string `json:"location" example:"表参道テラス"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=1" example:"90"`
}

type SubmitProposalRequest struct {
	Message    string `json:"message" example:"アコースティック編成で対応します"`
	Fee        int    `json:"fee" validate:"required,min=1" example:"80000"`
	ValidUntil string `json:"valid_until" validate:"required" example:"2026-11-01T00:00:00+09:00"`
}

type AcceptProposalRequest struct {
	ProposalID string `json:"proposal_id" validate:"required"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" example:"会場都合で中止になりました"`
}

type QuoteRequestResponse struct {
	ID              string `json:"id"`
	OrganizerID     string `json:"organizer_id"`
	PerformerID     string `json:"performer_id"`
	EventDate       string `json:"event_date" example:"2026-11-15"`
	EventType       string `json:"event_type" example:"wedding"`
	Location        string `json:"location"`
	DurationMinutes int    `json:"duration_minutes" example:"90"`
	Status          string `json:"status" example:"pending"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

func toQuoteRequestResponse(r *quote.Request) *QuoteRequestResponse {
	return &QuoteRequestResponse{
		ID:              r.ID,
		OrganizerID:     r.OrganizerID,
		PerformerID:     r.PerformerID,
		EventDate:       r.EventDate.Format("2006-01-02"),
		EventType:       r.EventType,
		Location:        r.Location,
		DurationMinutes: r.DurationMinutes,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt.Format(time.RFC3339),
	}
}

type ProposalResponse struct {
	ID         string `json:"id"`
	RequestID  string `json:"request_id"`
	Message    string `json:"message,omitempty"`
	Fee        int    `json:"fee" example:"80000"`
	ValidUntil string `json:"valid_until"`
	Status     string `json:"status" example:"sent"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func toProposalResponse(p *quote.Proposal) *ProposalResponse {
	return &ProposalResponse{
		ID:         p.ID,
		RequestID:  p.RequestID,
		Message:    p.Message,
		Fee:        p.Fee,
		ValidUntil: p.ValidUntil.Format(time.RFC3339),
		Status:     string(p.Status),
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  p.UpdatedAt.Format(time.RFC3339),
	}
}

type BookingResponse struct {
	ID           string  `json:"id"`
	RequestID    string  `json:"request_id"`
	Status       string  `json:"status" example:"reserved"`
	ReservedAt   string  `json:"reserved_at"`
	ConfirmedAt  *string `json:"confirmed_at,omitempty"`
	CancelledAt  *string `json:"cancelled_at,omitempty"`
	CancelReason *string `json:"cancel_reason,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func toBookingResponse(b *quote.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:           b.ID,
		RequestID:    b.RequestID,
		Status:       string(b.Status),
		ReservedAt:   b.ReservedAt.Format(time.RFC3339),
		CancelReason: b.CancelReason,
		CreatedAt:    b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    b.UpdatedAt.Format(time.RFC3339),
	}
	if b.ConfirmedAt != nil {
		s := b.ConfirmedAt.Format(time.RFC3339)
		resp.ConfirmedAt = &s
	}
	if b.CancelledAt != nil {
		s := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &s
	}
	return resp
}

// CreateRequest godoc
// @Summary 見積依頼を作成
// @Tags quotes
// @Accept json
// @Produce json
// @Param X-Actor-ID header string true "主催者ID"
// @Param request body CreateQuoteRequestRequest true "見積依頼情報"
// @Success 201 {object} QuoteRequestResponse
// @Failure 400 {object} map[string]string
// @Router /quotes [post]
func (h *QuoteHandler) CreateRequest(c echo.Context) error {
	actor, ok := requireActor(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-Actor-IDヘッダーは必須です"})
	}

	var req CreateQuoteRequestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "日付の形式が不正です（YYYY-MM-DD）"})
	}

	r, err := h.quoteService.CreateRequest(c.Request().Context(), application.CreateRequestInput{
		OrganizerID:     actor,
		PerformerID:     req.PerformerID,
		EventDate:       eventDate,
		EventType:       req.EventType,
		Location:        req.Location,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toQuoteRequestResponse(r))
}

// GetRequest godoc
// @Summary 見積依頼を取得
// @Tags quotes
// @Produce json
// @Param id path string true "見積依頼ID"
// @Success 200 {object} QuoteRequestResponse
// @Failure 404 {object} map[string]string
// @Router /quotes/{id} [get]
func (h *QuoteHandler) GetRequest(c echo.Context) error {
	r, err := h.quoteService.GetRequest(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toQuoteRequestResponse(r))
}

// ListRequests godoc
// @Summary 見積依頼一覧を取得
// @Description role=performer を指定すると出演者として受けた依頼を返します
// @Tags quotes
// @Produce json
// @Param X-Actor-ID header string true "操作主体のID"
// @Param role query string false "organizer または performer" default(organizer)
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} QuoteRequestResponse
// @Router /quotes [get]
func (h *QuoteHandler) ListRequests(c echo.Context) error {
	actor, ok := requireActor(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-Actor-IDヘッダーは必須です"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	var (
		requests []*quote.Request
		err      error
	)
	if c.QueryParam("role") == "performer" {
		requests, err = h.quoteService.ListRequestsByPerformer(c.Request().Context(), actor, limit, offset)
	} else {
		requests, err = h.quoteService.ListRequestsByOrganizer(c.Request().Context(), actor, limit, offset)
	}
	if err != nil {
		return respondError(c, err)
	}
	responses := make([]*QuoteRequestResponse, len(requests))
	for i, r := range requests {
		responses[i] = toQuoteRequestResponse(r)
	}
	return c.JSON(http.StatusOK, responses)
}

// SubmitProposal godoc
// @Summary 提案を提出
// @Description 対象出演者が見積依頼に提案を提出します
// @Tags quotes
// @Accept json
// @Produce json
// @Param X-Actor-ID header string true "出演者ID"
// @Param id path string true "見積依頼ID"
// @Param request body SubmitProposalRequest true "提案内容"
// @Success 201 {object} ProposalResponse
// @Failure 403 {object} map[string]string
// @Router /quotes/{id}/proposals [post]
func (h *QuoteHandler) SubmitProposal(c echo.Context) error {
	actor, ok := requireActor(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-Actor-IDヘッダーは必須です"})
	}

	var req SubmitProposalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	validUntil, err := time.Parse(time.RFC3339, req.ValidUntil)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "有効期限の形式が不正です（RFC3339）"})
	}

	p, err := h.quoteService.SubmitProposal(c.Request().Context(), application.SubmitProposalInput{
		RequestID:   c.Param("id"),
		PerformerID: actor,
		Message:     req.Message,
		Fee:         req.Fee,
		ValidUntil:  validUntil,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toProposalResponse(p))
}

// ListProposals godoc
// @Summary 提案一覧を取得
// @Tags quotes
// @Produce json
// @Param id path string true "見積依頼ID"
// @Success 200 {array} ProposalResponse
// @Router /quotes/{id}/proposals [get]
func (h *QuoteHandler) ListProposals(c echo.Context) error {
	proposals, err := h.quoteService.ListProposals(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	responses := make([]*ProposalResponse, len(proposals))
	for i, p := range proposals {
		responses[i] = toProposalResponse(p)
	}
	return c.JSON(http.StatusOK, responses)
}

// AcceptProposal godoc
// @Summary 提案を承諾して予約を作成
// @Description 主催者が提案を承諾し、reserved 状態の予約を作成します
// @Tags quotes
// @Accept json
// @Produce json
// @Param X-Actor-ID header string true "主催者ID"
// @Param id path string true "見積依頼ID"
// @Param request body AcceptProposalRequest true "承諾する提案"
// @Success 201 {object} BookingResponse
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /quotes/{id}/accept [post]
func (h *QuoteHandler) AcceptProposal(c echo.Context) error {
	actor, ok := requireActor(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-Actor-IDヘッダーは必須です"})
	}

	var req AcceptProposalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	b, err := h.quoteService.AcceptProposal(c.Request().Context(), application.AcceptProposalInput{
		RequestID:   c.Param("id"),
		ProposalID:  req.ProposalID,
		OrganizerID: actor,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

// DeclineProposal godoc
// @Summary 提案を辞退
// @Tags quotes
// @Produce json
// @Param X-Actor-ID header string true "主催者ID"
// @Param proposal_id path string true "提案ID"
// @Success 200 {object} ProposalResponse
// @Failure 403 {object} map[string]string
// @Router /proposals/{proposal_id}/decline [post]
func (h *QuoteHandler) DeclineProposal(c echo.Context) error {
	actor, ok := requireActor(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-Actor-IDヘッダーは必須です"})
	}
	p, err := h.quoteService.DeclineProposal(c.Request().Context(), c.Param("proposal_id"), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toProposalResponse(p))
}

// CancelRequest godoc
// @Summary 見積依頼をキャンセル
// @Description reserved / confirmed の依頼は予約側からキャンセルしてください
// @Tags quotes
// @Produce json
// @Param X-Actor-ID header string true "主催者ID"
// @Param id path string true "見積依頼ID"
// @Success 200 {object} QuoteRequestResponse
// @Failure 400 {object} map[string]string
// @Router /quotes/{id}/cancel [post]
func (h *QuoteHandler) CancelRequest(c echo.Context) error {
	actor, ok := requireActor(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-Actor-IDヘッダーは必須です"})
	}
	r, err := h.quoteService.CancelRequest(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toQuoteRequestResponse(r))
}

// GetBooking godoc
// @Summary 予約を取得
// @Tags bookings
// @Produce json
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *QuoteHandler) GetBooking(c echo.Context) error {
	b, err := h.quoteService.GetBooking(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// ConfirmBooking godoc
// @Summary 予約を確定
// @Description 出演者が reserved 状態の予約を確定します
// @Tags bookings
// @Produce json
// @Param X-Actor-ID header string true "出演者ID"
// @Param id path string true "予約ID"
// @Success 200 {object} BookingResponse
// @Failure 403 {object} map[string]string
// @Router /bookings/{id}/confirm [post]
func (h *QuoteHandler) ConfirmBooking(c echo.Context) error {
	actor, ok := requireActor(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-Actor-IDヘッダーは必須です"})
	}
	b, err := h.quoteService.ConfirmBooking(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}

// CancelBooking godoc
// @Summary 予約をキャンセル
// @Description 予約と見積依頼の両方をキャンセルします（主催者・出演者いずれも可）
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-Actor-ID header string true "操作主体のID"
// @Param id path string true "予約ID"
// @Param request body CancelBookingRequest true "キャンセル理由"
// @Success 200 {object} BookingResponse
// @Failure 403 {object} map[string]string
// @Router /bookings/{id}/cancel [post]
func (h *QuoteHandler) CancelBooking(c echo.Context) error {
	actor, ok := requireActor(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-Actor-IDヘッダーは必須です"})
	}
	var req CancelBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
	}
	b, err := h.quoteService.CancelBooking(c.Request().Context(), c.Param("id"), actor, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResponse(b))
}
