package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-gig-booking/internal/application"
	"github.com/sanosuguru/go-gig-booking/internal/domain/event"
)

type EventHandler struct {
	eventService EventServiceInterface
}

func NewEventHandler(eventService EventServiceInterface) *EventHandler {
	return &EventHandler{eventService: eventService}
}

type CreateEventRequest struct {
	Title      string   `json:"title" validate:"required" example:"下北沢ナイトセッション"`
	Location   string   `json:"location" example:"下北沢SHELTER"`
	Date       string   `json:"date" validate:"required" example:"2026-10-01"`
	Start      string   `json:"start" validate:"required" example:"19:00"`
	End        string   `json:"end" validate:"required" example:"21:00"`
	IsSolo     bool     `json:"is_solo"`
	IsPrivate  bool     `json:"is_private"`
	InviteeIDs []string `json:"invitee_ids"`
}

type RespondRequest struct {
	Decision string `json:"decision" validate:"required,oneof=available unavailable" example:"available"`
	Note     string `json:"note" example:"機材は持参します"`
}

type RejectEventRequest struct {
	Reason string `json:"reason" example:"会場が確保できませんでした"`
}

type EventResponse struct {
	ID           string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	CreatorID    string  `json:"creator_id"`
	Title        string  `json:"title" example:"下北沢ナイトセッション"`
	Location     string  `json:"location" example:"下北沢SHELTER"`
	Date         string  `json:"date" example:"2026-10-01"`
	StartAt      string  `json:"start_at" example:"2026-10-01T19:00:00+09:00"`
	EndAt        string  `json:"end_at" example:"2026-10-01T21:00:00+09:00"`
	IsSolo       bool    `json:"is_solo"`
	IsPrivate    bool    `json:"is_private"`
	Status       string  `json:"status" example:"proposed"`
	ConfirmedBy  *string `json:"confirmed_by,omitempty"`
	ConfirmedAt  *string `json:"confirmed_at,omitempty"`
	RejectReason *string `json:"reject_reason,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func toEventResponse(e *event.Event) *EventResponse {
	resp := &EventResponse{
		ID:           e.ID,
		CreatorID:    e.CreatorID,
		Title:        e.Title,
		Location:     e.Location,
		Date:         e.Date.Format("2006-01-02"),
		StartAt:      e.StartAt.Format(time.RFC3339),
		EndAt:        e.EndAt.Format(time.RFC3339),
		IsSolo:       e.IsSolo,
		IsPrivate:    e.IsPrivate,
		Status:       string(e.Status),
		ConfirmedBy:  e.ConfirmedBy,
		RejectReason: e.RejectReason,
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    e.UpdatedAt.Format(time.RFC3339),
	}
	if e.ConfirmedAt != nil {
		s := e.ConfirmedAt.Format(time.RFC3339)
		resp.ConfirmedAt = &s
	}
	return resp
}

type InvitationResponse struct {
	ID          string  `json:"id"`
	EventID     string  `json:"event_id"`
	PerformerID string  `json:"performer_id"`
	Response    string  `json:"response" example:"pending"`
	Note        string  `json:"note,omitempty"`
	RespondedAt *string `json:"responded_at,omitempty"`
}

func toInvitationResponse(inv *event.Invitation) *InvitationResponse {
	resp := &InvitationResponse{
		ID:          inv.ID,
		EventID:     inv.EventID,
		PerformerID: inv.PerformerID,
		Response:    string(inv.Response),
		Note:        inv.Note,
	}
	if inv.RespondedAt != nil {
		s := inv.RespondedAt.Format(time.RFC3339)
		resp.RespondedAt = &s
	}
	return resp
}

type HistoryEntryResponse struct {
	ID          string `json:"id"`
	EventID     string `json:"event_id"`
	ActorID     string `json:"actor_id"`
	Action      string `json:"action" example:"status_changed"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// Create godoc
// @Summary イベントを作成
// @Description 新しいイベントと招待を作成します
// @Tags events
// @Accept json
// @Produce json
// @Param X-Actor-ID header string true "操作主体の出演者ID"
// @Param request body CreateEventRequest true "イベント情報"
// @Success 201 {object} EventResponse
// @Failure 400 {object} map[string]string
// @Router /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	actor, ok := requireActor(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-Actor-IDヘッダーは必須です"})
	}

	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "日付の形式が不正です（YYYY-MM-DD）"})
	}

	input := application.CreateEventInput{
		CreatorID:  actor,
		Title:      req.Title,
		Location:   req.Location,
		Date:       date,
		Start:      req.Start,
		End:        req.End,
		IsSolo:     req.IsSolo,
		IsPrivate:  req.IsPrivate,
		InviteeIDs: req.InviteeIDs,
	}

	e, err := h.eventService.CreateEvent(c.Request().Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toEventResponse(e))
}

// GetByID godoc
// @Summary イベントを取得
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} map[string]string
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(c echo.Context) error {
	e, err := h.eventService.GetEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// List godoc
// @Summary 参加イベント一覧を取得
// @Description 操作主体が作成または招待されたイベントの一覧を取得します
// @Tags events
// @Produce json
// @Param X-Actor-ID header string true "操作主体の出演者ID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} EventResponse
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	actor, ok := requireActor(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-Actor-IDヘッダーは必須です"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	events, err := h.eventService.ListEventsByParticipant(c.Request().Context(), actor, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	responses := make([]*EventResponse, len(events))
	for i, e := range events {
		responses[i] = toEventResponse(e)
	}
	return c.JSON(http.StatusOK, responses)
}

// Respond godoc
// @Summary 招待に回答
// @Description 招待に回答し、イベントの確定状態を再計算します
// @Tags events
// @Accept json
// @Produce json
// @Param X-Actor-ID header string true "操作主体の出演者ID"
// @Param id path string true "イベントID"
// @Param request body RespondRequest true "回答内容"
// @Success 200 {object} EventResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /events/{id}/respond [post]
func (h *EventHandler) Respond(c echo.Context) error {
	actor, ok := requireActor(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-Actor-IDヘッダーは必須です"})
	}

	var req RespondRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	e, err := h.eventService.Respond(c.Request().Context(), application.RespondInput{
		EventID:     c.Param("id"),
		PerformerID: actor,
		Decision:    event.Response(req.Decision),
		Note:        req.Note,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// Cancel godoc
// @Summary イベントをキャンセル
// @Tags events
// @Produce json
// @Param X-Actor-ID header string true "操作主体の出演者ID"
// @Param id path string true "イベントID"
// @Success 200 {object} EventResponse
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /events/{id}/cancel [post]
func (h *EventHandler) Cancel(c echo.Context) error {
	actor, ok := requireActor(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-Actor-IDヘッダーは必須です"})
	}
	e, err := h.eventService.CancelEvent(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// Delete godoc
// @Summary イベントを削除
// @Tags events
// @Param X-Actor-ID header string true "操作主体の出演者ID"
// @Param id path string true "イベントID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	actor, ok := requireActor(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-Actor-IDヘッダーは必須です"})
	}
	if err := h.eventService.DeleteEvent(c.Request().Context(), c.Param("id"), actor); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Reject godoc
// @Summary イベントを却下
// @Tags events
// @Accept json
// @Produce json
// @Param X-Actor-ID header string true "操作主体の出演者ID"
// @Param id path string true "イベントID"
// @Param request body RejectEventRequest true "却下理由"
// @Success 200 {object} EventResponse
// @Failure 403 {object} map[string]string
// @Router /events/{id}/reject [post]
func (h *EventHandler) Reject(c echo.Context) error {
	actor, ok := requireActor(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-Actor-IDヘッダーは必須です"})
	}
	var req RejectEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
	}
	e, err := h.eventService.RejectEvent(c.Request().Context(), c.Param("id"), actor, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// Invitations godoc
// @Summary 招待一覧を取得
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {array} InvitationResponse
// @Router /events/{id}/invitations [get]
func (h *EventHandler) Invitations(c echo.Context) error {
	invitations, err := h.eventService.GetInvitations(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	responses := make([]*InvitationResponse, len(invitations))
	for i, inv := range invitations {
		responses[i] = toInvitationResponse(inv)
	}
	return c.JSON(http.StatusOK, responses)
}

// History godoc
// @Summary 状態遷移履歴を取得
// @Tags events
// @Produce json
// @Param id path string true "イベントID"
// @Success 200 {array} HistoryEntryResponse
// @Router /events/{id}/history [get]
func (h *EventHandler) History(c echo.Context) error {
	entries, err := h.eventService.GetHistory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	responses := make([]*HistoryEntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = &HistoryEntryResponse{
			ID:          entry.ID,
			EventID:     entry.EventID,
			ActorID:     entry.ActorID,
			Action:      entry.Action,
			Description: entry.Description,
			CreatedAt:   entry.CreatedAt.Format(time.RFC3339),
		}
	}
	return c.JSON(http.StatusOK, responses)
}
