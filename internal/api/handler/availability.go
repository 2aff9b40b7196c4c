package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-gig-booking/internal/application"
	"github.com/sanosuguru/go-gig-booking/internal/domain/availability"
)

type AvailabilityHandler struct {
	availabilityService AvailabilityServiceInterface
}

func NewAvailabilityHandler(availabilityService AvailabilityServiceInterface) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityService: availabilityService}
}

type DeclareWindowRequest struct {
	Date       string `json:"date" validate:"required" example:"2026-10-01"`
	Start      string `json:"start" validate:"required" example:"18:00"`
	End        string `json:"end" validate:"required" example:"23:00"`
	Visibility string `json:"visibility" validate:"omitempty,oneof=public private" example:"public"`
	Note       string `json:"note" example:"終電まで対応可"`
}

type UpdateWindowRequest struct {
	Start      string `json:"start" validate:"required" example:"18:00"`
	End        string `json:"end" validate:"required" example:"23:00"`
	Visibility string `json:"visibility" validate:"omitempty,oneof=public private" example:"public"`
	Note       string `json:"note"`
}

type WindowResponse struct {
	ID          string  `json:"id"`
	PerformerID string  `json:"performer_id"`
	Date        string  `json:"date" example:"2026-10-01"`
	StartAt     string  `json:"start_at" example:"2026-10-01T18:00:00+09:00"`
	EndAt       string  `json:"end_at" example:"2026-10-01T23:00:00+09:00"`
	Visibility  string  `json:"visibility" example:"public"`
	Note        string  `json:"note,omitempty"`
	Active      bool    `json:"active"`
	ParentID    *string `json:"parent_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func toWindowResponse(w *availability.Window) *WindowResponse {
	return &WindowResponse{
		ID:          w.ID,
		PerformerID: w.PerformerID,
		Date:        w.Date.Format("2006-01-02"),
		StartAt:     w.StartAt.Format(time.RFC3339),
		EndAt:       w.EndAt.Format(time.RFC3339),
		Visibility:  string(w.Visibility),
		Note:        w.Note,
		Active:      w.Active,
		ParentID:    w.ParentID,
		CreatedAt:   w.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   w.UpdatedAt.Format(time.RFC3339),
	}
}

func toWindowResponses(windows []*availability.Window) []*WindowResponse {
	responses := make([]*WindowResponse, len(windows))
	for i, w := range windows {
		responses[i] = toWindowResponse(w)
	}
	return responses
}

// Declare godoc
// @Summary 空き枠を宣言
// @Description 空き枠を宣言します。既存イベントと競合する場合は分割された子枠を返します
// @Tags availability
// @Accept json
// @Produce json
// @Param X-Actor-ID header string true "操作主体の出演者ID"
// @Param request body DeclareWindowRequest true "空き枠情報"
// @Success 201 {array} WindowResponse
// @Failure 400 {object} map[string]string
// @Router /availability/windows [post]
func (h *AvailabilityHandler) Declare(c echo.Context) error {
	actor, ok := requireActor(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-Actor-IDヘッダーは必須です"})
	}

	var req DeclareWindowRequest
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

	visibility := availability.VisibilityPublic
	if req.Visibility != "" {
		visibility = availability.Visibility(req.Visibility)
	}

	windows, err := h.availabilityService.DeclareWindow(c.Request().Context(), application.DeclareWindowInput{
		PerformerID: actor,
		Date:        date,
		Start:       req.Start,
		End:         req.End,
		Visibility:  visibility,
		Note:        req.Note,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toWindowResponses(windows))
}

// Update godoc
// @Summary 空き枠を更新
// @Description 空き枠を更新します（所有者のみ）。競合評価と分割を再実行します
// @Tags availability
// @Accept json
// @Produce json
// @Param X-Actor-ID header string true "操作主体の出演者ID"
// @Param id path string true "空き枠ID"
// @Param request body UpdateWindowRequest true "空き枠情報"
// @Success 200 {array} WindowResponse
// @Failure 403 {object} map[string]string
// @Router /availability/windows/{id} [put]
func (h *AvailabilityHandler) Update(c echo.Context) error {
	actor, ok := requireActor(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-Actor-IDヘッダーは必須です"})
	}

	var req UpdateWindowRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	visibility := availability.VisibilityPublic
	if req.Visibility != "" {
		visibility = availability.Visibility(req.Visibility)
	}

	windows, err := h.availabilityService.UpdateWindow(c.Request().Context(), application.UpdateWindowInput{
		WindowID:   c.Param("id"),
		ActorID:    actor,
		Start:      req.Start,
		End:        req.End,
		Visibility: visibility,
		Note:       req.Note,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toWindowResponses(windows))
}

// Delete godoc
// @Summary 空き枠を削除
// @Tags availability
// @Param X-Actor-ID header string true "操作主体の出演者ID"
// @Param id path string true "空き枠ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Router /availability/windows/{id} [delete]
func (h *AvailabilityHandler) Delete(c echo.Context) error {
	actor, ok := requireActor(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-Actor-IDヘッダーは必須です"})
	}
	if err := h.availabilityService.DeleteWindow(c.Request().Context(), c.Param("id"), actor); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// List godoc
// @Summary 出演者の空き枠一覧を取得
// @Description 所有者以外にはpublicな枠のみ返します
// @Tags availability
// @Produce json
// @Param performer_id path string true "出演者ID"
// @Param X-Actor-ID header string false "閲覧者の出演者ID"
// @Success 200 {array} WindowResponse
// @Router /performers/{performer_id}/windows [get]
func (h *AvailabilityHandler) List(c echo.Context) error {
	windows, err := h.availabilityService.ListWindows(c.Request().Context(), c.Param("performer_id"), actorID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toWindowResponses(windows))
}

// ProbeConflicts godoc
// @Summary 時間帯の競合を確認
// @Description 指定した時間帯と競合するイベントを返します（40分バッファ込み）
// @Tags availability
// @Produce json
// @Param performer_id path string true "出演者ID"
// @Param date query string true "日付（YYYY-MM-DD）"
// @Param start query string true "開始時刻（HH:MM）"
// @Param end query string true "終了時刻（HH:MM）"
// @Success 200 {array} EventResponse
// @Failure 400 {object} map[string]string
// @Router /performers/{performer_id}/conflicts [get]
func (h *AvailabilityHandler) ProbeConflicts(c echo.Context) error {
	date, err := time.Parse("2006-01-02", c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "日付の形式が不正です（YYYY-MM-DD）"})
	}

	events, err := h.availabilityService.ProbeConflicts(
		c.Request().Context(), c.Param("performer_id"), date, c.QueryParam("start"), c.QueryParam("end"))
	if err != nil {
		return respondError(c, err)
	}
	responses := make([]*EventResponse, len(events))
	for i, e := range events {
		responses[i] = toEventResponse(e)
	}
	return c.JSON(http.StatusOK, responses)
}

// Summary godoc
// @Summary 空き状況サマリを取得
// @Tags availability
// @Produce json
// @Param performer_id path string true "出演者ID"
// @Success 200 {object} redis.WindowSummary
// @Router /performers/{performer_id}/availability/summary [get]
func (h *AvailabilityHandler) Summary(c echo.Context) error {
	summary, err := h.availabilityService.Summary(c.Request().Context(), c.Param("performer_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
