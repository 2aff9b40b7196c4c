package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-gig-booking/internal/application"
	"github.com/sanosuguru/go-gig-booking/internal/domain/rating"
)

type RatingHandler struct {
	ratingService RatingServiceInterface
}

func NewRatingHandler(ratingService RatingServiceInterface) *RatingHandler {
	return &RatingHandler{ratingService: ratingService}
}

type RecordRatingRequest struct {
	EventID     string `json:"event_id" validate:"required"`
	PerformerID string `json:"performer_id" validate:"required"`
	Score       int    `json:"score" validate:"required,min=1,max=5" example:"4"`
	Comment     string `json:"comment" example:"演奏も進行も素晴らしかった"`
}

type RatingResponse struct {
	ID          string `json:"id"`
	EventID     string `json:"event_id"`
	PerformerID string `json:"performer_id"`
	RaterID     string `json:"rater_id"`
	Score       int    `json:"score" example:"4"`
	Comment     string `json:"comment,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func toRatingResponse(r *rating.Rating) *RatingResponse {
	return &RatingResponse{
		ID:          r.ID,
		EventID:     r.EventID,
		PerformerID: r.PerformerID,
		RaterID:     r.RaterID,
		Score:       r.Score,
		Comment:     r.Comment,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
}

// Record godoc
// @Summary 評価を登録
// @Description 終了済みイベントの参加者が出演者を評価します
// @Tags ratings
// @Accept json
// @Produce json
// @Param X-Actor-ID header string true "評価者のID"
// @Param request body RecordRatingRequest true "評価内容"
// @Success 201 {object} RatingResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /ratings [post]
func (h *RatingHandler) Record(c echo.Context) error {
	actor, ok := requireActor(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-Actor-IDヘッダーは必須です"})
	}

	var req RecordRatingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	r, err := h.ratingService.RecordRating(c.Request().Context(), application.RecordRatingInput{
		EventID:     req.EventID,
		PerformerID: req.PerformerID,
		RaterID:     actor,
		Score:       req.Score,
		Comment:     req.Comment,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toRatingResponse(r))
}

// Delete godoc
// @Summary 評価を削除
// @Description 評価者本人のみ削除できます。削除後に集計を再計算します
// @Tags ratings
// @Param X-Actor-ID header string true "評価者のID"
// @Param id path string true "評価ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Router /ratings/{id} [delete]
func (h *RatingHandler) Delete(c echo.Context) error {
	actor, ok := requireActor(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "X-Actor-IDヘッダーは必須です"})
	}
	if err := h.ratingService.DeleteRating(c.Request().Context(), c.Param("id"), actor); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListByPerformer godoc
// @Summary 出演者の評価一覧を取得
// @Tags ratings
// @Produce json
// @Param performer_id path string true "出演者ID"
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} RatingResponse
// @Router /performers/{performer_id}/ratings [get]
func (h *RatingHandler) ListByPerformer(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	ratings, err := h.ratingService.ListPerformerRatings(c.Request().Context(), c.Param("performer_id"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	responses := make([]*RatingResponse, len(ratings))
	for i, r := range ratings {
		responses[i] = toRatingResponse(r)
	}
	return c.JSON(http.StatusOK, responses)
}
