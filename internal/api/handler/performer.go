package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-gig-booking/internal/application"
	"github.com/sanosuguru/go-gig-booking/internal/domain/performer"
)

type PerformerHandler struct {
	performerService PerformerServiceInterface
}

func NewPerformerHandler(performerService PerformerServiceInterface) *PerformerHandler {
	return &PerformerHandler{performerService: performerService}
}

type CreatePerformerRequest struct {
	Name  string `json:"name" validate:"required" example:"The Midnight Echoes"`
	Genre string `json:"genre" example:"rock"`
}

type UpdatePerformerRequest struct {
	Name  string `json:"name" validate:"required" example:"The Midnight Echoes"`
	Genre string `json:"genre" example:"rock"`
}

type PerformerResponse struct {
	ID            string  `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name          string  `json:"name" example:"The Midnight Echoes"`
	Genre         string  `json:"genre" example:"rock"`
	Active        bool    `json:"active"`
	AverageRating float64 `json:"average_rating" example:"4.5"`
	TotalRatings  int     `json:"total_ratings" example:"12"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func toPerformerResponse(p *performer.Performer) *PerformerResponse {
	return &PerformerResponse{
		ID:            p.ID,
		Name:          p.Name,
		Genre:         p.Genre,
		Active:        p.Active,
		AverageRating: p.AverageRating,
		TotalRatings:  p.TotalRatings,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     p.UpdatedAt.Format(time.RFC3339),
	}
}

// Create godoc
// @Summary 出演者を登録
// @Tags performers
// @Accept json
// @Produce json
// @Param request body CreatePerformerRequest true "出演者情報"
// @Success 201 {object} PerformerResponse
// @Failure 400 {object} map[string]string
// @Router /performers [post]
func (h *PerformerHandler) Create(c echo.Context) error {
	var req CreatePerformerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	p, err := h.performerService.CreatePerformer(c.Request().Context(), application.CreatePerformerInput{
		Name:  req.Name,
		Genre: req.Genre,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toPerformerResponse(p))
}

// GetByID godoc
// @Summary 出演者を取得
// @Tags performers
// @Produce json
// @Param id path string true "出演者ID"
// @Success 200 {object} PerformerResponse
// @Failure 404 {object} map[string]string
// @Router /performers/{id} [get]
func (h *PerformerHandler) GetByID(c echo.Context) error {
	p, err := h.performerService.GetPerformer(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toPerformerResponse(p))
}

// List godoc
// @Summary 出演者一覧を取得
// @Tags performers
// @Produce json
// @Param limit query int false "取得件数" default(20)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} PerformerResponse
// @Router /performers [get]
func (h *PerformerHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	performers, err := h.performerService.ListPerformers(c.Request().Context(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	responses := make([]*PerformerResponse, len(performers))
	for i, p := range performers {
		responses[i] = toPerformerResponse(p)
	}
	return c.JSON(http.StatusOK, responses)
}

// Update godoc
// @Summary 出演者情報を更新
// @Tags performers
// @Accept json
// @Produce json
// @Param id path string true "出演者ID"
// @Param request body UpdatePerformerRequest true "出演者情報"
// @Success 200 {object} PerformerResponse
// @Failure 404 {object} map[string]string
// @Router /performers/{id} [put]
func (h *PerformerHandler) Update(c echo.Context) error {
	var req UpdatePerformerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "リクエストの形式が不正です"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	p, err := h.performerService.UpdatePerformer(c.Request().Context(), application.UpdatePerformerInput{
		ID:    c.Param("id"),
		Name:  req.Name,
		Genre: req.Genre,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toPerformerResponse(p))
}

// Deactivate godoc
// @Summary 出演者を非アクティブ化
// @Description 非アクティブな出演者は新規の見積依頼の対象にできません
// @Tags performers
// @Produce json
// @Param id path string true "出演者ID"
// @Success 200 {object} PerformerResponse
// @Failure 404 {object} map[string]string
// @Router /performers/{id}/deactivate [post]
func (h *PerformerHandler) Deactivate(c echo.Context) error {
	p, err := h.performerService.DeactivatePerformer(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toPerformerResponse(p))
}
