package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sanosuguru/go-gig-booking/internal/domain/availability"
	"github.com/sanosuguru/go-gig-booking/internal/domain/quote"
)

func TestHealthHandler_Check(t *testing.T) {
	// Setup
	e := NewTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHealthHandler()

	// Act
	err := h.Check(c)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.Contains(t, rec.Body.String(), `"service":"gig-booking-api"`)
	assert.Contains(t, rec.Body.String(), `"timestamp"`)
}

func TestNewHealthHandler(t *testing.T) {
	h := NewHealthHandler()
	assert.NotNil(t, h)
}

func TestToWindowResponse(t *testing.T) {
	now := time.Now()
	parentID := "window-parent"
	w := &availability.Window{
		ID:          "window-123",
		PerformerID: "performer-456",
		Date:        now,
		StartAt:     now,
		EndAt:       now.Add(3 * time.Hour),
		Visibility:  availability.VisibilityPublic,
		Note:        "夜間のみ",
		Active:      true,
		ParentID:    &parentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	resp := toWindowResponse(w)

	assert.Equal(t, w.ID, resp.ID)
	assert.Equal(t, w.PerformerID, resp.PerformerID)
	assert.Equal(t, w.Date.Format("2006-01-02"), resp.Date)
	assert.Equal(t, w.StartAt.Format(time.RFC3339), resp.StartAt)
	assert.Equal(t, w.EndAt.Format(time.RFC3339), resp.EndAt)
	assert.Equal(t, string(w.Visibility), resp.Visibility)
	assert.Equal(t, w.Note, resp.Note)
	assert.True(t, resp.Active)
	assert.Equal(t, &parentID, resp.ParentID)
}

func TestToBookingResponse(t *testing.T) {
	now := time.Now()
	confirmedAt := now.Add(1 * time.Hour)
	b := &quote.Booking{
		ID:          "booking-123",
		RequestID:   "req-456",
		Status:      quote.BookingConfirmed,
		ReservedAt:  now,
		ConfirmedAt: &confirmedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	resp := toBookingResponse(b)

	assert.Equal(t, b.ID, resp.ID)
	assert.Equal(t, b.RequestID, resp.RequestID)
	assert.Equal(t, string(b.Status), resp.Status)
	assert.Equal(t, b.ReservedAt.Format(time.RFC3339), resp.ReservedAt)
	if assert.NotNil(t, resp.ConfirmedAt) {
		assert.Equal(t, confirmedAt.Format(time.RFC3339), *resp.ConfirmedAt)
	}
	assert.Nil(t, resp.CancelledAt)
}
