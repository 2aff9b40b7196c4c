package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-gig-booking/internal/application"
	"github.com/sanosuguru/go-gig-booking/internal/domain/performer"
	"github.com/sanosuguru/go-gig-booking/internal/domain/quote"
	"github.com/sanosuguru/go-gig-booking/internal/domain/transaction"
)

// MockQuoteService はQuoteServiceInterfaceのモック
type MockQuoteService struct {
	mock.Mock
}

func (m *MockQuoteService) CreateRequest(ctx context.Context, input application.CreateRequestInput) (*quote.Request, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Request), args.Error(1)
}

func (m *MockQuoteService) SubmitProposal(ctx context.Context, input application.SubmitProposalInput) (*quote.Proposal, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Proposal), args.Error(1)
}

func (m *MockQuoteService) AcceptProposal(ctx context.Context, input application.AcceptProposalInput) (*quote.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Booking), args.Error(1)
}

func (m *MockQuoteService) DeclineProposal(ctx context.Context, proposalID, organizerID string) (*quote.Proposal, error) {
	args := m.Called(ctx, proposalID, organizerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Proposal), args.Error(1)
}

func (m *MockQuoteService) ConfirmBooking(ctx context.Context, bookingID, actorID string) (*quote.Booking, error) {
	args := m.Called(ctx, bookingID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Booking), args.Error(1)
}

func (m *MockQuoteService) CancelRequest(ctx context.Context, requestID, actorID string) (*quote.Request, error) {
	args := m.Called(ctx, requestID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Request), args.Error(1)
}

func (m *MockQuoteService) CancelBooking(ctx context.Context, bookingID, actorID, reason string) (*quote.Booking, error) {
	args := m.Called(ctx, bookingID, actorID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Booking), args.Error(1)
}

func (m *MockQuoteService) GetRequest(ctx context.Context, id string) (*quote.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Request), args.Error(1)
}

func (m *MockQuoteService) ListRequestsByOrganizer(ctx context.Context, organizerID string, limit, offset int) ([]*quote.Request, error) {
	args := m.Called(ctx, organizerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*quote.Request), args.Error(1)
}

func (m *MockQuoteService) ListRequestsByPerformer(ctx context.Context, performerID string, limit, offset int) ([]*quote.Request, error) {
	args := m.Called(ctx, performerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*quote.Request), args.Error(1)
}

func (m *MockQuoteService) ListProposals(ctx context.Context, requestID string) ([]*quote.Proposal, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*quote.Proposal), args.Error(1)
}

func (m *MockQuoteService) GetBooking(ctx context.Context, id string) (*quote.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Booking), args.Error(1)
}

func fixtureRequest(status quote.RequestStatus) *quote.Request {
	now := time.Now()
	return &quote.Request{
		ID:              "request-123",
		OrganizerID:     "organizer-1",
		PerformerID:     "performer-1",
		EventDate:       now.AddDate(0, 1, 0),
		EventType:       "wedding",
		Location:        "表参道テラス",
		DurationMinutes: 90,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestQuoteHandler_CreateRequest(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に見積依頼を作成できる", func(t *testing.T) {
		mockService := new(MockQuoteService)
		mockService.On("CreateRequest", mock.Anything, mock.AnythingOfType("application.CreateRequestInput")).
			Return(fixtureRequest(quote.RequestPending), nil)

		handler := NewQuoteHandler(mockService)

		reqBody := `{
			"performer_id": "performer-1",
			"event_date": "2026-11-15",
			"event_type": "wedding",
			"location": "表参道テラス",
			"duration_minutes": 90
		}`
		req := httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("X-Actor-ID", "organizer-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.CreateRequest(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp QuoteRequestResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "request-123", resp.ID)
		assert.Equal(t, "pending", resp.Status)

		mockService.AssertExpectations(t)
	})

	t.Run("非アクティブな出演者への依頼は失敗する", func(t *testing.T) {
		mockService := new(MockQuoteService)
		mockService.On("CreateRequest", mock.Anything, mock.AnythingOfType("application.CreateRequestInput")).
			Return(nil, performer.ErrPerformerInactive)

		handler := NewQuoteHandler(mockService)

		reqBody := `{
			"performer_id": "performer-1",
			"event_date": "2026-11-15",
			"event_type": "wedding",
			"duration_minutes": 90
		}`
		req := httptest.NewRequest(http.MethodPost, "/quotes", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("X-Actor-ID", "organizer-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.CreateRequest(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestQuoteHandler_SubmitProposal(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に提案を提出できる", func(t *testing.T) {
		mockService := new(MockQuoteService)
		now := time.Now()
		proposal := &quote.Proposal{
			ID:         "proposal-123",
			RequestID:  "request-123",
			Message:    "アコースティック編成で対応します",
			Fee:        80000,
			ValidUntil: now.AddDate(0, 0, 14),
			Status:     quote.ProposalSent,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		mockService.On("SubmitProposal", mock.Anything, mock.AnythingOfType("application.SubmitProposalInput")).
			Return(proposal, nil)

		handler := NewQuoteHandler(mockService)

		reqBody := `{
			"message": "アコースティック編成で対応します",
			"fee": 80000,
			"valid_until": "2026-11-01T00:00:00+09:00"
		}`
		req := httptest.NewRequest(http.MethodPost, "/quotes/request-123/proposals", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("X-Actor-ID", "performer-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("request-123")

		err := handler.SubmitProposal(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp ProposalResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "proposal-123", resp.ID)
		assert.Equal(t, 80000, resp.Fee)

		mockService.AssertExpectations(t)
	})

	t.Run("対象出演者以外は403", func(t *testing.T) {
		mockService := new(MockQuoteService)
		mockService.On("SubmitProposal", mock.Anything, mock.AnythingOfType("application.SubmitProposalInput")).
			Return(nil, quote.ErrNotTargetPerformer)

		handler := NewQuoteHandler(mockService)

		reqBody := `{"fee": 80000, "valid_until": "2026-11-01T00:00:00+09:00"}`
		req := httptest.NewRequest(http.MethodPost, "/quotes/request-123/proposals", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("X-Actor-ID", "other-performer")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("request-123")

		err := handler.SubmitProposal(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("不正な有効期限形式で400", func(t *testing.T) {
		mockService := new(MockQuoteService)
		handler := NewQuoteHandler(mockService)

		reqBody := `{"fee": 80000, "valid_until": "2026-11-01"}`
		req := httptest.NewRequest(http.MethodPost, "/quotes/request-123/proposals", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("X-Actor-ID", "performer-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("request-123")

		err := handler.SubmitProposal(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "SubmitProposal")
	})
}

func TestQuoteHandler_AcceptProposal(t *testing.T) {
	e := NewTestEcho()

	t.Run("正常に提案を承諾して予約を作成できる", func(t *testing.T) {
		mockService := new(MockQuoteService)
		now := time.Now()
		booking := &quote.Booking{
			ID:         "booking-123",
			RequestID:  "request-123",
			Status:     quote.BookingReserved,
			ReservedAt: now,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		mockService.On("AcceptProposal", mock.Anything, application.AcceptProposalInput{
			RequestID:   "request-123",
			ProposalID:  "proposal-123",
			OrganizerID: "organizer-1",
		}).Return(booking, nil)

		handler := NewQuoteHandler(mockService)

		reqBody := `{"proposal_id": "proposal-123"}`
		req := httptest.NewRequest(http.MethodPost, "/quotes/request-123/accept", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("X-Actor-ID", "organizer-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("request-123")

		err := handler.AcceptProposal(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp BookingResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "booking-123", resp.ID)
		assert.Equal(t, "reserved", resp.Status)

		mockService.AssertExpectations(t)
	})

	t.Run("予約が既に存在する場合409", func(t *testing.T) {
		mockService := new(MockQuoteService)
		mockService.On("AcceptProposal", mock.Anything, mock.AnythingOfType("application.AcceptProposalInput")).
			Return(nil, quote.ErrBookingExists)

		handler := NewQuoteHandler(mockService)

		reqBody := `{"proposal_id": "proposal-123"}`
		req := httptest.NewRequest(http.MethodPost, "/quotes/request-123/accept", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("X-Actor-ID", "organizer-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("request-123")

		err := handler.AcceptProposal(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("ロック待ちタイムアウトで503", func(t *testing.T) {
		mockService := new(MockQuoteService)
		mockService.On("AcceptProposal", mock.Anything, mock.AnythingOfType("application.AcceptProposalInput")).
			Return(nil, transaction.ErrLockWaitTimeout)

		handler := NewQuoteHandler(mockService)

		reqBody := `{"proposal_id": "proposal-123"}`
		req := httptest.NewRequest(http.MethodPost, "/quotes/request-123/accept", strings.NewReader(reqBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set("X-Actor-ID", "organizer-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("request-123")

		err := handler.AcceptProposal(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestQuoteHandler_CancelRequest(t *testing.T) {
	e := NewTestEcho()

	t.Run("予約済みの依頼は予約側からのキャンセルを要求する", func(t *testing.T) {
		mockService := new(MockQuoteService)
		mockService.On("CancelRequest", mock.Anything, "request-123", "organizer-1").
			Return(nil, quote.ErrCancelViaBooking)

		handler := NewQuoteHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/quotes/request-123/cancel", nil)
		req.Header.Set("X-Actor-ID", "organizer-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("request-123")

		err := handler.CancelRequest(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("pending の依頼をキャンセルできる", func(t *testing.T) {
		mockService := new(MockQuoteService)
		mockService.On("CancelRequest", mock.Anything, "request-123", "organizer-1").
			Return(fixtureRequest(quote.RequestCancelled), nil)

		handler := NewQuoteHandler(mockService)

		req := httptest.NewRequest(http.MethodPost, "/quotes/request-123/cancel", nil)
		req.Header.Set("X-Actor-ID", "organizer-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("request-123")

		err := handler.CancelRequest(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp QuoteRequestResponse
		err = json.Unmarshal(rec.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
	})
}

func TestQuoteHandler_ListRequests(t *testing.T) {
	e := NewTestEcho()

	t.Run("主催者として依頼一覧を取得できる", func(t *testing.T) {
		mockService := new(MockQuoteService)
		mockService.On("ListRequestsByOrganizer", mock.Anything, "organizer-1", 0, 0).
			Return([]*quote.Request{fixtureRequest(quote.RequestPending)}, nil)

		handler := NewQuoteHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/quotes", nil)
		req.Header.Set("X-Actor-ID", "organizer-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.ListRequests(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertNotCalled(t, "ListRequestsByPerformer")
	})

	t.Run("出演者として依頼一覧を取得できる", func(t *testing.T) {
		mockService := new(MockQuoteService)
		mockService.On("ListRequestsByPerformer", mock.Anything, "performer-1", 0, 0).
			Return([]*quote.Request{fixtureRequest(quote.RequestPending)}, nil)

		handler := NewQuoteHandler(mockService)

		req := httptest.NewRequest(http.MethodGet, "/quotes?role=performer", nil)
		req.Header.Set("X-Actor-ID", "performer-1")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.ListRequests(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertNotCalled(t, "ListRequestsByOrganizer")
	})
}
