package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-gig-booking/internal/domain/availability"
	"github.com/sanosuguru/go-gig-booking/internal/domain/event"
	"github.com/sanosuguru/go-gig-booking/internal/domain/performer"
	"github.com/sanosuguru/go-gig-booking/internal/domain/quote"
	"github.com/sanosuguru/go-gig-booking/internal/domain/rating"
	"github.com/sanosuguru/go-gig-booking/internal/domain/transaction"
)

// ドメインエラーとHTTPステータスコードの対応
var (
	notFoundErrors = []error{
		event.ErrEventNotFound,
		event.ErrInvitationNotFound,
		availability.ErrWindowNotFound,
		quote.ErrRequestNotFound,
		quote.ErrProposalNotFound,
		quote.ErrBookingNotFound,
		rating.ErrRatingNotFound,
		performer.ErrPerformerNotFound,
	}

	forbiddenErrors = []error{
		event.ErrNotCreator,
		event.ErrNotInvited,
		availability.ErrNotOwner,
		quote.ErrNotOrganizer,
		quote.ErrNotTargetPerformer,
		quote.ErrNotParticipant,
		rating.ErrSelfRating,
		rating.ErrNotParticipant,
		rating.ErrNotRater,
	}

	conflictErrors = []error{
		event.ErrEventAlreadyCancelled,
		event.ErrEventClosed,
		event.ErrDuplicateInvitation,
		quote.ErrBookingExists,
		quote.ErrRequestCancelled,
		quote.ErrBookingCancelled,
		rating.ErrDuplicateRating,
	}
)

// respondError はドメインエラーをHTTPレスポンスに変換する
// 分類されないエラーはバリデーションエラーとして400を返し、
// 予期しないインフラエラーのみ500になる
func respondError(c echo.Context, err error) error {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
	}
	for _, target := range forbiddenErrors {
		if errors.Is(err, target) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
		}
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
	}
	if errors.Is(err, transaction.ErrLockWaitTimeout) {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}
	if isDomainValidationError(err) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

var validationErrors = []error{
	event.ErrTitleRequired,
	event.ErrCreatorRequired,
	event.ErrInvalidTimeFormat,
	event.ErrZeroDuration,
	event.ErrInvalidTimeRange,
	event.ErrDateInPast,
	event.ErrInvalidResponse,
	availability.ErrPerformerRequired,
	availability.ErrInvalidTimeRange,
	availability.ErrDateInPast,
	availability.ErrInvalidVisibility,
	availability.ErrWindowInactive,
	quote.ErrOrganizerRequired,
	quote.ErrPerformerRequired,
	quote.ErrEventTypeRequired,
	quote.ErrInvalidDuration,
	quote.ErrDateInPast,
	quote.ErrRequestIDRequired,
	quote.ErrInvalidFee,
	quote.ErrValidityInPast,
	quote.ErrRequestNotOpen,
	quote.ErrRequestNotResponded,
	quote.ErrRequestNotReserved,
	quote.ErrCancelViaBooking,
	quote.ErrProposalNotSent,
	quote.ErrProposalExpired,
	quote.ErrProposalMismatch,
	quote.ErrBookingNotReserved,
	rating.ErrEventIDRequired,
	rating.ErrPerformerIDRequired,
	rating.ErrRaterIDRequired,
	rating.ErrInvalidScore,
	rating.ErrEventNotConcluded,
	performer.ErrPerformerNameRequired,
	performer.ErrPerformerInactive,
}

func isDomainValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// actorID はリクエストヘッダーから操作主体の出演者IDを取り出す
func actorID(c echo.Context) string {
	return c.Request().Header.Get("X-Actor-ID")
}

func requireActor(c echo.Context) (string, bool) {
	id := actorID(c)
	return id, id != ""
}
