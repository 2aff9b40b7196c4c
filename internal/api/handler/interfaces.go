package handler

import (
	"context"
	"time"

	"github.com/sanosuguru/go-gig-booking/internal/application"
	"github.com/sanosuguru/go-gig-booking/internal/domain/availability"
	"github.com/sanosuguru/go-gig-booking/internal/domain/event"
	"github.com/sanosuguru/go-gig-booking/internal/domain/performer"
	"github.com/sanosuguru/go-gig-booking/internal/domain/quote"
	"github.com/sanosuguru/go-gig-booking/internal/domain/rating"
	redisinfra "github.com/sanosuguru/go-gig-booking/internal/infrastructure/redis"
)

// PerformerServiceInterface は出演者サービスのインターフェース
type PerformerServiceInterface interface {
	CreatePerformer(ctx context.Context, input application.CreatePerformerInput) (*performer.Performer, error)
	GetPerformer(ctx context.Context, id string) (*performer.Performer, error)
	ListPerformers(ctx context.Context, limit, offset int) ([]*performer.Performer, error)
	UpdatePerformer(ctx context.Context, input application.UpdatePerformerInput) (*performer.Performer, error)
	DeactivatePerformer(ctx context.Context, id string) (*performer.Performer, error)
}

// EventServiceInterface はイベントサービスのインターフェース
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, input application.CreateEventInput) (*event.Event, error)
	Respond(ctx context.Context, input application.RespondInput) (*event.Event, error)
	CancelEvent(ctx context.Context, eventID, actorID string) (*event.Event, error)
	RejectEvent(ctx context.Context, eventID, actorID, reason string) (*event.Event, error)
	DeleteEvent(ctx context.Context, eventID, actorID string) error
	GetEvent(ctx context.Context, id string) (*event.Event, error)
	ListEventsByParticipant(ctx context.Context, performerID string, limit, offset int) ([]*event.Event, error)
	GetInvitations(ctx context.Context, eventID string) ([]*event.Invitation, error)
	GetHistory(ctx context.Context, eventID string) ([]*event.HistoryEntry, error)
}

// AvailabilityServiceInterface は空き枠サービスのインターフェース
type AvailabilityServiceInterface interface {
	DeclareWindow(ctx context.Context, input application.DeclareWindowInput) ([]*availability.Window, error)
	UpdateWindow(ctx context.Context, input application.UpdateWindowInput) ([]*availability.Window, error)
	DeleteWindow(ctx context.Context, windowID, actorID string) error
	ListWindows(ctx context.Context, performerID, viewerID string) ([]*availability.Window, error)
	ProbeConflicts(ctx context.Context, performerID string, date time.Time, start, end string) ([]*event.Event, error)
	Summary(ctx context.Context, performerID string) (*redisinfra.WindowSummary, error)
}

// QuoteServiceInterface は見積サービスのインターフェース
type QuoteServiceInterface interface {
	CreateRequest(ctx context.Context, input application.CreateRequestInput) (*quote.Request, error)
	SubmitProposal(ctx context.Context, input application.SubmitProposalInput) (*quote.Proposal, error)
	AcceptProposal(ctx context.Context, input application.AcceptProposalInput) (*quote.Booking, error)
	DeclineProposal(ctx context.Context, proposalID, organizerID string) (*quote.Proposal, error)
	ConfirmBooking(ctx context.Context, bookingID, actorID string) (*quote.Booking, error)
	CancelRequest(ctx context.Context, requestID, actorID string) (*quote.Request, error)
	CancelBooking(ctx context.Context, bookingID, actorID, reason string) (*quote.Booking, error)
	GetRequest(ctx context.Context, id string) (*quote.Request, error)
	ListRequestsByOrganizer(ctx context.Context, organizerID string, limit, offset int) ([]*quote.Request, error)
	ListRequestsByPerformer(ctx context.Context, performerID string, limit, offset int) ([]*quote.Request, error)
	ListProposals(ctx context.Context, requestID string) ([]*quote.Proposal, error)
	GetBooking(ctx context.Context, id string) (*quote.Booking, error)
}

// RatingServiceInterface は評価サービスのインターフェース
type RatingServiceInterface interface {
	RecordRating(ctx context.Context, input application.RecordRatingInput) (*rating.Rating, error)
	DeleteRating(ctx context.Context, ratingID, actorID string) error
	ListPerformerRatings(ctx context.Context, performerID string, limit, offset int) ([]*rating.Rating, error)
}
