// Package executor contains the business logic shared by the transport
// layer. Handlers validate and translate; executors decide.
package executor

import (
	"context"
	"time"

	"github.com/wertigo/travel-planner/internal/api/shared/dto"
	"github.com/wertigo/travel-planner/internal/audit"
	"github.com/wertigo/travel-planner/internal/codegen"
	"github.com/wertigo/travel-planner/internal/identity"
	"github.com/wertigo/travel-planner/internal/store"
)

// ClientMeta carries request metadata recorded with interaction events
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// Executor is the interface for the API executor
type Executor interface {
	// Register creates an account and opens a login session
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	// Login verifies credentials and opens a login session
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// Logout closes the given login session
	Logout(ctx context.Context, sessionID string) error
	// ValidateSession reports whether a login session is still live
	ValidateSession(ctx context.Context, sessionID string) (*dto.SessionStatusResponse, error)
	// GetProfile returns the authenticated user's profile
	GetProfile(ctx context.Context, actor identity.Actor) (*dto.UserResponse, error)
	// UpdateProfile patches the authenticated user's profile
	UpdateProfile(ctx context.Context, actor identity.Actor, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)

	// CreateTrip creates a trip owned by the actor
	CreateTrip(ctx context.Context, actor identity.Actor, req *dto.CreateTripRequest) (*dto.TripResponse, error)
	// ListTrips lists the actor's trips with aggregates
	ListTrips(ctx context.Context, actor identity.Actor) (*dto.TripListResponse, error)
	// GetTrip returns one of the actor's trips with itinerary and route
	GetTrip(ctx context.Context, actor identity.Actor, tripID string) (*dto.TripDetailResponse, error)
	// UpdateTrip patches one of the actor's trips
	UpdateTrip(ctx context.Context, actor identity.Actor, tripID string, req *dto.UpdateTripRequest) (*dto.TripResponse, error)
	// DeleteTrip removes one of the actor's trips and its dependents
	DeleteTrip(ctx context.Context, actor identity.Actor, tripID string) error
	// AddDestination appends an itinerary stop to one of the actor's trips
	AddDestination(ctx context.Context, actor identity.Actor, tripID string, req *dto.AddDestinationRequest) (*dto.DestinationResponse, error)
	// RemoveDestination removes an itinerary stop from one of the actor's trips
	RemoveDestination(ctx context.Context, actor identity.Actor, tripID string, destinationID int64) error
	// SaveRoute stores a computed route for one of the actor's trips,
	// replacing any previous one
	SaveRoute(ctx context.Context, actor identity.Actor, tripID string, req *dto.SaveRouteRequest) (*dto.RouteResponse, error)
	// GetRoute returns the latest stored route of one of the actor's trips
	GetRoute(ctx context.Context, actor identity.Actor, tripID string) (*dto.RouteResponse, error)

	// GenerateTicket mints a unique ticket code for the actor
	GenerateTicket(ctx context.Context, actor identity.Actor, req *dto.GenerateTicketRequest, meta ClientMeta) (*dto.TicketResponse, error)
	// ListTickets returns the actor's ticket history, newest first. A
	// non-positive limit falls back to the configured history limit, which
	// also caps explicit limits.
	ListTickets(ctx context.Context, actor identity.Actor, limit int) (*dto.TicketListResponse, error)
	// MarkTicketUsed flips one of the actor's tickets to used, exactly once
	MarkTicketUsed(ctx context.Context, actor identity.Actor, code string, meta ClientMeta) (*dto.TicketResponse, error)
	// GetTicket returns one of the actor's tickets by code
	GetTicket(ctx context.Context, actor identity.Actor, code string) (*dto.TicketResponse, error)
	// TicketStats aggregates the actor's tickets
	TicketStats(ctx context.Context, actor identity.Actor) (*dto.TicketStatsResponse, error)
	// ClearTickets deletes all of the actor's tickets
	ClearTickets(ctx context.Context, actor identity.Actor) (*dto.ClearTicketsResponse, error)
	// TicketFormats documents the supported code formats with example codes
	TicketFormats() []dto.TicketFormatResponse
	// ValidateTicketCode classifies a code by shape and checks whether it exists.
	ValidateTicketCode(ctx context.Context, code string) (*dto.TicketValidationResponse, error)

	// CreateTracker issues a shareable tracker for one of the actor's trips
	CreateTracker(ctx context.Context, actor identity.Actor, req *dto.CreateTrackerRequest) (*dto.TrackerResponse, error)
	// TrackTrip resolves a tracker code to its trip, counting the access
	TrackTrip(ctx context.Context, trackerID, email string, meta ClientMeta) (*dto.TrackedTripResponse, error)
	// ListTrackersByEmail lists active trackers issued to an email
	ListTrackersByEmail(ctx context.Context, email string) (*dto.TrackerListResponse, error)
	// DeactivateTracker soft-disables a tracker after email verification
	DeactivateTracker(ctx context.Context, trackerID, email string) error

	// SubmitReview stores a new, unapproved review
	SubmitReview(ctx context.Context, req *dto.SubmitReviewRequest) (*dto.ReviewResponse, error)
	// ListReviews returns approved reviews, optionally filtered by destination
	ListReviews(ctx context.Context, destination string, limit, offset int) (*dto.ReviewListResponse, error)
	// ReviewSummary aggregates approved reviews for a destination
	ReviewSummary(ctx context.Context, destination string) (*dto.ReviewSummaryResponse, error)
	// SetReviewApproval approves or un-approves a review (admin only)
	SetReviewApproval(ctx context.Context, reviewID int64, approved bool) (*dto.ReviewResponse, error)
	// DeleteReview removes a review (admin only)
	DeleteReview(ctx context.Context, reviewID int64) error

	// Search resolves any generated code: tracker codes dispatch on their
	// prefix, everything else is looked up as a ticket
	Search(ctx context.Context, actor identity.Actor, code, email string, meta ClientMeta) (*dto.SearchResponse, error)

	// InteractionStats counts recorded interactions by event type over a
	// trailing window.
	InteractionStats(ctx context.Context, window time.Duration) (*dto.InteractionStatsResponse, error)
}

// Config tunes executor behavior
type Config struct {
	// SessionTTL bounds login session lifetime
	SessionTTL time.Duration
	// TrackerTTL bounds tracker validity; zero means trackers never expire
	TrackerTTL time.Duration
	// TicketHistoryLimit caps ListTickets
	TicketHistoryLimit int
	// MaxMintAttempts bounds code generation retries on collision
	MaxMintAttempts int
}

type executor struct {
	store    store.Store
	tickets  *codegen.Generator
	trackers *codegen.Generator
	issuer   *identity.JWTIssuer
	audit    audit.Recorder
	config   Config
	now      func() time.Time
}

// NewExecutor creates the executor with its collaborators injected
func NewExecutor(s store.Store, issuer *identity.JWTIssuer, recorder audit.Recorder, cfg Config) Executor {
	if cfg.TicketHistoryLimit <= 0 {
		cfg.TicketHistoryLimit = 50
	}
	if cfg.MaxMintAttempts <= 0 {
		cfg.MaxMintAttempts = codegen.DefaultMaxAttempts
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	return &executor{
		store:    s,
		tickets:  codegen.New(s.TicketCodeExists, codegen.WithMaxAttempts(cfg.MaxMintAttempts)),
		trackers: codegen.New(s.TrackerCodeExists, codegen.WithMaxAttempts(cfg.MaxMintAttempts)),
		issuer:   issuer,
		audit:    recorder,
		config:   cfg,
		now:      time.Now,
	}
}
