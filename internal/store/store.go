package store

import (
	"context"
	"time"

	"github.com/wertigo/travel-planner/internal/store/schema"
)

// TripSummary is a trip row augmented with aggregates used by list views.
type TripSummary struct {
	schema.Trip
	DestinationCount int64 `json:"destinationCount"`
	HasRoute         bool  `json:"hasRoute"`
}

// TripDetail bundles a trip with its ordered destinations and the
// latest saved route, if any.
type TripDetail struct {
	Trip         *schema.Trip
	Destinations []*schema.TripDestination
	Route        *schema.TripRoute
}

// TrackerSummary is a tracker row joined with the trip it points at.
type TrackerSummary struct {
	schema.TripTracker
	TripName    string     `json:"tripName"`
	Destination string     `json:"destination"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	TripStatus  string     `json:"tripStatus"`
}

// TicketStats aggregates a caller's generated tickets.
type TicketStats struct {
	Total  int64            `json:"total"`
	Used   int64            `json:"used"`
	Unused int64            `json:"unused"`
	ByType map[string]int64 `json:"byType"`
}

// ReviewSummary aggregates approved reviews for a destination.
type ReviewSummary struct {
	Destination   string        `json:"destination"`
	ReviewCount   int64         `json:"reviewCount"`
	AverageRating float64       `json:"averageRating"`
	Distribution  map[int]int64 `json:"distribution"`
}

type UserStore interface {
	CreateUser(ctx context.Context, user *schema.User) error
	GetUserByID(ctx context.Context, id int64) (*schema.User, error)
	GetUserByLogin(ctx context.Context, login string) (*schema.User, error)
	UserExists(ctx context.Context, username, email string) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeUserID int64) (bool, error)
	UpdateUserProfile(ctx context.Context, user *schema.User) error

	CreateSession(ctx context.Context, session *schema.UserSession) error
	GetActiveSession(ctx context.Context, sessionID string, now time.Time) (*schema.UserSession, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type TripStore interface {
	CreateTrip(ctx context.Context, trip *schema.Trip) error
	GetTripByID(ctx context.Context, id string) (*schema.Trip, error)
	GetTripDetail(ctx context.Context, id string) (*TripDetail, error)
	ListTripsByOwner(ctx context.Context, userID *int64, sessionID *string) ([]*TripSummary, error)
	UpdateTrip(ctx context.Context, trip *schema.Trip) error
	DeleteTrip(ctx context.Context, id string) error

	AddTripDestination(ctx context.Context, dest *schema.TripDestination) error
	RemoveTripDestination(ctx context.Context, tripID string, destinationID int64) error
	ListTripDestinations(ctx context.Context, tripID string) ([]*schema.TripDestination, error)

	ReplaceTripRoute(ctx context.Context, route *schema.TripRoute) error
	GetLatestTripRoute(ctx context.Context, tripID string) (*schema.TripRoute, error)
}

type TicketStore interface {
	CreateTicket(ctx context.Context, ticket *schema.GeneratedTicket) error
	TicketCodeExists(ctx context.Context, code string) (bool, error)
	GetTicketByCode(ctx context.Context, code string) (*schema.GeneratedTicket, error)
	ListTickets(ctx context.Context, userID *int64, sessionID string, limit int) ([]*schema.GeneratedTicket, error)
	MarkTicketUsed(ctx context.Context, code string, now time.Time) (*schema.GeneratedTicket, error)
	GetTicketStats(ctx context.Context, userID *int64, sessionID string) (*TicketStats, error)
	ClearTickets(ctx context.Context, userID *int64, sessionID string) (int64, error)
}

type TrackerStore interface {
	CreateTracker(ctx context.Context, tracker *schema.TripTracker) error
	TrackerCodeExists(ctx context.Context, code string) (bool, error)
	GetTrackerByTrackerID(ctx context.Context, trackerID string) (*schema.TripTracker, error)
	ListTrackersByEmail(ctx context.Context, email string) ([]*TrackerSummary, error)
	IncrementTrackerAccess(ctx context.Context, trackerID string, now time.Time) error
	DeactivateTracker(ctx context.Context, trackerID, email string) (bool, error)
}

type ReviewStore interface {
	CreateReview(ctx context.Context, review *schema.Review) error
	GetReviewByID(ctx context.Context, id int64) (*schema.Review, error)
	ListApprovedReviews(ctx context.Context, destination string, limit, offset int) ([]*schema.Review, int64, error)
	SetReviewApproval(ctx context.Context, id int64, approved bool) error
	DeleteReview(ctx context.Context, id int64) error
	GetReviewSummary(ctx context.Context, destination string) (*ReviewSummary, error)
}

type InteractionStore interface {
	CreateInteraction(ctx context.Context, interaction *schema.Interaction) error
	CountInteractionsByEvent(ctx context.Context, since time.Time) (map[string]int64, error)
}

// Store is the persistence surface the API layer depends on.
type Store interface {
	UserStore
	TripStore
	TicketStore
	TrackerStore
	ReviewStore
	InteractionStore
}
