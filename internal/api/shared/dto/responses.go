package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/wertigo/travel-planner/internal/store"
	"github.com/wertigo/travel-planner/internal/store/schema"
)

// UserResponse is the public view of a user account
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	SessionID string       `json:"sessionId"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// SessionStatusResponse reports whether a login session is still live
type SessionStatusResponse struct {
	Valid     bool       `json:"valid"`
	UserID    *int64     `json:"userId,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// TripResponse is the public view of a trip
type TripResponse struct {
	ID               string    `json:"id"`
	TripName         string    `json:"tripName"`
	Destination      string    `json:"destination,omitempty"`
	StartDate        *DateOnly `json:"startDate,omitempty"`
	EndDate          *DateOnly `json:"endDate,omitempty"`
	Budget           float64   `json:"budget"`
	Travelers        int       `json:"travelers"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	DestinationCount *int64    `json:"destinationCount,omitempty"`
	HasRoute         *bool     `json:"hasRoute,omitempty"`
}

// TripDetailResponse is a trip with its itinerary and latest route
type TripDetailResponse struct {
	TripResponse
	Destinations []DestinationResponse `json:"destinations"`
	Route        *RouteResponse        `json:"route,omitempty"`
}

// TripListResponse wraps a trip collection
type TripListResponse struct {
	Trips []TripResponse `json:"trips"`
	Total int            `json:"total"`
}

// DestinationResponse is the public view of an itinerary stop
type DestinationResponse struct {
	ID                 int64     `json:"id"`
	DestinationID      *int64    `json:"destinationId,omitempty"`
	Name               string    `json:"name"`
	City               string    `json:"city,omitempty"`
	Province           string    `json:"province,omitempty"`
	Description        string    `json:"description,omitempty"`
	Category           string    `json:"category,omitempty"`
	Rating             *float64  `json:"rating,omitempty"`
	Budget             *float64  `json:"budget,omitempty"`
	Latitude           *float64  `json:"latitude,omitempty"`
	Longitude          *float64  `json:"longitude,omitempty"`
	OperatingHours     string    `json:"operatingHours,omitempty"`
	ContactInformation string    `json:"contactInformation,omitempty"`
	OrderIndex         int       `json:"orderIndex"`
	AddedAt            time.Time `json:"addedAt"`
}

// RouteResponse is the public view of a stored route
type RouteResponse struct {
	RouteData    datatypes.JSON `json:"routeData"`
	DistanceKM   float64        `json:"distanceKm"`
	TimeMinutes  int            `json:"timeMinutes"`
	RouteSource  string         `json:"routeSource,omitempty"`
	CalculatedAt time.Time      `json:"calculatedAt"`
}

// TicketResponse is the public view of a generated ticket code
type TicketResponse struct {
	TicketID   string         `json:"ticketId"`
	TicketType string         `json:"ticketType"`
	IsUsed     bool           `json:"isUsed"`
	UsedAt     *time.Time     `json:"usedAt,omitempty"`
	Metadata   datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// TicketListResponse wraps a ticket collection
type TicketListResponse struct {
	Tickets []TicketResponse `json:"tickets"`
	Total   int              `json:"total"`
}

// TicketStatsResponse aggregates a caller's tickets
type TicketStatsResponse struct {
	Total  int64            `json:"total"`
	Used   int64            `json:"used"`
	Unused int64            `json:"unused"`
	ByType map[string]int64 `json:"byType"`
}

// TicketFormatResponse documents one supported code format
type TicketFormatResponse struct {
	Type        string `json:"type"`
	Prefix      string `json:"prefix,omitempty"`
	Example     string `json:"example"`
	Description string `json:"description"`
}

// TicketValidationResponse classifies a code and reports whether it exists
type TicketValidationResponse struct {
	Code     string `json:"code"`
	Valid    bool   `json:"valid"`
	CodeType string `json:"codeType,omitempty"`
	Exists   bool   `json:"exists"`
}

// ClearTicketsResponse reports how many tickets were removed
type ClearTicketsResponse struct {
	Deleted int64 `json:"deleted"`
}

// TrackerResponse is the public view of an issued tracker
type TrackerResponse struct {
	TrackerID    string     `json:"trackerId"`
	TripID       string     `json:"tripId"`
	Email        string     `json:"email"`
	TravelerName string     `json:"travelerName,omitempty"`
	IsActive     bool       `json:"isActive"`
	AccessCount  int64      `json:"accessCount"`
	LastAccessed *time.Time `json:"lastAccessed,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// TrackedTripResponse is what a tracker lookup returns: the tracker and
// the trip it points at
type TrackedTripResponse struct {
	Tracker TrackerResponse    `json:"tracker"`
	Trip    TripDetailResponse `json:"trip"`
}

// TrackerSummaryResponse is a tracker joined with its trip, for by-email lists
type TrackerSummaryResponse struct {
	TrackerResponse
	TripName    string    `json:"tripName"`
	Destination string    `json:"destination,omitempty"`
	StartDate   *DateOnly `json:"startDate,omitempty"`
	EndDate     *DateOnly `json:"endDate,omitempty"`
	TripStatus  string    `json:"tripStatus"`
}

// TrackerListResponse wraps a tracker collection
type TrackerListResponse struct {
	Trackers []TrackerSummaryResponse `json:"trackers"`
	Total    int                      `json:"total"`
}

// ReviewResponse is the public view of a review
type ReviewResponse struct {
	ID          int64     `json:"id"`
	Destination string    `json:"destination"`
	AuthorName  string    `json:"authorName"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ReviewListResponse wraps a review collection
type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Total   int64            `json:"total"`
}

// ReviewSummaryResponse aggregates approved reviews for a destination
type ReviewSummaryResponse struct {
	Destination   string        `json:"destination"`
	ReviewCount   int64         `json:"reviewCount"`
	AverageRating float64       `json:"averageRating"`
	Distribution  map[int]int64 `json:"distribution"`
}

// InteractionStatsResponse counts recorded interactions by event type
type InteractionStatsResponse struct {
	Since  time.Time        `json:"since"`
	Counts map[string]int64 `json:"counts"`
}

// SearchResponse is the result of a unified code lookup
type SearchResponse struct {
	Kind    string               `json:"kind"` // "tracker" or "ticket"
	Tracker *TrackedTripResponse `json:"tracker,omitempty"`
	Ticket  *TicketResponse      `json:"ticket,omitempty"`
}

func dateOnlyPtr(t *time.Time) *DateOnly {
	if t == nil {
		return nil
	}
	return &DateOnly{Time: *t}
}

// MapUserToDTO converts a user record to its response shape
func MapUserToDTO(user *schema.User) UserResponse {
	resp := UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
	if user.FirstName != nil {
		resp.FirstName = *user.FirstName
	}
	if user.LastName != nil {
		resp.LastName = *user.LastName
	}
	return resp
}

// MapTripToDTO converts a trip record to its response shape
func MapTripToDTO(trip *schema.Trip) TripResponse {
	return TripResponse{
		ID:          trip.ID,
		TripName:    trip.TripName,
		Destination: trip.Destination,
		StartDate:   dateOnlyPtr(trip.StartDate),
		EndDate:     dateOnlyPtr(trip.EndDate),
		Budget:      trip.Budget,
		Travelers:   trip.Travelers,
		Status:      trip.Status,
		CreatedAt:   trip.CreatedAt,
		UpdatedAt:   trip.UpdatedAt,
	}
}

// MapTripSummaryToDTO converts an aggregated trip row to its response shape
func MapTripSummaryToDTO(summary *store.TripSummary) TripResponse {
	resp := MapTripToDTO(&summary.Trip)
	resp.DestinationCount = &summary.DestinationCount
	resp.HasRoute = &summary.HasRoute
	return resp
}

// MapTripDetailToDTO converts a trip with itinerary and route to its response shape
func MapTripDetailToDTO(detail *store.TripDetail) TripDetailResponse {
	resp := TripDetailResponse{
		TripResponse: MapTripToDTO(detail.Trip),
		Destinations: make([]DestinationResponse, len(detail.Destinations)),
	}
	for i, dest := range detail.Destinations {
		resp.Destinations[i] = MapDestinationToDTO(dest)
	}
	if detail.Route != nil {
		route := MapRouteToDTO(detail.Route)
		resp.Route = &route
	}
	return resp
}

// MapDestinationToDTO converts an itinerary stop to its response shape
func MapDestinationToDTO(dest *schema.TripDestination) DestinationResponse {
	return DestinationResponse{
		ID:                 dest.ID,
		DestinationID:      dest.DestinationID,
		Name:               dest.Name,
		City:               dest.City,
		Province:           dest.Province,
		Description:        dest.Description,
		Category:           dest.Category,
		Rating:             dest.Rating,
		Budget:             dest.Budget,
		Latitude:           dest.Latitude,
		Longitude:          dest.Longitude,
		OperatingHours:     dest.OperatingHours,
		ContactInformation: dest.ContactInformation,
		OrderIndex:         dest.OrderIndex,
		AddedAt:            dest.AddedAt,
	}
}

// MapRouteToDTO converts a stored route to its response shape
func MapRouteToDTO(route *schema.TripRoute) RouteResponse {
	return RouteResponse{
		RouteData:    route.RouteData,
		DistanceKM:   route.DistanceKM,
		TimeMinutes:  route.TimeMinutes,
		RouteSource:  route.RouteSource,
		CalculatedAt: route.CalculatedAt,
	}
}

// MapTicketToDTO converts a generated ticket to its response shape
func MapTicketToDTO(ticket *schema.GeneratedTicket) TicketResponse {
	return TicketResponse{
		TicketID:   ticket.TicketID,
		TicketType: ticket.TicketType,
		IsUsed:     ticket.IsUsed,
		UsedAt:     ticket.UsedAt,
		Metadata:   ticket.Metadata,
		CreatedAt:  ticket.CreatedAt,
	}
}

// MapTrackerToDTO converts a tracker record to its response shape
func MapTrackerToDTO(tracker *schema.TripTracker) TrackerResponse {
	return TrackerResponse{
		TrackerID:    tracker.TrackerID,
		TripID:       tracker.TripID,
		Email:        tracker.Email,
		TravelerName: tracker.TravelerName,
		IsActive:     tracker.IsActive,
		AccessCount:  tracker.AccessCount,
		LastAccessed: tracker.LastAccessed,
		ExpiresAt:    tracker.ExpiresAt,
		CreatedAt:    tracker.CreatedAt,
	}
}

// MapTrackerSummaryToDTO converts a tracker joined with its trip to its response shape
func MapTrackerSummaryToDTO(summary *store.TrackerSummary) TrackerSummaryResponse {
	return TrackerSummaryResponse{
		TrackerResponse: MapTrackerToDTO(&summary.TripTracker),
		TripName:        summary.TripName,
		Destination:     summary.Destination,
		StartDate:       dateOnlyPtr(summary.StartDate),
		EndDate:         dateOnlyPtr(summary.EndDate),
		TripStatus:      summary.TripStatus,
	}
}

// MapReviewToDTO converts a review record to its response shape
func MapReviewToDTO(review *schema.Review) ReviewResponse {
	return ReviewResponse{
		ID:          review.ID,
		Destination: review.Destination,
		AuthorName:  review.AuthorName,
		Rating:      review.Rating,
		Comment:     review.Comment,
		Approved:    review.Approved,
		CreatedAt:   review.CreatedAt,
	}
}
