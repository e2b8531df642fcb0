package dto

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/wertigo/travel-planner/internal/domain"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	maxEmailLen    = 100
	maxNameLen     = 100
	minPasswordLen = 6
)

// DateOnly wraps time.Time with YYYY-MM-DD JSON encoding
type DateOnly struct {
	time.Time
}

func (d *DateOnly) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	d.Time = t
	return nil
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

func validEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// RegisterRequest is the payload for account registration
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (r *RegisterRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))

	if len(r.Username) < minUsernameLen || len(r.Username) > maxUsernameLen {
		return fmt.Errorf("username must be between %d and %d characters", minUsernameLen, maxUsernameLen)
	}
	if r.Email == "" || len(r.Email) > maxEmailLen || !validEmail(r.Email) {
		return fmt.Errorf("a valid email is required")
	}
	if len(r.Password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	return nil
}

// LoginRequest is the payload for login; Login accepts username or email
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Login = strings.TrimSpace(r.Login)
	if r.Login == "" {
		return fmt.Errorf("login is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// UpdateProfileRequest is the payload for profile updates. Nil fields are
// left unchanged.
type UpdateProfileRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Password  *string `json:"password"`
}

func (r *UpdateProfileRequest) Validate() error {
	if r.Email != nil {
		trimmed := strings.TrimSpace(strings.ToLower(*r.Email))
		if trimmed == "" || len(trimmed) > maxEmailLen || !validEmail(trimmed) {
			return fmt.Errorf("a valid email is required")
		}
		r.Email = &trimmed
	}
	if r.Password != nil && len(*r.Password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	return nil
}

// CreateTripRequest is the payload for trip creation
type CreateTripRequest struct {
	TripName    string    `json:"tripName"`
	Destination string    `json:"destination"`
	StartDate   *DateOnly `json:"startDate"`
	EndDate     *DateOnly `json:"endDate"`
	Budget      float64   `json:"budget"`
	Travelers   int       `json:"travelers"`
}

func (r *CreateTripRequest) Validate() error {
	r.TripName = strings.TrimSpace(r.TripName)
	if r.TripName == "" || len(r.TripName) > maxNameLen {
		return fmt.Errorf("tripName is required and must be at most %d characters", maxNameLen)
	}
	if r.Budget < 0 {
		return fmt.Errorf("budget must not be negative")
	}
	if r.Travelers < 0 {
		return fmt.Errorf("travelers must not be negative")
	}
	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(r.StartDate.Time) {
		return fmt.Errorf("endDate must not be before startDate")
	}
	return nil
}

// UpdateTripRequest is the payload for trip updates. Nil fields are left
// unchanged.
type UpdateTripRequest struct {
	TripName    *string   `json:"tripName"`
	Destination *string   `json:"destination"`
	StartDate   *DateOnly `json:"startDate"`
	EndDate     *DateOnly `json:"endDate"`
	Budget      *float64  `json:"budget"`
	Travelers   *int      `json:"travelers"`
	Status      *string   `json:"status"`
}

func (r *UpdateTripRequest) Validate() error {
	if r.TripName != nil {
		trimmed := strings.TrimSpace(*r.TripName)
		if trimmed == "" || len(trimmed) > maxNameLen {
			return fmt.Errorf("tripName must be non-empty and at most %d characters", maxNameLen)
		}
		r.TripName = &trimmed
	}
	if r.Budget != nil && *r.Budget < 0 {
		return fmt.Errorf("budget must not be negative")
	}
	if r.Travelers != nil && *r.Travelers < 0 {
		return fmt.Errorf("travelers must not be negative")
	}
	if r.Status != nil && !domain.TripStatus(*r.Status).Valid() {
		return fmt.Errorf("invalid status %q", *r.Status)
	}
	return nil
}

// AddDestinationRequest is the payload for appending an itinerary stop
type AddDestinationRequest struct {
	DestinationID      *int64   `json:"destinationId"`
	Name               string   `json:"name"`
	City               string   `json:"city"`
	Province           string   `json:"province"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Rating             *float64 `json:"rating"`
	Budget             *float64 `json:"budget"`
	Latitude           *float64 `json:"latitude"`
	Longitude          *float64 `json:"longitude"`
	OperatingHours     string   `json:"operatingHours"`
	ContactInformation string   `json:"contactInformation"`
}

func (r *AddDestinationRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Rating != nil && (*r.Rating < 0 || *r.Rating > 5) {
		return fmt.Errorf("rating must be between 0 and 5")
	}
	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		return fmt.Errorf("latitude out of range")
	}
	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		return fmt.Errorf("longitude out of range")
	}
	return nil
}

// SaveRouteRequest is the payload for storing a computed route
type SaveRouteRequest struct {
	RouteData   datatypes.JSON `json:"routeData"`
	DistanceKM  float64        `json:"distanceKm"`
	TimeMinutes int            `json:"timeMinutes"`
	RouteSource string         `json:"routeSource"`
}

func (r *SaveRouteRequest) Validate() error {
	if len(r.RouteData) == 0 {
		return fmt.Errorf("routeData is required")
	}
	if r.DistanceKM < 0 {
		return fmt.Errorf("distanceKm must not be negative")
	}
	if r.TimeMinutes < 0 {
		return fmt.Errorf("timeMinutes must not be negative")
	}
	return nil
}

// GenerateTicketRequest is the payload for minting a ticket code
type GenerateTicketRequest struct {
	Type             string         `json:"type"`
	IncludeTimestamp *bool          `json:"includeTimestamp"`
	Metadata         datatypes.JSON `json:"metadata"`
}

func (r *GenerateTicketRequest) Validate() error {
	r.Type = strings.ToUpper(strings.TrimSpace(r.Type))
	codeType := domain.CodeType(r.Type)
	if !codeType.Valid() || codeType == domain.CodeTypeTracker {
		return fmt.Errorf("invalid ticket type %q", r.Type)
	}
	return nil
}

// CreateTrackerRequest is the payload for issuing a trip tracker
type CreateTrackerRequest struct {
	TripID       string `json:"tripId"`
	Email        string `json:"email"`
	TravelerName string `json:"travelerName"`
	Phone        string `json:"phone"`
}

func (r *CreateTrackerRequest) Validate() error {
	r.TripID = strings.TrimSpace(r.TripID)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if r.TripID == "" {
		return fmt.Errorf("tripId is required")
	}
	if r.Email == "" || !validEmail(r.Email) {
		return fmt.Errorf("a valid email is required")
	}
	return nil
}

// DeactivateTrackerRequest is the payload for disabling a tracker
type DeactivateTrackerRequest struct {
	Email string `json:"email"`
}

func (r *DeactivateTrackerRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if r.Email == "" || !validEmail(r.Email) {
		return fmt.Errorf("a valid email is required")
	}
	return nil
}

// SubmitReviewRequest is the payload for submitting a destination review
type SubmitReviewRequest struct {
	Destination string `json:"destination"`
	AuthorName  string `json:"authorName"`
	Email       string `json:"email"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
}

func (r *SubmitReviewRequest) Validate() error {
	r.Destination = strings.TrimSpace(r.Destination)
	r.AuthorName = strings.TrimSpace(r.AuthorName)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))

	if r.Destination == "" {
		return fmt.Errorf("destination is required")
	}
	if r.AuthorName == "" {
		return fmt.Errorf("authorName is required")
	}
	if r.Email != "" && !validEmail(r.Email) {
		return fmt.Errorf("email is invalid")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	return nil
}
