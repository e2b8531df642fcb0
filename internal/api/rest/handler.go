package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wertigo/travel-planner/internal/api/middleware"
	"github.com/wertigo/travel-planner/internal/api/shared/dto"
	"github.com/wertigo/travel-planner/internal/api/shared/executor"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// Register creates an account
	// POST /api/v1/auth/register
	Register(c *gin.Context)
	// Login opens a login session
	// POST /api/v1/auth/login
	Login(c *gin.Context)
	// Logout closes the current login session
	// POST /api/v1/auth/logout
	Logout(c *gin.Context)
	// ValidateSession reports whether the presented session is still live
	// GET /api/v1/auth/session
	ValidateSession(c *gin.Context)
	// GetProfile returns the authenticated user's profile
	// GET /api/v1/auth/profile
	GetProfile(c *gin.Context)
	// UpdateProfile patches the authenticated user's profile
	// PUT /api/v1/auth/profile
	UpdateProfile(c *gin.Context)

	// CreateTrip creates a trip owned by the caller
	// POST /api/v1/trips
	CreateTrip(c *gin.Context)
	// ListTrips lists the caller's trips
	// GET /api/v1/trips
	ListTrips(c *gin.Context)
	// GetTrip returns one trip with itinerary and route
	// GET /api/v1/trips/:id
	GetTrip(c *gin.Context)
	// UpdateTrip patches a trip
	// PUT /api/v1/trips/:id
	UpdateTrip(c *gin.Context)
	// DeleteTrip removes a trip and its dependents
	// DELETE /api/v1/trips/:id
	DeleteTrip(c *gin.Context)
	// AddDestination appends an itinerary stop
	// POST /api/v1/trips/:id/destinations
	AddDestination(c *gin.Context)
	// RemoveDestination removes an itinerary stop
	// DELETE /api/v1/trips/:id/destinations/:destination_id
	RemoveDestination(c *gin.Context)
	// SaveRoute stores a computed route, replacing any previous one
	// PUT /api/v1/trips/:id/route
	SaveRoute(c *gin.Context)
	// GetRoute returns the latest stored route
	// GET /api/v1/trips/:id/route
	GetRoute(c *gin.Context)

	// GenerateTicket mints a unique ticket code
	// POST /api/v1/tickets/generate
	GenerateTicket(c *gin.Context)
	// ListTickets returns the caller's ticket history
	// GET /api/v1/tickets?limit=<limit>
	ListTickets(c *gin.Context)
	// MarkTicketUsed flips a ticket to used, exactly once
	// POST /api/v1/tickets/:code/use
	MarkTicketUsed(c *gin.Context)
	// GetTicket returns one ticket by code
	// GET /api/v1/tickets/:code
	GetTicket(c *gin.Context)
	// TicketStats aggregates the caller's tickets
	// GET /api/v1/tickets/stats
	TicketStats(c *gin.Context)
	// ClearTickets deletes all of the caller's tickets
	// DELETE /api/v1/tickets
	ClearTickets(c *gin.Context)
	// TicketFormats documents the supported code formats
	// GET /api/v1/tickets/formats
	TicketFormats(c *gin.Context)
	// ValidateTicket classifies a code and reports whether it exists
	// GET /api/v1/tickets/validate/:code
	ValidateTicket(c *gin.Context)

	// CreateTracker issues a shareable tracker for a trip
	// POST /api/v1/trackers
	CreateTracker(c *gin.Context)
	// TrackTrip resolves a tracker code to its trip
	// GET /api/v1/trackers/:tracker_id?email=<email>
	TrackTrip(c *gin.Context)
	// ListTrackersByEmail lists active trackers issued to an email
	// GET /api/v1/trackers?email=<email>
	ListTrackersByEmail(c *gin.Context)
	// DeactivateTracker soft-disables a tracker
	// DELETE /api/v1/trackers/:tracker_id
	DeactivateTracker(c *gin.Context)

	// SubmitReview stores a new, unapproved review
	// POST /api/v1/reviews
	SubmitReview(c *gin.Context)
	// ListReviews returns approved reviews
	// GET /api/v1/reviews?destination=<name>&limit=<limit>&offset=<offset>
	ListReviews(c *gin.Context)
	// ReviewSummary aggregates approved reviews for a destination
	// GET /api/v1/reviews/summary?destination=<name>
	ReviewSummary(c *gin.Context)
	// ApproveReview approves or un-approves a review (admin)
	// PUT /api/v1/reviews/:id/approval
	ApproveReview(c *gin.Context)
	// DeleteReview removes a review (admin)
	// DELETE /api/v1/reviews/:id
	DeleteReview(c *gin.Context)

	// Search resolves any generated code
	// GET /api/v1/search/:code?email=<email>
	Search(c *gin.Context)

	// InteractionStats counts recorded interactions by event type (admin)
	// GET /api/v1/analytics/interactions?hours=<hours>
	InteractionStats(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor) Handler {
	return &handler{executor: exec}
}

func clientMeta(c *gin.Context) executor.ClientMeta {
	return executor.ClientMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// --- auth ---

func (h *handler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) Logout(c *gin.Context) {
	creds := middleware.ExtractCredentials(c)
	if err := h.executor.Logout(c.Request.Context(), creds.SessionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *handler) ValidateSession(c *gin.Context) {
	creds := middleware.ExtractCredentials(c)
	resp, err := h.executor.ValidateSession(c.Request.Context(), creds.SessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetProfile(c *gin.Context) {
	resp, err := h.executor.GetProfile(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.UpdateProfile(c.Request.Context(), middleware.ActorFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// --- trips ---

func (h *handler) CreateTrip(c *gin.Context) {
	var req dto.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.CreateTrip(c.Request.Context(), middleware.ActorFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *handler) ListTrips(c *gin.Context) {
	resp, err := h.executor.ListTrips(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetTrip(c *gin.Context) {
	resp, err := h.executor.GetTrip(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) UpdateTrip(c *gin.Context) {
	var req dto.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.UpdateTrip(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) DeleteTrip(c *gin.Context) {
	if err := h.executor.DeleteTrip(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted"})
}

func (h *handler) AddDestination(c *gin.Context) {
	var req dto.AddDestinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.AddDestination(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *handler) RemoveDestination(c *gin.Context) {
	destinationID, err := strconv.ParseInt(c.Param("destination_id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid destination id")
		return
	}

	if err := h.executor.RemoveDestination(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), destinationID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Destination removed"})
}

func (h *handler) SaveRoute(c *gin.Context) {
	var req dto.SaveRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.SaveRoute(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetRoute(c *gin.Context) {
	resp, err := h.executor.GetRoute(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// --- tickets ---

func (h *handler) GenerateTicket(c *gin.Context) {
	var req dto.GenerateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.GenerateTicket(c.Request.Context(), middleware.ActorFrom(c), &req, clientMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *handler) ListTickets(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	resp, err := h.executor.ListTickets(c.Request.Context(), middleware.ActorFrom(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) MarkTicketUsed(c *gin.Context) {
	resp, err := h.executor.MarkTicketUsed(c.Request.Context(), middleware.ActorFrom(c), c.Param("code"), clientMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetTicket(c *gin.Context) {
	resp, err := h.executor.GetTicket(c.Request.Context(), middleware.ActorFrom(c), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) TicketStats(c *gin.Context) {
	resp, err := h.executor.TicketStats(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) ClearTickets(c *gin.Context) {
	resp, err := h.executor.ClearTickets(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) TicketFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"formats": h.executor.TicketFormats()})
}

func (h *handler) ValidateTicket(c *gin.Context) {
	resp, err := h.executor.ValidateTicketCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// --- trackers ---

func (h *handler) CreateTracker(c *gin.Context) {
	var req dto.CreateTrackerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.CreateTracker(c.Request.Context(), middleware.ActorFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *handler) TrackTrip(c *gin.Context) {
	resp, err := h.executor.TrackTrip(c.Request.Context(), c.Param("tracker_id"), c.Query("email"), clientMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) ListTrackersByEmail(c *gin.Context) {
	resp, err := h.executor.ListTrackersByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) DeactivateTracker(c *gin.Context) {
	var req dto.DeactivateTrackerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := h.executor.DeactivateTracker(c.Request.Context(), c.Param("tracker_id"), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tracker deactivated"})
}

// --- reviews ---

func (h *handler) SubmitReview(c *gin.Context) {
	var req dto.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.SubmitReview(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *handler) ListReviews(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	resp, err := h.executor.ListReviews(c.Request.Context(), c.Query("destination"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) ReviewSummary(c *gin.Context) {
	resp, err := h.executor.ReviewSummary(c.Request.Context(), c.Query("destination"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) ApproveReview(c *gin.Context) {
	reviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid review id")
		return
	}

	var req struct {
		Approved *bool `json:"approved"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Approved == nil {
		respondBadRequest(c, "Request body must carry an approved flag")
		return
	}

	resp, err := h.executor.SetReviewApproval(c.Request.Context(), reviewID, *req.Approved)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) DeleteReview(c *gin.Context) {
	reviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid review id")
		return
	}

	if err := h.executor.DeleteReview(c.Request.Context(), reviewID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}

// --- search ---

func (h *handler) Search(c *gin.Context) {
	resp, err := h.executor.Search(c.Request.Context(), middleware.ActorFrom(c), c.Param("code"), c.Query("email"), clientMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// --- analytics ---

func (h *handler) InteractionStats(c *gin.Context) {
	hours, _ := strconv.Atoi(c.DefaultQuery("hours", "0"))

	resp, err := h.executor.InteractionStats(c.Request.Context(), time.Duration(hours)*time.Hour)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
