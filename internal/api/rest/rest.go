package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/wertigo/travel-planner/internal/api/middleware"
	"github.com/wertigo/travel-planner/internal/identity"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	optional := middleware.ResolveActor(authCfg, identity.Optional)
	mandatory := middleware.ResolveActor(authCfg, identity.Mandatory)
	admin := middleware.AdminAPIKey(authCfg)

	v1 := router.Group("/api/v1")
	{
		// Auth endpoints; profile requires a valid token
		v1.POST("/auth/register", handler.Register)
		v1.POST("/auth/login", handler.Login)
		v1.POST("/auth/logout", handler.Logout)
		v1.GET("/auth/session", handler.ValidateSession)
		v1.GET("/auth/profile", mandatory, handler.GetProfile)
		v1.PUT("/auth/profile", mandatory, handler.UpdateProfile)

		// Trip endpoints work for both logged-in users and anonymous sessions
		trips := v1.Group("/trips", optional)
		{
			trips.POST("", handler.CreateTrip)
			trips.GET("", handler.ListTrips)
			trips.GET("/:id", handler.GetTrip)
			trips.PUT("/:id", handler.UpdateTrip)
			trips.DELETE("/:id", handler.DeleteTrip)
			trips.POST("/:id/destinations", handler.AddDestination)
			trips.DELETE("/:id/destinations/:destination_id", handler.RemoveDestination)
			trips.PUT("/:id/route", handler.SaveRoute)
			trips.GET("/:id/route", handler.GetRoute)
		}

		// Ticket endpoints; fixed segments registered before the code wildcard
		tickets := v1.Group("/tickets", optional)
		{
			tickets.POST("/generate", handler.GenerateTicket)
			tickets.GET("", handler.ListTickets)
			tickets.DELETE("", handler.ClearTickets)
			tickets.GET("/stats", handler.TicketStats)
			tickets.GET("/formats", handler.TicketFormats)
			tickets.GET("/validate/:code", handler.ValidateTicket)
			tickets.GET("/:code", handler.GetTicket)
			tickets.POST("/:code/use", handler.MarkTicketUsed)
		}

		// Tracker endpoints; lookup is public, creation needs an owner
		trackers := v1.Group("/trackers")
		{
			trackers.POST("", optional, handler.CreateTracker)
			trackers.GET("", handler.ListTrackersByEmail)
			trackers.GET("/:tracker_id", handler.TrackTrip)
			trackers.DELETE("/:tracker_id", handler.DeactivateTracker)
		}

		// Review endpoints; moderation requires an admin API key
		reviews := v1.Group("/reviews")
		{
			reviews.POST("", handler.SubmitReview)
			reviews.GET("", handler.ListReviews)
			reviews.GET("/summary", handler.ReviewSummary)
			reviews.PUT("/:id/approval", admin, handler.ApproveReview)
			reviews.DELETE("/:id", admin, handler.DeleteReview)
		}

		// Unified code lookup
		v1.GET("/search/:code", optional, handler.Search)

		// Interaction analytics, admin only
		v1.GET("/analytics/interactions", admin, handler.InteractionStats)
	}
}
