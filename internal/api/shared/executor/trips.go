package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/wertigo/travel-planner/internal/api/shared/dto"
	apierrors "github.com/wertigo/travel-planner/internal/api/shared/errors"
	"github.com/wertigo/travel-planner/internal/domain"
	"github.com/wertigo/travel-planner/internal/identity"
	"github.com/wertigo/travel-planner/internal/ownership"
	"github.com/wertigo/travel-planner/internal/store/schema"
)

func (e *executor) CreateTrip(ctx context.Context, actor identity.Actor, req *dto.CreateTripRequest) (*dto.TripResponse, error) {
	if actor.IsAnonymousOnly() {
		return nil, domain.ErrInvalidToken
	}

	now := e.now()
	trip := &schema.Trip{
		ID:          uuid.NewString(),
		TripName:    req.TripName,
		Destination: req.Destination,
		Budget:      req.Budget,
		Travelers:   req.Travelers,
		Status:      string(domain.TripStatusActive),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if trip.Travelers == 0 {
		trip.Travelers = 1
	}
	if req.StartDate != nil {
		trip.StartDate = &req.StartDate.Time
	}
	if req.EndDate != nil {
		trip.EndDate = &req.EndDate.Time
	}
	if actor.IsUser() {
		trip.UserID = &actor.UserID
	}
	if actor.SessionID != "" {
		sessionID := actor.SessionID
		trip.SessionID = &sessionID
	}

	if err := e.store.CreateTrip(ctx, trip); err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to create trip: %v", err))
	}

	resp := dto.MapTripToDTO(trip)
	return &resp, nil
}

func (e *executor) ListTrips(ctx context.Context, actor identity.Actor) (*dto.TripListResponse, error) {
	var userID *int64
	var sessionID *string
	if actor.IsUser() {
		userID = &actor.UserID
	}
	if actor.SessionID != "" {
		sid := actor.SessionID
		sessionID = &sid
	}

	summaries, err := e.store.ListTripsByOwner(ctx, userID, sessionID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list trips: %v", err))
	}

	resp := &dto.TripListResponse{
		Trips: make([]dto.TripResponse, len(summaries)),
		Total: len(summaries),
	}
	for i, summary := range summaries {
		resp.Trips[i] = dto.MapTripSummaryToDTO(summary)
	}
	return resp, nil
}

func (e *executor) GetTrip(ctx context.Context, actor identity.Actor, tripID string) (*dto.TripDetailResponse, error) {
	if _, err := e.authorizeTrip(ctx, actor, tripID); err != nil {
		return nil, err
	}

	detail, err := e.store.GetTripDetail(ctx, tripID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get trip: %v", err))
	}
	if detail == nil {
		return nil, domain.ErrNotFound
	}

	resp := dto.MapTripDetailToDTO(detail)
	return &resp, nil
}

func (e *executor) UpdateTrip(ctx context.Context, actor identity.Actor, tripID string, req *dto.UpdateTripRequest) (*dto.TripResponse, error) {
	trip, err := e.authorizeTrip(ctx, actor, tripID)
	if err != nil {
		return nil, err
	}

	if req.TripName != nil {
		trip.TripName = *req.TripName
	}
	if req.Destination != nil {
		trip.Destination = *req.Destination
	}
	if req.StartDate != nil {
		trip.StartDate = &req.StartDate.Time
	}
	if req.EndDate != nil {
		trip.EndDate = &req.EndDate.Time
	}
	if req.Budget != nil {
		trip.Budget = *req.Budget
	}
	if req.Travelers != nil {
		trip.Travelers = *req.Travelers
	}
	if req.Status != nil {
		trip.Status = *req.Status
	}
	if trip.StartDate != nil && trip.EndDate != nil && trip.EndDate.Before(*trip.StartDate) {
		return nil, apierrors.NewValidationError("endDate must not be before startDate")
	}
	trip.UpdatedAt = e.now()

	if err := e.store.UpdateTrip(ctx, trip); err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to update trip: %v", err))
	}

	resp := dto.MapTripToDTO(trip)
	return &resp, nil
}

func (e *executor) DeleteTrip(ctx context.Context, actor identity.Actor, tripID string) error {
	if _, err := e.authorizeTrip(ctx, actor, tripID); err != nil {
		return err
	}
	if err := e.store.DeleteTrip(ctx, tripID); err != nil {
		return apierrors.NewDatabaseError(fmt.Sprintf("Failed to delete trip: %v", err))
	}
	return nil
}

func (e *executor) AddDestination(ctx context.Context, actor identity.Actor, tripID string, req *dto.AddDestinationRequest) (*dto.DestinationResponse, error) {
	if _, err := e.authorizeTrip(ctx, actor, tripID); err != nil {
		return nil, err
	}

	dest := &schema.TripDestination{
		TripID:             tripID,
		DestinationID:      req.DestinationID,
		Name:               req.Name,
		City:               req.City,
		Province:           req.Province,
		Description:        req.Description,
		Category:           req.Category,
		Rating:             req.Rating,
		Budget:             req.Budget,
		Latitude:           req.Latitude,
		Longitude:          req.Longitude,
		OperatingHours:     req.OperatingHours,
		ContactInformation: req.ContactInformation,
		AddedAt:            e.now(),
	}
	if err := e.store.AddTripDestination(ctx, dest); err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to add destination: %v", err))
	}

	resp := dto.MapDestinationToDTO(dest)
	return &resp, nil
}

func (e *executor) RemoveDestination(ctx context.Context, actor identity.Actor, tripID string, destinationID int64) error {
	if _, err := e.authorizeTrip(ctx, actor, tripID); err != nil {
		return err
	}
	err := e.store.RemoveTripDestination(ctx, tripID, destinationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return apierrors.NewDatabaseError(fmt.Sprintf("Failed to remove destination: %v", err))
	}
	return nil
}

func (e *executor) SaveRoute(ctx context.Context, actor identity.Actor, tripID string, req *dto.SaveRouteRequest) (*dto.RouteResponse, error) {
	if _, err := e.authorizeTrip(ctx, actor, tripID); err != nil {
		return nil, err
	}

	route := &schema.TripRoute{
		TripID:       tripID,
		RouteData:    req.RouteData,
		DistanceKM:   req.DistanceKM,
		TimeMinutes:  req.TimeMinutes,
		RouteSource:  req.RouteSource,
		CalculatedAt: e.now(),
	}
	if err := e.store.ReplaceTripRoute(ctx, route); err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to save route: %v", err))
	}

	resp := dto.MapRouteToDTO(route)
	return &resp, nil
}

func (e *executor) GetRoute(ctx context.Context, actor identity.Actor, tripID string) (*dto.RouteResponse, error) {
	if _, err := e.authorizeTrip(ctx, actor, tripID); err != nil {
		return nil, err
	}

	route, err := e.store.GetLatestTripRoute(ctx, tripID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get route: %v", err))
	}
	if route == nil {
		return nil, domain.ErrNotFound
	}

	resp := dto.MapRouteToDTO(route)
	return &resp, nil
}

// authorizeTrip loads a trip and checks the actor owns it. Missing trips and
// ownership mismatches both come back as domain.ErrNotFound.
func (e *executor) authorizeTrip(ctx context.Context, actor identity.Actor, tripID string) (*schema.Trip, error) {
	trip, err := e.store.GetTripByID(ctx, tripID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get trip: %v", err))
	}
	if err := ownership.AuthorizeTrip(actor, trip); err != nil {
		return nil, err
	}
	return trip, nil
}
