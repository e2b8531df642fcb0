package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/wertigo/travel-planner/internal/api/shared/dto"
	apierrors "github.com/wertigo/travel-planner/internal/api/shared/errors"
	"github.com/wertigo/travel-planner/internal/audit"
	"github.com/wertigo/travel-planner/internal/codegen"
	"github.com/wertigo/travel-planner/internal/domain"
	"github.com/wertigo/travel-planner/internal/identity"
	"github.com/wertigo/travel-planner/internal/ownership"
	"github.com/wertigo/travel-planner/internal/store/schema"
)

func (e *executor) CreateTracker(ctx context.Context, actor identity.Actor, req *dto.CreateTrackerRequest) (*dto.TrackerResponse, error) {
	if _, err := e.authorizeTrip(ctx, actor, req.TripID); err != nil {
		return nil, err
	}

	var tracker *schema.TripTracker
	for attempt := 0; attempt < e.config.MaxMintAttempts; attempt++ {
		code, err := e.trackers.Generate(ctx, domain.CodeTypeTracker, codegen.Options{})
		if err != nil {
			return nil, err
		}

		now := e.now()
		candidate := &schema.TripTracker{
			TrackerID:    code,
			TripID:       req.TripID,
			Email:        req.Email,
			TravelerName: req.TravelerName,
			Phone:        req.Phone,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if e.config.TrackerTTL > 0 {
			expiresAt := now.Add(e.config.TrackerTTL)
			candidate.ExpiresAt = &expiresAt
		}

		err = e.store.CreateTracker(ctx, candidate)
		if err == nil {
			tracker = candidate
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to store tracker: %v", err))
	}
	if tracker == nil {
		return nil, domain.ErrRetriesExhausted
	}

	resp := dto.MapTrackerToDTO(tracker)
	return &resp, nil
}

func (e *executor) TrackTrip(ctx context.Context, trackerID, email string, meta ClientMeta) (*dto.TrackedTripResponse, error) {
	trackerID = strings.ToUpper(strings.TrimSpace(trackerID))
	email = strings.TrimSpace(strings.ToLower(email))

	tracker, err := e.store.GetTrackerByTrackerID(ctx, trackerID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get tracker: %v", err))
	}
	if err := ownership.AuthorizeTracker(tracker, email, e.now()); err != nil {
		return nil, err
	}

	detail, err := e.store.GetTripDetail(ctx, tracker.TripID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get tracked trip: %v", err))
	}
	if detail == nil {
		// The trip behind the tracker is gone
		return nil, domain.ErrNotFound
	}

	// Counted only after every access check passed
	if err := e.store.IncrementTrackerAccess(ctx, trackerID, e.now()); err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to count access: %v", err))
	}
	tracker.AccessCount++

	e.recordEvent(identity.Unauthenticated, audit.Event{
		Type:        string(schema.InteractionTrackerAccessed),
		SubjectType: "tracker",
		SubjectID:   trackerID,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
	})

	return &dto.TrackedTripResponse{
		Tracker: dto.MapTrackerToDTO(tracker),
		Trip:    dto.MapTripDetailToDTO(detail),
	}, nil
}

func (e *executor) ListTrackersByEmail(ctx context.Context, email string) (*dto.TrackerListResponse, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, apierrors.NewValidationError("email is required")
	}

	summaries, err := e.store.ListTrackersByEmail(ctx, email)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list trackers: %v", err))
	}

	resp := &dto.TrackerListResponse{
		Trackers: make([]dto.TrackerSummaryResponse, len(summaries)),
		Total:    len(summaries),
	}
	for i, summary := range summaries {
		resp.Trackers[i] = dto.MapTrackerSummaryToDTO(summary)
	}
	return resp, nil
}

func (e *executor) DeactivateTracker(ctx context.Context, trackerID, email string) error {
	trackerID = strings.ToUpper(strings.TrimSpace(trackerID))
	email = strings.TrimSpace(strings.ToLower(email))

	deactivated, err := e.store.DeactivateTracker(ctx, trackerID, email)
	if err != nil {
		return apierrors.NewDatabaseError(fmt.Sprintf("Failed to deactivate tracker: %v", err))
	}
	if !deactivated {
		// Distinguish a wrong email from a missing or already-inactive tracker
		tracker, err := e.store.GetTrackerByTrackerID(ctx, trackerID)
		if err != nil {
			return apierrors.NewDatabaseError(fmt.Sprintf("Failed to get tracker: %v", err))
		}
		if tracker == nil || !tracker.IsActive {
			return domain.ErrNotFound
		}
		return domain.ErrAccessDenied
	}
	return nil
}
