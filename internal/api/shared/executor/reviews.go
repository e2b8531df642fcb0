package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/wertigo/travel-planner/internal/api/shared/dto"
	apierrors "github.com/wertigo/travel-planner/internal/api/shared/errors"
	"github.com/wertigo/travel-planner/internal/domain"
	"github.com/wertigo/travel-planner/internal/store/schema"
)

const (
	defaultReviewsLimit = 20
	maxReviewsLimit     = 100
)

func (e *executor) SubmitReview(ctx context.Context, req *dto.SubmitReviewRequest) (*dto.ReviewResponse, error) {
	now := e.now()
	review := &schema.Review{
		Destination: req.Destination,
		AuthorName:  req.AuthorName,
		Email:       req.Email,
		Rating:      req.Rating,
		Comment:     req.Comment,
		Approved:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.store.CreateReview(ctx, review); err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to create review: %v", err))
	}

	resp := dto.MapReviewToDTO(review)
	return &resp, nil
}

func (e *executor) ListReviews(ctx context.Context, destination string, limit, offset int) (*dto.ReviewListResponse, error) {
	if limit <= 0 {
		limit = defaultReviewsLimit
	}
	if limit > maxReviewsLimit {
		limit = maxReviewsLimit
	}
	if offset < 0 {
		offset = 0
	}

	reviews, total, err := e.store.ListApprovedReviews(ctx, destination, limit, offset)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list reviews: %v", err))
	}

	resp := &dto.ReviewListResponse{
		Reviews: make([]dto.ReviewResponse, len(reviews)),
		Total:   total,
	}
	for i, review := range reviews {
		resp.Reviews[i] = dto.MapReviewToDTO(review)
	}
	return resp, nil
}

func (e *executor) ReviewSummary(ctx context.Context, destination string) (*dto.ReviewSummaryResponse, error) {
	if destination == "" {
		return nil, apierrors.NewValidationError("destination is required")
	}

	summary, err := e.store.GetReviewSummary(ctx, destination)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get review summary: %v", err))
	}

	return &dto.ReviewSummaryResponse{
		Destination:   summary.Destination,
		ReviewCount:   summary.ReviewCount,
		AverageRating: summary.AverageRating,
		Distribution:  summary.Distribution,
	}, nil
}

func (e *executor) SetReviewApproval(ctx context.Context, reviewID int64, approved bool) (*dto.ReviewResponse, error) {
	err := e.store.SetReviewApproval(ctx, reviewID, approved)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to update review: %v", err))
	}

	review, err := e.store.GetReviewByID(ctx, reviewID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get review: %v", err))
	}
	if review == nil {
		return nil, domain.ErrNotFound
	}

	resp := dto.MapReviewToDTO(review)
	return &resp, nil
}

func (e *executor) DeleteReview(ctx context.Context, reviewID int64) error {
	err := e.store.DeleteReview(ctx, reviewID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return apierrors.NewDatabaseError(fmt.Sprintf("Failed to delete review: %v", err))
	}
	return nil
}
