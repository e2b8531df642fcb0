package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/wertigo/travel-planner/internal/api/shared/dto"
	apierrors "github.com/wertigo/travel-planner/internal/api/shared/errors"
)

const (
	defaultStatsWindow = 24 * time.Hour
	maxStatsWindow     = 90 * 24 * time.Hour
)

func (e *executor) InteractionStats(ctx context.Context, window time.Duration) (*dto.InteractionStatsResponse, error) {
	if window <= 0 {
		window = defaultStatsWindow
	}
	if window > maxStatsWindow {
		window = maxStatsWindow
	}
	since := e.now().Add(-window)

	counts, err := e.store.CountInteractionsByEvent(ctx, since)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to count interactions: %v", err))
	}

	return &dto.InteractionStatsResponse{Since: since, Counts: counts}, nil
}
