package executor

import (
	"context"
	"strings"

	"github.com/wertigo/travel-planner/internal/api/shared/dto"
	apierrors "github.com/wertigo/travel-planner/internal/api/shared/errors"
	"github.com/wertigo/travel-planner/internal/domain"
	"github.com/wertigo/travel-planner/internal/identity"
)

// Search dispatches a code lookup on its shape: tracker codes start with the
// tracker prefix, everything else is treated as a ticket code. Tracker hits
// count as accesses just like a direct lookup.
func (e *executor) Search(ctx context.Context, actor identity.Actor, code, email string, meta ClientMeta) (*dto.SearchResponse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, apierrors.NewValidationError("code is required")
	}

	if strings.HasPrefix(code, domain.TrackerPrefix) {
		tracked, err := e.TrackTrip(ctx, code, email, meta)
		if err != nil {
			return nil, err
		}
		return &dto.SearchResponse{Kind: "tracker", Tracker: tracked}, nil
	}

	ticket, err := e.GetTicket(ctx, actor, code)
	if err != nil {
		return nil, err
	}
	return &dto.SearchResponse{Kind: "ticket", Ticket: ticket}, nil
}
