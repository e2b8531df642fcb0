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

func (e *executor) GenerateTicket(ctx context.Context, actor identity.Actor, req *dto.GenerateTicketRequest, meta ClientMeta) (*dto.TicketResponse, error) {
	if actor.IsAnonymousOnly() {
		return nil, domain.ErrInvalidToken
	}

	codeType := domain.CodeType(req.Type)
	opts := codegen.Options{}
	if req.IncludeTimestamp != nil && !*req.IncludeTimestamp {
		opts.DisableTimestamp = true
	}

	// The generator pre-checks candidates, but a concurrent mint can still
	// hit the unique constraint. A duplicate-key insert counts as one more
	// collision and burns an attempt.
	var ticket *schema.GeneratedTicket
	for attempt := 0; attempt < e.config.MaxMintAttempts; attempt++ {
		code, err := e.tickets.Generate(ctx, codeType, opts)
		if err != nil {
			return nil, err
		}

		now := e.now()
		candidate := &schema.GeneratedTicket{
			TicketID:         code,
			TicketType:       string(codeType),
			IncludeTimestamp: !opts.DisableTimestamp,
			Metadata:         req.Metadata,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if actor.IsUser() {
			candidate.UserID = &actor.UserID
		}
		if actor.SessionID != "" {
			sessionID := actor.SessionID
			candidate.SessionID = &sessionID
		}

		err = e.store.CreateTicket(ctx, candidate)
		if err == nil {
			ticket = candidate
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to store ticket: %v", err))
	}
	if ticket == nil {
		return nil, domain.ErrRetriesExhausted
	}

	e.recordEvent(actor, audit.Event{
		Type:        string(schema.InteractionTicketGenerated),
		SubjectType: "ticket",
		SubjectID:   ticket.TicketID,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
	})

	resp := dto.MapTicketToDTO(ticket)
	return &resp, nil
}

func (e *executor) ListTickets(ctx context.Context, actor identity.Actor, limit int) (*dto.TicketListResponse, error) {
	userID, sessionID, err := ownerKeys(actor)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > e.config.TicketHistoryLimit {
		limit = e.config.TicketHistoryLimit
	}
	tickets, err := e.store.ListTickets(ctx, userID, sessionID, limit)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list tickets: %v", err))
	}

	resp := &dto.TicketListResponse{
		Tickets: make([]dto.TicketResponse, len(tickets)),
		Total:   len(tickets),
	}
	for i, ticket := range tickets {
		resp.Tickets[i] = dto.MapTicketToDTO(ticket)
	}
	return resp, nil
}

func (e *executor) MarkTicketUsed(ctx context.Context, actor identity.Actor, code string, meta ClientMeta) (*dto.TicketResponse, error) {
	if _, err := e.authorizeTicket(ctx, actor, code); err != nil {
		return nil, err
	}

	ticket, err := e.store.MarkTicketUsed(ctx, code, e.now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrTicketAlreadyUsed) {
			return nil, err
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to mark ticket used: %v", err))
	}

	e.recordEvent(actor, audit.Event{
		Type:        string(schema.InteractionTicketUsed),
		SubjectType: "ticket",
		SubjectID:   ticket.TicketID,
		IPAddress:   meta.IPAddress,
		UserAgent:   meta.UserAgent,
	})

	resp := dto.MapTicketToDTO(ticket)
	return &resp, nil
}

func (e *executor) GetTicket(ctx context.Context, actor identity.Actor, code string) (*dto.TicketResponse, error) {
	ticket, err := e.authorizeTicket(ctx, actor, code)
	if err != nil {
		return nil, err
	}
	resp := dto.MapTicketToDTO(ticket)
	return &resp, nil
}

func (e *executor) TicketStats(ctx context.Context, actor identity.Actor) (*dto.TicketStatsResponse, error) {
	userID, sessionID, err := ownerKeys(actor)
	if err != nil {
		return nil, err
	}

	stats, err := e.store.GetTicketStats(ctx, userID, sessionID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get ticket stats: %v", err))
	}

	return &dto.TicketStatsResponse{
		Total:  stats.Total,
		Used:   stats.Used,
		Unused: stats.Unused,
		ByType: stats.ByType,
	}, nil
}

func (e *executor) ClearTickets(ctx context.Context, actor identity.Actor) (*dto.ClearTicketsResponse, error) {
	userID, sessionID, err := ownerKeys(actor)
	if err != nil {
		return nil, err
	}

	deleted, err := e.store.ClearTickets(ctx, userID, sessionID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to clear tickets: %v", err))
	}
	return &dto.ClearTicketsResponse{Deleted: deleted}, nil
}

func (e *executor) TicketFormats() []dto.TicketFormatResponse {
	descriptions := map[domain.CodeType]string{
		domain.CodeTypeFlight:       "Flight ticket",
		domain.CodeTypeBus:          "Bus ticket",
		domain.CodeTypeFerry:        "Ferry ticket",
		domain.CodeTypeTrain:        "Train ticket",
		domain.CodeTypeHotel:        "Hotel booking",
		domain.CodeTypeTour:         "Tour booking",
		domain.CodeTypeBookingRef:   "Short booking reference",
		domain.CodeTypeConfirmation: "Confirmation number",
	}

	formats := make([]dto.TicketFormatResponse, 0, len(domain.TicketCodeTypes))
	for _, t := range domain.TicketCodeTypes {
		formats = append(formats, dto.TicketFormatResponse{
			Type:        string(t),
			Prefix:      codegen.Prefix(t),
			Example:     e.tickets.Preview(t, codegen.Options{}),
			Description: descriptions[t],
		})
	}
	return formats
}

func (e *executor) ValidateTicketCode(ctx context.Context, code string) (*dto.TicketValidationResponse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, apierrors.NewValidationError("code is required")
	}

	resp := &dto.TicketValidationResponse{Code: code}
	codeType, known := codegen.Classify(code)
	if !known {
		return resp, nil
	}
	resp.Valid = true
	resp.CodeType = string(codeType)

	var (
		exists bool
		err    error
	)
	if codeType == domain.CodeTypeTracker {
		exists, err = e.store.TrackerCodeExists(ctx, code)
	} else {
		exists, err = e.store.TicketCodeExists(ctx, code)
	}
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to check code: %v", err))
	}
	resp.Exists = exists
	return resp, nil
}

// authorizeTicket loads a ticket and checks the actor owns it
func (e *executor) authorizeTicket(ctx context.Context, actor identity.Actor, code string) (*schema.GeneratedTicket, error) {
	ticket, err := e.store.GetTicketByCode(ctx, code)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get ticket: %v", err))
	}
	if err := ownership.AuthorizeTicket(actor, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// ownerKeys extracts the ownership scope of an actor, rejecting callers with
// no identity at all
func ownerKeys(actor identity.Actor) (*int64, string, error) {
	if actor.IsUser() {
		return &actor.UserID, actor.SessionID, nil
	}
	if actor.SessionID != "" {
		return nil, actor.SessionID, nil
	}
	return nil, "", domain.ErrInvalidToken
}

// recordEvent attaches the actor to the event and hands it to the recorder
func (e *executor) recordEvent(actor identity.Actor, event audit.Event) {
	if e.audit == nil {
		return
	}
	if actor.IsUser() {
		userID := actor.UserID
		event.ActorUserID = &userID
	}
	event.ActorSessionID = actor.SessionID
	e.audit.Record(event)
}
