package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/wertigo/travel-planner/internal/domain"
)

// Mode selects how resolution failures are reported
type Mode int

const (
	// Optional resolution downgrades token failures to an unauthenticated actor
	Optional Mode = iota
	// Mandatory resolution surfaces token failures to the caller
	Mandatory
)

// Credentials carries the raw token and session-identifier candidates
// extracted from a request by the HTTP layer
type Credentials struct {
	BearerToken string
	SessionID   string
}

// Principal is the non-secret profile of an authenticated user
type Principal struct {
	ID       int64
	Username string
	Email    string
}

// TokenVerifier validates a bearer token and returns the user it references.
// Implementations report domain.ErrInvalidToken for malformed tokens and
// domain.ErrTokenExpired for expired ones.
type TokenVerifier interface {
	Verify(token string) (userID int64, err error)
}

// PrincipalGetter looks up a user's non-secret profile by id. A missing user
// yields (nil, nil).
type PrincipalGetter interface {
	GetPrincipal(ctx context.Context, userID int64) (*Principal, error)
}

// Resolver classifies request credentials into an Actor
type Resolver struct {
	verifier   TokenVerifier
	principals PrincipalGetter
}

// NewResolver creates a Resolver with its collaborators injected
func NewResolver(verifier TokenVerifier, principals PrincipalGetter) *Resolver {
	return &Resolver{verifier: verifier, principals: principals}
}

// Resolve turns credentials into an Actor. A bearer token takes precedence
// over a session identifier. In Optional mode any token failure resolves to
// Unauthenticated (or the session actor, if a session id is present); in
// Mandatory mode token failures are returned as domain errors.
func (r *Resolver) Resolve(ctx context.Context, creds Credentials, mode Mode) (Actor, error) {
	if creds.BearerToken == "" {
		if creds.SessionID != "" {
			return NewSessionActor(creds.SessionID), nil
		}
		return Unauthenticated, nil
	}

	userID, err := r.verifier.Verify(creds.BearerToken)
	if err != nil {
		if mode == Mandatory {
			return Unauthenticated, err
		}
		return r.fallback(creds), nil
	}

	principal, err := r.principals.GetPrincipal(ctx, userID)
	if err != nil {
		return Unauthenticated, fmt.Errorf("failed to look up principal: %w", err)
	}
	if principal == nil {
		// Token was valid but the user is gone
		if mode == Mandatory {
			return Unauthenticated, domain.ErrPrincipalNotFound
		}
		return r.fallback(creds), nil
	}

	actor := NewUserActor(principal.ID, principal.Username, principal.Email)
	actor.SessionID = creds.SessionID
	return actor, nil
}

// fallback resolves to the session actor when a session id accompanies a
// failed token, else to Unauthenticated
func (r *Resolver) fallback(creds Credentials) Actor {
	if creds.SessionID != "" {
		return NewSessionActor(creds.SessionID)
	}
	return Unauthenticated
}

// IsAuthError reports whether err belongs to the authentication error family
func IsAuthError(err error) bool {
	return errors.Is(err, domain.ErrInvalidToken) ||
		errors.Is(err, domain.ErrTokenExpired) ||
		errors.Is(err, domain.ErrPrincipalNotFound)
}
