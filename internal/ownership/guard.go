// Package ownership authorizes operations on owned and publicly shared
// records. Functions return nil to allow and a domain error to deny.
package ownership

import (
	"time"

	"github.com/wertigo/travel-planner/internal/domain"
	"github.com/wertigo/travel-planner/internal/identity"
	"github.com/wertigo/travel-planner/internal/store/schema"
)

// AuthorizeTrip allows the actor iff it matches the trip's owning user or
// owning session. Every other combination denies with domain.ErrNotFound so
// non-owners cannot distinguish "exists but not yours" from "does not exist".
func AuthorizeTrip(actor identity.Actor, trip *schema.Trip) error {
	if trip == nil {
		return domain.ErrNotFound
	}

	if actor.IsUser() && trip.UserID != nil && *trip.UserID == actor.UserID {
		return nil
	}
	if trip.SessionID != nil && *trip.SessionID != "" && actor.SessionID == *trip.SessionID {
		// A logged-in user keeps access to trips started in its session
		if actor.IsSession() || actor.IsUser() {
			return nil
		}
	}

	return domain.ErrNotFound
}

// AuthorizeTracker gates tracker access. State and temporal validity are
// checked before the email, so an expired tracker reports expiry even when
// the supplied email is wrong. An empty callerEmail permits access: the
// tracker id itself is the secret.
func AuthorizeTracker(tracker *schema.TripTracker, callerEmail string, now time.Time) error {
	if tracker == nil {
		return domain.ErrNotFound
	}
	if !tracker.IsActive {
		return domain.ErrTrackerInactive
	}
	if tracker.ExpiresAt != nil && tracker.ExpiresAt.Before(now) {
		return domain.ErrTrackerExpired
	}
	if callerEmail != "" && callerEmail != tracker.Email {
		// The caller already proved knowledge of the id; existence is not a
		// secret here, so a distinct denial is safe.
		return domain.ErrAccessDenied
	}
	return nil
}

// AuthorizeTicket allows the actor iff it matches the ticket's owning user or
// owning session, mirroring trip ownership.
func AuthorizeTicket(actor identity.Actor, ticket *schema.GeneratedTicket) error {
	if ticket == nil {
		return domain.ErrNotFound
	}

	if actor.IsUser() && ticket.UserID != nil && *ticket.UserID == actor.UserID {
		return nil
	}
	if ticket.SessionID != nil && *ticket.SessionID != "" && actor.SessionID == *ticket.SessionID {
		if actor.IsSession() || actor.IsUser() {
			return nil
		}
	}

	return domain.ErrNotFound
}
