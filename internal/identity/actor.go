// Package identity resolves request credentials into an Actor used to scope
// ownership queries.
package identity

// ActorKind discriminates the Actor union
type ActorKind string

const (
	// ActorUser is an authenticated user resolved from a bearer token
	ActorUser ActorKind = "user"
	// ActorSession is an anonymous session resolved from a session identifier
	ActorSession ActorKind = "session"
	// ActorNone is an unauthenticated caller
	ActorNone ActorKind = "none"
)

// Actor is the resolved identity behind a request. It is derived per request
// and never persisted.
type Actor struct {
	Kind      ActorKind
	UserID    int64
	Username  string
	Email     string
	SessionID string
}

// Unauthenticated is the zero-value Actor with an explicit kind
var Unauthenticated = Actor{Kind: ActorNone}

// NewUserActor builds an authenticated-user actor
func NewUserActor(id int64, username, email string) Actor {
	return Actor{Kind: ActorUser, UserID: id, Username: username, Email: email}
}

// NewSessionActor builds an anonymous-session actor
func NewSessionActor(sessionID string) Actor {
	return Actor{Kind: ActorSession, SessionID: sessionID}
}

// IsUser reports whether the actor is an authenticated user
func (a Actor) IsUser() bool {
	return a.Kind == ActorUser
}

// IsSession reports whether the actor is an anonymous session
func (a Actor) IsSession() bool {
	return a.Kind == ActorSession
}

// IsAnonymousOnly reports whether the actor carries no identity at all
func (a Actor) IsAnonymousOnly() bool {
	return a.Kind == ActorNone
}
