package middleware

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apierrors "github.com/wertigo/travel-planner/internal/api/shared/errors"
	"github.com/wertigo/travel-planner/internal/domain"
	"github.com/wertigo/travel-planner/internal/identity"
)

const (
	// ActorKey is the gin context key the resolved actor is stored under
	ActorKey = "actor"

	sessionHeader = "X-Session-ID"
	sessionQuery  = "session_id"
	sessionCookie = "session_id"

	// maxBodyPeek bounds how much of a JSON body is read for session extraction
	maxBodyPeek = 1 << 20
)

// AuthConfig holds authentication configuration for the middleware layer
type AuthConfig struct {
	Resolver     *identity.Resolver
	AdminAPIKeys []string
}

// ExtractCredentials pulls the bearer token and session id candidates out of
// a request. Session id precedence: header, JSON body, query, cookie.
func ExtractCredentials(c *gin.Context) identity.Credentials {
	creds := identity.Credentials{}

	authHeader := c.GetHeader("Authorization")
	if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		creds.BearerToken = strings.TrimSpace(parts[1])
	}

	creds.SessionID = extractSessionID(c)
	return creds
}

func extractSessionID(c *gin.Context) string {
	if sid := c.GetHeader(sessionHeader); sid != "" {
		return sid
	}
	if sid := peekBodySessionID(c); sid != "" {
		return sid
	}
	if sid := c.Query(sessionQuery); sid != "" {
		return sid
	}
	if sid, err := c.Cookie(sessionCookie); err == nil && sid != "" {
		return sid
	}
	return ""
}

// peekBodySessionID reads a JSON body looking for a sessionId or session_id
// field and puts the body back so binding still works downstream.
func peekBodySessionID(c *gin.Context) string {
	if c.Request.Body == nil || !strings.HasPrefix(c.ContentType(), "application/json") {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyPeek))
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var probe struct {
		SessionID      string `json:"sessionId"`
		SessionIDSnake string `json:"session_id"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return ""
	}
	if probe.SessionID != "" {
		return probe.SessionID
	}
	return probe.SessionIDSnake
}

// ResolveActor resolves request credentials into an actor and stores it in
// the gin context. In Optional mode failures downgrade to an anonymous
// actor; in Mandatory mode they abort with 401.
func ResolveActor(cfg AuthConfig, mode identity.Mode) gin.HandlerFunc {
	return func(c *gin.Context) {
		creds := ExtractCredentials(c)

		actor, err := cfg.Resolver.Resolve(c.Request.Context(), creds, mode)
		if err != nil {
			if identity.IsAuthError(err) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, apierrors.NewUnauthorizedError(authErrorMessage(err)))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, apierrors.NewInternalError("Failed to resolve identity"))
			return
		}

		if mode == identity.Mandatory && !actor.IsUser() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierrors.NewUnauthorizedError("Authentication required"))
			return
		}

		c.Set(ActorKey, actor)
		c.Next()
	}
}

func authErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "Token expired"
	case errors.Is(err, domain.ErrPrincipalNotFound):
		return "Account no longer exists"
	default:
		return "Invalid token"
	}
}

// ActorFrom returns the actor resolved by ResolveActor, or the
// unauthenticated actor when the middleware did not run.
func ActorFrom(c *gin.Context) identity.Actor {
	if v, ok := c.Get(ActorKey); ok {
		if actor, ok := v.(identity.Actor); ok {
			return actor
		}
	}
	return identity.Unauthenticated
}

// AdminAPIKey authorizes admin-only endpoints with a static API key, sent as
// either "Authorization: APIKey <key>" or the X-API-Key header.
func AdminAPIKey(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" {
			if parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "apikey") {
				key = strings.TrimSpace(parts[1])
			}
		}
		if key == "" || !matchAPIKey(key, cfg.AdminAPIKeys) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierrors.NewForbiddenError("Admin API key required"))
			return
		}
		c.Next()
	}
}

func matchAPIKey(key string, keys []string) bool {
	for _, candidate := range keys {
		if candidate != "" && subtle.ConstantTimeCompare([]byte(key), []byte(candidate)) == 1 {
			return true
		}
	}
	return false
}
