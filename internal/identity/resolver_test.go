package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wertigo/travel-planner/internal/domain"
)

type fakeVerifier struct {
	userID int64
	err    error
}

func (f *fakeVerifier) Verify(string) (int64, error) {
	return f.userID, f.err
}

type fakePrincipals struct {
	principal *Principal
	err       error
}

func (f *fakePrincipals) GetPrincipal(context.Context, int64) (*Principal, error) {
	return f.principal, f.err
}

func TestResolve(t *testing.T) {
	alice := &Principal{ID: 7, Username: "alice", Email: "alice@example.com"}

	tests := []struct {
		name       string
		verifier   TokenVerifier
		principals PrincipalGetter
		creds      Credentials
		mode       Mode
		wantActor  Actor
		wantErr    error
	}{
		{
			name:      "no credentials resolves to unauthenticated",
			creds:     Credentials{},
			mode:      Optional,
			wantActor: Unauthenticated,
		},
		{
			name:      "session id alone resolves to session actor",
			creds:     Credentials{SessionID: "s-1"},
			mode:      Optional,
			wantActor: NewSessionActor("s-1"),
		},
		{
			name:       "valid token resolves to user actor",
			verifier:   &fakeVerifier{userID: 7},
			principals: &fakePrincipals{principal: alice},
			creds:      Credentials{BearerToken: "tok"},
			mode:       Optional,
			wantActor:  NewUserActor(7, "alice", "alice@example.com"),
		},
		{
			name:       "valid token keeps the session id alongside",
			verifier:   &fakeVerifier{userID: 7},
			principals: &fakePrincipals{principal: alice},
			creds:      Credentials{BearerToken: "tok", SessionID: "s-1"},
			mode:       Optional,
			wantActor: Actor{
				Kind: ActorUser, UserID: 7, Username: "alice",
				Email: "alice@example.com", SessionID: "s-1",
			},
		},
		{
			name:      "optional mode downgrades a bad token",
			verifier:  &fakeVerifier{err: domain.ErrInvalidToken},
			creds:     Credentials{BearerToken: "garbage"},
			mode:      Optional,
			wantActor: Unauthenticated,
		},
		{
			name:      "optional mode falls back to the session on a bad token",
			verifier:  &fakeVerifier{err: domain.ErrTokenExpired},
			creds:     Credentials{BearerToken: "stale", SessionID: "s-2"},
			mode:      Optional,
			wantActor: NewSessionActor("s-2"),
		},
		{
			name:     "mandatory mode surfaces an invalid token",
			verifier: &fakeVerifier{err: domain.ErrInvalidToken},
			creds:    Credentials{BearerToken: "garbage"},
			mode:     Mandatory,
			wantErr:  domain.ErrInvalidToken,
		},
		{
			name:     "mandatory mode surfaces an expired token",
			verifier: &fakeVerifier{err: domain.ErrTokenExpired},
			creds:    Credentials{BearerToken: "stale", SessionID: "s-2"},
			mode:     Mandatory,
			wantErr:  domain.ErrTokenExpired,
		},
		{
			name:       "mandatory mode rejects a token for a deleted user",
			verifier:   &fakeVerifier{userID: 9},
			principals: &fakePrincipals{},
			creds:      Credentials{BearerToken: "tok"},
			mode:       Mandatory,
			wantErr:    domain.ErrPrincipalNotFound,
		},
		{
			name:       "optional mode downgrades a token for a deleted user",
			verifier:   &fakeVerifier{userID: 9},
			principals: &fakePrincipals{},
			creds:      Credentials{BearerToken: "tok", SessionID: "s-3"},
			mode:       Optional,
			wantActor:  NewSessionActor("s-3"),
		},
		{
			name:       "principal lookup failure is surfaced in any mode",
			verifier:   &fakeVerifier{userID: 7},
			principals: &fakePrincipals{err: errors.New("db down")},
			creds:      Credentials{BearerToken: "tok"},
			mode:       Optional,
			wantErr:    errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.verifier, tt.principals)
			actor, err := r.Resolve(context.Background(), tt.creds, tt.mode)
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, domain.ErrInvalidToken) ||
					errors.Is(tt.wantErr, domain.ErrTokenExpired) ||
					errors.Is(tt.wantErr, domain.ErrPrincipalNotFound) {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantActor, actor)
		})
	}
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, IsAuthError(domain.ErrInvalidToken))
	assert.True(t, IsAuthError(domain.ErrTokenExpired))
	assert.True(t, IsAuthError(domain.ErrPrincipalNotFound))
	assert.False(t, IsAuthError(errors.New("db down")))
	assert.False(t, IsAuthError(nil))
}
