package store

import (
	"context"

	"github.com/wertigo/travel-planner/internal/identity"
)

type principalGetter struct {
	users UserStore
}

// NewPrincipalGetter adapts the user store to the identity resolver's
// principal lookup.
func NewPrincipalGetter(users UserStore) identity.PrincipalGetter {
	return &principalGetter{users: users}
}

func (g *principalGetter) GetPrincipal(ctx context.Context, userID int64) (*identity.Principal, error) {
	user, err := g.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return &identity.Principal{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}
