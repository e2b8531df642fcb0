package executor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wertigo/travel-planner/internal/api/shared/dto"
	apierrors "github.com/wertigo/travel-planner/internal/api/shared/errors"
	"github.com/wertigo/travel-planner/internal/crypto"
	"github.com/wertigo/travel-planner/internal/domain"
	"github.com/wertigo/travel-planner/internal/identity"
	"github.com/wertigo/travel-planner/internal/store/schema"
)

func (e *executor) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	taken, err := e.store.UserExists(ctx, req.Username, req.Email)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to check user existence: %v", err))
	}
	if taken {
		return nil, apierrors.NewConflictError("Username or email already registered")
	}

	salt, err := crypto.RandBytes(crypto.SaltLen)
	if err != nil {
		return nil, apierrors.NewInternalError("Failed to generate salt")
	}

	user := &schema.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: crypto.HashPassword([]byte(req.Password), salt),
		PasswordSalt: salt,
	}
	if req.FirstName != "" {
		user.FirstName = &req.FirstName
	}
	if req.LastName != "" {
		user.LastName = &req.LastName
	}

	if err := e.store.CreateUser(ctx, user); err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to create user: %v", err))
	}

	return e.openSession(ctx, user)
}

func (e *executor) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := e.store.GetUserByLogin(ctx, req.Login)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to look up user: %v", err))
	}
	if user == nil || !crypto.VerifyPassword([]byte(req.Password), user.PasswordSalt, user.PasswordHash) {
		// Same answer for unknown user and wrong password
		return nil, apierrors.NewUnauthorizedError("Invalid credentials")
	}

	return e.openSession(ctx, user)
}

// openSession issues a token and a server-side session for the user
func (e *executor) openSession(ctx context.Context, user *schema.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := e.issuer.Issue(user.ID)
	if err != nil {
		return nil, apierrors.NewInternalError(fmt.Sprintf("Failed to issue token: %v", err))
	}

	session := &schema.UserSession{
		UserID:    user.ID,
		SessionID: uuid.NewString(),
		ExpiresAt: e.now().Add(e.config.SessionTTL),
	}
	if err := e.store.CreateSession(ctx, session); err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to create session: %v", err))
	}

	return &dto.AuthResponse{
		User:      dto.MapUserToDTO(user),
		Token:     token,
		SessionID: session.SessionID,
		ExpiresAt: expiresAt,
	}, nil
}

func (e *executor) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := e.store.DeleteSession(ctx, sessionID); err != nil {
		return apierrors.NewDatabaseError(fmt.Sprintf("Failed to delete session: %v", err))
	}
	return nil
}

func (e *executor) ValidateSession(ctx context.Context, sessionID string) (*dto.SessionStatusResponse, error) {
	if sessionID == "" {
		return nil, apierrors.NewValidationError("session id is required")
	}

	session, err := e.store.GetActiveSession(ctx, sessionID, e.now())
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to look up session: %v", err))
	}
	if session == nil {
		return &dto.SessionStatusResponse{Valid: false}, nil
	}
	return &dto.SessionStatusResponse{
		Valid:     true,
		UserID:    &session.UserID,
		ExpiresAt: &session.ExpiresAt,
	}, nil
}

func (e *executor) GetProfile(ctx context.Context, actor identity.Actor) (*dto.UserResponse, error) {
	user, err := e.requireUser(ctx, actor)
	if err != nil {
		return nil, err
	}
	resp := dto.MapUserToDTO(user)
	return &resp, nil
}

func (e *executor) UpdateProfile(ctx context.Context, actor identity.Actor, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := e.requireUser(ctx, actor)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		taken, err := e.store.EmailTaken(ctx, *req.Email, user.ID)
		if err != nil {
			return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to check email: %v", err))
		}
		if taken {
			return nil, apierrors.NewConflictError("Email already registered")
		}
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = req.LastName
	}
	if req.Password != nil {
		salt, err := crypto.RandBytes(crypto.SaltLen)
		if err != nil {
			return nil, apierrors.NewInternalError("Failed to generate salt")
		}
		user.PasswordSalt = salt
		user.PasswordHash = crypto.HashPassword([]byte(*req.Password), salt)
	}
	user.UpdatedAt = e.now()

	if err := e.store.UpdateUserProfile(ctx, user); err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to update profile: %v", err))
	}

	resp := dto.MapUserToDTO(user)
	return &resp, nil
}

// requireUser resolves the actor to its user record, rejecting anonymous
// callers
func (e *executor) requireUser(ctx context.Context, actor identity.Actor) (*schema.User, error) {
	if !actor.IsUser() {
		return nil, domain.ErrInvalidToken
	}
	user, err := e.store.GetUserByID(ctx, actor.UserID)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to look up user: %v", err))
	}
	if user == nil {
		return nil, domain.ErrPrincipalNotFound
	}
	return user, nil
}
