// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/runoshun/taskboard/internal/domain"
)

const authCategory = "auth"

// LoginInput contains the credentials for signing in.
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput contains the signed-in session.
type LoginOutput struct {
	Session *domain.Session
}

// Login exchanges credentials for a token, resolves the user and persists both.
// Fields are ordered to minimize memory padding.
type Login struct {
	auth     domain.AuthAPI
	sessions domain.SessionStore
	state    *domain.SessionState
	logger   domain.Logger
}

// NewLogin creates a new Login use case.
func NewLogin(auth domain.AuthAPI, sessions domain.SessionStore, state *domain.SessionState, logger domain.Logger) *Login {
	return &Login{
		auth:     auth,
		sessions: sessions,
		state:    state,
		logger:   logger,
	}
}

// Execute signs in. Nothing is persisted unless both the token exchange
// and the user lookup succeed.
func (uc *Login) Execute(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	if strings.TrimSpace(in.Username) == "" {
		return nil, domain.ErrEmptyUsername
	}

	token, err := uc.auth.Login(ctx, in.Username, in.Password)
	if err != nil {
		uc.logger.Warn(0, authCategory, fmt.Sprintf("login failed for %q: %v", in.Username, err))
		if errors.Is(err, domain.ErrNoAccessToken) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrLoginFailed, err)
	}
	if token == "" {
		return nil, domain.ErrNoAccessToken
	}

	user, err := uc.auth.Me(ctx, token)
	if err != nil {
		uc.logger.Warn(0, authCategory, fmt.Sprintf("user lookup failed: %v", err))
		return nil, fmt.Errorf("%w: %w", domain.ErrUserInfo, err)
	}

	session := &domain.Session{Token: token, User: *user}
	if err := uc.sessions.Save(session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	uc.state.Set(session)

	uc.logger.Info(0, authCategory, fmt.Sprintf("signed in as %s", user.Username))
	return &LoginOutput{Session: session}, nil
}
