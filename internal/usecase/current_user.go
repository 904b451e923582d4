package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/taskboard/internal/domain"
)

// CurrentUserInput contains the parameters for CurrentUser.
type CurrentUserInput struct {
	Verify bool // Ask the server to confirm the token
}

// CurrentUserOutput contains the signed-in user.
type CurrentUserOutput struct {
	User domain.User
}

// CurrentUser returns the signed-in user.
type CurrentUser struct {
	auth  domain.AuthAPI
	state *domain.SessionState
}

// NewCurrentUser creates a new CurrentUser use case.
func NewCurrentUser(auth domain.AuthAPI, state *domain.SessionState) *CurrentUser {
	return &CurrentUser{auth: auth, state: state}
}

// Execute returns domain.ErrNotLoggedIn when no session is held.
func (uc *CurrentUser) Execute(ctx context.Context, in CurrentUserInput) (*CurrentUserOutput, error) {
	session := uc.state.Current()
	if !session.HasToken() {
		return nil, domain.ErrNotLoggedIn
	}
	if !in.Verify {
		return &CurrentUserOutput{User: session.User}, nil
	}

	user, err := uc.auth.Me(ctx, session.Token)
	if err != nil {
		if errors.Is(err, domain.ErrNotLoggedIn) {
			return nil, domain.ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrUserInfo, err)
	}
	return &CurrentUserOutput{User: *user}, nil
}

// RestoreSessionInput contains no parameters.
type RestoreSessionInput struct{}

// RestoreSessionOutput reports the hydrated session.
type RestoreSessionOutput struct {
	Session *domain.Session // nil when signed out
	Expired bool            // A stored session was dropped because its token expired
}

// RestoreSession loads the persisted session into the in-memory state at startup.
type RestoreSession struct {
	sessions domain.SessionStore
	state    *domain.SessionState
	logger   domain.Logger
}

// NewRestoreSession creates a new RestoreSession use case.
func NewRestoreSession(sessions domain.SessionStore, state *domain.SessionState, logger domain.Logger) *RestoreSession {
	return &RestoreSession{sessions: sessions, state: state, logger: logger}
}

// Execute never fails on an expired session; it reports it and leaves the user signed out.
func (uc *RestoreSession) Execute(_ context.Context, _ RestoreSessionInput) (*RestoreSessionOutput, error) {
	session, err := uc.sessions.Load()
	if errors.Is(err, domain.ErrSessionExpired) {
		uc.state.Set(nil)
		uc.logger.Warn(0, authCategory, "stored session expired")
		return &RestoreSessionOutput{Expired: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !session.HasToken() {
		session = nil
	}

	uc.state.Set(session)
	if session != nil {
		uc.logger.Debug(0, authCategory, fmt.Sprintf("restored session for %s", session.Username()))
	}
	return &RestoreSessionOutput{Session: session}, nil
}
