package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskboard/internal/domain"
)

// LogoutInput contains no parameters.
type LogoutInput struct{}

// LogoutOutput reports who was signed out.
type LogoutOutput struct {
	Username string // Empty when nobody was signed in
}

// Logout forgets the session and drops the cached task list.
type Logout struct {
	sessions domain.SessionStore
	state    *domain.SessionState
	cache    domain.TaskCache
	logger   domain.Logger
}

// NewLogout creates a new Logout use case. cache may be nil.
func NewLogout(sessions domain.SessionStore, state *domain.SessionState, cache domain.TaskCache, logger domain.Logger) *Logout {
	return &Logout{
		sessions: sessions,
		state:    state,
		cache:    cache,
		logger:   logger,
	}
}

// Execute clears the persisted and in-memory session.
func (uc *Logout) Execute(_ context.Context, _ LogoutInput) (*LogoutOutput, error) {
	username := uc.state.Username()

	uc.state.Set(nil)
	if uc.cache != nil {
		uc.cache.Reset()
	}
	if err := uc.sessions.Clear(); err != nil {
		return nil, fmt.Errorf("clear session: %w", err)
	}

	if username != "" {
		uc.logger.Info(0, authCategory, fmt.Sprintf("signed out %s", username))
	}
	return &LogoutOutput{Username: username}, nil
}
