package database

import (
	"context"

	"github.com/ds124wfegd/avatar-fix/internal/entity"
)

// SessionRepository holds the single published result slot of every session.
//
// Begin starts an invocation and returns its generation. Finish publishes the
// result (nil means "no result") and clears the processing flag, but only when
// generation is still the newest one started for the session; otherwise it
// reports false and changes nothing.
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (*entity.SessionState, error)
	Begin(ctx context.Context, sessionID string) (int64, error)
	Finish(ctx context.Context, sessionID string, generation int64, published *entity.Published) (bool, error)
}
