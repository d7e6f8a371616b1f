package sessions

import "context"

// Repo manages server-side storage of active sessions keyed by refresh token
// value. Implementations report errors.ErrSessionNotFound for unknown tokens.
//
// Rotate is a compare-and-swap: the record's value is replaced only while it
// still equals oldToken. Two concurrent refreshes presenting the same token
// race on this condition and exactly one wins; the loser observes
// ErrSessionNotFound and must force a fresh login.
type Repo interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, refreshToken string) (*Session, error)
	Rotate(ctx context.Context, oldToken, newToken string) error
	Delete(ctx context.Context, refreshToken string) error
	ListByUser(ctx context.Context, userID string) ([]*Session, error)
}
