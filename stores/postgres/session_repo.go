package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	apperrors "github.com/popudev/server-ecommerce/internal/errors"
	"github.com/popudev/server-ecommerce/sessions"
)

type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) Create(ctx context.Context, session *sessions.Session) error {
	query := `INSERT INTO sessions (refresh_token, user_id, agent, os, device, location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		session.RefreshToken, session.UserID, session.Agent, session.OS,
		session.Device, session.Location, session.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "[SessionRepo.Create] insert")
	}
	return nil
}

func (r *SessionRepo) Get(ctx context.Context, refreshToken string) (*sessions.Session, error) {
	query := `SELECT refresh_token, user_id, agent, os, device, location, created_at
		FROM sessions WHERE refresh_token = $1`

	session := &sessions.Session{}
	err := r.db.QueryRowContext(ctx, query, refreshToken).Scan(
		&session.RefreshToken, &session.UserID, &session.Agent, &session.OS,
		&session.Device, &session.Location, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, errors.Wrap(err, "[SessionRepo.Get] scan")
	}
	return session, nil
}

// Rotate swaps the stored token value in a single conditional UPDATE. The row
// predicate is the compare half of the compare-and-swap: of two racing
// refreshes only one finds the old value still present.
func (r *SessionRepo) Rotate(ctx context.Context, oldToken, newToken string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET refresh_token = $2 WHERE refresh_token = $1`,
		oldToken, newToken)
	if err != nil {
		return errors.Wrap(err, "[SessionRepo.Rotate] update")
	}
	return requireRowAffected(result, apperrors.ErrSessionNotFound)
}

func (r *SessionRepo) Delete(ctx context.Context, refreshToken string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE refresh_token = $1`, refreshToken); err != nil {
		return errors.Wrap(err, "[SessionRepo.Delete] delete")
	}
	return nil
}

func (r *SessionRepo) ListByUser(ctx context.Context, userID string) ([]*sessions.Session, error) {
	query := `SELECT refresh_token, user_id, agent, os, device, location, created_at
		FROM sessions WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errors.Wrap(err, "[SessionRepo.ListByUser] query")
	}
	defer rows.Close()

	var list []*sessions.Session
	for rows.Next() {
		session := &sessions.Session{}
		if err := rows.Scan(&session.RefreshToken, &session.UserID, &session.Agent,
			&session.OS, &session.Device, &session.Location, &session.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "[SessionRepo.ListByUser] scan")
		}
		list = append(list, session)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "[SessionRepo.ListByUser] rows")
	}
	return list, nil
}
