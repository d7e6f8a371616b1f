package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	apperrors "github.com/popudev/server-ecommerce/internal/errors"
	"github.com/popudev/server-ecommerce/users"
)

const uniqueViolation = "23505"

const userColumns = `id, provider, provider_id, username, fullname, email, phone,
	avatar, password_hash, admin, verify, created_at, updated_at`

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	stored := *user
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if stored.Provider == "" {
		stored.Provider = users.ProviderLocal
	}

	query := `INSERT INTO users (id, provider, provider_id, username, fullname, email, phone,
		avatar, password_hash, admin, verify, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		stored.ID, stored.Provider, stored.ProviderID, stored.Username, stored.Fullname,
		stored.Email, stored.Phone, stored.Avatar, stored.PasswordHash,
		stored.Admin, stored.Verify, stored.CreatedAt, stored.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperrors.ErrDuplicateUser
		}
		return nil, errors.Wrap(err, "[UserRepo.Create] insert")
	}

	return &stored, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepo) GetByProviderID(ctx context.Context, provider users.Provider, providerID string) (*users.User, error) {
	return r.getOne(ctx,
		`SELECT `+userColumns+` FROM users WHERE provider = $1 AND provider_id = $2`,
		provider, providerID)
}

func (r *UserRepo) GetByEmailOrPhone(ctx context.Context, search string) (*users.User, error) {
	return r.getOne(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1 OR phone = $1`,
		search)
}

func (r *UserRepo) Update(ctx context.Context, user *users.User) error {
	query := `UPDATE users SET fullname = $2, email = $3, phone = $4, avatar = $5,
		verify = $6, updated_at = $7 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		user.ID, user.Fullname, user.Email, user.Phone, user.Avatar, user.Verify, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "[UserRepo.Update] update")
	}
	return requireRowAffected(result, apperrors.ErrNotFound)
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		id, passwordHash, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, "[UserRepo.UpdatePassword] update")
	}
	return requireRowAffected(result, apperrors.ErrNotFound)
}

func (r *UserRepo) EmailInUse(ctx context.Context, email, excludeID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM users WHERE email = $1 AND id <> $2 AND email <> ''`,
		email, excludeID).Scan(&count)
	if err != nil {
		return false, errors.Wrap(err, "[UserRepo.EmailInUse] count")
	}
	return count > 0, nil
}

func (r *UserRepo) List(ctx context.Context) ([]*users.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "[UserRepo.List] query")
	}
	defer rows.Close()

	var list []*users.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, errors.Wrap(err, "[UserRepo.List] scan")
		}
		list = append(list, user)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "[UserRepo.List] rows")
	}
	return list, nil
}

func (r *UserRepo) getOne(ctx context.Context, query string, args ...any) (*users.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, errors.Wrap(err, "[UserRepo.getOne] scan")
	}
	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*users.User, error) {
	user := &users.User{}
	err := row.Scan(&user.ID, &user.Provider, &user.ProviderID, &user.Username,
		&user.Fullname, &user.Email, &user.Phone, &user.Avatar, &user.PasswordHash,
		&user.Admin, &user.Verify, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func requireRowAffected(result sql.Result, missing error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "[postgres.requireRowAffected] RowsAffected")
	}
	if affected == 0 {
		return missing
	}
	return nil
}
