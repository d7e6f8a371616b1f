package users

import "context"

// Repo persists user identity records. Implementations report
// errors.ErrNotFound for missing records and errors.ErrDuplicateUser when a
// username is already taken.
type Repo interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByProviderID(ctx context.Context, provider Provider, providerID string) (*User, error)
	GetByEmailOrPhone(ctx context.Context, search string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	EmailInUse(ctx context.Context, email, excludeID string) (bool, error)
	List(ctx context.Context) ([]*User, error)
}
