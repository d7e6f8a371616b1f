package fakeuserrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/popudev/server-ecommerce/internal/errors"
	"github.com/popudev/server-ecommerce/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users     map[string]*users.User
	usernames map[string]string // username to user id
	providers map[string]string // provider-scoped key to user id
	lock      sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:     make(map[string]*users.User),
		usernames: make(map[string]string),
		providers: make(map[string]string),
	}
}

func providerKey(provider users.Provider, providerID string) string {
	return string(provider) + ":" + providerID
}

func (ur *FakeUserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if user.Username != "" {
		if _, ok := ur.usernames[user.Username]; ok {
			return nil, apperrors.ErrDuplicateUser
		}
	}

	stored := *user
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	stored.UpdatedAt = stored.CreatedAt

	ur.users[stored.ID] = &stored
	if stored.Username != "" {
		ur.usernames[stored.Username] = stored.ID
	}
	if stored.ProviderID != "" {
		ur.providers[providerKey(stored.Provider, stored.ProviderID)] = stored.ID
	}

	result := stored
	return &result, nil
}

func (ur *FakeUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	result := *user
	return &result, nil
}

func (ur *FakeUserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.usernames[username]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	result := *ur.users[id]
	return &result, nil
}

func (ur *FakeUserRepo) GetByProviderID(ctx context.Context, provider users.Provider, providerID string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.providers[providerKey(provider, providerID)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	result := *ur.users[id]
	return &result, nil
}

func (ur *FakeUserRepo) GetByEmailOrPhone(ctx context.Context, search string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	for _, user := range ur.users {
		if search != "" && (user.Email == search || user.Phone == search) {
			result := *user
			return &result, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (ur *FakeUserRepo) Update(ctx context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	existing, ok := ur.users[user.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if existing.Username != "" && existing.Username != user.Username {
		delete(ur.usernames, existing.Username)
	}

	stored := *user
	stored.UpdatedAt = time.Now()
	ur.users[stored.ID] = &stored
	if stored.Username != "" {
		ur.usernames[stored.Username] = stored.ID
	}
	return nil
}

func (ur *FakeUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	user, ok := ur.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now()
	return nil
}

func (ur *FakeUserRepo) EmailInUse(ctx context.Context, email, excludeID string) (bool, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	for _, user := range ur.users {
		if user.Email == email && user.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (ur *FakeUserRepo) List(ctx context.Context) ([]*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	userList := make([]*users.User, 0, len(ur.users))
	for _, v := range ur.users {
		result := *v
		userList = append(userList, &result)
	}

	sort.Slice(userList, func(i, j int) bool {
		return userList[i].ID < userList[j].ID
	})

	return userList, nil
}
