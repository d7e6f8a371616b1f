package fakesessionrepo

import (
	"context"
	"sort"
	"sync"

	apperrors "github.com/popudev/server-ecommerce/internal/errors"
	"github.com/popudev/server-ecommerce/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

type FakeSessionRepo struct {
	byToken map[string]*sessions.Session
	lock    sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		byToken: make(map[string]*sessions.Session),
	}
}

func (sr *FakeSessionRepo) Create(ctx context.Context, session *sessions.Session) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	stored := *session
	sr.byToken[stored.RefreshToken] = &stored
	return nil
}

func (sr *FakeSessionRepo) Get(ctx context.Context, refreshToken string) (*sessions.Session, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	session, ok := sr.byToken[refreshToken]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	result := *session
	return &result, nil
}

// Rotate swaps the token value under the write lock, so the old value is
// unresolvable the moment the swap lands. A stale oldToken loses the race.
func (sr *FakeSessionRepo) Rotate(ctx context.Context, oldToken, newToken string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	session, ok := sr.byToken[oldToken]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	delete(sr.byToken, oldToken)
	session.RefreshToken = newToken
	sr.byToken[newToken] = session
	return nil
}

func (sr *FakeSessionRepo) Delete(ctx context.Context, refreshToken string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	delete(sr.byToken, refreshToken)
	return nil
}

func (sr *FakeSessionRepo) ListByUser(ctx context.Context, userID string) ([]*sessions.Session, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	list := make([]*sessions.Session, 0)
	for _, s := range sr.byToken {
		if s.UserID == userID {
			result := *s
			list = append(list, &result)
		}
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})

	return list, nil
}
