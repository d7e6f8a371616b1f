package auth

import (
	"context"
	"time"

	apperrors "github.com/popudev/server-ecommerce/internal/errors"
	"github.com/popudev/server-ecommerce/sessions"
	"github.com/popudev/server-ecommerce/token"
	"github.com/popudev/server-ecommerce/users"
	"github.com/pkg/errors"
)

// Repos holds all repository dependencies for the Service
type Repos struct {
	Users    users.Repo    // Repository for user identity records
	Sessions sessions.Repo // Repository for active refresh-token sessions
}

// Service orchestrates the session lifecycle: login issues a token pair and
// persists the refresh token as a session, refresh rotates that value, and
// logout (or a failed verification) terminates the session. It also owns the
// find-or-create resolution of federated identities.
type Service struct {
	repos   Repos
	issuer  *token.Issuer
	nowTime func() time.Time // nowTime function (injectable for testing)
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// NewService initializes a new Service with required dependencies.
func NewService(repos Repos, issuer *token.Issuer, options ...ServiceOption) (*Service, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewService] Users repo is required")
	}
	if repos.Sessions == nil {
		return nil, errors.New("[NewService] Sessions repo is required")
	}
	if issuer == nil {
		return nil, errors.New("[NewService] issuer is required")
	}

	service := &Service{
		repos:   repos,
		issuer:  issuer,
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// RegisterRequest carries the local signup form.
type RegisterRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Identity is what an external provider asserts about a federated user.
type Identity struct {
	ProviderID string `json:"providerId"`
	Username   string `json:"username"`
	Fullname   string `json:"fullname"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar"`
}

// LoginResult is a successful login: the stateless access token to hand back
// in the response body and the refresh token destined for the session cookie.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *users.User
}

// TokenPair is the outcome of a successful refresh rotation.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Register creates a local user with a bcrypt-hashed password. Username
// uniqueness is enforced by the credential store.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*users.User, error) {
	hashed, err := users.HashPassword(req.Password)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Register] HashPassword")
	}

	user, err := s.repos.Users.Create(ctx, &users.User{
		Provider:     users.ProviderLocal,
		Fullname:     req.Fullname,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hashed,
	})
	if err != nil {
		if apperrors.Is(err, apperrors.ErrDuplicateUser) {
			return nil, err
		}
		return nil, errors.Wrap(err, "[Service.Register] Users.Create")
	}

	return user, nil
}

// Login authenticates local credentials and opens a session.
// An unknown username and a wrong password are reported distinctly.
func (s *Service) Login(ctx context.Context, username, password string, meta sessions.Metadata) (*LoginResult, error) {
	user, err := s.repos.Users.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "[Service.Login] Users.GetByUsername")
	}

	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidPassword
	}

	return s.loginSuccess(ctx, user, meta)
}

// LoginFederated resolves or provisions a user for a provider-asserted
// identity and opens a session. No password check is involved; the provider
// assertion is the authentication.
func (s *Service) LoginFederated(ctx context.Context, provider users.Provider, identity Identity, meta sessions.Metadata) (*LoginResult, error) {
	user, err := s.resolveOrProvision(ctx, provider, identity)
	if err != nil {
		return nil, err
	}
	return s.loginSuccess(ctx, user, meta)
}

// resolveOrProvision looks up a federated user by (provider, providerID) and
// creates the record on first sight. New federated users are never admins.
func (s *Service) resolveOrProvision(ctx context.Context, provider users.Provider, identity Identity) (*users.User, error) {
	user, err := s.repos.Users.GetByProviderID(ctx, provider, identity.ProviderID)
	if err == nil {
		return user, nil
	}
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, errors.Wrap(err, "[Service.resolveOrProvision] Users.GetByProviderID")
	}

	user, err = s.repos.Users.Create(ctx, &users.User{
		Provider:   provider,
		ProviderID: identity.ProviderID,
		Username:   identity.Username,
		Fullname:   identity.Fullname,
		Email:      identity.Email,
		Avatar:     identity.Avatar,
		Admin:      false,
	})
	if err != nil {
		return nil, errors.Wrap(err, "[Service.resolveOrProvision] Users.Create")
	}

	return user, nil
}

func (s *Service) loginSuccess(ctx context.Context, user *users.User, meta sessions.Metadata) (*LoginResult, error) {
	accessToken, err := s.issuer.IssueAccessToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.loginSuccess] IssueAccessToken")
	}

	refreshToken, err := s.issuer.IssueRefreshToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.loginSuccess] IssueRefreshToken")
	}

	if err := s.repos.Sessions.Create(ctx, &sessions.Session{
		UserID:       user.ID,
		RefreshToken: refreshToken,
		Agent:        meta.Agent,
		OS:           meta.OS,
		Device:       meta.Device,
		Location:     meta.Location,
		CreatedAt:    s.nowTime(),
	}); err != nil {
		return nil, errors.Wrap(err, "[Service.loginSuccess] Sessions.Create")
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh rotates the session holding the presented refresh token.
//
// The session store is the source of truth: a token that verifies but is no
// longer in the store (logged out, already rotated away, never issued) fails
// ErrNotAuthenticated. A token that is in the store but fails verification
// is a terminal compromise signal - the session is deleted before
// ErrInvalidRefreshToken is reported, forcing a fresh login.
func (s *Service) Refresh(ctx context.Context, presented string, meta sessions.Metadata) (*TokenPair, error) {
	_, err := s.repos.Sessions.Get(ctx, presented)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrSessionNotFound) {
			return nil, apperrors.ErrNotAuthenticated
		}
		return nil, errors.Wrap(err, "[Service.Refresh] Sessions.Get")
	}

	claims, err := s.issuer.Verify(presented)
	if err != nil {
		_ = s.repos.Sessions.Delete(ctx, presented)
		return nil, apperrors.ErrInvalidRefreshToken
	}

	// New pair is minted from the verified claims, not a store lookup -
	// the claim set is the same shape the login flow signed.
	tokenUser := &users.User{
		ID:       claims.UserID,
		Admin:    claims.Admin,
		Provider: users.Provider(claims.Provider),
	}

	accessToken, err := s.issuer.IssueAccessToken(tokenUser)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Refresh] IssueAccessToken")
	}
	refreshToken, err := s.issuer.IssueRefreshToken(tokenUser)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Refresh] IssueRefreshToken")
	}

	// Atomic conditional swap: only the caller still holding the current
	// value wins; a lost race reads as an unknown token.
	if err := s.repos.Sessions.Rotate(ctx, presented, refreshToken); err != nil {
		if apperrors.Is(err, apperrors.ErrSessionNotFound) {
			return nil, apperrors.ErrNotAuthenticated
		}
		return nil, errors.Wrap(err, "[Service.Refresh] Sessions.Rotate")
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout terminates the session holding the presented refresh token.
// Deleting an already-absent record is not an error.
func (s *Service) Logout(ctx context.Context, presented string) error {
	if err := s.repos.Sessions.Delete(ctx, presented); err != nil {
		return errors.Wrap(err, "[Service.Logout] Sessions.Delete")
	}
	return nil
}

// Sessions lists the user's active sessions (one per logged-in device).
func (s *Service) Sessions(ctx context.Context, userID string) ([]*sessions.Session, error) {
	list, err := s.repos.Sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Sessions] Sessions.ListByUser")
	}
	return list, nil
}
