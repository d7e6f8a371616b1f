package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/popudev/server-ecommerce/internal/errors"
	"github.com/popudev/server-ecommerce/users"
)

// Claims is the signed claim set shared by access and refresh tokens.
type Claims struct {
	UserID   string `json:"_id"`
	Admin    bool   `json:"admin"`
	Provider string `json:"provider"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies the access/refresh token pair. Access tokens are
// stateless: verification is signature+expiry only, no store lookup. Refresh
// tokens share the claim shape but live long enough to be persisted and
// rotated by the session store.
type Issuer struct {
	signer        Signer
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	nowFunc       func() time.Time
}

type IssuerOption func(*Issuer)

// WithTokenExpiry overrides the access and refresh token lifetimes
func WithTokenExpiry(accessExpiry, refreshExpiry time.Duration) IssuerOption {
	return func(i *Issuer) {
		if accessExpiry > 0 {
			i.accessExpiry = accessExpiry
		}
		if refreshExpiry > 0 {
			i.refreshExpiry = refreshExpiry
		}
	}
}

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowFunc = now
	}
}

func New(signer Signer, options ...IssuerOption) *Issuer {
	i := &Issuer{
		signer:        signer,
		accessExpiry:  30 * time.Second,
		refreshExpiry: 30 * 24 * time.Hour,
		nowFunc:       time.Now,
	}
	for _, opt := range options {
		opt(i)
	}
	return i
}

// IssueAccessToken mints a short-lived access token for the user.
func (i *Issuer) IssueAccessToken(user *users.User) (string, error) {
	return i.sign(user, i.accessExpiry)
}

// IssueRefreshToken mints a long-lived refresh token for the user. The value
// is handed to the session store; the token itself carries no session state.
func (i *Issuer) IssueRefreshToken(user *users.User) (string, error) {
	return i.sign(user, i.refreshExpiry)
}

func (i *Issuer) sign(user *users.User, expiry time.Duration) (string, error) {
	now := i.nowFunc()
	claims := &Claims{
		UserID:   user.ID,
		Admin:    user.Admin,
		Provider: string(user.Provider),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	return i.signer.Sign(claims)
}

// Verify checks signature and expiry. Any mismatch - malformed signature,
// wrong secret, expired timestamp - comes back as ErrInvalidToken; the caller
// must treat tampered and expired as equally untrusted.
func (i *Issuer) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, i.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{i.signer.GetSigningMethod().Alg()}),
		jwt.WithTimeFunc(i.nowFunc),
	)
	if err != nil || !parsed.Valid {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}
