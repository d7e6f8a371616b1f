package oauth2

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/popudev/server-ecommerce/auth"
	"github.com/pkg/errors"
)

const googleIssuer = "https://accounts.google.com"

// GoogleVerifier checks Google ID tokens against the Google OIDC issuer.
// The login endpoint accepts an idToken alongside the asserted profile
// fields; when a verifier is configured the token is what is trusted.
type GoogleVerifier struct {
	verifier *oidc.IDTokenVerifier
}

func NewGoogleVerifier(ctx context.Context, clientID string) (*GoogleVerifier, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, errors.Wrap(err, "[NewGoogleVerifier] failed to create OIDC provider")
	}
	return &GoogleVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// Verify validates the raw ID token and returns the identity it asserts.
func (v *GoogleVerifier) Verify(ctx context.Context, rawIDToken string) (auth.Identity, error) {
	idToken, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return auth.Identity{}, errors.Wrap(err, "[GoogleVerifier.Verify] id token rejected")
	}

	var claims struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return auth.Identity{}, errors.Wrap(err, "[GoogleVerifier.Verify] claims")
	}

	return auth.Identity{
		ProviderID: claims.Sub,
		Fullname:   claims.Name,
		Email:      claims.Email,
		Avatar:     claims.Picture,
	}, nil
}
