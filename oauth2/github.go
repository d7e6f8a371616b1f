package oauth2

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/popudev/server-ecommerce/auth"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// GithubProvider performs the server-side half of the GitHub OAuth flow:
// exchanging the callback code for an access token and fetching the user's
// profile from the GitHub API.
type GithubProvider struct {
	config oauth2.Config

	// UserInfoURL is the URL to fetch user info from. Defaults to GitHub's
	// API. Can be overridden for testing.
	UserInfoURL string

	// HTTPClient is used for the user-info request. Defaults to
	// http.DefaultClient. Can be overridden for testing.
	HTTPClient *http.Client
}

func NewGithubProvider(clientID, clientSecret, callbackURL string) *GithubProvider {
	return &GithubProvider{
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Endpoint:     github.Endpoint,
			Scopes:       []string{"read:user", "user:email"},
		},
		UserInfoURL: "https://api.github.com/user",
	}
}

// SetEndpoint overrides the OAuth token endpoint (testing seam).
func (g *GithubProvider) SetEndpoint(endpoint oauth2.Endpoint) {
	g.config.Endpoint = endpoint
}

// AuthCodeURL builds the provider authorization URL for the given CSRF state.
func (g *GithubProvider) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state)
}

// Exchange swaps a callback code for the provider-asserted identity.
func (g *GithubProvider) Exchange(ctx context.Context, code string) (auth.Identity, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return auth.Identity{}, errors.Wrap(err, "[GithubProvider.Exchange] code exchange")
	}
	return g.fetchUser(ctx, token)
}

func (g *GithubProvider) fetchUser(ctx context.Context, token *oauth2.Token) (auth.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.UserInfoURL, nil)
	if err != nil {
		return auth.Identity{}, errors.Wrap(err, "[GithubProvider.fetchUser] NewRequest")
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("Accept", "application/json")

	client := g.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	response, err := client.Do(req)
	if err != nil {
		return auth.Identity{}, errors.Wrap(err, "[GithubProvider.fetchUser] Do")
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return auth.Identity{}, errors.Errorf("[GithubProvider.fetchUser] github api status %d", response.StatusCode)
	}

	var githubUser struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(response.Body).Decode(&githubUser); err != nil {
		return auth.Identity{}, errors.Wrap(err, "[GithubProvider.fetchUser] decode user info")
	}

	return auth.Identity{
		ProviderID: fmt.Sprintf("%d", githubUser.ID),
		Username:   githubUser.Login,
		Fullname:   githubUser.Name,
		Email:      githubUser.Email,
		Avatar:     githubUser.AvatarURL,
	}, nil
}
