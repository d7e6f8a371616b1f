package config

type OAuthConfig interface {
	GetGithubClientID() string
	GetGithubClientSecret() string
	GetGithubCallbackURL() string
	GetGoogleClientID() string
	GetFacebookClientID() string
	GetFacebookClientSecret() string
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetGithubClientID() string {
	return GetEnv("GITHUB_CLIENT_ID", "")
}

func (OAuth) GetGithubClientSecret() string {
	return GetEnv("GITHUB_CLIENT_SECRET", "")
}

func (OAuth) GetGithubCallbackURL() string {
	return GetEnv("GITHUB_CALLBACK_URL", "")
}

// GetGoogleClientID is the audience used to verify Google ID tokens.
// When empty, the google login endpoint trusts the asserted identity fields.
func (OAuth) GetGoogleClientID() string {
	return GetEnv("GOOGLE_CLIENT_ID", "")
}

func (OAuth) GetFacebookClientID() string {
	return GetEnv("FACEBOOK_CLIENT_ID", "")
}

func (OAuth) GetFacebookClientSecret() string {
	return GetEnv("FACEBOOK_CLIENT_SECRET", "")
}
