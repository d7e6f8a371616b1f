package config

import "time"

type TokenConfig interface {
	GetSigningSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetSessionCookieMaxAge() time.Duration
}

type Tokens struct{}

var _ TokenConfig = Tokens{}

func (Tokens) GetSigningSecret() string {
	return GetEnv("JWT_ACCESS_KEY", "")
}

// GetAccessTokenExpiry returns the access token TTL. The TTL is deliberately
// environment-specific: production deployments run with short-lived tokens
// while development environments typically stretch it to a day.
func (Tokens) GetAccessTokenExpiry() time.Duration {
	return getDurationEnv("ACCESS_TOKEN_EXPIRY", 30*time.Second)
}

func (Tokens) GetRefreshTokenExpiry() time.Duration {
	return getDurationEnv("REFRESH_TOKEN_EXPIRY", 30*24*time.Hour)
}

// GetSessionCookieMaxAge returns the client-side lifetime of the refreshToken
// cookie. The cookie intentionally outlives the refresh token itself so the
// refresh endpoint can observe stale cookies and answer with a clean 401
// instead of the cookie silently disappearing.
func (Tokens) GetSessionCookieMaxAge() time.Duration {
	return 365 * 24 * time.Hour
}

func getDurationEnv(envVar string, defaultValue time.Duration) time.Duration {
	value := GetEnv(envVar, "")
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
