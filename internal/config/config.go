package config

type Config interface {
	EnvConfig
	CorsConfig
	TokenConfig
	OAuthConfig
	GeoIPConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetClientURL() string
	GetDatabaseDSN() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Tokens
	OAuth
	GeoIP
}

func New() Config {
	return mainConfig{}
}
