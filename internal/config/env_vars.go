package config

import (
	"fmt"
	"os"
)

const (
	portEnvVar   = "PORT"
	appNameVar   = "APP_NAME"
	clientURLVar = "CLIENT_URL"
	databaseVar  = "DATABASE_DSN"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Storefront Auth")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetClientURL returns the base URL of the storefront client application.
// OAuth callback handlers redirect here after a provider exchange.
func (EnvVars) GetClientURL() string {
	return GetEnv(clientURLVar, "http://localhost:3000")
}

// GetDatabaseDSN returns the PostgreSQL DSN. Empty means in-memory stores.
func (EnvVars) GetDatabaseDSN() string {
	return GetEnv(databaseVar, "")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
