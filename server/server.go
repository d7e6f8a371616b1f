// Package server exposes the storefront auth and catalog API over HTTP.
package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/popudev/server-ecommerce/auth"
	"github.com/popudev/server-ecommerce/clientinfo"
	"github.com/popudev/server-ecommerce/internal/config"
	"github.com/popudev/server-ecommerce/products"
	"github.com/popudev/server-ecommerce/sessions"
	"github.com/popudev/server-ecommerce/token"
)

// GithubExchanger is the server-side GitHub code-exchange collaborator.
type GithubExchanger interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (auth.Identity, error)
}

// GoogleVerifier validates Google ID tokens presented by the client.
type GoogleVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (auth.Identity, error)
}

// Deps are the collaborators the HTTP surface dispatches into. Github and
// Google are optional: routes degrade when the provider is not configured.
type Deps struct {
	Auth     *auth.Service
	Issuer   *token.Issuer
	Products products.Repo
	Enricher *clientinfo.Enricher
	Github   GithubExchanger
	Google   GoogleVerifier
}

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	auth     *auth.Service
	issuer   *token.Issuer
	products products.Repo
	enricher *clientinfo.Enricher
	github   GithubExchanger
	google   GoogleVerifier
}

func New(config config.Config, deps Deps) (*Server, error) {
	if deps.Auth == nil {
		return nil, errors.New("[Server New] auth service is required")
	}
	if deps.Issuer == nil {
		return nil, errors.New("[Server New] token issuer is required")
	}
	if deps.Products == nil {
		return nil, errors.New("[Server New] products repo is required")
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   config,
		auth:     deps.Auth,
		issuer:   deps.Issuer,
		products: deps.Products,
		enricher: deps.Enricher,
		github:   deps.Github,
		google:   deps.Google,
	}
	s.env = config.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			log.Info().Str("method", parts[0]).Str("path", parts[1]).Msg("route")
		} else {
			log.Info().Str("path", parts[0]).Msg("route")
		}
	}
}

// clientMetadata enriches the request into session metadata. Enrichment is
// optional; a nil enricher records empty metadata.
func (s *Server) clientMetadata(r *http.Request) sessions.Metadata {
	if s.enricher == nil {
		return sessions.Metadata{}
	}
	return s.enricher.FromRequest(r.Context(), r)
}
