package server

import "net/http"

func (s *Server) initRoutes() {
	api := s.APIMiddleware()

	// Preflight requests never match the method-qualified patterns below, so
	// CORS handles them from a catch-all.
	s.RegisterRouteFunc("OPTIONS /", ChainMiddleware(func(http.ResponseWriter, *http.Request) {}, s.CorsMiddleware))

	// Authentication
	s.RegisterRouteFunc("POST /v1/auth/register", ChainMiddleware(s.RegisterHandler(), api...))
	s.RegisterRouteFunc("POST /v1/auth/login", ChainMiddleware(s.LoginHandler(), api...))
	s.RegisterRouteFunc("POST /v1/auth/login/google", ChainMiddleware(s.LoginGoogleHandler(), api...))
	s.RegisterRouteFunc("POST /v1/auth/login/github", ChainMiddleware(s.LoginGithubHandler(), api...))
	s.RegisterRouteFunc("POST /v1/auth/login/facebook", ChainMiddleware(s.LoginFacebookHandler(), api...))
	s.RegisterRouteFunc("POST /v1/auth/refresh", ChainMiddleware(s.RefreshHandler(), api...))
	s.RegisterRouteFunc("POST /v1/auth/logout", ChainMiddleware(s.LogoutHandler(), api...))
	s.RegisterRouteFunc("GET /v1/auth/oauth/github/callback", ChainMiddleware(s.GithubCallbackHandler(), api...))

	// Account
	s.RegisterRouteFunc("GET /v1/users/me", ChainMiddleware(s.MeHandler(), append(api, s.RequireAuth())...))
	s.RegisterRouteFunc("PUT /v1/users/me", ChainMiddleware(s.UpdateProfileHandler(), append(api, s.RequireAuth())...))
	s.RegisterRouteFunc("POST /v1/users/me/password", ChainMiddleware(s.ChangePasswordHandler(), append(api, s.RequireAuth())...))
	s.RegisterRouteFunc("GET /v1/users/me/sessions", ChainMiddleware(s.SessionsHandler(), append(api, s.RequireAuth())...))
	s.RegisterRouteFunc("GET /v1/users/search", ChainMiddleware(s.SearchUserHandler(), append(api, s.RequireAuth())...))

	// Admin
	s.RegisterRouteFunc("GET /v1/users", ChainMiddleware(s.ListUsersHandler(), append(api, s.RequireAuth(), s.RequireAdmin())...))
	s.RegisterRouteFunc("DELETE /v1/users/{id}", ChainMiddleware(s.DeleteUserHandler(), append(api, s.RequireAuth(), s.RequireAdmin())...))

	// Catalog
	s.RegisterRouteFunc("GET /v1/products", ChainMiddleware(s.ListProductsHandler(), api...))
	s.RegisterRouteFunc("GET /v1/products/{id}", ChainMiddleware(s.GetProductHandler(), api...))
}
