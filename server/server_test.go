package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/popudev/server-ecommerce/auth"
	"github.com/popudev/server-ecommerce/internal/config"
	"github.com/popudev/server-ecommerce/products"
	fakeproductrepo "github.com/popudev/server-ecommerce/products/repofake"
	fakesessionrepo "github.com/popudev/server-ecommerce/sessions/repofake"
	"github.com/popudev/server-ecommerce/token"
	"github.com/popudev/server-ecommerce/users"
	fakeuserrepo "github.com/popudev/server-ecommerce/users/repofake"
)

const (
	secretStr        = "test-signing-secret"
	testUsername     = "john.doe"
	testUserPassword = "password123"
)

type testFixture struct {
	server      *Server
	userRepo    *fakeuserrepo.FakeUserRepo
	sessionRepo *fakesessionrepo.FakeSessionRepo
	productRepo *fakeproductrepo.FakeProductRepo
	issuer      *token.Issuer
	now         time.Time
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		userRepo:    fakeuserrepo.NewFakeUserRepo(),
		sessionRepo: fakesessionrepo.NewFakeSessionRepo(),
		productRepo: fakeproductrepo.NewFakeProductRepo(),
		now:         time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	f.issuer = token.New(token.NewHMACSigner(secretStr),
		token.WithNowFunc(func() time.Time { return f.now }))

	service, err := auth.NewService(auth.Repos{
		Users:    f.userRepo,
		Sessions: f.sessionRepo,
	}, f.issuer, auth.WithNowTime(func() time.Time { return f.now }))
	require.NoError(t, err)

	f.server, err = New(config.New(), Deps{
		Auth:     service,
		Issuer:   f.issuer,
		Products: f.productRepo,
	})
	require.NoError(t, err)

	return f
}

// advance moves the fixture clock so sequentially minted tokens differ.
func (f *testFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *testFixture) do(req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	f.server.ServeHTTP(recorder, req)
	return recorder
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func refreshCookie(t *testing.T, recorder *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == refreshCookieName {
			return cookie
		}
	}
	t.Fatal("no refreshToken cookie in response")
	return nil
}

func (f *testFixture) registerAndLogin(t *testing.T) (accessToken string, cookie *http.Cookie) {
	t.Helper()

	recorder := f.do(jsonRequest(http.MethodPost, "/v1/auth/register", map[string]string{
		"fullname": "John Doe",
		"email":    "john.doe@example.com",
		"username": testUsername,
		"password": testUserPassword,
	}))
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = f.do(jsonRequest(http.MethodPost, "/v1/auth/login", map[string]string{
		"username": testUsername,
		"password": testUserPassword,
	}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		AccessToken string `json:"accessToken"`
		Username    string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal(t, testUsername, body.Username)
	require.NotEmpty(t, body.AccessToken)

	return body.AccessToken, refreshCookie(t, recorder)
}

func TestServer_RegisterAndLogin(t *testing.T) {
	f := setupTestFixture(t)

	t.Run("full local flow issues tokens and a session cookie", func(t *testing.T) {
		accessToken, cookie := f.registerAndLogin(t)
		require.True(t, cookie.HttpOnly)
		require.True(t, cookie.Secure)
		require.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
		require.Equal(t, "/", cookie.Path)

		req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)
		recorder := f.do(req)
		require.Equal(t, http.StatusOK, recorder.Code)

		var user users.User
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &user))
		require.Equal(t, testUsername, user.Username)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		recorder := f.do(jsonRequest(http.MethodPost, "/v1/auth/register", map[string]string{
			"username": testUsername,
			"password": "another",
		}))
		require.Equal(t, http.StatusConflict, recorder.Code)
		require.Contains(t, recorder.Body.String(), `"username"`)
	})

	t.Run("unknown username and wrong password are reported distinctly", func(t *testing.T) {
		recorder := f.do(jsonRequest(http.MethodPost, "/v1/auth/login", map[string]string{
			"username": "nobody",
			"password": testUserPassword,
		}))
		require.Equal(t, http.StatusNotFound, recorder.Code)
		require.Contains(t, recorder.Body.String(), `"key":"username"`)

		recorder = f.do(jsonRequest(http.MethodPost, "/v1/auth/login", map[string]string{
			"username": testUsername,
			"password": "wrong",
		}))
		require.Equal(t, http.StatusNotFound, recorder.Code)
		require.Contains(t, recorder.Body.String(), `"key":"password"`)
	})
}

func TestServer_RefreshFlow(t *testing.T) {
	f := setupTestFixture(t)
	_, cookie := f.registerAndLogin(t)

	t.Run("refresh rotates the cookie and returns a new access token", func(t *testing.T) {
		f.advance(time.Second)

		req := jsonRequest(http.MethodPost, "/v1/auth/refresh", nil)
		req.AddCookie(cookie)
		recorder := f.do(req)
		require.Equal(t, http.StatusOK, recorder.Code)

		var body struct {
			AccessToken string `json:"accessToken"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		require.NotEmpty(t, body.AccessToken)

		rotated := refreshCookie(t, recorder)
		require.NotEqual(t, cookie.Value, rotated.Value)

		// The superseded value no longer opens a session.
		replay := jsonRequest(http.MethodPost, "/v1/auth/refresh", nil)
		replay.AddCookie(cookie)
		recorder = f.do(replay)
		require.Equal(t, http.StatusUnauthorized, recorder.Code)

		cookie = rotated
	})

	t.Run("missing cookie is unauthenticated", func(t *testing.T) {
		recorder := f.do(jsonRequest(http.MethodPost, "/v1/auth/refresh", nil))
		require.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("logout clears the cookie and kills the session", func(t *testing.T) {
		req := jsonRequest(http.MethodPost, "/v1/auth/logout", nil)
		req.AddCookie(cookie)
		recorder := f.do(req)
		require.Equal(t, http.StatusOK, recorder.Code)

		cleared := refreshCookie(t, recorder)
		require.Empty(t, cleared.Value)
		require.Negative(t, cleared.MaxAge)

		refresh := jsonRequest(http.MethodPost, "/v1/auth/refresh", nil)
		refresh.AddCookie(cookie)
		recorder = f.do(refresh)
		require.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestServer_AuthMiddleware(t *testing.T) {
	f := setupTestFixture(t)
	accessToken, _ := f.registerAndLogin(t)

	t.Run("missing token is unauthorized", func(t *testing.T) {
		recorder := f.do(httptest.NewRequest(http.MethodGet, "/v1/users/me", nil))
		require.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("garbage token is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		recorder := f.do(req)
		require.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("expired token is forbidden", func(t *testing.T) {
		f.advance(time.Minute)
		req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)
		recorder := f.do(req)
		require.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("non-admin cannot list users", func(t *testing.T) {
		freshToken, _ := func() (string, *http.Cookie) {
			recorder := f.do(jsonRequest(http.MethodPost, "/v1/auth/login", map[string]string{
				"username": testUsername,
				"password": testUserPassword,
			}))
			require.Equal(t, http.StatusOK, recorder.Code)
			var body struct {
				AccessToken string `json:"accessToken"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			return body.AccessToken, nil
		}()

		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		req.Header.Set("Authorization", "Bearer "+freshToken)
		recorder := f.do(req)
		require.Equal(t, http.StatusForbidden, recorder.Code)
	})
}

func TestServer_FederatedLogin(t *testing.T) {
	f := setupTestFixture(t)

	t.Run("google login provisions on first sight and reuses after", func(t *testing.T) {
		body := map[string]string{
			"googleId": "google-123",
			"fullname": "Jane Roe",
			"email":    "jane@example.com",
			"avatar":   "https://avatars.example.com/jane",
		}

		recorder := f.do(jsonRequest(http.MethodPost, "/v1/auth/login/google", body))
		require.Equal(t, http.StatusOK, recorder.Code)

		var first struct {
			ID          string `json:"_id"`
			AccessToken string `json:"accessToken"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &first))
		require.NotEmpty(t, first.ID)
		require.NotEmpty(t, first.AccessToken)

		f.advance(time.Second)
		recorder = f.do(jsonRequest(http.MethodPost, "/v1/auth/login/google", body))
		require.Equal(t, http.StatusOK, recorder.Code)

		var second struct {
			ID string `json:"_id"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &second))
		require.Equal(t, first.ID, second.ID)
	})

	t.Run("missing provider id is rejected", func(t *testing.T) {
		recorder := f.do(jsonRequest(http.MethodPost, "/v1/auth/login/facebook", map[string]string{
			"fullname": "No ID",
		}))
		require.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

type fakeGithubExchanger struct {
	identity auth.Identity
	err      error
}

func (f *fakeGithubExchanger) AuthCodeURL(state string) string { return "https://example.com/" + state }

func (f *fakeGithubExchanger) Exchange(_ context.Context, code string) (auth.Identity, error) {
	if f.err != nil {
		return auth.Identity{}, f.err
	}
	return f.identity, nil
}

func TestServer_GithubCallback(t *testing.T) {
	f := setupTestFixture(t)
	f.server.github = &fakeGithubExchanger{identity: auth.Identity{
		ProviderID: "583231",
		Username:   "octocat",
		Email:      "octocat@github.com",
		Avatar:     "https://avatars.example.com/u/583231",
	}}

	t.Run("redirects the asserted identity to the client app", func(t *testing.T) {
		recorder := f.do(httptest.NewRequest(http.MethodGet, "/v1/auth/oauth/github/callback?code=good-code", nil))
		require.Equal(t, http.StatusFound, recorder.Code)

		location := recorder.Header().Get("Location")
		require.Contains(t, location, "/load?")
		require.Contains(t, location, "username=octocat")
		require.Contains(t, location, "providerId=583231")
	})

	t.Run("missing code is a bad request", func(t *testing.T) {
		recorder := f.do(httptest.NewRequest(http.MethodGet, "/v1/auth/oauth/github/callback", nil))
		require.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("failed exchange is a bad gateway", func(t *testing.T) {
		f.server.github = &fakeGithubExchanger{err: fmt.Errorf("exchange rejected")}
		recorder := f.do(httptest.NewRequest(http.MethodGet, "/v1/auth/oauth/github/callback?code=bad", nil))
		require.Equal(t, http.StatusBadGateway, recorder.Code)
	})
}

func TestServer_Products(t *testing.T) {
	f := setupTestFixture(t)
	f.productRepo.Add(&products.Product{ID: "p1", Title: "Gaming Laptop", Price: 1500, Sale: 10, CategoryID: "c1"})
	f.productRepo.Add(&products.Product{ID: "p2", Title: "Office Laptop", Price: 800, Sale: 25, CategoryID: "c1"})
	f.productRepo.Add(&products.Product{ID: "p3", Title: "Mouse", Price: 45, Sale: 50, CategoryID: "c2"})

	t.Run("list applies filters and pagination from the query", func(t *testing.T) {
		recorder := f.do(httptest.NewRequest(http.MethodGet,
			"/v1/products?title=laptop&sort=sale&order=desc&page=1&limit=10", nil))
		require.Equal(t, http.StatusOK, recorder.Code)

		var result products.ListResult
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &result))
		require.Equal(t, 2, result.Pagination.Total)
		require.Equal(t, "Office Laptop", result.Payload[0].Title)
	})

	t.Run("fetch by id", func(t *testing.T) {
		recorder := f.do(httptest.NewRequest(http.MethodGet, "/v1/products/p3", nil))
		require.Equal(t, http.StatusOK, recorder.Code)
		require.Contains(t, recorder.Body.String(), "Mouse")

		recorder = f.do(httptest.NewRequest(http.MethodGet, "/v1/products/missing", nil))
		require.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestServer_Cors(t *testing.T) {
	f := setupTestFixture(t)

	t.Run("preflight from the allowed origin gets credentialed headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/v1/auth/login", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		recorder := f.do(req)
		require.Equal(t, http.StatusOK, recorder.Code)
		require.Equal(t, "http://localhost:3000", recorder.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unlisted origin gets no CORS headers", func(t *testing.T) {
		req := jsonRequest(http.MethodPost, "/v1/auth/login", map[string]string{})
		req.Header.Set("Origin", "http://evil.example.com")
		recorder := f.do(req)
		require.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
	})
}
