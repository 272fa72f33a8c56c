package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-builder-backend/auth"
	"github.com/rpupo63/portfolio-builder-backend/database/memory"
	"github.com/rpupo63/portfolio-builder-backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	t       *testing.T
	handler http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPIWithConfig(t, map[string]string{"ACCEPTED_ORIGINS": "https://folio.example.com"})
}

func newTestAPIWithConfig(t *testing.T, cfg map[string]string) *testAPI {
	t.Helper()
	router, err := newRouter(testDependencies(t), withConfig(cfg))
	require.NoError(t, err)
	return &testAPI{t: t, handler: router}
}

func testDependencies(t *testing.T) Dependencies {
	t.Helper()
	store := memory.New()
	tokens, err := auth.NewTokenIssuer("api-test-secret", time.Hour)
	require.NoError(t, err)

	limiter := NewMemoryRateLimiter()
	t.Cleanup(limiter.Close)

	return Dependencies{
		Users:      services.NewUserService(store.UserRepo(), tokens, nil, services.UserServiceOptions{}),
		Portfolios: services.NewPortfolioService(store.PortfolioRepo(), store.ProjectRepo(), store.UserRepo()),
		Projects:   services.NewProjectService(store.ProjectRepo()),
		Reviews:    services.NewReviewService(store.ReviewRepo()),
		Limiter:    limiter,
		Health:     store.Ping,
	}
}

func (a *testAPI) do(method, path, token, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

// register returns the bearer token of a fresh gmail account.
func (a *testAPI) register(username string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/users/register", "",
		`{"name":"`+username+`","username":"`+username+`","email":"`+username+`@gmail.com","password":"secret1"}`)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	var res services.AuthResult
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestPrivateEndpointsRequireToken(t *testing.T) {
	api := newTestAPI(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/portfolios"},
		{http.MethodPost, "/portfolios"},
		{http.MethodPut, "/portfolios/theme"},
		{http.MethodGet, "/users/me"},
		{http.MethodGet, "/projects"},
		{http.MethodPost, "/reviews"},
		{http.MethodPost, "/uploads/presign"},
	} {
		rec := api.do(tc.method, tc.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)

		rec = api.do(tc.method, tc.path, "not-a-token", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)
	}

	body := decode[ErrorResponse](t, api.do(http.MethodGet, "/users/me", "", ""))
	assert.Equal(t, http.StatusUnauthorized, body.Status)
	assert.Equal(t, "Unauthorized", body.Error)
	assert.NotEmpty(t, body.Message)
}

func TestAlicePublishesHerPortfolio(t *testing.T) {
	api := newTestAPI(t)
	token := api.register("alice")

	rec := api.do(http.MethodPost, "/portfolios", token, `{"isPublic":false,"hero":{"title":"Alice"}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	id := created["id"].(string)

	rec = api.do(http.MethodGet, "/portfolios/public/alice", "", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Alice", "a private portfolio leaks nothing")

	rec = api.do(http.MethodPut, "/portfolios/"+id, token, `{"isPublic":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(http.MethodGet, "/portfolios/public/alice", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	public := decode[struct {
		Portfolio struct {
			ID    string `json:"id"`
			Views int64  `json:"views"`
			Owner struct {
				Username string `json:"username"`
			} `json:"owner"`
		} `json:"portfolio"`
		Projects []any `json:"projects"`
	}](t, rec)
	assert.Equal(t, id, public.Portfolio.ID)
	assert.Equal(t, int64(1), public.Portfolio.Views)
	assert.Equal(t, "alice", public.Portfolio.Owner.Username)
	assert.NotNil(t, public.Projects)

	rec = api.do(http.MethodGet, "/p/alice", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Alice")

	own := decode[map[string]any](t, api.do(http.MethodGet, "/portfolios", token, ""))
	assert.EqualValues(t, 2, own["views"], "the rendered page counts as a view too")
}

func TestBobHasNothingPublished(t *testing.T) {
	api := newTestAPI(t)
	api.register("bob")

	for _, username := range []string{"bob", "ghost"} {
		rec := api.do(http.MethodGet, "/portfolios/public/"+username, "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"portfolio":null,"projects":[]}`, rec.Body.String())

		rec = api.do(http.MethodGet, "/p/"+username, "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Nothing here yet")
	}
}

func TestPrivateRenderedPage(t *testing.T) {
	api := newTestAPI(t)
	token := api.register("alice")
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/portfolios", token, `{"isPublic":false}`).Code)

	rec := api.do(http.MethodGet, "/p/alice", "", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "This portfolio is private")
}

func TestPortfolioConflictAndForeignUpdate(t *testing.T) {
	api := newTestAPI(t)
	alice := api.register("alice")
	mallory := api.register("mallory")

	rec := api.do(http.MethodPost, "/portfolios", alice, `{}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[map[string]any](t, rec)["id"].(string)

	rec = api.do(http.MethodPost, "/portfolios", alice, `{}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(http.MethodPut, "/portfolios/"+id, mallory, `{"customDomain":"evil.example.com"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	own := decode[map[string]any](t, api.do(http.MethodGet, "/portfolios", alice, ""))
	assert.Nil(t, own["customDomain"])

	rec = api.do(http.MethodPut, "/portfolios/theme", alice, `{"theme":"dark"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dark", decode[map[string]any](t, rec)["theme"])

	rec = api.do(http.MethodPut, "/portfolios/theme", alice, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPut, "/portfolios/customization", alice, `{"fontFamily":"Lora"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	custom := decode[map[string]any](t, rec)["customization"].(map[string]any)
	assert.Equal(t, "Lora", custom["fontFamily"])
	assert.Equal(t, "#4F3B78", custom["primaryColor"])

	rec = api.do(http.MethodPost, "/portfolios", alice, `{"hero":`)
	assert.Equal(t, http.StatusConflict, rec.Code, "the existing portfolio is reported before the body is parsed")
}

func TestProjectEndpoints(t *testing.T) {
	api := newTestAPI(t)
	alice := api.register("alice")
	mallory := api.register("mallory")

	rec := api.do(http.MethodPost, "/projects", alice, `{"title":"Compiler"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPost, "/projects", alice, `{"title":"Compiler","description":"A toy compiler"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[map[string]any](t, rec)["id"].(string)

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/projects/"+id, mallory, "").Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPut, "/projects/"+id, mallory, `{"title":"x"}`).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, "/projects/"+id, mallory, "").Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/projects/missing", alice, "").Code)

	rec = api.do(http.MethodPost, "/projects/"+id+"/images", alice, `{"images":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = api.do(http.MethodPost, "/projects/"+id+"/images", alice, `{"images":[{"url":"https://img.example.com/1.png"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	images := decode[map[string]any](t, rec)["images"].([]any)
	require.Len(t, images, 1)
	imageID := images[0].(map[string]any)["id"].(string)

	rec = api.do(http.MethodDelete, "/projects/"+id+"/images/"+imageID, alice, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[map[string]any](t, rec)["images"])

	list := decode[[]map[string]any](t, api.do(http.MethodGet, "/projects", alice, ""))
	assert.Len(t, list, 1)
	assert.Equal(t, "[]", strings.TrimSpace(api.do(http.MethodGet, "/projects", mallory, "").Body.String()))

	rec = api.do(http.MethodDelete, "/projects/"+id, alice, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"`+id+`"}`, rec.Body.String())
}

func TestReviewEndpoints(t *testing.T) {
	api := newTestAPI(t)
	alice := api.register("alice")
	mallory := api.register("mallory")

	long := strings.TrimSpace(strings.Repeat("word ", 51))
	rec := api.do(http.MethodPost, "/reviews", alice, `{"quote":"`+long+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPost, "/reviews", alice, `{"quote":"Built my site in an afternoon"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[map[string]any](t, rec)["id"].(string)

	reviews := decode[[]map[string]any](t, api.do(http.MethodGet, "/reviews", "", ""))
	require.Len(t, reviews, 1)
	assert.Equal(t, "alice", reviews[0]["user"].(map[string]any)["name"])

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, "/reviews/"+id, mallory, "").Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodDelete, "/reviews/"+id, alice, "").Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, "/reviews/"+id, alice, "").Code)
}

func TestUserEndpoints(t *testing.T) {
	api := newTestAPI(t)
	token := api.register("alice")

	rec := api.do(http.MethodPost, "/users/register", "", `{"name":"A","username":"alice","email":"x@gmail.com","password":"secret1"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(http.MethodPost, "/users/login", "", `{"email":"alice@gmail.com","password":"nope-nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = api.do(http.MethodPost, "/users/login", "", `{"email":"alice@gmail.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[services.AuthResult](t, rec).Token)

	me := api.do(http.MethodGet, "/users/me", token, "")
	require.Equal(t, http.StatusOK, me.Code)
	assert.NotContains(t, me.Body.String(), "password")

	rec = api.do(http.MethodPut, "/users/social-links", token, `{"socialLinks":{"github":"https://github.com/alice"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	links := decode[map[string]any](t, rec)["socialLinks"].(map[string]any)
	assert.Equal(t, "https://github.com/alice", links["github"])

	rec = api.do(http.MethodPut, "/users/skills", token, `{"skills":[{"name":"Go","proficiency":4}]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(http.MethodPost, "/users/resume", token, `{"resumeUrl":"https://cdn.example.com/cv.pdf"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodPost, "/users/reset-password", "", `{"email":"alice@gmail.com","newPassword":"brandnew"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Password reset successful", decode[map[string]any](t, rec)["message"])
}

func TestRegisterIsRateLimited(t *testing.T) {
	api := newTestAPI(t)

	var last *httptest.ResponseRecorder
	for i := 0; i <= rateLimitRegister; i++ {
		last = api.do(http.MethodPost, "/users/register", "", `{}`)
	}
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
}

func TestLoginLimitIgnoresForwardedFor(t *testing.T) {
	api := newTestAPI(t)

	codes := map[int]int{}
	for i := 0; i < 2*rateLimitLogin; i++ {
		req := httptest.NewRequest(http.MethodPost, "/users/login",
			strings.NewReader(`{"email":"nobody@gmail.com","password":"wrong-password"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		rec := httptest.NewRecorder()
		api.handler.ServeHTTP(rec, req)
		codes[rec.Code]++
	}
	assert.Equal(t, rateLimitLogin, codes[http.StatusBadRequest])
	assert.Equal(t, rateLimitLogin, codes[http.StatusTooManyRequests])
}

func TestTrustedProxyHeadersKeyTheLimiter(t *testing.T) {
	api := newTestAPIWithConfig(t, map[string]string{"TRUST_PROXY_HEADERS": "true"})

	register := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwardedFor)
		rec := httptest.NewRecorder()
		api.handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < rateLimitRegister; i++ {
		assert.Equal(t, http.StatusBadRequest, register("198.51.100.7"))
	}
	assert.Equal(t, http.StatusTooManyRequests, register("198.51.100.7"))
	assert.Equal(t, http.StatusBadRequest, register("198.51.100.8"))
}

func TestUploadsUnavailableWithoutBucket(t *testing.T) {
	api := newTestAPI(t)
	token := api.register("alice")

	rec := api.do(http.MethodPost, "/uploads/presign", token, `{"kind":"avatar","contentType":"image/png"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]any](t, rec)["status"])

	rec = api.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "portfolio_api_http_requests_total")
}

func TestCORS(t *testing.T) {
	api := newTestAPI(t)

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/portfolios", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		api.handler.ServeHTTP(rec, req)
		return rec
	}

	allowed := preflight("https://folio.example.com")
	assert.Equal(t, "https://folio.example.com", allowed.Header().Get("Access-Control-Allow-Origin"))

	blocked := preflight("https://evil.example.com")
	assert.Equal(t, http.StatusForbidden, blocked.Code)
}

func TestMemoryRateLimiterWindow(t *testing.T) {
	rl := NewMemoryRateLimiter().(*memoryRateLimiter)
	defer rl.Close()
	now := time.Now()
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("k", 2, time.Minute).allowed)
	assert.True(t, rl.Allow("k", 2, time.Minute).allowed)
	assert.False(t, rl.Allow("k", 2, time.Minute).allowed)
	assert.True(t, rl.Allow("other", 2, time.Minute).allowed)

	now = now.Add(2 * time.Minute)
	assert.True(t, rl.Allow("k", 2, time.Minute).allowed)

	rl.cleanup(now.Add(time.Hour))
	assert.Empty(t, rl.entries)
}

func TestBearerToken(t *testing.T) {
	token, ok := bearerToken("bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	_, ok = bearerToken("Basic abc")
	assert.False(t, ok)
	_, ok = bearerToken("Bearer   ")
	assert.False(t, ok)
}

func TestContextUserID(t *testing.T) {
	_, err := ctxGetUserID(context.Background())
	assert.Error(t, err)
}
