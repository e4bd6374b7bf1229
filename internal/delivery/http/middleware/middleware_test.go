package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"job-board-backend/internal/domain"
	"job-board-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubTokens map[string]int64

func (s stubTokens) Validate(token string) (int64, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return 0, errors.New("token is malformed")
}

type stubAuth struct {
	domain.AuthUsecase
	users map[int64]*domain.User
}

func (s stubAuth) GetCurrentUser(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func actorEcho(c *gin.Context) {
	actor := ActorFrom(c)
	c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID, "role": actor.Role})
}

func newAuthRouter() *gin.Engine {
	tokens := stubTokens{"good": 7, "ghost": 99}
	users := stubAuth{users: map[int64]*domain.User{
		7: {ID: 7, Username: "jane", Role: domain.RoleSeeker},
	}}

	r := gin.New()
	r.GET("/private", AuthMiddleware(tokens, users), actorEcho)
	r.GET("/public", OptionalAuth(tokens, users), actorEcho)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newAuthRouter()

	tests := []struct {
		name   string
		header string
		cookie string
		code   int
	}{
		{"no credentials", "", "", http.StatusUnauthorized},
		{"bad token", "Bearer nope", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", "", http.StatusUnauthorized},
		{"unknown user", "Bearer ghost", "", http.StatusUnauthorized},
		{"bearer", "Bearer good", "", http.StatusOK},
		{"cookie", "", "good", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: tt.cookie})
			}
			w := serve(r, req)
			assert.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"user_id":7`)
			}
		})
	}
}

func TestOptionalAuthFallsBackToAnonymous(t *testing.T) {
	r := newAuthRouter()

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":0`)

	req = httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer good")
	w = serve(r, req)
	assert.Contains(t, w.Body.String(), `"role":"seeker"`)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(string(domain.KeyRequestID))) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	w := serve(r, req)
	assert.Equal(t, "trace-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "trace-123", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = serve(r, req)
	assert.NotEqual(t, "<script>", w.Header().Get(RequestIDHeader))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/missing", func(c *gin.Context) {
		_ = c.Error(apperror.New(http.StatusNotFound, "Job not found", domain.ErrJobNotFound))
	})
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: connection refused"))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Job not found")

	w = serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestRateLimiterMemory(t *testing.T) {
	rl := NewRateLimiter(nil, NewMemoryCounter())
	r := gin.New()
	r.GET("/", rl.Middleware(GlobalConfig(2, time.Minute)), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

type failingCounter struct{}

func (failingCounter) Incr(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("redis: connection refused")
}

func TestRateLimiterRedisFailure(t *testing.T) {
	rl := NewRateLimiter(failingCounter{}, NewMemoryCounter())
	r := gin.New()
	r.POST("/login", rl.Middleware(LoginConfig(5, time.Minute)), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/jobs", rl.Middleware(GlobalConfig(5, time.Minute)), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/jobs", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
}

func TestMemoryCounterWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryCounter()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	n, resetIn, err := m.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, time.Minute, resetIn)

	now = now.Add(10 * time.Second)
	n, resetIn, _ = m.Incr(ctx, "k", time.Minute)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 50*time.Second, resetIn)

	now = now.Add(time.Minute)
	m.Sweep()
	n, _, _ = m.Incr(ctx, "k", time.Minute)
	assert.Equal(t, int64(1), n)
}

func TestMemoryCounterSweepDoesNotLoseHits(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemoryCounter()
	m.now = func() time.Time { return now }
	ctx := context.Background()

	_, _, err := m.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	v, ok := m.entries.Load("k")
	require.True(t, ok)
	stale := v.(*rateLimitEntry)

	// A request holding the old entry when the window expires and Sweep runs.
	now = now.Add(time.Minute)
	m.Sweep()
	_, _, counted := stale.incr(now, time.Minute)
	assert.False(t, counted, "retired entries must not absorb hits")

	n, _, _ := m.Incr(ctx, "k", time.Minute)
	assert.Equal(t, int64(1), n)
	n, _, _ = m.Incr(ctx, "k", time.Minute)
	assert.Equal(t, int64(2), n)
}

func TestMemoryCounterConcurrentSweep(t *testing.T) {
	m := NewMemoryCounter()
	ctx := context.Background()

	const workers, hits = 8, 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < hits; j++ {
				_, _, _ = m.Incr(ctx, "k", time.Hour)
				m.Sweep()
			}
		}()
	}
	wg.Wait()

	n, _, err := m.Incr(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(workers*hits+1), n)
}

func TestCSRF(t *testing.T) {
	r := gin.New()
	r.Use(CSRFMiddleware(false, "/login"))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/jobs", ok)
	r.POST("/jobs", ok)
	r.POST("/login", ok)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/jobs", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), CSRFTokenCookieName+"=")

	post := func(mutate func(*http.Request)) int {
		req := httptest.NewRequest(http.MethodPost, "/jobs", nil)
		mutate(req)
		return serve(r, req).Code
	}

	assert.Equal(t, http.StatusOK, post(func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer token")
	}), "bearer clients are exempt")

	assert.Equal(t, http.StatusForbidden, post(func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "session"})
	}))

	assert.Equal(t, http.StatusForbidden, post(func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "session"})
		req.AddCookie(&http.Cookie{Name: CSRFTokenCookieName, Value: "expected"})
		req.Header.Set(CSRFTokenHeaderName, "forged")
	}))

	assert.Equal(t, http.StatusOK, post(func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "session"})
		req.AddCookie(&http.Cookie{Name: CSRFTokenCookieName, Value: "expected"})
		req.Header.Set(CSRFTokenHeaderName, "expected")
	}))

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "session"})
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://jobs.example.com/"}, true))
	r.GET("/jobs", func(c *gin.Context) { c.Status(http.StatusOK) })

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/jobs", nil)
		req.Header.Set("Origin", origin)
		return serve(r, req)
	}

	w := preflight("https://jobs.example.com")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://jobs.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = preflight("http://localhost:3000")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeadersMiddleware(true))
	r.GET("/v1/me", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/swagger/index.html", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer token")
	w := serve(r, req)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Strict-Transport-Security"), "max-age="))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")

	w = serve(r, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Empty(t, w.Header().Get("Content-Security-Policy"))
}
