package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"moviereviews/internal/http-api/dto"
	"moviereviews/internal/http-api/handler"
	"moviereviews/internal/http-api/middleware"
	"moviereviews/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type rejectingAuth struct{}

func (rejectingAuth) Register(context.Context, dto.RegisterRequest) (*dto.RegisterResponse, error) {
	return nil, errors.New("unused")
}

func (rejectingAuth) Login(context.Context, string, string) (*dto.TokenPair, error) {
	return nil, errors.New("unused")
}

func (rejectingAuth) Refresh(context.Context, string) (*dto.AccessResponse, error) {
	return nil, errors.New("unused")
}

func (rejectingAuth) Logout(context.Context, string) error { return errors.New("unused") }

func (rejectingAuth) ValidateToken(string) (*service.Claims, error) {
	return nil, service.ErrInvalidToken
}

func newTestEngine(opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(Services{Auth: rejectingAuth{}}, opts, zap.NewNop())
}

func serve(r http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	r := newTestEngine(Options{HealthChecks: map[string]handler.Checker{
		"postgres": func(context.Context) error { return nil },
	}})

	w := serve(r, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
}

func TestUnknownRoute(t *testing.T) {
	r := newTestEngine(Options{})

	w := serve(r, http.MethodGet, "/api/nothing-here", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Not found."}`, w.Body.String())
}

func TestWriteRoutesRequireAuth(t *testing.T) {
	r := newTestEngine(Options{})

	for _, path := range []string{"/api/movies", "/api/reviews", "/api/reviews/1/like", "/api/reviews/1/dislike"} {
		w := serve(r, http.MethodPost, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
	w := serve(r, http.MethodGet, "/api/movies", map[string]string{"Authorization": "Bearer expired"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRateLimitApplied(t *testing.T) {
	r := newTestEngine(Options{Limiter: middleware.NewLocalLimiter(0.001, 1)})

	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/nowhere", nil).Code)
	w := serve(r, http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimitIgnoresForwardedForByDefault(t *testing.T) {
	r := newTestEngine(Options{Limiter: middleware.NewLocalLimiter(0.001, 1)})

	codes := make([]int, 0, 5)
	for i := 1; i <= 5; i++ {
		w := serve(r, http.MethodGet, "/nowhere", map[string]string{
			"X-Forwarded-For": fmt.Sprintf("203.0.113.%d", i),
		})
		codes = append(codes, w.Code)
	}

	assert.Equal(t, http.StatusNotFound, codes[0])
	for _, code := range codes[1:] {
		assert.Equal(t, http.StatusTooManyRequests, code)
	}
}

func TestRateLimitHonoursTrustedProxy(t *testing.T) {
	// httptest requests come from 192.0.2.1
	r := newTestEngine(Options{
		Limiter:        middleware.NewLocalLimiter(0.001, 1),
		TrustedProxies: []string{"192.0.2.0/24"},
	})

	for i := 1; i <= 3; i++ {
		w := serve(r, http.MethodGet, "/nowhere", map[string]string{
			"X-Forwarded-For": fmt.Sprintf("203.0.113.%d", i),
		})
		assert.Equal(t, http.StatusNotFound, w.Code, i)
	}
	w := serve(r, http.MethodGet, "/nowhere", map[string]string{"X-Forwarded-For": "203.0.113.1"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
