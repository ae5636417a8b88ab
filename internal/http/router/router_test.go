package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apphttp "delivery_admin_backend/internal/http"
	"delivery_admin_backend/internal/search"
	"delivery_admin_backend/internal/search/cache"
	"delivery_admin_backend/internal/search/repository"
	"delivery_admin_backend/internal/search/snapshot"
	"delivery_admin_backend/platform/config"
	"delivery_admin_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const testSecret = "test-access-secret"

func testConfig() *config.Config {
	return &config.Config{
		Env:            "test",
		HTTPAddr:       ":0",
		CORSOrigins:    []string{"http://localhost:4200"},
		CORSAllowCreds: true,
		SearchSource:   config.SourceStatic,
	}
}

func newTestApp(t *testing.T, cfg *config.Config, loaded bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	holder := snapshot.NewHolder(repository.NewReferenceSource(), logger.Nop())
	if loaded {
		if _, err := holder.Reload(context.Background()); err != nil {
			t.Fatalf("reload: %v", err)
		}
	}

	app := &apphttp.App{
		Config:  cfg,
		Logger:  logger.Nop(),
		Health:  apphttp.HealthChecks{holder},
		Modules: []apphttp.Module{search.NewModule(holder, cache.Noop{}, cfg, logger.Nop())},
	}
	return New(app)
}

func serve(engine *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func accessToken(t *testing.T, roles ...string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   uuid.NewString(),
		"type":  "access",
		"roles": roles,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestRouter_SearchRoutes(t *testing.T) {
	engine := newTestApp(t, testConfig(), true)

	for _, path := range []string{"/search?q=maria", "/api/v1/search?q=maria"} {
		rec := serve(engine, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		if rec.Header().Get("X-Request-ID") == "" {
			t.Fatalf("%s: expected a request id header", path)
		}
		if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Fatalf("%s: expected security headers", path)
		}
	}
}

func TestRouter_HealthAndReadiness(t *testing.T) {
	notReady := newTestApp(t, testConfig(), false)
	if rec := serve(notReady, http.MethodGet, "/api/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected health 200, got %d", rec.Code)
	}
	if rec := serve(notReady, http.MethodGet, "/api/ready", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected ready 503 before load, got %d", rec.Code)
	}

	ready := newTestApp(t, testConfig(), true)
	if rec := serve(ready, http.MethodGet, "/api/ready", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected ready 200, got %d", rec.Code)
	}
}

func TestRouter_AuthEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.JWTAccessSecret = testSecret
	engine := newTestApp(t, cfg, true)

	if rec := serve(engine, http.MethodGet, "/api/v1/search", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := serve(engine, http.MethodGet, "/search", "garbage"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with invalid token, got %d", rec.Code)
	}

	viewer := accessToken(t, "viewer")
	if rec := serve(engine, http.MethodGet, "/search", viewer); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
	if rec := serve(engine, http.MethodPost, "/api/v1/search/reload", viewer); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin reload, got %d", rec.Code)
	}

	admin := accessToken(t, "admin")
	if rec := serve(engine, http.MethodPost, "/api/v1/search/reload", admin); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin reload, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestRouter_AdminRoutesRequireAuth(t *testing.T) {
	engine := newTestApp(t, testConfig(), true)

	for _, path := range []string{"/api/v1/search/reload", "/api/v1/search/publish", "/search/reload"} {
		if rec := serve(engine, http.MethodPost, path, ""); rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404 with auth disabled, got %d", path, rec.Code)
		}
	}
	if rec := serve(engine, http.MethodGet, "/api/v1/search", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected search 200 with auth disabled, got %d", rec.Code)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.SearchRateLimitRPS = 0.001
	cfg.SearchRateLimitBurst = 1
	engine := newTestApp(t, cfg, true)

	if rec := serve(engine, http.MethodGet, "/api/v1/search", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}
	if rec := serve(engine, http.MethodGet, "/api/v1/search", ""); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

type failingCheck struct{ err error }

func (f failingCheck) Ping(context.Context) error { return f.err }

func TestHealthChecks_JoinFailures(t *testing.T) {
	a := errors.New("db down")
	b := errors.New("corpus not loaded")
	err := apphttp.HealthChecks{failingCheck{}, failingCheck{err: a}, nil, failingCheck{err: b}}.Ping(context.Background())
	if !errors.Is(err, a) || !errors.Is(err, b) {
		t.Fatalf("expected joined errors, got %v", err)
	}
	if err := (apphttp.HealthChecks{}).Ping(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
