package httpkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"delivery_admin_backend/platform/apperr"
	"delivery_admin_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) {
		fromCtx, _ := c.Request.Context().Value(logger.RequestIDKey).(string)
		c.String(http.StatusOK, fromCtx)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Header().Get(HeaderRequestID) != "abc-123" || rec.Body.String() != "abc-123" {
		t.Fatalf("expected incoming id to be reused, got header=%q body=%q", rec.Header().Get(HeaderRequestID), rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("x", 200))
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if got := rec.Header().Get(HeaderRequestID); len(got) != 36 {
		t.Fatalf("expected a generated uuid for an oversized id, got %q", got)
	}
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "unavailable", err: apperr.Unavailable("search corpus not ready"), wantStatus: http.StatusServiceUnavailable, wantMsg: "search corpus not ready"},
		{name: "not found", err: apperr.NotFound("missing"), wantStatus: http.StatusNotFound, wantMsg: "missing"},
		{name: "wrapped", err: errors.Join(errors.New("ctx"), apperr.BadRequest("bad")), wantStatus: http.StatusBadRequest, wantMsg: "bad"},
		{name: "plain", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantMsg: "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			if !HandleError(c, tt.err) {
				t.Fatal("expected error to be handled")
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, body.Error)
			}
			if len(c.Errors) != 1 {
				t.Fatalf("expected the error to be recorded for the request logger, got %d", len(c.Errors))
			}
		})
	}

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	if HandleError(c, nil) {
		t.Fatal("nil error should not be handled")
	}
}

func TestGetIdentity_Anonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	id := GetIdentity(c)
	if id.IsAuthenticated() || id.HasRole("admin") {
		t.Fatal("expected anonymous identity")
	}
}

func TestExtractBearerToken(t *testing.T) {
	if _, ok := extractBearerToken("Basic abc"); ok {
		t.Fatal("basic auth should be rejected")
	}
	if _, ok := extractBearerToken("Bearer   "); ok {
		t.Fatal("empty bearer token should be rejected")
	}
	if token, ok := extractBearerToken("Bearer abc"); !ok || token != "abc" {
		t.Fatalf("unexpected token %q", token)
	}
}
