package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"forkful/config"
	"forkful/handlers"
	"forkful/middleware"
	"forkful/response"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:          "test-secret",
		CORSAllowedOrigins: "http://localhost:3000",
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	h := Handlers{
		Auth:          &handlers.AuthHandler{},
		Users:         &handlers.UserHandler{},
		Posts:         &handlers.PostHandler{},
		Comments:      &handlers.CommentHandler{},
		Follows:       &handlers.FollowHandler{},
		Notifications: &handlers.NotificationHandler{},
		Meals:         &handlers.MealHandler{},
		Admin:         &handlers.AdminHandler{},
		Reports:       &handlers.ReportHandler{},
	}
	limiter := middleware.NewLimiter(nil, 100, time.Minute, logger)
	return Setup(cfg, logger, h, limiter)
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
}

func TestUnknownRouteReturnsEnvelope(t *testing.T) {
	router := testRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var env response.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Success {
		t.Error("success should be false")
	}
	if env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := testRouter()

	paths := []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/posts/feed"},
		{"GET", "/api/v1/notifications"},
		{"GET", "/api/v1/users/me"},
		{"POST", "/api/v1/posts"},
		{"GET", "/api/v1/meals"},
		{"GET", "/api/v1/admin/users"},
		{"GET", "/api/v1/reports/admin/user-growth"},
	}
	for _, p := range paths {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(p.method, p.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", p.method, p.path, rec.Code)
		}
	}
}

func TestOptionalAuthRoutesAreReachableWithoutToken(t *testing.T) {
	router := testRouter()

	// A malformed post id fails before any handler dependency is touched, so
	// the route is provably wired without a database.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/posts/not-a-hex-id", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var env response.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error = %+v", env.Error)
	}
}
