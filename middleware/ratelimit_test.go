package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func TestLimiterMemoryWindow(t *testing.T) {
	l := NewLimiter(nil, 3, time.Minute, logrus.New())

	for i := 0; i < 3; i++ {
		if !l.allowMemory("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.allowMemory("1.2.3.4") {
		t.Error("request over the limit should be denied")
	}
	// Other clients have their own window.
	if !l.allowMemory("5.6.7.8") {
		t.Error("separate ip should be unaffected")
	}
}

func TestLimiterWindowReset(t *testing.T) {
	l := NewLimiter(nil, 1, 10*time.Millisecond, logrus.New())
	if !l.allowMemory("ip") {
		t.Fatal("first request should pass")
	}
	if l.allowMemory("ip") {
		t.Fatal("second request should be limited")
	}
	time.Sleep(15 * time.Millisecond)
	if !l.allowMemory("ip") {
		t.Error("request after window reset should pass")
	}
}

func TestRateLimitMiddlewareResponds429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	l := NewLimiter(nil, 1, time.Minute, logger)

	r := gin.New()
	r.GET("/", RateLimit(l), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("first request status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", w.Code)
	}
}
