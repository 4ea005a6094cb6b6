package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"forkful/apperr"
	"forkful/response"
)

func errorRouter(fail error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	r := gin.New()
	r.Use(Errors(logger))
	r.GET("/", func(c *gin.Context) {
		_ = c.Error(fail)
		c.Abort()
	})
	return r
}

func TestErrorsShapesTaggedError(t *testing.T) {
	r := errorRouter(apperr.Conflict("post already liked"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	var env response.Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Success {
		t.Error("success should be false")
	}
	if env.Error == nil || env.Error.Code != "CONFLICT" || env.Error.Message != "post already liked" {
		t.Errorf("error body = %+v", env.Error)
	}
}

func TestErrorsHidesUnknownError(t *testing.T) {
	r := errorRouter(errors.New("mongo: socket closed"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var env response.Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Error == nil || env.Error.Message != "internal server error" {
		t.Errorf("driver error should not leak, got %+v", env.Error)
	}
}

func TestErrorsLeavesWrittenResponsesAlone(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	r := gin.New()
	r.Use(Errors(logger))
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
