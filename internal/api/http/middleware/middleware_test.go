package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/folio-works/portfolio-api/internal/media"
	"github.com/folio-works/portfolio-api/internal/projects/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(logger *zap.Logger, exposeStack bool) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(logger), Recovery(logger, exposeStack), ErrorHandler(logger))
	return r
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", domain.NewValidationError("title", "title and description are required"), http.StatusBadRequest, "title and description are required"},
		{"unsupported media", &media.UnsupportedMediaError{ContentType: "text/plain"}, http.StatusBadRequest, ""},
		{"not found", domain.ErrNotFound, http.StatusNotFound, "project not found"},
		{"wrapped not found", fmt.Errorf("get: %w", domain.ErrNotFound), http.StatusNotFound, ""},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newEngine(zap.NewNop(), false)
			r.GET("/x", func(c *gin.Context) { _ = c.Error(tc.err) })

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))

			assert.Equal(t, tc.status, rr.Code)
			body := decode(t, rr)
			if tc.msg != "" {
				assert.Equal(t, tc.msg, body["error"])
			}
			if tc.status == http.StatusInternalServerError {
				assert.Equal(t, "connection reset", body["message"])
			}
		})
	}
}

func TestErrorHandler_LeavesWrittenResponsesAlone(t *testing.T) {
	r := newEngine(zap.NewNop(), false)
	r.GET("/x", func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{"ok": true})
		_ = c.Error(errors.New("late"))
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusAccepted, rr.Code)
}

func TestRecovery(t *testing.T) {
	for _, expose := range []bool{true, false} {
		t.Run(fmt.Sprintf("expose=%v", expose), func(t *testing.T) {
			r := newEngine(zap.NewNop(), expose)
			r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", nil))

			assert.Equal(t, http.StatusInternalServerError, rr.Code)
			body := decode(t, rr)
			assert.Equal(t, "kaboom", body["message"])
			_, hasStack := body["stack"]
			assert.Equal(t, expose, hasStack)
		})
	}
}

func TestRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := newEngine(zap.New(core), false)
	var seen string
	r.GET("/x", func(c *gin.Context) {
		seen = GetRequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "abc-123", fields["request_id"])
	assert.EqualValues(t, http.StatusNoContent, fields["status"])

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, rr.Header().Get(RequestIDHeader), 36)
}
