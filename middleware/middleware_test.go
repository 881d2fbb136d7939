package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	first := map[string]string{"X-Forwarded-For": "10.0.0.1, 172.16.0.1"}
	assert.Equal(t, http.StatusOK, serve(r, first).Code)
	assert.Equal(t, http.StatusOK, serve(r, first).Code)

	w := serve(r, first)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate_limited")

	assert.Equal(t, http.StatusOK, serve(r, map[string]string{"X-Forwarded-For": "10.0.0.2"}).Code)
}

func TestRateLimiterStoreEvictsIdleVisitors(t *testing.T) {
	store := newRateLimiterStore(10)
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	a := store.getLimiter("10.0.0.1", now)
	assert.Same(t, a, store.getLimiter("10.0.0.1", now.Add(time.Minute)))

	store.getLimiter("10.0.0.2", now.Add(15*time.Minute))
	assert.Len(t, store.limiters, 1)
	assert.NotSame(t, a, store.getLimiter("10.0.0.1", now.Add(15*time.Minute)))
}

func TestRequestContext(t *testing.T) {
	r := gin.New()
	r.Use(RequestContext(zap.NewNop()))
	var requestID, agentID string
	var hasLogger bool
	r.GET("/ping", func(c *gin.Context) {
		requestID = c.GetString("requestID")
		agentID = c.GetString("agentID")
		_, hasLogger = c.Get("logger")
		c.Status(http.StatusNoContent)
	})

	t.Run("generates a request id", func(t *testing.T) {
		w := serve(r, nil)
		require.NotEmpty(t, requestID)
		assert.Equal(t, requestID, w.Header().Get(RequestIDHeader))
		assert.Empty(t, agentID)
		assert.True(t, hasLogger)
	})

	t.Run("keeps the caller's request id and agent", func(t *testing.T) {
		w := serve(r, map[string]string{RequestIDHeader: "req-42", AgentIDHeader: "agent-7"})
		assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "req-42", requestID)
		assert.Equal(t, "agent-7", agentID)
	})
}

func TestGetClientIP(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": " 10.0.0.1 , 172.16.0.1"}, "127.0.0.1:5000", "10.0.0.1"},
		{"real ip", map[string]string{"X-Real-IP": "10.0.0.9"}, "127.0.0.1:5000", "10.0.0.9"},
		{"socket address", nil, "192.168.1.4:5000", "192.168.1.4"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, getClientIP(c))
		})
	}
}
