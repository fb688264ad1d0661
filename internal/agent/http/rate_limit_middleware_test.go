package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRateLimitedRouter(rps float64, burst int) *gin.Engine {
	router := gin.New()
	router.Use(RateLimitMiddleware(rps, burst, testLogger()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	router := newRateLimitedRouter(10.0, 20)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(CallerAgentIDHeader, "shopper-agent")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitMiddleware_BlocksRequestsExceedingLimit(t *testing.T) {
	router := newRateLimitedRouter(1.0, 2)

	statuses := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(CallerAgentIDHeader, "shopper-agent")
		router.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	assert.Contains(t, statuses, http.StatusTooManyRequests)
}

func TestRateLimitMiddleware_SetsRetryAfterHeader(t *testing.T) {
	router := newRateLimitedRouter(1.0, 1)

	var limited *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(CallerAgentIDHeader, "shopper-agent")
		router.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			limited = w
			break
		}
	}

	assert.NotNil(t, limited, "expected at least one rate-limited response")
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))
}

func TestRateLimitMiddleware_CallersHaveIndependentBuckets(t *testing.T) {
	router := newRateLimitedRouter(1.0, 1)

	// Exhaust the first caller's bucket
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(CallerAgentIDHeader, "shopper-agent")
		router.ServeHTTP(w, req)
	}

	// A different caller still has a full bucket
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(CallerAgentIDHeader, "merchant-agent")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
