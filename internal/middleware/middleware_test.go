package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func okRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw...)
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func get(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:12345"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	router := okRouter(NewRateLimiter(1, 2).Middleware())

	assert.Equal(t, http.StatusOK, get(router).Code)
	assert.Equal(t, http.StatusOK, get(router).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router).Code)
}

func TestSecurityHeadersSet(t *testing.T) {
	rec := get(okRouter(SecurityHeaders()))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestRequestIDGeneratedWhenAbsent(t *testing.T) {
	rec := get(okRouter(RequestID()))

	assert.Len(t, rec.Header().Get("X-Request-ID"), 16)
}

func TestRequestIDHonorsInbound(t *testing.T) {
	router := okRouter(RequestID())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
