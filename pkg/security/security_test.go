package security

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/matryer/is"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestCORSAllowList(t *testing.T) {
	is := is.New(t)
	r := newEngine(CORS([]string{"https://app.example.com/"}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	is.Equal(w.Header().Get("Access-Control-Allow-Origin"), "https://app.example.com")
	is.Equal(w.Header().Get("Access-Control-Allow-Credentials"), "true")

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	is.Equal(w.Header().Get("Access-Control-Allow-Origin"), "")

	req = httptest.NewRequest(http.MethodOptions, "/ping", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	is.Equal(w.Code, http.StatusNoContent)
}

func TestRateLimiter(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := newEngine(RateLimiter(ctx, 2, time.Hour))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
	}
	is.Equal(codes, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests})
}

func TestSecureHeaders(t *testing.T) {
	is := is.New(t)
	r := newEngine(Secure())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	is.Equal(w.Header().Get("X-Content-Type-Options"), "nosniff")
	is.Equal(w.Header().Get("X-Frame-Options"), "DENY")
}
