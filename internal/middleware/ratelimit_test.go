package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterRejectsBurstOverflow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(NewRateLimiter(1, 2))
	r.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	status := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		return w.Code
	}

	if got := status(); got != http.StatusOK {
		t.Fatalf("first request = %d", got)
	}
	if got := status(); got != http.StatusOK {
		t.Fatalf("second request = %d", got)
	}
	if got := status(); got != http.StatusTooManyRequests {
		t.Fatalf("third request = %d, want 429", got)
	}
}

func TestRateLimiterTracksClientsSeparately(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(NewRateLimiter(1, 1))
	r.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	status := func(addr string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		r.ServeHTTP(w, req)
		return w.Code
	}

	if got := status("10.0.0.1:1234"); got != http.StatusOK {
		t.Fatalf("first client = %d", got)
	}
	if got := status("10.0.0.1:1234"); got != http.StatusTooManyRequests {
		t.Fatalf("first client second hit = %d, want 429", got)
	}
	// A different client has its own bucket.
	if got := status("10.0.0.2:1234"); got != http.StatusOK {
		t.Fatalf("second client = %d", got)
	}
}
