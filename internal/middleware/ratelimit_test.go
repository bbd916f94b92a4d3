package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RateLimit(2, time.Minute), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	status := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		return w.Code
	}

	if got := status(); got != http.StatusOK {
		t.Fatalf("first request: %d", got)
	}
	if got := status(); got != http.StatusOK {
		t.Fatalf("second request: %d", got)
	}
	if got := status(); got != http.StatusTooManyRequests {
		t.Fatalf("third request: %d, want 429", got)
	}
}
