package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"libraryhub/internal/http/middlewares"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterMiddleware(t *testing.T) {
	// 1 token/sec with burst 2: the third immediate request must be rejected
	rl := middlewares.NewRateLimiter(1, 2)

	r := gin.New()
	r.POST("/login", rl.RateLimiterMiddleware(middlewares.KeyByIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	statuses := make([]int, 0, 3)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Fatalf("expected first two requests to pass, got %v", statuses)
	}

	if statuses[2] != http.StatusTooManyRequests {
		t.Fatalf("expected third request to be limited, got %v", statuses)
	}
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := middlewares.NewRateLimiter(1, 1)

	r := gin.New()
	r.POST("/login", rl.RateLimiterMiddleware(middlewares.KeyByIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if got := do("10.0.0.1:1"); got != http.StatusOK {
		t.Fatalf("first client first request: got %d", got)
	}

	if got := do("10.0.0.1:1"); got != http.StatusTooManyRequests {
		t.Fatalf("first client second request: got %d, want 429", got)
	}

	// a different client still has its own bucket
	if got := do("10.0.0.2:1"); got != http.StatusOK {
		t.Fatalf("second client first request: got %d", got)
	}
}
