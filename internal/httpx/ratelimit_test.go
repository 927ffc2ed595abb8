package httpx

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hitFrom sends n requests from remote, each with its own X-Forwarded-For value.
func hitFrom(r *gin.Engine, remote string, n int) []int {
	codes := make([]int, 0, n)
	for i := 0; i < n; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = remote + ":40000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i+1))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	return codes
}

func hit(r *gin.Engine, n int) []int { return hitFrom(r, "192.0.2.1", n) }

func limitedEngine(t *testing.T, limit int) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := gin.New()
	require.NoError(t, r.SetTrustedProxies(nil))
	r.POST("/login", RateLimiter(client, "login", limit), func(c *gin.Context) { OK(c, nil) })
	return r, mr
}

func TestRateLimiter_NilClientPassesThrough(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimiter(nil, "login", 1), func(c *gin.Context) { OK(c, nil) })

	for _, code := range hit(r, 3) {
		assert.Equal(t, http.StatusOK, code)
	}
}

func TestRateLimiter_UnreachableRedisPassesThrough(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	r := gin.New()
	r.POST("/login", RateLimiter(client, "login", 1), func(c *gin.Context) { OK(c, nil) })

	for _, code := range hit(r, 2) {
		assert.Equal(t, http.StatusOK, code)
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	r, mr := limitedEngine(t, 2)

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, hit(r, 3))
	assert.Equal(t, time.Minute, mr.TTL("rate_limit:login:192.0.2.1"))

	// another client keeps its own bucket
	assert.Equal(t, []int{http.StatusOK}, hitFrom(r, "192.0.2.2", 1))
}

func TestRateLimiter_ForwardedForIgnoredWithoutTrustedProxy(t *testing.T) {
	r, mr := limitedEngine(t, 1)

	codes := hit(r, 3)
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
	assert.False(t, mr.Exists("rate_limit:login:10.0.0.2"))
}

func TestRateLimiter_WindowExpires(t *testing.T) {
	r, mr := limitedEngine(t, 1)

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, hit(r, 2))
	mr.FastForward(rateLimitPeriod + time.Second)
	assert.Equal(t, []int{http.StatusOK}, hit(r, 1))
}
