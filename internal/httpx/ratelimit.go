package httpx

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const rateLimitPeriod = time.Minute

// RateLimiter allows limit requests per client IP and minute for the routes it
// guards. A nil client, or a redis error, lets every request through.
//
// The client IP comes from gin, so the engine's trusted proxies decide whether
// X-Forwarded-For is honoured.
func RateLimiter(client *redis.Client, prefix string, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || limit <= 0 {
			c.Next()
			return
		}

		key := "rate_limit:" + prefix + ":" + c.ClientIP()
		ctx := c.Request.Context()

		// The window starts with the first hit; INCR keeps the TTL set by SET NX.
		var incr *redis.IntCmd
		_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetNX(ctx, key, 0, rateLimitPeriod)
			incr = pipe.Incr(ctx, key)
			return nil
		})
		if err != nil {
			log.Printf("[http] rid=%s rate limiter unavailable: %v", RID(c), err)
			c.Next()
			return
		}

		if incr.Val() > int64(limit) {
			code := http.StatusTooManyRequests
			c.AbortWithStatusJSON(code, Envelope{Code: code, Status: http.StatusText(code), Error: "too many requests"})
			return
		}
		c.Next()
	}
}
