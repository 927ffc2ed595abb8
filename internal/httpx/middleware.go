package httpx

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ridKey = "rid"

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(ridKey, rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

// RID returns the request id set by RequestID, or "-" outside of it.
func RID(c *gin.Context) string {
	if v := c.GetString(ridKey); v != "" {
		return v
	}
	return "-"
}

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("[http] rid=%s %s %s status=%d bytes=%d ip=%s dur=%s",
			RID(c), c.Request.Method, c.Request.URL.Path, c.Writer.Status(),
			c.Writer.Size(), c.ClientIP(), time.Since(start))
	}
}
