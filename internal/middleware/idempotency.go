package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// bodyCapture tees the response body so a completed request can be
// stored for replay.
type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCapture) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response of a completed POST carrying
// the same Idempotency-Key and blocks a duplicate arriving while the
// first is still in flight.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")

		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		actorID := c.GetInt64("actor_id")
		cacheKey := fmt.Sprintf("idemp:%s:%d:%s", c.FullPath(), actorID, idempKey)
		lockKey := cacheKey + ":lock"

		if cached, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			c.Abort()
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			return
		}

		// Short expiry so a crashed request releases the lock on its own.
		isNew, _ := rdb.SetNX(ctx, lockKey, "locked", 30*time.Second).Result()

		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "PROCESSING",
				"message": "Your request is already being processed, please wait",
			})
			return
		}

		capture := &bodyCapture{ResponseWriter: c.Writer}
		c.Writer = capture

		c.Next()

		// Only a completed success is worth replaying; anything else
		// releases the lock so the client can retry.
		if c.Writer.Status() < http.StatusBadRequest && capture.buf.Len() > 0 {
			_ = rdb.Set(ctx, cacheKey, capture.buf.String(), idempotencyTTL).Err()
		}
		_ = rdb.Del(ctx, lockKey).Err()
	}
}
