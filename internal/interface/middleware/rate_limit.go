package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/business-card-api/pkg/apperror"
)

var ErrRateLimited = apperror.New(apperror.KindRateLimited, "too many requests, try again later")

// KeyFunc names the counter a request is charged to.
type KeyFunc func(c *gin.Context) string

// AllowFunc returns true for requests that skip the limit.
type AllowFunc func(*gin.Context) bool

func callerIP(c *gin.Context) string {
	if ip := c.GetString(CtxRealIPKey); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

// KeyByIP charges anonymous endpoints (login, register, debug) per client IP.
// scope keeps their counters apart.
func KeyByIP(scope string) KeyFunc {
	return func(c *gin.Context) string {
		return "rl:" + scope + ":ip:" + callerIP(c)
	}
}

// KeyByCaller charges authenticated user routes per user id; requests that
// reach it before Auth sets an id fall back to the IP.
func KeyByCaller(scope string) KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(CtxUserIDKey); uid != "" {
			return "rl:" + scope + ":user:" + uid
		}
		return "rl:" + scope + ":anon:" + callerIP(c)
	}
}

// Returns {hits in window, ms until the window resets}.
var hitWindowScript = redis.NewScript(`
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {hits, redis.call("PTTL", KEYS[1])}
`)

// RateLimit allows max requests per key in each fixed window, counted in
// Redis. Without Redis it does nothing; a Redis error lets the request through.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		hits, resetIn, err := chargeWindow(c, rdb, keyFn(c), window)
		if err != nil {
			c.Next()
			return
		}

		remaining := max - hits
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetIn))

		if hits > max {
			c.Header("Retry-After", strconv.Itoa(resetIn))
			fail(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}

// chargeWindow counts one hit and returns the total and the seconds left in
// the window, rounded up and never below one.
func chargeWindow(c *gin.Context, rdb *redis.Client, key string, window time.Duration) (int, int, error) {
	res, err := hitWindowScript.Run(c.Request.Context(), rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(res) != 2 {
		return 0, 0, redis.Nil
	}
	resetIn := int((time.Duration(res[1])*time.Millisecond + time.Second - 1) / time.Second)
	if resetIn < 1 {
		resetIn = 1
	}
	return int(res[0]), resetIn, nil
}
