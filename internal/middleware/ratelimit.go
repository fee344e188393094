// Package middleware carries the request-path wrappers that are not part of
// echo's stock set.
package middleware

import (
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// tokenBucket is a per-second bucket: requests past the per-second budget
// get 429, no queueing.
type tokenBucket struct {
	capacity int
	tokens   int
	lastSec  int64
	mu       sync.Mutex
}

func (tb *tokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	nowSec := time.Now().Unix()
	if tb.lastSec != nowSec {
		tb.lastSec = nowSec
		tb.tokens = tb.capacity
	}
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// RateLimit returns a limiter middleware when RATE_LIMIT_ENABLED=true,
// otherwise a pass-through. Rate comes from RATE_LIMIT_QPS (default 200).
func RateLimit() echo.MiddlewareFunc {
	if os.Getenv("RATE_LIMIT_ENABLED") != "true" {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	qps := 200
	if s := os.Getenv("RATE_LIMIT_QPS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			qps = n
		}
	}
	tb := &tokenBucket{capacity: qps, tokens: qps, lastSec: time.Now().Unix()}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !tb.allow() {
				return c.NoContent(http.StatusTooManyRequests)
			}
			return next(c)
		}
	}
}
