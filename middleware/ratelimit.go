package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// attemptLog timestamps of recent attempts per key within a sliding window
type attemptLog struct {
	mu     sync.Mutex
	window time.Duration
	hits   map[string][]time.Time
}

func newAttemptLog(window time.Duration) *attemptLog {
	return &attemptLog{window: window, hits: make(map[string][]time.Time)}
}

func (l *attemptLog) recent(key string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	kept := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// allow records an attempt for key unless max attempts are already in the window
func (l *attemptLog) allow(key string, now time.Time, max int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	hits := l.recent(key, now)
	if len(hits) >= max {
		l.hits[key] = hits
		return false
	}
	l.hits[key] = append(hits, now)
	return true
}

// prune drops keys without attempts in the window
func (l *attemptLog) prune(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key := range l.hits {
		if hits := l.recent(key, now); len(hits) == 0 {
			delete(l.hits, key)
		} else {
			l.hits[key] = hits
		}
	}
}

// LoginRateLimit allows at most maxAttempts login attempts per client IP
// within window and answers 429 beyond that.
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	attempts := newAttemptLog(window)

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for now := range ticker.C {
			attempts.prune(now)
		}
	}()

	return func(c *gin.Context) {
		if !attempts.allow(c.ClientIP(), time.Now(), maxAttempts) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": "too many login attempts, try again later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
