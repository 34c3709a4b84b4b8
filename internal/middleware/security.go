package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const (
	visitorTTL      = 3 * time.Minute
	cleanupInterval = time.Minute
)

func logger() *slog.Logger {
	return slog.Default().With("component", "middleware")
}

// RateLimiter stores a token bucket per client IP
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter. Idle visitors are evicted until ctx ends.
func NewRateLimiter(ctx context.Context, r rate.Limit, b int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    b,
	}
	go rl.cleanupVisitors(ctx)
	return rl
}

// GetLimiter returns the bucket for ip, creating it on first sight
func (rl *RateLimiter) GetLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) evict(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	n := 0
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(rl.visitors, ip)
			n++
		}
	}
	return n
}

func (rl *RateLimiter) cleanupVisitors(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.evict(now)
		}
	}
}

// RateLimit rejects requests from clients that exceed their bucket
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.GetLimiter(ip).Allow() {
			logger().Warn("rate limit exceeded", "ip", ip, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests",
				"error":   "Please slow down your requests",
			})
			return
		}
		c.Next()
	}
}

// ConcurrencyLimit caps in-flight requests; each scrape may own a whole
// browser, so excess work is refused rather than queued
func ConcurrencyLimit(n int) gin.HandlerFunc {
	slots := make(chan struct{}, n)
	return func(c *gin.Context) {
		select {
		case slots <- struct{}{}:
			defer func() { <-slots }()
			c.Next()
		default:
			logger().Warn("concurrency limit reached", "limit", n, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"message": "Server busy",
				"error":   "Too many scrapes in flight, retry shortly",
			})
		}
	}
}

// SecurityHeaders adds security headers to responses. The API serves JSON
// only, so the CSP is locked down except for the swagger UI.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")

		if strings.HasPrefix(c.Request.URL.Path, "/swagger/") {
			c.Header("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		} else {
			c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		}

		if strings.HasPrefix(c.Request.URL.Path, "/api/admin/") {
			c.Header("Cache-Control", "no-store")
			c.Header("Pragma", "no-cache")
		}

		c.Next()
	}
}

// AdminKey protects admin endpoints. The X-Admin-Key header is compared
// against a bcrypt hash so the plain key never sits in configuration.
func AdminKey(keyHash string) gin.HandlerFunc {
	hash := []byte(keyHash)
	return func(c *gin.Context) {
		key := c.GetHeader("X-Admin-Key")
		if key == "" || len(hash) == 0 || bcrypt.CompareHashAndPassword(hash, []byte(key)) != nil {
			logger().Warn("admin key rejected", "ip", c.ClientIP(), "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized",
				"error":   "Admin access required",
			})
			return
		}
		c.Next()
	}
}

// HTTPMethodFilter restricts allowed HTTP methods
func HTTPMethodFilter(allowedMethods []string) gin.HandlerFunc {
	allowed := make(map[string]bool)
	for _, method := range allowedMethods {
		allowed[method] = true
	}

	return func(c *gin.Context) {
		if !allowed[c.Request.Method] {
			logger().Warn("blocked http method", "method", c.Request.Method, "ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{
				"success": false,
				"message": "Method not allowed",
			})
			return
		}
		c.Next()
	}
}

// UserAgentFilter blocks well known attack tools
func UserAgentFilter() gin.HandlerFunc {
	suspiciousAgents := []string{
		"sqlmap", "nikto", "nmap", "masscan", "gobuster",
		"dirbuster", "w3af", "havij",
	}

	return func(c *gin.Context) {
		userAgent := strings.ToLower(c.GetHeader("User-Agent"))
		for _, suspicious := range suspiciousAgents {
			if strings.Contains(userAgent, suspicious) {
				logger().Warn("blocked user agent", "ip", c.ClientIP(), "user_agent", userAgent)
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"success": false,
					"message": "Access denied",
				})
				return
			}
		}
		c.Next()
	}
}
