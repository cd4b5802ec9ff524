package middleware

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"alfredoptarigan/ats-api/internal/models"
)

const limiterEvictionAge = 10 * time.Minute

// LimiterManager keeps one token bucket per client IP.
type LimiterManager struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	rate     rate.Limit
	burst    int
	done     chan struct{}
	once     sync.Once
}

// NewLimiterManager returns nil when requestsPerMinute is not positive,
// which disables rate limiting.
func NewLimiterManager(requestsPerMinute, burst int) *LimiterManager {
	if requestsPerMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}

	m := &LimiterManager{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		rate:     rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:    burst,
		done:     make(chan struct{}),
	}

	go m.cleanupRoutine(limiterEvictionAge)
	return m
}

func (m *LimiterManager) getLimiter(key string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	limiter, exists := m.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(m.rate, m.burst)
		m.limiters[key] = limiter
	}
	m.lastSeen[key] = time.Now()

	return limiter
}

// Allow is non-blocking.
func (m *LimiterManager) Allow(key string) bool {
	return m.getLimiter(key).Allow()
}

// ActiveLimiters reports how many clients currently hold a bucket.
func (m *LimiterManager) ActiveLimiters() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.limiters)
}

func (m *LimiterManager) cleanupRoutine(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup(interval)
		case <-m.done:
			return
		}
	}
}

func (m *LimiterManager) cleanup(evictionAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for key, seen := range m.lastSeen {
		if now.Sub(seen) > evictionAge {
			delete(m.limiters, key)
			delete(m.lastSeen, key)
		}
	}
}

// Close stops the cleanup goroutine. Safe on a nil manager.
func (m *LimiterManager) Close() {
	if m == nil {
		return
	}
	m.once.Do(func() { close(m.done) })
}

// Handler rejects requests over the per-IP budget with 429.
// A nil manager lets every request through.
func (m *LimiterManager) Handler() fiber.Handler {
	if m == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return func(c *fiber.Ctx) error {
		key := "ip:" + c.IP()
		if !m.Allow(key) {
			log.Printf("🚦 Rate limit exceeded for %s on %s\n", key, c.Path())
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
