package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// clientIdleTTL is how long a client bucket survives without requests.
const clientIdleTTL = 10 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	clients   map[string]*client
	rate      rate.Limit
	burstSize int
	lastSweep time.Time
	now       func() time.Time
	mutex     sync.Mutex
}

func newRateLimiter(reqRate rate.Limit, burstSize int) *rateLimiter {
	return &rateLimiter{
		clients:   make(map[string]*client),
		rate:      reqRate,
		burstSize: burstSize,
		now:       time.Now,
	}
}

// limiterFor returns the bucket of ip, evicting idle buckets at most once per
// clientIdleTTL.
func (r *rateLimiter) limiterFor(ip string) *rate.Limiter {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := r.now()
	if now.Sub(r.lastSweep) > clientIdleTTL {
		for key, c := range r.clients {
			if now.Sub(c.lastSeen) > clientIdleTTL {
				delete(r.clients, key)
			}
		}
		r.lastSweep = now
	}

	c, exist := r.clients[ip]
	if !exist {
		c = &client{limiter: rate.NewLimiter(r.rate, r.burstSize)}
		r.clients[ip] = c
	}
	c.lastSeen = now

	return c.limiter
}

// NewRateLimiter guards the expensive endpoints (uploads, robot requests,
// login) with a token bucket per client IP.
func (m *middleware) NewRateLimiter(ctx *fiber.Ctx) error {
	clientIP := ctx.IP()
	reservation := m.rateLimitter.limiterFor(clientIP).Reserve()

	if !reservation.OK() {
		return m.tooManyRequests(ctx, clientIP, 0)
	}
	if delay := reservation.Delay(); delay > 0 {
		reservation.Cancel()
		return m.tooManyRequests(ctx, clientIP, delay)
	}

	return ctx.Next()
}

func (m *middleware) tooManyRequests(ctx *fiber.Ctx, clientIP string, retryAfter time.Duration) error {
	m.log.Warnf("too many requests for IP %s", clientIP)

	if retryAfter > 0 {
		ctx.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
	}
	return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error": "Too many requests",
	})
}
