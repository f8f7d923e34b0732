package redisserver

import (
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/respkv/pkg/cmap"
)

// limiterIdleTTL is how long a client's bucket survives without traffic.
// A bucket refills completely within a second, so an evicted client comes
// back to the same state it would have had.
const limiterIdleTTL = time.Minute

type clientLimiter struct {
	*rate.Limiter
	lastSeen atomic.Int64
}

// limiterRegistry holds one token bucket per client IP.
type limiterRegistry struct {
	limit     int
	ttl       time.Duration
	now       func() time.Time
	lastSweep atomic.Int64
	limiters  *cmap.Map[*clientLimiter]
}

func newLimiterRegistry(perSecond int) *limiterRegistry {
	r := &limiterRegistry{
		limit:    perSecond,
		ttl:      limiterIdleTTL,
		now:      time.Now,
		limiters: cmap.New[*clientLimiter](),
	}
	r.lastSweep.Store(r.now().UnixNano())
	return r
}

// allow reports whether ip may run one more command now.
func (r *limiterRegistry) allow(ip string) bool {
	now := r.now()
	l, ok := r.limiters.Get(ip)
	if !ok {
		// rate.Limit(limit) commands per second, burst = limit.
		l, _ = r.limiters.GetOrSet(ip, &clientLimiter{Limiter: rate.NewLimiter(rate.Limit(r.limit), r.limit)})
	}
	l.lastSeen.Store(now.UnixNano())
	return l.AllowN(now, 1)
}

// sweep drops buckets idle for longer than the TTL. It does the work at
// most once per TTL and returns how many buckets were dropped.
func (r *limiterRegistry) sweep() int {
	now := r.now().UnixNano()
	last := r.lastSweep.Load()
	if now-last < int64(r.ttl) || !r.lastSweep.CompareAndSwap(last, now) {
		return 0
	}

	cutoff := now - int64(r.ttl)
	var idle []string
	r.limiters.Range(func(ip string, l *clientLimiter) bool {
		if l.lastSeen.Load() < cutoff {
			idle = append(idle, ip)
		}
		return true
	})
	for _, ip := range idle {
		r.limiters.Delete(ip)
	}
	return len(idle)
}

// len reports how many clients are tracked.
func (r *limiterRegistry) len() int {
	return r.limiters.Count()
}
