package middleware

import (
	"container/list"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	maxTrackedClients = 10_000
	clientIdleTTL     = 10 * time.Minute
)

type clientLimiter struct {
	ip       string
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter applies a limit per client IP plus a global limit.
// Clients are kept in LRU order; idle and overflow entries are evicted from the tail.
type IPRateLimiter struct {
	global  *rate.Limiter
	clients map[string]*list.Element
	order   *list.List // front: most recently seen
	mu      sync.Mutex

	rps        rate.Limit
	burst      int
	maxClients int
	trustProxy bool
	now        func() time.Time
}

// NewIPRateLimiter creates a new IP-based rate limiter
// rps: requests per second allowed per IP (the global limit is 10x)
// burst: maximum burst size per IP
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		global:     rate.NewLimiter(rate.Limit(rps*10), burst*10),
		clients:    make(map[string]*list.Element),
		order:      list.New(),
		rps:        rate.Limit(rps),
		burst:      burst,
		maxClients: maxTrackedClients,
		now:        time.Now,
	}
}

// TrustProxyHeaders включает определение клиента по X-Forwarded-For / X-Real-IP.
// Только если сервер стоит за reverse proxy, который перезаписывает эти заголовки.
func (l *IPRateLimiter) TrustProxyHeaders(trust bool) *IPRateLimiter {
	l.trustProxy = trust
	return l
}

// Allow reports whether a request from ip may proceed.
// Глобальный токен берется только после того, как клиент прошел свой лимит,
// иначе отклоненные запросы одного клиента съедали бы общий бюджет.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := l.touchLocked(ip, l.now())
	if !entry.limiter.Allow() {
		return false
	}
	return l.global.Allow()
}

// Tracked returns the number of client IPs with a live limiter.
func (l *IPRateLimiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.order.Len()
}

func (l *IPRateLimiter) touchLocked(ip string, now time.Time) *clientLimiter {
	if elem, ok := l.clients[ip]; ok {
		entry := elem.Value.(*clientLimiter)
		entry.lastSeen = now
		l.order.MoveToFront(elem)
		l.evictLocked(now)
		return entry
	}

	entry := &clientLimiter{
		ip:       ip,
		limiter:  rate.NewLimiter(l.rps, l.burst),
		lastSeen: now,
	}
	l.clients[ip] = l.order.PushFront(entry)
	l.evictLocked(now)
	return entry
}

// evictLocked удаляет с хвоста простаивающих клиентов и всех сверх maxClients.
// Текущий клиент всегда в начале списка и не удаляется.
func (l *IPRateLimiter) evictLocked(now time.Time) {
	threshold := now.Add(-clientIdleTTL)
	for l.order.Len() > 1 {
		tail := l.order.Back()
		entry := tail.Value.(*clientLimiter)
		if l.order.Len() <= l.maxClients && !entry.lastSeen.Before(threshold) {
			return
		}
		l.order.Remove(tail)
		delete(l.clients, entry.ip)
	}
}

// RateLimit middleware limits requests per client IP address
func RateLimit(limiter *IPRateLimiter, onDrop func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r, limiter.trustProxy)) {
				if onDrop != nil {
					onDrop()
				}
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP берет адрес соединения. Заголовки прокси клиент может подделать,
// поэтому они учитываются только при trustProxy.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if forwardedFor := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwardedFor != "" {
			first, _, _ := strings.Cut(forwardedFor, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
			return realIP
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
