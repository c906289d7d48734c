package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitPerClient(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2)
	dropped := 0
	handler := RateLimit(limiter, func() { dropped++ })(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(remoteAddr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/hello", nil)
		req.RemoteAddr = remoteAddr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1111"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:3333"))

	// другой клиент имеет собственный бюджет
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1111"))

	assert.Equal(t, 1, dropped)
	assert.Equal(t, 2, limiter.Tracked())
}

func TestRateLimitFloodingClientDoesNotStarveOthers(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)

	allowed := 0
	for i := 0; i < 50; i++ {
		if limiter.Allow("10.0.0.1") {
			allowed++
		}
	}
	assert.Equal(t, 1, allowed)

	// отклоненные запросы первого клиента не тратят общий бюджет
	assert.True(t, limiter.Allow("10.0.0.2"))
	assert.True(t, limiter.Allow("10.0.0.3"))
}

func TestRateLimitIgnoresSpoofedHeadersByDefault(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 1)
	handler := RateLimit(limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/hello", nil)
		req.RemoteAddr = "10.0.0.1:1111"
		req.Header.Set("X-Forwarded-For", forwardedFor)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, send("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.2"))
	assert.Equal(t, 1, limiter.Tracked())
}

func TestIPRateLimiterEvictsLeastRecentClients(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	limiter.maxClients = 2

	limiter.Allow("10.0.0.1")
	limiter.Allow("10.0.0.2")
	limiter.Allow("10.0.0.1")
	limiter.Allow("10.0.0.3")

	assert.Equal(t, 2, limiter.Tracked())
	assert.Contains(t, limiter.clients, "10.0.0.1")
	assert.Contains(t, limiter.clients, "10.0.0.3")
	assert.NotContains(t, limiter.clients, "10.0.0.2")
}

func TestIPRateLimiterEvictsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewIPRateLimiter(1, 1)
	limiter.now = func() time.Time { return now }

	limiter.Allow("10.0.0.1")
	limiter.Allow("10.0.0.2")
	require.Equal(t, 2, limiter.Tracked())

	now = now.Add(clientIdleTTL + time.Second)
	limiter.Allow("10.0.0.3")

	assert.Equal(t, 1, limiter.Tracked())
	assert.Contains(t, limiter.clients, "10.0.0.3")
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{name: "remote addr", remoteAddr: "192.0.2.1:5000", want: "192.0.2.1"},
		{name: "forwarded for behind proxy", remoteAddr: "10.0.0.1:1", trustProxy: true, headers: map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, want: "203.0.113.5"},
		{name: "real ip behind proxy", remoteAddr: "10.0.0.1:1", trustProxy: true, headers: map[string]string{"X-Real-IP": "198.51.100.7"}, want: "198.51.100.7"},
		{name: "forwarded for without proxy", remoteAddr: "10.0.0.1:1", headers: map[string]string{"X-Forwarded-For": "203.0.113.5"}, want: "10.0.0.1"},
		{name: "real ip without proxy", remoteAddr: "10.0.0.1:1", headers: map[string]string{"X-Real-IP": "198.51.100.7"}, want: "10.0.0.1"},
		{name: "no port", remoteAddr: "pipe", want: "pipe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(req, tt.trustProxy))
		})
	}
}
