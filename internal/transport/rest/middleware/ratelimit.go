package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type ipLimiter struct {
	limiter    *rate.Limiter
	lastActive time.Time
}

// RateLimiter keeps one token bucket per client IP
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	rps      rate.Limit
	burst    int
	proxies  TrustedProxies
	now      func() time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*ipLimiter),
		rps:      rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

// TrustProxies sets the proxies whose X-Forwarded-For header identifies the client
func (l *RateLimiter) TrustProxies(proxies TrustedProxies) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.proxies = proxies
}

// Middleware answers 429 once an IP runs out of tokens
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || l.allow(l.clientIP(r)) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Retry-After", "1")
		deny(w, http.StatusTooManyRequests, "too many requests, please slow down")
	})
}

func (l *RateLimiter) allow(ip string) bool {
	l.mu.Lock()
	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastActive = l.now()
	l.mu.Unlock()
	return entry.limiter.Allow()
}

// Sweep drops limiters idle for longer than maxIdle and returns how many are left
func (l *RateLimiter) Sweep(maxIdle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for ip, entry := range l.limiters {
		if now.Sub(entry.lastActive) > maxIdle {
			delete(l.limiters, ip)
		}
	}
	return len(l.limiters)
}

// Run sweeps idle limiters every interval until ctx is done
func (l *RateLimiter) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep(maxIdle)
		}
	}
}

func (l *RateLimiter) clientIP(r *http.Request) string {
	l.mu.Lock()
	proxies := l.proxies
	l.mu.Unlock()
	return proxies.ClientIP(r)
}

// TrustedProxies are the networks allowed to report the client address
type TrustedProxies []*net.IPNet

// ParseTrustedProxies reads a comma-separated list of IPs and CIDRs
func ParseTrustedProxies(list string) (TrustedProxies, error) {
	var proxies TrustedProxies
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if !strings.Contains(item, "/") {
			ip := net.ParseIP(item)
			if ip == nil {
				return nil, fmt.Errorf("trusted proxy %q is not an IP or CIDR", item)
			}
			bits := 8 * net.IPv6len
			if ip.To4() != nil {
				ip, bits = ip.To4(), 8*net.IPv4len
			}
			proxies = append(proxies, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, network, err := net.ParseCIDR(item)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", item, err)
		}
		proxies = append(proxies, network)
	}
	return proxies, nil
}

func (p TrustedProxies) contains(ip net.IP) bool {
	for _, network := range p {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP is the remote address, unless that address is a trusted proxy.
// Then X-Forwarded-For is read right to left up to the first untrusted hop.
func (p TrustedProxies) ClientIP(r *http.Request) string {
	client := remoteHost(r)
	if ip := net.ParseIP(client); ip == nil || !p.contains(ip) {
		return client
	}
	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		ip := net.ParseIP(hop)
		if ip == nil {
			break
		}
		client = hop
		if !p.contains(ip) {
			break
		}
	}
	return client
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
