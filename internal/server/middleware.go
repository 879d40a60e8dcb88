package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"stock-sentiment/internal/logger"
)

// client tracks one caller for rate limiting purposes.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter rate limits per client IP.
type clientLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	rps     float64
	burst   int
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 10
	}
	cl := &clientLimiter{
		clients: make(map[string]*client),
		rps:     rps,
		burst:   burst,
	}
	go cl.cleanupLoop()
	return cl
}

func (cl *clientLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		cl.mu.Lock()
		c, exists := cl.clients[ip]
		if !exists {
			c = &client{limiter: rate.NewLimiter(rate.Limit(cl.rps), cl.burst)}
			cl.clients[ip] = c
		}
		c.lastSeen = time.Now()
		cl.mu.Unlock()

		if !c.limiter.Allow() {
			logger.Warn(r.Context(), "Rate limit exceeded", "ip", ip, "path", r.URL.Path)
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// cleanupLoop removes idle client entries so the map does not grow
// without bound.
func (cl *clientLimiter) cleanupLoop() {
	for {
		time.Sleep(time.Minute)
		cl.mu.Lock()
		for ip, c := range cl.clients {
			if time.Since(c.lastSeen) > 5*time.Minute {
				delete(cl.clients, ip)
			}
		}
		cl.mu.Unlock()
	}
}

// clientIP extracts the caller's address, preferring the first
// X-Forwarded-For hop when a load balancer sits in front.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if idx := strings.IndexByte(forwarded, ','); idx >= 0 {
			forwarded = forwarded[:idx]
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// withCORS adds CORS headers for browser frontends.
func withCORS(next http.Handler, origin string) http.Handler {
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging logs every request with its outcome and duration.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.Info(r.Context(), "Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
