package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ai-rio/lgpd-sentinel/internal/websocket"
)

// loggingMiddleware logs HTTP requests and responses
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Generate request ID
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), "request_id", requestID)
		r = r.WithContext(ctx)

		// Create response writer wrapper to capture response data
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		// Bodies are scan payloads and are never logged; LogRequest
		// also redacts credential headers.
		s.logger.WithRequestID(requestID).LogRequest(r.Method, r.URL.Path, getClientIP(r), r.Header)

		// Process request
		next.ServeHTTP(rw, r)

		// Log response
		duration := time.Since(start)
		s.logger.WithRequestID(requestID).Info("HTTP request completed",
			zap.Int("status_code", rw.statusCode),
			zap.Duration("duration", duration),
			zap.Int("response_size", rw.size),
		)

		// Broadcast scan log event to WebSocket clients
		scanLogEvent := websocket.Event{
			Type:      websocket.EventTypeScanLog,
			Timestamp: time.Now(),
			RequestID: requestID,
			Data: websocket.ScanLogEvent{
				RequestID:   requestID,
				Method:      r.Method,
				Path:        r.URL.Path,
				StatusCode:  rw.statusCode,
				ClientIP:    getClientIP(r),
				UserAgent:   r.UserAgent(),
				Duration:    duration,
				RequestSize: r.ContentLength,
			},
		}
		s.wsHub.BroadcastEvent(scanLogEvent)
	})
}

// rateLimitMiddleware enforces per-client request limits
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow(getClientIP(r)) {
			s.logger.Warn("Rate limit exceeded",
				zap.String("client_ip", getClientIP(r)),
				zap.String("path", r.URL.Path),
			)
			s.writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// rateLimiter enforces per-client request rate limits using a token
// bucket per client IP.
type rateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

func newRateLimiter(requestsPerSecond float64, burst int) *rateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		clients: make(map[string]*rate.Limiter),
		limit:   rate.Limit(requestsPerSecond),
		burst:   burst,
	}
}

// Allow checks whether a request from the given client is allowed.
func (rl *rateLimiter) Allow(clientIP string) bool {
	rl.mu.Lock()
	limiter, ok := rl.clients[clientIP]
	if !ok {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.clients[clientIP] = limiter
	}
	rl.mu.Unlock()
	return limiter.Allow()
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}

	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr
	return r.RemoteAddr
}

// responseWriter wraps http.ResponseWriter to capture response data
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// generateRequestID generates a unique request ID
func generateRequestID() string {
	// Simple implementation - in production, use UUID or similar
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// getRequestID extracts request ID from context
func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value("request_id").(string); ok {
		return requestID
	}
	return "unknown"
}
