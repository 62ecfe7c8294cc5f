package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/metrics"
	"github.com/akolanti/DocQA/pkg/logger_i"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

// Middleware runs every UI request through trace injection, the session
// cookie and the per-IP rate limiter, then records request metrics.
type Middleware struct {
	limiter *IPRateLimiter
	logger  *logger_i.Logger
}

// New builds the chain from cfg. A non-positive rate disables limiting.
func New(cfg config.ServerConfig) *Middleware {
	m := &Middleware{logger: logger_i.NewLogger("middleware")}
	if cfg.RateLimitPerSecond > 0 {
		m.limiter = NewIPRateLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst)
	}
	return m
}

func (m *Middleware) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		re := m.processRequest(requestResponseStruct{req: r, writer: rec})

		if !handleBadRequest(re) {
			countRequest(r, rec.Status)
			return
		}
		next(rec, re.req)
		countRequest(r, rec.Status)
	}
}

func (m *Middleware) processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = m.logger
	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re.logger.Debug("New request received", "method", re.req.Method, "path", re.req.URL.Path)
	re = ensureSession(re)
	re = m.rateLimiter(re)
	return re
}

// countRequest labels by route pattern so ids in paths do not explode the
// series count.
func countRequest(r *http.Request, status int) {
	path := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			path = pattern
		}
	}
	metrics.HttpRequestsTotal.WithLabelValues(path, strconv.Itoa(status)).Inc()
}
