package middleware

import (
	"context"
	"net"
	"net/http"

	"github.com/akolanti/DocQA/internal/adapter/utils"
	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/handlers"
)

func injectTrace(re requestResponseStruct) requestResponseStruct {
	req := re.req
	if req == nil {
		re.badRequest.httpCode = http.StatusBadRequest
		re.badRequest.errorMessage = "request is empty"
		re.badRequest.isBadRequest = true
		return re
	}
	trace := req.Header.Get(config.TraceHeader)
	if trace == "" {
		trace = utils.GetNewUUID()
	}
	re.logger = re.logger.With("traceId", trace)
	ctx := context.WithValue(req.Context(), config.TRACE_ID_KEY, trace)
	req.Header.Set(config.TraceHeader, trace)
	re.writer.Header().Set(config.TraceHeader, trace)
	re.req = req.WithContext(ctx)
	return re
}

// ensureSession reuses the session cookie or issues a new one. The id keys the
// notifications and the stored results of one browser.
func ensureSession(re requestResponseStruct) requestResponseStruct {
	sessionId := ""
	if cookie, err := re.req.Cookie(config.SessionCookieName); err == nil {
		sessionId = cookie.Value
	}
	if sessionId == "" {
		sessionId = utils.GetNewUUID()
		http.SetCookie(re.writer, &http.Cookie{
			Name:     config.SessionCookieName,
			Value:    sessionId,
			Path:     "/",
			MaxAge:   int(config.SessionCookieTTL.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		re.logger.Debug("Issued new session")
	}
	re.logger = re.logger.With("sessionId", sessionId)
	re.req = re.req.WithContext(context.WithValue(re.req.Context(), config.SESSION_ID_KEY, sessionId))
	return re
}

func (m *Middleware) rateLimiter(re requestResponseStruct) requestResponseStruct {
	if m.limiter == nil {
		return re
	}
	ip, _, err := net.SplitHostPort(re.req.RemoteAddr)
	if err != nil {
		ip = re.req.RemoteAddr
	}

	if !m.limiter.GetLimiter(ip).Allow() {
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusTooManyRequests,
			errorMessage: "Rate limit exceeded",
		}
	}
	return re
}

// handleBadRequest writes the failure and reports whether the request may go on.
func handleBadRequest(re requestResponseStruct) bool {
	if re.badRequest.isBadRequest {
		remote := ""
		traceId := ""
		if re.req != nil {
			remote = re.req.RemoteAddr
			traceId = config.TraceID(re.req.Context())
		}
		re.logger.Warn("Bad request", "httpCode", re.badRequest.httpCode, "errorMessage", re.badRequest.errorMessage, "IP", remote)
		handlers.WriteErrorResponse(re.writer, re.badRequest.httpCode, traceId, re.badRequest.errorMessage)
		return false
	}
	return true
}
