package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/akolanti/DocQA/internal/adapter"
	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/viewModel"
	"github.com/akolanti/DocQA/internal/notify"
	"github.com/akolanti/DocQA/internal/upload"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are gone, nothing left but logging
		logRH.Error("Error encoding response", "error", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, traceId string, message string) {
	writeJsonResponse(w, httpCode, adapter.ToUIError(httpCode, message, traceId))
}

// writeHTML renders fully before writing so a failed render can still become
// a clean error response.
func writeHTML(w http.ResponseWriter, statusCode int, render func(io.Writer) error, traceId string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		logRH.Error("Error rendering page", "traceId", traceId, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, traceId, "Could not render page")
		return
	}
	w.WriteHeader(statusCode)
	if _, err := buf.WriteTo(w); err != nil {
		logRH.Warn("Error writing page", "traceId", traceId, "error", err)
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func validateContext(ctx context.Context) bool {
	if err := ctx.Err(); err != nil {
		logRH.Warn("context error", "traceId", config.TraceID(ctx), "error", err)
		return false
	}
	return true
}

func (h *Handler) session(ctx context.Context) *notify.Session {
	return h.sessions.For(config.SessionID(ctx))
}

// sessionView returns the stored view, or a fresh one with the default top_k.
func (h *Handler) sessionView(ctx context.Context) viewModel.SessionView {
	view, found := h.views.GetView(ctx, config.SessionID(ctx))
	if !found {
		view = viewModel.SessionView{}
	}
	if view.Form.TopK < 1 {
		view.Form.TopK = h.defaultTopK
	}
	if view.Form.DirectTopK < 1 {
		view.Form.DirectTopK = h.defaultTopK
	}
	return view
}

func (h *Handler) saveView(ctx context.Context, view viewModel.SessionView) {
	view.UpdatedAt = time.Now()
	if err := h.views.SaveView(ctx, config.SessionID(ctx), view); err != nil {
		h.logger.WithContext(ctx).Error("Could not save session view", "error", err)
	}
}

// toCandidates defers opening each part until its upload job runs.
func toCandidates(headers []*multipart.FileHeader) []upload.Candidate {
	candidates := make([]upload.Candidate, 0, len(headers))
	for _, fh := range headers {
		fh := fh
		candidates = append(candidates, upload.Candidate{
			Name: fh.Filename,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return candidates
}
