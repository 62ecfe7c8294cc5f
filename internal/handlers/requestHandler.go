package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/akolanti/DocQA/internal/adapter"
	"github.com/akolanti/DocQA/internal/adapter/utils"
	"github.com/akolanti/DocQA/internal/api"
	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/viewModel"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

const (
	msgBadUploadForm = "File too large or bad request"
	maxFormSize      = 10 << 20 //10mb, pasted text included
)

var logRH = logger_i.NewLogger("RequestHandler")

// Index renders the whole page: a fresh document list, the session's last
// results and its notifications.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !validateContext(ctx) {
		return
	}
	session := h.session(ctx)
	view := h.sessionView(ctx)
	message, _ := session.Banner.Current()

	page := viewModel.PageView{
		Documents:    h.loadDocuments(r),
		Results:      view.Results,
		Form:         view.Form,
		Loading:           session.Loading.Visible(),
		ErrorMessage:      message,
		BannerHideAfterMs: session.Banner.Remaining().Milliseconds(),
		ServiceURL:        h.service.BaseURL(),
		Health:            h.health(r),
	}
	writeHTML(w, http.StatusOK, func(out io.Writer) error {
		return h.renderer.Page(out, page)
	}, config.TraceID(ctx))
}

// DocumentsFragment renders only the document list.
func (h *Handler) DocumentsFragment(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	documents := h.loadDocuments(r)
	writeHTML(w, http.StatusOK, func(out io.Writer) error {
		return h.renderer.Documents(out, documents)
	}, config.TraceID(r.Context()))
}

// loadDocuments replaces the list wholesale. A failure is logged only.
func (h *Handler) loadDocuments(r *http.Request) viewModel.DocumentsView {
	ctx := r.Context()
	res, err := h.service.ListDocuments(ctx)
	if err != nil {
		h.logger.WithContext(ctx).Error("Error loading documents", "error", err)
		return viewModel.DocumentsView{LoadFailed: true}
	}
	return adapter.ToDocumentsView(res)
}

// health is bounded by its own short timeout so a stuck health route
// cannot hold up the page.
func (h *Handler) health(r *http.Request) string {
	ctx, cancel := context.WithTimeout(r.Context(), h.healthTimeout)
	defer cancel()
	res, err := h.service.Health(ctx)
	if err != nil {
		h.logger.WithContext(r.Context()).Debug("Health check failed", "error", err)
		return "unreachable"
	}
	return adapter.FormatHealth(res)
}

// Upload forwards every supported file of the form field "file" and returns
// to the page once each one has finished.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !validateContext(ctx) {
		return
	}
	session := h.session(ctx)
	log := h.logger.WithContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		log.Warn("Bad upload form", "error", err)
		session.ShowError(adapter.UploadFailedPrefix + msgBadUploadForm)
		redirectHome(w, r)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Warn("Could not remove multipart temp files", "error", err)
		}
	}()

	candidates := toCandidates(r.MultipartForm.File["file"])
	jobs, err := h.uploads.Upload(ctx, candidates, session, nil)
	if err != nil {
		session.ShowError(adapter.ToUserMessage(err, adapter.MsgUploadFallback))
		redirectHome(w, r)
		return
	}

	succeeded := 0
	for _, job := range jobs {
		if job.Succeeded() {
			succeeded++
		}
	}
	log.Info("Upload batch finished", "files", len(jobs), "succeeded", succeeded)
	redirectHome(w, r)
}

// ConfirmDelete asks before anything is deleted.
func (h *Handler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	docId := utils.GetChiURLParam(r, "id")
	name := r.URL.Query().Get("name")
	if name == "" {
		name = docId
	}
	view := viewModel.ConfirmDeleteView{DocId: docId, Filename: name}
	writeHTML(w, http.StatusOK, func(out io.Writer) error {
		return h.renderer.ConfirmDelete(out, view)
	}, config.TraceID(r.Context()))
}

// Delete removes the document only when the form carries confirm=yes.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !validateContext(ctx) {
		return
	}
	docId := utils.GetChiURLParam(r, "id")
	log := h.logger.WithContext(ctx).With("docId", docId)

	if err := r.ParseForm(); err != nil || r.PostForm.Get("confirm") != "yes" {
		log.Debug("Delete not confirmed")
		redirectHome(w, r)
		return
	}

	session := h.session(ctx)
	token := session.BeginLoading()
	defer session.EndLoading(token)

	if err := h.service.DeleteDocument(ctx, docId); err != nil {
		log.Warn("Delete failed", "error", err)
		session.ShowError(adapter.DeleteFailedPrefix + adapter.ToUserMessage(err, adapter.MsgDeleteFallback))
	} else {
		log.Info("Deleted document")
	}
	redirectHome(w, r)
}

// Ask queries the stored documents.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !validateContext(ctx) {
		return
	}
	if !h.parseForm(w, r) {
		return
	}
	view := h.sessionView(ctx)
	view.Form.Question = r.PostForm.Get("question")
	view.Form.TopK = utils.ParseTopK(r.PostForm.Get("top_k"), h.defaultTopK)

	req := api.QuestionRequest{
		Question: strings.TrimSpace(view.Form.Question),
		TopK:     view.Form.TopK,
	}
	var err error
	if req.Question == "" {
		err = api.NewValidationError(adapter.MsgEmptyQuestion)
	}
	h.answer(w, r, view, viewModel.AskStored, err, func() (api.QAResponse, error) {
		return h.service.Ask(ctx, req)
	})
}

// AskDirect queries a pasted text instead of the stored documents.
func (h *Handler) AskDirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !validateContext(ctx) {
		return
	}
	if !h.parseForm(w, r) {
		return
	}
	view := h.sessionView(ctx)
	view.Form.DirectText = r.PostForm.Get("text")
	view.Form.DirectQuestion = r.PostForm.Get("question")
	view.Form.DirectTopK = utils.ParseTopK(r.PostForm.Get("top_k"), h.defaultTopK)

	req := api.DirectTextRequest{
		Text:     strings.TrimSpace(view.Form.DirectText),
		Question: strings.TrimSpace(view.Form.DirectQuestion),
		TopK:     view.Form.DirectTopK,
	}
	var err error
	if req.Text == "" || req.Question == "" {
		err = api.NewValidationError(adapter.MsgEmptyDirectFields)
	}
	h.answer(w, r, view, viewModel.AskDirect, err, func() (api.QAResponse, error) {
		return h.service.AskDirect(ctx, req)
	})
}

// parseForm reports a body that cannot be read as a form with the generic
// message and sends the browser home.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseForm(); err != nil {
		h.logger.WithContext(r.Context()).Warn("Bad question form", "error", err)
		h.session(r.Context()).ShowError(adapter.MsgAnswerFallback)
		redirectHome(w, r)
		return false
	}
	return true
}

// answer runs ask unless validation already failed, stores the outcome in
// the session view and redirects back to the page.
func (h *Handler) answer(w http.ResponseWriter, r *http.Request, view viewModel.SessionView, mode viewModel.AskMode, validation error, ask func() (api.QAResponse, error)) {
	ctx := r.Context()
	session := h.session(ctx)
	log := h.logger.WithContext(ctx).With("mode", mode)

	if validation != nil {
		log.Debug("Rejected question", "error", validation)
		session.ShowError(adapter.ToUserMessage(validation, adapter.MsgAnswerFallback))
		h.saveView(ctx, view)
		redirectHome(w, r)
		return
	}

	token := session.BeginLoading()
	res, err := ask()
	session.EndLoading(token)

	if err != nil {
		var serviceErr *api.ServiceError
		if errors.As(err, &serviceErr) {
			log.Warn("QA service rejected question", "status", serviceErr.StatusCode, "detail", serviceErr.Detail)
		} else {
			log.Error("QA request failed", "error", err)
		}
		session.ShowError(adapter.ToUserMessage(err, adapter.MsgAnswerFallback))
		h.saveView(ctx, view)
		redirectHome(w, r)
		return
	}

	results := adapter.ToResultsView(res)
	view.Results = &results
	view.Mode = mode
	log.Info("Answered question", "answers", len(results.Answers))
	h.saveView(ctx, view)
	redirectHome(w, r)
}

// Status reports the session's notifications for polling clients.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	session := h.session(r.Context())
	message, _ := session.Banner.Current()
	writeJsonResponse(w, http.StatusOK, api.StatusResponse{
		Loading:  session.Loading.Visible(),
		InFlight: session.Loading.InFlight(),
		Error:    message,
	})
}

func (h *Handler) DismissError(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	h.session(r.Context()).Banner.Dismiss()
	redirectHome(w, r)
}
