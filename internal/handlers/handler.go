package handlers

import (
	"context"
	"time"

	"github.com/akolanti/DocQA/internal/api"
	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/viewModel"
	"github.com/akolanti/DocQA/internal/notify"
	"github.com/akolanti/DocQA/internal/render"
	"github.com/akolanti/DocQA/internal/upload"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

// QAService is the part of the QA service client the UI needs.
type QAService interface {
	upload.Uploader
	ListDocuments(ctx context.Context) (api.DocumentListResponse, error)
	DeleteDocument(ctx context.Context, docId string) error
	Ask(ctx context.Context, req api.QuestionRequest) (api.QAResponse, error)
	AskDirect(ctx context.Context, req api.DirectTextRequest) (api.QAResponse, error)
	Health(ctx context.Context) (api.HealthResponse, error)
	BaseURL() string
}

// Handler serves the browser UI. Every view it renders is built from the
// service responses, the session's stored view and its notifications.
type Handler struct {
	service  QAService
	uploads  *upload.Handler
	views    viewModel.ViewStore
	sessions *notify.Registry
	renderer *render.Renderer

	defaultTopK   int
	maxUploadSize int64
	healthTimeout time.Duration
	logger        *logger_i.Logger
}

func NewHandler(service QAService, views viewModel.ViewStore, sessions *notify.Registry, renderer *render.Renderer, cfg config.UIConfig) *Handler {
	h := &Handler{
		service:       service,
		uploads:       upload.NewHandler(service, cfg.MaxUploadWorkers),
		views:         views,
		sessions:      sessions,
		renderer:      renderer,
		defaultTopK:   cfg.DefaultTopK,
		maxUploadSize: cfg.MaxUploadSize,
		healthTimeout: cfg.HealthTimeout,
		logger:        logger_i.NewLogger("RequestHandler"),
	}
	h.logger.Info("Starting UI handler", "service", service.BaseURL())
	return h
}
