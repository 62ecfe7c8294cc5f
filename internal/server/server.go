package server

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/akolanti/DocQA/internal/adapter/utils"
	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/handlers"
	"github.com/akolanti/DocQA/internal/middleware"
	"github.com/akolanti/DocQA/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

var _logger = logger_i.NewLogger("Server")

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	CloseServices    context.CancelFunc
}

// NewRouter mounts the UI routes behind the middleware chain. /metrics is
// mounted by utils.NewRouter.
func NewRouter(h *handlers.Handler, mw *middleware.Middleware) *chi.Mux {
	r := utils.NewRouter()

	r.Get("/", mw.Wrap(h.Index))
	r.Get("/status", mw.Wrap(h.Status))
	r.Post("/notifications/dismiss", mw.Wrap(h.DismissError))

	r.Route("/documents", func(r chi.Router) {
		r.Get("/list", mw.Wrap(h.DocumentsFragment))
		r.Post("/upload", mw.Wrap(h.Upload))
		r.Get("/{id}/delete", mw.Wrap(h.ConfirmDelete))
		r.Post("/{id}/delete", mw.Wrap(h.Delete))
	})
	r.Route("/qa", func(r chi.Router) {
		r.Post("/ask", mw.Wrap(h.Ask))
		r.Post("/ask-direct", mw.Wrap(h.AskDirect))
	})
	return r
}

func CreateServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// Start blocks until the server stops. A clean shutdown is not an error.
func Start(server *http.Server) error {
	_logger.Info("Server is listening at", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error", err, "addr", server.Addr)
		return err
	}
	return nil
}

// ShutDownHandler waits for a signal, drains the server within cfg's
// shutdown timeout, closes the services and then releases StopExecution.
func ShutDownHandler(server *http.Server, cfg config.ServerConfig, shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	_logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully", "error", err)
		}
		shutdownParams.CloseServices()
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Shut down gracefully")
	case <-ctx.Done():
		_logger.Warn("Force shut down")
		_ = server.Close()
	}
	close(shutdownParams.StopExecution)
}
