package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/data/store"
	"github.com/akolanti/DocQA/internal/handlers"
	"github.com/akolanti/DocQA/internal/middleware"
	"github.com/akolanti/DocQA/internal/notify"
	"github.com/akolanti/DocQA/internal/render"
	"github.com/akolanti/DocQA/internal/server"
	"github.com/akolanti/DocQA/pkg/logger_i"
	"github.com/spf13/cobra"
)

func serveCMD(a *app) *cobra.Command {
	var listenAddr string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the browser UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *a.cfg
			if listenAddr != "" {
				cfg.Server.ListenAddr = listenAddr
			}
			return runServer(cfg)
		},
	}
	serve.Flags().StringVar(&listenAddr, "listen-addr", "", "server listen address (default "+config.ServerListenAddr+")")
	return serve
}

func runServer(cfg config.Config) error {
	logger := logger_i.NewLogger("main")

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	client, err := customClient(cfg)
	if err != nil {
		return err
	}
	renderer, err := render.New()
	if err != nil {
		return err
	}

	views := store.NewViewStore(serviceContext, cfg.Redis)
	sessions := notify.NewRegistry(cfg.UI.ErrorBannerDuration)
	sessions.StartJanitor(serviceContext, config.NotificationSweepPeriod, config.NotificationIdleTimeout)

	handler := handlers.NewHandler(client, views, sessions, renderer, cfg.UI)
	srv := server.CreateServer(cfg.Server, server.NewRouter(handler, middleware.New(cfg.Server)))

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(gracefulShutdown)
	stopExecution := make(chan bool)

	go server.ShutDownHandler(srv, cfg.Server, server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	})

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Start(srv)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
		<-stopExecution
	case <-stopExecution:
	}
	logger.Info("Server stopped")
	return nil
}
