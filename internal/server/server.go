package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/chatlet/chatlet/internal/adapter/utils"
	"github.com/chatlet/chatlet/internal/config"
	"github.com/chatlet/chatlet/internal/handlers"
	"github.com/chatlet/chatlet/internal/middleware"
	"github.com/chatlet/chatlet/pkg/logger_i"
)

var (
	server  *http.Server
	_logger *logger_i.Logger
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	TaskStop         chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

func CreateServer(listenAddr string) {
	_logger = logger_i.NewLogger("Server")

	r := utils.GetRouter()

	r.Router.Get("/health", middleware.Wrap(handlers.GetHandler))
	r.Router.Post("/ingest/upload", middleware.Wrap(handlers.UploadHandler))
	r.Router.Post("/ingest/url", middleware.Wrap(handlers.IngestURLHandler))
	r.Router.Post("/chat", middleware.Wrap(handlers.ChatHandler))
	r.Router.Get("/tenant/{tenantId}", middleware.Wrap(middleware.WidgetRateLimit(handlers.WidgetConfigHandler)))
	r.Router.Options("/*", middleware.Wrap(middleware.Preflight))

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error :", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	println("\nServer is shutting down", state)

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully: %s", err)
		}

		//drain background tasks
		close(shutdownParams.TaskStop)
		shutdownParams.Group.Wait()
		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Gracefully is shutting down")
	case <-ctx.Done():
		_logger.Info("Force Shut down")
		os.Exit(1)
	}
}
