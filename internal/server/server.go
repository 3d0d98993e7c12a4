package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/akolanti/intelliquery/internal/adapter/utils"
	"github.com/akolanti/intelliquery/internal/config"
	"github.com/akolanti/intelliquery/internal/middleware"
	"github.com/akolanti/intelliquery/internal/worker"
	"github.com/akolanti/intelliquery/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

var (
	server  *http.Server
	_logger = logger_i.NewLogger("Server")
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

// Routes registers the API on r. mcpHandler is optional.
func Routes(r chi.Router, mcpHandler http.Handler) {
	r.Get("/health", middleware.HealthHandler)

	r.Post("/upload-document", middleware.UploadDocumentHandler)
	r.Post("/query", middleware.QueryHandler)
	r.Post("/example-query", middleware.ExampleQueryHandler)

	r.Get("/document/{id}", middleware.GetDocumentHandler)
	r.Get("/document/{id}/chunks", middleware.GetDocumentChunksHandler)
	r.Delete("/document/{id}", middleware.DeleteDocumentHandler)

	r.Get("/status/{id}", middleware.GetStatusHandler)

	if mcpHandler != nil {
		r.Handle("/mcp", middleware.Wrap(mcpHandler.ServeHTTP))
	}
}

func CreateServer(listenAddr string, mcpHandler http.Handler) {
	_logger = logger_i.NewLogger("Server")

	r := utils.GetRouter()
	Routes(r.Router, mcpHandler)

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r.Router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error", err, "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	_logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		if server != nil {
			server.SetKeepAlivesEnabled(false)
			if err := server.Shutdown(ctx); err != nil {
				_logger.Error("Could not shutdown gracefully", "error", err)
			}
		}

		//workers finish the job in hand, whatever is still queued is marked failed
		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		if n := worker.FailPending(); n > 0 {
			_logger.Warn("Queued jobs dropped at shutdown", "count", n)
		}
		shutdownParams.CloseServices()
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Graceful shutdown complete")
	case <-ctx.Done():
		_logger.Error("Forced shutdown, workers did not drain in time")
		os.Exit(1)
	}
	close(shutdownParams.StopExecution)
}
