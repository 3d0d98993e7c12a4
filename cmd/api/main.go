package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/intelliquery/internal/bootstrap"
	"github.com/akolanti/intelliquery/internal/config"
	jobmodel "github.com/akolanti/intelliquery/internal/domain/jobModel"
	"github.com/akolanti/intelliquery/internal/handlers"
	"github.com/akolanti/intelliquery/internal/job"
	"github.com/akolanti/intelliquery/internal/mcpServer"
	"github.com/akolanti/intelliquery/internal/server"
	"github.com/akolanti/intelliquery/internal/worker"
	"github.com/akolanti/intelliquery/pkg/logger_i"
)

var (
	listenAddr        string
	envFile           string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.StringVar(&envFile, "env-file", ".env", "optional dotenv file")
	flag.Parse()

	config.LoadEnv(envFile)
	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	jobStore, err := bootstrap.NewJobStore(serviceContext)
	if err != nil {
		logger.Error("Job store unavailable", "error", err)
		return
	}
	service := job.InitJobService(job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          jobStore,
	})
	logger.Info("Starting job service")

	clients, err := bootstrap.New(serviceContext)
	if err != nil {
		logger.Error("One or more external services failed to initialize. Shutting down.", "error", err)
		return
	}
	ragService := clients.RagService()
	if err = ragService.Setup(serviceContext); err != nil {
		logger.Error("Could not prepare the vector collection", "error", err)
		return
	}

	mcp, err := mcpServer.NewServer(ragService)
	if err != nil {
		logger.Error("Could not create MCP server", "error", err)
		return
	}

	handlers.InitJobHandler(service, ragService)

	//init worker pool
	worker.InitServices(service, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, mcp.Handler())

	<-stopExecution
	logger.Info("Server stopped")
}
