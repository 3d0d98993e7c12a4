package handlers

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/akolanti/intelliquery/internal/config"
	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/internal/domain/jobModel"
	"github.com/akolanti/intelliquery/internal/job"
	"github.com/akolanti/intelliquery/internal/metrics"
	"github.com/akolanti/intelliquery/internal/rag"
	"github.com/akolanti/intelliquery/pkg/logger_i"
)

var (
	handlerInstance *JobHandler
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service *job.Service
	rag     rag.Service
}

// InitJobHandler wires the queue and the pipelines behind the HTTP handlers. Calling it again replaces both.
func InitJobHandler(jobService *job.Service, ragService rag.Service) {
	handlerInstance = &JobHandler{service: jobService, rag: ragService}

	logJH = logger_i.NewLogger("JobHandler")
	logRH = logger_i.NewLogger("RequestHandler")
	logJH.Info("Starting job handler")
}

func ragService() rag.Service {
	if handlerInstance == nil {
		return nil
	}
	return handlerInstance.rag
}

func CreateNewJob(ctx context.Context, newJob newJobData) error {
	if handlerInstance == nil || handlerInstance.service == nil {
		return errors.New("job service not initialised")
	}
	logJH.Trace(ctx).Info("To create new job", "jobId", newJob.id, "type", newJob.jobType)
	return handlerInstance.pushToJobChannel(ctx, newJob)
}

func GetJobStatus(ctx context.Context, id string) (result jobModel.Job, isFound bool) {
	if handlerInstance != nil && handlerInstance.service.JobStore != nil {
		return handlerInstance.service.JobStore.GetJob(ctx, id)
	}
	return result, false
}

// private methods
func (h *JobHandler) pushToJobChannel(ctx context.Context, newJob newJobData) error {

	_job := jobModel.Job{
		Id:          newJob.id,
		TraceId:     logger_i.TraceID(ctx),
		JobType:     newJob.jobType,
		CreatedTime: time.Now(),
		Status:      jobModel.JobStatusQueued,
	}
	if newJob.jobType == jobModel.JobTypeIngest {
		_job.CurrentStep = jobModel.IngestInit
		ingest := newJob.ingest
		_job.JobPayload.Ingest = &ingest
	} else {
		_job.CurrentStep = jobModel.QueryInit
		query := newJob.query
		_job.JobPayload.Query = &query
	}

	// saved before the send so /status finds the job even while it sits in the channel
	if err := h.service.JobStore.SaveJob(ctx, _job); err != nil {
		logJH.Trace(ctx).Error("Could not save queued job", "jobId", _job.Id, "error", err)
		return docModel.StageError(docModel.ErrStore, err)
	}

	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //blocking send, the buffer is the backpressure
	logJH.Trace(ctx).Info("Created new job", "jobId", _job.Id)

	//a new worker every RequestsPerNewWorkerCount requests, and one for every ingestion
	//since those run long. idle workers retire on their own
	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1)
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || _job.JobType == jobModel.JobTypeIngest {
		metrics.StartDispatcherSignalCount()
		logJH.Debug("Signalling dispatcher", "requestCount", accurateCount)
		h.service.DispatcherChannel <- true
	}
	return nil
}
