package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/akolanti/intelliquery/internal/adapter"
	"github.com/akolanti/intelliquery/internal/config"
	"github.com/akolanti/intelliquery/internal/domain/docModel"
	jobmodel "github.com/akolanti/intelliquery/internal/domain/jobModel"
	"github.com/akolanti/intelliquery/internal/metrics"
	"github.com/akolanti/intelliquery/internal/rag"
	"github.com/akolanti/intelliquery/pkg/logger_i"
)

const saveStateTimeout = 5 * time.Second

var jobSteps = map[rag.Step]jobmodel.InternalStatus{
	rag.StepExtraction: jobmodel.IngestProcessing,
	rag.StepEmbedding:  jobmodel.EmbeddingAPICall,
	rag.StepVectorDB:   jobmodel.VectorDBCall,
	rag.StepGeneration: jobmodel.LLMCall,
	rag.StepStore:      jobmodel.StoreCall,
}

func executeJob(job jobmodel.Job) {
	start := time.Now()
	ctx := logger_i.WithTrace(context.Background(), job.TraceId)
	log := logger.Trace(ctx).With("jobId", job.Id, "jobType", job.JobType)
	log.Debug("Processing job")

	job.Status = jobmodel.JobStatusRunning
	saveJobState(ctx, job)

	switch job.JobType {
	case jobmodel.JobTypeIngest:
		job = ingestDocument(ctx, job, log)
	case jobmodel.JobTypeQuery:
		job = processQuery(ctx, job, log)
	default:
		job = failJob(job, fmt.Errorf("%w: unknown job type %q", docModel.ErrInvalidRequest, job.JobType))
	}

	job.EndTime = time.Now()
	saveJobState(ctx, job)
	metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	log.Info("Job finished", "status", job.Status, "elapsed", time.Since(start))
}

func removeWorker(reason string, decrement bool) {
	if decrement {
		atomic.AddInt64(&currentWorkerCount, -1)
	}
	workerWaitGroup.Done()
	metrics.DecrementActiveWorkerCount()
	logger.Info("Removed worker", "reason", reason, "workerCount", atomic.LoadInt64(&currentWorkerCount))
}

func ingestDocument(ctx context.Context, job jobmodel.Job, log *logger_i.Logger) jobmodel.Job {
	req := job.JobPayload.Ingest
	if req == nil {
		return failJob(job, fmt.Errorf("%w: ingest job without payload", docModel.ErrInvalidRequest))
	}
	// the upload handler staged this file for us
	defer func() {
		if err := os.Remove(req.Path); err != nil && !os.IsNotExist(err) {
			log.Warn("Could not remove staged upload", "path", req.Path, "error", err)
		}
	}()

	job.CurrentStep = jobmodel.IngestProcessing
	saveJobState(ctx, job)

	ingestCtx, cancel := context.WithTimeout(trackSteps(ctx, &job), config.IngestJobTimeout)
	defer cancel()
	doc, err := _ragService.IngestDocument(ingestCtx, *req)
	if err != nil {
		log.Error("Ingestion failed", "error", err)
		return failJob(job, err)
	}
	job.JobPayload.Document = &doc
	return completeJob(job)
}

func processQuery(ctx context.Context, job jobmodel.Job, log *logger_i.Logger) jobmodel.Job {
	req := job.JobPayload.Query
	if req == nil {
		return failJob(job, fmt.Errorf("%w: query job without payload", docModel.ErrInvalidRequest))
	}
	queryCtx, cancel := context.WithTimeout(trackSteps(ctx, &job), config.QueryJobTimeout)
	defer cancel()
	resp, err := _ragService.Query(queryCtx, *req)
	if err != nil {
		log.Error("Query failed", "error", err)
		return failJob(job, err)
	}
	job.JobPayload.Answer = &resp
	return completeJob(job)
}

// trackSteps saves the job each time the pipeline moves to a new stage.
func trackSteps(ctx context.Context, job *jobmodel.Job) context.Context {
	return rag.WithStepReporter(ctx, func(step rag.Step) {
		next, ok := jobSteps[step]
		if !ok || next == job.CurrentStep {
			return
		}
		job.CurrentStep = next
		saveJobState(ctx, *job)
	})
}

func completeJob(job jobmodel.Job) jobmodel.Job {
	job.Status = jobmodel.JobStatusComplete
	job.CurrentStep = jobmodel.Complete
	return job
}

func failJob(job jobmodel.Job, err error) jobmodel.Job {
	code := adapter.HTTPStatus(err)
	if errors.Is(err, context.DeadlineExceeded) {
		code = http.StatusGatewayTimeout
	}
	job.Status = jobmodel.JobStatusError
	job.CurrentStep = jobmodel.Error
	job.Error = jobmodel.JobError{
		Code:    code,
		Message: err.Error(),
		Retry:   code >= http.StatusInternalServerError,
	}
	return job
}

// saveJobState uses its own deadline so a job that ran out of time can still record that it failed.
func saveJobState(ctx context.Context, job jobmodel.Job) {
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveStateTimeout)
	defer cancel()
	if err := _jobService.JobStore.SaveJob(saveCtx, job); err != nil {
		logger.Trace(ctx).Error("Failed to update job state", "jobId", job.Id, "status", job.Status, "error", err)
	}
}

// FailPending marks jobs still buffered in the channel as failed. Called once the workers have stopped.
func FailPending() int {
	failed := 0
	for {
		select {
		case pending := <-_jobService.JobChannel:
			ctx := logger_i.WithTrace(context.Background(), pending.TraceId)
			pending = failJob(pending, errors.New("server shut down before the job ran"))
			pending.Error.Retry = true
			pending.EndTime = time.Now()
			saveJobState(ctx, pending)
			metrics.DecrementJobsInQueue()
			if pending.JobPayload.Ingest != nil {
				_ = os.Remove(pending.JobPayload.Ingest.Path)
			}
			failed++
		default:
			return failed
		}
	}
}
