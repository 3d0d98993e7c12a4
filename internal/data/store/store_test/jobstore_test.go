package store_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/akolanti/intelliquery/internal/data/redisStore"
	"github.com/akolanti/intelliquery/internal/data/store"
	"github.com/akolanti/intelliquery/internal/domain/docModel"
	"github.com/akolanti/intelliquery/internal/domain/jobModel"
	"github.com/akolanti/intelliquery/pkg/logger_i"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redisStore.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, redisStore.NewTestStore(client)
}

func TestRedisJobStore_Lifecycle(t *testing.T) {
	mr, internalStore := newRedis(t)
	jobStore := store.NewRedisJobStore(internalStore)

	ctx := logger_i.WithTrace(context.Background(), "test-trace")
	jobID := "job_abc_123"

	testJob := jobModel.Job{
		Id:      jobID,
		Status:  jobModel.JobStatusRunning,
		JobType: jobModel.JobTypeQuery,
		JobPayload: jobModel.JobPayload{
			Query: &docModel.QueryRequest{Query: "What is covered?", MaxResults: 5},
		},
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := jobStore.SaveJob(ctx, testJob); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		retrievedJob, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}
		if retrievedJob.JobPayload.Query == nil || retrievedJob.JobPayload.Query.Query != testJob.JobPayload.Query.Query {
			t.Errorf("Data mismatch! Got %+v, want %+v", retrievedJob.JobPayload.Query, testJob.JobPayload.Query)
		}
		if ttl := mr.TTL("job:" + jobID); ttl <= 0 {
			t.Errorf("expected a ttl on the job key, got %v", ttl)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		if _, found := jobStore.GetJob(ctx, "ghost-id"); found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Corrupt Job Is Not Found", func(t *testing.T) {
		mr.Set("job:broken", "{not json")
		if _, found := jobStore.GetJob(ctx, "broken"); found {
			t.Error("Expected found=false for corrupt payload")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)
		if mr.Exists("job:" + jobID) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisJobStore_Race(t *testing.T) {
	_, internalStore := newRedis(t)
	jobStore := store.NewRedisJobStore(internalStore)

	ctx := logger_i.WithTrace(context.Background(), "race-trace")
	job := jobModel.Job{Id: "race-job"}

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = jobStore.SaveJob(ctx, job)
			_, _ = jobStore.GetJob(ctx, "race-job")
		}()
	}
	wg.Wait()

	if _, found := jobStore.GetJob(ctx, "race-job"); !found {
		t.Error("expected job after concurrent saves")
	}
}

func TestInMemoryJobStore(t *testing.T) {
	s := store.InitInMemoryJobStore()
	ctx := context.Background()

	_ = s.SaveJob(ctx, jobModel.Job{Id: "a", Status: jobModel.JobStatusQueued})
	got, found := s.GetJob(ctx, "a")
	if !found || got.Status != jobModel.JobStatusQueued {
		t.Fatalf("unexpected job %+v found=%v", got, found)
	}
	s.DeleteJob(ctx, "a")
	if _, found = s.GetJob(ctx, "a"); found {
		t.Error("job survived delete")
	}
}

func TestInMemoryJobStore_LogsAsJobStore(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	var buf bytes.Buffer
	logger_i.InitWithHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s := store.InitInMemoryJobStore()
	_ = s.SaveJob(logger_i.WithTrace(context.Background(), "trace-7"), jobModel.Job{Id: "a", Status: jobModel.JobStatusQueued})

	out := buf.String()
	if !strings.Contains(out, `component="InMem JobStore"`) || !strings.Contains(out, "traceId=trace-7") {
		t.Errorf("unexpected log line %q", out)
	}
}
