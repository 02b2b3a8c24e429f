package jobs_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/casewatch/casewatch/jobs"
	_ "github.com/casewatch/casewatch/testing"
)

func TestNewWorkerSkipsEmptyRegistrations(t *testing.T) {
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: "localhost:0"},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Handlers: []jobs.TaskHandler{
			{Type: "", Handler: nil},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, worker)
}

func TestWorkerRunNilWorker(t *testing.T) {
	var worker *jobs.Worker
	require.Error(t, worker.Run(context.Background()))
}

func TestWorkerRunStopsOnCancel(t *testing.T) {
	redis := miniredis.RunT(t)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: redis.Addr()},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Handlers: []jobs.TaskHandler{
			{Type: "noop:test", Handler: func(ctx context.Context, t *asynq.Task) error { return nil }},
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- worker.Run(ctx)
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err, "cancellation is a clean stop, not a fault")
	case <-time.After(10 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}
