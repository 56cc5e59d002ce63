package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/PAIR-code/lumi/internal/config"
	"github.com/PAIR-code/lumi/internal/markup"
)

func testConfig() config.Config {
	return config.Config{
		WorkerCount:  2,
		MaxQueueSize: 8,
		JobTTL:       time.Hour,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitForStatus(t *testing.T, o *Orchestrator, id string, want JobStatus) JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if job := o.GetJob(id); job != nil {
			if snap := job.Snapshot(); snap.Status == want {
				return snap
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never reached status %q", id, want)
	return JobSnapshot{}
}

func TestOrchestratorCompletesJob(t *testing.T) {
	o := NewOrchestrator(testConfig(), markup.New(), discardLogger())
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob("doc1", "[[l-title-start]]A Title[[l-title-end]]\n"+
		"[[l-content-start]]\n# S\n\nA sentence.\n[[l-content-end]]")
	if err := o.Submit(job); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	snap := waitForStatus(t, o, job.ID, StatusCompleted)
	if snap.Result == nil {
		t.Fatalf("completed job has no result")
	}
	if snap.Result.Title != "A Title" {
		t.Errorf("result title = %q", snap.Result.Title)
	}
	if len(snap.Result.Document.Sections) != 1 {
		t.Errorf("sections = %+v", snap.Result.Document.Sections)
	}
}

func TestOrchestratorQueueFull(t *testing.T) {
	cfg := testConfig()
	cfg.WorkerCount = 0
	cfg.MaxQueueSize = 0
	o := NewOrchestrator(cfg, markup.New(), discardLogger())

	job := NewJob("doc1", "text")
	if err := o.Submit(job); err == nil {
		t.Fatalf("Submit on a full queue succeeded")
	}
	snap := o.GetJob(job.ID).Snapshot()
	if snap.Status != StatusFailed {
		t.Errorf("status = %q, want failed", snap.Status)
	}
	if len(snap.Errors) == 0 {
		t.Errorf("expected a queue-full error recorded on the job")
	}
}

func TestOrchestratorStop(t *testing.T) {
	o := NewOrchestrator(testConfig(), markup.New(), discardLogger())
	o.Start(context.Background())

	job := NewJob("doc1", "plain text")
	if err := o.Submit(job); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	waitForStatus(t, o, job.ID, StatusCompleted)

	done := make(chan struct{})
	go func() {
		o.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Stop did not return")
	}
}
