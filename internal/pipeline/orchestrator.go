package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/PAIR-code/lumi/internal/config"
	"github.com/PAIR-code/lumi/internal/markup"
)

// Orchestrator runs document compilations on a bounded worker pool. A single
// compilation is strictly sequential, but independent documents share no
// state beyond their own placeholder tables, so workers compile them in
// parallel.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	compiler *markup.Compiler
	log      *slog.Logger
	cfg      config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, compiler *markup.Compiler, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:     NewJobStore(cfg.JobTTL),
		queue:    make(chan *Job, cfg.MaxQueueSize),
		compiler: compiler,
		log:      log,
		cfg:      cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					o.process(job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// process compiles one job. The compiler never fails; recover guards against
// defects so a bad document cannot take a worker down.
func (o *Orchestrator) process(job *Job) {
	log := o.log.With("job_id", job.ID, "file_id", job.FileID)
	job.SetStatus(StatusCompiling)

	defer func() {
		if r := recover(); r != nil {
			log.Error("compile panicked", "panic", r)
			job.AddError(fmt.Sprintf("compile: %v", r))
			job.SetStatus(StatusFailed)
		}
	}()

	start := time.Now()
	result := o.compiler.Compile(job.Markup(), job.FileID)
	job.SetResult(result)

	log.Info("compiled document",
		"sections", len(result.Document.Sections),
		"references", len(result.Document.References),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed)
		job.AddError("queue full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
