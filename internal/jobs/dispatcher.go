package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/sevigo/pr-warden/internal/core"
)

const queueSize = 100

// ErrQueueFull is returned by Dispatch when no more jobs can be accepted.
var ErrQueueFull = errors.New("job queue is full, cannot accept new review job")

// dispatcher implements core.JobDispatcher with a fixed pool of workers
// draining a bounded queue of review requests.
type dispatcher struct {
	reviewJob  core.Job
	jobQueue   chan *core.ReviewRequest
	maxWorkers int
	wg         sync.WaitGroup
	stopOnce   sync.Once
	logger     *slog.Logger
}

// NewDispatcher initializes a dispatcher with a worker pool.
// If maxWorkers is 0 or negative, it defaults to 1.
func NewDispatcher(reviewJob core.Job, maxWorkers int, logger *slog.Logger) core.JobDispatcher {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	d := &dispatcher{
		reviewJob:  reviewJob,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan *core.ReviewRequest, queueSize),
		logger:     logger,
	}
	d.startWorkers()
	return d
}

func (d *dispatcher) startWorkers() {
	for i := range d.maxWorkers {
		d.wg.Add(1)
		go d.startWorker(i)
	}
}

func (d *dispatcher) startWorker(workerID int) {
	defer d.wg.Done()
	d.logger.Info("starting review worker", "id", workerID)

	for req := range d.jobQueue {
		d.process(workerID, req)
	}

	d.logger.Info("shutting down review worker", "id", workerID)
}

func (d *dispatcher) process(workerID int, req *core.ReviewRequest) {
	d.logger.Info("worker processing job",
		"worker_id", workerID,
		"repo", req.FullName(),
		"pr", req.PRNumber,
	)

	if err := d.reviewJob.Run(context.Background(), req); err != nil {
		d.logger.Error("code review job failed",
			"repo", req.FullName(),
			"pr", req.PRNumber,
			"error", err,
		)
	}
}

// Dispatch queues a review request for processing by a worker.
// The request is detached from ctx: jobs outlive the webhook call that queued them.
func (d *dispatcher) Dispatch(_ context.Context, req *core.ReviewRequest) error {
	d.logger.Info("queuing code review job", "repo", req.FullName(), "pr", req.PRNumber)

	select {
	case d.jobQueue <- req:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for all queued jobs to finish.
func (d *dispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.logger.Info("stopping dispatcher and waiting for jobs to finish")
		close(d.jobQueue)
		d.wg.Wait()
		d.logger.Info("all review jobs have finished")
	})
}
