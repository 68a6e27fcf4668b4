package core

import (
	"context"
)

// JobDispatcher accepts review requests and queues them for asynchronous processing.
// It decouples the event source (the webhook handler) from job execution.
type JobDispatcher interface {
	// Dispatch queues a request. It returns an error if the job cannot be
	// queued, for example when the queue is full.
	Dispatch(ctx context.Context, req *ReviewRequest) error
	// Stop closes the queue and waits for in-flight jobs.
	Stop()
}

// Job is a single executable unit of work, such as a pull request review.
type Job interface {
	Run(ctx context.Context, req *ReviewRequest) error
}
