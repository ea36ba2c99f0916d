package queue

import (
	"context"

	"sampark/contexts/voter-outreach/campaign-service/ports"
)

// Memory is the in-process dispatch queue used by tests and single-binary
// local runs. Publish blocks once the buffer fills, which keeps a runaway
// producer from outpacing the consumer.
type Memory struct {
	jobs chan ports.DispatchJob
}

func NewMemory(buffer int) *Memory {
	if buffer <= 0 {
		buffer = 64
	}
	return &Memory{jobs: make(chan ports.DispatchJob, buffer)}
}

func (q *Memory) PublishDispatch(ctx context.Context, job ports.DispatchJob) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case q.jobs <- job:
		return nil
	}
}

func (q *Memory) Consume(ctx context.Context, handler func(context.Context, ports.DispatchJob) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-q.jobs:
			if err := handler(ctx, job); err != nil {
				// Requeue with a bumped attempt count unless the buffer is
				// already full again.
				job.Attempt++
				select {
				case q.jobs <- job:
				default:
				}
			}
		}
	}
}

// Len reports the queued job count, used by tests to await drain.
func (q *Memory) Len() int {
	return len(q.jobs)
}
