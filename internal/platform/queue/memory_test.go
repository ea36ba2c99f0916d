package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"sampark/contexts/voter-outreach/campaign-service/ports"
)

func TestMemoryQueueDeliversJobs(t *testing.T) {
	q := NewMemory(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := q.PublishDispatch(ctx, ports.DispatchJob{CampaignID: "camp-1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	received := make(chan ports.DispatchJob, 1)
	go func() {
		_ = q.Consume(ctx, func(_ context.Context, job ports.DispatchJob) error {
			received <- job
			return nil
		})
	}()

	select {
	case job := <-received:
		if job.CampaignID != "camp-1" {
			t.Fatalf("unexpected job: %+v", job)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for job")
	}
}

func TestMemoryQueueRequeuesFailedJobs(t *testing.T) {
	q := NewMemory(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := q.PublishDispatch(ctx, ports.DispatchJob{CampaignID: "camp-1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	attempts := make(chan int, 2)
	go func() {
		_ = q.Consume(ctx, func(_ context.Context, job ports.DispatchJob) error {
			attempts <- job.Attempt
			if job.Attempt == 0 {
				return errors.New("transient")
			}
			return nil
		})
	}()

	for _, want := range []int{0, 1} {
		select {
		case got := <-attempts:
			if got != want {
				t.Fatalf("expected attempt %d, got %d", want, got)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for attempt %d", want)
		}
	}
}

func TestMemoryQueuePublishHonorsContext(t *testing.T) {
	q := NewMemory(1)
	if err := q.PublishDispatch(context.Background(), ports.DispatchJob{CampaignID: "fill"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := q.PublishDispatch(ctx, ports.DispatchJob{CampaignID: "blocked"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded on full buffer, got %v", err)
	}
	if q.Len() != 1 {
		t.Fatalf("expected buffer unchanged, got %d", q.Len())
	}
}
