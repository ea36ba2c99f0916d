package dispatch

import (
	"context"
	"sync"
)

// Report is the aggregate outcome of one campaign dispatch run.
type Report struct {
	Total  int64
	Sent   int64
	Failed int64
	Errors []string
}

// Task is the observable handle of one in-flight dispatch: it carries the
// cancellation token and completes exactly once. Tests and operators wait on
// Done instead of sleeping.
type Task struct {
	CampaignID string

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	report Report
	err    error
}

func (t *Task) Context() context.Context {
	return t.ctx
}

func (t *Task) Cancel() {
	t.cancel()
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the dispatch run finished and returns its outcome.
func (t *Task) Wait() (Report, error) {
	<-t.done
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.report, t.err
}

func (t *Task) complete(report Report, err error) {
	t.mu.Lock()
	t.report = report
	t.err = err
	t.mu.Unlock()
	close(t.done)
}

// Tracker registers one task per campaign so an operator stop can reach the
// running dispatch. Campaigns not currently dispatching are unknown to it.
type Tracker struct {
	mu    sync.Mutex
	tasks map[string]*Task
}

func NewTracker() *Tracker {
	return &Tracker{tasks: make(map[string]*Task)}
}

// Begin registers a task for the campaign, derived from the parent context.
// A second Begin for the same campaign returns false while the first run is
// still active.
func (tr *Tracker) Begin(parent context.Context, campaignID string) (*Task, bool) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if _, active := tr.tasks[campaignID]; active {
		return nil, false
	}
	ctx, cancel := context.WithCancel(parent)
	task := &Task{
		CampaignID: campaignID,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	tr.tasks[campaignID] = task
	return task, true
}

// Finish completes the task and removes it from the registry.
func (tr *Tracker) Finish(task *Task, report Report, err error) {
	tr.mu.Lock()
	delete(tr.tasks, task.CampaignID)
	tr.mu.Unlock()

	task.cancel()
	task.complete(report, err)
}

// Cancel signals the campaign's running dispatch, if any, to stop issuing new
// sends. In-flight provider calls still complete and record their outcome.
func (tr *Tracker) Cancel(campaignID string) bool {
	tr.mu.Lock()
	task, active := tr.tasks[campaignID]
	tr.mu.Unlock()

	if !active {
		return false
	}
	task.cancel()
	return true
}

// Lookup returns the active task for a campaign, if one is running.
func (tr *Tracker) Lookup(campaignID string) (*Task, bool) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	task, active := tr.tasks[campaignID]
	return task, active
}
