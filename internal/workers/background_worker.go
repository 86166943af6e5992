package workers

import (
	"context"
	"log"
	"sync"
	"time"
)

// BackgroundTask represents a background task that can be cancelled
type BackgroundTask struct {
	Name     string
	Handler  func(ctx context.Context) error
	Interval time.Duration // For periodic tasks, 0 means run once
}

// BackgroundWorker manages and runs background tasks with graceful shutdown.
// Tasks added before Start are held until Start; tasks added afterwards run
// immediately.
type BackgroundWorker struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	pending []BackgroundTask
	started bool
}

// NewBackgroundWorker creates a new BackgroundWorker
func NewBackgroundWorker(ctx context.Context) *BackgroundWorker {
	cctx, cancel := context.WithCancel(ctx)
	return &BackgroundWorker{
		ctx:    cctx,
		cancel: cancel,
	}
}

// AddTask queues task, or starts it when the worker is already running.
func (bw *BackgroundWorker) AddTask(task BackgroundTask) {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if bw.started {
		bw.startTask(task)
		return
	}
	bw.pending = append(bw.pending, task)
}

// AddPeriodicTask adds a task that runs once and then every interval.
func (bw *BackgroundWorker) AddPeriodicTask(name string, interval time.Duration, handler func(ctx context.Context) error) {
	bw.AddTask(BackgroundTask{
		Name:     name,
		Handler:  handler,
		Interval: interval,
	})
}

// AddOneTimeTask adds a task that runs once. Long-running loops such as
// watchers return when ctx is cancelled.
func (bw *BackgroundWorker) AddOneTimeTask(name string, handler func(ctx context.Context) error) {
	bw.AddTask(BackgroundTask{
		Name:    name,
		Handler: handler,
	})
}

// Start begins executing all queued background tasks
func (bw *BackgroundWorker) Start() {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if bw.started {
		return
	}
	bw.started = true

	for _, task := range bw.pending {
		bw.startTask(task)
	}
	bw.pending = nil
}

// startTask starts a single background task
func (bw *BackgroundWorker) startTask(task BackgroundTask) {
	bw.wg.Add(1)
	go func(t BackgroundTask) {
		defer bw.wg.Done()

		defer func() {
			if r := recover(); r != nil {
				log.Printf("Recovered from panic in task %s: %v", t.Name, r)
			}
		}()

		bw.run(t)
		if t.Interval <= 0 {
			return
		}

		ticker := time.NewTicker(t.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-bw.ctx.Done():
				log.Printf("Background task '%s' stopping", t.Name)
				return
			case <-ticker.C:
				bw.run(t)
			}
		}
	}(task)
}

func (bw *BackgroundWorker) run(t BackgroundTask) {
	if err := t.Handler(bw.ctx); err != nil && bw.ctx.Err() == nil {
		log.Printf("Background task '%s' error: %v", t.Name, err)
	}
}

// Shutdown gracefully stops all background tasks
func (bw *BackgroundWorker) Shutdown() {
	log.Println("Shutting down background tasks...")
	bw.cancel()
	bw.wg.Wait()
	log.Println("All background tasks stopped.")
}
