// Package tasks runs the server's periodic maintenance: refreshing the site
// settings snapshot and purging stale submission records.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FailureThreshold is how many consecutive failures make Ping report a job
// as unhealthy.
const FailureThreshold = 3

// Job is one periodic task. Run is called once at Start and then every
// Interval; runs of the same job never overlap.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Status is the last known state of a job.
type Status struct {
	Name      string
	Runs      int
	Failures  int // consecutive; reset by a success
	LastRun   time.Time
	LastError string
	Running   bool
}

// Runner owns the job goroutines.
type Runner struct {
	logger *zap.Logger
	jobs   []Job

	mu     sync.Mutex
	status map[string]*Status
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// ErrUnknownJob is returned by RunOnce for an unregistered name.
var ErrUnknownJob = errors.New("unknown job")

func New(logger *zap.Logger) *Runner {
	return &Runner{logger: logger, status: make(map[string]*Status)}
}

// Register adds a job. It must be called before Start.
func (r *Runner) Register(job Job) {
	r.jobs = append(r.jobs, job)
	r.mu.Lock()
	r.status[job.Name] = &Status{Name: job.Name}
	r.mu.Unlock()
}

// Start launches every registered job.
func (r *Runner) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.loop(ctx, job)
	}
	r.logger.Info("background tasks started", zap.Strings("jobs", r.Names()))
}

// Stop cancels the jobs and waits for them until ctx is done. A job that
// ignores cancellation makes Stop return ctx.Err().
func (r *Runner) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("background tasks stopped")
		return nil
	case <-ctx.Done():
		var busy []string
		for _, s := range r.Statuses() {
			if s.Running {
				busy = append(busy, s.Name)
			}
		}
		r.logger.Warn("background tasks did not stop in time", zap.Strings("still_running", busy))
		return ctx.Err()
	}
}

func (r *Runner) loop(ctx context.Context, job Job) {
	defer r.wg.Done()

	r.execute(ctx, job)

	t := time.NewTicker(job.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.execute(ctx, job)
		}
	}
}

func (r *Runner) execute(ctx context.Context, job Job) {
	r.mark(job.Name, func(s *Status) { s.Running = true })
	start := time.Now()
	err := job.Run(ctx)
	elapsed := time.Since(start)

	if err != nil && ctx.Err() != nil {
		// Shutdown, not a failure.
		r.mark(job.Name, func(s *Status) { s.Running = false })
		return
	}

	r.mark(job.Name, func(s *Status) {
		s.Running = false
		s.Runs++
		s.LastRun = start
		if err != nil {
			s.Failures++
			s.LastError = err.Error()
		} else {
			s.Failures = 0
			s.LastError = ""
		}
	})

	if err != nil {
		r.logger.Error("task failed", zap.String("job", job.Name), zap.Duration("took", elapsed), zap.Error(err))
		return
	}
	r.logger.Debug("task done", zap.String("job", job.Name), zap.Duration("took", elapsed))
}

func (r *Runner) mark(name string, f func(*Status)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.status[name]; ok {
		f(s)
	}
}

// RunOnce executes a job immediately, outside its schedule.
func (r *Runner) RunOnce(ctx context.Context, name string) error {
	for _, job := range r.jobs {
		if job.Name == name {
			return job.Run(ctx)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownJob, name)
}

// Names lists the registered job names in registration order.
func (r *Runner) Names() []string {
	out := make([]string, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j.Name)
	}
	return out
}

// Statuses returns a snapshot of every job, sorted by name.
func (r *Runner) Statuses() []Status {
	r.mu.Lock()
	out := make([]Status, 0, len(r.status))
	for _, s := range r.status {
		out = append(out, *s)
	}
	r.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Ping fails when any job has failed FailureThreshold times in a row. It
// lets the health endpoint report the runner as a degraded dependency.
func (r *Runner) Ping(context.Context) error {
	var failing []string
	for _, s := range r.Statuses() {
		if s.Failures >= FailureThreshold {
			failing = append(failing, fmt.Sprintf("%s (%s)", s.Name, s.LastError))
		}
	}
	if len(failing) > 0 {
		return fmt.Errorf("tasks failing: %s", strings.Join(failing, ", "))
	}
	return nil
}
