package tasks_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/tasks"
	"go.uber.org/zap"
)

func stopWithin(t *testing.T, r *tasks.Runner, d time.Duration) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return r.Stop(ctx)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestRunner_RunsImmediatelyAndOnInterval(t *testing.T) {
	r := tasks.New(zap.NewNop())
	var fast, slow atomic.Int32
	r.Register(tasks.Job{Name: "fast", Interval: 10 * time.Millisecond, Run: func(context.Context) error { fast.Add(1); return nil }})
	r.Register(tasks.Job{Name: "slow", Interval: time.Hour, Run: func(context.Context) error { slow.Add(1); return nil }})

	r.Start()
	waitFor(t, func() bool { return fast.Load() >= 3 && slow.Load() == 1 })

	if err := stopWithin(t, r, time.Second); err != nil {
		t.Fatalf("Stop() = %v", err)
	}
	if got := slow.Load(); got != 1 {
		t.Errorf("hourly job ran %d times, want 1", got)
	}
	if names := r.Names(); len(names) != 2 || names[0] != "fast" || names[1] != "slow" {
		t.Errorf("Names() = %v", names)
	}
}

func TestRunner_StopCancelsJobContext(t *testing.T) {
	r := tasks.New(zap.NewNop())
	cancelled := make(chan struct{})
	r.Register(tasks.Job{Name: "waiter", Interval: time.Hour, Run: func(ctx context.Context) error {
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	}})

	r.Start()
	waitFor(t, func() bool { return r.Statuses()[0].Running })

	if err := stopWithin(t, r, time.Second); err != nil {
		t.Fatalf("Stop() = %v", err)
	}
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("job context was not cancelled")
	}
	// A cancelled run is not a failure.
	if st := r.Statuses()[0]; st.Failures != 0 || st.Runs != 0 {
		t.Errorf("status after shutdown = %+v", st)
	}
}

func TestRunner_StopTimesOutOnStuckJob(t *testing.T) {
	r := tasks.New(zap.NewNop())
	release := make(chan struct{})
	started := make(chan struct{})
	r.Register(tasks.Job{Name: "stuck", Interval: time.Hour, Run: func(context.Context) error {
		close(started)
		<-release
		return nil
	}})

	r.Start()
	<-started
	err := stopWithin(t, r, 50*time.Millisecond)
	close(release)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Stop() = %v, want DeadlineExceeded", err)
	}
}

func TestRunner_RunOnce(t *testing.T) {
	r := tasks.New(zap.NewNop())
	var n atomic.Int32
	r.Register(tasks.Job{Name: "settings-refresh", Interval: time.Hour, Run: func(context.Context) error { n.Add(1); return nil }})

	if err := r.RunOnce(context.Background(), "settings-refresh"); err != nil || n.Load() != 1 {
		t.Errorf("RunOnce() = %v, runs = %d", err, n.Load())
	}
	if err := r.RunOnce(context.Background(), "nope"); !errors.Is(err, tasks.ErrUnknownJob) {
		t.Errorf("RunOnce(unknown) = %v, want ErrUnknownJob", err)
	}
}

func TestRunner_StatusAndPing(t *testing.T) {
	r := tasks.New(zap.NewNop())
	var fail atomic.Bool
	fail.Store(true)
	r.Register(tasks.Job{Name: "flaky", Interval: 10 * time.Millisecond, Run: func(context.Context) error {
		if fail.Load() {
			return errors.New("store offline")
		}
		return nil
	}})

	r.Start()
	defer stopWithin(t, r, time.Second)

	waitFor(t, func() bool { return r.Ping(context.Background()) != nil })
	st := r.Statuses()[0]
	if st.Failures < tasks.FailureThreshold || st.LastError != "store offline" {
		t.Errorf("status = %+v", st)
	}

	fail.Store(false)
	waitFor(t, func() bool { return r.Ping(context.Background()) == nil })
	if st := r.Statuses()[0]; st.Failures != 0 || st.LastError != "" || st.LastRun.IsZero() {
		t.Errorf("status not reset after success: %+v", st)
	}
}

type fakeRefresher struct{ deadline atomic.Bool }

func (f *fakeRefresher) Refresh(ctx context.Context) error {
	_, ok := ctx.Deadline()
	f.deadline.Store(ok)
	return nil
}

type fakePurger struct{ cutoff time.Time }

func (f *fakePurger) Purge(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return 2, nil
}

func TestSettingsRefreshJob(t *testing.T) {
	f := &fakeRefresher{}
	job := tasks.SettingsRefreshJob(f, 0)
	if job.Interval != 30*time.Second || job.Name != "settings-refresh" {
		t.Errorf("job = %s every %v", job.Name, job.Interval)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !f.deadline.Load() {
		t.Error("refresh should run under a deadline")
	}
}

func TestSubmissionPurgeJob(t *testing.T) {
	p := &fakePurger{}
	job := tasks.SubmissionPurgeJob(p, 24*time.Hour, zap.NewNop())
	before := time.Now().Add(-24 * time.Hour)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if p.cutoff.Before(before.Add(-time.Second)) || p.cutoff.After(time.Now()) {
		t.Errorf("cutoff = %v, want about %v", p.cutoff, before)
	}
}
