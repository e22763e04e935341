// Package scheduler drives recurring pipeline runs from a cron spec.
package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"

	"coinpilot/internal/logger"

	"github.com/robfig/cron/v3"
)

// Job is one pipeline cycle.
type Job func(ctx context.Context)

type Scheduler struct {
	spec           string
	runImmediately bool
}

func New(spec string, runImmediately bool) *Scheduler {
	return &Scheduler{spec: spec, runImmediately: runImmediately}
}

// Run executes the job per the cron spec until ctx is cancelled. An empty
// spec degrades to a single immediate run, preserving the on-demand batch
// behavior. Overlapping runs are skipped, not queued: the pipeline holds
// no shared mutable state, but concurrent runs would double-spend the
// per-trade allocation.
func (s *Scheduler) Run(ctx context.Context, job Job) error {
	if s.spec == "" {
		job(ctx)
		return nil
	}

	var running atomic.Bool
	guarded := func() {
		if !running.CompareAndSwap(false, true) {
			logger.Warnf("scheduler: previous run still active, skipping tick")
			return
		}
		defer running.Store(false)
		job(ctx)
	}

	c := cron.New()
	if _, err := c.AddFunc(s.spec, guarded); err != nil {
		return fmt.Errorf("registering cron spec %q: %w", s.spec, err)
	}
	if s.runImmediately {
		guarded()
	}
	c.Start()
	logger.Infof("scheduler: started with spec %q", s.spec)
	<-ctx.Done()
	stopCtx := c.Stop()
	<-stopCtx.Done()
	logger.Infof("scheduler: stopped")
	return nil
}
