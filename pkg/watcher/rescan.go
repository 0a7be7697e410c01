package watcher

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"mercator-hq/modlint/pkg/config"
)

// Rescanner runs a full scan on a cron schedule.
type Rescanner struct {
	schedule string
	cron     *cron.Cron
	scan     func() error
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewRescanner validates schedule and prepares the job. Both five-field
// specs and descriptors such as "@every 10m" are accepted.
func NewRescanner(schedule string, scan func() error, logger *slog.Logger) (*Rescanner, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := cron.New(cron.WithParser(config.RescanParser))
	r := &Rescanner{
		schedule: schedule,
		cron:     c,
		scan:     scan,
		logger:   logger,
	}
	if _, err := c.AddFunc(schedule, r.run); err != nil {
		return nil, fmt.Errorf("invalid rescan schedule %q: %w", schedule, err)
	}
	return r, nil
}

// Start begins the schedule.
func (r *Rescanner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return
	}
	r.cron.Start()
	r.running = true
	r.logger.Info("rescan scheduled", "schedule", r.schedule)
}

// Stop stops the schedule and waits for a running scan to finish.
func (r *Rescanner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.running = false
}

// NextRun returns the next scheduled scan time, or nil when nothing is
// scheduled.
func (r *Rescanner) NextRun() *time.Time {
	entries := r.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}

func (r *Rescanner) run() {
	r.logger.Debug("starting scheduled rescan")
	if err := r.scan(); err != nil {
		r.logger.Error("scheduled rescan failed", "error", err)
		return
	}
	if next := r.NextRun(); next != nil {
		r.logger.Debug("scheduled rescan complete", "next_run", next.Format(time.RFC3339))
	}
}
