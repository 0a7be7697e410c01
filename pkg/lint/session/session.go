// Package session binds the lint engine to a host that reports document
// activity, such as an editor or a file watcher.
//
// Every notification schedules a debounced pass over the text it carried.
// When the quiet period elapses, the pass runs on the text of the latest
// notification and its findings replace the stored findings for the
// document.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"mercator-hq/modlint/pkg/lint/debounce"
	"mercator-hq/modlint/pkg/lint/document"
	"mercator-hq/modlint/pkg/lint/engine"
	"mercator-hq/modlint/pkg/telemetry/logging"
	"mercator-hq/modlint/pkg/telemetry/metrics"
	"mercator-hq/modlint/pkg/telemetry/tracing"
)

// DefaultDebounce is the quiet period before a pass runs.
const DefaultDebounce = 500 * time.Millisecond

// Trigger is the host event that caused a notification.
type Trigger string

const (
	TriggerOpened Trigger = "opened"
	TriggerSaved  Trigger = "saved"
	TriggerEdited Trigger = "edited"
)

// ParseTrigger converts a host event name into a Trigger.
func ParseTrigger(s string) (Trigger, error) {
	switch t := Trigger(s); t {
	case TriggerOpened, TriggerSaved, TriggerEdited:
		return t, nil
	default:
		return "", fmt.Errorf("unknown trigger %q", s)
	}
}

// Listener receives every stored entry after its pass completes. It is
// called from the pass goroutine and must not block for long.
type Listener func(Entry)

// Session tracks documents and keeps their findings current.
type Session struct {
	engine    *engine.Engine
	scheduler *debounce.Scheduler
	store     *Store

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.RWMutex
	listeners []Listener

	// latest holds the generation of the newest notification per open
	// path; Close removes it so a pass that is still running is discarded
	genMu  sync.Mutex
	gen    uint64
	latest map[string]uint64

	logger  *slog.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
}

// New creates a session. A zero delay uses DefaultDebounce.
func New(eng *engine.Engine, delay time.Duration, logger *slog.Logger, collector *metrics.Collector, tracer *tracing.Tracer) *Session {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		engine:    eng,
		scheduler: debounce.NewScheduler(delay),
		store:     NewStore(),
		latest:    make(map[string]uint64),
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger.With("component", "lint.session"),
		metrics:   collector,
		tracer:    tracer,
	}
}

// Store returns the findings store.
func (s *Session) Store() *Store {
	return s.store
}

// OnResult registers a listener for completed passes.
func (s *Session) OnResult(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Notify records document activity and schedules a pass on text. Files the
// engine does not lint are ignored.
func (s *Session) Notify(path string, text []byte, trigger Trigger) error {
	if _, err := ParseTrigger(string(trigger)); err != nil {
		return err
	}
	if document.DetectKind(path) == document.KindUnknown {
		return nil
	}

	s.metrics.RecordNotification(string(trigger))
	s.logger.Debug("document notification", "path", path, "trigger", string(trigger), "bytes", len(text))

	s.genMu.Lock()
	s.gen++
	gen := s.gen
	s.latest[path] = gen
	s.genMu.Unlock()

	snapshot := append([]byte(nil), text...)
	if s.scheduler.Schedule(path, func() { s.pass(path, gen, snapshot, trigger) }) {
		s.metrics.RecordCoalesced()
	}
	return nil
}

// Close stops tracking path: a pending pass is dropped, a running pass has
// its result discarded and stored findings are removed.
func (s *Session) Close(path string) {
	s.scheduler.Cancel(path)

	s.genMu.Lock()
	delete(s.latest, path)
	s.store.Delete(path)
	s.genMu.Unlock()

	s.metrics.UpdateTrackedDocuments(s.store.Len())
}

// Stop cancels pending passes and waits for running ones.
func (s *Session) Stop() {
	if n := s.scheduler.Pending(); n > 0 {
		s.logger.Debug("dropping pending passes", "count", n)
	}
	s.cancel()
	s.scheduler.Stop()
}

func (s *Session) pass(path string, gen uint64, text []byte, trigger Trigger) {
	ctx := logging.WithTrigger(s.ctx, string(trigger))
	ctx, span := s.tracer.Start(ctx, "lint.notify")
	span.SetAttributes(tracing.TriggerAttribute(string(trigger)))
	defer span.End()

	res := s.engine.LintSource(ctx, path, text)
	if res.Err != nil && s.ctx.Err() != nil {
		return
	}

	entry := Entry{
		Path:     path,
		PassID:   res.PassID,
		Trigger:  trigger,
		Findings: res.Findings,
		Err:      res.Err,
		Updated:  time.Now(),
	}
	if !s.commit(gen, entry) {
		s.logger.Debug("discarding superseded pass", "path", path, "pass_id", res.PassID)
		return
	}
	s.metrics.UpdateTrackedDocuments(s.store.Len())

	s.mu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.RUnlock()
	for _, l := range listeners {
		l(entry)
	}
}

// commit stores entry unless its path was closed or notified again since
// generation gen was scheduled.
func (s *Session) commit(gen uint64, entry Entry) bool {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	if s.latest[entry.Path] != gen {
		return false
	}
	s.store.Set(entry)
	return true
}
