// Package scheduler stores scheduled events in the cron option and runs the
// hooks registered for them.
//
// A ticker driven by robfig/cron pops due events, reschedules recurring ones
// by their interval and then invokes the hook handlers outside the option lock.
// Events whose hook has no handler are consumed without effect.
package scheduler

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/JaimeStill/mcp-endpoints/internal/options"
	"github.com/JaimeStill/mcp-endpoints/internal/registry"
)

// Hook handles one event.
type Hook func(ctx context.Context, args []any) error

// Config controls the runner.
type Config struct {
	Disabled bool
	Tick     time.Duration
}

// ScheduleInfo describes a registered recurrence.
type ScheduleInfo struct {
	Interval int64  `json:"interval"`
	Display  string `json:"display"`
}

type Scheduler struct {
	opts   options.System
	reg    *registry.Registry
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	hooksMu sync.RWMutex
	hooks   map[string]Hook
	keep    map[string]string
}

func New(opts options.System, reg *registry.Registry, cfg Config, logger *slog.Logger) *Scheduler {
	if cfg.Tick <= 0 {
		cfg.Tick = time.Minute
	}
	return &Scheduler{
		opts:   opts,
		reg:    reg,
		cfg:    cfg,
		logger: logger.With("system", "scheduler"),
		now:    time.Now,
		hooks:  map[string]Hook{},
		keep:   map[string]string{},
	}
}

// Handle registers fn for hook, replacing any previous handler.
func (s *Scheduler) Handle(hook string, fn Hook) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.hooks[hook] = fn
}

// Keep handles hook with fn and asks the runner to recreate a recurring
// event for it on schedule whenever none exists.
func (s *Scheduler) Keep(schedule, hook string, fn Hook) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.hooks[hook] = fn
	s.keep[hook] = schedule
}

// EnsureKept schedules every kept hook that has no pending event.
func (s *Scheduler) EnsureKept(ctx context.Context) error {
	s.hooksMu.RLock()
	kept := make(map[string]string, len(s.keep))
	for hook, schedule := range s.keep {
		kept[hook] = schedule
	}
	s.hooksMu.RUnlock()

	for hook, schedule := range kept {
		if err := s.Ensure(ctx, schedule, hook); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) handler(hook string) (Hook, bool) {
	s.hooksMu.RLock()
	defer s.hooksMu.RUnlock()
	fn, ok := s.hooks[hook]
	return fn, ok
}

// Disabled reports whether the in-process runner is turned off. Events can
// still be listed and run on demand.
func (s *Scheduler) Disabled() bool {
	return s.cfg.Disabled
}

func (s *Scheduler) Schedules() map[string]ScheduleInfo {
	out := map[string]ScheduleInfo{}
	for _, sch := range s.reg.Schedules() {
		out[sch.Name] = ScheduleInfo{Interval: sch.Interval, Display: sch.Display}
	}
	return out
}

func (s *Scheduler) load(ctx context.Context) ([]Event, error) {
	raw := map[string]json.RawMessage{}
	if _, err := s.opts.Decode(ctx, cronOption, &raw); err != nil {
		return nil, err
	}
	return decodeEvents(raw)
}

// modify applies fn to the stored events under the option update lock. The
// events are written back only when fn reports a change.
func (s *Scheduler) modify(ctx context.Context, fn func([]Event) ([]Event, bool, error)) error {
	raw := map[string]json.RawMessage{}
	return s.opts.Update(ctx, cronOption, &raw, true, func(bool) (any, error) {
		events, err := decodeEvents(raw)
		if err != nil {
			return nil, err
		}
		next, changed, err := fn(events)
		if err != nil || !changed {
			return nil, err
		}
		return encodeEvents(next), nil
	})
}

// Events returns every scheduled event ordered by time.
func (s *Scheduler) Events(ctx context.Context) ([]Event, error) {
	return s.load(ctx)
}

// Schedule adds a recurring event for hook at the given time. An empty
// schedule adds a single event.
func (s *Scheduler) Schedule(ctx context.Context, at time.Time, schedule, hook string, args []any) error {
	e := Event{Hook: hook, Timestamp: at.Unix(), Schedule: "single", Args: args}
	if schedule != "" {
		sch, ok := s.reg.Schedule(schedule)
		if !ok {
			return ErrInvalidSchedule.Withf("Event schedule '%s' does not exist.", schedule)
		}
		interval := sch.Interval
		e.Schedule, e.Interval = sch.Name, &interval
	}

	err := s.modify(ctx, func(events []Event) ([]Event, bool, error) {
		return append(events, e), true, nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("event scheduled", "hook", hook, "schedule", e.Schedule, "at", at.UTC())
	return nil
}

// Ensure schedules hook on schedule starting now unless an event for hook
// already exists. The check and the insert happen under one update.
func (s *Scheduler) Ensure(ctx context.Context, schedule, hook string) error {
	sch, ok := s.reg.Schedule(schedule)
	if !ok {
		return ErrInvalidSchedule.Withf("Event schedule '%s' does not exist.", schedule)
	}
	interval := sch.Interval
	e := Event{Hook: hook, Timestamp: s.now().Unix(), Schedule: sch.Name, Interval: &interval}

	added := false
	err := s.modify(ctx, func(events []Event) ([]Event, bool, error) {
		for _, existing := range events {
			if existing.Hook == hook {
				return nil, false, nil
			}
		}
		added = true
		return append(events, e), true, nil
	})
	if err != nil {
		return err
	}

	if added {
		s.logger.Info("event scheduled", "hook", hook, "schedule", e.Schedule, "at", time.Unix(e.Timestamp, 0).UTC())
	}
	return nil
}

// Run invokes the handler of the earliest event for hook without changing the schedule.
func (s *Scheduler) Run(ctx context.Context, hook string) error {
	events, err := s.load(ctx)
	if err != nil {
		return err
	}
	for _, e := range events {
		if e.Hook == hook {
			s.invoke(ctx, e)
			return nil
		}
	}
	return ErrNotFound.Withf("Cron hook '%s' not found", hook)
}

// RunDue pops every event due at or before now, reschedules the recurring
// ones and invokes their handlers. It returns the number of events run.
func (s *Scheduler) RunDue(ctx context.Context) (int, error) {
	now := s.now()

	var due []Event
	err := s.modify(ctx, func(events []Event) ([]Event, bool, error) {
		due = due[:0]
		kept := []Event{}
		for _, e := range events {
			if e.Timestamp > now.Unix() {
				kept = append(kept, e)
				continue
			}
			due = append(due, e)
			if e.Recurring() {
				next := e
				next.Timestamp = NextRun(e.Timestamp, *e.Interval, now).Unix()
				kept = append(kept, next)
			}
		}
		return kept, len(due) > 0, nil
	})
	if err != nil {
		return 0, err
	}

	for _, e := range due {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		s.invoke(ctx, e)
	}
	return len(due), nil
}

func (s *Scheduler) invoke(ctx context.Context, e Event) {
	fn, ok := s.handler(e.Hook)
	if !ok {
		s.logger.Debug("event has no handler", "hook", e.Hook)
		return
	}

	start := s.now()
	if err := fn(ctx, e.Args); err != nil {
		s.logger.Error("event failed", "hook", e.Hook, "error", err)
		return
	}
	s.logger.Info("event ran", "hook", e.Hook, "duration", s.now().Sub(start))
}

// NextRun returns the first occurrence after now of an interval recurrence
// anchored at the last run timestamp.
func NextRun(last, interval int64, now time.Time) time.Time {
	every := cron.Every(time.Duration(interval) * time.Second)
	next := time.Unix(last, 0)
	if missed := now.Unix() - last; missed > interval {
		next = next.Add(time.Duration(missed/interval*interval) * time.Second)
	}
	for !next.After(now) {
		next = every.Next(next)
	}
	return next
}
