package scheduler_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/mcp-endpoints/internal/options/optionstest"
	"github.com/JaimeStill/mcp-endpoints/internal/registry"
	"github.com/JaimeStill/mcp-endpoints/internal/scheduler"
)

func newScheduler(opts *optionstest.Memory) *scheduler.Scheduler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return scheduler.New(opts, registry.New(nil), scheduler.Config{}, logger)
}

func TestNextRun(t *testing.T) {
	tests := []struct {
		name     string
		last     int64
		interval int64
		now      int64
		want     int64
	}{
		{"on time", 1000, 3600, 1000, 4600},
		{"slightly late", 1000, 3600, 1500, 4600},
		{"missed several", 1000, 3600, 11000, 11800},
		{"exactly on boundary", 1000, 3600, 4600, 8200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scheduler.NextRun(tt.last, tt.interval, time.Unix(tt.now, 0))
			if got.Unix() != tt.want {
				t.Errorf("NextRun = %d, want %d", got.Unix(), tt.want)
			}
		})
	}
}

func TestDecodeLegacyOption(t *testing.T) {
	opts := optionstest.New().Seed("cron", map[string]any{
		"1700000000": map[string]any{
			"wp_version_check": map[string]any{
				"40cd750bba9870f18aada2478b24840a": map[string]any{"schedule": "twicedaily", "args": []any{}, "interval": 43200},
			},
		},
		"1600000000": map[string]any{
			"my_single_hook": map[string]any{
				"abc": map[string]any{"schedule": false, "args": []any{"x"}},
			},
		},
		"version": 2,
	})
	sys := newScheduler(opts)

	events, err := sys.Events(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %+v", events)
	}

	single, recurring := events[0], events[1]
	if single.Hook != "my_single_hook" || single.Schedule != "single" || single.Interval != nil || single.Recurring() {
		t.Errorf("single = %+v", single)
	}
	if single.NextRun != "2020-09-13 12:26:40" {
		t.Errorf("next_run = %q", single.NextRun)
	}
	if recurring.Schedule != "twicedaily" || recurring.Interval == nil || *recurring.Interval != 43200 {
		t.Errorf("recurring = %+v", recurring)
	}
}

func TestSchedule_InvalidSchedule(t *testing.T) {
	sys := newScheduler(optionstest.New())
	err := sys.Schedule(context.Background(), time.Now(), "fortnightly", "my_hook", nil)
	if !errors.Is(err, scheduler.ErrInvalidSchedule) {
		t.Errorf("err = %v", err)
	}
}

func TestRunDue(t *testing.T) {
	opts := optionstest.New()
	sys := newScheduler(opts)
	ctx := context.Background()
	past := time.Now().Add(-2 * time.Hour)

	if err := sys.Schedule(ctx, past, "hourly", "recurring_hook", nil); err != nil {
		t.Fatal(err)
	}
	if err := sys.Schedule(ctx, past, "", "single_hook", []any{"a", 1}); err != nil {
		t.Fatal(err)
	}
	if err := sys.Schedule(ctx, time.Now().Add(time.Hour), "", "future_hook", nil); err != nil {
		t.Fatal(err)
	}

	var calls []string
	var gotArgs []any
	sys.Handle("recurring_hook", func(ctx context.Context, args []any) error {
		calls = append(calls, "recurring_hook")
		return nil
	})
	sys.Handle("single_hook", func(ctx context.Context, args []any) error {
		calls = append(calls, "single_hook")
		gotArgs = args
		return errors.New("handler failures are logged")
	})

	n, err := sys.RunDue(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || len(calls) != 2 {
		t.Errorf("ran %d events, calls %v", n, calls)
	}
	if len(gotArgs) != 2 || gotArgs[0] != "a" {
		t.Errorf("args = %v", gotArgs)
	}

	events, _ := sys.Events(ctx)
	hooks := make([]string, len(events))
	for i, e := range events {
		hooks[i] = e.Hook
		if e.Hook == "recurring_hook" && e.Timestamp <= time.Now().Unix() {
			t.Errorf("recurring event not moved to the future: %d", e.Timestamp)
		}
	}
	if strings.Join(hooks, ",") != "recurring_hook,future_hook" && strings.Join(hooks, ",") != "future_hook,recurring_hook" {
		t.Errorf("remaining events = %v", hooks)
	}

	raw, _ := opts.Raw("cron")
	if !strings.Contains(raw, `"version":2`) {
		t.Errorf("cron option = %s", raw)
	}
}

func TestRun(t *testing.T) {
	sys := newScheduler(optionstest.New())
	ctx := context.Background()

	if err := sys.Run(ctx, "missing_hook"); !errors.Is(err, scheduler.ErrNotFound) {
		t.Errorf("Run(missing) = %v", err)
	}

	ran := false
	sys.Handle("wp_version_check", func(ctx context.Context, args []any) error {
		ran = true
		return nil
	})
	if err := sys.Ensure(ctx, "twicedaily", "wp_version_check"); err != nil {
		t.Fatal(err)
	}
	if err := sys.Ensure(ctx, "twicedaily", "wp_version_check"); err != nil {
		t.Fatal(err)
	}
	if err := sys.Run(ctx, "wp_version_check"); err != nil || !ran {
		t.Errorf("Run = %v, ran = %v", err, ran)
	}

	events, _ := sys.Events(ctx)
	if len(events) != 1 {
		t.Errorf("Ensure scheduled %d events", len(events))
	}
}

func TestEnsureKept(t *testing.T) {
	sys := newScheduler(optionstest.New())
	ctx := context.Background()

	noop := func(ctx context.Context, args []any) error { return nil }
	sys.Keep("twicedaily", "wp_version_check", noop)
	sys.Keep("daily", "wp_update_plugins", noop)

	for range 2 {
		if err := sys.EnsureKept(ctx); err != nil {
			t.Fatal(err)
		}
	}

	events, err := sys.Events(ctx)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]string{}
	for _, e := range events {
		got[e.Hook] = e.Schedule
	}
	if len(events) != 2 || got["wp_version_check"] != "twicedaily" || got["wp_update_plugins"] != "daily" {
		t.Errorf("events = %+v", events)
	}
}

func TestEnsure_Concurrent(t *testing.T) {
	sys := newScheduler(optionstest.New())
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			if err := sys.Ensure(ctx, "hourly", "wp_scheduled_delete"); err != nil {
				t.Error(err)
			}
		})
	}
	wg.Wait()

	events, err := sys.Events(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Errorf("Ensure() scheduled %d events, want 1", len(events))
	}

	if err := sys.Ensure(ctx, "fortnightly", "other_hook"); !errors.Is(err, scheduler.ErrInvalidSchedule) {
		t.Errorf("Ensure(unknown schedule) error = %v", err)
	}
}
