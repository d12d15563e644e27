package scheduler

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

const (
	cronOption  = "cron"
	cronVersion = 2

	timeLayout = "2006-01-02 15:04:05"
)

// Event is one scheduled invocation of a hook. Recurring events carry the
// schedule name and its interval in seconds; single events leave both empty.
type Event struct {
	Hook      string `json:"hook"`
	Timestamp int64  `json:"timestamp"`
	NextRun   string `json:"next_run"`
	Schedule  string `json:"schedule"`
	Interval  *int64 `json:"interval"`
	Args      []any  `json:"args"`
}

// Recurring reports whether the event is rescheduled after it runs.
func (e Event) Recurring() bool {
	return e.Schedule != "" && e.Schedule != "single" && e.Interval != nil && *e.Interval > 0
}

// argsKey identifies events of the same hook and timestamp by their arguments.
func argsKey(args []any) string {
	data, _ := json.Marshal(args)
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

type storedEvent struct {
	Schedule any    `json:"schedule"`
	Args     []any  `json:"args"`
	Interval *int64 `json:"interval,omitempty"`
}

// decodeEvents reads the cron option: timestamps mapping hooks to events keyed
// by argument hash. Non-numeric keys such as version are skipped.
func decodeEvents(raw map[string]json.RawMessage) ([]Event, error) {
	events := []Event{}
	for key, value := range raw {
		ts, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}

		var hooks map[string]map[string]storedEvent
		if err := json.Unmarshal(value, &hooks); err != nil {
			return nil, fmt.Errorf("decode events at %d: %w", ts, err)
		}

		for hook, byArgs := range hooks {
			for _, se := range byArgs {
				e := Event{
					Hook:      hook,
					Timestamp: ts,
					NextRun:   time.Unix(ts, 0).UTC().Format(timeLayout),
					Schedule:  "single",
					Interval:  se.Interval,
					Args:      se.Args,
				}
				if name, ok := se.Schedule.(string); ok && name != "" {
					e.Schedule = name
				}
				if e.Args == nil {
					e.Args = []any{}
				}
				events = append(events, e)
			}
		}
	}

	sortEvents(events)
	return events, nil
}

func encodeEvents(events []Event) map[string]any {
	out := map[string]any{"version": cronVersion}
	for _, e := range events {
		key := strconv.FormatInt(e.Timestamp, 10)
		hooks, ok := out[key].(map[string]map[string]storedEvent)
		if !ok {
			hooks = map[string]map[string]storedEvent{}
			out[key] = hooks
		}
		if hooks[e.Hook] == nil {
			hooks[e.Hook] = map[string]storedEvent{}
		}

		se := storedEvent{Schedule: false, Args: e.Args}
		if e.Recurring() {
			se.Schedule = e.Schedule
			se.Interval = e.Interval
		}
		if se.Args == nil {
			se.Args = []any{}
		}
		hooks[e.Hook][argsKey(e.Args)] = se
	}
	return out
}

// sortEvents orders by timestamp, then hook.
func sortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Timestamp != events[j].Timestamp {
			return events[i].Timestamp < events[j].Timestamp
		}
		return events[i].Hook < events[j].Hook
	})
}
