package widgets

import (
	"context"
	"log/slog"
	"maps"
	"strconv"
	"sync"

	"github.com/JaimeStill/mcp-endpoints/internal/options"
	"github.com/JaimeStill/mcp-endpoints/internal/registry"
)

type repo struct {
	opts   options.System
	reg    *registry.Registry
	logger *slog.Logger

	// mu keeps the instance and layout options touched by one operation
	// consistent with each other.
	mu sync.Mutex
}

func New(opts options.System, reg *registry.Registry, logger *slog.Logger) System {
	return &repo{
		opts:   opts,
		reg:    reg,
		logger: logger.With("system", "widgets"),
	}
}

func (r *repo) layout(ctx context.Context) (Layout, error) {
	raw := map[string]any{}
	if _, err := r.opts.Decode(ctx, sidebarsOption, &raw); err != nil {
		return Layout{}, err
	}
	return decodeLayout(raw), nil
}

// updateLayout applies fn to the stored layout. An error from fn leaves it unchanged.
func (r *repo) updateLayout(ctx context.Context, fn func(l *Layout) error) error {
	raw := map[string]any{}
	return r.opts.Update(ctx, sidebarsOption, &raw, true, func(bool) (any, error) {
		l := decodeLayout(raw)
		if err := fn(&l); err != nil {
			return nil, err
		}
		return l.encode(), nil
	})
}

// updateInstances applies fn to the stored instances of idBase, writing them
// back when fn reports a change.
func (r *repo) updateInstances(ctx context.Context, idBase string, fn func(inst map[string]any) (bool, error)) error {
	inst := map[string]any{}
	return r.opts.Update(ctx, instanceOption(idBase), &inst, true, func(bool) (any, error) {
		if inst == nil {
			inst = map[string]any{}
		}
		changed, err := fn(inst)
		if err != nil || !changed {
			return nil, err
		}
		return inst, nil
	})
}

func (r *repo) instances(ctx context.Context, idBase string) (map[string]any, error) {
	inst := map[string]any{}
	if _, err := r.opts.Decode(ctx, instanceOption(idBase), &inst); err != nil {
		return nil, err
	}
	if inst == nil {
		inst = map[string]any{}
	}
	return inst, nil
}

func (r *repo) sidebar(id string) (registry.Sidebar, error) {
	sb, ok := r.reg.Sidebar(id)
	if !ok {
		return sb, ErrSidebarNotFound.Withf("Sidebar '%s' not found", id)
	}
	return sb, nil
}

func (r *repo) Sidebars(ctx context.Context) ([]SidebarSummary, error) {
	l, err := r.layout(ctx)
	if err != nil {
		return nil, err
	}

	registered := r.reg.Sidebars()
	out := make([]SidebarSummary, len(registered))
	for i, sb := range registered {
		out[i] = SidebarSummary{
			ID:          sb.ID,
			Name:        sb.Name,
			Description: sb.Description,
			WidgetCount: len(l.Sidebars[sb.ID]),
		}
	}
	return out, nil
}

func (r *repo) Sidebar(ctx context.Context, id string) (*SidebarSummary, []Widget, error) {
	sb, err := r.sidebar(id)
	if err != nil {
		return nil, nil, err
	}
	l, err := r.layout(ctx)
	if err != nil {
		return nil, nil, err
	}

	widgets := []Widget{}
	for _, wid := range l.Sidebars[id] {
		w, err := r.load(ctx, wid)
		if err != nil {
			return nil, nil, err
		}
		if w != nil {
			widgets = append(widgets, *w)
		}
	}

	return &SidebarSummary{
		ID:          sb.ID,
		Name:        sb.Name,
		Description: sb.Description,
		WidgetCount: len(widgets),
	}, widgets, nil
}

func (r *repo) Types() []TypeSummary {
	types := r.reg.WidgetTypes()
	out := make([]TypeSummary, len(types))
	for i, t := range types {
		out[i] = TypeSummary{IDBase: t.IDBase, Name: t.Name, Description: t.Description}
	}
	return out
}

// load returns the stored instance for id, or nil when it does not exist.
func (r *repo) load(ctx context.Context, id string) (*Widget, error) {
	idBase, n, ok := ParseID(id)
	if !ok {
		return nil, nil
	}
	inst, err := r.instances(ctx, idBase)
	if err != nil {
		return nil, err
	}
	settings, ok := inst[strconv.Itoa(n)].(map[string]any)
	if !ok {
		if _, exists := inst[strconv.Itoa(n)]; !exists {
			return nil, nil
		}
		settings = map[string]any{}
	}

	name := idBase
	if t, ok := r.reg.WidgetType(idBase); ok {
		name = t.Name
	}
	return &Widget{ID: id, Type: idBase, Name: name, Settings: settings}, nil
}

func (r *repo) Get(ctx context.Context, id string) (*Placed, error) {
	if _, _, ok := ParseID(id); !ok {
		return nil, ErrInvalidFormat
	}
	w, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrNotFound.Withf("Widget '%s' not found", id)
	}

	l, err := r.layout(ctx)
	if err != nil {
		return nil, err
	}
	p := &Placed{Widget: *w}
	if sb, ok := l.Find(id); ok {
		p.SidebarID = &sb
	}
	return p, nil
}

func (r *repo) Add(ctx context.Context, sidebar, widgetType string, settings map[string]any, position *int) (string, error) {
	if _, err := r.sidebar(sidebar); err != nil {
		return "", err
	}
	if _, ok := r.reg.WidgetType(widgetType); !ok {
		return "", ErrInvalidType.Withf("Widget type '%s' not found", widgetType)
	}
	if settings == nil {
		settings = map[string]any{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	err := r.updateInstances(ctx, widgetType, func(inst map[string]any) (bool, error) {
		n = nextNumber(inst)
		inst[strconv.Itoa(n)] = settings
		inst["_multiwidget"] = 1
		return true, nil
	})
	if err != nil {
		return "", err
	}

	id := widgetType + "-" + strconv.Itoa(n)
	err = r.updateLayout(ctx, func(l *Layout) error {
		l.Insert(sidebar, id, position)
		return nil
	})
	if err != nil {
		return "", err
	}

	r.logger.Info("widget added", "widget", id, "sidebar", sidebar)
	return id, nil
}

func (r *repo) Update(ctx context.Context, id string, settings map[string]any) error {
	idBase, n, ok := ParseID(id)
	if !ok {
		return ErrInvalidFormat
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.updateInstances(ctx, idBase, func(inst map[string]any) (bool, error) {
		key := strconv.Itoa(n)
		current, exists := inst[key]
		if !exists {
			return false, ErrNotFound.Withf("Widget '%s' not found", id)
		}
		if len(settings) == 0 {
			return false, nil
		}

		merged, _ := current.(map[string]any)
		if merged == nil {
			merged = map[string]any{}
		}
		maps.Copy(merged, settings)
		inst[key] = merged
		return true, nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("widget updated", "widget", id)
	return nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	idBase, n, ok := ParseID(id)
	if !ok {
		return ErrInvalidFormat
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.updateLayout(ctx, func(l *Layout) error {
		if !l.Remove(id) {
			return ErrNotFound.Withf("Widget '%s' not found", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	err = r.updateInstances(ctx, idBase, func(inst map[string]any) (bool, error) {
		key := strconv.Itoa(n)
		if _, ok := inst[key]; !ok {
			return false, nil
		}
		delete(inst, key)
		return true, nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("widget deleted", "widget", id)
	return nil
}

func (r *repo) Move(ctx context.Context, id, sidebar string, position *int) (string, error) {
	if _, _, ok := ParseID(id); !ok {
		return "", ErrInvalidFormat
	}
	if _, err := r.sidebar(sidebar); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var from string
	err := r.updateLayout(ctx, func(l *Layout) error {
		var ok bool
		if from, ok = l.Find(id); !ok {
			return ErrNotFound.Withf("Widget '%s' not found", id)
		}
		l.Remove(id)
		l.Insert(sidebar, id, position)
		return nil
	})
	if err != nil {
		return "", err
	}

	r.logger.Info("widget moved", "widget", id, "from", from, "to", sidebar)
	return from, nil
}

func (r *repo) Reorder(ctx context.Context, sidebar string, order []string) ([]string, error) {
	if _, err := r.sidebar(sidebar); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var ordered []string
	err := r.updateLayout(ctx, func(l *Layout) error {
		if missing, ok := l.Reorder(sidebar, order); !ok {
			return ErrInvalidWidget.Withf("Widget '%s' not in sidebar", missing)
		}
		ordered = l.Sidebars[sidebar]
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("sidebar reordered", "sidebar", sidebar, "widgets", len(ordered))
	return ordered, nil
}
