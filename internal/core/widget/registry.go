package widget

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"clima.app/internal/ports"
	"clima.app/pkg/errors"
	"clima.app/pkg/validation"
)

// Widgets not viewed for this many refresh intervals are evicted when no
// idle timeout is configured.
const defaultIdleRefreshes = 3

// Upper bound on the delay between idle sweeps
const maxSweepInterval = time.Minute

// Registry keeps the mounted widgets of the process keyed by ID.
// Widgets nobody has looked at for IdleTimeout are unmounted by a
// background sweeper so abandoned pages give their slot back.
type Registry struct {
	mu      sync.RWMutex
	widgets map[string]*mountedWidget
	closed  bool

	fetcher Fetcher
	logger  ports.Logger
	metrics ports.FetchMetrics
	config  ports.WidgetConfig

	ctx       context.Context
	cancel    context.CancelFunc
	sweepDone chan struct{}
	newID     func() string
	now       func() time.Time
}

type mountedWidget struct {
	controller *Controller
	lastSeen   atomic.Int64 // unix nanoseconds
}

func (w *mountedWidget) touch(now time.Time) {
	w.lastSeen.Store(now.UnixNano())
}

type RegistryDependencies struct {
	Fetcher        Fetcher
	Logger         ports.Logger
	Metrics        ports.FetchMetrics
	ConfigProvider ports.ConfigProvider
	// Clock defaults to time.Now
	Clock func() time.Time
}

func NewRegistry(deps RegistryDependencies) (*Registry, error) {
	if deps.Fetcher == nil {
		return nil, errors.NewValidationError("fetcher is required")
	}
	if deps.Logger == nil {
		return nil, errors.NewValidationError("logger is required")
	}
	if deps.Metrics == nil {
		return nil, errors.NewValidationError("metrics is required")
	}
	if deps.ConfigProvider == nil {
		return nil, errors.NewValidationError("config provider is required")
	}

	cfg := deps.ConfigProvider.GetWidgetConfig()
	if len(cfg.Cities) == 0 {
		return nil, errors.NewConfigurationError("city catalog is empty", nil)
	}
	if !validation.IsOneOf(cfg.DefaultCity, cfg.Cities) {
		return nil, errors.NewConfigurationError(
			fmt.Sprintf("default city %q is not in the catalog", cfg.DefaultCity), nil)
	}

	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaultIdleRefreshes * cfg.RefreshInterval
	}
	if cfg.IdleTimeout <= 0 {
		return nil, errors.NewConfigurationError("widget idle timeout must be positive", nil)
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Registry{
		widgets:   make(map[string]*mountedWidget),
		fetcher:   deps.Fetcher,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		sweepDone: make(chan struct{}),
		newID:     uuid.NewString,
		now:       clock,
	}
	go r.sweepLoop(sweepInterval(cfg.IdleTimeout))
	return r, nil
}

// IdleTimeout returns how long a widget may go unviewed before it is evicted
func (r *Registry) IdleTimeout() time.Duration {
	return r.config.IdleTimeout
}

// Cities returns the selectable city catalog in display order
func (r *Registry) Cities() []string {
	cities := make([]string, len(r.config.Cities))
	copy(cities, r.config.Cities)
	return cities
}

// DefaultCity returns the city a widget starts on when none is given
func (r *Registry) DefaultCity() string {
	return r.config.DefaultCity
}

// ResolveCity applies the default for an empty city and rejects cities
// outside the catalog.
func (r *Registry) ResolveCity(city string) (string, error) {
	city, ok := validation.TrimAndValidate(city)
	if !ok {
		return r.config.DefaultCity, nil
	}
	for _, c := range r.config.Cities {
		if c == city {
			return c, nil
		}
	}
	return "", errors.NewValidationError(fmt.Sprintf("city %q is not in the catalog", city))
}

// Mount creates and starts a widget for city. The initial fetch begins immediately.
// ctx only bounds the call; the widget itself lives until Unmount or Close.
func (r *Registry) Mount(ctx context.Context, city string) (*Controller, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolved, err := r.ResolveCity(city)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, errors.NewValidationError("widget registry is closed")
	}
	if r.config.MaxInstances > 0 && len(r.widgets) >= r.config.MaxInstances {
		return nil, errors.NewValidationError(
			fmt.Sprintf("maximum number of widgets (%d) reached", r.config.MaxInstances))
	}

	id := r.newID()
	controller, err := NewController(ControllerOptions{
		ID:              id,
		City:            resolved,
		RefreshInterval: r.config.RefreshInterval,
		Fetcher:         r.fetcher,
		Logger:          r.logger,
		Metrics:         r.metrics,
	})
	if err != nil {
		return nil, err
	}

	mounted := &mountedWidget{controller: controller}
	mounted.touch(r.now())
	r.widgets[id] = mounted
	r.metrics.WidgetMounted()
	controller.Start(r.ctx)

	r.logger.Info("Widget mounted",
		ports.F("widget_id", id),
		ports.F("city", resolved))
	return controller, nil
}

// Get returns the widget with the given ID and marks it as seen
func (r *Registry) Get(id string) (*Controller, error) {
	r.mu.RLock()
	mounted, ok := r.widgets[id]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("widget %s not found", id))
	}
	mounted.touch(r.now())
	return mounted.controller, nil
}

// State returns the current view state of a widget
func (r *Registry) State(id string) (ViewState, error) {
	controller, err := r.Get(id)
	if err != nil {
		return ViewState{}, err
	}
	return controller.State(), nil
}

// SelectCity validates city against the catalog and switches the widget to it.
func (r *Registry) SelectCity(id, city string) error {
	controller, err := r.Get(id)
	if err != nil {
		return err
	}

	resolved, err := r.ResolveCity(city)
	if err != nil {
		return err
	}
	return r.translate(id, controller.SelectCity(resolved))
}

// Refresh triggers a manual refresh of a widget
func (r *Registry) Refresh(id string) error {
	controller, err := r.Get(id)
	if err != nil {
		return err
	}
	return r.translate(id, controller.Refresh())
}

// Unmount closes a widget and removes it from the registry.
func (r *Registry) Unmount(id string) error {
	r.mu.Lock()
	mounted, ok := r.widgets[id]
	if ok {
		delete(r.widgets, id)
	}
	r.mu.Unlock()

	if !ok {
		return errors.NewNotFoundError(fmt.Sprintf("widget %s not found", id))
	}

	mounted.controller.Close()
	r.metrics.WidgetUnmounted()
	r.logger.Info("Widget unmounted", ports.F("widget_id", id))
	return nil
}

// Count returns the number of mounted widgets
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.widgets)
}

// Close unmounts every widget. Mount fails afterwards.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	widgets := r.widgets
	r.widgets = make(map[string]*mountedWidget)
	r.mu.Unlock()

	r.cancel()
	<-r.sweepDone
	for _, mounted := range widgets {
		mounted.controller.Close()
		r.metrics.WidgetUnmounted()
	}
	r.logger.Info("Widget registry closed", ports.F("widgets_closed", len(widgets)))
}

// Sweeps run twice per idle timeout and at least once per maxSweepInterval.
func sweepInterval(idle time.Duration) time.Duration {
	return max(min(idle/2, maxSweepInterval), time.Millisecond)
}

func (r *Registry) sweepLoop(interval time.Duration) {
	defer close(r.sweepDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.evictIdle(r.now())
		}
	}
}

// evictIdle unmounts every widget last seen more than IdleTimeout before now
// and returns how many were removed.
func (r *Registry) evictIdle(now time.Time) int {
	cutoff := now.Add(-r.config.IdleTimeout).UnixNano()

	r.mu.Lock()
	idle := make(map[string]*mountedWidget)
	for id, mounted := range r.widgets {
		if mounted.lastSeen.Load() < cutoff {
			idle[id] = mounted
			delete(r.widgets, id)
		}
	}
	r.mu.Unlock()

	for id, mounted := range idle {
		mounted.controller.Close()
		r.metrics.WidgetUnmounted()
		r.logger.Info("Widget evicted after idle timeout",
			ports.F("widget_id", id),
			ports.F("idle", now.Sub(time.Unix(0, mounted.lastSeen.Load())).String()))
	}
	return len(idle)
}

// translate maps a race with Unmount onto the not-found error callers expect.
func (r *Registry) translate(id string, err error) error {
	if err == ErrControllerClosed {
		return errors.NewNotFoundError(fmt.Sprintf("widget %s not found", id))
	}
	return err
}
