package widget

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"clima.app/internal/core/weather"
	"clima.app/internal/ports"
	"clima.app/pkg/errors"
)

// DefaultRefreshInterval is used when no interval is configured
const DefaultRefreshInterval = 5 * time.Minute

// ErrControllerClosed is returned by triggers sent to a closed controller
var ErrControllerClosed = stderrors.New("widget controller is closed")

// Fetcher retrieves one snapshot per call
type Fetcher interface {
	GetWeather(ctx context.Context, request weather.WeatherRequest) (*weather.Snapshot, error)
}

// Trigger names the cause of a fetch
type Trigger string

const (
	TriggerMount   Trigger = "mount"
	TriggerCity    Trigger = "city_change"
	TriggerRefresh Trigger = "manual_refresh"
	TriggerTick    Trigger = "tick"
)

type ControllerOptions struct {
	ID              string
	City            string
	RefreshInterval time.Duration
	Fetcher         Fetcher
	Logger          ports.Logger
	Metrics         ports.FetchMetrics
	// OnChange is invoked from the controller goroutine after every state
	// change. It must not call Close.
	OnChange func(ViewState)
}

func (o ControllerOptions) Validate() error {
	if o.City == "" {
		return errors.NewValidationError("city is required")
	}
	if o.Fetcher == nil {
		return errors.NewValidationError("fetcher is required")
	}
	if o.Logger == nil {
		return errors.NewValidationError("logger is required")
	}
	if o.Metrics == nil {
		return errors.NewValidationError("metrics is required")
	}
	if o.RefreshInterval < 0 {
		return errors.NewValidationError("refresh interval cannot be negative")
	}
	return nil
}

// ticker is the subset of time.Ticker the controller needs
type ticker interface {
	C() <-chan time.Time
	Reset(d time.Duration)
	Stop()
}

type timeTicker struct{ *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.Ticker.C }

func newTimeTicker(d time.Duration) ticker { return timeTicker{time.NewTicker(d)} }

type triggerEvent struct {
	trigger Trigger
	city    string
}

type fetchResult struct {
	generation uint64
	city       string
	snapshot   *weather.Snapshot
	err        error
}

// Controller owns one widget's ViewState. All state changes happen on a single
// goroutine; only the result of the most recently started fetch is applied.
type Controller struct {
	id        string
	interval  time.Duration
	fetcher   Fetcher
	logger    ports.Logger
	metrics   ports.FetchMetrics
	onChange  func(ViewState)
	newTicker func(time.Duration) ticker

	triggers chan triggerEvent
	results  chan fetchResult
	queries  chan chan ViewState

	startOnce sync.Once
	closeOnce sync.Once
	done      chan struct{}
	stopped   chan struct{}

	// final is written by the loop before stopped is closed
	final ViewState
}

func NewController(opts ControllerOptions) (*Controller, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	interval := opts.RefreshInterval
	if interval == 0 {
		interval = DefaultRefreshInterval
	}

	return &Controller{
		id:        opts.ID,
		interval:  interval,
		fetcher:   opts.Fetcher,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		onChange:  opts.OnChange,
		newTicker: newTimeTicker,
		triggers:  make(chan triggerEvent),
		results:   make(chan fetchResult),
		queries:   make(chan chan ViewState),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
		final:     NewViewState(opts.City),
	}, nil
}

// ID returns the widget identifier
func (c *Controller) ID() string {
	return c.id
}

// Start launches the controller loop and the initial fetch. Cancelling ctx has
// the same effect as Close. Calling Start more than once has no effect.
func (c *Controller) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		go c.run(ctx, c.final)
	})
}

// SelectCity switches the widget to city and fetches it immediately.
func (c *Controller) SelectCity(city string) error {
	return c.send(triggerEvent{trigger: TriggerCity, city: city})
}

// Refresh re-fetches the currently selected city.
func (c *Controller) Refresh() error {
	return c.send(triggerEvent{trigger: TriggerRefresh})
}

// State returns a copy of the current view state. After Close it returns the
// last state the controller held. It must not be called before Start or Close.
func (c *Controller) State() ViewState {
	reply := make(chan ViewState, 1)
	select {
	case c.queries <- reply:
		return <-reply
	case <-c.stopped:
		return c.final
	}
}

// Close stops the ticker, cancels any in-flight fetch and waits for the loop
// to exit. No state change or OnChange call happens once Close returns.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	c.startOnce.Do(func() {
		close(c.stopped)
	})
	<-c.stopped
}

func (c *Controller) send(ev triggerEvent) error {
	select {
	case <-c.done:
		return ErrControllerClosed
	default:
	}

	select {
	case c.triggers <- ev:
		return nil
	case <-c.done:
		return ErrControllerClosed
	case <-c.stopped:
		return ErrControllerClosed
	}
}

func (c *Controller) closing() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Controller) run(ctx context.Context, state ViewState) {
	var (
		generation  uint64
		cancelFetch context.CancelFunc = func() {}
	)

	tick := c.newTicker(c.interval)
	defer func() {
		tick.Stop()
		cancelFetch()
		c.final = state
		close(c.stopped)
	}()

	startFetch := func(trigger Trigger) {
		cancelFetch()
		generation++

		var fetchCtx context.Context
		fetchCtx, cancelFetch = context.WithCancel(ctx)

		c.logger.Debug("Starting weather fetch",
			ports.F("widget_id", c.id),
			ports.F("city", state.SelectedCity),
			ports.F("trigger", string(trigger)),
			ports.F("generation", generation))

		go c.fetch(fetchCtx, generation, state.SelectedCity)
	}

	c.logger.Info("Widget controller started",
		ports.F("widget_id", c.id),
		ports.F("city", state.SelectedCity),
		ports.F("refresh_interval", c.interval.String()))
	c.notify(state)
	startFetch(TriggerMount)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Widget controller stopped by context", ports.F("widget_id", c.id))
			return

		case <-c.done:
			c.logger.Info("Widget controller closed", ports.F("widget_id", c.id))
			return

		case reply := <-c.queries:
			reply <- state

		case <-tick.C():
			if c.closing() {
				return
			}
			state = BeginFetch(state)
			c.notify(state)
			startFetch(TriggerTick)

		case ev := <-c.triggers:
			if c.closing() {
				return
			}
			switch ev.trigger {
			case TriggerCity:
				state = SelectCity(state, ev.city)
				// a new city gets a full interval before the next automatic refresh
				tick.Reset(c.interval)
			default:
				state = BeginFetch(state)
			}
			c.notify(state)
			startFetch(ev.trigger)

		case res := <-c.results:
			if c.closing() {
				return
			}
			if res.generation != generation {
				c.metrics.RecordStaleResult()
				c.logger.Debug("Dropping superseded weather result",
					ports.F("widget_id", c.id),
					ports.F("city", res.city),
					ports.F("generation", res.generation),
					ports.F("current_generation", generation))
				continue
			}

			if res.err != nil {
				c.logger.Warn("Weather fetch failed",
					ports.F("widget_id", c.id),
					ports.F("city", res.city),
					ports.F("error", res.err))
				state = ApplyFailure(state, res.err)
			} else {
				state = ApplySnapshot(state, res.snapshot)
			}
			c.notify(state)
		}
	}
}

func (c *Controller) fetch(ctx context.Context, generation uint64, city string) {
	snapshot, err := c.fetcher.GetWeather(ctx, weather.WeatherRequest{City: city})

	select {
	case c.results <- fetchResult{generation: generation, city: city, snapshot: snapshot, err: err}:
	case <-c.stopped:
	}
}

func (c *Controller) notify(state ViewState) {
	if c.onChange != nil {
		c.onChange(state)
	}
}
