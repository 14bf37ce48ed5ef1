package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Seann-Moser/ledpin/pkg/command"
	"github.com/Seann-Moser/ledpin/pkg/config"
	"github.com/Seann-Moser/ledpin/pkg/io"
	"github.com/Seann-Moser/ledpin/pkg/led"
	"github.com/kelindar/event"
)

var (
	// ErrUnknownLED is returned for a name that is not configured.
	ErrUnknownLED = errors.New("unknown led")
	// ErrDuplicateLED is returned when two LEDs share a name or a pin.
	ErrDuplicateLED = errors.New("duplicate led")
)

// longPress is how long the button must be held to switch its LED off
// instead of toggling it.
const longPress = 2 * time.Second

// Status is the state of one named LED.
type Status struct {
	Name  string  `json:"name"`
	Pin   led.Pin `json:"pin"`
	State string  `json:"state"`
	On    bool    `json:"on"`
}

// Command returns the protocol line that reproduces this status.
func (s Status) Command() command.Command {
	a := command.Off
	if s.On {
		a = command.On
	}
	return command.Command{Name: s.Name, Action: a}
}

// Controller owns a set of named LEDs and serializes every operation on
// them. HTTP handlers, the button loop and the line reader all go through
// it.
type Controller struct {
	mu        sync.Mutex
	leds      map[string]*led.Led
	names     []string
	buttonLED string

	events      *event.Dispatcher
	unsubscribe func()
	metrics     *metrics
	logger      *slog.Logger
}

// New builds one Led per configured entry on driver. Every LED starts off.
// Names are matched case-insensitively and must be valid protocol names.
func New(driver led.Driver, cfg config.Config, logger *slog.Logger) (*Controller, error) {
	c := &Controller{
		leds:      make(map[string]*led.Led, len(cfg.LEDs)),
		buttonLED: command.NormalizeName(cfg.ButtonLED),
		events:    event.NewDispatcher(),
		metrics:   newMetrics(),
		logger:    logger,
	}
	pins := make(map[uint8]string, len(cfg.LEDs))
	for _, lc := range cfg.LEDs {
		if !command.ValidName(lc.Name) {
			return nil, fmt.Errorf("%w: led name %q", command.ErrSyntax, lc.Name)
		}
		lc.Name = command.NormalizeName(lc.Name)
		if _, ok := c.leds[lc.Name]; ok {
			return nil, fmt.Errorf("%w: name %q", ErrDuplicateLED, lc.Name)
		}
		if other, ok := pins[lc.Pin]; ok {
			return nil, fmt.Errorf("%w: %q and %q both use pin %d", ErrDuplicateLED, other, lc.Name, lc.Pin)
		}
		l, err := led.New(driver, led.Pin(lc.Pin))
		if err != nil {
			return nil, fmt.Errorf("led %q: %w", lc.Name, err)
		}
		pins[lc.Pin] = lc.Name
		c.leds[lc.Name] = l
		c.names = append(c.names, lc.Name)
		c.metrics.observe(lc.Name, l.State())
		logger.Info("led ready", "led", lc.Name, "pin", lc.Pin)
	}
	sort.Strings(c.names)
	c.unsubscribe = c.Subscribe(c.record)
	return c, nil
}

// record keeps metrics and the debug log in step with published changes.
func (c *Controller) record(e StateChanged) {
	c.metrics.writes.WithLabelValues(e.Name, e.Action.String()).Inc()
	c.metrics.observe(e.Name, e.State)
	c.logger.Debug("led changed", "led", e.Name, "action", e.Action.String(), "state", e.State.String())
}

// Set applies a to the named LED and returns its new status. Query only
// reports the status.
func (c *Controller) Set(name string, a command.Action) (Status, error) {
	name = command.NormalizeName(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.leds[name]
	if !ok {
		return Status{}, fmt.Errorf("%w: %q", ErrUnknownLED, name)
	}
	var err error
	switch a {
	case command.On:
		err = l.On()
	case command.Off:
		err = l.Off()
	case command.Toggle:
		err = l.Toggle()
	case command.Query:
		return status(name, l), nil
	default:
		return Status{}, fmt.Errorf("%w: %v", command.ErrBadValue, a)
	}
	if err != nil {
		c.metrics.failures.WithLabelValues(name).Inc()
		c.logger.Error("led write failed", "led", name, "action", a.String(), "error", err)
		return status(name, l), err
	}
	event.Publish(c.events, StateChanged{Name: name, Pin: l.Pin(), Action: a, State: l.State()})
	return status(name, l), nil
}

// Status returns the state of one LED.
func (c *Controller) Status(name string) (Status, error) {
	return c.Set(name, command.Query)
}

// List returns every LED sorted by name.
func (c *Controller) List() []Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Status, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, status(name, c.leds[name]))
	}
	return out
}

// Apply runs a parsed protocol command.
func (c *Controller) Apply(cmd command.Command) (Status, error) {
	return c.Set(cmd.Name, cmd.Action)
}

// ApplyLine parses and runs one protocol line.
func (c *Controller) ApplyLine(line string) (Status, error) {
	cmd, err := command.Parse(line)
	if err != nil {
		return Status{}, err
	}
	return c.Apply(cmd)
}

func status(name string, l *led.Led) Status {
	return Status{Name: name, Pin: l.Pin(), State: l.State().String(), On: l.IsOn()}
}

// Run drives the button LED from button presses until ctx is done. A short
// press toggles the LED, a long press turns it off.
func (c *Controller) Run(ctx context.Context, button *io.Button) {
	if button == nil {
		<-ctx.Done()
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case b := <-button.Event:
			a := command.Toggle
			if b.Duration > longPress {
				a = command.Off
			}
			c.logger.Debug("button released", "line", b.Offset, "held", b.Duration, "action", a.String())
			if _, err := c.Set(c.buttonLED, a); err != nil {
				c.logger.Warn("button action failed", "led", c.buttonLED, "error", err)
			}
		}
	}
}

// Close stops event delivery.
func (c *Controller) Close() {
	c.unsubscribe()
	c.events.Close()
}
