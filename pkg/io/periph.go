package io

import (
	"fmt"
	"sync"

	"github.com/Seann-Moser/ledpin/pkg/led"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Periph drives host GPIO pins registered with periph.io. Pins are BCM
// numbers and resolve to the "GPIO<n>" names periph registers.
type Periph struct {
	lookup func(name string) gpio.PinIO
	pins   map[led.Pin]gpio.PinIO
	mu     sync.Mutex
}

// NewPeriph loads the periph host drivers.
func NewPeriph() (*Periph, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}
	return newPeriph(gpioreg.ByName), nil
}

func newPeriph(lookup func(string) gpio.PinIO) *Periph {
	return &Periph{
		lookup: lookup,
		pins:   make(map[led.Pin]gpio.PinIO),
	}
}

// ConfigureOutput resolves the pin and drives it low.
func (p *Periph) ConfigureOutput(pin led.Pin) error {
	name := fmt.Sprintf("GPIO%d", pin)
	gp := p.lookup(name)
	if gp == nil {
		return fmt.Errorf("%s: %w", name, ErrUnknownPin)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.pins[pin]; ok {
		return fmt.Errorf("%s: %w", name, ErrPinInUse)
	}
	if err := gp.Out(gpio.Low); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	p.pins[pin] = gp
	return nil
}

// Write sets the pin high or low.
func (p *Periph) Write(pin led.Pin, level led.Level) error {
	p.mu.Lock()
	gp, ok := p.pins[pin]
	p.mu.Unlock()
	if !ok {
		return fmt.Errorf("GPIO%d: %w", pin, ErrNotConfigured)
	}
	return gp.Out(gpio.Level(level))
}

// Close halts every configured pin.
func (p *Periph) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for pin, gp := range p.pins {
		_ = gp.Halt()
		delete(p.pins, pin)
	}
	return nil
}
