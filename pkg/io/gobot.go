package io

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/Seann-Moser/ledpin/pkg/led"
	"gobot.io/x/gobot/platforms/raspi"
)

type gobotAdaptor interface {
	Connect() error
	Finalize() error
	DigitalWrite(pin string, val byte) error
}

// Gobot drives Raspberry Pi header pins through the gobot raspi adaptor.
// Pins are physical header numbers (1-40), not BCM numbers.
type Gobot struct {
	adaptor    gobotAdaptor
	connect    sync.Once
	connErr    error
	connected  bool
	configured map[led.Pin]bool
	mu         sync.Mutex
}

// NewGobot returns a backend on a fresh raspi adaptor. The adaptor connects
// on the first ConfigureOutput.
func NewGobot() *Gobot {
	return newGobot(raspi.NewAdaptor())
}

func newGobot(a gobotAdaptor) *Gobot {
	return &Gobot{adaptor: a, configured: make(map[led.Pin]bool)}
}

// ConfigureOutput connects the adaptor if needed. gobot switches a header
// pin to output on its first DigitalWrite, which led.New issues right after.
func (g *Gobot) ConfigureOutput(pin led.Pin) error {
	g.connect.Do(func() {
		g.connErr = g.adaptor.Connect()
		g.connected = g.connErr == nil
	})
	if g.connErr != nil {
		return fmt.Errorf("connect raspi adaptor: %w", g.connErr)
	}
	if pin == 0 {
		return fmt.Errorf("header pin %d: %w", pin, ErrUnknownPin)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.configured[pin] {
		return fmt.Errorf("header pin %d: %w", pin, ErrPinInUse)
	}
	g.configured[pin] = true
	return nil
}

// Write sets the header pin high or low.
func (g *Gobot) Write(pin led.Pin, level led.Level) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.configured[pin] {
		return fmt.Errorf("header pin %d: %w", pin, ErrNotConfigured)
	}
	return g.adaptor.DigitalWrite(strconv.Itoa(int(pin)), byte(levelValue(level)))
}

// Close finalizes the adaptor, releasing its pins.
func (g *Gobot) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	clear(g.configured)
	if !g.connected {
		return nil
	}
	return g.adaptor.Finalize()
}
