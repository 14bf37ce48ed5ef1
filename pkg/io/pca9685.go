package io

import (
	"fmt"
	"sync"

	"github.com/Seann-Moser/ledpin/pkg/led"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/pca9685"
	"periph.io/x/host/v3"
)

const pcaChannels = 16

type pwmWriter interface {
	SetFullOn(channel int) error
	SetFullOff(channel int) error
}

// PCA9685 uses the channels of a PCA9685 PWM board as plain on/off outputs.
// Pins are channel numbers 0-15.
type PCA9685 struct {
	dev        pwmWriter
	bus        i2c.BusCloser
	configured map[led.Pin]bool
	mu         sync.Mutex
}

// NewPCA9685 opens the I2C bus (e.g. "I2C1") and the board at addr, usually
// 0x40.
func NewPCA9685(busName string, addr uint16) (*PCA9685, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	dev, err := pca9685.NewI2C(bus, addr)
	if err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("open pca9685 at %#x: %w", addr, err)
	}
	p := newPCA9685(dev)
	p.bus = bus
	return p, nil
}

func newPCA9685(dev pwmWriter) *PCA9685 {
	return &PCA9685{
		dev:        dev,
		configured: make(map[led.Pin]bool),
	}
}

// ConfigureOutput checks the channel exists and switches it fully off.
func (p *PCA9685) ConfigureOutput(pin led.Pin) error {
	if int(pin) >= pcaChannels {
		return fmt.Errorf("channel %d: %w", pin, ErrUnknownPin)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.configured[pin] {
		return fmt.Errorf("channel %d: %w", pin, ErrPinInUse)
	}
	if err := p.dev.SetFullOff(int(pin)); err != nil {
		return err
	}
	p.configured[pin] = true
	return nil
}

// Write switches the channel fully on or fully off.
func (p *PCA9685) Write(pin led.Pin, level led.Level) error {
	p.mu.Lock()
	ok := p.configured[pin]
	p.mu.Unlock()
	if !ok {
		return fmt.Errorf("channel %d: %w", pin, ErrNotConfigured)
	}
	if level == led.Active {
		return p.dev.SetFullOn(int(pin))
	}
	return p.dev.SetFullOff(int(pin))
}

// Close switches every configured channel off and releases the bus.
func (p *PCA9685) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for pin := range p.configured {
		_ = p.dev.SetFullOff(int(pin))
		delete(p.configured, pin)
	}
	if p.bus == nil {
		return nil
	}
	return p.bus.Close()
}
