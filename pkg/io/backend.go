// Package io implements led.Driver on real and simulated GPIO hardware.
package io

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Seann-Moser/ledpin/pkg/led"
)

var (
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown backend")
	// ErrUnknownPin means the backend has no pin with that number.
	ErrUnknownPin = errors.New("unknown pin")
	// ErrPinInUse means the pin was already configured as an output.
	ErrPinInUse = errors.New("pin already in use")
	// ErrNotConfigured means Write was called before ConfigureOutput.
	ErrNotConfigured = errors.New("pin not configured as output")
)

// Backend names accepted by Open.
const (
	BackendChip    = "chip"
	BackendGobot   = "gobot"
	BackendPeriph  = "periph"
	BackendPCA9685 = "pca9685"
	BackendSim     = "sim"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendChip, BackendGobot, BackendPeriph, BackendPCA9685, BackendSim}

// Backend is a led.Driver that holds hardware resources until closed.
type Backend interface {
	led.Driver
	Close() error
}

// BackendConfig selects and parameterizes a backend.
type BackendConfig struct {
	Name     string
	Chip     string
	Consumer string
	I2CBus   string
	I2CAddr  uint16
}

// Open returns the backend named in cfg.
func Open(cfg BackendConfig, logger *slog.Logger) (Backend, error) {
	logger = logger.With("backend", cfg.Name)
	switch cfg.Name {
	case BackendChip:
		c, err := New(cfg.Chip, cfg.Consumer, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendGobot:
		return NewGobot(), nil
	case BackendPeriph:
		p, err := NewPeriph()
		if err != nil {
			return nil, err
		}
		return p, nil
	case BackendPCA9685:
		p, err := NewPCA9685(cfg.I2CBus, cfg.I2CAddr)
		if err != nil {
			return nil, err
		}
		return p, nil
	case BackendSim:
		return NewSim(logger), nil
	default:
		return nil, fmt.Errorf("%q: %w", cfg.Name, ErrUnknownBackend)
	}
}
