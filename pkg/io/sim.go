package io

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Seann-Moser/ledpin/pkg/led"
)

// Write is one level change recorded by Sim.
type Write struct {
	Pin   led.Pin
	Level led.Level
}

// Sim is an in-memory backend for machines without GPIO. It remembers every
// write and logs it at debug level.
type Sim struct {
	mu         sync.Mutex
	configured map[led.Pin]bool
	levels     map[led.Pin]led.Level
	writes     []Write
	logger     *slog.Logger
}

// NewSim returns an empty simulated backend.
func NewSim(logger *slog.Logger) *Sim {
	return &Sim{
		configured: make(map[led.Pin]bool),
		levels:     make(map[led.Pin]led.Level),
		logger:     logger,
	}
}

func (s *Sim) ConfigureOutput(pin led.Pin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.configured[pin] {
		return fmt.Errorf("pin %d: %w", pin, ErrPinInUse)
	}
	s.configured[pin] = true
	s.logger.Debug("sim pin configured as output", "pin", pin)
	return nil
}

func (s *Sim) Write(pin led.Pin, level led.Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.configured[pin] {
		return fmt.Errorf("pin %d: %w", pin, ErrNotConfigured)
	}
	s.levels[pin] = level
	s.writes = append(s.writes, Write{Pin: pin, Level: level})
	s.logger.Debug("sim pin write", "pin", pin, "level", level.String())
	return nil
}

// Level returns the last level written to pin.
func (s *Sim) Level(pin led.Pin) led.Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.levels[pin]
}

// Configured reports whether pin was put in output mode.
func (s *Sim) Configured(pin led.Pin) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.configured[pin]
}

// Writes returns a copy of every write in order.
func (s *Sim) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Write, len(s.writes))
	copy(out, s.writes)
	return out
}

func (s *Sim) Close() error {
	return nil
}
