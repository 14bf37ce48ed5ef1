// Package led models a single LED wired to a digital output pin.
//
// A Led keeps the last level it wrote in memory and mirrors every change to
// the pin through a Driver, so State never disagrees with the hardware after
// a call returns. Led does no locking of its own; callers that share one
// across goroutines must serialize access.
package led

import (
	"errors"
	"fmt"
)

// ErrNilDriver is returned by New when no driver is supplied.
var ErrNilDriver = errors.New("led: nil driver")

// Pin identifies a hardware output line. How the number maps to a physical
// line is up to the Driver.
type Pin uint8

// Level is the logical level of a pin.
type Level bool

const (
	// Inactive drives the pin low and turns the LED off.
	Inactive Level = false
	// Active drives the pin high and turns the LED on.
	Active Level = true
)

// String returns the string representation of the level.
func (l Level) String() string {
	if l == Active {
		return "active"
	}
	return "inactive"
}

// Invert returns the complementary level.
func (l Level) Invert() Level {
	return !l
}

// Driver is the platform pin-I/O primitive a Led is built on.
type Driver interface {
	// ConfigureOutput puts the pin in output mode. It is called once per Led,
	// before any Write.
	ConfigureOutput(pin Pin) error
	// Write drives the pin to the given level.
	Write(pin Pin, level Level) error
}

// Led is one LED attached to one output pin.
type Led struct {
	driver Driver
	pin    Pin
	state  Level
}

// New configures pin as an output, drives it to the inactive level and
// returns a Led in the Inactive state.
//
// Only one Led should ever be built per physical pin; nothing here enforces
// that.
func New(driver Driver, pin Pin) (*Led, error) {
	if driver == nil {
		return nil, ErrNilDriver
	}
	if err := driver.ConfigureOutput(pin); err != nil {
		return nil, fmt.Errorf("led %d: configure output: %w", pin, err)
	}
	l := &Led{driver: driver, pin: pin}
	if err := l.write(Inactive); err != nil {
		return nil, err
	}
	return l, nil
}

// Pin returns the pin this Led drives.
func (l *Led) Pin() Pin {
	return l.pin
}

// State returns the level last written to the pin. It does not read the
// hardware.
func (l *Led) State() Level {
	return l.state
}

// IsOn reports whether the Led is in the Active state.
func (l *Led) IsOn() bool {
	return l.state == Active
}

// On drives the pin to the active level.
func (l *Led) On() error {
	return l.write(Active)
}

// Off drives the pin to the inactive level.
func (l *Led) Off() error {
	return l.write(Inactive)
}

// Toggle drives the pin to the opposite of the current state.
func (l *Led) Toggle() error {
	return l.write(l.state.Invert())
}

// write is the single place the pin is written. The state only changes once
// the driver has accepted the level.
func (l *Led) write(level Level) error {
	if err := l.driver.Write(l.pin, level); err != nil {
		return fmt.Errorf("led %d: write %s: %w", l.pin, level, err)
	}
	l.state = level
	return nil
}

// String returns a short description of the Led.
func (l *Led) String() string {
	return fmt.Sprintf("led(pin=%d, state=%s)", l.pin, l.state)
}
