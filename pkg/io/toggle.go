package io

import (
	"fmt"

	"github.com/Seann-Moser/ledpin/pkg/led"
)

// Write sets a previously configured line high or low.
func (io *IO) Write(pin led.Pin, level led.Level) error {
	io.mu.Lock()
	defer io.mu.Unlock()
	l, ok := io.lines[int(pin)]
	if !ok {
		return fmt.Errorf("line %d: %w", pin, ErrNotConfigured)
	}
	return l.SetValue(levelValue(level))
}

func levelValue(level led.Level) int {
	if level == led.Active {
		return 1
	}
	return 0
}
