package io

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Seann-Moser/ledpin/pkg/led"
	"github.com/warthog618/go-gpiocdev"
)

// line is the part of *gpiocdev.Line the chip backend uses.
type line interface {
	SetValue(value int) error
	Reconfigure(options ...gpiocdev.LineConfigOption) error
	Close() error
}

type requestFunc func(offset int, options ...gpiocdev.LineReqOption) (line, error)

// IO drives output lines of a Linux GPIO character device
// (/dev/gpiochipN). Pins are line offsets on that chip.
type IO struct {
	chip    *gpiocdev.Chip
	request requestFunc
	lines   map[int]line
	buttons []*Button
	mu      sync.Mutex
	logger  *slog.Logger
}

// New opens the named chip, e.g. "gpiochip0". consumer labels the lines
// this process requests.
func New(chipset, consumer string, logger *slog.Logger) (*IO, error) {
	c, err := gpiocdev.NewChip(chipset, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("open chip %s: %w", chipset, err)
	}
	info, err := c.LineInfo(0)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("read line info on %s: %w", chipset, err)
	}
	logger.Debug("opened gpio chip", "chip", c.Name, "label", c.Label, "lines", c.Lines(), "line0", info.Name)

	io := newIO(func(offset int, options ...gpiocdev.LineReqOption) (line, error) {
		return c.RequestLine(offset, options...)
	}, logger)
	io.chip = c
	return io, nil
}

func newIO(request requestFunc, logger *slog.Logger) *IO {
	return &IO{
		request: request,
		lines:   make(map[int]line),
		logger:  logger,
	}
}

// ConfigureOutput requests the line as an output driven low.
func (io *IO) ConfigureOutput(pin led.Pin) error {
	io.mu.Lock()
	defer io.mu.Unlock()
	offset := int(pin)
	if _, ok := io.lines[offset]; ok {
		return fmt.Errorf("line %d: %w", offset, ErrPinInUse)
	}
	l, err := io.request(offset, gpiocdev.AsOutput(0))
	if err != nil {
		return fmt.Errorf("request line %d: %w", offset, err)
	}
	io.lines[offset] = l
	io.logger.Debug("line configured as output", "line", offset)
	return nil
}

// Close drives every output line low, hands it back as an input and closes
// the chip.
func (io *IO) Close() error {
	io.mu.Lock()
	defer io.mu.Unlock()
	for offset, l := range io.lines {
		_ = l.SetValue(0)
		_ = l.Reconfigure(gpiocdev.AsInput)
		if err := l.Close(); err != nil {
			io.logger.Warn("failed to close line", "line", offset, "error", err)
		}
		delete(io.lines, offset)
	}
	for _, b := range io.buttons {
		b.close()
	}
	io.buttons = nil
	if io.chip == nil {
		return nil
	}
	return io.chip.Close()
}
