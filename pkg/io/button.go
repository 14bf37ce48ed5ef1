package io

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// glitch is the shortest press reported; anything quicker is contact noise.
const glitch = 10 * time.Millisecond

// Button watches a push button wired between an input line and ground.
type Button struct {
	offset  int
	pressed bool
	start   time.Time
	now     func() time.Time
	line    line
	Event   chan ButtonEvent
}

// ButtonEvent is sent when the button is released.
type ButtonEvent struct {
	Offset   int
	Duration time.Duration
}

func newButton(offset int) *Button {
	return &Button{
		offset: offset,
		now:    time.Now,
		Event:  make(chan ButtonEvent, 8),
	}
}

// eventHandler runs on the gpiocdev watcher goroutine. The line is pulled
// up, so a falling edge is a press and a rising edge a release.
func (b *Button) eventHandler(evt gpiocdev.LineEvent) {
	pressed := evt.Type == gpiocdev.LineEventFallingEdge
	if pressed == b.pressed {
		return
	}
	b.pressed = pressed
	if pressed {
		b.start = b.now()
		return
	}
	if b.start.IsZero() {
		return
	}
	d := b.now().Sub(b.start)
	b.start = time.Time{}
	if d < glitch {
		return
	}
	select {
	case b.Event <- ButtonEvent{Offset: b.offset, Duration: d}:
	default:
	}
}

func (b *Button) close() {
	if b.line != nil {
		_ = b.line.Close()
	}
}

// WatchButton requests lineOffset as a pulled-up input and reports each
// press on the returned Button's Event channel.
func (io *IO) WatchButton(lineOffset int) (*Button, error) {
	b := newButton(lineOffset)
	l, err := io.request(lineOffset,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(b.eventHandler),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to request GPIO line: %w", err)
	}
	b.line = l
	io.mu.Lock()
	io.buttons = append(io.buttons, b)
	io.mu.Unlock()
	return b, nil
}
