package controller

import (
	"github.com/Seann-Moser/ledpin/pkg/command"
	"github.com/Seann-Moser/ledpin/pkg/led"
	"github.com/kelindar/event"
)

const typeStateChanged uint32 = iota + 1

// StateChanged is published after every successful on, off or toggle.
type StateChanged struct {
	Name   string
	Pin    led.Pin
	Action command.Action
	State  led.Level
}

// Type returns the event type identifier for StateChanged.
func (StateChanged) Type() uint32 { return typeStateChanged }

// Subscribe calls fn for every state change. Delivery is asynchronous and
// in order. The returned function unsubscribes.
func (c *Controller) Subscribe(fn func(StateChanged)) func() {
	return event.Subscribe(c.events, fn)
}
