// Package command parses the LED line protocol spoken over a serial link:
//
//	LED_RED:0
//	LED_GREEN:1
//	LED_STATUS:T
//	LED_STATUS:?
//
// 0 turns the LED off, 1 turns it on, T toggles it and ? asks for its state.
package command

import (
	"errors"
	"fmt"
	"strings"
)

const prefix = "LED_"

var (
	// ErrSyntax means the line is not of the form LED_<NAME>:<VALUE>.
	ErrSyntax = errors.New("command: syntax error")
	// ErrBadValue means the value after the colon is not 0, 1, T or ?.
	ErrBadValue = errors.New("command: bad value")
)

// Action is what a command does to an LED.
type Action int

const (
	Off Action = iota
	On
	Toggle
	Query
)

var actionNames = map[Action]string{
	Off:    "off",
	On:     "on",
	Toggle: "toggle",
	Query:  "query",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction accepts the action names used by the CLI and the HTTP API.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "0":
		return Off, nil
	case "on", "1":
		return On, nil
	case "toggle", "t":
		return Toggle, nil
	case "query", "state", "?":
		return Query, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadValue, s)
}

// Command is one parsed protocol line. Name is lower case.
type Command struct {
	Name   string
	Action Action
}

// Parse reads one line. Surrounding whitespace is ignored and the name is
// case-insensitive.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if len(line) < len(prefix) || !strings.EqualFold(line[:len(prefix)], prefix) {
		return Command{}, fmt.Errorf("%w: %q", ErrSyntax, line)
	}
	name, value, ok := strings.Cut(line[len(prefix):], ":")
	if !ok || !ValidName(name) {
		return Command{}, fmt.Errorf("%w: %q", ErrSyntax, line)
	}
	var a Action
	switch strings.TrimSpace(value) {
	case "0":
		a = Off
	case "1":
		a = On
	case "T", "t":
		a = Toggle
	case "?":
		a = Query
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrBadValue, value)
	}
	return Command{Name: NormalizeName(name), Action: a}, nil
}

// ValidName reports whether name can be carried in a protocol line: ASCII
// letters, digits and underscores only.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

// NormalizeName returns the form LED names are matched in.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// String renders the command in wire form.
func (c Command) String() string {
	var v string
	switch c.Action {
	case Off:
		v = "0"
	case On:
		v = "1"
	case Toggle:
		v = "T"
	default:
		v = "?"
	}
	return prefix + strings.ToUpper(c.Name) + ":" + v
}
