package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"LED_RED:0", Command{"red", Off}},
		{"LED_GREEN:1", Command{"green", On}},
		{"  LED_STATUS:T\r\n", Command{"status", Toggle}},
		{"led_status:t", Command{"status", Toggle}},
		{"LED_PANEL_2:?", Command{"panel_2", Query}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{"", ErrSyntax},
		{"SET_ENC:4", ErrSyntax},
		{"LED_RED", ErrSyntax},
		{"LED_:1", ErrSyntax},
		{"LED_RE D:1", ErrSyntax},
		{"LED_RED:2", ErrBadValue},
		{"LED_RED:", ErrBadValue},
		{"LED_RED:on", ErrBadValue},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := Parse(tt.line)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "LED_RED:0", Command{"red", Off}.String())
	assert.Equal(t, "LED_GREEN:1", Command{"green", On}.String())
	assert.Equal(t, "LED_STATUS:T", Command{"status", Toggle}.String())
	assert.Equal(t, "LED_STATUS:?", Command{"status", Query}.String())

	c, err := Parse(Command{"panel_2", Toggle}.String())
	require.NoError(t, err)
	assert.Equal(t, Command{"panel_2", Toggle}, c)
}

func TestParseAction(t *testing.T) {
	for in, want := range map[string]Action{
		"on": On, "ON": On, "1": On,
		"off": Off, "0": Off,
		"toggle": Toggle, "T": Toggle,
		"state": Query, "?": Query,
	} {
		got, err := ParseAction(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseAction("blink")
	assert.ErrorIs(t, err, ErrBadValue)
	assert.Equal(t, "toggle", Toggle.String())
}
