package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
backend = "chip"
chip = "gpiochip4"
button = 26
button_led = "green"

[log]
level = "debug"

[[leds]]
name = "red"
pin = 17

[[leds]]
name = "green"
pin = 27
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledpin.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample), nil)
	require.NoError(t, err)

	assert.Equal(t, "chip", cfg.Backend)
	assert.Equal(t, "gpiochip4", cfg.Chip)
	assert.Equal(t, 26, cfg.Button)
	assert.Equal(t, "green", cfg.ButtonLED)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "unset keys keep their default")
	assert.Equal(t, []LED{{"red", 17}, {"green", 27}}, cfg.LEDs)
}

func TestLoadBadFile(t *testing.T) {
	_, err := Load(writeConfig(t, "backend = "), nil)
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "[[leds]]\nname = \"a\"\npin = 1\n[[leds]]\nname = \"a\"\npin = 2\n"), nil)
	assert.ErrorContains(t, err, "listed twice")

	_, err = Load(writeConfig(t, "[[leds]]\nname = \"red\"\npin = 1\n[[leds]]\nname = \"RED\"\npin = 2\n"), nil)
	assert.ErrorContains(t, err, "listed twice", "names are compared ignoring case")

	_, err = Load(writeConfig(t, "[[leds]]\nname = \"front-door\"\npin = 1\n"), nil)
	assert.ErrorContains(t, err, "letters, digits and _")
}

func TestLoadNormalizesNames(t *testing.T) {
	cfg, err := Load(writeConfig(t, "button_led = \"Porch\"\n[[leds]]\nname = \"RED\"\npin = 17\n[[leds]]\nname = \"Porch\"\npin = 27\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, []LED{{"red", 17}, {"porch", 27}}, cfg.LEDs)
	assert.Equal(t, "porch", cfg.ButtonLED)
}

func TestPrecedence(t *testing.T) {
	path := writeConfig(t, sample)
	t.Setenv("LEDPIN_BACKEND", "periph")
	t.Setenv("LEDPIN_CHIP", "gpiochip1")
	t.Setenv("LEDPIN_I2C_ADDR", "0x41")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("backend", "", "")
	flags.String("chip", "", "")
	flags.Int("button", 0, "")
	require.NoError(t, flags.Parse([]string{"--backend", "sim", "--button", "5"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "sim", cfg.Backend, "flag beats env")
	assert.Equal(t, "gpiochip1", cfg.Chip, "env beats file; unset flag ignored")
	assert.Equal(t, 5, cfg.Button)
	assert.Equal(t, uint16(0x41), cfg.I2CAddr)
}

func TestBadEnv(t *testing.T) {
	t.Setenv("LEDPIN_BUTTON", "twenty")
	_, err := Load("", nil)
	assert.Error(t, err)
}
