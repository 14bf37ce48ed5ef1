// Package config loads settings with the precedence
// flags > LEDPIN_* environment > TOML file > defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/Seann-Moser/ledpin/pkg/command"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "LEDPIN_"

// LED binds a name to an output pin.
type LED struct {
	Name string `toml:"name" json:"name"`
	Pin  uint8  `toml:"pin" json:"pin"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the whole application configuration.
type Config struct {
	Backend   string `toml:"backend"`
	Chip      string `toml:"chip"`
	I2CBus    string `toml:"i2c_bus"`
	I2CAddr   uint16 `toml:"i2c_addr"`
	Addr      string `toml:"addr"`
	Button    int    `toml:"button"`
	ButtonLED string `toml:"button_led"`
	Log       Log    `toml:"log"`
	LEDs      []LED  `toml:"leds"`
}

// Default returns the configuration used when nothing else is set: one
// "status" LED on line 23 driven by the simulated backend.
func Default() Config {
	return Config{
		Backend:   "sim",
		Chip:      "gpiochip0",
		I2CBus:    "I2C1",
		I2CAddr:   0x40,
		Addr:      "0.0.0.0:8080",
		ButtonLED: "status",
		Log:       Log{Level: "info", Format: "text"},
		LEDs:      []LED{{Name: "status", Pin: 23}},
	}
}

// Load reads path on top of the defaults, then applies the environment and
// any flags the user set explicitly. A missing file is not an error.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to parse TOML config: %w", err)
			}
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	if flags != nil {
		cfg.applyFlags(flags)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	cfg.normalize()
	return cfg, nil
}

// normalize lower-cases LED names so they match protocol lines.
func (c *Config) normalize() {
	for i := range c.LEDs {
		c.LEDs[i].Name = command.NormalizeName(c.LEDs[i].Name)
	}
	c.ButtonLED = command.NormalizeName(c.ButtonLED)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"BACKEND":    &c.Backend,
		"CHIP":       &c.Chip,
		"I2C_BUS":    &c.I2CBus,
		"ADDR":       &c.Addr,
		"BUTTON_LED": &c.ButtonLED,
		"LOG_LEVEL":  &c.Log.Level,
		"LOG_FORMAT": &c.Log.Format,
	}
	for key, dst := range strs {
		if v, ok := lookup(envPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	if v, ok := lookup(envPrefix + "BUTTON"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sBUTTON: %w", envPrefix, err)
		}
		c.Button = n
	}
	if v, ok := lookup(envPrefix + "I2C_ADDR"); ok && v != "" {
		n, err := strconv.ParseUint(v, 0, 16)
		if err != nil {
			return fmt.Errorf("%sI2C_ADDR: %w", envPrefix, err)
		}
		c.I2CAddr = uint16(n)
	}
	return nil
}

// applyFlags copies flags that were set on the command line. Flag names
// match the TOML keys with "-" for "_", and log.level becomes log-level.
func (c *Config) applyFlags(flags *pflag.FlagSet) {
	strs := map[string]*string{
		"backend":    &c.Backend,
		"chip":       &c.Chip,
		"i2c-bus":    &c.I2CBus,
		"addr":       &c.Addr,
		"button-led": &c.ButtonLED,
		"log-level":  &c.Log.Level,
		"log-format": &c.Log.Format,
	}
	flags.Visit(func(f *pflag.Flag) {
		if dst, ok := strs[f.Name]; ok {
			*dst = f.Value.String()
			return
		}
		switch f.Name {
		case "button":
			if n, err := strconv.Atoi(f.Value.String()); err == nil {
				c.Button = n
			}
		case "i2c-addr":
			if n, err := strconv.ParseUint(f.Value.String(), 0, 16); err == nil {
				c.I2CAddr = uint16(n)
			}
		}
	})
}

// Validate checks the LED table. Names must be set, use only letters,
// digits and underscores, and be unique ignoring case.
func (c Config) Validate() error {
	if len(c.LEDs) == 0 {
		return errors.New("config: no leds configured")
	}
	seen := make(map[string]bool, len(c.LEDs))
	for i, l := range c.LEDs {
		if l.Name == "" {
			return fmt.Errorf("config: leds[%d] has no name", i)
		}
		if !command.ValidName(l.Name) {
			return fmt.Errorf("config: led name %q may only contain letters, digits and _", l.Name)
		}
		name := command.NormalizeName(l.Name)
		if seen[name] {
			return fmt.Errorf("config: led %q listed twice", l.Name)
		}
		seen[name] = true
	}
	return nil
}
