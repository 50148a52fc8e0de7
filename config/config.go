// Package config loads the shield program's settings from TOML.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// DefaultDebounce is the debounce delay of a key that does not set one
const DefaultDebounce = 200 * time.Millisecond

// Duration is a time.Duration written as a Go duration string ("200ms")
type Duration time.Duration

// MarshalText writes d as a Go duration string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText parses a Go duration string such as "200ms"
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns d as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the complete shield program configuration
type Config struct {
	Tick       Duration    `toml:"tick"`
	CycleDwell Duration    `toml:"cycle_dwell"`
	Capacity   int         `toml:"capacity"`
	StrictLoop bool        `toml:"strict_loop"`
	Log        LogConfig   `toml:"log"`
	LEDs       []LEDConfig `toml:"leds"`
	Keys       []KeyConfig `toml:"keys"`
	Pot        PotConfig   `toml:"pot"`
	Buzzer     bool        `toml:"buzzer"`
}

// fileConfig mirrors Config with optional fields so a file only overrides
// the keys it sets
type fileConfig struct {
	Tick       *Duration   `toml:"tick"`
	CycleDwell *Duration   `toml:"cycle_dwell"`
	Capacity   *int        `toml:"capacity"`
	StrictLoop *bool       `toml:"strict_loop"`
	Log        *LogConfig  `toml:"log"`
	LEDs       []LEDConfig `toml:"leds"`
	Keys       []fileKey   `toml:"keys"`
	Pot        *PotConfig  `toml:"pot"`
	Buzzer     *bool       `toml:"buzzer"`
}

// fileKey leaves Debounce nil when the file omits it, so it can take the
// default delay
type fileKey struct {
	Pin      uint8     `toml:"pin"`
	Debounce *Duration `toml:"debounce"`
}

func (f fileConfig) apply(c *Config) {
	if f.Tick != nil {
		c.Tick = *f.Tick
	}
	if f.CycleDwell != nil {
		c.CycleDwell = *f.CycleDwell
	}
	if f.Capacity != nil {
		c.Capacity = *f.Capacity
	}
	if f.StrictLoop != nil {
		c.StrictLoop = *f.StrictLoop
	}
	if f.Log != nil {
		c.Log = *f.Log
	}
	if f.LEDs != nil {
		c.LEDs = f.LEDs
	}
	if f.Keys != nil {
		c.Keys = make([]KeyConfig, len(f.Keys))
		for i, k := range f.Keys {
			c.Keys[i] = KeyConfig{Pin: k.Pin, Debounce: Duration(DefaultDebounce)}
			if k.Debounce != nil {
				c.Keys[i].Debounce = *k.Debounce
			}
		}
	}
	if f.Pot != nil {
		c.Pot = *f.Pot
	}
	if f.Buzzer != nil {
		c.Buzzer = *f.Buzzer
	}
}

// LogConfig configures the program's logger
type LogConfig struct {
	Level string `toml:"level"`
}

// LEDConfig places an LED on a PWM pin. Color is used for display only.
type LEDConfig struct {
	Pin   uint8  `toml:"pin"`
	Color string `toml:"color"`
}

// KeyConfig places a push button on a digital pin
type KeyConfig struct {
	Pin      uint8    `toml:"pin"`
	Debounce Duration `toml:"debounce"`
}

// PotConfig places the potentiometer on an analog pin
type PotConfig struct {
	Pin uint8 `toml:"pin"`
}

// Default returns the configuration of the stock shield: three LEDs on the
// PWM pins 9-11, two keys on 2 and 3 and the potentiometer on A0
func Default() Config {
	return Config{
		Tick:       Duration(10 * time.Millisecond),
		CycleDwell: Duration(300 * time.Millisecond),
		Capacity:   128,
		Log:        LogConfig{Level: "info"},
		LEDs: []LEDConfig{
			{Pin: 9, Color: "red"},
			{Pin: 10, Color: "green"},
			{Pin: 11, Color: "blue"},
		},
		Keys: []KeyConfig{
			{Pin: 2, Debounce: Duration(DefaultDebounce)},
			{Pin: 3, Debounce: Duration(DefaultDebounce)},
		},
		Pot:    PotConfig{Pin: 0},
		Buzzer: true,
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	defer f.Close()

	return parse(path, f)
}

// LoadFromReader reads configuration from r over the defaults
func LoadFromReader(r io.Reader) (Config, error) {
	return parse("<reader>", r)
}

func parse(source string, r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var file fileConfig
	if err := toml.Unmarshal(data, &file); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("parse error in %s at line %d, column %d: %w", source, row, col, err)
		}
		return Config{}, fmt.Errorf("parse error in %s: %w", source, err)
	}

	cfg := Default()
	file.apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", source, err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors
func (c Config) Validate() error {
	if c.Tick.Std() < 0 {
		return fmt.Errorf("%w: negative tick %s", ErrInvalid, c.Tick.Std())
	}
	if c.CycleDwell.Std() < 0 {
		return fmt.Errorf("%w: negative cycle_dwell %s", ErrInvalid, c.CycleDwell.Std())
	}
	if c.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be at least 1, got %d", ErrInvalid, c.Capacity)
	}
	if len(c.LEDs) == 0 {
		return fmt.Errorf("%w: no leds defined", ErrInvalid)
	}
	if len(c.Keys) < 2 {
		return fmt.Errorf("%w: need 2 keys, got %d", ErrInvalid, len(c.Keys))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	used := make(map[uint8]string)
	claim := func(pin uint8, what string) error {
		if prev, ok := used[pin]; ok {
			return fmt.Errorf("%w: pin %d used by both %s and %s", ErrInvalid, pin, prev, what)
		}
		used[pin] = what
		return nil
	}
	for i, l := range c.LEDs {
		if err := claim(l.Pin, fmt.Sprintf("led %d", i)); err != nil {
			return err
		}
	}
	for i, k := range c.Keys {
		if k.Debounce.Std() < 0 {
			return fmt.Errorf("%w: key %d has negative debounce", ErrInvalid, i)
		}
		if err := claim(k.Pin, fmt.Sprintf("key %d", i)); err != nil {
			return err
		}
	}
	if err := claim(c.Pot.Pin, "pot"); err != nil {
		return err
	}

	return nil
}

// ParseLevel converts a level name to a slog.Level. An empty name is info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}
