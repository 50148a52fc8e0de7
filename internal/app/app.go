// Package app is the LED shield program: the idle, cycle and rainbow
// behaviors and the state table that links them.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/librescoot/ledshield"
	"github.com/librescoot/ledshield/config"
	"github.com/librescoot/ledshield/shield"
)

// State names a phase of the shield program
type State string

// Program states. Each mode has a one-tick start state that chains into a
// self-looping run state.
const (
	StateIdle         State = "idle"
	StateCycleStart   State = "cycle-start"
	StateCycle        State = "cycle"
	StateRainbowStart State = "rainbow-start"
	StateRainbow      State = "rainbow"
)

// Commands accepted over the serial line, mapped to the state they start
var Commands = map[string]State{
	"cycle":   StateCycleStart,
	"rainbow": StateRainbowStart,
}

// Clicker is notified on every state change
type Clicker interface {
	Click()
}

// Hardware is what the program runs on
type Hardware struct {
	Pins  shield.Pins
	Clock shield.Clock
	UART  *shield.UART
}

type debouncedKey struct {
	key   shield.Key
	delay time.Duration
}

// Program owns the dispatcher and all device state. It is driven by a single
// host loop calling Step.
type Program struct {
	d      *ledshield.Dispatcher[State]
	hw     Hardware
	logger *slog.Logger
	click  Clicker

	leds   []shield.LED
	keys   []debouncedKey
	potPin shield.Pin
	dwell  time.Duration

	intensity uint8
	enteredAt shield.Millis
	cycleIdx  int
	cycleAt   shield.Millis
}

// Option is a functional option for configuring a Program
type Option func(*Program)

// WithLogger sets the logger for the program and its dispatcher
func WithLogger(logger *slog.Logger) Option {
	return func(p *Program) {
		p.logger = logger
	}
}

// WithClicker sets the sink notified on state changes
func WithClicker(c Clicker) Option {
	return func(p *Program) {
		p.click = c
	}
}

// New builds the program and its state table from cfg. cfg must be valid.
// It fails when cfg.Capacity cannot hold every program state.
func New(cfg config.Config, hw Hardware, opts ...Option) (*Program, error) {
	p := &Program{
		hw:     hw,
		logger: ledshield.Logger,
		potPin: shield.Pin(cfg.Pot.Pin),
		dwell:  cfg.CycleDwell.Std(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.hw.UART == nil {
		p.hw.UART = &shield.UART{}
	}

	for _, l := range cfg.LEDs {
		p.leds = append(p.leds, shield.LED{Pin: shield.Pin(l.Pin)})
	}
	for _, k := range cfg.Keys {
		p.keys = append(p.keys, debouncedKey{
			key:   shield.Key{Pin: shield.Pin(k.Pin)},
			delay: k.Debounce.Std(),
		})
	}

	guard := ledshield.StallGuardTouched
	if cfg.StrictLoop {
		guard = ledshield.StallGuardStrict
	}

	p.d = ledshield.New(StateIdle, p.idle,
		ledshield.WithCapacity(cfg.Capacity),
		ledshield.WithStallGuard(guard),
		ledshield.WithLogger(p.logger),
	)
	p.d.OnStateChange(p.stateChanged)

	states := []struct {
		state    State
		behavior ledshield.Behavior
		next     State
	}{
		{StateCycleStart, p.cycleStart, StateCycle},
		{StateCycle, p.cycle, StateCycle},
		{StateRainbowStart, p.rainbowStart, StateRainbow},
		{StateRainbow, p.rainbow, StateRainbow},
	}
	for _, s := range states {
		if !p.d.AddState(s.state, s.behavior, ledshield.WithNext(s.next)) {
			return nil, fmt.Errorf("registering state %s: table capacity %d holds only %d states, need %d",
				s.state, p.d.Capacity(), p.d.Len(), len(states))
		}
	}

	return p, nil
}

// Dispatcher returns the program's state machine
func (p *Program) Dispatcher() *ledshield.Dispatcher[State] {
	return p.d
}

// Step runs one tick of the program
func (p *Program) Step() {
	p.d.Step()
}

// Status is a snapshot of the program for display
type Status struct {
	State     State
	EnteredAt shield.Millis
	Intensity uint8
	LEDs      []shield.LED
	Serial    string
}

// Status returns a snapshot of the program
func (p *Program) Status() Status {
	leds := make([]shield.LED, len(p.leds))
	copy(leds, p.leds)
	return Status{
		State:     p.d.CurrentState(),
		EnteredAt: p.enteredAt,
		Intensity: p.intensity,
		LEDs:      leds,
		Serial:    p.hw.UART.Partial(),
	}
}

func (p *Program) stateChanged(from, to State) {
	p.enteredAt = p.hw.Clock.Millis()
	p.logger.Info("state changed", "from", from, "to", to)
	if p.click != nil {
		p.click.Click()
	}
}

func (p *Program) readIntensity() uint8 {
	p.intensity = shield.ReadIntensity(p.hw.Pins, p.potPin)
	return p.intensity
}

// anyKeyPressed polls every key so each one's debounce stamp stays current
func (p *Program) anyKeyPressed() bool {
	pressed := false
	for i := range p.keys {
		if p.pressed(i) {
			pressed = true
		}
	}
	return pressed
}

func (p *Program) pressed(i int) bool {
	if i >= len(p.keys) {
		return false
	}
	k := &p.keys[i]
	return shield.Pressed(p.hw.Pins, p.hw.Clock, &k.key, k.delay)
}

func (p *Program) writeAll(scale uint8) {
	for i := range p.leds {
		led := p.leds[i]
		led.Value = uint8(uint16(led.Value) * uint16(scale) / 255)
		shield.Write(p.hw.Pins, &led)
	}
}
