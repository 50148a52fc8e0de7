// Package terminal renders a virtual LED shield in a terminal with tcell and
// turns key presses into pin readings and serial input.
package terminal

import (
	"fmt"
	"io"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/librescoot/ledshield/shield"
)

// PotStep is how far one '+' or '-' moves the potentiometer
const PotStep = 32

// LEDView describes how an LED is drawn
type LEDView struct {
	Pin   shield.Pin
	Color string
}

// Layout maps the virtual shield's controls to pins. Keys[i] is bound to
// the digit i+1 on the keyboard.
type Layout struct {
	Keys []shield.Pin
	Pot  shield.Pin
	LEDs []LEDView
}

// Shield implements shield.Pins on top of a tcell screen
type Shield struct {
	screen tcell.Screen
	layout Layout

	mu      sync.Mutex
	pressed map[shield.Pin]int
	pot     uint16
	outputs map[shield.Pin]uint8
	serial  []byte

	quit     chan struct{}
	quitOnce sync.Once
}

// New creates a virtual shield drawing on screen
func New(screen tcell.Screen, layout Layout) *Shield {
	return &Shield{
		screen:  screen,
		layout:  layout,
		pressed: make(map[shield.Pin]int),
		pot:     shield.AnalogMax / 2,
		outputs: make(map[shield.Pin]uint8),
		quit:    make(chan struct{}),
	}
}

// NewScreen creates a shield on the process terminal
func NewScreen(layout Layout) (*Shield, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	return New(screen, layout), nil
}

// Start initializes the screen and begins collecting input
func (s *Shield) Start() error {
	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	s.screen.Clear()
	go s.pollEvents()
	return nil
}

// Stop restores the terminal
func (s *Shield) Stop() {
	s.screen.Fini()
	s.close()
}

// Done is closed when the user asks to quit
func (s *Shield) Done() <-chan struct{} {
	return s.quit
}

func (s *Shield) close() {
	s.quitOnce.Do(func() { close(s.quit) })
}

func (s *Shield) pollEvents() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		switch e := ev.(type) {
		case *tcell.EventKey:
			s.handleKey(e)
		case *tcell.EventResize:
			s.screen.Sync()
		}
	}
}

func (s *Shield) handleKey(e *tcell.EventKey) {
	switch e.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		s.close()
		return
	case tcell.KeyEnter:
		s.feed('\n')
		return
	case tcell.KeyRune:
	default:
		return
	}

	r := e.Rune()
	switch {
	case r >= '1' && r <= '9' && int(r-'1') < len(s.layout.Keys):
		s.mu.Lock()
		s.pressed[s.layout.Keys[r-'1']]++
		s.mu.Unlock()
	case r == '+' || r == '=':
		s.turnPot(PotStep)
	case r == '-':
		s.turnPot(-PotStep)
	case r < 0x80:
		s.feed(byte(r))
	}
}

func (s *Shield) turnPot(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := int(s.pot) + delta
	if v < 0 {
		v = 0
	}
	if v > shield.AnalogMax {
		v = shield.AnalogMax
	}
	s.pot = uint16(v)
}

func (s *Shield) feed(b byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serial = append(s.serial, b)
}

// Drain writes the serial bytes typed since the last call to w
func (s *Shield) Drain(w io.Writer) error {
	s.mu.Lock()
	pending := s.serial
	s.serial = nil
	s.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}
	_, err := w.Write(pending)
	return err
}

// DigitalRead reads high once per key press
func (s *Shield) DigitalRead(pin shield.Pin) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pressed[pin] > 0 {
		s.pressed[pin]--
		return true
	}
	return false
}

// AnalogRead returns the potentiometer position for the pot pin and zero
// for every other pin
func (s *Shield) AnalogRead(pin shield.Pin) uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pin == s.layout.Pot {
		return s.pot
	}
	return 0
}

func (s *Shield) AnalogWrite(pin shield.Pin, value uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputs[pin] = value
}

// Output returns the last value written to pin
func (s *Shield) Output(pin shield.Pin) uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outputs[pin]
}
