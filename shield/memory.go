package shield

import "sync"

// MemoryPins is an in-memory board. Digital inputs set with Press read high
// exactly once.
type MemoryPins struct {
	mu      sync.Mutex
	digital map[Pin]int
	analog  map[Pin]uint16
	written map[Pin]uint8
}

// NewMemoryPins creates a board with every pin low
func NewMemoryPins() *MemoryPins {
	return &MemoryPins{
		digital: make(map[Pin]int),
		analog:  make(map[Pin]uint16),
		written: make(map[Pin]uint8),
	}
}

// Press queues one high read on pin
func (p *MemoryPins) Press(pin Pin) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.digital[pin]++
}

// SetAnalog sets the reading returned for pin
func (p *MemoryPins) SetAnalog(pin Pin, v uint16) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.analog[pin] = v
}

// Output returns the last value written to pin
func (p *MemoryPins) Output(pin Pin) uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written[pin]
}

// DigitalRead consumes one queued press on pin
func (p *MemoryPins) DigitalRead(pin Pin) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.digital[pin] > 0 {
		p.digital[pin]--
		return true
	}
	return false
}

// AnalogRead returns the value set by SetAnalog, or 0
func (p *MemoryPins) AnalogRead(pin Pin) uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.analog[pin]
}

// AnalogWrite records value for Output
func (p *MemoryPins) AnalogWrite(pin Pin, value uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.written[pin] = value
}
