package shield

// Pin identifies a header pin on the shield
type Pin uint8

// AnalogMax is the largest reading AnalogRead returns (10-bit ADC)
const AnalogMax = 1023

// Pins is the pin I/O surface of the board
type Pins interface {
	// DigitalRead returns true when the pin reads high
	DigitalRead(pin Pin) bool
	// AnalogRead returns a reading in [0, AnalogMax]
	AnalogRead(pin Pin) uint16
	// AnalogWrite sets the PWM duty of the pin
	AnalogWrite(pin Pin, value uint8)
}

// Scale maps a raw potentiometer reading onto an LED intensity in [1, 255],
// using the integer arithmetic of Arduino's map(raw, 0, 1023, 1, 255).
// Readings above AnalogMax are clamped.
func Scale(raw uint16) uint8 {
	if raw > AnalogMax {
		raw = AnalogMax
	}
	return uint8(uint32(raw)*254/AnalogMax + 1)
}

// ReadIntensity reads the potentiometer on pin and scales it
func ReadIntensity(pins Pins, pin Pin) uint8 {
	return Scale(pins.AnalogRead(pin))
}
