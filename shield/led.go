package shield

// FadeDirection is the way an LED's intensity is currently moving
type FadeDirection int

const (
	// FadeUp steps the value towards 255
	FadeUp FadeDirection = iota
	// FadeDown steps the value towards 0
	FadeDown
)

func (d FadeDirection) String() string {
	if d == FadeDown {
		return "down"
	}
	return "up"
}

// LED is a PWM-driven LED on the shield
type LED struct {
	Pin         Pin
	Active      bool
	Value       uint8
	Direction   FadeDirection
	LastUpdated Millis
}

// Fade moves the LED one step along its fade, turning around at the ends of
// the range
func Fade(led *LED) {
	switch led.Value {
	case 0:
		led.Direction = FadeUp
	case 255:
		led.Direction = FadeDown
	}

	switch led.Direction {
	case FadeUp:
		led.Value++
	case FadeDown:
		led.Value--
	}
}

// Write drives the LED's pin with its value, or zero when it is inactive
func Write(pins Pins, led *LED) {
	if !led.Active {
		pins.AnalogWrite(led.Pin, 0)
		return
	}
	pins.AnalogWrite(led.Pin, led.Value)
}
