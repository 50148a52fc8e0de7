package shield

import "time"

// Key is a push button wired to a digital pin
type Key struct {
	Pin       Pin
	LastPress Millis
}

// Debounced reports whether more than delay has passed since the key's
// last registered press
func Debounced(clock Clock, key *Key, delay time.Duration) bool {
	return Elapsed(clock, key.LastPress, delay)
}

// Clicked reads the key's pin. When it is high the press time is stamped
// and Clicked returns true.
func Clicked(pins Pins, clock Clock, key *Key) bool {
	if pins.DigitalRead(key.Pin) {
		key.LastPress = clock.Millis()
		return true
	}
	return false
}

// Pressed combines Debounced and Clicked: it returns true for a press that
// arrives more than delay after the previous one. Presses inside the window
// are ignored and do not restart it.
func Pressed(pins Pins, clock Clock, key *Key, delay time.Duration) bool {
	if !Debounced(clock, key, delay) {
		return false
	}
	return Clicked(pins, clock, key)
}
