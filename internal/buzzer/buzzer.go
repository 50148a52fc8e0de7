// Package buzzer plays the shield's click tone through the host speaker
package buzzer

import (
	"fmt"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// Click tone parameters
const (
	SampleRate = beep.SampleRate(44100)
	Frequency  = 880 // Hz
	Length     = 30 * time.Millisecond
)

// Buzzer plays a short sine tone on Click. A silent Buzzer does nothing.
type Buzzer struct {
	enabled bool
}

// New initializes the speaker. On failure it returns a silent buzzer along
// with the error, so callers can log it and carry on.
func New() (*Buzzer, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return Silent(), fmt.Errorf("initializing speaker: %w", err)
	}
	return &Buzzer{enabled: true}, nil
}

// Silent returns a buzzer that never sounds
func Silent() *Buzzer {
	return &Buzzer{}
}

// Enabled reports whether the buzzer has a working speaker
func (b *Buzzer) Enabled() bool {
	return b.enabled
}

// Click plays the tone without blocking
func (b *Buzzer) Click() {
	if !b.enabled {
		return
	}
	tone, err := Tone(Frequency, Length)
	if err != nil {
		return
	}
	speaker.Play(tone)
}

// Tone returns a sine wave of freq Hz lasting d
func Tone(freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(SampleRate, freq)
	if err != nil {
		return nil, err
	}
	return beep.Take(SampleRate.N(d), sine), nil
}
