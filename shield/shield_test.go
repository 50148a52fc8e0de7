package shield

import (
	"math"
	"testing"
	"time"
)

func TestScale(t *testing.T) {
	tests := []struct {
		raw  uint16
		want uint8
	}{
		{0, 1},
		{1, 1},
		{4, 1},
		{5, 2},
		{512, 128},
		{1022, 254},
		{1023, 255},
		{4095, 255},
	}

	for _, tt := range tests {
		if got := Scale(tt.raw); got != tt.want {
			t.Errorf("Scale(%d) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestReadIntensity(t *testing.T) {
	pins := NewMemoryPins()
	pins.SetAnalog(0, 1023)
	if got := ReadIntensity(pins, 0); got != 255 {
		t.Errorf("expected 255, got %d", got)
	}
}

func TestElapsed(t *testing.T) {
	clock := &ManualClock{}
	clock.Set(1000)

	if Elapsed(clock, 900, 100*time.Millisecond) {
		t.Error("exactly the delay should not count as elapsed")
	}
	clock.Set(1001)
	if !Elapsed(clock, 900, 100*time.Millisecond) {
		t.Error("expected elapsed after delay")
	}
}

func TestElapsedAcrossWraparound(t *testing.T) {
	clock := &ManualClock{}
	clock.Set(10)

	last := Millis(0xFFFFFFFF - 50)
	if !Elapsed(clock, last, 50*time.Millisecond) {
		t.Error("expected elapsed across wraparound")
	}
	if Elapsed(clock, last, 100*time.Millisecond) {
		t.Error("wraparound should not overstate the elapsed time")
	}
}

func TestElapsedDelayBounds(t *testing.T) {
	clock := &ManualClock{}
	clock.Set(1000)

	if !Elapsed(clock, 900, -5*time.Second) {
		t.Error("negative delay should behave like zero")
	}
	if Elapsed(clock, 1000, -time.Millisecond) {
		t.Error("no time has passed, negative delay must not elapse")
	}

	clock.Set(0xFFFFFFF0)
	if Elapsed(clock, 0, 50*24*time.Hour) {
		t.Error("delay beyond the counter span must never elapse")
	}
	if Elapsed(clock, 0, time.Duration(math.MaxUint32)*time.Millisecond) {
		t.Error("delay equal to the counter span must never elapse")
	}
}

func TestManualClockAdvance(t *testing.T) {
	clock := &ManualClock{}
	clock.Advance(1500 * time.Microsecond)
	clock.Advance(2 * time.Second)
	if got := clock.Millis(); got != 2001 {
		t.Errorf("expected 2001, got %d", got)
	}
}

func TestSystemClockMonotonic(t *testing.T) {
	clock := NewSystemClock()
	a := clock.Millis()
	time.Sleep(5 * time.Millisecond)
	if b := clock.Millis(); b.Since(a) < 5 {
		t.Errorf("expected at least 5ms, got %d", b.Since(a))
	}
}

func TestKeyClickedStampsPress(t *testing.T) {
	pins := NewMemoryPins()
	clock := &ManualClock{}
	clock.Set(500)
	key := &Key{Pin: 2}

	if Clicked(pins, clock, key) {
		t.Fatal("unpressed key reported a click")
	}
	if key.LastPress != 0 {
		t.Errorf("unpressed key stamped %d", key.LastPress)
	}

	pins.Press(2)
	if !Clicked(pins, clock, key) {
		t.Fatal("pressed key not reported")
	}
	if key.LastPress != 500 {
		t.Errorf("expected press at 500, got %d", key.LastPress)
	}
}

func TestKeyPressedDebounces(t *testing.T) {
	pins := NewMemoryPins()
	clock := &ManualClock{}
	key := &Key{Pin: 3}
	delay := 200 * time.Millisecond

	clock.Set(300)
	pins.Press(3)
	if !Pressed(pins, clock, key, delay) {
		t.Fatal("first press ignored")
	}

	clock.Set(400)
	pins.Press(3)
	if Pressed(pins, clock, key, delay) {
		t.Error("bounce inside the window accepted")
	}
	if key.LastPress != 300 {
		t.Errorf("bounce restarted the window: last press %d", key.LastPress)
	}

	clock.Set(501)
	if !Pressed(pins, clock, key, delay) {
		t.Error("press after the window ignored")
	}
}

func TestFadeBounces(t *testing.T) {
	led := &LED{Value: 254, Direction: FadeUp}

	Fade(led)
	if led.Value != 255 || led.Direction != FadeUp {
		t.Fatalf("expected 255 up, got %d %s", led.Value, led.Direction)
	}

	Fade(led)
	if led.Value != 254 || led.Direction != FadeDown {
		t.Fatalf("expected 254 down, got %d %s", led.Value, led.Direction)
	}

	led.Value = 1
	Fade(led)
	if led.Value != 0 || led.Direction != FadeDown {
		t.Fatalf("expected 0 down, got %d %s", led.Value, led.Direction)
	}

	Fade(led)
	if led.Value != 1 || led.Direction != FadeUp {
		t.Fatalf("expected 1 up, got %d %s", led.Value, led.Direction)
	}
}

func TestFadeFullCycle(t *testing.T) {
	led := &LED{}
	for i := 0; i < 510; i++ {
		Fade(led)
	}
	if led.Value != 0 {
		t.Errorf("expected to return to 0 after a full cycle, got %d", led.Value)
	}
}

func TestWriteRespectsActive(t *testing.T) {
	pins := NewMemoryPins()
	led := &LED{Pin: 9, Value: 120}

	Write(pins, led)
	if got := pins.Output(9); got != 0 {
		t.Errorf("inactive LED wrote %d", got)
	}

	led.Active = true
	Write(pins, led)
	if got := pins.Output(9); got != 120 {
		t.Errorf("expected 120, got %d", got)
	}
}

func TestUARTLineAssembly(t *testing.T) {
	u := &UART{}

	if _, ok := u.Take(); ok {
		t.Fatal("empty UART reported a demand")
	}

	u.Write([]byte("rain"))
	if u.Partial() != "rain" {
		t.Errorf("expected partial %q, got %q", "rain", u.Partial())
	}
	if _, ok := u.Take(); ok {
		t.Fatal("incomplete line reported a demand")
	}

	u.Write([]byte("bow\r\n"))
	got, ok := u.Take()
	if !ok || got != "rainbow" {
		t.Fatalf("expected rainbow, got %q %v", got, ok)
	}
	if _, ok := u.Take(); ok {
		t.Error("demand not cleared by Take")
	}
}

func TestUARTIgnoresBlankLines(t *testing.T) {
	u := &UART{}
	u.Write([]byte("  \n\n"))
	if _, ok := u.Take(); ok {
		t.Error("blank line reported a demand")
	}
}

func TestUARTDiscardsOverlongLine(t *testing.T) {
	u := &UART{}
	for i := 0; i < MaxCommandLen+10; i++ {
		u.Feed('x')
	}
	u.Feed('\n')
	if d, ok := u.Take(); ok {
		t.Errorf("overlong line accepted: %q", d)
	}

	u.Write([]byte("cycle\n"))
	if d, ok := u.Take(); !ok || d != "cycle" {
		t.Errorf("expected cycle after overflow, got %q %v", d, ok)
	}
}

func TestMemoryPinsPressReadsOnce(t *testing.T) {
	pins := NewMemoryPins()
	pins.Press(4)
	if !pins.DigitalRead(4) {
		t.Fatal("expected high read")
	}
	if pins.DigitalRead(4) {
		t.Error("press read high twice")
	}
}
