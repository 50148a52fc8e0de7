package ledshield_test

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/librescoot/ledshield"
)

// Example: fixed three-step sequence started from idle
func Example_sequence() {
	type state string
	const (
		idle  state = "idle"
		warm  state = "warm"
		blink state = "blink"
		cool  state = "cool"
	)

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	var d *ledshield.Dispatcher[state]
	started := false
	d = ledshield.New(idle, func() {
		fmt.Println("idle")
		if !started {
			started = true
			d.RequestTransition(warm)
		}
	}, ledshield.WithLogger(quiet))

	d.AddState(warm, func() {
		fmt.Println("warm up")
		d.Release()
	}, ledshield.WithNext(blink))
	d.AddState(blink, func() {
		fmt.Println("blink")
		d.Release()
	}, ledshield.WithNext(cool))
	d.AddState(cool, func() {
		fmt.Println("cool down")
		d.Release()
	})

	for i := 0; i < 6; i++ {
		d.Step()
	}

	// Output:
	// idle
	// warm up
	// blink
	// cool down
	// idle
	// idle
}

// Example: a misbehaving state that never releases is bounded to one tick
func Example_stallGuard() {
	type state int
	const (
		idle state = iota
		stuck
	)

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	var d *ledshield.Dispatcher[state]
	d = ledshield.New(idle, func() {
		d.RequestTransition(stuck)
	}, ledshield.WithLogger(quiet))
	d.AddState(stuck, func() {})

	for i := 0; i < 4; i++ {
		d.Advance()()
		fmt.Println(d.CurrentState() == stuck)
	}

	// Output:
	// false
	// true
	// false
	// true
}
