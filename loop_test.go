package ledshield

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStepRunsAdvancedBehavior(t *testing.T) {
	var d *Dispatcher[testState]
	var ticks []testState
	d = New(stateIdle, func() {
		ticks = append(ticks, stateIdle)
		d.RequestTransition(stateA)
	}, WithLogger(quiet))
	d.AddState(stateA, func() { ticks = append(ticks, stateA) })

	d.Step()
	d.Step()
	d.Step()

	want := []testState{stateIdle, stateA, stateIdle}
	if len(ticks) != len(want) {
		t.Fatalf("expected %v, got %v", want, ticks)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Errorf("tick %d: expected %v, got %v", i, want[i], ticks[i])
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	var runs int
	ctx, cancel := context.WithCancel(context.Background())

	d := New(stateIdle, func() {
		runs++
		if runs == 3 {
			cancel()
		}
	}, WithLogger(quiet))

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, d, time.Millisecond)
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop after cancel")
	}

	if runs < 3 {
		t.Errorf("expected at least 3 ticks, got %d", runs)
	}
}

func TestRunContinuous(t *testing.T) {
	var runs int
	ctx, cancel := context.WithCancel(context.Background())

	d := New(stateIdle, func() {
		runs++
		if runs == 100 {
			cancel()
		}
	}, WithLogger(quiet))

	if err := Run(ctx, d, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if runs != 100 {
		t.Errorf("expected 100 ticks, got %d", runs)
	}
}

func TestRunFuncTicksOnInterval(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var ticks int
	err := RunFunc(ctx, 5*time.Millisecond, func() { ticks++ })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if ticks == 0 {
		t.Error("expected at least one tick")
	}
}
