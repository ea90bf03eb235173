package tracker

import (
	"context"
	"testing"
	"time"
)

func TestEngine_TicksRunningTimer(t *testing.T) {
	tr, _, clock := newTestTracker(t)
	s := tr.AddTimer(stopwatch("Focus"))
	tr.ToggleTimer(s.ID)

	e := NewEngine(tr)
	e.interval = 5 * time.Millisecond

	ticked := make(chan struct{}, 1)
	e.SetOnTick(func() {
		select {
		case ticked <- struct{}{}:
		default:
		}
	})

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	clock.Advance(3 * time.Second)
	select {
	case <-ticked:
	case <-time.After(2 * time.Second):
		t.Fatal("engine never ticked")
	}

	e.Stop()
	e.Stop()
	if err := <-done; err != nil {
		t.Errorf("Run = %v, want nil", err)
	}

	if got := mustTimer(t, tr, s.ID).ElapsedSeconds; got != 3 {
		t.Errorf("ElapsedSeconds = %d, want 3", got)
	}
}

func TestEngine_StopsOnCancel(t *testing.T) {
	tr, _, _ := newTestTracker(t)
	e := NewEngine(tr)
	e.interval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop on cancel")
	}
}
