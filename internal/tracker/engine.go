package tracker

import (
	"context"
	"sync"
	"time"
)

// Engine drives Tracker.Tick on a fixed one second cadence
type Engine struct {
	tracker  *Tracker
	interval time.Duration
	onTick   func()
	mu       sync.Mutex
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewEngine creates a tick engine for tracker
func NewEngine(tracker *Tracker) *Engine {
	return &Engine{
		tracker:  tracker,
		interval: time.Second,
		stopCh:   make(chan struct{}),
	}
}

// SetOnTick sets a callback invoked after every tick that changed state
func (e *Engine) SetOnTick(callback func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onTick = callback
}

// Run ticks until ctx is cancelled or Stop is called
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.step()
		case <-e.stopCh:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

func (e *Engine) step() {
	if !e.tracker.Tick() {
		return
	}

	e.mu.Lock()
	callback := e.onTick
	e.mu.Unlock()

	if callback != nil {
		callback()
	}
}

// Stop stops a running engine. Safe to call more than once.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopCh) })
}
