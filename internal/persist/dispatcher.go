package persist

import (
	"context"
	"sync"
	"time"

	"github.com/existflow/weektrack/internal/logger"
)

// commitTimeout bounds a single Commit call on the worker
const commitTimeout = 30 * time.Second

// Dispatcher runs Strategy.Commit on a single background worker. Changes are
// committed in the order they were dispatched. Failures are logged and
// dropped; nothing is retried.
type Dispatcher struct {
	strategy Strategy
	log      *logger.Logger
	onError  func(Change, error)

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []Change
	pending int
	closed  bool

	wake chan struct{}
	done chan struct{}
}

// NewDispatcher starts a worker committing to strategy
func NewDispatcher(strategy Strategy) *Dispatcher {
	d := &Dispatcher{
		strategy: strategy,
		log:      logger.WithFields(logger.F("scope", strategy.Scope())),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	d.cond = sync.NewCond(&d.mu)
	go d.loop()
	return d
}

// SetOnError sets a callback invoked on the worker after a failed commit
func (d *Dispatcher) SetOnError(callback func(Change, error)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onError = callback
}

// Dispatch queues c and returns immediately
func (d *Dispatcher) Dispatch(c Change) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.log.Warn("Dropping change after close", logger.F("kind", c.Kind), logger.F("timer", c.TimerID))
		return
	}
	d.queue = append(d.queue, c)
	d.pending++
	select {
	case d.wake <- struct{}{}:
	default:
	}
	d.mu.Unlock()
}

// Flush blocks until every dispatched change has been attempted
func (d *Dispatcher) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.pending > 0 {
		d.cond.Wait()
	}
}

// Close flushes outstanding work and stops the worker
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.Flush()
	close(d.wake)
	<-d.done
}

func (d *Dispatcher) loop() {
	defer close(d.done)

	for range d.wake {
		for {
			d.mu.Lock()
			if len(d.queue) == 0 {
				d.mu.Unlock()
				break
			}
			c := d.queue[0]
			d.queue = d.queue[1:]
			d.mu.Unlock()

			d.commit(c)

			d.mu.Lock()
			d.pending--
			if d.pending == 0 {
				d.cond.Broadcast()
			}
			d.mu.Unlock()
		}
	}
}

func (d *Dispatcher) commit(c Change) {
	ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
	defer cancel()

	err := d.strategy.Commit(ctx, c)
	if err == nil {
		return
	}

	d.log.Error("Failed to persist change",
		logger.F("kind", c.Kind),
		logger.F("timer", c.TimerID),
		logger.Err(err))

	d.mu.Lock()
	callback := d.onError
	d.mu.Unlock()
	if callback != nil {
		callback(c, err)
	}
}
