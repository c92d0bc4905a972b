// Package recompute coalesces bursts of change notifications into single
// re-evaluations of an order's workflow position. Each order gets its own
// controller; N notifications arriving during a pass collapse into exactly
// one follow-up pass.
package recompute

import (
	"context"
	"sync"
)

// State describes what a controller is doing right now.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateRunningWithPending
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateRunningWithPending:
		return "running_with_pending"
	default:
		return "unknown"
	}
}

// PassFunc runs one full recomputation pass for the controller's order.
type PassFunc func(ctx context.Context) error

// Controller serializes recomputation passes for one order. Notifications
// only bump a counter; a single drain goroutine runs passes until the
// counter stays at zero.
type Controller struct {
	mu      sync.Mutex
	pending int
	running bool

	pass     PassFunc
	onSkip   func()
	onError  func(err error)
	passDone chan struct{}
}

// NewController builds a controller around one order's pass function.
// onSkip fires once per notification absorbed into an already-scheduled
// pass; onError fires when a pass fails. Both may be nil.
func NewController(pass PassFunc, onSkip func(), onError func(err error)) *Controller {
	return &Controller{
		pass:     pass,
		onSkip:   onSkip,
		onError:  onError,
		passDone: make(chan struct{}, 1),
	}
}

// Notify records one change notification and schedules a pass if none is
// in flight. It never blocks and never runs the pass inline.
func (c *Controller) Notify(ctx context.Context) {
	c.mu.Lock()
	c.pending++
	if c.running {
		absorbed := c.pending > 1
		c.mu.Unlock()
		if absorbed && c.onSkip != nil {
			c.onSkip()
		}
		return
	}
	c.running = true
	c.mu.Unlock()

	go c.drain(ctx)
}

func (c *Controller) drain(ctx context.Context) {
	for {
		c.mu.Lock()
		if c.pending == 0 || ctx.Err() != nil {
			c.running = false
			c.mu.Unlock()
			return
		}
		c.pending = 0
		c.mu.Unlock()

		if err := c.pass(ctx); err != nil && c.onError != nil {
			c.onError(err)
		}
		select {
		case c.passDone <- struct{}{}:
		default:
		}
	}
}

// State reports the controller's current position in its tiny state
// machine: idle, running, or running with a queued follow-up.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case !c.running:
		return StateIdle
	case c.pending > 0:
		return StateRunningWithPending
	default:
		return StateRunning
	}
}

// WaitPass blocks until a pass finishes or the context ends. Test hook.
func (c *Controller) WaitPass(ctx context.Context) bool {
	select {
	case <-c.passDone:
		return true
	case <-ctx.Done():
		return false
	}
}
