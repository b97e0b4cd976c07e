// Package clock provides the session time source the engine reads each frame.
//
// Time is kept in float seconds and is only advanced explicitly, so a session
// can be paused, offset or replayed with an exact sequence of frame deltas.
package clock

import "time"

// Clock is read by the scheduler and the recorder once per frame.
type Clock interface {
	// Elapsed is the seconds since the session started.
	Elapsed() float64
	// Delta is the seconds between the previous frame and this one.
	Delta() float64
}

// Controlled is a Clock advanced by its owner.
type Controlled struct {
	elapsed float64
	delta   float64
	paused  bool
}

// New starts a clock at offset seconds.
func New(offset float64) *Controlled {
	return &Controlled{elapsed: offset}
}

func (c *Controlled) Elapsed() float64 { return c.elapsed }
func (c *Controlled) Delta() float64   { return c.delta }
func (c *Controlled) Paused() bool     { return c.paused }

// Advance moves the clock forward by dt seconds. Negative deltas are clamped
// so elapsed never runs backwards, and a paused clock records a zero delta.
func (c *Controlled) Advance(dt float64) {
	if c.paused || dt < 0 {
		dt = 0
	}
	c.delta = dt
	c.elapsed += dt
}

func (c *Controlled) Pause()  { c.paused = true }
func (c *Controlled) Resume() { c.paused = false }

// Reset restarts the session at offset seconds.
func (c *Controlled) Reset(offset float64) {
	c.elapsed = offset
	c.delta = 0
}

// Wall measures frame deltas from the system clock for the host loop.
type Wall struct {
	last time.Time
	now  func() time.Time
}

func NewWall() *Wall {
	return &Wall{now: time.Now}
}

// Lap returns the time since the previous Lap. The first call returns zero.
func (w *Wall) Lap() time.Duration {
	now := w.now()
	if w.last.IsZero() {
		w.last = now
		return 0
	}
	d := now.Sub(w.last)
	w.last = now
	return d
}
