package ipcc

import (
	"context"
)

// Controller is the per-core entry point of the protocol. It binds a
// local core identity to a backend, installs itself as the core's
// notification handler, and exposes the two transfer disciplines.
//
// A controller is safe for use from multiple goroutines as long as
// each direction has a single active sender and a single active
// receiver at a time, mirroring the unique-writer rule of the
// underlying flags.
type Controller struct {
	local Core
	be    Backend

	wake [NumChannels][MaskKinds]chan struct{}
}

// New creates a controller for the local core over a backend. The
// backend is expected to start cleared (all directions free, all
// masks disabled); call Reset to force that state explicitly, from
// one side only.
func New(local Core, be Backend) *Controller {
	c := &Controller{local: local, be: be}
	for ch := range c.wake {
		for kind := range c.wake[ch] {
			c.wake[ch][kind] = make(chan struct{}, 1)
		}
	}
	be.Notify(local, NotifyFunc(c.handleNotify))
	return c
}

// Local returns the core this controller acts as.
func (c *Controller) Local() Core {
	return c.local
}

// Backend returns the backend the controller operates on.
func (c *Controller) Backend() Backend {
	return c.be
}

// Reset clears every direction to free and disables all masks on
// both cores. Call once per session, before traffic starts.
func (c *Controller) Reset() {
	c.be.Reset()
}

// IsFree reports whether the direction out of core on ch is free.
// Pure read, usable both as public API and internally by the
// disciplines.
func (c *Controller) IsFree(core Core, ch Channel) bool {
	return c.be.ReadStatus(Dir(core, ch)) == Free
}

// Simplex returns the one-way stream discipline view.
func (c *Controller) Simplex() Simplex {
	return Simplex{c}
}

// HalfDuplex returns the request/response discipline view.
func (c *Controller) HalfDuplex() HalfDuplex {
	return HalfDuplex{c}
}

// watchDir resolves the direction a mask kind observes for the local
// core: OnFree watches the outbound direction, OnOccupied the
// inbound one.
func (c *Controller) watchDir(ch Channel, kind MaskKind) Direction {
	if kind == OnFree {
		return Dir(c.local, ch)
	}
	return Dir(c.local.Peer(), ch)
}

// handleNotify is invoked by the backend when an unmasked transition
// fires for the local core. It masks the notification again, as an
// interrupt handler would, and posts a wakeup. The wakeup channel is
// buffered and the send never blocks, so dispatch is safe from any
// context.
func (c *Controller) handleNotify(n Notification) {
	if n.Core != c.local || !n.Channel.IsValid() {
		return
	}
	c.be.SetMask(c.local, n.Channel, n.Kind, false)
	select {
	case c.wake[n.Channel][n.Kind] <- struct{}{}:
	default:
	}
}

// Wait blocks until the occupancy the mask kind observes is reached
// on ch, or ctx is done. The notification is unmasked before every
// flag check, so a transition between the check and the wait still
// produces a wakeup; the mask is disabled again before returning.
func (c *Controller) Wait(ctx context.Context, ch Channel, kind MaskKind) error {
	want := Free
	if kind == OnOccupied {
		want = Occupied
	}
	dir := c.watchDir(ch, kind)
	return c.waitUntil(ctx, ch, kind, func() bool {
		return c.be.ReadStatus(dir) == want
	})
}

func (c *Controller) waitUntil(ctx context.Context, ch Channel, kind MaskKind, cond func() bool) error {
	wake := c.wake[ch][kind]
	// Drop a stale wakeup from an earlier cycle.
	select {
	case <-wake:
	default:
	}
	for {
		c.be.SetMask(c.local, ch, kind, true)
		if cond() {
			c.be.SetMask(c.local, ch, kind, false)
			return nil
		}
		select {
		case <-wake:
		case <-ctx.Done():
			c.be.SetMask(c.local, ch, kind, false)
			return ctx.Err()
		}
	}
}
