package ipcc

import (
	"context"
)

// Simplex is the unidirectional stream discipline. The local core's
// outbound direction on a channel alternates strictly between Free
// and Occupied, sender-driven, with at most one payload in flight.
type Simplex struct {
	c *Controller
}

// Send posts a payload on the local core's outbound direction.
// Non-blocking: if the direction is still occupied the send is
// rejected with ErrChannelBusy and the on-free notification is
// armed, so the caller can retry once the receiver drains the
// channel. Neither the flag nor the pending payload is touched on
// rejection.
func (s Simplex) Send(ch Channel, payload []byte) error {
	dir := Dir(s.c.local, ch)
	if s.c.be.ReadStatus(dir) == Occupied {
		s.c.be.SetMask(s.c.local, ch, OnFree, true)
		return ErrChannelBusy
	}
	if err := s.c.be.StorePayload(dir, payload); err != nil {
		return err
	}
	// The store above is committed before the flip, so the
	// receiver never observes Occupied with an unstable payload.
	s.c.be.SetStatus(dir)
	return nil
}

// SendContext is the blocking form of Send: it waits, bounded by
// ctx, for the direction to drain and retries on each on-free
// notification.
func (s Simplex) SendContext(ctx context.Context, ch Channel, payload []byte) error {
	for {
		err := s.Send(ch, payload)
		if err != ErrChannelBusy {
			return err
		}
		if err = s.c.Wait(ctx, ch, OnFree); err != nil {
			return err
		}
	}
}

// PrepareReceive arms the on-occupied notification for the local
// core's inbound direction on ch. It does not read data.
func (s Simplex) PrepareReceive(ch Channel) {
	s.c.be.SetMask(s.c.local, ch, OnOccupied, true)
}

// FinishReceive consumes the posted payload from the local core's
// inbound direction and hands the channel back to the sender.
// Calling it while the direction is free is a programming error and
// yields an InvalidStateError without mutation.
func (s Simplex) FinishReceive(ch Channel) ([]byte, error) {
	dir := Dir(s.c.local.Peer(), ch)
	if s.c.be.ReadStatus(dir) != Occupied {
		return nil, &InvalidStateError{Op: "finish-receive", Dir: dir, Occupancy: Free}
	}
	p := s.c.be.LoadPayload(dir)
	s.c.be.ClearStatus(dir)
	return p, nil
}

// ReceiveContext arms the inbound notification, waits, bounded by
// ctx, for a payload to be posted, and consumes it.
func (s Simplex) ReceiveContext(ctx context.Context, ch Channel) ([]byte, error) {
	dir := Dir(s.c.local.Peer(), ch)
	err := s.c.waitUntil(ctx, ch, OnOccupied, func() bool {
		return s.c.be.ReadStatus(dir) == Occupied
	})
	if err != nil {
		return nil, err
	}
	return s.FinishReceive(ch)
}
