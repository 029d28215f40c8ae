package ipcc

import (
	"context"
)

// HalfDuplex is the request/response ping-pong discipline. One
// direction carries a strict two-phase cycle owned alternately by
// requester and responder: Occupied means request posted, response
// pending; Free means response posted, cycle complete. Request and
// response are multiplexed over the same occupancy bit and the same
// payload region; memory access to the region is kept by the
// responder while the bit is Occupied so it can post the response in
// place.
//
// All calls block and are bounded by ctx; half-duplex assumes a
// single outstanding exchange per direction and no buffering.
type HalfDuplex struct {
	c *Controller
}

// Prepare arms the notifications a half-duplex participant relies
// on: on-occupied for an incoming request, on-free for an incoming
// response. It configures masks only; data retrieval happens in
// AwaitRequest and AwaitResponse.
func (h HalfDuplex) Prepare(ch Channel) {
	h.c.be.SetMask(h.c.local, ch, OnOccupied, true)
	h.c.be.SetMask(h.c.local, ch, OnFree, true)
}

// SendRequest posts a request on the local core's outbound
// direction. It waits for the previous cycle to complete, writes the
// payload, flips the direction Occupied and arms the on-free
// notification so the requester is woken when the response lands.
func (h HalfDuplex) SendRequest(ctx context.Context, ch Channel, payload []byte) error {
	dir := Dir(h.c.local, ch)
	err := h.c.waitUntil(ctx, ch, OnFree, func() bool {
		return h.c.be.ReadStatus(dir) == Free
	})
	if err != nil {
		return err
	}
	if err = h.c.be.StorePayload(dir, payload); err != nil {
		return err
	}
	h.c.be.SetStatus(dir)
	h.c.be.SetMask(h.c.local, ch, OnFree, true)
	return nil
}

// AwaitResponse waits, after SendRequest, for the responder to
// complete the cycle and returns the response payload. The region
// belongs to the requester again once the direction reads Free, so
// the load here needs no further handshake.
func (h HalfDuplex) AwaitResponse(ctx context.Context, ch Channel) ([]byte, error) {
	dir := Dir(h.c.local, ch)
	err := h.c.waitUntil(ctx, ch, OnFree, func() bool {
		return h.c.be.ReadStatus(dir) == Free
	})
	if err != nil {
		return nil, err
	}
	return h.c.be.LoadPayload(dir), nil
}

// AwaitRequest is the responder-side wait for a request on the local
// core's inbound direction. The request payload is copied out with
// the status unchanged: the responder keeps memory access to post
// the subsequent response.
func (h HalfDuplex) AwaitRequest(ctx context.Context, ch Channel) ([]byte, error) {
	dir := Dir(h.c.local.Peer(), ch)
	err := h.c.waitUntil(ctx, ch, OnOccupied, func() bool {
		return h.c.be.ReadStatus(dir) == Occupied
	})
	if err != nil {
		return nil, err
	}
	return h.c.be.LoadPayload(dir), nil
}

// SendResponse completes a cycle on the local core's inbound
// direction: it waits for a request to exist, writes the response
// into the shared region, flips the direction Free and arms the
// on-occupied notification for the next cycle.
func (h HalfDuplex) SendResponse(ctx context.Context, ch Channel, payload []byte) error {
	dir := Dir(h.c.local.Peer(), ch)
	err := h.c.waitUntil(ctx, ch, OnOccupied, func() bool {
		return h.c.be.ReadStatus(dir) == Occupied
	})
	if err != nil {
		return err
	}
	if err = h.c.be.StorePayload(dir, payload); err != nil {
		return err
	}
	h.c.be.ClearStatus(dir)
	h.c.be.SetMask(h.c.local, ch, OnOccupied, true)
	return nil
}

// Request runs one full requester cycle: post the request, wait for
// and return the response.
func (h HalfDuplex) Request(ctx context.Context, ch Channel, req []byte) ([]byte, error) {
	if err := h.SendRequest(ctx, ch, req); err != nil {
		return nil, err
	}
	return h.AwaitResponse(ctx, ch)
}

// Respond runs one full responder cycle: wait for a request, derive
// the response with fn and post it.
func (h HalfDuplex) Respond(ctx context.Context, ch Channel, fn func(req []byte) []byte) error {
	req, err := h.AwaitRequest(ctx, ch)
	if err != nil {
		return err
	}
	return h.SendResponse(ctx, ch, fn(req))
}
