// Package ipcc implements a dual-core channel handshake protocol.
package ipcc

// Two independent execution contexts exchange short payloads over a
// small set of shared channels, synchronized only by per-direction
// occupancy flags and per-core notification masks. Each flag
// transition has a unique writer: the sender flips Free to Occupied
// when it posts a payload, the receiver flips Occupied to Free when
// it consumes one. That assignment substitutes for locking; there is
// no compare-and-swap across cores anywhere in the protocol.
//
// Two transfer disciplines are layered over the flags. Simplex is a
// one-way stream with at most one payload in flight per direction;
// sends are non-blocking and rejected while the direction is
// occupied. Half-duplex multiplexes a request/response ping-pong
// over a single direction: Occupied means request posted, response
// pending; Free means response posted, cycle complete.
//
// The protocol never inspects payload contents. A payload store is
// always ordered before the flag flip that publishes it, and reads
// are ordered after the flag observation, so a receiver never sees a
// flag without a stable payload behind it.
//
// Producer/consumer roles are symmetric: each core holds its own
// Controller over a shared Backend.
