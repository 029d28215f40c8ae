// Package bridge links the two cores of a session across processes.
package bridge

// Each process hosts one core over a Peer, which implements
// ipcc.Backend on a replicated register file. A local status
// transition is applied to the replica and published to the other
// side as a protobuf frame; an incoming frame updates the replica
// and runs the same observer-mask check a hardware transition would.
// Payload bytes travel inside the frame that flips the flag, so the
// write-before-flip ordering holds by construction: the remote side
// never sees a flag without the payload that came with it.
//
// Masks and notification handlers are local to each side and never
// cross the wire.

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	"github.com/corelink/ipcc.go/pkg/ipcc"
	pb "github.com/corelink/ipcc.go/pkg/proto/ipcc/v1"
)

// DefaultRegionSize is the payload region size used by NewPeer.
const DefaultRegionSize = 256

// Peer is one side of a bridged session.
type Peer struct {
	ReadWriter PacketReadWriter

	local      ipcc.Core
	regionSize int

	mu      sync.Mutex
	status  [2][ipcc.NumChannels]ipcc.Occupancy
	masks   [ipcc.NumChannels][ipcc.MaskKinds]bool
	payload [2][ipcc.NumChannels][]byte
	handler ipcc.NotifyHandler

	sendLock sync.Mutex
}

// NewPeer creates the peer hosting the local core over a frame
// transport.
func NewPeer(local ipcc.Core, rw PacketReadWriter) *Peer {
	return &Peer{ReadWriter: rw, local: local, regionSize: DefaultRegionSize}
}

// WithRegionSize overrides the payload region size.
func (p *Peer) WithRegionSize(size int) *Peer {
	p.regionSize = size
	return p
}

// Local returns the core this peer hosts.
func (p *Peer) Local() ipcc.Core {
	return p.local
}

// ReadStatus implements ipcc.Backend.
func (p *Peer) ReadStatus(dir ipcc.Direction) ipcc.Occupancy {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status[dir.Core][dir.Channel]
}

// SetStatus implements ipcc.Backend. Called by the local controller
// for its outbound directions only; the transition is replicated to
// the other side together with the staged payload.
func (p *Peer) SetStatus(dir ipcc.Direction) {
	p.apply(dir, ipcc.Occupied, nil, true)
}

// ClearStatus implements ipcc.Backend.
func (p *Peer) ClearStatus(dir ipcc.Direction) {
	p.apply(dir, ipcc.Free, nil, true)
}

// apply commits a transition to the replica, dispatches the local
// observer notification if armed, and optionally publishes the
// transition. payload overrides the staged region when the
// transition arrived from the wire.
func (p *Peer) apply(dir ipcc.Direction, to ipcc.Occupancy, payload []byte, publish bool) {
	observer, kind := observerOf(dir, to)
	var notify ipcc.NotifyHandler
	var carry []byte

	p.mu.Lock()
	if payload != nil {
		p.payload[dir.Core][dir.Channel] = payload
	}
	p.status[dir.Core][dir.Channel] = to
	carry = p.payload[dir.Core][dir.Channel]
	if observer == p.local && p.masks[dir.Channel][kind] {
		notify = p.handler
	}
	p.mu.Unlock()

	if publish {
		op := pb.Frame_SET
		if to == ipcc.Free {
			op = pb.Frame_CLEAR
		}
		p.publish(&pb.Frame{
			Op:      op,
			Core:    uint32(dir.Core),
			Channel: uint32(dir.Channel),
			Payload: carry,
		})
	}
	if notify != nil {
		notify.HandleNotify(ipcc.Notification{
			Core:    observer,
			Channel: dir.Channel,
			Kind:    kind,
		})
	}
}

func observerOf(dir ipcc.Direction, to ipcc.Occupancy) (ipcc.Core, ipcc.MaskKind) {
	if to == ipcc.Occupied {
		return dir.Receiver(), ipcc.OnOccupied
	}
	return dir.Core, ipcc.OnFree
}

func (p *Peer) publish(f *pb.Frame) {
	pkt, err := proto.Marshal(f)
	if err != nil {
		glog.Errorf("marshal frame: %v", err)
		return
	}
	p.sendLock.Lock()
	err = p.ReadWriter.WritePacket(pkt)
	p.sendLock.Unlock()
	if err != nil {
		glog.Errorf("publish %s ch%d: %v", f.Op, f.Channel, err)
	}
}

// SetMask implements ipcc.Backend. Masks are kept for the local core
// only; the remote side maintains its own.
func (p *Peer) SetMask(core ipcc.Core, ch ipcc.Channel, kind ipcc.MaskKind, enabled bool) {
	if core != p.local {
		return
	}
	p.mu.Lock()
	p.masks[ch][kind] = enabled
	p.mu.Unlock()
}

// Unmasked implements ipcc.Backend.
func (p *Peer) Unmasked(core ipcc.Core, ch ipcc.Channel, kind ipcc.MaskKind) bool {
	if core != p.local {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.masks[ch][kind]
}

// StorePayload implements ipcc.Backend. The payload is staged in the
// replica; it crosses the wire with the flag flip that publishes it.
func (p *Peer) StorePayload(dir ipcc.Direction, b []byte) error {
	if len(b) > p.regionSize {
		return ipcc.ErrPayloadTooLarge
	}
	p.mu.Lock()
	p.payload[dir.Core][dir.Channel] = append([]byte(nil), b...)
	p.mu.Unlock()
	return nil
}

// LoadPayload implements ipcc.Backend.
func (p *Peer) LoadPayload(dir ipcc.Direction) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.payload[dir.Core][dir.Channel]...)
}

// Notify implements ipcc.Backend.
func (p *Peer) Notify(core ipcc.Core, h ipcc.NotifyHandler) {
	if core != p.local {
		return
	}
	p.mu.Lock()
	p.handler = h
	p.mu.Unlock()
}

// Reset implements ipcc.Backend. The reset is replicated so both
// replicas converge on the cleared state.
func (p *Peer) Reset() {
	p.reset()
	p.publish(&pb.Frame{Op: pb.Frame_RESET, Core: uint32(p.local)})
}

func (p *Peer) reset() {
	p.mu.Lock()
	for core := range p.status {
		for ch := range p.status[core] {
			p.status[core][ch] = ipcc.Free
			p.payload[core][ch] = nil
		}
	}
	for ch := range p.masks {
		for kind := range p.masks[ch] {
			p.masks[ch][kind] = false
		}
	}
	p.mu.Unlock()
}

// Run consumes frames from the transport until ctx is done or the
// transport fails. Implements framework.Runnable.
func (p *Peer) Run(ctx context.Context) error {
	p.publish(&pb.Frame{Op: pb.Frame_HELLO, Core: uint32(p.local)})
	pktCh, errCh := make(chan []byte), make(chan error, 1)
	go p.readLoop(pktCh, errCh)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			if err == io.EOF {
				return nil
			}
			return err
		case pkt := <-pktCh:
			var f pb.Frame
			if err := proto.Unmarshal(pkt, &f); err != nil {
				glog.Warningf("bad frame (%d bytes): %v", len(pkt), err)
				continue
			}
			p.handleFrame(&f)
		}
	}
}

func (p *Peer) readLoop(pktCh chan []byte, errCh chan error) {
	for {
		pkt, err := p.ReadWriter.ReadPacket()
		if err != nil {
			errCh <- err
			return
		}
		pktCh <- pkt
	}
}

func (p *Peer) handleFrame(f *pb.Frame) {
	if glog.V(2) {
		glog.Infof("RCV %s core=%d ch=%d (%d bytes)", f.Op, f.Core, f.Channel, len(f.Payload))
	}
	switch f.Op {
	case pb.Frame_SET, pb.Frame_CLEAR:
		if f.Channel >= ipcc.NumChannels || f.Core > uint32(ipcc.Secondary) {
			glog.Warningf("frame out of range: core=%d ch=%d", f.Core, f.Channel)
			return
		}
		to := ipcc.Occupied
		if f.Op == pb.Frame_CLEAR {
			to = ipcc.Free
		}
		dir := ipcc.Dir(ipcc.Core(f.Core), ipcc.Channel(f.Channel))
		// Non-nil even when empty, so a posted empty payload
		// still replaces the staged region.
		p.apply(dir, to, append(make([]byte, 0, len(f.Payload)), f.Payload...), false)
	case pb.Frame_RESET:
		p.reset()
	case pb.Frame_HELLO:
		glog.V(1).Infof("peer core %s joined", ipcc.Core(f.Core))
	}
}

// Close implements io.Closer.
func (p *Peer) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
