// Package mem provides an in-process register file backend.
package mem

import (
	"sync"

	"github.com/corelink/ipcc.go/pkg/ipcc"
)

// DefaultRegionSize is the payload region size used by New.
const DefaultRegionSize = 64

// Backend is a register file held in process memory, serving both
// cores of a single-process session. It doubles as the test double
// for the protocol: the mutex supplies the store/flip ordering a
// hardware backend gets from its bus, and the observer's mask is
// checked at the moment of every transition exactly as the interrupt
// logic would.
type Backend struct {
	mu         sync.Mutex
	status     [2][ipcc.NumChannels]ipcc.Occupancy
	masks      [2][ipcc.NumChannels][ipcc.MaskKinds]bool
	payload    [2][ipcc.NumChannels][]byte
	regionSize int
	handlers   [2]ipcc.NotifyHandler
}

// New creates a cleared backend with DefaultRegionSize payload
// regions.
func New() *Backend {
	return NewWithRegionSize(DefaultRegionSize)
}

// NewWithRegionSize creates a cleared backend with the given payload
// region size per direction.
func NewWithRegionSize(size int) *Backend {
	return &Backend{regionSize: size}
}

// ReadStatus implements ipcc.Backend.
func (b *Backend) ReadStatus(dir ipcc.Direction) ipcc.Occupancy {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status[dir.Core][dir.Channel]
}

// SetStatus implements ipcc.Backend.
func (b *Backend) SetStatus(dir ipcc.Direction) {
	b.transition(dir, ipcc.Occupied)
}

// ClearStatus implements ipcc.Backend.
func (b *Backend) ClearStatus(dir ipcc.Direction) {
	b.transition(dir, ipcc.Free)
}

func (b *Backend) transition(dir ipcc.Direction, to ipcc.Occupancy) {
	observer, kind := Observer(dir, to)
	var notify ipcc.NotifyHandler

	b.mu.Lock()
	b.status[dir.Core][dir.Channel] = to
	if b.masks[observer][dir.Channel][kind] {
		notify = b.handlers[observer]
	}
	b.mu.Unlock()

	// Dispatch outside the lock; handlers may touch masks.
	if notify != nil {
		notify.HandleNotify(ipcc.Notification{
			Core:    observer,
			Channel: dir.Channel,
			Kind:    kind,
		})
	}
}

// Observer resolves which core observes a transition and through
// which mask kind: the receiver watches Occupied through OnOccupied,
// the sender watches Free through OnFree.
func Observer(dir ipcc.Direction, to ipcc.Occupancy) (ipcc.Core, ipcc.MaskKind) {
	if to == ipcc.Occupied {
		return dir.Receiver(), ipcc.OnOccupied
	}
	return dir.Core, ipcc.OnFree
}

// SetMask implements ipcc.Backend.
func (b *Backend) SetMask(core ipcc.Core, ch ipcc.Channel, kind ipcc.MaskKind, enabled bool) {
	b.mu.Lock()
	b.masks[core][ch][kind] = enabled
	b.mu.Unlock()
}

// Unmasked implements ipcc.Backend.
func (b *Backend) Unmasked(core ipcc.Core, ch ipcc.Channel, kind ipcc.MaskKind) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.masks[core][ch][kind]
}

// StorePayload implements ipcc.Backend.
func (b *Backend) StorePayload(dir ipcc.Direction, p []byte) error {
	if len(p) > b.regionSize {
		return ipcc.ErrPayloadTooLarge
	}
	b.mu.Lock()
	b.payload[dir.Core][dir.Channel] = append([]byte(nil), p...)
	b.mu.Unlock()
	return nil
}

// LoadPayload implements ipcc.Backend.
func (b *Backend) LoadPayload(dir ipcc.Direction) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.payload[dir.Core][dir.Channel]...)
}

// Notify implements ipcc.Backend.
func (b *Backend) Notify(core ipcc.Core, h ipcc.NotifyHandler) {
	b.mu.Lock()
	b.handlers[core] = h
	b.mu.Unlock()
}

// Reset implements ipcc.Backend.
func (b *Backend) Reset() {
	b.mu.Lock()
	for core := range b.status {
		for ch := range b.status[core] {
			b.status[core][ch] = ipcc.Free
			b.payload[core][ch] = nil
			for kind := range b.masks[core][ch] {
				b.masks[core][ch][kind] = false
			}
		}
	}
	b.mu.Unlock()
}
