package ipcc

// Core identifies one of the two participants of a session.
type Core uint8

// The two cores. Identities are fixed for the life of a session
// and never migrate.
const (
	Primary Core = iota
	Secondary
)

// Peer returns the other core.
func (c Core) Peer() Core {
	if c == Primary {
		return Secondary
	}
	return Primary
}

// String implements fmt.Stringer.
func (c Core) String() string {
	if c == Primary {
		return "primary"
	}
	return "secondary"
}

// Channel identifies one of the communication lanes shared by both
// cores. Channels are independent: no ordering is implied across
// different channels.
type Channel uint8

// NumChannels is the number of lanes per session. This is a
// configuration constant, not part of the protocol logic.
const NumChannels = 6

// IsValid reports whether the channel is within range.
func (ch Channel) IsValid() bool {
	return ch < NumChannels
}

// Direction denotes traffic flowing out of a core on a channel.
// It is the unit over which an occupancy flag is tracked.
type Direction struct {
	Core    Core
	Channel Channel
}

// Dir is shorthand for constructing a Direction.
func Dir(core Core, ch Channel) Direction {
	return Direction{Core: core, Channel: ch}
}

// Receiver returns the core consuming traffic on this direction.
func (d Direction) Receiver() Core {
	return d.Core.Peer()
}

// Occupancy is the two-valued state of a direction.
type Occupancy uint8

// Occupancy states. Only the sending core may transition a direction
// Free to Occupied, and only the receiving core Occupied to Free.
const (
	Free Occupancy = iota
	Occupied
)

// String implements fmt.Stringer.
func (o Occupancy) String() string {
	if o == Free {
		return "free"
	}
	return "occupied"
}

// MaskKind selects one of the two notification masks a core holds
// per channel.
type MaskKind uint8

// Notification mask kinds.
const (
	// OnFree raises a notification when the core's outbound
	// direction on the channel transitions to Free.
	OnFree MaskKind = iota
	// OnOccupied raises a notification when the core's inbound
	// direction on the channel transitions to Occupied.
	OnOccupied

	// MaskKinds is the number of mask kinds per (core, channel).
	MaskKinds = 2
)

// String implements fmt.Stringer.
func (k MaskKind) String() string {
	if k == OnFree {
		return "on-free"
	}
	return "on-occupied"
}

// Notification is a wake-up signal delivered to a core when an
// unmasked occupancy transition it observes takes place. It carries
// no data; payload retrieval always goes through the backend.
type Notification struct {
	Core    Core
	Channel Channel
	Kind    MaskKind
}

// NotifyHandler receives notifications for one core.
type NotifyHandler interface {
	HandleNotify(Notification)
}

// NotifyFunc is func type of NotifyHandler.
type NotifyFunc func(Notification)

// HandleNotify implements NotifyHandler.
func (f NotifyFunc) HandleNotify(n Notification) {
	f(n)
}

// Backend is the register-level boundary the controller depends on.
// Implementations target real status/mask registers, an in-process
// register file (package mem), or a replicated register file linked
// to the peer process (package bridge).
//
// Setting or clearing a status bit must additionally check the
// observing core's mask at the moment of the transition and dispatch
// a Notification when unmasked: Occupied transitions are observed by
// the direction's receiver through OnOccupied, Free transitions by
// the direction's sender through OnFree. Masks never gate the
// transition itself.
//
// Each status bit has a unique writer per transition, so backends
// never need atomicity between the two cores' writes; they only
// provide the ordering edge between a payload store and the flag
// flip that publishes it.
type Backend interface {
	// ReadStatus returns the occupancy of a direction.
	ReadStatus(dir Direction) Occupancy
	// SetStatus latches a direction Occupied. Called only by the
	// direction's sender.
	SetStatus(dir Direction)
	// ClearStatus latches a direction Free. Called only by the
	// direction's receiver.
	ClearStatus(dir Direction)

	// SetMask enables or disables notification delivery for one
	// (core, channel, kind). Idempotent, advisory to the
	// notification path only.
	SetMask(core Core, ch Channel, kind MaskKind, enabled bool)
	// Unmasked reports whether notifications are enabled for one
	// (core, channel, kind).
	Unmasked(core Core, ch Channel, kind MaskKind) bool

	// StorePayload writes into the payload region of a direction.
	// Valid only while the caller holds memory access to the
	// region under the active discipline.
	StorePayload(dir Direction, p []byte) error
	// LoadPayload copies out the payload region of a direction.
	LoadPayload(dir Direction) []byte

	// Notify installs the notification handler for a core.
	Notify(core Core, h NotifyHandler)
	// Reset clears every direction to Free and disables all
	// masks.
	Reset()
}
