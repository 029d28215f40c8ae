package bridge

import (
	"fmt"

	"github.com/denisbrodbeck/machineid"

	"github.com/corelink/ipcc.go/pkg/ipcc"
)

// DefaultSession derives a session name unique to this machine, used
// when the operator does not name the session explicitly. Both sides
// of a bridged pair must resolve the same name, so this default only
// fits same-host sessions (e.g. a TCP or MQTT loopback pair).
func DefaultSession() string {
	id, err := machineid.ProtectedID("ipcc")
	if err != nil {
		panic(err)
	}
	return "ipcc-" + id[:12]
}

// CoreTopic returns the conventional publish topic for a core within
// a session: <session>/<core>. Each side publishes to its own core
// topic and subscribes to the peer's.
func CoreTopic(session string, core ipcc.Core) string {
	return fmt.Sprintf("%s/%s", session, core)
}
