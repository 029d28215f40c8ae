package bridge

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/corelink/ipcc.go/pkg/ipcc"
)

// chanReadWriter is an in-memory frame pipe between the two sides.
type chanReadWriter struct {
	in  chan []byte
	out chan []byte
}

func (c *chanReadWriter) ReadPacket() ([]byte, error) {
	pkt, ok := <-c.in
	if !ok {
		return nil, io.EOF
	}
	return pkt, nil
}

func (c *chanReadWriter) WritePacket(pkt []byte) error {
	c.out <- append([]byte(nil), pkt...)
	return nil
}

func newFramePipe() (*chanReadWriter, *chanReadWriter) {
	a, b := make(chan []byte, 16), make(chan []byte, 16)
	return &chanReadWriter{in: a, out: b}, &chanReadWriter{in: b, out: a}
}

type bridgeTestEnv struct {
	primary   *ipcc.Controller
	secondary *ipcc.Controller
	peerA     *Peer
	peerB     *Peer
}

func newBridgeTestEnv(t *testing.T, ctx context.Context) *bridgeTestEnv {
	rwA, rwB := newFramePipe()
	env := &bridgeTestEnv{
		peerA: NewPeer(ipcc.Primary, rwA),
		peerB: NewPeer(ipcc.Secondary, rwB),
	}
	env.primary = ipcc.New(ipcc.Primary, env.peerA)
	env.secondary = ipcc.New(ipcc.Secondary, env.peerB)
	go env.peerA.Run(ctx)
	go env.peerB.Run(ctx)
	return env
}

// eventually polls until cond holds; replica convergence is
// asynchronous by nature.
func eventually(t *testing.T, cond func() bool, msg string) {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal(msg)
}

func TestBridgeSimplex(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	env := newBridgeTestEnv(t, ctx)

	require.NoError(t, env.primary.Simplex().Send(3, []byte{0x42}))

	p, err := env.secondary.Simplex().ReceiveContext(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, []byte{0x42}, p)

	// The clear travels back; the sender's replica converges to
	// free.
	eventually(t, func() bool {
		return env.primary.IsFree(ipcc.Primary, 3)
	}, "sender replica never drained")
}

func TestBridgeHalfDuplex(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	env := newBridgeTestEnv(t, ctx)

	respErr := make(chan error, 1)
	go func() {
		hd := env.secondary.HalfDuplex()
		for i := 0; i < 3; i++ {
			if err := hd.Respond(ctx, 1, func(req []byte) []byte {
				return append([]byte{0}, req...)
			}); err != nil {
				respErr <- err
				return
			}
		}
		respErr <- nil
	}()

	hd := env.primary.HalfDuplex()
	for i := 0; i < 3; i++ {
		resp, err := hd.Request(ctx, 1, []byte{byte(i)})
		require.NoError(t, err)
		require.Equal(t, []byte{0, byte(i)}, resp)
	}
	require.NoError(t, <-respErr)
}

func TestBridgeReset(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	env := newBridgeTestEnv(t, ctx)

	require.NoError(t, env.primary.Simplex().Send(2, []byte{1}))
	eventually(t, func() bool {
		return !env.secondary.IsFree(ipcc.Primary, 2)
	}, "set never replicated")

	env.primary.Reset()
	eventually(t, func() bool {
		return env.secondary.IsFree(ipcc.Primary, 2)
	}, "reset never replicated")
	require.True(t, env.primary.IsFree(ipcc.Primary, 2))
}

func TestBridgeMasksStayLocal(t *testing.T) {
	rwA, _ := newFramePipe()
	peer := NewPeer(ipcc.Primary, rwA)

	peer.SetMask(ipcc.Primary, 2, ipcc.OnFree, true)
	require.True(t, peer.Unmasked(ipcc.Primary, 2, ipcc.OnFree))
	// The remote core's masks are not this side's business.
	peer.SetMask(ipcc.Secondary, 2, ipcc.OnFree, true)
	require.False(t, peer.Unmasked(ipcc.Secondary, 2, ipcc.OnFree))
}

func TestBridgePayloadBound(t *testing.T) {
	rwA, _ := newFramePipe()
	peer := NewPeer(ipcc.Primary, rwA).WithRegionSize(2)
	err := peer.StorePayload(ipcc.Dir(ipcc.Primary, 0), []byte{1, 2, 3})
	require.Equal(t, ipcc.ErrPayloadTooLarge, err)
}
