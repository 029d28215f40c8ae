package ipcc_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/corelink/ipcc.go/pkg/ipcc"
	"github.com/corelink/ipcc.go/pkg/ipcc/mem"
)

// recorder wraps a backend and logs every status transition so tests
// can assert strict alternation per direction.
type recorder struct {
	ipcc.Backend

	mu  sync.Mutex
	log map[ipcc.Direction][]ipcc.Occupancy
}

func newRecorder(be ipcc.Backend) *recorder {
	return &recorder{Backend: be, log: make(map[ipcc.Direction][]ipcc.Occupancy)}
}

func (r *recorder) SetStatus(dir ipcc.Direction) {
	r.record(dir, ipcc.Occupied)
	r.Backend.SetStatus(dir)
}

func (r *recorder) ClearStatus(dir ipcc.Direction) {
	r.record(dir, ipcc.Free)
	r.Backend.ClearStatus(dir)
}

func (r *recorder) record(dir ipcc.Direction, to ipcc.Occupancy) {
	r.mu.Lock()
	r.log[dir] = append(r.log[dir], to)
	r.mu.Unlock()
}

func (r *recorder) requireAlternating(t *testing.T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for dir, transitions := range r.log {
		last := ipcc.Free
		for i, to := range transitions {
			require.NotEqual(t, last, to,
				"direction %s/ch%d: transition %d repeats %s", dir.Core, dir.Channel, i, to)
			last = to
		}
	}
}

type testEnv struct {
	be        *recorder
	primary   *ipcc.Controller
	secondary *ipcc.Controller
}

func newTestEnv() *testEnv {
	be := newRecorder(mem.New())
	return &testEnv{
		be:        be,
		primary:   ipcc.New(ipcc.Primary, be),
		secondary: ipcc.New(ipcc.Secondary, be),
	}
}

func testCtx(t *testing.T) (context.Context, func()) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

func TestSimplexRoundTrip(t *testing.T) {
	env := newTestEnv()
	require.NoError(t, env.primary.Simplex().Send(3, []byte{0x42}))
	require.False(t, env.primary.IsFree(ipcc.Primary, 3))

	p, err := env.secondary.Simplex().FinishReceive(3)
	require.NoError(t, err)
	require.Equal(t, []byte{0x42}, p)
	require.True(t, env.primary.IsFree(ipcc.Primary, 3))
	env.be.requireAlternating(t)
}

func TestSimplexSendBusy(t *testing.T) {
	env := newTestEnv()
	sx := env.primary.Simplex()
	require.NoError(t, sx.Send(2, []byte("first")))

	err := sx.Send(2, []byte("second"))
	require.Equal(t, ipcc.ErrChannelBusy, err)
	// Rejection arms the on-free retry notification and leaves
	// the pending payload untouched.
	require.True(t, env.be.Unmasked(ipcc.Primary, 2, ipcc.OnFree))
	require.False(t, env.primary.IsFree(ipcc.Primary, 2))

	p, err := env.secondary.Simplex().FinishReceive(2)
	require.NoError(t, err)
	require.Equal(t, []byte("first"), p)
}

func TestFinishReceiveInvalidState(t *testing.T) {
	env := newTestEnv()
	_, err := env.secondary.Simplex().FinishReceive(4)
	require.Error(t, err)
	require.True(t, ipcc.IsInvalidState(err))
	// No mutation took place.
	require.True(t, env.primary.IsFree(ipcc.Primary, 4))
	env.be.requireAlternating(t)
}

func TestSimplexSendContextRetry(t *testing.T) {
	env := newTestEnv()
	ctx, cancel := testCtx(t)
	defer cancel()

	sx := env.primary.Simplex()
	require.NoError(t, sx.Send(0, []byte{1}))

	done := make(chan error, 1)
	go func() {
		done <- sx.SendContext(ctx, 0, []byte{2})
	}()

	// The retry is parked until the receiver drains the channel.
	select {
	case err := <-done:
		t.Fatalf("send completed while occupied: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	p, err := env.secondary.Simplex().FinishReceive(0)
	require.NoError(t, err)
	require.Equal(t, []byte{1}, p)

	require.NoError(t, <-done)
	p, err = env.secondary.Simplex().FinishReceive(0)
	require.NoError(t, err)
	require.Equal(t, []byte{2}, p)
	env.be.requireAlternating(t)
}

func TestSimplexReceiveContext(t *testing.T) {
	env := newTestEnv()
	ctx, cancel := testCtx(t)
	defer cancel()

	got := make(chan []byte, 1)
	errCh := make(chan error, 1)
	go func() {
		p, err := env.secondary.Simplex().ReceiveContext(ctx, 5)
		errCh <- err
		got <- p
	}()

	// The receiver parks on the on-occupied notification.
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, env.primary.Simplex().Send(5, []byte("hello")))

	require.NoError(t, <-errCh)
	require.Equal(t, []byte("hello"), <-got)
	require.True(t, env.primary.IsFree(ipcc.Primary, 5))
}

func TestHalfDuplexPingPong(t *testing.T) {
	env := newTestEnv()
	ctx, cancel := testCtx(t)
	defer cancel()

	const rounds = 5
	respErr := make(chan error, 1)
	go func() {
		hd := env.secondary.HalfDuplex()
		for i := 0; i < rounds; i++ {
			err := hd.Respond(ctx, 1, func(req []byte) []byte {
				return []byte{0, req[0]}
			})
			if err != nil {
				respErr <- err
				return
			}
		}
		respErr <- nil
	}()

	hd := env.primary.HalfDuplex()
	for i := 0; i < rounds; i++ {
		// A new request must never be locked out once the
		// previous response completed.
		resp, err := hd.Request(ctx, 1, []byte{byte(i + 1)})
		require.NoError(t, err)
		require.Equal(t, []byte{0, byte(i + 1)}, resp)
		require.True(t, env.primary.IsFree(ipcc.Primary, 1))
	}
	require.NoError(t, <-respErr)
	env.be.requireAlternating(t)
}

func TestHalfDuplexResponderBlocksUntilRequest(t *testing.T) {
	env := newTestEnv()
	ctx, cancel := testCtx(t)
	defer cancel()

	responded := make(chan error, 1)
	go func() {
		responded <- env.secondary.HalfDuplex().SendResponse(ctx, 1, []byte{0})
	}()

	select {
	case err := <-responded:
		t.Fatalf("response posted without a request: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, env.primary.HalfDuplex().SendRequest(ctx, 1, []byte{1}))
	require.NoError(t, <-responded)

	resp, err := env.primary.HalfDuplex().AwaitResponse(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []byte{0}, resp)
	require.True(t, env.primary.IsFree(ipcc.Primary, 1))
}

func TestHalfDuplexDeadline(t *testing.T) {
	env := newTestEnv()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := env.secondary.HalfDuplex().AwaitRequest(ctx, 2)
	require.Equal(t, context.DeadlineExceeded, err)
	// The wait disarmed its notification on the way out.
	require.False(t, env.be.Unmasked(ipcc.Secondary, 2, ipcc.OnOccupied))
}

func TestMaskIsolation(t *testing.T) {
	env := newTestEnv()
	env.be.SetMask(ipcc.Primary, 2, ipcc.OnFree, true)

	for _, kind := range []ipcc.MaskKind{ipcc.OnFree, ipcc.OnOccupied} {
		require.False(t, env.be.Unmasked(ipcc.Secondary, 2, kind),
			"%s leaked to the other core", kind)
	}
	require.False(t, env.be.Unmasked(ipcc.Primary, 2, ipcc.OnOccupied))
}

func TestPayloadTooLarge(t *testing.T) {
	be := mem.NewWithRegionSize(4)
	ctl := ipcc.New(ipcc.Primary, be)

	err := ctl.Simplex().Send(0, []byte("too large for region"))
	require.Equal(t, ipcc.ErrPayloadTooLarge, err)
	require.True(t, ctl.IsFree(ipcc.Primary, 0))
}

func TestSimplexRoundTripPayloads(t *testing.T) {
	testCases := []struct {
		name    string
		payload []byte
	}{
		{"single byte", []byte{0x42}},
		{"empty", []byte{}},
		{"text", []byte("ping")},
		{"binary", []byte{0, 1, 2, 0xff, 0xfe}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv()
			require.NoError(t, env.primary.Simplex().Send(0, tc.payload))
			p, err := env.secondary.Simplex().FinishReceive(0)
			require.NoError(t, err)
			require.Equal(t, tc.payload, p)
			require.True(t, env.primary.IsFree(ipcc.Primary, 0))
		})
	}
}

func TestChannelsIndependent(t *testing.T) {
	env := newTestEnv()
	sx := env.primary.Simplex()
	for ch := ipcc.Channel(0); ch < ipcc.NumChannels; ch++ {
		require.NoError(t, sx.Send(ch, []byte{byte(ch)}))
	}
	// Drain in reverse order; per-channel state never interferes.
	rx := env.secondary.Simplex()
	for ch := ipcc.NumChannels - 1; ch >= 0; ch-- {
		p, err := rx.FinishReceive(ipcc.Channel(ch))
		require.NoError(t, err)
		require.Equal(t, []byte{byte(ch)}, p)
	}
	env.be.requireAlternating(t)
}

func TestConcurrentChannels(t *testing.T) {
	env := newTestEnv()
	ctx, cancel := testCtx(t)
	defer cancel()

	var wg sync.WaitGroup
	for ch := ipcc.Channel(0); ch < ipcc.NumChannels; ch++ {
		wg.Add(1)
		go func(ch ipcc.Channel) {
			defer wg.Done()
			hd := env.secondary.HalfDuplex()
			for i := 0; i < 10; i++ {
				if err := hd.Respond(ctx, ch, func(req []byte) []byte {
					return req
				}); err != nil {
					panic(fmt.Sprintf("ch%d: %v", ch, err))
				}
			}
		}(ch)
		wg.Add(1)
		go func(ch ipcc.Channel) {
			defer wg.Done()
			hd := env.primary.HalfDuplex()
			for i := 0; i < 10; i++ {
				resp, err := hd.Request(ctx, ch, []byte{byte(ch), byte(i)})
				require.NoError(t, err)
				require.Equal(t, []byte{byte(ch), byte(i)}, resp)
			}
		}(ch)
	}
	wg.Wait()
	env.be.requireAlternating(t)
}
