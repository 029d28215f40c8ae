package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/corelink/ipcc.go/pkg/bridge/env"
	fx "github.com/corelink/ipcc.go/pkg/framework"
	"github.com/corelink/ipcc.go/pkg/ipcc"
)

var (
	role     = "echo"
	channel  = 1
	interval = time.Second
)

func init() {
	env.SetupFlags()
	flag.StringVar(&role, "role", role, "Role: echo (half-duplex responder) or ping (requester).")
	flag.IntVar(&channel, "channel", channel, "Channel to serve.")
	flag.DurationVar(&interval, "interval", interval, "Request interval in ping role.")
}

// One core of a bridged session. The echo role answers every
// half-duplex request with its own payload; the ping role issues a
// timestamped request per interval and logs the round trip.
func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	peer, runnables := env.Default().MustConnect()
	ctl := ipcc.New(peer.Local(), peer)
	ch := ipcc.Channel(channel)
	if !ch.IsValid() {
		log.Fatalf("channel out of range: %d", channel)
	}

	runner := fx.NewRunner().HandleSignals()
	runner.Go(runnables...)
	runner.Go(fx.NamedRun("peer", peer))

	switch role {
	case "echo":
		runner.Go(fx.NamedRun("echo", fx.RunFunc(func(ctx context.Context) error {
			hd := ctl.HalfDuplex()
			for {
				err := hd.Respond(ctx, ch, func(req []byte) []byte {
					log.Printf("ch%d <- %d bytes", ch, len(req))
					return req
				})
				if err != nil {
					return err
				}
			}
		})))
	case "ping":
		runner.Go(fx.NamedRun("ping", fx.RunFunc(func(ctx context.Context) error {
			hd := ctl.HalfDuplex()
			for seq := byte(1); ; seq++ {
				start := time.Now()
				resp, err := hd.Request(ctx, ch, []byte{seq})
				if err != nil {
					return err
				}
				log.Printf("ch%d seq=%d reply=%d bytes rtt=%v", ch, seq, len(resp), time.Since(start))
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(interval):
				}
			}
		})))
	default:
		log.Fatalf("unknown role: %q", role)
	}

	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
