package main

import (
	"context"
	"flag"
	"log"
	"time"

	fx "github.com/corelink/ipcc.go/pkg/framework"
	"github.com/corelink/ipcc.go/pkg/ipcc"
	"github.com/corelink/ipcc.go/pkg/ipcc/mem"
)

var (
	timeout = 5 * time.Second
	rounds  = 3
)

func init() {
	flag.DurationVar(&timeout, "timeout", timeout, "Bound for blocking waits.")
	flag.IntVar(&rounds, "rounds", rounds, "Half-duplex request/response rounds.")
}

// Runs both cores of a session in one process over the in-memory
// register file: a simplex hand-off on channel 3 followed by
// half-duplex ping-pong rounds on channel 1.
func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	be := mem.New()
	primary := ipcc.New(ipcc.Primary, be)
	secondary := ipcc.New(ipcc.Secondary, be)
	primary.Reset()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	runner := fx.NewRunnerWith(ctx)
	runner.Go(fx.NamedRun("secondary", fx.RunFunc(func(ctx context.Context) error {
		sx := secondary.Simplex()
		p, err := sx.ReceiveContext(ctx, 3)
		if err != nil {
			return err
		}
		log.Printf("secondary: simplex ch3 <- %#x", p)

		hd := secondary.HalfDuplex()
		for i := 0; i < rounds; i++ {
			err = hd.Respond(ctx, 1, func(req []byte) []byte {
				log.Printf("secondary: request ch1 <- cmd=%d", req[0])
				return []byte{0} // status ok
			})
			if err != nil {
				return err
			}
		}
		return nil
	})))
	runner.Go(fx.NamedRun("primary", fx.RunFunc(func(ctx context.Context) error {
		sx := primary.Simplex()
		if err := sx.SendContext(ctx, 3, []byte{0x42}); err != nil {
			return err
		}
		log.Printf("primary: simplex ch3 -> 0x42")

		hd := primary.HalfDuplex()
		for i := 0; i < rounds; i++ {
			resp, err := hd.Request(ctx, 1, []byte{byte(i + 1)})
			if err != nil {
				return err
			}
			log.Printf("primary: ch1 cmd=%d -> status=%d", i+1, resp[0])
		}
		return nil
	})))
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
	log.Printf("done, ch1 free=%v ch3 free=%v",
		primary.IsFree(ipcc.Primary, 1), primary.IsFree(ipcc.Primary, 3))
}
