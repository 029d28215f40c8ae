package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/corelink/ipcc.go/pkg/bridge/env"
	fx "github.com/corelink/ipcc.go/pkg/framework"
	"github.com/corelink/ipcc.go/pkg/ipcc"
)

var (
	waitTimeout = 10 * time.Second
)

func init() {
	env.SetupFlags()
	flag.DurationVar(&waitTimeout, "timeout", waitTimeout, "Bound for blocking commands.")
}

const shellKey = "$shell"

// Shell drives one core of a bridged session interactively.
type Shell struct {
	Shell *ishell.Shell
	Ctl   *ipcc.Controller
}

func shellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

func parseChannel(arg string) (ipcc.Channel, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || !ipcc.Channel(n).IsValid() {
		return 0, fmt.Errorf("bad channel: %q", arg)
	}
	return ipcc.Channel(n), nil
}

// parseData accepts 0x-prefixed hex or raw text.
func parseData(arg string) ([]byte, error) {
	if strings.HasPrefix(arg, "0x") {
		return hex.DecodeString(arg[2:])
	}
	return []byte(arg), nil
}

func formatData(p []byte) string {
	return "0x" + hex.EncodeToString(p)
}

func boundCtx() (context.Context, func()) {
	return context.WithTimeout(context.Background(), waitTimeout)
}

var commands = []*ishell.Cmd{
	{
		Name: "status",
		Help: "show occupancy of all directions",
		Func: func(c *ishell.Context) {
			s := shellFrom(c)
			for _, core := range []ipcc.Core{ipcc.Primary, ipcc.Secondary} {
				states := make([]string, ipcc.NumChannels)
				for ch := range states {
					states[ch] = "F"
					if !s.Ctl.IsFree(core, ipcc.Channel(ch)) {
						states[ch] = "O"
					}
				}
				c.Printf("%-9s -> %s\n", core, strings.Join(states, " "))
			}
		},
	},
	{
		Name: "send",
		Help: "send <channel> <data>: simplex non-blocking send",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 2 {
				c.Err(fmt.Errorf("usage: send <channel> <data>"))
				return
			}
			s := shellFrom(c)
			ch, err := parseChannel(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			p, err := parseData(c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			if err = s.Ctl.Simplex().Send(ch, p); err != nil {
				c.Err(err)
				return
			}
			c.Printf("sent %d bytes on ch%d\n", len(p), ch)
		},
	},
	{
		Name: "recv",
		Help: "recv <channel>: simplex blocking receive",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("usage: recv <channel>"))
				return
			}
			s := shellFrom(c)
			ch, err := parseChannel(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			ctx, cancel := boundCtx()
			defer cancel()
			p, err := s.Ctl.Simplex().ReceiveContext(ctx, ch)
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("ch%d <- %s\n", ch, formatData(p))
		},
	},
	{
		Name: "request",
		Help: "request <channel> <data>: half-duplex request, waits for response",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 2 {
				c.Err(fmt.Errorf("usage: request <channel> <data>"))
				return
			}
			s := shellFrom(c)
			ch, err := parseChannel(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			req, err := parseData(c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			ctx, cancel := boundCtx()
			defer cancel()
			resp, err := s.Ctl.HalfDuplex().Request(ctx, ch, req)
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("ch%d <- %s\n", ch, formatData(resp))
		},
	},
	{
		Name: "respond",
		Help: "respond <channel> <data>: serve one half-duplex cycle",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 2 {
				c.Err(fmt.Errorf("usage: respond <channel> <data>"))
				return
			}
			s := shellFrom(c)
			ch, err := parseChannel(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			resp, err := parseData(c.Args[1])
			if err != nil {
				c.Err(err)
				return
			}
			ctx, cancel := boundCtx()
			defer cancel()
			err = s.Ctl.HalfDuplex().Respond(ctx, ch, func(req []byte) []byte {
				c.Printf("ch%d <- request %s\n", ch, formatData(req))
				return resp
			})
			if err != nil {
				c.Err(err)
			}
		},
	},
	{
		Name: "reset",
		Help: "clear all directions and masks on both sides",
		Func: func(c *ishell.Context) {
			shellFrom(c).Ctl.Reset()
		},
	},
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	peer, runnables := env.Default().MustConnect()
	ctl := ipcc.New(peer.Local(), peer)

	runner := fx.NewRunner()
	runner.Go(runnables...)
	runner.Go(fx.NamedRun("peer", peer))

	s := &Shell{Shell: ishell.New(), Ctl: ctl}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(fmt.Sprintf("[%s] > ", peer.Local()))
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	if args := flag.Args(); len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	s.Shell.Run()
}
