// Package env provides common configuration to set up bridged sessions.
package env

import (
	"flag"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"

	"github.com/corelink/ipcc.go/pkg/bridge"
	"github.com/corelink/ipcc.go/pkg/bridge/mqtt"
	"github.com/corelink/ipcc.go/pkg/bridge/stream"
	"github.com/corelink/ipcc.go/pkg/bridge/websocket"
	fx "github.com/corelink/ipcc.go/pkg/framework"
	"github.com/corelink/ipcc.go/pkg/ipcc"
)

// Config provides common options to set up one side of a session.
type Config struct {
	// Core selects which core this process hosts: "primary" or
	// "secondary".
	Core string

	// Session names the session; both sides must agree. Empty
	// selects a machine-derived default.
	Session string

	// LinkURL specifies how to reach the other side.
	// e.g. mqtt://host:port/prefix, ws://host:port/path,
	// tcp://host:port or tcp-listen://:port
	LinkURL string
}

var defaultConfig = Config{
	Core:    "primary",
	LinkURL: "mqtt://localhost:1883/ipcc/",
}

func init() {
	if val := os.Getenv("IPCC_CORE"); val != "" {
		defaultConfig.Core = val
	}
	if val := os.Getenv("IPCC_SESSION"); val != "" {
		defaultConfig.Session = val
	}
	if val := os.Getenv("IPCC_LINK_URL"); val != "" {
		defaultConfig.LinkURL = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Core, "core", defaultConfig.Core, "Core to host: primary or secondary.")
	flag.StringVar(&defaultConfig.Session, "session", defaultConfig.Session, "Session name shared by both sides.")
	flag.StringVar(&defaultConfig.LinkURL, "link", defaultConfig.LinkURL, "Link URL to the other side.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// LocalCore resolves the configured core identity.
func (c *Config) LocalCore() (ipcc.Core, error) {
	switch c.Core {
	case "primary", "1":
		return ipcc.Primary, nil
	case "secondary", "2":
		return ipcc.Secondary, nil
	}
	return ipcc.Primary, fmt.Errorf("unknown core: %q", c.Core)
}

// SessionName resolves the session name, falling back to the
// machine-derived default.
func (c *Config) SessionName() string {
	if c.Session != "" {
		return c.Session
	}
	return bridge.DefaultSession()
}

// Connect builds the frame transport and wraps it in a Peer. The
// returned runnables must be spawned alongside the peer for
// transports that need a background pump.
func (c *Config) Connect() (*bridge.Peer, []fx.Runnable, error) {
	local, err := c.LocalCore()
	if err != nil {
		return nil, nil, err
	}
	parsedURL, err := url.Parse(c.LinkURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid link URL: %v", err)
	}
	switch parsedURL.Scheme {
	case "mqtt":
		q, err := mqtt.NewQueueFromURL(c.LinkURL)
		if err != nil {
			return nil, nil, err
		}
		if token := q.Connect(); token.Wait() && token.Error() != nil {
			return nil, nil, token.Error()
		}
		rw := mqtt.NewPacketReadWriter(q).ForCore(c.SessionName(), local)
		return bridge.NewPeer(local, rw), []fx.Runnable{fx.NamedRun("mqtt", rw)}, nil
	case "ws", "wss":
		rw, err := websocket.Dial(c.LinkURL, "http://localhost/")
		if err != nil {
			return nil, nil, err
		}
		return bridge.NewPeer(local, rw), nil, nil
	case "tcp":
		conn, err := net.Dial("tcp", parsedURL.Host)
		if err != nil {
			return nil, nil, err
		}
		return bridge.NewPeer(local, stream.New(conn)), nil, nil
	case "tcp-listen":
		ln, err := net.Listen("tcp", parsedURL.Host)
		if err != nil {
			return nil, nil, err
		}
		conn, err := ln.Accept()
		ln.Close()
		if err != nil {
			return nil, nil, err
		}
		return bridge.NewPeer(local, stream.New(conn)), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown link URL scheme: %q", parsedURL.Scheme)
	}
}

// MustConnect connects and fails on error.
func (c *Config) MustConnect() (*bridge.Peer, []fx.Runnable) {
	peer, runnables, err := c.Connect()
	if err != nil {
		log.Fatalln(err)
	}
	return peer, runnables
}
