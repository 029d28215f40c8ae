package mqtt

import (
	"context"
	"io"

	"github.com/corelink/ipcc.go/pkg/bridge"
	"github.com/corelink/ipcc.go/pkg/ipcc"
)

// ReadWriter implements bridge.PacketReadWriter over a Queue. Each
// side of a session publishes to its own core topic and subscribes
// to the peer's.
type ReadWriter struct {
	Queue    *Queue
	SubTopic string
	PubTopic string

	packetCh chan []byte
}

// NewPacketReadWriter creates the ReadWriter.
func NewPacketReadWriter(q *Queue) *ReadWriter {
	return &ReadWriter{Queue: q, packetCh: make(chan []byte, 16)}
}

// WithTopics specifies the topics.
func (p *ReadWriter) WithTopics(sub, pub string) *ReadWriter {
	p.SubTopic, p.PubTopic = sub, pub
	return p
}

// ForCore sets topics using the session convention for the core this
// side hosts.
func (p *ReadWriter) ForCore(session string, local ipcc.Core) *ReadWriter {
	return p.WithTopics(
		bridge.CoreTopic(session, local.Peer()),
		bridge.CoreTopic(session, local),
	)
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	pkt, ok := <-p.packetCh
	if !ok {
		return nil, io.EOF
	}
	return pkt, nil
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	token := p.Queue.Pub(p.PubTopic, pkt)
	token.Wait()
	return token.Error()
}

// Run implements Runnable.
func (p *ReadWriter) Run(ctx context.Context) error {
	sub := p.Queue.Sub(p.SubTopic, Handler(p.handleMsg))
	defer sub.Close()
	defer close(p.packetCh)
	<-ctx.Done()
	return ctx.Err()
}

func (p *ReadWriter) handleMsg(_ string, payload []byte) {
	p.packetCh <- payload
}
