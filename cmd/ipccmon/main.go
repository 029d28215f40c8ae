package main

import (
	"flag"
	"log"
	"os"

	"github.com/golang/protobuf/proto"

	"github.com/corelink/ipcc.go/pkg/bridge/mqtt"
	pb "github.com/corelink/ipcc.go/pkg/proto/ipcc/v1"
)

var (
	mqttURL = "mqtt://localhost:1883/ipcc/"
)

func init() {
	if val := os.Getenv("IPCC_LINK_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

// Watches every session under the topic prefix and prints the
// register-file mutations crossing the wire.
func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}

	q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		var f pb.Frame
		if err := proto.Unmarshal(payload, &f); err != nil {
			log.Printf("%s: bad frame: %v", topic, err)
			return
		}
		switch f.Op {
		case pb.Frame_SET, pb.Frame_CLEAR:
			log.Printf("%s: %s core=%d ch=%d (%d bytes)", topic, f.Op, f.Core, f.Channel, len(f.Payload))
		default:
			log.Printf("%s: %s core=%d", topic, f.Op, f.Core)
		}
	}))
	<-(chan struct{})(nil)
}
