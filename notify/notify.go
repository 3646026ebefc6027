// Package notify publishes change notifications whenever a workbook
// write succeeds, over a zmq4 PUB socket. It is a best-effort side
// channel: nothing in the workbook's correctness contract depends on a
// Bus being attached, and a publish failure is logged, never returned to
// the caller that triggered the write.
//
// Modeled on the teacher's Jupyter kernel bridge, which opens a zmq4.Pub
// socket with zmq4.NewPub(ctx), Listens on a transport address, and sends
// JSON-encoded, HMAC-less single-frame messages — narrowed here to the
// one PUB socket and one message shape this domain needs.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/go-zeromq/zmq4"
)

// ChangeNotification describes one successful recomputation triggered by
// a cell write.
type ChangeNotification struct {
	Name     string   `json:"name"`
	Affected []string `json:"affected"`
}

// Bus publishes ChangeNotification messages over a single zmq4 PUB
// socket.
type Bus struct {
	sock zmq4.Socket
}

// NewBus creates and binds a PUB socket at addr, e.g. "tcp://127.0.0.1:5556"
// or "inproc://spreadsheet-changes".
func NewBus(ctx context.Context, addr string) (*Bus, error) {
	sock := zmq4.NewPub(ctx)
	if err := sock.Listen(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("bind notification bus to %s: %w", addr, err)
	}
	return &Bus{sock: sock}, nil
}

// Publish JSON-encodes n and sends it as a single-frame zmq4 message. A
// send failure is logged and swallowed.
func (b *Bus) Publish(n ChangeNotification) {
	if b == nil {
		return
	}
	data, err := json.Marshal(n)
	if err != nil {
		log.Printf("notify: marshal change notification for %s failed: %v", n.Name, err)
		return
	}
	if err := b.sock.Send(zmq4.NewMsg(data)); err != nil {
		log.Printf("notify: publish change notification for %s failed: %v", n.Name, err)
	}
}

// Close releases the underlying socket.
func (b *Bus) Close() error {
	if b == nil {
		return nil
	}
	return b.sock.Close()
}
