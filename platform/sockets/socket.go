package socket

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/DedS3t/richman/app/models"
	"github.com/DedS3t/richman/platform/channel"
	socketio "github.com/googollee/go-socket.io"
	"github.com/sirupsen/logrus"
)

// ioChannel carries the replication messages of one socket.io connection,
// JSON encoded on the "message" event.
type ioChannel struct {
	conn socketio.Conn
	peer string

	mu     sync.Mutex
	closed bool
}

func (c *ioChannel) PeerID() string {
	return c.peer
}

func (c *ioChannel) Send(msg models.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return channel.ErrClosed
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	c.conn.Emit("message", string(data))
	return nil
}

func (c *ioChannel) Close() error {
	if !c.markClosed() {
		return nil
	}
	return c.conn.Close()
}

func (c *ioChannel) markClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.closed = true
	return true
}

type ioBridge struct {
	handler channel.Handler
}

func (b ioBridge) connect(s socketio.Conn) error {
	u := s.URL()
	ch := &ioChannel{conn: s, peer: u.Query().Get("peer_id")}
	s.SetContext(ch)
	logrus.WithFields(logrus.Fields{"sid": s.ID(), "remote": ch.peer}).Debug("socket.io connected")
	b.handler.ChannelOpened(ch)
	return nil
}

func (b ioBridge) message(s socketio.Conn, raw string) {
	ch, ok := s.Context().(*ioChannel)
	if !ok {
		return
	}
	var msg models.Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		b.handler.ChannelError(ch, fmt.Errorf("decode message: %w", err))
		return
	}
	b.handler.ChannelData(ch, msg)
}

func (b ioBridge) failed(s socketio.Conn, e error) {
	if s == nil {
		logrus.WithError(e).Warn("socket.io server error")
		return
	}
	if ch, ok := s.Context().(*ioChannel); ok {
		b.handler.ChannelError(ch, e)
	}
}

func (b ioBridge) disconnect(s socketio.Conn, reason string) {
	ch, ok := s.Context().(*ioChannel)
	if !ok {
		return
	}
	logrus.WithFields(logrus.Fields{"remote": ch.peer, "reason": reason}).Debug("socket.io disconnected")
	ch.markClosed()
	b.handler.ChannelClosed(ch)
}

// CreateSocketIOServer accepts browser peers on the default namespace and
// hands their connections to h.
func CreateSocketIOServer(h channel.Handler) (*socketio.Server, error) {
	server, err := socketio.NewServer(nil)
	if err != nil {
		return nil, err
	}
	bridge := ioBridge{handler: h}
	server.OnConnect("/", bridge.connect)
	server.OnEvent("/", "message", bridge.message)
	server.OnError("/", bridge.failed)
	server.OnDisconnect("/", bridge.disconnect)
	return server, nil
}
