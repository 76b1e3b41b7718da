package socket

import (
	"net/url"
	"testing"

	"github.com/DedS3t/richman/app/models"
	"github.com/DedS3t/richman/platform/channel"
	socketio "github.com/googollee/go-socket.io"
)

// fakeConn implements the part of socketio.Conn the bridge touches.
type fakeConn struct {
	socketio.Conn
	rawURL  string
	ctx     interface{}
	emitted []string
	closed  bool
}

func (c *fakeConn) ID() string { return "sid" }
func (c *fakeConn) Context() interface{} { return c.ctx }
func (c *fakeConn) SetContext(v interface{}) { c.ctx = v }

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func (c *fakeConn) URL() url.URL {
	u, _ := url.Parse(c.rawURL)
	return *u
}

func (c *fakeConn) Emit(event string, v ...interface{}) {
	c.emitted = append(c.emitted, event+":"+v[0].(string))
}

func TestSocketIOBridge(t *testing.T) {
	rec := newRecorder()
	bridge := ioBridge{handler: rec}
	conn := &fakeConn{rawURL: "/socket.io/?peer_id=bob&EIO=3"}

	if err := bridge.connect(conn); err != nil {
		t.Fatalf("connect: %v", err)
	}
	ch := wait(t, rec.opened, "open")
	if ch.PeerID() != "bob" {
		t.Fatalf("unexpected peer %q", ch.PeerID())
	}

	bridge.message(conn, `{"type":"ROLL_DICE","playerId":"bob"}`)
	if msg := wait(t, rec.data, "data"); msg.Type != models.MessageRollDice || msg.PlayerId != "bob" {
		t.Fatalf("unexpected message %+v", msg)
	}
	bridge.message(conn, `{oops`)
	wait(t, rec.errs, "decode error")

	if err := ch.Send(models.EndTurnMessage("alice")); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(conn.emitted) != 1 || conn.emitted[0][:8] != "message:" {
		t.Fatalf("unexpected emits %v", conn.emitted)
	}

	bridge.disconnect(conn, "transport close")
	wait(t, rec.closed, "close")
	if err := ch.Send(models.EndTurnMessage("alice")); err != channel.ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := ch.Close(); err != nil || conn.closed {
		t.Fatal("closing a disconnected channel should not touch the conn")
	}
}

func TestSocketIOBridgeIgnoresUnknownConn(t *testing.T) {
	rec := newRecorder()
	bridge := ioBridge{handler: rec}
	conn := &fakeConn{rawURL: "/socket.io/"}
	bridge.message(conn, `{}`)
	bridge.disconnect(conn, "bye")
	bridge.failed(nil, nil)
	if len(rec.data)+len(rec.closed)+len(rec.errs) != 0 {
		t.Fatal("events from a conn that never connected")
	}
}
