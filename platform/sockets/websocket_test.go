package socket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DedS3t/richman/app/models"
	"github.com/DedS3t/richman/platform/channel"
)

type recorder struct {
	opened chan channel.Channel
	data   chan models.Message
	closed chan channel.Channel
	errs   chan error
}

func newRecorder() *recorder {
	return &recorder{
		opened: make(chan channel.Channel, 8),
		data:   make(chan models.Message, 8),
		closed: make(chan channel.Channel, 8),
		errs:   make(chan error, 8),
	}
}

func (r *recorder) ChannelOpened(ch channel.Channel) { r.opened <- ch }
func (r *recorder) ChannelData(ch channel.Channel, msg models.Message) { r.data <- msg }
func (r *recorder) ChannelClosed(ch channel.Channel) { r.closed <- ch }
func (r *recorder) ChannelError(ch channel.Channel, err error) { r.errs <- err }

func wait[T any](t *testing.T, c chan T, what string) T {
	t.Helper()
	select {
	case v := <-c:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
	var zero T
	return zero
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestWebsocketRoundTrip(t *testing.T) {
	host := newRecorder()
	mux := http.NewServeMux()
	mux.Handle("/ws", NewWebsocketHandler("alice", nil, host))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	guest := newRecorder()
	ch, err := NewDialer(wsURL(srv), "bob").Dial(context.Background(), "alice", guest)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if ch.PeerID() != "alice" {
		t.Fatalf("unexpected peer %s", ch.PeerID())
	}
	wait(t, guest.opened, "guest open")
	hostSide := wait(t, host.opened, "host open")
	if hostSide.PeerID() != "bob" {
		t.Fatalf("host sees peer %q", hostSide.PeerID())
	}

	if err := ch.Send(models.JoinMessage(models.Player{Id: "bob", Name: "Bob"})); err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg := wait(t, host.data, "join"); msg.Type != models.MessageJoin || msg.Player.Id != "bob" {
		t.Fatalf("unexpected message %+v", msg)
	}

	state := models.GameState{RoomId: "alice", Version: 3}
	if err := hostSide.Send(models.SyncMessage(state)); err != nil {
		t.Fatalf("send sync: %v", err)
	}
	if msg := wait(t, guest.data, "sync"); msg.State == nil || msg.State.Version != 3 {
		t.Fatalf("unexpected sync %+v", msg)
	}

	_ = ch.Close()
	wait(t, guest.closed, "guest close")
	wait(t, host.closed, "host close")
	if err := ch.Send(models.RollDiceMessage("bob")); err != channel.ErrClosed {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestWebsocketRejectsBadRequests(t *testing.T) {
	srv := httptest.NewServer(NewWebsocketHandler("alice", nil, newRecorder()))
	defer srv.Close()
	base := "ws" + strings.TrimPrefix(srv.URL, "http")

	if _, err := NewDialer(base, "").Dial(context.Background(), "alice", newRecorder()); err == nil {
		t.Fatal("expected missing peer_id to be refused")
	}
	if _, err := NewDialer(base, "bob").Dial(context.Background(), "carol", newRecorder()); err == nil {
		t.Fatal("expected wrong host to be refused")
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:3000"})
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	if !check(req) {
		t.Fatal("requests without origin should pass")
	}
	req.Header.Set("Origin", "http://localhost:3000")
	if !check(req) {
		t.Fatal("listed origin refused")
	}
	req.Header.Set("Origin", "http://evil.example")
	if check(req) {
		t.Fatal("unlisted origin accepted")
	}
	if !originChecker([]string{"*"})(req) {
		t.Fatal("wildcard should accept any origin")
	}
}

func TestHostFromJoinURL(t *testing.T) {
	host, err := HostFromJoinURL("ws://example.com:8000/ws?host=user_1")
	if err != nil || host != "user_1" {
		t.Fatalf("got %q, %v", host, err)
	}
	if _, err := HostFromJoinURL("ws://example.com:8000/ws"); err == nil {
		t.Fatal("expected error without host")
	}
}
