package socket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/DedS3t/richman/app/models"
	"github.com/DedS3t/richman/platform/channel"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeTimeout = 10 * time.Second

type wsChannel struct {
	conn *websocket.Conn
	peer string

	writeMu sync.Mutex
	done    chan struct{}
	once    sync.Once
}

// startChannel reports the channel open, then feeds h from a reader
// goroutine until the connection drops.
func startChannel(conn *websocket.Conn, peer string, h channel.Handler) *wsChannel {
	ch := &wsChannel{conn: conn, peer: peer, done: make(chan struct{})}
	h.ChannelOpened(ch)
	go ch.read(h)
	return ch
}

func (c *wsChannel) PeerID() string {
	return c.peer
}

func (c *wsChannel) Send(msg models.Message) error {
	select {
	case <-c.done:
		return channel.ErrClosed
	default:
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(msg)
}

func (c *wsChannel) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

func (c *wsChannel) read(h channel.Handler) {
	defer h.ChannelClosed(c)
	defer c.Close()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logrus.WithError(err).WithField("remote", c.peer).Debug("websocket read failed")
			}
			return
		}
		var msg models.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			h.ChannelError(c, fmt.Errorf("decode message: %w", err))
			continue
		}
		h.ChannelData(c, msg)
	}
}

// WebsocketHandler accepts peers dialing this host. The remote identity is
// the peer_id query parameter; an optional host parameter must name us.
type WebsocketHandler struct {
	localId  string
	handler  channel.Handler
	upgrader websocket.Upgrader
}

func NewWebsocketHandler(localId string, origins []string, h channel.Handler) *WebsocketHandler {
	return &WebsocketHandler{
		localId: localId,
		handler: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(origins),
		},
	}
}

func (s *WebsocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	peer := q.Get("peer_id")
	if peer == "" {
		http.Error(w, "peer_id is required", http.StatusBadRequest)
		return
	}
	if host := q.Get("host"); host != "" && host != s.localId {
		http.Error(w, "unknown room", http.StatusNotFound)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).WithField("remote", peer).Warn("websocket upgrade failed")
		return
	}
	startChannel(conn, peer, s.handler)
}

func originChecker(origins []string) func(*http.Request) bool {
	allowed := map[string]bool{}
	for _, o := range origins {
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed["*"] || allowed[origin]
	}
}

// Dialer connects to a host's websocket endpoint as localId.
type Dialer struct {
	url     string
	localId string
}

func NewDialer(rawURL, localId string) *Dialer {
	return &Dialer{url: rawURL, localId: localId}
}

func (d *Dialer) Dial(ctx context.Context, peerId string, h channel.Handler) (channel.Channel, error) {
	u, err := url.Parse(d.url)
	if err != nil {
		return nil, fmt.Errorf("parse join url: %w", err)
	}
	q := u.Query()
	q.Set("peer_id", d.localId)
	if peerId != "" {
		q.Set("host", peerId)
	}
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}
	return startChannel(conn, peerId, h), nil
}

// HostFromJoinURL extracts the host's peer id from a join link such as
// ws://example.com:8000/ws?host=user_123.
func HostFromJoinURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse join url: %w", err)
	}
	host := u.Query().Get("host")
	if host == "" {
		return "", fmt.Errorf("join url %q has no host parameter", rawURL)
	}
	return host, nil
}
