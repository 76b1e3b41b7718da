package channel

import (
	"context"
	"fmt"
	"sync"

	"github.com/DedS3t/richman/app/models"
)

const pipeBuffer = 1024

type pipeEnd struct {
	remote  string
	handler Handler
	inbox   chan models.Message
	other   *pipeEnd
	done    chan struct{}
	once    *sync.Once
}

// Pipe links two handlers in memory. a sees the returned first channel
// (whose PeerID is bId) and b the second. Each side is fed in send order
// from its own goroutine, opened first and closed last.
func Pipe(aId string, a Handler, bId string, b Handler) (Channel, Channel) {
	done := make(chan struct{})
	once := &sync.Once{}
	endA := &pipeEnd{remote: bId, handler: a, inbox: make(chan models.Message, pipeBuffer), done: done, once: once}
	endB := &pipeEnd{remote: aId, handler: b, inbox: make(chan models.Message, pipeBuffer), done: done, once: once}
	endA.other, endB.other = endB, endA
	go endA.pump()
	go endB.pump()
	return endA, endB
}

func (p *pipeEnd) PeerID() string {
	return p.remote
}

func (p *pipeEnd) Send(msg models.Message) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}
	select {
	case <-p.done:
		return ErrClosed
	case p.other.inbox <- copyMessage(msg):
		return nil
	}
}

func (p *pipeEnd) Close() error {
	p.once.Do(func() { close(p.done) })
	return nil
}

func (p *pipeEnd) pump() {
	p.handler.ChannelOpened(p)
	for {
		select {
		case msg := <-p.inbox:
			p.handler.ChannelData(p, msg)
		case <-p.done:
			p.drain()
			p.handler.ChannelClosed(p)
			return
		}
	}
}

// drain delivers whatever was sent before the close.
func (p *pipeEnd) drain() {
	for {
		select {
		case msg := <-p.inbox:
			p.handler.ChannelData(p, msg)
		default:
			return
		}
	}
}

// copyMessage stands in for serialization so the two sides never share memory.
func copyMessage(msg models.Message) models.Message {
	if msg.State != nil {
		state := msg.State.Clone()
		msg.State = &state
	}
	if msg.Player != nil {
		player := *msg.Player
		msg.Player = &player
	}
	return msg
}

// Network is an in-memory switchboard of listening peers.
type Network struct {
	mu        sync.Mutex
	listeners map[string]Handler
}

func NewNetwork() *Network {
	return &Network{listeners: map[string]Handler{}}
}

// Listen makes h reachable under peerId.
func (n *Network) Listen(peerId string, h Handler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners[peerId] = h
}

// Dialer returns a Dialer that connects as localId.
func (n *Network) Dialer(localId string) Dialer {
	return networkDialer{network: n, local: localId}
}

type networkDialer struct {
	network *Network
	local   string
}

func (d networkDialer) Dial(ctx context.Context, peerId string, h Handler) (Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.network.mu.Lock()
	remote, ok := d.network.listeners[peerId]
	d.network.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("dial %s: peer unavailable", peerId)
	}
	local, _ := Pipe(d.local, h, peerId, remote)
	return local, nil
}
