// Package replication runs one peer of a room. The host owns the canonical
// state, applies intents through Route and broadcasts a full snapshot after
// every change; clients forward intents and replace their replica on Sync.
//
// All channel events and local intents are funneled into a single goroutine
// (Run), so reducers never interleave.
package replication

import (
	"context"
	"fmt"
	"sync"

	"github.com/DedS3t/richman/app/models"
	"github.com/DedS3t/richman/platform/channel"
	"github.com/DedS3t/richman/platform/engine"
	"github.com/sirupsen/logrus"
)

type Role int

const (
	RoleHost Role = iota
	RoleClient
)

func (r Role) String() string {
	if r == RoleHost {
		return "host"
	}
	return "client"
}

// Persister stores the host's latest snapshot.
type Persister interface {
	Save(ctx context.Context, state models.GameState) error
}

// Announcer publishes the room summary for discovery.
type Announcer interface {
	Announce(ctx context.Context, room models.Room) error
}

type Options struct {
	Engine    *engine.Engine
	Persister Persister
	Announcer Announcer
	RoomName  string
	OnStatus  func(status string)
}

type eventKind int

const (
	eventOpen eventKind = iota
	eventData
	eventClose
	eventError
	eventSubmit
)

type event struct {
	kind eventKind
	ch   channel.Channel
	msg  models.Message
	err  error
}

type Node struct {
	self      models.Player
	role      Role
	engine    *engine.Engine
	state     models.GameState
	replica   *Replica
	channels  map[channel.Channel]string
	upstream  channel.Channel
	persister Persister
	announcer Announcer
	announced models.Room
	roomName  string
	events    chan event
	ctx       context.Context

	statusMu sync.RWMutex
	status   string
	onStatus func(string)

	log *logrus.Entry
}

func newNode(self models.Player, role Role, opts Options) *Node {
	e := opts.Engine
	if e == nil {
		e = engine.New(engine.DefaultRules(), nil)
	}
	return &Node{
		self:      self,
		role:      role,
		engine:    e,
		replica:   NewReplica(),
		channels:  map[channel.Channel]string{},
		persister: opts.Persister,
		announcer: opts.Announcer,
		roomName:  opts.RoomName,
		events:    make(chan event, 256),
		ctx:       context.Background(),
		onStatus:  opts.OnStatus,
		log:       logrus.WithFields(logrus.Fields{"peer": self.Id, "role": role.String()}),
	}
}

// NewHost starts hosting state, either a fresh room or a restored session.
func NewHost(state models.GameState, opts Options) *Node {
	self := models.Player{Id: state.HostId}
	if idx := state.PlayerIndex(state.HostId); idx != -1 {
		self = state.Players[idx]
	}
	n := newNode(self, RoleHost, opts)
	n.state = state
	n.receive(nil, models.SyncMessage(state))
	n.setStatus("hosting room " + state.RoomId)
	return n
}

// NewClient prepares a peer that joins a host as self.
func NewClient(self models.Player, opts Options) *Node {
	n := newNode(self, RoleClient, opts)
	n.setStatus("ready")
	return n
}

func (n *Node) ID() string {
	return n.self.Id
}

func (n *Node) Role() Role {
	return n.role
}

func (n *Node) Replica() *Replica {
	return n.replica
}

// Status is a human-facing description of the connection state.
func (n *Node) Status() string {
	n.statusMu.RLock()
	defer n.statusMu.RUnlock()
	return n.status
}

func (n *Node) setStatus(status string) {
	n.statusMu.Lock()
	n.status = status
	fn := n.onStatus
	n.statusMu.Unlock()
	if fn != nil {
		fn(status)
	}
}

// Connect dials the host. The join intent goes out once the channel opens.
func (n *Node) Connect(ctx context.Context, dialer channel.Dialer, hostId string) error {
	if n.role != RoleClient {
		return fmt.Errorf("connect: %s cannot join another room", n.role)
	}
	n.setStatus("joining " + hostId)
	if _, err := dialer.Dial(ctx, hostId, n); err != nil {
		n.setStatus("failed to connect to host")
		return fmt.Errorf("connect to %s: %w", hostId, err)
	}
	return nil
}

// Submit queues a local intent. The host applies it like any remote intent;
// a client forwards it to the host.
func (n *Node) Submit(msg models.Message) {
	n.events <- event{kind: eventSubmit, msg: msg}
}

func (n *Node) ChannelOpened(ch channel.Channel) {
	n.events <- event{kind: eventOpen, ch: ch}
}

func (n *Node) ChannelData(ch channel.Channel, msg models.Message) {
	n.events <- event{kind: eventData, ch: ch, msg: msg}
}

func (n *Node) ChannelClosed(ch channel.Channel) {
	n.events <- event{kind: eventClose, ch: ch}
}

func (n *Node) ChannelError(ch channel.Channel, err error) {
	n.events <- event{kind: eventError, ch: ch, err: err}
}

// Run processes events one at a time until ctx is done.
func (n *Node) Run(ctx context.Context) error {
	n.ctx = ctx
	if n.role == RoleHost {
		n.announce()
	}
	for {
		select {
		case <-ctx.Done():
			n.shutdown()
			return ctx.Err()
		case ev := <-n.events:
			n.handle(ev)
		}
	}
}

func (n *Node) handle(ev event) {
	switch ev.kind {
	case eventOpen:
		n.opened(ev.ch)
	case eventData:
		if !n.known(ev.ch) {
			return
		}
		n.receive(ev.ch, ev.msg)
	case eventClose:
		n.closed(ev.ch)
	case eventError:
		n.log.WithError(ev.err).Warn("channel error")
		n.setStatus("connection error: " + ev.err.Error())
	case eventSubmit:
		n.submit(ev.msg)
	}
}

func (n *Node) known(ch channel.Channel) bool {
	if n.role == RoleHost {
		_, ok := n.channels[ch]
		return ok
	}
	return ch != nil && ch == n.upstream
}

func (n *Node) opened(ch channel.Channel) {
	if n.role == RoleClient {
		if n.upstream != nil {
			_ = ch.Close()
			return
		}
		n.upstream = ch
		n.setStatus("connected to host")
		n.send(ch, models.JoinMessage(n.self))
		return
	}

	n.channels[ch] = ch.PeerID()
	n.log.WithField("remote", ch.PeerID()).Info("channel opened")
	n.send(ch, models.SyncMessage(n.state))
}

func (n *Node) closed(ch channel.Channel) {
	if n.role == RoleClient {
		if ch == n.upstream {
			n.upstream = nil
			n.setStatus("disconnected from host")
		}
		return
	}

	playerId, ok := n.channels[ch]
	if !ok {
		return
	}
	delete(n.channels, ch)
	n.log.WithField("remote", playerId).Info("channel closed")
	if playerId == "" || n.bound(playerId) {
		return
	}
	res := n.engine.MarkOffline(n.state, playerId)
	if res.Rejected() {
		return
	}
	n.commit(res.State)
}

// bound reports whether an open channel still carries playerId.
func (n *Node) bound(playerId string) bool {
	for _, id := range n.channels {
		if id == playerId {
			return true
		}
	}
	return false
}

func (n *Node) submit(msg models.Message) {
	if n.role == RoleHost {
		n.receive(nil, msg)
		return
	}
	if n.upstream == nil {
		n.setStatus("not connected to host, action dropped")
		return
	}
	n.send(n.upstream, msg)
}

// receive is the single routing path for every message, remote or local.
func (n *Node) receive(ch channel.Channel, msg models.Message) {
	if msg.Type == models.MessageSync {
		// the host's view only ever comes from its own commits
		if n.role == RoleHost && ch != nil {
			return
		}
		if msg.State != nil {
			n.replica.Apply(*msg.State)
		}
		return
	}
	if n.role != RoleHost {
		return
	}
	if ch != nil && msg.Type == models.MessageJoin && msg.Player != nil {
		n.channels[ch] = msg.Player.Id
	}

	res := Route(n.engine, n.state, msg)
	if res.Rejected() {
		n.log.WithFields(logrus.Fields{
			"type":  msg.Type,
			"actor": msg.Actor(),
		}).WithError(res.Rejection).Debug("intent rejected")
		return
	}
	n.commit(res.State)
}

// commit installs a new canonical state and fans it out.
func (n *Node) commit(state models.GameState) {
	prev := n.state.Status
	n.state = state
	n.log.WithField("version", state.Version).Debug("state committed")

	snapshot := models.SyncMessage(state)
	for ch := range n.channels {
		n.send(ch, snapshot)
	}
	n.receive(nil, snapshot)

	n.persist(prev)
	n.announce()
}

func (n *Node) send(ch channel.Channel, msg models.Message) {
	if err := ch.Send(msg); err != nil {
		n.log.WithError(err).WithField("remote", ch.PeerID()).Warn("send failed")
		n.setStatus("send failed: " + err.Error())
	}
}

// persist saves every Playing snapshot, and the first one after the game
// leaves Playing so a finished game is never restored.
func (n *Node) persist(prev models.Status) {
	if n.persister == nil {
		return
	}
	if n.state.Status != models.StatusPlaying && prev != models.StatusPlaying {
		return
	}
	if err := n.persister.Save(n.ctx, n.state); err != nil {
		n.log.WithError(err).Warn("snapshot not saved")
	}
}

func (n *Node) announce() {
	if n.announcer == nil {
		return
	}
	room := n.state.Summary(n.roomName)
	if room == n.announced {
		return
	}
	if err := n.announcer.Announce(n.ctx, room); err != nil {
		n.log.WithError(err).Warn("room not announced")
		return
	}
	n.announced = room
}

func (n *Node) shutdown() {
	for ch := range n.channels {
		_ = ch.Close()
	}
	if n.upstream != nil {
		_ = n.upstream.Close()
	}
}
