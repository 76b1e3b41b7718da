// Package channel defines the ordered peer connection the replication layer
// runs on. Transports in platform/sockets implement it.
package channel

import (
	"context"
	"errors"

	"github.com/DedS3t/richman/app/models"
)

var ErrClosed = errors.New("channel closed")

// Channel is one reliable, ordered connection to a remote peer.
type Channel interface {
	// PeerID is the remote identity, when the transport knows it.
	PeerID() string
	Send(msg models.Message) error
	Close() error
}

// Handler receives channel lifecycle events. Transports call it from their
// own goroutines; implementations must serialize what they do with them.
type Handler interface {
	ChannelOpened(ch Channel)
	ChannelData(ch Channel, msg models.Message)
	ChannelClosed(ch Channel)
	ChannelError(ch Channel, err error)
}

// Dialer opens a channel to a remote peer. Events for the new channel,
// starting with ChannelOpened, go to h.
type Dialer interface {
	Dial(ctx context.Context, peerId string, h Handler) (Channel, error)
}
