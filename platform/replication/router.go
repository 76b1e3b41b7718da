package replication

import (
	"errors"

	"github.com/DedS3t/richman/app/models"
	"github.com/DedS3t/richman/platform/engine"
)

var (
	ErrMalformed  = errors.New("malformed message")
	ErrUnroutable = errors.New("message type cannot be applied by the host")
)

// Route applies one intent to the canonical state. Sync is never routed
// here: it only ever replaces replicas.
func Route(e *engine.Engine, state models.GameState, msg models.Message) engine.Result {
	switch msg.Type {
	case models.MessageJoin:
		if msg.Player == nil {
			return engine.Result{State: state, Rejection: ErrMalformed}
		}
		return e.Join(state, *msg.Player)
	case models.MessageRollDice:
		return e.RollDice(state, msg.PlayerId)
	case models.MessageInteract:
		return e.Interact(state, msg.PlayerId, models.Interaction(msg.Action))
	case models.MessagePropertyAction:
		return e.PropertyAction(state, msg.PlayerId, msg.TileId, models.PropertyAction(msg.Action))
	case models.MessageEndTurn:
		return e.EndTurn(state, msg.PlayerId)
	default:
		return engine.Result{State: state, Rejection: ErrUnroutable}
	}
}
