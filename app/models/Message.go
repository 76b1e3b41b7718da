package models

type MessageType string

const (
	MessageJoin           MessageType = "JOIN"
	MessageSync           MessageType = "SYNC"
	MessageRollDice       MessageType = "ROLL_DICE"
	MessageInteract       MessageType = "INTERACT"
	MessagePropertyAction MessageType = "PROPERTY_ACTION"
	MessageEndTurn        MessageType = "END_TURN"
)

// Interaction is the decision a player takes on the tile they landed on.
type Interaction string

const (
	InteractBuy     Interaction = "BUY"
	InteractUpgrade Interaction = "UPGRADE"
	InteractPay     Interaction = "PAY"
	InteractRedeem  Interaction = "REDEEM"
	InteractNothing Interaction = "NOTHING"
)

// PropertyAction is an anytime action on an owned tile.
type PropertyAction string

const (
	PropertyMortgage PropertyAction = "MORTGAGE"
	PropertyRedeem   PropertyAction = "REDEEM"
)

// Message is the wire envelope. Type selects which of the other fields are
// meaningful.
type Message struct {
	Type     MessageType `json:"type"`
	Player   *Player     `json:"player,omitempty"`
	PlayerId string      `json:"playerId,omitempty"`
	Action   string      `json:"action,omitempty"`
	TileId   int         `json:"tileId,omitempty"`
	State    *GameState  `json:"state,omitempty"`
}

func JoinMessage(p Player) Message {
	return Message{Type: MessageJoin, Player: &p}
}

func SyncMessage(state GameState) Message {
	return Message{Type: MessageSync, State: &state}
}

func RollDiceMessage(playerId string) Message {
	return Message{Type: MessageRollDice, PlayerId: playerId}
}

func InteractMessage(playerId string, action Interaction) Message {
	return Message{Type: MessageInteract, PlayerId: playerId, Action: string(action)}
}

func PropertyActionMessage(playerId string, tileId int, action PropertyAction) Message {
	return Message{Type: MessagePropertyAction, PlayerId: playerId, TileId: tileId, Action: string(action)}
}

func EndTurnMessage(playerId string) Message {
	return Message{Type: MessageEndTurn, PlayerId: playerId}
}

// Actor is the peer the intent claims to come from.
func (m Message) Actor() string {
	if m.Type == MessageJoin && m.Player != nil {
		return m.Player.Id
	}
	return m.PlayerId
}
