package models

import "fmt"

type Status string

const (
	StatusLobby    Status = "LOBBY"
	StatusPlaying  Status = "PLAYING"
	StatusGameOver Status = "GAME_OVER"
)

const MaxLogs = 50

// GameState is the whole replicated aggregate. The host owns the only
// writable copy; clients replace theirs on every Sync.
type GameState struct {
	RoomId             string   `json:"roomId"`
	HostId             string   `json:"hostId"`
	Players            []Player `json:"players"`
	CurrentPlayerIndex int      `json:"currentPlayerIndex"`
	Tiles              []Tile   `json:"tiles"`
	StartBonus         int      `json:"startBonus"`
	Status             Status   `json:"status"`
	Logs               []string `json:"logs"`
	LastDiceRoll       *int     `json:"lastDiceRoll"`
	AwaitingDecision   bool     `json:"waitingForDecision"`
	Version            int64    `json:"version"`
}

// Clone returns a deep copy so reducers never share backing arrays with
// the snapshot they were given.
func (s GameState) Clone() GameState {
	out := s
	if s.Players != nil {
		out.Players = append([]Player(nil), s.Players...)
	}
	if s.Tiles != nil {
		out.Tiles = make([]Tile, len(s.Tiles))
		for i, t := range s.Tiles {
			out.Tiles[i] = t.clone()
		}
	}
	if s.Logs != nil {
		out.Logs = append([]string(nil), s.Logs...)
	}
	if s.LastDiceRoll != nil {
		roll := *s.LastDiceRoll
		out.LastDiceRoll = &roll
	}
	return out
}

// Logf prepends a line to the activity log, keeping the newest MaxLogs.
func (s *GameState) Logf(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	logs := make([]string, 0, len(s.Logs)+1)
	logs = append(logs, line)
	logs = append(logs, s.Logs...)
	if len(logs) > MaxLogs {
		logs = logs[:MaxLogs]
	}
	s.Logs = logs
}

func (s *GameState) CurrentPlayer() *Player {
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return nil
	}
	return &s.Players[s.CurrentPlayerIndex]
}

// PlayerIndex returns -1 when the id is not on the roster.
func (s *GameState) PlayerIndex(id string) int {
	for idx, p := range s.Players {
		if p.Id == id {
			return idx
		}
	}
	return -1
}

func (s *GameState) TileIndex(id int) int {
	for idx, t := range s.Tiles {
		if t.Id == id {
			return idx
		}
	}
	return -1
}

func (s *GameState) ActivePlayers() int {
	n := 0
	for _, p := range s.Players {
		if !p.IsDefeated {
			n++
		}
	}
	return n
}

// Room is the discovery record a host announces to the registry.
type Room struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	HostId  string `json:"hostId"`
	Status  string `json:"status"`
	Players int    `json:"players" pg:",use_zero"`
}

type VerifyRoomDto struct {
	Code string `query:"code"`
}

// ActionDto is an intent posted to the local API. Type is one of the intent
// message types; Action and TileId are read as that type needs them.
type ActionDto struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	TileId int    `json:"tileId"`
}

// Summary derives the registry record for a state.
func (s GameState) Summary(name string) Room {
	return Room{
		Id:      s.RoomId,
		Name:    name,
		HostId:  s.HostId,
		Status:  string(s.Status),
		Players: len(s.Players),
	}
}
