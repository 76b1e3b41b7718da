package engine

import (
	"github.com/DedS3t/richman/app/models"
	"github.com/DedS3t/richman/platform/board"
	"github.com/DedS3t/richman/platform/ledger"
)

func IsUserTurn(state *models.GameState, playerId string) bool {
	current := state.CurrentPlayer()
	return current != nil && current.Id == playerId
}

func CanAfford(player *models.Player, cost int) bool {
	return player.Balance >= cost
}

// CheckWhoOwns returns the roster index of the tile's owner, or -1.
func CheckWhoOwns(state *models.GameState, tile models.Tile) int {
	if tile.OwnerId == "" {
		return -1
	}
	return state.PlayerIndex(tile.OwnerId)
}

// NextTurn moves the turn pointer forward to the next player who is not
// defeated, looking at most one lap ahead, and resets the turn phase.
// It does not bump the version.
func NextTurn(state models.GameState) models.GameState {
	n := len(state.Players)
	state.AwaitingDecision = false
	state.LastDiceRoll = nil
	if n == 0 {
		return state
	}
	next := (state.CurrentPlayerIndex + 1) % n
	for attempts := 0; state.Players[next].IsDefeated && attempts < n; attempts++ {
		next = (next + 1) % n
	}
	state.CurrentPlayerIndex = next
	return state
}

func nextColor(players []models.Player) string {
	used := map[string]bool{}
	for _, p := range players {
		used[p.Color] = true
	}
	for _, color := range models.PlayerColors {
		if !used[color] {
			return color
		}
	}
	return models.PlayerColors[len(players)%len(models.PlayerColors)]
}

func (e *Engine) drawEvent() (models.Event, bool) {
	if len(e.rules.Events) == 0 {
		return models.Event{}, false
	}
	return e.rules.Events[e.dice.Intn(len(e.rules.Events))], true
}

// bankrupt marks the player defeated and frees every tile they held.
func bankrupt(state *models.GameState, idx int) {
	player := &state.Players[idx]
	player.IsDefeated = true
	state.Logf("%s went bankrupt!", player.Name)
	for i := range state.Tiles {
		if state.Tiles[i].OwnerId == player.Id {
			state.Tiles[i].Release()
		}
	}
}

// checkGameOver ends the game once a bankruptcy leaves a single survivor.
func checkGameOver(state *models.GameState) {
	if len(state.Players) < 2 || state.ActivePlayers() > 1 {
		return
	}
	state.Status = models.StatusGameOver
	for _, p := range state.Players {
		if !p.IsDefeated {
			state.Logf("%s wins the game!", p.Name)
		}
	}
}

func move(state *models.GameState, idx, steps int) {
	player := &state.Players[idx]
	player.Position = board.Wrap(player.Position+steps, len(state.Tiles))
}

func recompute(state *models.GameState) {
	ledger.RecomputeNetWorth(state)
}
