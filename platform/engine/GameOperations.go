package engine

import (
	"fmt"

	"github.com/DedS3t/richman/app/models"
	"github.com/DedS3t/richman/platform/board"
	"github.com/DedS3t/richman/platform/ledger"
)

// NewRoom starts a game hosted by host. The room id is the host's id.
func (e *Engine) NewRoom(host models.Player) (models.GameState, error) {
	tiles, err := board.LoadTiles()
	if err != nil {
		return models.GameState{}, fmt.Errorf("create room: %w", err)
	}
	host.Balance = e.rules.StartingBalance
	host.TotalAssets = host.Balance
	host.Position = 0
	host.Color = models.PlayerColors[0]
	host.IsDefeated = false
	host.IsOnline = true

	state := models.GameState{
		RoomId:     host.Id,
		HostId:     host.Id,
		Players:    []models.Player{host},
		Tiles:      tiles,
		StartBonus: e.rules.StartBonus,
		Status:     models.StatusPlaying,
		Version:    1,
	}
	state.Logf("Room created: %s", host.Id)
	state.Logf("Waiting for other players to join...")
	return state, nil
}

// Join adds a player to the roster, or flags a known one as back online.
func (e *Engine) Join(state models.GameState, player models.Player) Result {
	if player.Id == "" {
		return rejected(state, ErrUnknownPlayer)
	}
	next := state.Clone()
	if idx := next.PlayerIndex(player.Id); idx != -1 {
		next.Players[idx].IsOnline = true
		next.Logf("%s reconnected.", next.Players[idx].Name)
		return applied(next)
	}
	if next.Status == models.StatusGameOver {
		return rejected(state, ErrNotPlaying)
	}

	player.Color = nextColor(next.Players)
	player.Balance = e.rules.StartingBalance
	player.TotalAssets = player.Balance
	player.Position = 0
	player.IsDefeated = false
	player.IsOnline = true
	next.Players = append(next.Players, player)
	next.Logf("%s joined the room.", player.Name)
	return applied(next)
}

// MarkOffline flags a player whose channel closed. The player stays on the
// roster and keeps their turn.
func (e *Engine) MarkOffline(state models.GameState, playerId string) Result {
	idx := state.PlayerIndex(playerId)
	if idx == -1 {
		return rejected(state, ErrUnknownPlayer)
	}
	next := state.Clone()
	next.Players[idx].IsOnline = false
	next.Logf("%s disconnected.", next.Players[idx].Name)
	return applied(next)
}

// RollDice moves the current player and waits for their decision.
func (e *Engine) RollDice(state models.GameState, playerId string) Result {
	if state.Status != models.StatusPlaying {
		return rejected(state, ErrNotPlaying)
	}
	if !IsUserTurn(&state, playerId) {
		return rejected(state, ErrNotCurrentPlayer)
	}
	if state.AwaitingDecision {
		return rejected(state, ErrWrongPhase)
	}

	next := state.Clone()
	player := next.CurrentPlayer()
	steps := e.dice.Intn(e.rules.DiceSides) + 1
	pos := player.Position + steps
	passedStart := pos >= len(next.Tiles)
	player.Position = board.Wrap(pos, len(next.Tiles))

	next.Logf("%s rolled %d!", player.Name, steps)
	if passedStart {
		player.Balance += next.StartBonus
		next.Logf("%s passed Start! Bonus +%d", player.Name, next.StartBonus)
	}
	next.LastDiceRoll = &steps
	next.AwaitingDecision = true
	recompute(&next)
	return applied(next)
}

// Interact resolves the tile the current player landed on, settles
// bankruptcy, and hands the turn to the next player.
func (e *Engine) Interact(state models.GameState, playerId string, action models.Interaction) Result {
	if state.Status != models.StatusPlaying {
		return rejected(state, ErrNotPlaying)
	}
	if !IsUserTurn(&state, playerId) {
		return rejected(state, ErrNotCurrentPlayer)
	}
	if !state.AwaitingDecision {
		return rejected(state, ErrWrongPhase)
	}
	switch action {
	case models.InteractBuy, models.InteractUpgrade, models.InteractPay, models.InteractRedeem, models.InteractNothing:
	default:
		return rejected(state, ErrUnknownAction)
	}

	next := state.Clone()
	idx := next.CurrentPlayerIndex
	tile, err := board.GetByPos(next.Players[idx].Position, next.Tiles)
	if err != nil {
		return rejected(state, ErrUnknownTile)
	}

	switch tile.Kind {
	case models.TileStart:
		next.Logf("%s rests at Start.", next.Players[idx].Name)
	case models.TileReward:
		next.StartBonus += e.rules.RewardIncrement
		next.Logf("Reward tile! Start bonus raised to %d.", next.StartBonus)
	case models.TileEvent:
		if evt, ok := e.drawEvent(); ok {
			next.Logf("Random event: %s", evt.Info)
			next.Players[idx].Balance += evt.BalanceChange
			if evt.MoveSteps != 0 {
				move(&next, idx, evt.MoveSteps)
			}
		}
	case models.TileProperty:
		e.resolveProperty(&next, idx, tile.Id, action)
	case models.TileEmpty:
		next.Logf("%s passes through open land.", next.Players[idx].Name)
	}

	if next.Players[idx].Balance < 0 {
		bankrupt(&next, idx)
	}
	recompute(&next)
	checkGameOver(&next)
	return applied(NextTurn(next))
}

func (e *Engine) resolveProperty(state *models.GameState, idx, tileId int, action models.Interaction) {
	player := &state.Players[idx]
	tile := &state.Tiles[state.TileIndex(tileId)]
	if tile.Data == nil {
		return
	}

	switch action {
	case models.InteractPay:
		if tile.OwnerId == "" || tile.OwnerId == player.Id || tile.IsMortgaged {
			return
		}
		ownerIdx := CheckWhoOwns(state, *tile)
		if ownerIdx == -1 {
			return
		}
		rent := ledger.Rent(*tile, state.Tiles, tile.OwnerId)
		player.Balance -= rent
		state.Players[ownerIdx].Balance += rent
		state.Logf("%s paid %d rent to %s.", player.Name, rent, state.Players[ownerIdx].Name)

	case models.InteractBuy:
		if tile.OwnerId != "" {
			return
		}
		if !CanAfford(player, tile.Data.Price) {
			state.Logf("%s cannot afford %s.", player.Name, tile.Name)
			return
		}
		player.Balance -= tile.Data.Price
		tile.OwnerId = player.Id
		tile.Level = 0
		tile.IsMortgaged = false
		state.Logf("%s bought %s for %d.", player.Name, tile.Name, tile.Data.Price)

	case models.InteractUpgrade:
		if tile.OwnerId != player.Id || tile.Level >= e.rules.MaxLevel || tile.IsMortgaged {
			return
		}
		if !CanAfford(player, tile.Data.UpgradeCost) {
			state.Logf("%s cannot afford the upgrade.", player.Name)
			return
		}
		player.Balance -= tile.Data.UpgradeCost
		tile.Level++
		state.Logf("%s upgraded %s to LV%d.", player.Name, tile.Name, tile.Level)

	case models.InteractRedeem:
		if tile.OwnerId != player.Id || !tile.IsMortgaged {
			return
		}
		cost := ledger.RedemptionCost(*tile)
		if !CanAfford(player, cost) {
			state.Logf("%s cannot afford to redeem %s.", player.Name, tile.Name)
			return
		}
		player.Balance -= cost
		tile.IsMortgaged = false
		state.Logf("%s redeemed %s for %d.", player.Name, tile.Name, cost)

	case models.InteractNothing:
		state.Logf("%s did nothing.", player.Name)
	}
}

// PropertyAction mortgages or redeems an owned tile at any time. It leaves
// the turn phase alone.
func (e *Engine) PropertyAction(state models.GameState, playerId string, tileId int, action models.PropertyAction) Result {
	if state.Status != models.StatusPlaying {
		return rejected(state, ErrNotPlaying)
	}
	idx := state.PlayerIndex(playerId)
	if idx == -1 {
		return rejected(state, ErrUnknownPlayer)
	}
	tileIdx := state.TileIndex(tileId)
	if tileIdx == -1 {
		return rejected(state, ErrUnknownTile)
	}
	tile := state.Tiles[tileIdx]
	if !tile.IsProperty() {
		return rejected(state, ErrNotProperty)
	}
	if tile.OwnerId != playerId {
		return rejected(state, ErrNotOwner)
	}

	next := state.Clone()
	player := &next.Players[idx]
	target := &next.Tiles[tileIdx]
	switch action {
	case models.PropertyMortgage:
		if tile.IsMortgaged {
			return rejected(state, ErrAlreadyMortgaged)
		}
		value := ledger.MortgageValue(tile)
		player.Balance += value
		target.IsMortgaged = true
		next.Logf("%s mortgaged %s for %d.", player.Name, tile.Name, value)
	case models.PropertyRedeem:
		if !tile.IsMortgaged {
			return rejected(state, ErrNotMortgaged)
		}
		cost := ledger.RedemptionCost(tile)
		if !CanAfford(player, cost) {
			return rejected(state, ErrInsufficientFunds)
		}
		player.Balance -= cost
		target.IsMortgaged = false
		next.Logf("%s redeemed %s for %d.", player.Name, tile.Name, cost)
	default:
		return rejected(state, ErrUnknownAction)
	}

	recompute(&next)
	return applied(next)
}

// EndTurn advances the turn by hand. Normal play never needs it because
// Interact already moves the turn on.
func (e *Engine) EndTurn(state models.GameState, playerId string) Result {
	if state.Status != models.StatusPlaying {
		return rejected(state, ErrNotPlaying)
	}
	if !IsUserTurn(&state, playerId) {
		return rejected(state, ErrNotCurrentPlayer)
	}
	return applied(NextTurn(state.Clone()))
}
