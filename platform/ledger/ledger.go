// Package ledger holds the pure property economics: mortgage and
// redemption prices, rent with the monopoly bonus, and net worth.
package ledger

import (
	"sort"

	"github.com/DedS3t/richman/app/models"
	"github.com/DedS3t/richman/platform/board"
)

// MortgageValue is half of everything invested in the tile, rounded down.
func MortgageValue(tile models.Tile) int {
	if !tile.IsProperty() {
		return 0
	}
	invested := tile.Data.Price + tile.Level*tile.Data.UpgradeCost
	return invested / 2
}

// RedemptionCost is the mortgage value plus ten percent, rounded down.
func RedemptionCost(tile models.Tile) int {
	return MortgageValue(tile) * 11 / 10
}

// Rent is what a visitor owes ownerId for landing on tile. Rent doubles
// when ownerId holds the whole color group and none of it is mortgaged.
func Rent(tile models.Tile, tiles []models.Tile, ownerId string) int {
	if !tile.IsProperty() || tile.OwnerId == "" || ownerId == "" || tile.IsMortgaged {
		return 0
	}
	rent := tile.Data.BaseRent + tile.Level*tile.Data.RentIncreasePerLevel
	if HasMonopoly(tile.Data.Color, tiles, ownerId) {
		rent *= 2
	}
	return rent
}

// HasMonopoly reports whether ownerId holds every unmortgaged tile of color.
func HasMonopoly(color string, tiles []models.Tile, ownerId string) bool {
	group := board.ColorGroup(color, tiles)
	if len(group) == 0 {
		return false
	}
	for _, t := range group {
		if t.OwnerId != ownerId || t.IsMortgaged {
			return false
		}
	}
	return true
}

// NetWorth is balance plus the rent potential of the player's unmortgaged
// tiles. Defeated players are worth nothing.
func NetWorth(player models.Player, tiles []models.Tile) int {
	if player.IsDefeated {
		return 0
	}
	worth := player.Balance
	for _, t := range tiles {
		if t.IsProperty() && t.OwnerId == player.Id && !t.IsMortgaged {
			worth += Rent(t, tiles, player.Id)
		}
	}
	return worth
}

// RecomputeNetWorth refreshes TotalAssets for every player. Monopoly bonuses
// depend on the whole board, so one tile change can move anyone's worth.
func RecomputeNetWorth(state *models.GameState) {
	for idx := range state.Players {
		state.Players[idx].TotalAssets = NetWorth(state.Players[idx], state.Tiles)
	}
}

// Ranking orders players by net worth, richest first. Ties keep roster order.
func Ranking(players []models.Player) []models.Player {
	ranked := append([]models.Player(nil), players...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalAssets > ranked[j].TotalAssets
	})
	return ranked
}
