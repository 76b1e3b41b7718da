package ledger

import (
	"testing"

	"github.com/DedS3t/richman/app/models"
)

func property(id int, color string, price, upgrade, base, inc int) models.Tile {
	return models.Tile{
		Id:   id,
		Kind: models.TileProperty,
		Name: "tile",
		Data: &models.PropertyDetails{
			Color:                color,
			Price:                price,
			UpgradeCost:          upgrade,
			BaseRent:             base,
			RentIncreasePerLevel: inc,
		},
	}
}

func testBoard() []models.Tile {
	return []models.Tile{
		{Id: 0, Kind: models.TileStart, Name: "Start"},
		property(1, "green", 600, 200, 120, 60),
		property(2, "green", 600, 200, 120, 60),
		property(3, "blue", 1000, 400, 200, 100),
		{Id: 4, Kind: models.TileEvent, Name: "Chance"},
	}
}

func TestMortgageValue(t *testing.T) {
	tests := []struct {
		name       string
		tile       models.Tile
		mortgage   int
		redemption int
	}{
		{name: "level 0", tile: property(1, "g", 600, 200, 0, 0), mortgage: 300, redemption: 330},
		{name: "level 2", tile: func() models.Tile { t := property(1, "g", 600, 200, 0, 0); t.Level = 2; return t }(), mortgage: 500, redemption: 550},
		{name: "odd total rounds down", tile: property(1, "g", 1001, 0, 0, 0), mortgage: 500, redemption: 550},
		{name: "redemption rounds down", tile: property(1, "g", 1110, 0, 0, 0), mortgage: 555, redemption: 610},
		{name: "not a property", tile: models.Tile{Kind: models.TileEmpty}, mortgage: 0, redemption: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MortgageValue(tt.tile); got != tt.mortgage {
				t.Errorf("mortgage value: got %d, want %d", got, tt.mortgage)
			}
			if got := RedemptionCost(tt.tile); got != tt.redemption {
				t.Errorf("redemption cost: got %d, want %d", got, tt.redemption)
			}
		})
	}
}

func TestRentBasics(t *testing.T) {
	tiles := testBoard()
	if got := Rent(tiles[1], tiles, "a"); got != 0 {
		t.Fatalf("unowned tile should charge nothing, got %d", got)
	}
	if got := Rent(tiles[1], tiles, ""); got != 0 {
		t.Fatalf("no owner should charge nothing, got %d", got)
	}
	if got := Rent(tiles[0], tiles, "a"); got != 0 {
		t.Fatalf("start tile should charge nothing, got %d", got)
	}

	tiles[1].OwnerId = "a"
	tiles[1].Level = 1
	if got := Rent(tiles[1], tiles, "a"); got != 180 {
		t.Fatalf("expected 120 + 60, got %d", got)
	}

	tiles[1].IsMortgaged = true
	if got := Rent(tiles[1], tiles, "a"); got != 0 {
		t.Fatalf("mortgaged tile should charge nothing, got %d", got)
	}
}

func TestMonopolyDoubling(t *testing.T) {
	tiles := testBoard()
	tiles[1].OwnerId = "a"
	tiles[2].OwnerId = "a"
	tiles[2].Level = 2

	if got := Rent(tiles[1], tiles, "a"); got != 240 {
		t.Fatalf("expected doubled 120, got %d", got)
	}
	if got := Rent(tiles[2], tiles, "a"); got != 2*(120+2*60) {
		t.Fatalf("expected doubled level 2 rent, got %d", got)
	}

	t.Run("second owner breaks the bonus", func(t *testing.T) {
		split := append([]models.Tile(nil), tiles...)
		split[2].OwnerId = "b"
		if got := Rent(split[1], split, "a"); got != 120 {
			t.Fatalf("expected single rate, got %d", got)
		}
	})

	t.Run("mortgaging one tile breaks the bonus", func(t *testing.T) {
		mortgaged := append([]models.Tile(nil), tiles...)
		mortgaged[2].IsMortgaged = true
		if got := Rent(mortgaged[1], mortgaged, "a"); got != 120 {
			t.Fatalf("expected single rate, got %d", got)
		}
		if got := Rent(mortgaged[2], mortgaged, "a"); got != 0 {
			t.Fatalf("expected mortgaged tile to charge nothing, got %d", got)
		}
	})
}

func TestNetWorth(t *testing.T) {
	tiles := testBoard()
	tiles[1].OwnerId = "a"
	tiles[2].OwnerId = "a"
	tiles[3].OwnerId = "a"
	tiles[3].IsMortgaged = true

	player := models.Player{Id: "a", Balance: 1000}
	if got := NetWorth(player, tiles); got != 1000+240+240 {
		t.Fatalf("unexpected net worth %d", got)
	}

	player.IsDefeated = true
	if got := NetWorth(player, tiles); got != 0 {
		t.Fatalf("defeated player should be worth 0, got %d", got)
	}
}

func TestRecomputeNetWorthTouchesEveryone(t *testing.T) {
	state := models.GameState{
		Players: []models.Player{{Id: "a", Balance: 100}, {Id: "b", Balance: 100}},
		Tiles:   testBoard(),
	}
	state.Tiles[1].OwnerId = "b"
	state.Tiles[2].OwnerId = "b"
	RecomputeNetWorth(&state)
	if state.Players[1].TotalAssets != 100+240+240 {
		t.Fatalf("expected monopoly worth, got %d", state.Players[1].TotalAssets)
	}

	// a takes one tile of the group away from b
	state.Tiles[2].OwnerId = "a"
	RecomputeNetWorth(&state)
	if state.Players[1].TotalAssets != 100+120 {
		t.Fatalf("expected bonus gone for b, got %d", state.Players[1].TotalAssets)
	}
	if state.Players[0].TotalAssets != 100+120 {
		t.Fatalf("expected single rent for a, got %d", state.Players[0].TotalAssets)
	}
}

func TestRanking(t *testing.T) {
	ranked := Ranking([]models.Player{
		{Id: "a", TotalAssets: 10},
		{Id: "b", TotalAssets: 30},
		{Id: "c", TotalAssets: 10},
	})
	got := []string{ranked[0].Id, ranked[1].Id, ranked[2].Id}
	want := []string{"b", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ranking %v, want %v", got, want)
		}
	}
}
