package board

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DedS3t/richman/app/models"
)

//go:embed properties.json
var propertiesJSON []byte

//go:embed events.json
var eventsJSON []byte

var ErrNotFound = errors.New("not found")

// LoadTiles returns a fresh copy of the default board. Every call decodes
// again so rooms never share tile storage.
func LoadTiles() ([]models.Tile, error) {
	var tiles []models.Tile
	if err := json.Unmarshal(propertiesJSON, &tiles); err != nil {
		return nil, fmt.Errorf("decode board template: %w", err)
	}
	for pos, tile := range tiles {
		if tile.Id != pos {
			return nil, fmt.Errorf("board template: tile %d at position %d", tile.Id, pos)
		}
	}
	return tiles, nil
}

// MustLoadTiles panics on a broken embedded template.
func MustLoadTiles() []models.Tile {
	tiles, err := LoadTiles()
	if err != nil {
		panic(err)
	}
	return tiles
}

func LoadEvents() ([]models.Event, error) {
	var events []models.Event
	if err := json.Unmarshal(eventsJSON, &events); err != nil {
		return nil, fmt.Errorf("decode event table: %w", err)
	}
	return events, nil
}

func GetByPos(pos int, tiles []models.Tile) (models.Tile, error) {
	if pos < 0 || pos >= len(tiles) {
		return models.Tile{}, ErrNotFound
	}
	return tiles[pos], nil
}

// ColorGroup returns the property tiles sharing color.
func ColorGroup(color string, tiles []models.Tile) []models.Tile {
	var group []models.Tile
	for _, tile := range tiles {
		if tile.IsProperty() && tile.Data.Color == color {
			group = append(group, tile)
		}
	}
	return group
}

// Wrap maps any position, negative included, onto the board.
func Wrap(pos, size int) int {
	if size <= 0 {
		return 0
	}
	pos %= size
	if pos < 0 {
		pos += size
	}
	return pos
}
