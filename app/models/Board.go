package models

type TileKind string

const (
	TileStart    TileKind = "START"
	TileEmpty    TileKind = "EMPTY"
	TileProperty TileKind = "PROPERTY"
	TileReward   TileKind = "REWARD"
	TileEvent    TileKind = "EVENT"
)

type PropertyDetails struct {
	Color                string `json:"color"` // color group key, unique per group
	Price                int    `json:"price"`
	UpgradeCost          int    `json:"upgradeCost"`
	BaseRent             int    `json:"baseRent"`
	RentIncreasePerLevel int    `json:"rentIncreasePerLevel"`
}

type Tile struct {
	Id          int              `json:"id"`
	Kind        TileKind         `json:"type"`
	Name        string           `json:"name"`
	Data        *PropertyDetails `json:"data,omitempty"`
	OwnerId     string           `json:"ownerId,omitempty"`
	Level       int              `json:"level"`
	IsMortgaged bool             `json:"isMortgaged,omitempty"`
}

// IsProperty reports whether the tile can be bought and carries economics.
func (t Tile) IsProperty() bool {
	return t.Kind == TileProperty && t.Data != nil
}

// Release returns the tile to the unowned pool.
func (t *Tile) Release() {
	t.OwnerId = ""
	t.Level = 0
	t.IsMortgaged = false
}

func (t Tile) clone() Tile {
	if t.Data != nil {
		data := *t.Data
		t.Data = &data
	}
	return t
}

type Event struct {
	Info          string `json:"info"`
	BalanceChange int    `json:"balanceChange"`
	MoveSteps     int    `json:"moveSteps"`
}
