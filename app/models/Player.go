package models

type Player struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Balance     int    `json:"balance"`
	TotalAssets int    `json:"totalAssets"` // derived, see ledger.NetWorth
	Position    int    `json:"position"`
	Color       string `json:"color"`
	IsDefeated  bool   `json:"isDefeated"`
	IsOnline    bool   `json:"isOnline"`
}

var PlayerColors = []string{
	"#ef4444",
	"#3b82f6",
	"#10b981",
	"#f59e0b",
	"#8b5cf6",
	"#ec4899",
}
