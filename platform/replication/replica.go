package replication

import (
	"sync"

	"github.com/DedS3t/richman/app/models"
	"github.com/DedS3t/richman/platform/board"
)

// Replica is a read-only copy of the game state. The only way to change it
// is Apply, which swaps the whole snapshot.
type Replica struct {
	mu          sync.RWMutex
	state       models.GameState
	subscribers []func(models.GameState)
}

func NewReplica() *Replica {
	tiles, _ := board.LoadTiles()
	return &Replica{state: models.GameState{Status: models.StatusLobby, Tiles: tiles}}
}

// Apply replaces the replica with state. Versions are not compared: the last
// snapshot received wins.
func (r *Replica) Apply(state models.GameState) {
	snapshot := state.Clone()
	r.mu.Lock()
	r.state = snapshot
	subscribers := make([]func(models.GameState), len(r.subscribers))
	copy(subscribers, r.subscribers)
	r.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot.Clone())
	}
}

func (r *Replica) Snapshot() models.GameState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Clone()
}

// Subscribe registers fn to be called with every applied snapshot.
func (r *Replica) Subscribe(fn func(models.GameState)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers = append(r.subscribers, fn)
}
