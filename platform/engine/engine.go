// Package engine is the host-side reducer core. Every operation takes a
// GameState by value and returns a Result carrying the next state; the input
// is never mutated. Invalid intents are reported through Result.Rejection
// instead of an error return, because they are part of normal play.
package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"math/rand"

	"github.com/DedS3t/richman/app/models"
	"github.com/DedS3t/richman/platform/board"
)

var (
	ErrNotPlaying        = errors.New("game is not in progress")
	ErrNotCurrentPlayer  = errors.New("not your turn")
	ErrWrongPhase        = errors.New("action not allowed in this phase")
	ErrUnknownPlayer     = errors.New("unknown player")
	ErrUnknownTile       = errors.New("unknown tile")
	ErrUnknownAction     = errors.New("unknown action")
	ErrNotProperty       = errors.New("tile is not a property")
	ErrNotOwner          = errors.New("tile is not yours")
	ErrAlreadyMortgaged  = errors.New("tile is already mortgaged")
	ErrNotMortgaged      = errors.New("tile is not mortgaged")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Dice draws uniform integers in [0, n).
type Dice interface {
	Intn(n int) int
}

// NewRandomDice seeds a math/rand source from crypto/rand.
func NewRandomDice() Dice {
	var b [8]byte
	seed := int64(0)
	if _, err := crand.Read(b[:]); err == nil {
		seed = int64(binary.LittleEndian.Uint64(b[:]))
	}
	return rand.New(rand.NewSource(seed))
}

type Rules struct {
	StartingBalance int
	StartBonus      int
	RewardIncrement int
	MaxLevel        int
	DiceSides       int
	Events          []models.Event
}

func DefaultRules() Rules {
	events, err := board.LoadEvents()
	if err != nil {
		panic(err)
	}
	return Rules{
		StartingBalance: 10000,
		StartBonus:      2000,
		RewardIncrement: 100,
		MaxLevel:        5,
		DiceSides:       24,
		Events:          events,
	}
}

type Engine struct {
	rules Rules
	dice  Dice
}

func New(rules Rules, dice Dice) *Engine {
	if dice == nil {
		dice = NewRandomDice()
	}
	return &Engine{rules: rules, dice: dice}
}

func (e *Engine) Rules() Rules {
	return e.rules
}

// Result is the outcome of one reducer call. When Rejection is set, State is
// the unchanged input.
type Result struct {
	State     models.GameState
	Rejection error
}

func (r Result) Rejected() bool {
	return r.Rejection != nil
}

func applied(state models.GameState) Result {
	state.Version++
	return Result{State: state}
}

func rejected(state models.GameState, err error) Result {
	return Result{State: state, Rejection: err}
}
