package game

import "github.com/plus3/isoarena/ecs"

// GameState is the shared round bookkeeping. Rounds and winners are not
// advanced by any system yet.
type GameState struct {
	CurrentRound  uint32
	TotalPlayers  uint32
	WinningPlayer *ecs.EntityRef
}

// HasWinner reports whether a winner has been declared and is still alive.
func (s *GameState) HasWinner() bool {
	return s.WinningPlayer.Valid()
}

// GameRules is fixed once bootstrap inserts it.
type GameRules struct {
	WinningScore uint32
	MaxRounds    uint32
	MaxPlayers   uint32
}

// DefaultRules are the rules used when no configuration overrides them.
func DefaultRules() GameRules {
	return GameRules{
		WinningScore: 4,
		MaxRounds:    10,
		MaxPlayers:   4,
	}
}

// MainState is the coarse application phase.
type MainState uint8

const (
	StateLoadAssets MainState = iota
	StateGame
)

func (s MainState) String() string {
	switch s {
	case StateLoadAssets:
		return "load-assets"
	case StateGame:
		return "game"
	default:
		return "unknown"
	}
}
