package bot

import (
	"fmt"
	"time"
)

// BotLevel selects a strategy tier.
type BotLevel int

const (
	// BotLevelCasual plays a uniformly random legal action.
	BotLevelCasual BotLevel = iota
	// BotLevelGreedy maximizes immediate gain and ignores liabilities.
	BotLevelGreedy
	// BotLevelSharp weighs gotcha risk and rival progress on top of gain.
	BotLevelSharp
)

// NewBrain creates a new AI brain based on the specified level.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelCasual:
		return NewCasualBot(time.Now().UnixNano()), nil
	case BotLevelGreedy:
		return &GreedyBot{Weights: GreedyTuning}, nil
	case BotLevelSharp:
		return &SharpBot{Weights: DefaultTuning}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}

// NewTimeoutBrain returns the brain that acts for players whose turn
// timer expired. Casual keeps forced moves neutral rather than punishing.
func NewTimeoutBrain() Brain {
	return NewCasualBot(time.Now().UnixNano())
}

// levelForDifficulty maps an identity difficulty to a strategy tier.
// Unknown strings land on casual.
func levelForDifficulty(difficulty string) BotLevel {
	switch difficulty {
	case "hard":
		return BotLevelSharp
	case "medium":
		return BotLevelGreedy
	default:
		return BotLevelCasual
	}
}
