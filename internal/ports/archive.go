package ports

import "context"

// MatchResult is the outcome of one finished game.
type MatchResult struct {
	MatchID    string
	WinnerID   string
	Points     map[string]int
	Rounds     int
	FinishedAt int64 // unix seconds
}

// MatchArchivePort persists finished game results for player history.
type MatchArchivePort interface {
	// SaveResult records a finished game. Implementations must tolerate
	// being called once per game end and may index by their own keys.
	SaveResult(ctx context.Context, result MatchResult) error
}
