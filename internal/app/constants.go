package app

import "gotcha/internal/domain"

// MinPlayersToStartGame defines the minimum number of occupied seats required to start a game.
// Keep this centralized so the match handler and tests share one rule.
const MinPlayersToStartGame = domain.MinPlayers
