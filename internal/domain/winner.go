package domain

// decideWinner checks the win condition: a unique highest score at or
// above the threshold. A tie at the top defers the win to a later round.
func decideWinner(s *GameState) bool {
	best, bestIdx, unique := -1, -1, false
	for i, p := range s.Players {
		switch {
		case p.Points > best:
			best, bestIdx, unique = p.Points, i, true
		case p.Points == best:
			unique = false
		}
	}
	if best < s.Rules.WinThreshold || !unique {
		return false
	}
	s.Winner = s.Players[bestIdx].ID
	return true
}

// decideExhaustedWinner settles a game the table can no longer play:
// the threshold no longer applies and the unique points leader wins. A
// tie at the top leaves the game drawn with no winner.
func decideExhaustedWinner(s *GameState) {
	best, bestIdx, unique := -1, -1, false
	for i, p := range s.Players {
		switch {
		case p.Points > best:
			best, bestIdx, unique = p.Points, i, true
		case p.Points == best:
			unique = false
		}
	}
	if unique {
		s.Winner = s.Players[bestIdx].ID
	}
}
