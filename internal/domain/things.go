package domain

// tradeThings converts every completed thing set into a point, for all
// players at once. Multiple sets of the same subtype all score.
func tradeThings(s *GameState) {
	for _, p := range s.Players {
		for value := 1; value <= 9; value++ {
			sub := ThingSubtype(value)
			size := ThingSetSize(sub)
			for collectionCount(p, sub) >= size {
				s.DiscardPile = append(s.DiscardPile, removeCollectionCards(p, sub, size)...)
				p.Points++
			}
		}
	}
}
