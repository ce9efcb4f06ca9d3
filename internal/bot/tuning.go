package bot

import botinternal "gotcha/internal/bot/internal"

const winBonus = 1000.0

// DefaultTuning prices long-term liabilities alongside immediate gain.
// Bad gotchas cost more than once or twice ones: a completed bad pair
// loses a point outright, the others only expose cards to the buyer.
var DefaultTuning = botinternal.Weights{
	Point:       10.0,
	RivalPoint:  4.0,
	SetProgress: 6.0,
	BadGotcha:   2.5,
	OnceGotcha:  1.0,
	TwiceGotcha: 1.6,
	ActionCard:  1.2,
	HandCard:    0.3,
	MoneyBag:    1.5,
	WinBonus:    winBonus,
}

// GreedyTuning keeps only the gain terms.
var GreedyTuning = botinternal.Weights{
	Point:       10.0,
	SetProgress: 6.0,
	ActionCard:  0.5,
	HandCard:    0.1,
	MoneyBag:    1.0,
	WinBonus:    winBonus,
}
