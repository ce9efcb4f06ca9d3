package domain

import "fmt"

// CardType partitions the Gotcha deck into its three families.
type CardType string

const (
	// TypeThing cards are collected into sets and traded in for points.
	TypeThing CardType = "thing"
	// TypeGotcha cards punish or reward their collector at round end.
	TypeGotcha CardType = "gotcha"
	// TypeAction cards are played during the action phase for an effect.
	TypeAction CardType = "action"
)

// Subtype identifies behaviour within a card family. Thing cards use their
// value digit ("1".."9"), gotcha and action cards use the names below.
type Subtype string

// Gotcha subtypes, declared in trade-in priority order.
const (
	GotchaBad   Subtype = "bad"
	GotchaTwice Subtype = "twice"
	GotchaOnce  Subtype = "once"
)

// Action subtypes.
const (
	FlipOne     Subtype = "flip_one"
	AddOne      Subtype = "add_one"
	RemoveOne   Subtype = "remove_one"
	RemoveTwo   Subtype = "remove_two"
	StealAPoint Subtype = "steal_a_point"
)

// Card is a single card from the Gotcha deck. Value and SetSize are only
// meaningful for thing cards.
type Card struct {
	ID      int      `json:"id"`
	Type    CardType `json:"type"`
	Subtype Subtype  `json:"subtype"`
	Name    string   `json:"name"`
	Value   int      `json:"value,omitempty"`
	SetSize int      `json:"setSize,omitempty"`
}

// GotchaPriority lists gotcha subtypes in the order the trade-in cascade
// scans them.
var GotchaPriority = []Subtype{GotchaBad, GotchaTwice, GotchaOnce}

// Deck composition. Low things are plentiful and cheap to complete, high
// things need four copies, gotchas always trade in as pairs.
var (
	thingRows = []struct {
		value, copies, setSize int
	}{
		{1, 4, 2},
		{2, 4, 2},
		{3, 4, 2},
		{4, 3, 3},
		{5, 3, 3},
		{6, 3, 3},
		{7, 4, 4},
		{8, 4, 4},
		{9, 4, 4},
	}

	gotchaRows = []struct {
		sub    Subtype
		name   string
		copies int
	}{
		{GotchaBad, "Bad Gotcha", 6},
		{GotchaOnce, "Once Gotcha", 6},
		{GotchaTwice, "Twice Gotcha", 4},
	}

	actionRows = []struct {
		sub    Subtype
		name   string
		copies int
	}{
		{FlipOne, "Flip One", 4},
		{AddOne, "Add One", 4},
		{RemoveOne, "Remove One", 4},
		{RemoveTwo, "Remove Two", 3},
		{StealAPoint, "Steal A Point", 3},
	}
)

// DeckSize is the number of cards in a full Gotcha deck.
const DeckSize = 67

// NewDeck returns the full deck in catalog order with IDs 1..DeckSize.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	id := 1
	for _, row := range thingRows {
		for i := 0; i < row.copies; i++ {
			deck = append(deck, Card{
				ID:      id,
				Type:    TypeThing,
				Subtype: ThingSubtype(row.value),
				Name:    fmt.Sprintf("Thing %d", row.value),
				Value:   row.value,
				SetSize: row.setSize,
			})
			id++
		}
	}
	for _, row := range gotchaRows {
		for i := 0; i < row.copies; i++ {
			deck = append(deck, Card{ID: id, Type: TypeGotcha, Subtype: row.sub, Name: row.name})
			id++
		}
	}
	for _, row := range actionRows {
		for i := 0; i < row.copies; i++ {
			deck = append(deck, Card{ID: id, Type: TypeAction, Subtype: row.sub, Name: row.name})
			id++
		}
	}
	return deck
}

// ThingSubtype returns the subtype for a thing value 1..9.
func ThingSubtype(value int) Subtype {
	return Subtype(fmt.Sprintf("%d", value))
}

// ThingSetSize returns how many copies of a thing subtype complete a set.
// Returns 0 for non-thing subtypes.
func ThingSetSize(sub Subtype) int {
	for _, row := range thingRows {
		if ThingSubtype(row.value) == sub {
			return row.setSize
		}
	}
	return 0
}

// GotchaSetSize returns how many copies of a gotcha subtype trade in together.
// Every current gotcha subtype trades in as a pair.
func GotchaSetSize(sub Subtype) int {
	switch sub {
	case GotchaBad, GotchaOnce, GotchaTwice:
		return 2
	}
	return 0
}
