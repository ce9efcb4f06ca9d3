package internal

import (
	"testing"

	"gotcha/internal/domain"
)

func TestCompletesThingSet(t *testing.T) {
	pairThing := catalogCards(t, domain.ThingSubtype(1), 2)
	quadThing := catalogCards(t, domain.ThingSubtype(7), 4)
	gotcha := catalogCards(t, domain.GotchaBad, 1)[0]

	cases := []struct {
		name       string
		collection []domain.Card
		card       domain.Card
		want       bool
	}{
		{"second copy closes a pair set", pairThing[:1], pairThing[1], true},
		{"first copy of a pair set", nil, pairThing[0], false},
		{"third copy of a quad set", quadThing[:2], quadThing[2], false},
		{"fourth copy closes a quad set", quadThing[:3], quadThing[3], true},
		{"gotcha cards never complete things", pairThing[:1], gotcha, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CompletesThingSet(tc.collection, tc.card); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCompletesGotchaSet(t *testing.T) {
	bads := catalogCards(t, domain.GotchaBad, 2)
	once := catalogCards(t, domain.GotchaOnce, 1)[0]
	thing := catalogCards(t, domain.ThingSubtype(1), 1)[0]

	if !CompletesGotchaSet(bads[:1], bads[1]) {
		t.Error("second bad gotcha should close the pair")
	}
	if CompletesGotchaSet(nil, bads[0]) {
		t.Error("first bad gotcha should not close a pair")
	}
	if CompletesGotchaSet(bads[:1], once) {
		t.Error("a once gotcha should not pair with a bad one")
	}
	if CompletesGotchaSet(bads[:1], thing) {
		t.Error("thing cards never complete gotcha pairs")
	}
}

func TestFaceUpCount(t *testing.T) {
	cards := catalogCards(t, domain.ThingSubtype(9), 3)
	offer := []domain.OfferCard{
		{Card: cards[0], FaceUp: true, Position: 0},
		{Card: cards[1], Position: 1},
		{Card: cards[2], FaceUp: true, Position: 2},
	}
	if got := FaceUpCount(offer); got != 2 {
		t.Fatalf("got %d face-up cards, want 2", got)
	}
}
