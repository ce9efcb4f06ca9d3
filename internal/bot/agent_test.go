package bot

import (
	"testing"

	"gotcha/internal/domain"
)

func TestNewAgentPicksStrategyByDifficulty(t *testing.T) {
	cases := []struct {
		botID string
		want  string
	}{
		{"bot-user-01", "casual"},
		{"bot-user-02", "greedy"},
		{"bot-user-03", "sharp"},
	}
	for _, tc := range cases {
		agent, err := NewAgent(tc.botID)
		if err != nil {
			t.Fatalf("NewAgent(%s): %v", tc.botID, err)
		}
		got := ""
		switch agent.Strategy.(type) {
		case *CasualBot:
			got = "casual"
		case *GreedyBot:
			got = "greedy"
		case *SharpBot:
			got = "sharp"
		}
		if got != tc.want {
			t.Errorf("%s got a %s strategy, want %s", tc.botID, got, tc.want)
		}
	}
}

func TestNewAgentUnknownIDFallsBackToCasual(t *testing.T) {
	agent, err := NewAgent("not-a-provisioned-bot")
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	if _, ok := agent.Strategy.(*CasualBot); !ok {
		t.Fatalf("got %T, want the casual fallback", agent.Strategy)
	}
	if agent.ID != "not-a-provisioned-bot" {
		t.Fatalf("agent ID %s, want the requested ID", agent.ID)
	}
}

func TestAgentActUsesOwnSeat(t *testing.T) {
	s := testGame(t, 3, 0)
	s.Phase = domain.PhaseOffer
	s.TurnIndex = 1
	s.Players[1].Hand = catalogCards(t, domain.ThingSubtype(7), 4)

	agent := &Agent{ID: "p1", Strategy: NewCasualBot(3)}
	a, err := agent.Act(s)
	if err != nil {
		t.Fatalf("Act: %v", err)
	}
	if a.Actor != "p1" {
		t.Fatalf("action actor %s, want the agent's own ID", a.Actor)
	}
	if _, err := domain.Advance(s, a, nil); err != nil {
		t.Fatalf("agent action rejected: %v", err)
	}
}

func TestAgentActUnseated(t *testing.T) {
	s := testGame(t, 3, 0)
	agent := &Agent{ID: "bot-user-01", Strategy: NewCasualBot(1)}
	if _, err := agent.Act(s); err == nil {
		t.Fatal("acting without a seat should error")
	}
}
