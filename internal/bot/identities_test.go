package bot

import "testing"

func TestIdentityLookups(t *testing.T) {
	if !IsBot("bot-user-01") {
		t.Error("fixture bot not recognized")
	}
	if IsBot("some-human") {
		t.Error("unknown ID flagged as bot")
	}
	if got := GetBotDisplayName("bot-user-02"); got != "Tuan" {
		t.Errorf("display name %q, want Tuan", got)
	}
	if got := GetBotUsername("bot-user-03"); got != "gotcha_bot_linh" {
		t.Errorf("username %q, want gotcha_bot_linh", got)
	}
	cfg, ok := GetBotConfig("bot-user-03")
	if !ok || cfg.Difficulty != "hard" {
		t.Errorf("config %+v ok=%v, want the hard fixture bot", cfg, ok)
	}
}

func TestGetBotIdentityWrapsThePool(t *testing.T) {
	first := GetBotIdentity(0)
	wrapped := GetBotIdentity(6)
	if first.UserID == "" || first.UserID != wrapped.UserID {
		t.Errorf("index 6 resolves to %s, want pool wrap to %s", wrapped.UserID, first.UserID)
	}
}

func TestLevelForDifficulty(t *testing.T) {
	cases := []struct {
		difficulty string
		want       BotLevel
	}{
		{"easy", BotLevelCasual},
		{"medium", BotLevelGreedy},
		{"hard", BotLevelSharp},
		{"", BotLevelCasual},
		{"nightmare", BotLevelCasual},
	}
	for _, tc := range cases {
		if got := levelForDifficulty(tc.difficulty); got != tc.want {
			t.Errorf("levelForDifficulty(%q) = %d, want %d", tc.difficulty, got, tc.want)
		}
	}
}
