package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a
	// lobby-capable match.
	RpcQuickMatch = "quick_match"

	// RpcVivoxToken is the Nakama RPC id clients call to obtain a signed
	// Vivox voice token.
	RpcVivoxToken = "vivox_token"

	// MatchNameGotcha is the authoritative match handler name registered
	// with Nakama.
	MatchNameGotcha = "gotcha_match"

	// matchLabelGame is the label value quick-match queries filter on.
	matchLabelGame = "gotcha"
)

// Label phases advertised for quick-match queries. Only lobby matches
// accept new joins.
const (
	labelPhaseLobby   = "lobby"
	labelPhasePlaying = "playing"
	labelPhaseEnded   = "ended"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame            int64 = 1
	OpPlaceOffer           int64 = 2
	OpFlipCard             int64 = 3
	OpPlayActionCard       int64 = 4
	OpDeclareDone          int64 = 5
	OpSelectGotchaCard     int64 = 6
	OpChooseGotchaAction   int64 = 7
	OpSelectFlipOneCard    int64 = 8
	OpSelectAddOneHandCard int64 = 9
	OpSelectAddOneOffer    int64 = 10
	OpSelectRemoveOneCard  int64 = 11
	OpSelectRemoveTwoCard  int64 = 12
	OpSelectStealTarget    int64 = 13
	OpSelectOffer          int64 = 14
	OpChangePerspective    int64 = 15
	OpResetGame            int64 = 16

	// Server -> Client events
	OpPlayerJoined int64 = 101
	OpPlayerLeft   int64 = 102
	OpGameStarted  int64 = 103
	OpHandDealt    int64 = 104 // sent privately
	OpPhaseChanged int64 = 105
	OpStateUpdated int64 = 106 // sent privately, redacted per seat
	OpGameEnded    int64 = 107
	OpGameError    int64 = 110
)
