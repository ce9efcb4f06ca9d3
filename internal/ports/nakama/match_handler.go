package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"gotcha/internal/app"
	"gotcha/internal/bot"
	"gotcha/internal/config"
	"gotcha/internal/domain"
	"gotcha/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	// gameStartTurnTimerBonusSeconds pads the first turn so players can
	// read their opening hand.
	gameStartTurnTimerBonusSeconds = 5

	// defaultTurnDurationSeconds applies when no game config is loaded.
	defaultTurnDurationSeconds = 16

	// botWalletFloorGold is the balance bot accounts are topped up to
	// before they sit down at a staked table.
	botWalletFloorGold = 10000
)

// BotBalancer is the slice of NakamaModule used to keep bot wallets
// funded when bots are seated.
type BotBalancer interface {
	AccountGetId(ctx context.Context, userID string) (*api.Account, error)
	WalletUpdate(ctx context.Context, userID string, changeset map[string]int64, metadata map[string]interface{}, updateLedger bool) (map[string]int64, map[string]int64, error)
}

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats                [6]string                   `json:"seats"`                   // User IDs by seat, empty string means the seat is free
	OwnerSeat            int                         `json:"owner_seat"`              // Seat index of the match owner
	Tick                 int64                       `json:"tick"`                    // Current tick of the match for turn-based logic
	TurnSecondsRemaining int64                       `json:"turn_seconds_remaining"`  // Countdown until the awaited human is auto-played
	AwaitedActor         string                      `json:"awaited_actor"`           // User ID the turn timer currently tracks
	Stake                int64                       `json:"stake"`                   // Gold each player stakes, resolved at game start
	Presences            map[string]runtime.Presence `json:"-"`                       // UserId -> Presence for targeted messaging
	App                  *app.Service                `json:"-"`                       // Gotcha app service with game logic
	Game                 *domain.GameState           `json:"-"`                       // Authoritative game state, lobby phase until started
	BotsEnabled          bool                        `json:"bots_enabled"`            // Whether AI players are allowed
	BotMinDelay          int                         `json:"bot_min_delay"`           // Min seconds a bot waits
	BotMaxDelay          int                         `json:"bot_max_delay"`           // Max seconds a bot waits
	BotAutoFillDelay     int                         `json:"bot_auto_fill_delay"`     // Seconds to wait before auto-filling with bots
	BotWaitUntil         int64                       `json:"bot_wait_until"`          // Tick when the awaited bot acts
	LastSinglePlayerTick int64                       `json:"last_single_player_tick"` // Tick when a single player started waiting
	Bots                 map[string]*bot.Agent       `json:"-"`                       // Active bot agents
	TimeoutBrain         bot.Brain                   `json:"-"`                       // Acts for humans whose turn timer ran out
	Economy              ports.EconomyPort           `json:"-"`                       // Interface to Nakama wallet
	Archive              ports.MatchArchivePort      `json:"-"`                       // Interface to Nakama storage for finished games
	Store                ports.GameStorePort         `json:"-"`                       // Interface to Nakama storage for running games
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

// firstConnectedHumanSeat returns the first seat whose occupant is a
// human with a live presence, or -1. Used for mid-game owner handoff
// where seats stay assigned to support rejoin.
func (ms *MatchState) firstConnectedHumanSeat() int {
	for i, userId := range ms.Seats {
		if userId == "" || isBotUserId(userId) {
			continue
		}
		if _, ok := ms.Presences[userId]; ok {
			return i
		}
	}
	return -1
}

// seatOf returns the seat index for a user id or -1.
func (ms *MatchState) seatOf(userId string) int {
	for i, seatUserId := range ms.Seats {
		if seatUserId == userId {
			return i
		}
	}
	return -1
}

// isGameRunning reports whether a started game is still accepting moves.
// A game can end drawn with no winner when the table runs out of cards,
// so the phase is checked as well.
func (ms *MatchState) isGameRunning() bool {
	return ms.Game != nil && ms.Game.Started && ms.Game.Winner == "" && ms.Game.Phase != domain.PhaseEnded
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userId := seats[seatIndex]
	return userId != "" && !isBotUserId(userId)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !isBotUserId(userId) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when there are no humans in the match.
func shouldTerminateNoHumans(seats []string) bool {
	return findFirstHumanSeat(seats) == -1
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	// Load bot identities from data folder
	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}

	// Load game configuration
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	state := &MatchState{
		Tick:         time.Now().Unix(),
		Presences:    make(map[string]runtime.Presence),
		App:          app.NewService(nil),
		Game:         domain.NewGame(config.GetRules()),
		OwnerSeat:    -1,
		Bots:         make(map[string]*bot.Agent),
		TimeoutBrain: bot.NewTimeoutBrain(),
		Economy:      NewNakamaEconomyAdapter(nk),
		Archive:      NewNakamaMatchArchiveAdapter(nk),
		Store:        NewNakamaGameStoreAdapter(nk),
	}

	if cfg := config.GetGameConfig(); cfg != nil && cfg.BotAutoFillDelaySeconds > 0 {
		state.BotAutoFillDelay = cfg.BotAutoFillDelaySeconds
	}

	// Read environment variables for bot configuration
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["gotcha_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["gotcha_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["gotcha_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}
	if val, ok := env["gotcha_bot_auto_fill_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotAutoFillDelay = i
		}
	}

	// Defaults if not set
	if state.BotMinDelay == 0 {
		state.BotMinDelay = 1
	}
	if state.BotMaxDelay == 0 {
		state.BotMaxDelay = 3
	}
	if state.BotAutoFillDelay == 0 {
		state.BotAutoFillDelay = 5
	}

	mh.restoreSavedGame(ctx, state, logger)

	tickRate := 1
	return state, tickRate, buildLabel(state)
}

// restoreSavedGame reloads a running game saved under this match id. A
// fresh match finds nothing; the read only pays off when the handler was
// re-created mid-game. Seats are rebuilt in play order because the
// original seat indices are not part of the game state.
func (mh *matchHandler) restoreSavedGame(ctx context.Context, state *MatchState, logger runtime.Logger) {
	if state.Store == nil {
		return
	}
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	if matchID == "" {
		return
	}

	saved, err := state.Store.Load(ctx, matchID)
	if err != nil {
		logger.Warn("restoreSavedGame: Could not load saved game: %v", err)
		return
	}
	if saved == nil || !saved.Started || saved.Winner != "" || saved.Phase == domain.PhaseEnded {
		return
	}

	state.Game = saved
	for i, p := range saved.Players {
		if i < len(state.Seats) {
			state.Seats[i] = string(p.ID)
		}
	}
	// The stake is not part of the game state; re-resolve it from config
	// the same way game start did.
	state.Stake = config.GetStake("")

	logger.Info("restoreSavedGame: Restored round %d of match %s with %d players.", saved.Round, matchID, len(saved.Players))
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Once a game is running only the players already seated may come
	// back; everyone else waits for the next lobby.
	if matchState.Game != nil && matchState.Game.Started {
		if matchState.seatOf(presence.GetUserId()) >= 0 {
			return state, true, ""
		}
		return state, false, "match_in_progress"
	}

	// Allow join if there is an empty seat or a bot to replace.
	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		for _, seat := range matchState.Seats {
			if isBotUserId(seat) {
				hasBot = true
				break
			}
		}
		if !hasBot {
			return state, false, "match_full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	started := matchState.Game != nil && matchState.Game.Started

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		// Rejoin keeps the seat; resend the private view so the client
		// can restore the table.
		if started && matchState.seatOf(p.GetUserId()) >= 0 {
			logger.Info("MatchJoin: User %s rejoined a running game.", p.GetUserId())
			mh.sendPrivateState(matchState, dispatcher, logger, p.GetUserId())
			continue
		}

		// Assign seat: try empty seats first, then bots.
		assigned := false
		for i, seatUserId := range matchState.Seats {
			if seatUserId == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}

		if !assigned && !started {
			for i, seatUserId := range matchState.Seats {
				if isBotUserId(seatUserId) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserId, p.GetUserId(), i)
					delete(matchState.Bots, seatUserId)
					matchState.Seats[i] = p.GetUserId()
					assigned = true
					break
				}
			}
		}

		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", p.GetUserId())
			continue
		}
	}

	// Ensure owner seat is assigned to a human player only.
	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)

	// Broadcast the current seating to all presences after join.
	mh.broadcastMatchState(ctx, matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match. Lobby
// seats are freed; seats in a running game stay assigned so the player
// can rejoin.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	started := matchState.Game != nil && matchState.Game.Started

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		seat := matchState.seatOf(p.GetUserId())
		if seat < 0 {
			continue
		}

		if !started {
			matchState.Seats[seat] = ""
			logger.Debug("MatchLeave: User %s left, seat %d freed.", p.GetUserId(), seat)
		} else {
			logger.Debug("MatchLeave: User %s disconnected, seat %d held for rejoin.", p.GetUserId(), seat)
		}

		evt, _ := json.Marshal(map[string]any{"user_id": p.GetUserId(), "seat": seat})
		dispatcher.BroadcastMessage(OpPlayerLeft, evt, nil, nil, true)
	}

	if !started {
		newOwnerSeat := findFirstHumanSeat(matchState.Seats[:])
		if newOwnerSeat != matchState.OwnerSeat {
			matchState.OwnerSeat = newOwnerSeat
			if newOwnerSeat >= 0 {
				logger.Debug("MatchLeave: Owner set to human seat %d.", newOwnerSeat)
			}
		}
		if shouldTerminateNoHumans(matchState.Seats[:]) {
			logger.Info("MatchLeave: Terminating match with no humans.")
			return nil
		}
	} else {
		if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) || !mh.isConnected(matchState, matchState.OwnerSeat) {
			matchState.OwnerSeat = matchState.firstConnectedHumanSeat()
		}
		if matchState.firstConnectedHumanSeat() == -1 {
			logger.Info("MatchLeave: Terminating running game with no connected humans.")
			return nil
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)

	return matchState
}

// isConnected reports whether the occupant of seat has a live presence.
func (mh *matchHandler) isConnected(state *MatchState, seat int) bool {
	if seat < 0 || seat >= len(state.Seats) {
		return false
	}
	_, ok := state.Presences[state.Seats[seat]]
	return ok
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		if msg.GetOpCode() == OpStartGame {
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
			continue
		}
		mh.handleAction(ctx, matchState, dispatcher, logger, msg)
	}

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger, nk)
	}

	mh.tickTurnTimer(ctx, matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)

	logger.Info("StartGame: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start game but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		mh.sendError(state, dispatcher, logger, senderID, 403, "only the match owner can start the game")
		return
	}

	activeCount := state.GetOccupiedSeatCount()
	if activeCount < app.MinPlayersToStartGame {
		logger.Warn("StartGame: Cannot start with %d players. Need at least %d.", activeCount, app.MinPlayersToStartGame)
		mh.sendError(state, dispatcher, logger, senderID, 400, "not enough players to start")
		return
	}

	// Seat order becomes play order.
	specs := make([]domain.PlayerSpec, 0, activeCount)
	for _, seatUserId := range state.Seats {
		if seatUserId == "" {
			continue
		}
		specs = append(specs, domain.PlayerSpec{
			ID:   domain.PlayerID(seatUserId),
			Name: mh.displayNameFor(state, seatUserId),
		})
	}

	// The stake is fixed for the lifetime of the game even if config
	// reloads mid-match.
	state.Stake = config.GetStake("")

	game, events, err := state.App.StartGame(state.Game, specs, senderID)
	if err != nil {
		logger.Error("StartGame: Failed to start game: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	state.Game = game

	mh.persistGame(ctx, state, logger)

	mh.updateLabel(state, dispatcher, logger)

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}

	mh.resetTurnSecondsRemainingWithBonus(state, logger, gameStartTurnTimerBonusSeconds)

	logger.Info("StartGame: Game started with %d players.", activeCount)
}

// handleAction decodes and applies any non-lifecycle client message.
func (mh *matchHandler) handleAction(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	action, err := actionFromMessage(msg)
	if err != nil {
		logger.Warn("handleAction: Rejected message from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	// A reset wipes the table for everyone, so it carries the same owner
	// gate as starting the game.
	if action.Kind == domain.ActionResetGame && state.seatOf(senderID) != state.OwnerSeat {
		logger.Warn("handleAction: User %s tried to reset the game but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		mh.sendError(state, dispatcher, logger, senderID, 403, "only the match owner can reset the game")
		return
	}

	if err := app.Prevalidate(state.Game, senderID, action); err != nil {
		logger.Debug("handleAction: %s from %s stopped at the gate: %v", action.Kind, senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	mh.applyAction(ctx, state, dispatcher, logger, action, true)
}

// applyAction runs one action through the app service and dispatches
// the resulting events. Errors are reported to the actor only when
// notifyActor is set; bot and timeout actions just log.
func (mh *matchHandler) applyAction(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, action domain.Action, notifyActor bool) bool {
	prevLabel := labelPhase(state.Game)

	next, events, err := state.App.Apply(state.Game, action)
	if err != nil {
		logger.Warn("applyAction: %s rejected for %s: %v", action.Kind, action.Actor, err)
		if notifyActor {
			mh.sendError(state, dispatcher, logger, string(action.Actor), 400, err.Error())
		}
		return false
	}

	state.Game = next

	mh.persistGame(ctx, state, logger)

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}

	if labelPhase(state.Game) != prevLabel {
		mh.updateLabel(state, dispatcher, logger)
	}
	return true
}

// persistGame saves the current game under the match id so it survives a
// handler restart. Failures are logged and play continues; the in-memory
// state stays authoritative.
func (mh *matchHandler) persistGame(ctx context.Context, state *MatchState, logger runtime.Logger) {
	if state.Store == nil || state.Game == nil {
		return
	}
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	if matchID == "" {
		return
	}
	if err := state.Store.Save(ctx, matchID, state.Game); err != nil {
		logger.Warn("persistGame: Could not save game state: %v", err)
	}
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, balancer BotBalancer) {
	// 1. Auto-fill the lobby up to a playable table when a single human
	// has been waiting longer than the configured delay.
	if state.Game == nil || !state.Game.Started {
		humanCount := state.GetHumanPlayerCount()
		if humanCount == 1 {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
				logger.Debug("processBots: Single player detected, starting auto-fill timer.")
			}

			if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
				added := false
				for i, seat := range state.Seats {
					if state.GetOccupiedSeatCount() >= app.MinPlayersToStartGame {
						break
					}
					if seat != "" {
						continue
					}

					identity := bot.GetBotIdentity(i)
					botID := identity.UserID
					state.Seats[i] = botID

					agent, err := bot.NewAgent(botID)
					if err != nil {
						logger.Error("Failed to create bot agent for %s: %v", botID, err)
					} else {
						state.Bots[botID] = agent
					}

					mh.topUpBotWallet(ctx, balancer, logger, botID)

					logger.Info("processBots: Added bot %s (%s) to seat %d", identity.Username, botID, i)
					added = true
				}
				if added {
					mh.updateLabel(state, dispatcher, logger)
					mh.broadcastMatchState(ctx, state, dispatcher, logger)
				}
				state.LastSinglePlayerTick = 0
			}
		} else {
			// Reset timer if 0 or >1 humans
			state.LastSinglePlayerTick = 0
		}
	}

	// 2. Handle bot turns in-game. The engine exposes exactly one awaited
	// actor at a time, effect picks included.
	if state.isGameRunning() {
		actorID, awaiting := state.Game.AwaitingActor()
		currentUserID := string(actorID)

		if awaiting && isBotUserId(currentUserID) {
			if state.BotWaitUntil == 0 {
				delay := rand.Intn(state.BotMaxDelay-state.BotMinDelay+1) + state.BotMinDelay
				state.BotWaitUntil = state.Tick + int64(delay)
				logger.Debug("processBots: Bot %s will act at tick %d (current %d)", currentUserID, state.BotWaitUntil, state.Tick)
			}

			if state.Tick >= state.BotWaitUntil {
				state.BotWaitUntil = 0

				agent, exists := state.Bots[currentUserID]
				if !exists {
					var err error
					agent, err = bot.NewAgent(currentUserID)
					if err != nil {
						logger.Error("processBots: Failed to create fallback agent: %v", err)
						return
					}
					state.Bots[currentUserID] = agent
				}

				action, err := agent.Act(state.Game)
				if err != nil {
					logger.Error("processBots: Bot %s failed to pick an action: %v", currentUserID, err)
					return
				}

				mh.applyAction(ctx, state, dispatcher, logger, action, false)
			}
		} else {
			// Not a bot turn, reset wait if it was set
			state.BotWaitUntil = 0
		}
	}
}

// topUpBotWallet keeps a bot account funded so settlement never drives
// it negative.
func (mh *matchHandler) topUpBotWallet(ctx context.Context, balancer BotBalancer, logger runtime.Logger, botID string) {
	if balancer == nil {
		return
	}

	account, err := balancer.AccountGetId(ctx, botID)
	if err != nil {
		logger.Warn("topUpBotWallet: Failed to read account for bot %s: %v", botID, err)
		return
	}

	var wallet map[string]int64
	if account.Wallet != "" {
		if err := json.Unmarshal([]byte(account.Wallet), &wallet); err != nil {
			logger.Warn("topUpBotWallet: Failed to parse wallet for bot %s: %v", botID, err)
			return
		}
	}

	gold := wallet["gold"]
	if gold >= botWalletFloorGold {
		return
	}

	changes := map[string]int64{"gold": botWalletFloorGold - gold}
	metadata := map[string]interface{}{"reason": "bot_top_up"}
	if _, _, err := balancer.WalletUpdate(ctx, botID, changes, metadata, false); err != nil {
		logger.Warn("topUpBotWallet: Failed to top up bot %s: %v", botID, err)
	}
}

// tickTurnTimer counts down the awaited human's turn and lets the
// timeout brain act for them when it expires. Bots pace themselves in
// processBots and are ignored here.
func (mh *matchHandler) tickTurnTimer(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if !state.isGameRunning() {
		state.AwaitedActor = ""
		return
	}

	actorID, awaiting := state.Game.AwaitingActor()
	if !awaiting || isBotUserId(string(actorID)) {
		state.AwaitedActor = ""
		return
	}

	if string(actorID) != state.AwaitedActor {
		state.AwaitedActor = string(actorID)
		mh.resetTurnSecondsRemainingWithBonus(state, logger, 0)
		return
	}

	state.TurnSecondsRemaining--
	if state.TurnSecondsRemaining > 0 {
		return
	}

	logger.Info("tickTurnTimer: %s ran out of time, playing for them.", state.AwaitedActor)

	player, _, found := state.Game.PlayerByID(actorID)
	if !found || state.TimeoutBrain == nil {
		mh.resetTurnSecondsRemainingWithBonus(state, logger, 0)
		return
	}

	action, err := state.TimeoutBrain.ChooseAction(state.Game, player)
	if err != nil {
		logger.Error("tickTurnTimer: No timeout action for %s: %v", state.AwaitedActor, err)
		mh.resetTurnSecondsRemainingWithBonus(state, logger, 0)
		return
	}

	mh.applyAction(ctx, state, dispatcher, logger, action, false)
	mh.resetTurnSecondsRemainingWithBonus(state, logger, 0)
}

// resetTurnSecondsRemainingWithBonus restarts the turn countdown from
// the configured duration plus bonus seconds.
func (mh *matchHandler) resetTurnSecondsRemainingWithBonus(state *MatchState, logger runtime.Logger, bonusSeconds int) {
	duration := defaultTurnDurationSeconds
	if cfg := config.GetGameConfig(); cfg != nil {
		duration = cfg.TurnDurationSeconds
	}
	state.TurnSecondsRemaining = int64(duration + bonusSeconds)
	logger.Debug("Turn timer reset to %d seconds.", state.TurnSecondsRemaining)
}

// displayNameFor resolves the friendly name shown for a seat occupant.
func (mh *matchHandler) displayNameFor(state *MatchState, userId string) string {
	if p, exists := state.Presences[userId]; exists && p.GetUsername() != "" {
		return p.GetUsername()
	}
	if name := bot.GetBotDisplayName(userId); name != "" {
		return name
	}
	return userId
}

func (mh *matchHandler) broadcastMatchState(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	var players []SeatSnapshot
	for i, userId := range state.Seats {
		if userId == "" {
			continue
		}

		var balance int64
		if state.Economy != nil {
			b, err := state.Economy.GetBalance(ctx, userId)
			if err != nil {
				logger.Debug("broadcastMatchState: No balance for %s: %v", userId, err)
			} else {
				balance = b
			}
		}

		handCount := 0
		if state.Game != nil {
			if p, _, found := state.Game.PlayerByID(domain.PlayerID(userId)); found {
				handCount = len(p.Hand)
			}
		}

		players = append(players, SeatSnapshot{
			UserID:      userId,
			Seat:        i,
			IsOwner:     i == state.OwnerSeat,
			IsBot:       isBotUserId(userId),
			DisplayName: mh.displayNameFor(state, userId),
			Balance:     balance,
			HandCount:   handCount,
		})
	}

	snapshot := MatchSnapshot{
		Seats:     state.Seats[:],
		OwnerSeat: state.OwnerSeat,
		Tick:      state.Tick,
		Players:   players,
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		logger.Error("broadcastMatchState: Failed to marshal snapshot: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpPlayerJoined, payload, nil, nil, true)
}

// sendPrivateState resends the viewer's redacted game view, used when a
// player rejoins a running game.
func (mh *matchHandler) sendPrivateState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userId string) {
	presence, ok := state.Presences[userId]
	if !ok || state.Game == nil {
		return
	}

	payload, err := json.Marshal(app.StateUpdatedPayload{View: app.ViewFor(state.Game, userId)})
	if err != nil {
		logger.Error("sendPrivateState: Failed to marshal view for %s: %v", userId, err)
		return
	}
	dispatcher.BroadcastMessage(OpStateUpdated, payload, []runtime.Presence{presence}, nil, true)
}

// broadcastEvent converts an app event to its wire form and dispatches
// it. Game end events also settle stakes and archive the result.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	if ev.Kind == app.EventGameEnded {
		if p, ok := ev.Payload.(app.GameEndedPayload); ok {
			mh.settleGameEnd(ctx, state, logger, p)
			mh.archiveResult(ctx, state, logger, p)
		}
	}

	opCode, ok := opcodeForEvent(ev.Kind)
	if !ok {
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// If we had intended recipients but none are connected (e.g. they
		// are bots), we MUST NOT broadcast to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, payload, recipients, nil, true)
}

// settleGameEnd moves the stakes: every loser pays the table stake and
// the winner collects the pot minus the house cut. Bot wallets are left
// alone.
func (mh *matchHandler) settleGameEnd(ctx context.Context, state *MatchState, logger runtime.Logger, p app.GameEndedPayload) {
	if state.Economy == nil || state.Stake <= 0 || len(p.Points) < 2 {
		return
	}
	// A drawn game has no winner to collect the pot; nobody pays.
	if p.WinnerID == "" {
		return
	}

	metadata := map[string]interface{}{
		"match_id": ctx.Value(runtime.RUNTIME_CTX_MATCH_ID),
		"reason":   "game_settlement",
	}

	updates := make([]ports.WalletUpdate, 0, len(p.Points))
	for userID := range p.Points {
		if isBotUserId(userID) {
			continue
		}
		amount := -state.Stake
		if userID == p.WinnerID {
			pot := state.Stake * int64(len(p.Points)-1)
			amount = pot - int64(float64(pot)*config.GetTaxRate())
		}
		updates = append(updates, ports.WalletUpdate{
			UserID:   userID,
			Amount:   amount,
			Metadata: metadata,
		})
	}

	if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
		logger.Error("Failed to update balances: %v", err)
	}
}

// archiveResult persists the finished game for match history queries.
func (mh *matchHandler) archiveResult(ctx context.Context, state *MatchState, logger runtime.Logger, p app.GameEndedPayload) {
	if state.Archive == nil {
		return
	}

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	result := ports.MatchResult{
		MatchID:    matchID,
		WinnerID:   p.WinnerID,
		Points:     p.Points,
		Rounds:     p.Rounds,
		FinishedAt: time.Now().Unix(),
	}
	if err := state.Archive.SaveResult(ctx, result); err != nil {
		logger.Error("Failed to archive match result: %v", err)
	}
}

// sendError sends a GameErrorPayload to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	payload, err := json.Marshal(GameErrorPayload{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal error payload: %v", err)
		return
	}

	dispatcher.BroadcastMessage(OpGameError, payload, []runtime.Presence{presence}, nil, true)
}

// labelPhase maps the game lifecycle onto the advertised label phase.
func labelPhase(game *domain.GameState) string {
	switch {
	case game == nil || !game.Started:
		return labelPhaseLobby
	case game.Winner != "" || game.Phase == domain.PhaseEnded:
		return labelPhaseEnded
	default:
		return labelPhasePlaying
	}
}

func buildLabel(state *MatchState) string {
	label := matchLabel{
		Open:  state.GetOpenSeatsCount(),
		Game:  matchLabelGame,
		Phase: labelPhase(state.Game),
	}
	payload, _ := json.Marshal(label)
	return string(payload)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if err := dispatcher.MatchLabelUpdate(buildLabel(state)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
