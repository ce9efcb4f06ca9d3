package bot

import (
	"fmt"

	"gotcha/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// NewAgent builds an agent for a bot user ID, picking the strategy from
// the provisioned identity's difficulty. Unknown IDs fall back to the
// casual strategy so a match never stalls on a missing profile.
func NewAgent(botID string) (*Agent, error) {
	identity, ok := GetBotConfig(botID)
	if !ok {
		identity = BotIdentity{UserID: botID}
	}
	brain, err := NewBrain(levelForDifficulty(identity.Difficulty))
	if err != nil {
		return nil, fmt.Errorf("bot %s: %w", botID, err)
	}
	name := identity.DisplayName
	if name == "" {
		name = identity.Username
	}
	return &Agent{ID: botID, Name: name, Strategy: brain}, nil
}

// Act asks the agent to choose its next action in the given game.
func (a *Agent) Act(game *domain.GameState) (domain.Action, error) {
	player, _, found := game.PlayerByID(domain.PlayerID(a.ID))
	if !found {
		return domain.Action{}, fmt.Errorf("bot %s is not seated in this game", a.ID)
	}
	return a.Strategy.ChooseAction(game, player)
}
