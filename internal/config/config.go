package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"gotcha/internal/domain"
)

// StakeTier is one buy-in level a lobby can be created at.
type StakeTier struct {
	ID    string `json:"id"`
	Stake int64  `json:"stake"`
}

type GameConfig struct {
	// Rule overrides. Zero values fall back to the standard game.
	WinThreshold int `json:"win_threshold"`
	HandSize     int `json:"hand_size"`
	OfferSize    int `json:"offer_size"`

	// TaxRate is the house cut taken from the winner's payout.
	TaxRate     float64     `json:"tax_rate"`
	DefaultTier string      `json:"default_tier"`
	Tiers       []StakeTier `json:"tiers"`

	TurnDurationSeconds int `json:"turn_duration_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds a solo human
	// waits before bots fill the table.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetRules returns the configured rule overrides merged over the
// standard game parameters.
func GetRules() domain.Rules {
	rules := domain.DefaultRules()
	if cfg == nil {
		return rules
	}
	if cfg.WinThreshold > 0 {
		rules.WinThreshold = cfg.WinThreshold
	}
	if cfg.HandSize > 0 {
		rules.HandSize = cfg.HandSize
	}
	if cfg.OfferSize > 0 {
		rules.OfferSize = cfg.OfferSize
	}
	return rules
}

// GetStake returns the gold each player puts up for a given tier ID, or
// the default tier if not found.
func GetStake(tierID string) int64 {
	if cfg == nil {
		return 100 // Safe default
	}

	target := tierID
	if target == "" {
		target = cfg.DefaultTier
	}

	for _, tier := range cfg.Tiers {
		if tier.ID == target {
			return tier.Stake
		}
	}

	// Fallback to default tier if specific ID not found
	for _, tier := range cfg.Tiers {
		if tier.ID == cfg.DefaultTier {
			return tier.Stake
		}
	}

	return 100
}

// GetTaxRate returns the house cut applied to winner payouts.
func GetTaxRate() float64 {
	if cfg == nil || cfg.TaxRate < 0 || cfg.TaxRate >= 1 {
		return 0
	}
	return cfg.TaxRate
}
