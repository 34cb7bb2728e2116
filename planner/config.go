package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"settlers/tracker"
)

var ErrInvalidConfig = errors.New("invalid planner config")

// Strategy selects how the decision maker picks among candidate plans.
type Strategy int

const (
	Fast Strategy = iota
	NBest
	Smart
)

var strategyNames = [...]string{"fast", "nbest", "smart"}

func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return fmt.Sprintf("strategy(%d)", int(s))
	}
	return strategyNames[s]
}

func ParseStrategy(name string) (Strategy, error) {
	for i, n := range strategyNames {
		if strings.EqualFold(n, name) {
			return Strategy(i), nil
		}
	}
	return Fast, fmt.Errorf("unknown strategy %q: %w", name, ErrInvalidConfig)
}

func (s *Strategy) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseStrategy(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Strategy) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// Favour discounts the ETA of a plan type: eta - f*eta.
type Favour struct {
	City        float64 `yaml:"city"`
	Settlement  float64 `yaml:"settlement"`
	Card        float64 `yaml:"card"`
	LargestArmy float64 `yaml:"largest_army"`
	LongestRoad float64 `yaml:"longest_road"`
}

// EarlySpeedup is the speedup credited to plans that add no production.
type EarlySpeedup struct {
	Card        int `yaml:"card"`
	LargestArmy int `yaml:"largest_army"`
	LongestRoad int `yaml:"longest_road"`
}

type Config struct {
	Strategy Strategy `yaml:"strategy"`
	NBest    int      `yaml:"n_best"`
	Favour   Favour   `yaml:"favour"`

	MinVPLargestArmy int `yaml:"min_vp_largest_army"`
	MinVPLongestRoad int `yaml:"min_vp_longest_road"`
	FastRaceVP       int `yaml:"fast_race_vp"` // greedy races army and road above this

	RankBySpeedup       bool         `yaml:"rank_by_speedup"`
	RankByDeltaWinETA   bool         `yaml:"rank_by_delta_win_eta"`
	SpeedupDiscount     float64      `yaml:"speedup_discount"`
	DeltaWinETADiscount float64      `yaml:"delta_win_eta_discount"`
	EarlySpeedup        EarlySpeedup `yaml:"early_speedup"`

	AdversarialFactor       float64 `yaml:"adversarial_factor"`
	LeaderAdversarialFactor float64 `yaml:"leader_adversarial_factor"`
	ETABonusFactor          float64 `yaml:"eta_bonus_factor"`
	DevCardMultiplier       float64 `yaml:"dev_card_multiplier"`
	ThreatMultiplier        float64 `yaml:"threat_multiplier"`
	KnightWeight            float64 `yaml:"knight_weight"`
	VPCardWeight            float64 `yaml:"vp_card_weight"`
	BonusScale              float64 `yaml:"bonus_scale"`

	MaxGameLength int `yaml:"max_game_length"` // stands in for an unknown win ETA
	MaxETA        int `yaml:"max_eta"`         // smart ignores pieces further away
	CardPlayDelay int `yaml:"card_play_delay"`
	Cutoff        int `yaml:"cutoff"`
	ETASentinel   int `yaml:"eta_sentinel"`
	ReachDepth    int `yaml:"reach_depth"` // roads searched toward a settlement site

	AnnouncePlans    bool `yaml:"announce_plans"`
	SharePlanChanges bool `yaml:"share_plan_changes"`
}

func DefaultConfig() Config {
	return Config{
		Strategy:                Fast,
		MinVPLargestArmy:        5,
		MinVPLongestRoad:        5,
		FastRaceVP:              4,
		SpeedupDiscount:         1,
		DeltaWinETADiscount:     1,
		AdversarialFactor:       1.5,
		LeaderAdversarialFactor: 3.0,
		ETABonusFactor:          0.8,
		DevCardMultiplier:       2.0,
		ThreatMultiplier:        1.1,
		KnightWeight:            0.58,
		VPCardWeight:            0.21,
		BonusScale:              100,
		MaxGameLength:           300,
		MaxETA:                  99,
		CardPlayDelay:           4,
		Cutoff:                  100,
		ETASentinel:             100,
		ReachDepth:              tracker.DefaultReachDepth,
	}
}

// TrackerOptions carries the estimation settings into a tracker set.
func (c Config) TrackerOptions() []tracker.Option {
	return []tracker.Option{
		tracker.WithCutoff(c.Cutoff),
		tracker.WithSentinel(c.ETASentinel),
		tracker.WithCardPlayDelay(c.CardPlayDelay),
		tracker.WithReachDepth(c.ReachDepth),
	}
}

// Validate checks the constraints the schema cannot express.
func (c Config) Validate() error {
	if c.Strategy < Fast || c.Strategy > Smart {
		return fmt.Errorf("strategy %d: %w", int(c.Strategy), ErrInvalidConfig)
	}
	if c.NBest < 0 {
		return fmt.Errorf("n_best %d is negative: %w", c.NBest, ErrInvalidConfig)
	}
	if c.Cutoff <= 0 || c.ETASentinel <= 0 || c.MaxGameLength <= 0 || c.ReachDepth <= 0 {
		return fmt.Errorf("cutoff, eta_sentinel, max_game_length and reach_depth must be positive: %w", ErrInvalidConfig)
	}
	if c.CardPlayDelay < 0 {
		return fmt.Errorf("card_play_delay %d is negative: %w", c.CardPlayDelay, ErrInvalidConfig)
	}
	if c.ETABonusFactor <= -1 {
		return fmt.Errorf("eta_bonus_factor %v must exceed -1: %w", c.ETABonusFactor, ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads a YAML file and overlays it on DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func ParseConfig(data []byte) (Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if doc != nil {
		if err := validateDocument(doc); err != nil {
			return Config{}, err
		}
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateDocument(doc any) error {
	// The schema validator expects JSON-decoded values.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := configSchema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
