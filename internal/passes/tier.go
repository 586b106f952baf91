package passes

import "fmt"

// Tier is a phase of the compile. Tiers run in the order of Tiers.
type Tier string

const (
	TierBeforeOptimization Tier = "before_optimization"
	TierOptimization       Tier = "optimization"
	TierBeforeRemoving     Tier = "before_removing"
	TierRemoving           Tier = "removing"
	TierAfterRemoving      Tier = "after_removing"
)

// DefaultTier is where passes go when no tier is given.
const DefaultTier = TierBeforeOptimization

// Tiers lists every tier in execution order.
var Tiers = []Tier{
	TierBeforeOptimization,
	TierOptimization,
	TierBeforeRemoving,
	TierRemoving,
	TierAfterRemoving,
}

// ParseTier resolves a tier name. The empty string is DefaultTier.
func ParseTier(s string) (Tier, error) {
	if s == "" {
		return DefaultTier, nil
	}
	for _, t := range Tiers {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown pass tier %q", s)
}
