package passes

import (
	"fmt"

	"github.com/roach88/diwire/internal/container"
	"github.com/roach88/diwire/internal/ir"
	"github.com/roach88/diwire/internal/priority"
)

// Pass mutates the builder during a compile.
type Pass interface {
	Process(b *container.Builder) error
}

// Named is implemented by passes that carry their own identity.
type Named interface {
	Name() string
}

// PassName returns the identity MoveBefore matches on: Name() when the pass
// implements Named, otherwise its Go type.
func PassName(p Pass) string {
	if n, ok := p.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", p)
}

// Default priorities.
const (
	PriorityBuiltinFirst = 100
	PriorityDefault      = 0
	PriorityBuiltinLast  = -100
)

// PassConfig holds the ordered pass list of every tier.
// It is not safe for concurrent use.
type PassConfig struct {
	tiers map[Tier]*priority.Buckets[Pass]
}

// NewPassConfig returns a schedule holding the built-in passes.
func NewPassConfig() *PassConfig {
	c := NewEmptyPassConfig()
	c.mustAdd(ResolveClassPass{}, TierBeforeOptimization, PriorityBuiltinFirst)
	c.mustAdd(ResolveParentPass{}, TierBeforeOptimization, PriorityBuiltinFirst)
	c.mustAdd(RemoveAbstractPass{}, TierRemoving, PriorityDefault)
	c.mustAdd(CheckReferencesPass{}, TierAfterRemoving, PriorityBuiltinLast)
	return c
}

// NewEmptyPassConfig returns a schedule with no passes.
func NewEmptyPassConfig() *PassConfig {
	c := &PassConfig{tiers: make(map[Tier]*priority.Buckets[Pass], len(Tiers))}
	for _, t := range Tiers {
		c.tiers[t] = &priority.Buckets[Pass]{}
	}
	return c
}

func (c *PassConfig) mustAdd(p Pass, tier Tier, prio int) {
	if err := c.Add(p, tier, prio); err != nil {
		panic(err)
	}
}

// Add registers p in tier at prio, after every pass already registered at
// the same priority.
func (c *PassConfig) Add(p Pass, tier Tier, prio int) error {
	b, ok := c.tiers[tier]
	if !ok {
		return fmt.Errorf("unknown pass tier %q", tier)
	}
	b.Add(prio, p)
	return nil
}

// Passes returns the passes of tier in execution order.
func (c *PassConfig) Passes(tier Tier) []Pass {
	b, ok := c.tiers[tier]
	if !ok {
		return nil
	}
	return b.SortAndFlatten(false)
}

// Schedule describes every registered pass, tiers in execution order.
func (c *PassConfig) Schedule() []ir.PassInfo {
	var out []ir.PassInfo
	for _, t := range Tiers {
		out = append(out, c.TierSchedule(t)...)
	}
	return out
}

// TierSchedule describes the passes of one tier in execution order.
func (c *PassConfig) TierSchedule(tier Tier) []ir.PassInfo {
	b, ok := c.tiers[tier]
	if !ok {
		return nil
	}
	var out []ir.PassInfo
	for _, p := range b.Priorities(false) {
		for _, pass := range b.Bucket(p) {
			out = append(out, ir.PassInfo{Name: PassName(pass), Tier: string(tier), Priority: p})
		}
	}
	return out
}

// MoveBeforeDefault is MoveBefore in DefaultTier.
func (c *PassConfig) MoveBeforeDefault(source, target string) error {
	return c.MoveBefore(source, target, DefaultTier)
}

// MoveBefore takes the first pass named source out of tier and puts it
// directly in front of the first remaining pass named target. The moved pass joins
// the target's priority, so passes added later land on the same side of
// both. The tier is left untouched when either name is unknown.
func (c *PassConfig) MoveBefore(source, target string, tier Tier) error {
	b, ok := c.tiers[tier]
	if !ok {
		return &UnknownPassError{Identity: source, Tier: tier}
	}
	named := func(name string) func(Pass) bool {
		return func(p Pass) bool { return PassName(p) == name }
	}

	srcPrio, srcIdx, ok := b.Find(false, named(source))
	if !ok {
		return &UnknownPassError{Identity: source, Tier: tier}
	}
	if _, _, ok := b.Find(false, named(target)); !ok {
		return &UnknownPassError{Identity: target, Tier: tier}
	}

	moved := b.Remove(srcPrio, srcIdx)
	targetPrio, targetIdx, ok := b.Find(false, named(target))
	if !ok {
		// Only a self-move of a single pass gets here.
		b.Insert(srcPrio, srcIdx, moved)
		return nil
	}
	b.Insert(targetPrio, targetIdx, moved)
	return nil
}
