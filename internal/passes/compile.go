package passes

import (
	"fmt"

	"github.com/roach88/diwire/internal/container"
	"github.com/roach88/diwire/internal/ir"
)

// Observer is told about each pass just before it runs.
type Observer interface {
	OnPass(tier Tier, name string)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(tier Tier, name string)

func (f ObserverFunc) OnPass(tier Tier, name string) { f(tier, name) }

// Run executes every pass of c against b, tier by tier. The first failure
// stops the run and is returned as a *PassError. obs may be nil.
func (c *PassConfig) Run(b *container.Builder, obs Observer) error {
	for _, tier := range Tiers {
		for _, p := range c.Passes(tier) {
			name := PassName(p)
			if obs != nil {
				obs.OnPass(tier, name)
			}
			if err := p.Process(b); err != nil {
				return &PassError{Pass: name, Tier: tier, Err: err}
			}
		}
	}
	return nil
}

// Configure builds the schedule for spec: the built-in passes, one pass per
// wiring declaration, then every move in declaration order.
func Configure(spec ir.ContainerSpec) (*PassConfig, error) {
	cfg := NewPassConfig()
	for i, w := range spec.Wiring {
		p, err := NewWiringPass(w)
		if err != nil {
			return nil, fmt.Errorf("wiring[%d]: %w", i, err)
		}
		tier, err := ParseTier(w.Tier)
		if err != nil {
			return nil, fmt.Errorf("wiring[%d]: %w", i, err)
		}
		if err := cfg.Add(p, tier, w.Priority); err != nil {
			return nil, fmt.Errorf("wiring[%d]: %w", i, err)
		}
	}
	for i, m := range spec.Moves {
		tier, err := ParseTier(m.Tier)
		if err != nil {
			return nil, fmt.Errorf("moves[%d]: %w", i, err)
		}
		if err := cfg.MoveBefore(m.Source, m.Target, tier); err != nil {
			return nil, fmt.Errorf("moves[%d]: %w", i, err)
		}
	}
	return cfg, nil
}

// Compile configures and runs the schedule for spec and returns the
// resulting container with its content hash. spec is not modified.
func Compile(spec ir.ContainerSpec, obs Observer) (*ir.CompiledContainer, error) {
	cfg, err := Configure(spec)
	if err != nil {
		return nil, err
	}
	b := container.FromServices(spec.Services)
	if err := cfg.Run(b, obs); err != nil {
		return nil, err
	}

	out := &ir.CompiledContainer{
		Services: b.Services(),
		Passes:   cfg.Schedule(),
	}
	hash, err := ir.ContainerHash(out)
	if err != nil {
		return nil, fmt.Errorf("hash container: %w", err)
	}
	out.Hash = hash
	return out, nil
}
