package config

import (
	"github.com/nudb/nudbconfig/internal/dag"
)

// derivationGraph links every variable to the variables it is derived from.
func (c *Configuration) derivationGraph() *dag.Graph {
	return dag.Build(c.Variables.Names(), func(name string) []string {
		v, _ := c.Variables.Entry(name)
		return v.DerivedFrom
	})
}

// HasDerivationCycle reports whether derived_from links form a cycle, and
// the cycle found. It never fails; use it to report rather than reject.
func HasDerivationCycle(cfg *Configuration) (bool, []string) {
	return cfg.derivationGraph().HasCycle()
}

// CheckDerivationAcyclic returns a *CycleError naming the first variable
// found to derive from itself, directly or through other variables.
func CheckDerivationAcyclic(cfg *Configuration) error {
	cyclic, path := HasDerivationCycle(cfg)
	if !cyclic {
		return nil
	}
	return &CycleError{Variable: path[0], Path: path}
}

// DerivationOrder returns the declared variables ordered so that every
// variable follows the variables it is derived from.
func (c *Configuration) DerivationOrder() ([]string, error) {
	if err := CheckDerivationAcyclic(c); err != nil {
		return nil, err
	}
	order, err := c.derivationGraph().TopologicalSort()
	if err != nil {
		return nil, err
	}
	declared := order[:0]
	for _, name := range order {
		if c.Variables.Contains(name) {
			declared = append(declared, name)
		}
	}
	return declared, nil
}

// DerivationLevels groups declared variables by derivation depth.
func (c *Configuration) DerivationLevels() ([][]string, error) {
	if err := CheckDerivationAcyclic(c); err != nil {
		return nil, err
	}
	levels, err := c.derivationGraph().Levels()
	if err != nil {
		return nil, err
	}
	out := levels[:0]
	for _, level := range levels {
		declared := level[:0]
		for _, name := range level {
			if c.Variables.Contains(name) {
				declared = append(declared, name)
			}
		}
		if len(declared) > 0 {
			out = append(out, declared)
		}
	}
	return out, nil
}

// Upstream returns every variable name that name is derived from,
// directly or transitively, sorted.
func (c *Configuration) Upstream(name string) []string {
	return c.derivationGraph().Upstream(name)
}

// Downstream returns every variable derived from name, directly or
// transitively, sorted.
func (c *Configuration) Downstream(name string) []string {
	return c.derivationGraph().Downstream(name)
}
