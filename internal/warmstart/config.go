package warmstart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Backend names accepted by Config.Backend.
const (
	BackendADMM  = "admm"
	BackendHiGHS = "highs"
)

// Config bundles the solver knobs the outer planner may tune. All fields
// are overridable; DefaultConfig returns the reference values used by the
// open-space planner.
type Config struct {
	EpsAbs  float64 // absolute convergence tolerance
	EpsRel  float64 // relative convergence tolerance
	MaxIter int     // solver iteration cap
	Alpha   float64 // ADMM relaxation parameter
	Polish  bool    // refine the solution on the active set

	// SolverInfinity is the finite magnitude standing in for an unbounded
	// constraint side. Kept configurable rather than a literal because
	// backends differ in what they treat as infinite.
	SolverInfinity float64

	Backend string // "admm" (default) or "highs" (feasibility-only, cgo)
	Verbose bool   // log extraction counters after a successful solve
}

// DefaultConfig returns the reference solver configuration.
func DefaultConfig() Config {
	return Config{
		EpsAbs:         1e-5,
		EpsRel:         1e-5,
		MaxIter:        5000,
		Alpha:          1.0,
		Polish:         true,
		SolverInfinity: 2e19,
		Backend:        BackendADMM,
	}
}

// Validate checks the configuration for values no backend can run with.
func (c Config) Validate() error {
	if c.EpsAbs <= 0 || c.EpsRel <= 0 {
		return fmt.Errorf("tolerances must be positive, got eps_abs=%g eps_rel=%g", c.EpsAbs, c.EpsRel)
	}
	if c.MaxIter <= 0 {
		return fmt.Errorf("max_iter must be positive, got %d", c.MaxIter)
	}
	if c.SolverInfinity <= 0 {
		return fmt.Errorf("solver_infinity must be positive, got %g", c.SolverInfinity)
	}
	switch c.Backend {
	case BackendADMM, BackendHiGHS:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}

// ConfigOverrides carries optional overrides parsed from JSON. Fields left
// nil keep the defaults, so partial override files are safe.
type ConfigOverrides struct {
	EpsAbs         *float64 `json:"eps_abs,omitempty"`
	EpsRel         *float64 `json:"eps_rel,omitempty"`
	MaxIter        *int     `json:"max_iter,omitempty"`
	Alpha          *float64 `json:"alpha,omitempty"`
	Polish         *bool    `json:"polish,omitempty"`
	SolverInfinity *float64 `json:"solver_infinity,omitempty"`
	Backend        *string  `json:"backend,omitempty"`
	Verbose        *bool    `json:"verbose,omitempty"`
}

// Apply returns base with every non-nil override applied.
func (o *ConfigOverrides) Apply(base Config) Config {
	if o == nil {
		return base
	}
	if o.EpsAbs != nil {
		base.EpsAbs = *o.EpsAbs
	}
	if o.EpsRel != nil {
		base.EpsRel = *o.EpsRel
	}
	if o.MaxIter != nil {
		base.MaxIter = *o.MaxIter
	}
	if o.Alpha != nil {
		base.Alpha = *o.Alpha
	}
	if o.Polish != nil {
		base.Polish = *o.Polish
	}
	if o.SolverInfinity != nil {
		base.SolverInfinity = *o.SolverInfinity
	}
	if o.Backend != nil {
		base.Backend = *o.Backend
	}
	if o.Verbose != nil {
		base.Verbose = *o.Verbose
	}
	return base
}

// LoadOverrides reads a JSON override file. Fields omitted from the file
// stay nil and therefore keep their defaults when applied.
func LoadOverrides(path string) (*ConfigOverrides, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	o := &ConfigOverrides{}
	if err := json.Unmarshal(data, o); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return o, nil
}
