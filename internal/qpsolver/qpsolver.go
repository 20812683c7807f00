// Package qpsolver defines the narrow contract the dual warm-start pipeline
// uses to talk to a convex quadratic-program solver, together with the
// available backends.
//
// The problem shape is the standard OSQP form:
//
//	minimize   ½ xᵀPx + qᵀx
//	subject to l ≤ Ax ≤ u
//
// with P positive semidefinite in compressed sparse-column form.
package qpsolver

import (
	"fmt"

	"github.com/banshee-data/dualwarmstart/internal/sparse"
)

// Status is the solver's terminal state. Only StatusSolved and
// StatusSolvedInaccurate count as success.
type Status int

const (
	StatusSolved Status = iota
	StatusSolvedInaccurate
	StatusPrimalInfeasible
	StatusDualInfeasible
	StatusMaxIterations
	StatusError
)

// Ok reports whether the status means the primal solution is usable.
func (s Status) Ok() bool {
	return s == StatusSolved || s == StatusSolvedInaccurate
}

func (s Status) String() string {
	switch s {
	case StatusSolved:
		return "solved"
	case StatusSolvedInaccurate:
		return "solved inaccurate"
	case StatusPrimalInfeasible:
		return "primal infeasible"
	case StatusDualInfeasible:
		return "dual infeasible"
	case StatusMaxIterations:
		return "maximum iterations reached"
	case StatusError:
		return "solver error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Problem is one QP instance. All slices are borrowed for the duration of a
// Solve call and never retained.
type Problem struct {
	P     *sparse.CSC // n×n quadratic cost, PSD
	Q     []float64   // linear cost, length n
	A     *sparse.CSC // m×n constraint matrix
	Lower []float64   // length m
	Upper []float64   // length m
}

// Vars returns the number of decision variables n.
func (p *Problem) Vars() int { return p.P.Cols }

// Constraints returns the number of constraint rows m.
func (p *Problem) Constraints() int { return p.A.Rows }

// validate checks the cross-array dimension contract shared by all backends.
func (p *Problem) validate() error {
	n := p.P.Cols
	if p.P.Rows != n {
		return fmt.Errorf("qpsolver: P is %dx%d, want square", p.P.Rows, p.P.Cols)
	}
	if len(p.Q) != n {
		return fmt.Errorf("qpsolver: q has length %d, want %d", len(p.Q), n)
	}
	if p.A.Cols != n {
		return fmt.Errorf("qpsolver: A has %d columns, want %d", p.A.Cols, n)
	}
	m := p.A.Rows
	if len(p.Lower) != m || len(p.Upper) != m {
		return fmt.Errorf("qpsolver: bounds have lengths %d/%d, want %d", len(p.Lower), len(p.Upper), m)
	}
	return nil
}

// Settings carries the solver knobs the caller may tune. Zero values are
// replaced by the listed defaults, which match the warm-start formulation's
// reference configuration.
type Settings struct {
	EpsAbs   float64 // absolute tolerance (default 1e-5)
	EpsRel   float64 // relative tolerance (default 1e-5)
	MaxIter  int     // iteration cap (default 5000)
	Alpha    float64 // relaxation parameter (default 1.0)
	Polish   bool    // refine the solution on the detected active set
	Infinity float64 // bound magnitude treated as unbounded (default 2e19)
}

func (s Settings) withDefaults() Settings {
	if s.EpsAbs == 0 {
		s.EpsAbs = 1e-5
	}
	if s.EpsRel == 0 {
		s.EpsRel = 1e-5
	}
	if s.MaxIter == 0 {
		s.MaxIter = 5000
	}
	if s.Alpha == 0 {
		s.Alpha = 1.0
	}
	if s.Infinity == 0 {
		s.Infinity = 2e19
	}
	return s
}

// Result is the outcome of one Solve call. X is nil unless Status.Ok().
type Result struct {
	Status     Status
	X          []float64 // primal solution, length n
	Iterations int
	Message    string // backend detail for non-success statuses
}

// Solver is the single entry point backends implement. A returned error
// means the problem was malformed; solver non-convergence is reported
// through Result.Status instead.
type Solver interface {
	Solve(p *Problem, s Settings) (Result, error)
}
