//go:build highs

package qpsolver

import (
	"fmt"
	"math"
	"strings"

	"github.com/lanl/highs"
)

// HiGHS is an LP backend over the lanl HiGHS bindings. It only accepts
// problems with an empty quadratic term, which makes it suitable for the
// feasibility-only warm start (zero or linear cost over the same constraint
// set) but not for the full Gram-block objective.
//
// Building this backend requires cgo and a system HiGHS installation, hence
// the build tag.
type HiGHS struct{}

// NewHiGHS returns the LP backend.
func NewHiGHS() Solver { return &HiGHS{} }

// Solve maps the problem into a highs.Model and runs it.
func (h *HiGHS) Solve(p *Problem, s Settings) (Result, error) {
	if err := p.validate(); err != nil {
		return Result{Status: StatusError}, err
	}
	if p.P.Nonzeros() != 0 {
		return Result{Status: StatusError},
			fmt.Errorf("qpsolver: HiGHS backend is linear-only, P has %d nonzeros", p.P.Nonzeros())
	}
	s = s.withDefaults()
	n := p.Vars()
	m := p.Constraints()

	lp := new(highs.Model)
	lp.ColCosts = append([]float64(nil), p.Q...)
	lp.ColLower = make([]float64, n)
	lp.ColUpper = make([]float64, n)
	for j := 0; j < n; j++ {
		lp.ColLower[j] = math.Inf(-1)
		lp.ColUpper[j] = math.Inf(1)
	}

	for c := 0; c < n; c++ {
		for k := p.A.Indptr[c]; k < p.A.Indptr[c+1]; k++ {
			lp.ConstMatrix = append(lp.ConstMatrix,
				highs.Nonzero{Row: p.A.Indices[k], Col: c, Val: p.A.Data[k]})
		}
	}
	lp.RowLower = make([]float64, m)
	lp.RowUpper = make([]float64, m)
	for i := 0; i < m; i++ {
		lp.RowLower[i] = p.Lower[i]
		lp.RowUpper[i] = p.Upper[i]
		if lp.RowLower[i] < -s.Infinity {
			lp.RowLower[i] = math.Inf(-1)
		}
		if lp.RowUpper[i] > s.Infinity {
			lp.RowUpper[i] = math.Inf(1)
		}
	}

	solution, err := lp.Solve()
	if err != nil {
		return Result{Status: StatusError, Message: err.Error()}, nil
	}
	if solution.Status != highs.Optimal {
		status := StatusError
		if strings.Contains(strings.ToLower(solution.Status.String()), "infeasible") {
			status = StatusPrimalInfeasible
		}
		return Result{Status: status, Message: solution.Status.String()}, nil
	}
	return Result{Status: StatusSolved, X: solution.ColumnPrimal[:n]}, nil
}
