package qpsolver

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/dualwarmstart/internal/sparse"
)

// ADMM is an operator-splitting QP backend implementing the OSQP iteration.
// Problems assembled for the dual warm start are small and dense enough that
// the KKT system is factorized once with a dense LU; there is no need for a
// sparse LDLᵀ here.
//
// An ADMM value is stateless between Solve calls and safe to reuse, though
// not concurrently.
type ADMM struct {
	// Rho is the ADMM step size for inequality rows. Equality rows
	// (lower == upper) use Rho scaled by equalityRhoScale.
	Rho float64
	// Sigma regularizes the quadratic block of the KKT matrix.
	Sigma float64
}

const (
	equalityRhoScale = 1e3
	residualInterval = 25   // iterations between convergence checks
	inaccurateFactor = 1e2  // residual slack for "solved inaccurate"
	polishDelta      = 1e-7 // active-set refinement regularization
	activeTolerance  = 1e-7 // distance from a bound treated as active
)

// NewADMM returns a backend with the reference step parameters.
func NewADMM() *ADMM {
	return &ADMM{Rho: 0.1, Sigma: 1e-6}
}

// Solve runs the ADMM iteration until the primal and dual residuals fall
// under the tolerance, the iteration cap is reached, or the bounds are found
// contradictory.
func (a *ADMM) Solve(p *Problem, s Settings) (Result, error) {
	if err := p.validate(); err != nil {
		return Result{Status: StatusError}, err
	}
	s = s.withDefaults()
	n := p.Vars()
	m := p.Constraints()

	lower := append([]float64(nil), p.Lower...)
	upper := append([]float64(nil), p.Upper...)
	for i := 0; i < m; i++ {
		if lower[i] > upper[i] {
			return Result{
				Status:  StatusPrimalInfeasible,
				Message: "contradictory bounds",
			}, nil
		}
		if lower[i] < -s.Infinity {
			lower[i] = math.Inf(-1)
		}
		if upper[i] > s.Infinity {
			upper[i] = math.Inf(1)
		}
	}

	P := denseOf(p.P)
	A := denseOf(p.A)

	// Per-row step size: equality rows get a much stiffer rho, following
	// the OSQP handling of l == u.
	rho := make([]float64, m)
	for i := 0; i < m; i++ {
		if upper[i]-lower[i] < activeTolerance {
			rho[i] = a.Rho * equalityRhoScale
		} else {
			rho[i] = a.Rho
		}
	}

	// KKT = [P+σI  Aᵀ; A  -diag(1/ρ)], factorized once.
	kkt := mat.NewDense(n+m, n+m, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			kkt.Set(i, j, P.At(i, j))
		}
		kkt.Set(i, i, kkt.At(i, i)+a.Sigma)
	}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			v := A.At(i, j)
			kkt.Set(n+i, j, v)
			kkt.Set(j, n+i, v)
		}
		kkt.Set(n+i, n+i, -1/rho[i])
	}
	var lu mat.LU
	lu.Factorize(kkt)

	x := make([]float64, n)
	z := make([]float64, m)
	y := make([]float64, m)
	rhs := mat.NewVecDense(n+m, nil)
	sol := mat.NewVecDense(n+m, nil)

	iter := 0
	solved := false
	for iter = 1; iter <= s.MaxIter; iter++ {
		for i := 0; i < n; i++ {
			rhs.SetVec(i, a.Sigma*x[i]-p.Q[i])
		}
		for i := 0; i < m; i++ {
			rhs.SetVec(n+i, z[i]-y[i]/rho[i])
		}
		if err := lu.SolveVecTo(sol, false, rhs); err != nil {
			return Result{Status: StatusError, Message: "KKT factorization is singular"}, nil
		}

		for i := 0; i < n; i++ {
			x[i] = s.Alpha*sol.AtVec(i) + (1-s.Alpha)*x[i]
		}
		for i := 0; i < m; i++ {
			zt := z[i] + (sol.AtVec(n+i)-y[i])/rho[i]
			relaxed := s.Alpha*zt + (1-s.Alpha)*z[i]
			z[i] = clamp(relaxed+y[i]/rho[i], lower[i], upper[i])
			y[i] = y[i] + rho[i]*(relaxed-z[i])
		}

		if iter%residualInterval == 0 || iter == s.MaxIter {
			if a.converged(p, P, A, x, z, y, s, 1) {
				solved = true
				break
			}
		}
	}

	if !solved {
		if a.converged(p, P, A, x, z, y, s, inaccurateFactor) {
			return Result{Status: StatusSolvedInaccurate, X: x, Iterations: iter - 1}, nil
		}
		return Result{Status: StatusMaxIterations, Iterations: s.MaxIter,
			Message: "residuals above tolerance at iteration cap"}, nil
	}

	if s.Polish {
		a.polish(p, P, A, x, z, y, lower, upper)
	}
	return Result{Status: StatusSolved, X: x, Iterations: iter}, nil
}

// converged evaluates the OSQP termination criterion, with slack inflating
// the tolerances for the inaccurate check.
func (a *ADMM) converged(p *Problem, P, A *mat.Dense, x, z, y []float64, s Settings, slack float64) bool {
	n := len(x)
	m := len(z)
	ax := make([]float64, m)
	px := make([]float64, n)
	aty := make([]float64, n)
	for i := 0; i < m; i++ {
		v := 0.0
		for j := 0; j < n; j++ {
			v += A.At(i, j) * x[j]
		}
		ax[i] = v
	}
	for i := 0; i < n; i++ {
		pv, av := 0.0, 0.0
		for j := 0; j < n; j++ {
			pv += P.At(i, j) * x[j]
		}
		for k := 0; k < m; k++ {
			av += A.At(k, i) * y[k]
		}
		px[i] = pv
		aty[i] = av
	}

	primal := 0.0
	for i := 0; i < m; i++ {
		primal = math.Max(primal, math.Abs(ax[i]-z[i]))
	}
	dual := 0.0
	for i := 0; i < n; i++ {
		dual = math.Max(dual, math.Abs(px[i]+p.Q[i]+aty[i]))
	}

	epsPrimal := slack * (s.EpsAbs + s.EpsRel*math.Max(infNorm(ax), infNorm(z)))
	epsDual := slack * (s.EpsAbs + s.EpsRel*math.Max(math.Max(infNorm(px), infNorm(aty)), infNorm(p.Q)))
	return primal <= epsPrimal && dual <= epsDual
}

// polish refines x on the detected active set by solving the corresponding
// equality-constrained QP. A failed refinement leaves x untouched.
func (a *ADMM) polish(p *Problem, P, A *mat.Dense, x, z, y, lower, upper []float64) {
	n := len(x)
	m := len(z)
	var active []int
	target := make([]float64, 0, m)
	for i := 0; i < m; i++ {
		switch {
		case z[i]-lower[i] <= activeTolerance && !math.IsInf(lower[i], -1):
			active = append(active, i)
			target = append(target, lower[i])
		case upper[i]-z[i] <= activeTolerance && !math.IsInf(upper[i], 1):
			active = append(active, i)
			target = append(target, upper[i])
		}
	}
	if len(active) == 0 {
		return
	}

	k := len(active)
	sys := mat.NewDense(n+k, n+k, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sys.Set(i, j, P.At(i, j))
		}
		sys.Set(i, i, sys.At(i, i)+polishDelta)
	}
	for r, row := range active {
		for j := 0; j < n; j++ {
			v := A.At(row, j)
			sys.Set(n+r, j, v)
			sys.Set(j, n+r, v)
		}
		sys.Set(n+r, n+r, -polishDelta)
	}
	rhs := mat.NewVecDense(n+k, nil)
	for i := 0; i < n; i++ {
		rhs.SetVec(i, -p.Q[i])
	}
	for r := range active {
		rhs.SetVec(n+r, target[r])
	}

	var lu mat.LU
	lu.Factorize(sys)
	sol := mat.NewVecDense(n+k, nil)
	if err := lu.SolveVecTo(sol, false, rhs); err != nil {
		return
	}
	// Accept the polished point only if it stays feasible for the
	// inactive rows.
	cand := make([]float64, n)
	for i := 0; i < n; i++ {
		cand[i] = sol.AtVec(i)
	}
	for i := 0; i < m; i++ {
		v := 0.0
		for j := 0; j < n; j++ {
			v += A.At(i, j) * cand[j]
		}
		if v < lower[i]-activeTolerance || v > upper[i]+activeTolerance {
			return
		}
	}
	copy(x, cand)
}

func denseOf(m *sparse.CSC) *mat.Dense {
	d := mat.NewDense(m.Rows, m.Cols, nil)
	for c := 0; c < m.Cols; c++ {
		for k := m.Indptr[c]; k < m.Indptr[c+1]; k++ {
			r := m.Indices[k]
			d.Set(r, c, d.At(r, c)+m.Data[k])
		}
	}
	return d
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func infNorm(v []float64) float64 {
	out := 0.0
	for _, x := range v {
		out = math.Max(out, math.Abs(x))
	}
	return out
}
