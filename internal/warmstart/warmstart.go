package warmstart

import (
	"log"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/dualwarmstart/internal/qpsolver"
)

// Optimize runs the pipeline once: assemble the objective and constraints,
// solve the QP, and on success unpack the solution into the result matrices.
// It returns false on any solver non-success status, leaving the result
// matrices at their last value (zero before the first successful call).
// No retry is performed; relaxing tolerances is the caller's decision.
func (d *DualWarmStart) Optimize() bool {
	p := d.assembleObjective()
	q := make([]float64, d.numVars)
	a, lb, ub := d.assembleConstraints()

	prob := &qpsolver.Problem{P: p, Q: q, A: a, Lower: lb, Upper: ub}
	settings := qpsolver.Settings{
		EpsAbs:   d.cfg.EpsAbs,
		EpsRel:   d.cfg.EpsRel,
		MaxIter:  d.cfg.MaxIter,
		Alpha:    d.cfg.Alpha,
		Polish:   d.cfg.Polish,
		Infinity: d.cfg.SolverInfinity,
	}

	res, err := d.solver.Solve(prob, settings)
	if err != nil {
		log.Printf("[DualWarmStart] solver rejected problem: %v", err)
		return false
	}
	if !res.Status.Ok() {
		if res.Message != "" {
			log.Printf("[DualWarmStart] warm start unsuccessful, solver status: %s (%s)", res.Status, res.Message)
		} else {
			log.Printf("[DualWarmStart] warm start unsuccessful, solver status: %s", res.Status)
		}
		return false
	}

	d.extract(res.X)
	return true
}

// extract unpacks the flat solution vector into the (entity, time) result
// matrices, following the flattened variable order exactly: the lambda block
// step-major over (obstacle, edge), then the mu block step-major over
// (obstacle, corner). Pure relayout, no numerical transformation.
func (d *DualWarmStart) extract(x []float64) {
	idx := 0
	for i := 0; i <= d.horizon; i++ {
		for j := 0; j < d.edgesSum; j++ {
			d.lWarmUp.Set(j, i, x[idx])
			idx++
		}
	}
	if d.cfg.Verbose {
		log.Printf("[DualWarmStart] variable index after lambda block: %d", idx)
	}
	for i := 0; i <= d.horizon; i++ {
		for j := 0; j < 4*d.obstaclesNum; j++ {
			d.nWarmUp.Set(j, i, x[idx])
			idx++
		}
	}
	if d.cfg.Verbose {
		log.Printf("[DualWarmStart] variable index after mu block: %d", idx)
	}
}

// Results returns copies of the last successfully computed multiplier
// matrices: lambda as edgesSum x (horizon+1) and mu as 4*obstaclesNum x
// (horizon+1). Before the first successful Optimize both are zero.
func (d *DualWarmStart) Results() (lWarmUp, nWarmUp *mat.Dense) {
	return mat.DenseCopyOf(d.lWarmUp), mat.DenseCopyOf(d.nWarmUp)
}
