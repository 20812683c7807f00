package warmstart

import (
	"math"

	"github.com/banshee-data/dualwarmstart/internal/sparse"
)

// assembleConstraints builds the sparse constraint matrix and its bound
// vectors. Row layout, for on = obstaclesNum and steps = horizon+1:
//
//	| R·Aᵀ   Gᵀ |   rows [0, 2·on·steps)        lb = ub = 0
//	| t·Aᵀ-bᵀ g |   rows [2·on·steps, 3·on·steps)  lb = 0, ub = inf
//	| I       0 |   lambdaCount rows               lb = 0, ub = inf
//	| 0       I |   muCount rows                   lb = 0, ub = inf
//
// Columns follow the flattened variable order: every lambda column is
// emitted inside the per-(step, obstacle, edge) loop, then every mu column
// inside the per-(step, obstacle, corner) loop.
func (d *DualWarmStart) assembleConstraints() (*sparse.CSC, []float64, []float64) {
	on := d.obstaclesNum
	steps := d.horizon + 1
	bld := sparse.NewBuilder(d.numCons, d.numVars)

	r1 := 0
	r2 := 2 * on * steps
	r3 := 3 * on * steps
	r4 := r3 + d.lambdaCount

	// lambda columns
	for i := 0; i < steps; i++ {
		theta := d.xWS.At(2, i)
		// Deliberately [[cosθ, sinθ], [sinθ, cosθ]], not a proper
		// rotation: the outer optimizer consumes duals produced
		// against this exact convention.
		cosT := math.Cos(theta)
		sinT := math.Sin(theta)
		tx := d.xWS.At(0, i) + cosT*d.offset
		ty := d.xWS.At(1, i) + sinT*d.offset

		edgeStart := 0
		for j := 0; j < on; j++ {
			e := d.edgesNum[j]
			for k := 0; k < e; k++ {
				a0 := d.obstaclesA.At(edgeStart+k, 0)
				a1 := d.obstaclesA.At(edgeStart+k, 1)

				bld.StartColumn()
				bld.Append(r1, cosT*a0+sinT*a1)
				bld.Append(r1+1, sinT*a0+cosT*a1)
				bld.Append(r2, tx*a0+ty*a1-d.obstaclesB.AtVec(edgeStart+k))
				bld.Append(r3, 1.0)
				r3++
			}
			edgeStart += e
			r1 += 2
			r2++
		}
	}

	// mu columns, G = [[1, 0, -1, 0], [0, 1, 0, -1]]
	r1 = 0
	r2 = 2 * on * steps
	for i := 0; i < steps; i++ {
		for j := 0; j < on; j++ {
			for k := 0; k < 4; k++ {
				bld.StartColumn()
				if k < 2 {
					bld.Append(r1+k%2, 1.0)
				} else {
					bld.Append(r1+k%2, -1.0)
				}
				bld.Append(r2, d.g[k])
				bld.Append(r4, 1.0)
				r4++
			}
			r1 += 2
			r2++
		}
	}

	a := bld.Finish()

	lb := make([]float64, d.numCons)
	ub := make([]float64, d.numCons)
	for i := range ub {
		if i < 2*on*steps {
			ub[i] = 0 // rotated-normal rows are equalities
		} else {
			ub[i] = d.cfg.SolverInfinity
		}
	}
	return a, lb, ub
}
