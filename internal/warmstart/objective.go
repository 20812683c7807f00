package warmstart

import "github.com/banshee-data/dualwarmstart/internal/sparse"

// assembleObjective builds the quadratic cost P over the lambda block:
// minimizing ‖Ajᵀ·lambda_j‖² per obstacle, which is the Gram block Aj·Ajᵀ
// placed on the diagonal once per (time step, obstacle). The mu block has
// zero cost and contributes empty columns only, keeping P square of size
// numVars for the solver.
//
// The full Gram block is stored rather than one triangle; the backends
// expect complete entries for this formulation.
func (d *DualWarmStart) assembleObjective() *sparse.CSC {
	bld := sparse.NewBuilder(d.numVars, d.numVars)

	lIndex := d.lambdaStart
	for i := 0; i <= d.horizon; i++ {
		for j, block := range d.gramBlocks {
			e := d.edgesNum[j]
			for c := 0; c < e; c++ {
				bld.StartColumn()
				for r := 0; r < e; r++ {
					bld.Append(lIndex+r, block.At(r, c))
				}
			}
			lIndex += e
		}
	}
	bld.EmptyColumns(d.muCount)
	return bld.Finish()
}
