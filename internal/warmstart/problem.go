package warmstart

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/dualwarmstart/internal/qpsolver"
)

// DualWarmStart owns one dual warm-start problem instance: the input
// geometry and trajectory, the dimensions derived from them, and the result
// matrices populated by a successful Optimize call.
type DualWarmStart struct {
	horizon  int
	timeStep float64

	// Ego geometry: front/right/rear/left offsets from the vehicle
	// reference point, and the quantities derived from them.
	ego    *mat.VecDense
	halfL  float64    // l_ev / 2
	halfW  float64    // w_ev / 2
	offset float64    // longitudinal center offset from the reference point
	g      [4]float64 // corner offsets [halfL, halfW, halfL, halfW]

	obstaclesNum int
	edgesNum     []int
	edgesSum     int
	obstaclesA   *mat.Dense    // edgesSum x 2, concatenated half-plane normals
	obstaclesB   *mat.VecDense // edgesSum, half-plane offsets
	xWS          *mat.Dense    // 3 x (horizon+1): x, y, heading

	// Variable-vector partition: lambda block first, mu block after.
	lambdaStart int
	muStart     int
	lambdaCount int
	muCount     int
	numVars     int
	numCons     int

	// Per-obstacle Gram blocks Aj·Ajᵀ, computed once and replayed at
	// every time step (stationary obstacles).
	gramBlocks []*mat.Dense

	cfg    Config
	solver qpsolver.Solver

	lWarmUp *mat.Dense // edgesSum x (horizon+1)
	nWarmUp *mat.Dense // 4*obstaclesNum x (horizon+1)
}

// New validates the inputs, derives the problem dimensions and precomputes
// the per-obstacle Gram blocks. The inputs are retained by reference and
// must not be mutated while the instance is in use.
func New(horizon int, timeStep float64, ego *mat.VecDense, edgesNum []int,
	obstaclesNum int, obstaclesA *mat.Dense, obstaclesB *mat.VecDense,
	xWS *mat.Dense, cfg Config) (*DualWarmStart, error) {

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("warmstart: invalid config: %w", err)
	}
	if horizon < 0 {
		return nil, fmt.Errorf("warmstart: horizon must be >= 0, got %d", horizon)
	}
	if obstaclesNum != len(edgesNum) {
		return nil, fmt.Errorf("warmstart: obstaclesNum %d does not match edge-count vector length %d",
			obstaclesNum, len(edgesNum))
	}
	if obstaclesNum == 0 {
		return nil, fmt.Errorf("warmstart: need at least one obstacle")
	}
	if ego == nil || ego.Len() != 4 {
		return nil, fmt.Errorf("warmstart: ego geometry must have 4 entries")
	}

	edgesSum := 0
	for j, e := range edgesNum {
		if e <= 0 {
			return nil, fmt.Errorf("warmstart: obstacle %d has %d edges, want > 0", j, e)
		}
		edgesSum += e
	}
	if r, c := obstaclesA.Dims(); r != edgesSum || c != 2 {
		return nil, fmt.Errorf("warmstart: obstacles A is %dx%d, want %dx2", r, c, edgesSum)
	}
	if obstaclesB.Len() != edgesSum {
		return nil, fmt.Errorf("warmstart: obstacles b has %d rows, want %d", obstaclesB.Len(), edgesSum)
	}
	if r, c := xWS.Dims(); r != 3 || c != horizon+1 {
		return nil, fmt.Errorf("warmstart: xWS is %dx%d, want 3x%d", r, c, horizon+1)
	}

	steps := horizon + 1
	lambdaCount, err := checkedMul(edgesSum, steps)
	if err != nil {
		return nil, fmt.Errorf("warmstart: lambda count overflows: %w", err)
	}
	muCount, err := checkedMul(4*obstaclesNum, steps)
	if err != nil {
		return nil, fmt.Errorf("warmstart: mu count overflows: %w", err)
	}
	numVars := lambdaCount + muCount
	numCons := 3*obstaclesNum*steps + numVars

	lEV := ego.AtVec(0) + ego.AtVec(2)
	wEV := ego.AtVec(1) + ego.AtVec(3)

	d := &DualWarmStart{
		horizon:      horizon,
		timeStep:     timeStep,
		ego:          ego,
		halfL:        lEV / 2,
		halfW:        wEV / 2,
		offset:       lEV/2 - ego.AtVec(2),
		obstaclesNum: obstaclesNum,
		edgesNum:     append([]int(nil), edgesNum...),
		edgesSum:     edgesSum,
		obstaclesA:   obstaclesA,
		obstaclesB:   obstaclesB,
		xWS:          xWS,
		lambdaStart:  0,
		muStart:      lambdaCount,
		lambdaCount:  lambdaCount,
		muCount:      muCount,
		numVars:      numVars,
		numCons:      numCons,
		cfg:          cfg,
		lWarmUp:      mat.NewDense(edgesSum, steps, nil),
		nWarmUp:      mat.NewDense(4*obstaclesNum, steps, nil),
	}
	d.g = [4]float64{d.halfL, d.halfW, d.halfL, d.halfW}

	switch cfg.Backend {
	case BackendADMM:
		d.solver = qpsolver.NewADMM()
	case BackendHiGHS:
		d.solver = qpsolver.NewHiGHS()
	}

	// Precompute Aj·Ajᵀ per obstacle; the blocks repeat identically at
	// every time step.
	d.gramBlocks = make([]*mat.Dense, obstaclesNum)
	edgeStart := 0
	for j, e := range edgesNum {
		aj := obstaclesA.Slice(edgeStart, edgeStart+e, 0, 2)
		block := mat.NewDense(e, e, nil)
		block.Mul(aj, aj.T())
		d.gramBlocks[j] = block
		edgeStart += e
	}

	return d, nil
}

// UseSolver replaces the backend chosen from Config.Backend. Intended for
// tests and tools that inject a scripted or instrumented solver.
func (d *DualWarmStart) UseSolver(s qpsolver.Solver) { d.solver = s }

// NumVariables returns the flattened decision-vector length.
func (d *DualWarmStart) NumVariables() int { return d.numVars }

// NumConstraints returns the assembled constraint-row count.
func (d *DualWarmStart) NumConstraints() int { return d.numCons }

// checkedMul multiplies two nonnegative counts, failing instead of wrapping.
func checkedMul(a, b int) (int, error) {
	if a > 0 && b > math.MaxInt/a {
		return 0, fmt.Errorf("%d * %d exceeds the index range", a, b)
	}
	return a * b, nil
}
