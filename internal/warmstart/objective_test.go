package warmstart

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestAssembleObjective_Structure(t *testing.T) {
	a, b := squareObstacle()
	d, err := New(0, 0.1, unitEgo(), []int{4}, 1, a, b, originTrajectory(0), DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	p := d.assembleObjective()
	if p.Rows != 8 || p.Cols != 8 {
		t.Fatalf("P is %dx%d, want 8x8", p.Rows, p.Cols)
	}
	if len(p.Indptr) != d.NumVariables()+1 {
		t.Errorf("indptr length %d, want %d", len(p.Indptr), d.NumVariables()+1)
	}
	if len(p.Data) != len(p.Indices) {
		t.Errorf("data/index length mismatch: %d vs %d", len(p.Data), len(p.Indices))
	}

	// The lambda block holds the Gram matrix A·Aᵀ; the mu columns are empty.
	want := [][]float64{
		{1, 0, -1, 0},
		{0, 1, 0, -1},
		{-1, 0, 1, 0},
		{0, -1, 0, 1},
	}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if got := p.At(r, c); got != want[r][c] {
				t.Errorf("P(%d,%d) = %v, want %v", r, c, got, want[r][c])
			}
		}
	}
	for c := 4; c < 8; c++ {
		if p.Indptr[c] != p.Indptr[c+1] {
			t.Errorf("mu column %d has entries", c)
		}
	}
}

func TestAssembleObjective_SymmetricAndPSD(t *testing.T) {
	// Two obstacles with unequal edge counts across three steps.
	a := mat.NewDense(7, 2, []float64{
		1, 0,
		0, 1,
		-1, -1,
		1, 0,
		0, 1,
		-1, 0,
		0, -1,
	})
	b := mat.NewVecDense(7, []float64{1, 1, -1, 5, 5, -4, -4})
	d, err := New(2, 0.1, unitEgo(), []int{3, 4}, 2, a, b, originTrajectory(2), DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	p := d.assembleObjective()
	dense := p.Dense()
	n := d.NumVariables()
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if dense[r][c] != dense[c][r] {
				t.Fatalf("P not symmetric at (%d,%d): %v vs %v", r, c, dense[r][c], dense[c][r])
			}
		}
	}

	// Each diagonal block is a Gram matrix, so xᵀPx = Σ‖Ajᵀxj‖² >= 0.
	// Spot check with a few deterministic vectors.
	for trial := 0; trial < 5; trial++ {
		x := make([]float64, n)
		for i := range x {
			x[i] = math.Sin(float64(trial*31 + i*7))
		}
		quad := 0.0
		for r := 0; r < n; r++ {
			for c := 0; c < n; c++ {
				quad += x[r] * dense[r][c] * x[c]
			}
		}
		if quad < -1e-9 {
			t.Errorf("trial %d: xᵀPx = %v, want >= 0", trial, quad)
		}
	}
}

func TestAssembleObjective_BlocksRepeatPerStep(t *testing.T) {
	a, b := squareObstacle()
	d, err := New(2, 0.1, unitEgo(), []int{4}, 1, a, b, originTrajectory(2), DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	p := d.assembleObjective()
	// Lambda block for step i starts at column 4*i; every step carries an
	// identical copy of the Gram block.
	for i := 1; i < 3; i++ {
		off := 4 * i
		for r := 0; r < 4; r++ {
			for c := 0; c < 4; c++ {
				if p.At(off+r, off+c) != p.At(r, c) {
					t.Errorf("step %d block differs at (%d,%d)", i, r, c)
				}
			}
		}
	}
	// No coupling between different steps.
	if p.At(0, 4) != 0 || p.At(4, 0) != 0 {
		t.Error("found cross-step coupling in P")
	}
}
