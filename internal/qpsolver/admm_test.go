package qpsolver

import (
	"math"
	"testing"

	"github.com/banshee-data/dualwarmstart/internal/sparse"
)

// cscFromDense builds a CSC matrix from a row-major dense literal.
func cscFromDense(rows, cols int, vals [][]float64) *sparse.CSC {
	b := sparse.NewBuilder(rows, cols)
	for c := 0; c < cols; c++ {
		b.StartColumn()
		for r := 0; r < rows; r++ {
			if vals[r][c] != 0 {
				b.Append(r, vals[r][c])
			}
		}
	}
	return b.Finish()
}

func TestADMM_BoxConstrainedQuadratic(t *testing.T) {
	// minimize (x-1)^2 subject to 0 <= x <= 0.5; optimum x = 0.5.
	p := &Problem{
		P:     cscFromDense(1, 1, [][]float64{{2}}),
		Q:     []float64{-2},
		A:     cscFromDense(1, 1, [][]float64{{1}}),
		Lower: []float64{0},
		Upper: []float64{0.5},
	}
	res, err := NewADMM().Solve(p, Settings{Polish: true})
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if !res.Status.Ok() {
		t.Fatalf("expected success, got %s", res.Status)
	}
	if math.Abs(res.X[0]-0.5) > 1e-3 {
		t.Errorf("x = %v, want 0.5", res.X[0])
	}
}

func TestADMM_EqualityConstrainedQuadratic(t *testing.T) {
	// minimize x1^2 + x2^2 subject to x1 + x2 = 1; optimum (0.5, 0.5).
	p := &Problem{
		P:     cscFromDense(2, 2, [][]float64{{2, 0}, {0, 2}}),
		Q:     []float64{0, 0},
		A:     cscFromDense(1, 2, [][]float64{{1, 1}}),
		Lower: []float64{1},
		Upper: []float64{1},
	}
	res, err := NewADMM().Solve(p, Settings{})
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if !res.Status.Ok() {
		t.Fatalf("expected success, got %s", res.Status)
	}
	for i, want := range []float64{0.5, 0.5} {
		if math.Abs(res.X[i]-want) > 1e-3 {
			t.Errorf("x[%d] = %v, want %v", i, res.X[i], want)
		}
	}
}

func TestADMM_UnconstrainedMinimum(t *testing.T) {
	// minimize (x1-3)^2 + (x2+1)^2 with wide bounds; optimum (3, -1).
	p := &Problem{
		P:     cscFromDense(2, 2, [][]float64{{2, 0}, {0, 2}}),
		Q:     []float64{-6, 2},
		A:     cscFromDense(2, 2, [][]float64{{1, 0}, {0, 1}}),
		Lower: []float64{-1e20, -1e20},
		Upper: []float64{1e20, 1e20},
	}
	res, err := NewADMM().Solve(p, Settings{})
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if !res.Status.Ok() {
		t.Fatalf("expected success, got %s", res.Status)
	}
	for i, want := range []float64{3, -1} {
		if math.Abs(res.X[i]-want) > 1e-3 {
			t.Errorf("x[%d] = %v, want %v", i, res.X[i], want)
		}
	}
}

func TestADMM_ContradictoryBounds(t *testing.T) {
	p := &Problem{
		P:     cscFromDense(1, 1, [][]float64{{2}}),
		Q:     []float64{0},
		A:     cscFromDense(1, 1, [][]float64{{1}}),
		Lower: []float64{1},
		Upper: []float64{-1},
	}
	res, err := NewADMM().Solve(p, Settings{})
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if res.Status != StatusPrimalInfeasible {
		t.Errorf("expected primal infeasible, got %s", res.Status)
	}
	if res.X != nil {
		t.Errorf("expected no primal solution, got %v", res.X)
	}
}

func TestADMM_DimensionMismatch(t *testing.T) {
	p := &Problem{
		P:     cscFromDense(2, 2, [][]float64{{2, 0}, {0, 2}}),
		Q:     []float64{0}, // wrong length
		A:     cscFromDense(1, 2, [][]float64{{1, 1}}),
		Lower: []float64{0},
		Upper: []float64{1},
	}
	if _, err := NewADMM().Solve(p, Settings{}); err == nil {
		t.Error("expected error for mismatched q length")
	}
}

func TestStatus_Ok(t *testing.T) {
	for _, tc := range []struct {
		status Status
		ok     bool
	}{
		{StatusSolved, true},
		{StatusSolvedInaccurate, true},
		{StatusPrimalInfeasible, false},
		{StatusDualInfeasible, false},
		{StatusMaxIterations, false},
		{StatusError, false},
	} {
		if tc.status.Ok() != tc.ok {
			t.Errorf("%s.Ok() = %v, want %v", tc.status, tc.status.Ok(), tc.ok)
		}
	}
}
