package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/dualwarmstart/internal/warmstart"
)

// Scenario is the JSON description of one warm-start problem: ego geometry,
// obstacle half-plane systems and the warm-start trajectory.
type Scenario struct {
	Horizon  int                `json:"horizon"`
	TimeStep float64            `json:"time_step"`
	Ego      []float64          `json:"ego"` // front, right, rear, left offsets
	Obstacle []ScenarioObstacle `json:"obstacles"`
	XWS      [][]float64        `json:"x_ws"` // rows: x, y, heading
}

// ScenarioObstacle is one convex obstacle as A·x <= b, edges in boundary
// order so adjacent rows intersect at the polygon's vertices.
type ScenarioObstacle struct {
	A [][]float64 `json:"a"`
	B []float64   `json:"b"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	s := &Scenario{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario JSON: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return s, nil
}

func (s *Scenario) validate() error {
	if s.Horizon < 0 {
		return fmt.Errorf("horizon must be >= 0, got %d", s.Horizon)
	}
	if len(s.Ego) != 4 {
		return fmt.Errorf("ego must have 4 offsets, got %d", len(s.Ego))
	}
	if len(s.Obstacle) == 0 {
		return fmt.Errorf("need at least one obstacle")
	}
	for j, o := range s.Obstacle {
		if len(o.A) != len(o.B) || len(o.A) < 3 {
			return fmt.Errorf("obstacle %d: %d normals and %d offsets, want matching counts >= 3",
				j, len(o.A), len(o.B))
		}
		for k, row := range o.A {
			if len(row) != 2 {
				return fmt.Errorf("obstacle %d edge %d: normal has %d components, want 2", j, k, len(row))
			}
		}
	}
	if len(s.XWS) != 3 {
		return fmt.Errorf("x_ws must have 3 rows, got %d", len(s.XWS))
	}
	for r, row := range s.XWS {
		if len(row) != s.Horizon+1 {
			return fmt.Errorf("x_ws row %d has %d samples, want %d", r, len(row), s.Horizon+1)
		}
	}
	return nil
}

// Build assembles the warm-start problem from the scenario.
func (s *Scenario) Build(cfg warmstart.Config) (*warmstart.DualWarmStart, error) {
	edgesNum := make([]int, len(s.Obstacle))
	edgesSum := 0
	for j, o := range s.Obstacle {
		edgesNum[j] = len(o.A)
		edgesSum += len(o.A)
	}

	a := mat.NewDense(edgesSum, 2, nil)
	b := mat.NewVecDense(edgesSum, nil)
	row := 0
	for _, o := range s.Obstacle {
		for k := range o.A {
			a.Set(row, 0, o.A[k][0])
			a.Set(row, 1, o.A[k][1])
			b.SetVec(row, o.B[k])
			row++
		}
	}

	xws := mat.NewDense(3, s.Horizon+1, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c <= s.Horizon; c++ {
			xws.Set(r, c, s.XWS[r][c])
		}
	}

	ego := mat.NewVecDense(4, s.Ego)
	return warmstart.New(s.Horizon, s.TimeStep, ego, edgesNum, len(s.Obstacle), a, b, xws, cfg)
}

// Vertices recovers obstacle j's polygon corners by intersecting adjacent
// half-plane boundary lines. Near-parallel adjacent edges are skipped.
func (s *Scenario) Vertices(j int) [][2]float64 {
	o := s.Obstacle[j]
	e := len(o.A)
	var out [][2]float64
	for k := 0; k < e; k++ {
		next := (k + 1) % e
		a0, a1 := o.A[k][0], o.A[k][1]
		c0, c1 := o.A[next][0], o.A[next][1]
		det := a0*c1 - a1*c0
		if math.Abs(det) < 1e-12 {
			continue
		}
		vx := (o.B[k]*c1 - a1*o.B[next]) / det
		vy := (a0*o.B[next] - o.B[k]*c0) / det
		out = append(out, [2]float64{vx, vy})
	}
	return out
}
