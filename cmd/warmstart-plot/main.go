// warmstart-plot runs the dual-variable warm start on a scenario file and
// renders the result: obstacle polygons, the warm-start path, and the dual
// separating-normal direction Aᵀ·lambda at each step. Useful for eyeballing
// whether the solved duals point away from the obstacles along the path.
//
// Usage:
//
//	warmstart-plot -scenario scenario.json -out warmstart.png [-config solver.json]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/dualwarmstart/internal/warmstart"
)

// normalScale stretches the (typically small) dual normals so they are
// visible next to the path.
const normalScale = 2.0

func main() {
	scenarioPath := flag.String("scenario", "", "path to scenario JSON (required)")
	outPath := flag.String("out", "warmstart.png", "output PNG path")
	configPath := flag.String("config", "", "optional solver override JSON")
	verbose := flag.Bool("verbose", false, "log extraction counters")
	flag.Parse()

	if *scenarioPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	scenario, err := LoadScenario(*scenarioPath)
	if err != nil {
		log.Fatalf("[WarmStartPlot] %v", err)
	}

	cfg := warmstart.DefaultConfig()
	if *configPath != "" {
		overrides, err := warmstart.LoadOverrides(*configPath)
		if err != nil {
			log.Fatalf("[WarmStartPlot] %v", err)
		}
		cfg = overrides.Apply(cfg)
	}
	cfg.Verbose = cfg.Verbose || *verbose
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[WarmStartPlot] %v", err)
	}

	problem, err := scenario.Build(cfg)
	if err != nil {
		log.Fatalf("[WarmStartPlot] %v", err)
	}
	if !problem.Optimize() {
		log.Fatalf("[WarmStartPlot] warm start failed for %s", *scenarioPath)
	}
	lWarmUp, _ := problem.Results()

	if err := render(scenario, lWarmUp, *outPath); err != nil {
		log.Fatalf("[WarmStartPlot] %v", err)
	}
	log.Printf("[WarmStartPlot] wrote %s", *outPath)
}

func render(s *Scenario, lWarmUp *mat.Dense, outPath string) error {
	p := plot.New()
	p.Title.Text = "Dual warm start"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	// Obstacle outlines.
	for j := range s.Obstacle {
		verts := s.Vertices(j)
		if len(verts) < 3 {
			log.Printf("[WarmStartPlot] obstacle %d: could not recover polygon, skipping outline", j)
			continue
		}
		pts := make(plotter.XYs, 0, len(verts)+1)
		for _, v := range verts {
			pts = append(pts, plotter.XY{X: v[0], Y: v[1]})
		}
		pts = append(pts, pts[0]) // close the loop
		outline, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("obstacle %d outline: %w", j, err)
		}
		outline.Width = vg.Points(1.5)
		outline.Color = color.RGBA{R: 180, A: 255}
		p.Add(outline)
	}

	// Warm-start path.
	steps := s.Horizon + 1
	path := make(plotter.XYs, steps)
	for i := 0; i < steps; i++ {
		path[i] = plotter.XY{X: s.XWS[0][i], Y: s.XWS[1][i]}
	}
	pathLine, err := plotter.NewLine(path)
	if err != nil {
		return fmt.Errorf("path line: %w", err)
	}
	pathLine.Width = vg.Points(1)
	pathLine.Color = color.RGBA{B: 200, A: 255}
	p.Add(pathLine)
	pathPts, err := plotter.NewScatter(path)
	if err != nil {
		return fmt.Errorf("path scatter: %w", err)
	}
	p.Add(pathPts)

	// Dual separating-normal direction per (obstacle, step).
	edgeStart := 0
	for j := range s.Obstacle {
		e := len(s.Obstacle[j].A)
		for i := 0; i < steps; i++ {
			nx, ny := 0.0, 0.0
			for k := 0; k < e; k++ {
				lam := lWarmUp.At(edgeStart+k, i)
				nx += s.Obstacle[j].A[k][0] * lam
				ny += s.Obstacle[j].A[k][1] * lam
			}
			if nx == 0 && ny == 0 {
				continue
			}
			seg := plotter.XYs{
				{X: s.XWS[0][i], Y: s.XWS[1][i]},
				{X: s.XWS[0][i] + normalScale*nx, Y: s.XWS[1][i] + normalScale*ny},
			}
			line, err := plotter.NewLine(seg)
			if err != nil {
				return fmt.Errorf("normal segment: %w", err)
			}
			line.Color = color.RGBA{G: 150, A: 255}
			p.Add(line)
		}
		edgeStart += e
	}

	if err := p.Save(8*vg.Inch, 8*vg.Inch, outPath); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
