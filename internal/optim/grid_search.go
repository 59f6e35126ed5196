package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/san-kum/clothsim/internal/automation"
	"github.com/san-kum/clothsim/internal/metrics"
	"github.com/san-kum/clothsim/internal/sim"
)

var (
	ErrUnknownParam  = errors.New("optim: unknown parameter")
	ErrUnknownMetric = errors.New("optim: unknown metric")
)

// Setters maps sweepable parameter names onto simulation parameters.
var Setters = map[string]func(p *sim.Params, v float64){
	"stiffness":      func(p *sim.Params, v float64) { p.Cloth.Stiffness = v },
	"damping":        func(p *sim.Params, v float64) { p.Cloth.Damping = v },
	"gravity":        func(p *sim.Params, v float64) { p.Gravity = v },
	"wind_amplitude": func(p *sim.Params, v float64) { p.WindAmplitude = v },
	"gust_amplitude": func(p *sim.Params, v float64) { p.GustAmplitude = v },
}

// Point is one evaluated grid cell. Err is set when the run diverged.
type Point struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	for _, name := range params {
		if _, ok := Setters[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParam, name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search runs the scenario at every grid point and returns all points plus
// the index of the one with the lowest metric. Diverged runs never win.
func (g *GridSearch) Search(ctx context.Context, sc *automation.Scenario, base sim.Params, metricName string) ([]Point, int, error) {
	if !slices.Contains(metrics.Default().Names(), metricName) {
		return nil, -1, fmt.Errorf("%w: %s", ErrUnknownMetric, metricName)
	}

	points := make([]Point, 0)
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), sc, base, metricName, &points); err != nil {
		return points, -1, err
	}

	best, bestVal := -1, math.Inf(1)
	for i, p := range points {
		if p.Err == nil && p.Value < bestVal {
			best, bestVal = i, p.Value
		}
	}
	return points, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	sc *automation.Scenario,
	base sim.Params,
	metricName string,
	points *[]Point,
) error {
	if depth == len(g.paramNames) {
		p := base
		for name, v := range current {
			Setters[name](&p, v)
		}

		report, err := automation.Run(ctx, sc, p)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		pt := Point{Params: current, Err: err}
		if err == nil {
			pt.Value = report.Metrics[metricName]
		}
		*points = append(*points, pt)
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, sc, base, metricName, points); err != nil {
			return err
		}
	}
	return nil
}
