package automation

import (
	"context"
	"runtime"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/metrics"
	"github.com/san-kum/clothsim/internal/render"
	"github.com/san-kum/clothsim/internal/sim"
	"golang.org/x/sync/errgroup"
)

// Report is the outcome of one headless run.
type Report struct {
	Name   string
	Seed   int64
	Frames int

	// per frame
	Times      []float64
	MeanStress []float64
	PeakStress []float64
	Energy     []float64

	HeldFrames int
	Metrics    map[string]float64
	Final      *cloth.Cloth
	// LastFrame is the draw list of the final frame.
	LastFrame []render.Command
}

type frameLog struct {
	r *Report
}

func (f frameLog) Observe(c *cloth.Cloth, t float64) {
	peak := 0.0
	for i := range c.Particles {
		if s := c.Particles[i].Stress(); s > peak {
			peak = s
		}
	}
	f.r.Times = append(f.r.Times, t)
	f.r.MeanStress = append(f.r.MeanStress, metrics.FrameStress(c))
	f.r.PeakStress = append(f.r.PeakStress, peak)
	f.r.Energy = append(f.r.Energy, c.KineticEnergy()+c.SpringEnergy())
}

// Run drives a controller through the scenario. On cancellation or divergence
// the partial report is returned together with the error.
func Run(ctx context.Context, sc *Scenario, p sim.Params) (*Report, error) {
	report := &Report{
		Name:       sc.Name,
		Seed:       p.Seed,
		Times:      make([]float64, 0, sc.Frames),
		MeanStress: make([]float64, 0, sc.Frames),
		PeakStress: make([]float64, 0, sc.Frames),
		Energy:     make([]float64, 0, sc.Frames),
	}

	ctrl := sim.New(p, sc.Screen.Width, sc.Screen.Height)
	set := metrics.Default()
	ctrl.AddObserver(set)
	ctrl.AddObserver(frameLog{report})

	inputs := sc.Inputs()
	last := len(inputs) - 1
	for f, in := range inputs {
		select {
		case <-ctx.Done():
			report.finish(ctrl, set)
			return report, ctx.Err()
		default:
		}

		if f == last {
			report.LastFrame, _ = ctrl.Step(sc.Dt, in)
		} else {
			ctrl.Update(sc.Dt, in, nil)
		}
		report.Frames++
		if _, holding := ctrl.Held(); holding {
			report.HeldFrames++
		}

		if !ctrl.Cloth().Valid() {
			report.finish(ctrl, set)
			return report, &FrameError{Frame: f, Time: ctrl.Elapsed(), Err: ErrUnstable}
		}
	}

	report.finish(ctrl, set)
	return report, nil
}

func (r *Report) finish(ctrl *sim.Controller, set *metrics.Set) {
	r.Metrics = set.Values()
	r.Final = ctrl.Cloth().Clone()
}

// RunEnsemble runs n copies of the scenario with seeds p.Seed, p.Seed+1, ...
// concurrently. Reports are returned in seed order.
func RunEnsemble(ctx context.Context, sc *Scenario, p sim.Params, n int) ([]*Report, error) {
	reports := make([]*Report, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := 0; i < n; i++ {
		member := p
		member.Seed = p.Seed + int64(i)
		g.Go(func() error {
			r, err := Run(ctx, sc, member)
			reports[i] = r
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return reports, err
	}
	return reports, nil
}

// Summary averages a metric across reports.
func Summary(reports []*Report, metric string) float64 {
	sum, count := 0.0, 0
	for _, r := range reports {
		if r == nil {
			continue
		}
		if v, ok := r.Metrics[metric]; ok {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
