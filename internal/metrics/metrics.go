package metrics

import (
	"math"
	"sort"

	"github.com/san-kum/clothsim/internal/cloth"
)

type Metric interface {
	Name() string
	Observe(c *cloth.Cloth, t float64)
	Value() float64
	Reset()
}

// MeanStress averages the per-frame mean particle stress.
type MeanStress struct {
	sum     float64
	samples int
}

func NewMeanStress() *MeanStress { return &MeanStress{} }

func (m *MeanStress) Name() string { return "mean_stress" }

func (m *MeanStress) Observe(c *cloth.Cloth, t float64) {
	m.sum += FrameStress(c)
	m.samples++
}

func (m *MeanStress) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanStress) Reset() {
	m.sum = 0
	m.samples = 0
}

// PeakStress is the highest single-particle stress seen.
type PeakStress struct {
	peak float64
}

func NewPeakStress() *PeakStress { return &PeakStress{} }

func (p *PeakStress) Name() string { return "peak_stress" }

func (p *PeakStress) Observe(c *cloth.Cloth, t float64) {
	for i := range c.Particles {
		p.peak = math.Max(p.peak, c.Particles[i].Stress())
	}
}

func (p *PeakStress) Value() float64 { return p.peak }
func (p *PeakStress) Reset()         { p.peak = 0 }

// Energy averages kinetic plus elastic energy per frame.
type Energy struct {
	total   float64
	samples int
}

func NewEnergy() *Energy { return &Energy{} }

func (e *Energy) Name() string { return "energy" }

func (e *Energy) Observe(c *cloth.Cloth, t float64) {
	e.total += c.KineticEnergy() + c.SpringEnergy()
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// MaxStrain is the largest relative spring extension seen.
type MaxStrain struct {
	max float64
}

func NewMaxStrain() *MaxStrain { return &MaxStrain{} }

func (m *MaxStrain) Name() string                      { return "max_strain" }
func (m *MaxStrain) Observe(c *cloth.Cloth, t float64) { m.max = math.Max(m.max, c.MaxStrain()) }
func (m *MaxStrain) Value() float64                    { return m.max }
func (m *MaxStrain) Reset()                            { m.max = 0 }

// Stability is the fraction of frames where every spring stayed within
// threshold strain and the state was finite.
type Stability struct {
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{threshold: threshold}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(c *cloth.Cloth, t float64) {
	s.samples++
	if !c.Valid() || c.MaxStrain() > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// FrameStress is the mean particle stress of the current frame.
func FrameStress(c *cloth.Cloth) float64 {
	if len(c.Particles) == 0 {
		return 0
	}
	sum := 0.0
	for i := range c.Particles {
		sum += c.Particles[i].Stress()
	}
	return sum / float64(len(c.Particles))
}

// Set fans one observation out to several metrics.
type Set struct {
	metrics []Metric
}

func NewSet(ms ...Metric) *Set {
	return &Set{metrics: ms}
}

// Default returns the metrics reported by headless runs.
func Default() *Set {
	return NewSet(NewMeanStress(), NewPeakStress(), NewEnergy(), NewMaxStrain(), NewStability(1.0))
}

func (s *Set) Observe(c *cloth.Cloth, t float64) {
	for _, m := range s.metrics {
		m.Observe(c, t)
	}
}

func (s *Set) Reset() {
	for _, m := range s.metrics {
		m.Reset()
	}
}

func (s *Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Names returns the metric names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.metrics))
	for _, m := range s.metrics {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}
