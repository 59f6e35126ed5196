package metrics

import "github.com/san-kum/clothsim/internal/cloth"

const DefaultHistory = 600

// History keeps the last few hundred frames of stress and energy for plotting.
type History struct {
	capacity int
	Stress   []float64
	Energy   []float64
	Times    []float64
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistory
	}
	return &History{
		capacity: capacity,
		Stress:   make([]float64, 0, capacity),
		Energy:   make([]float64, 0, capacity),
		Times:    make([]float64, 0, capacity),
	}
}

func (h *History) Observe(c *cloth.Cloth, t float64) {
	h.Stress = push(h.Stress, FrameStress(c), h.capacity)
	h.Energy = push(h.Energy, c.KineticEnergy()+c.SpringEnergy(), h.capacity)
	h.Times = push(h.Times, t, h.capacity)
}

func (h *History) Len() int { return len(h.Times) }

func (h *History) Reset() {
	h.Stress = h.Stress[:0]
	h.Energy = h.Energy[:0]
	h.Times = h.Times[:0]
}

func push(s []float64, v float64, capacity int) []float64 {
	s = append(s, v)
	if len(s) > capacity {
		s = s[1:]
	}
	return s
}
