package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/clothsim/internal/sim"
)

var (
	labelStyle = lipgloss.NewStyle().Width(10)
	graphStyle = lipgloss.NewStyle().Padding(1, 0)
)

func (m Model) View() string {
	canvasView := m.canvas.Render(m.theme)
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.hud())
}

func (m Model) status() string {
	switch {
	case m.paused:
		return "PAUSED"
	case m.ctrl.State() == sim.Holding:
		return "HOLDING"
	default:
		return "RUNNING"
	}
}

func (m Model) hud() string {
	t := m.theme
	header := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).MarginBottom(1)
	label := labelStyle.Foreground(t.Muted)
	value := lipgloss.NewStyle().Foreground(t.Text)
	panel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(t.Border).
		Padding(0, 1).
		Width(hudWidth - 2)

	var s strings.Builder
	c := m.ctrl.Cloth()
	s.WriteString(header.Render(fmt.Sprintf("CLOTH %dx%d", c.Width, c.Height)) + "\n")
	s.WriteString(value.Render(m.status()) + "\n")

	if len(m.history.Stress) > 1 {
		chart := asciigraph.Plot(m.history.Stress,
			asciigraph.Height(4),
			asciigraph.Width(hudWidth-12),
			asciigraph.Caption("Stress"))
		s.WriteString(graphStyle.Foreground(t.Accent).Render(chart) + "\n")
	}

	row := func(name, v string) {
		s.WriteString(label.Render(name) + value.Render(v) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.ctrl.Elapsed()))
	row("Frame", fmt.Sprintf("%d", m.ctrl.Frame()))
	row("Stress", fmt.Sprintf("%.3f", m.stress))
	row("Peak", fmt.Sprintf("%.3f", m.peak.Value()))
	row("Energy", fmt.Sprintf("%.1f", c.KineticEnergy()+c.SpringEnergy()))
	row("Wind", fmt.Sprintf("%+.2f", m.ctrl.Gravity().X))
	row("FPS", fmt.Sprintf("%.0f", m.rate))
	row("Theme", t.Name)

	s.WriteString("\n" + m.gauge.ViewAs(math.Min(math.Max(m.stress, 0), 1)) + "\n\n")
	s.WriteString(m.help.View(m.keys))

	return panel.Render(s.String())
}
