package tui

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the terminal UI and blocks until the user quits. When logPath
// is set, diagnostics are written there since the terminal is taken over.
func Run(opts Options, logPath string) error {
	if logPath != "" {
		f, err := tea.LogToFile(logPath, "clothsim")
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		opts.Logger = log.Default()
	}

	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
