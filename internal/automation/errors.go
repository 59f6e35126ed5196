package automation

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownScenario = errors.New("automation: unknown scenario")

	// ErrUnstable means a particle position or velocity became NaN or Inf.
	ErrUnstable = errors.New("automation: cloth diverged (NaN or Inf detected)")

	ErrInvalidScenario = errors.New("automation: invalid scenario")
)

// FrameError wraps an error with the frame it happened on.
type FrameError struct {
	Frame int
	Time  float64
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d (t=%.3f): %v", e.Frame, e.Time, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}
