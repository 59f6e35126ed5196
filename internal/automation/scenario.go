package automation

import (
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt           = 1.0 / 60.0
	DefaultFrames       = 300
	DefaultScreenWidth  = 80
	DefaultScreenHeight = 48
)

type Action string

const (
	ActionGrab    Action = "grab"
	ActionMove    Action = "move"
	ActionRelease Action = "release"
	ActionReset   Action = "reset"
)

// Scenario is a scripted headless run: a frame count and a list of input events.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Dt          float64 `yaml:"dt"`
	Frames      int     `yaml:"frames"`
	Screen      Screen  `yaml:"screen"`
	Events      []Event `yaml:"events"`
}

type Screen struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Event fires at the start of Frame. X and Y are ignored for release and reset.
type Event struct {
	Frame  int     `yaml:"frame"`
	Action Action  `yaml:"action"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	sc.applyDefaults()
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *Scenario) applyDefaults() {
	if s.Dt == 0 {
		s.Dt = DefaultDt
	}
	if s.Frames == 0 {
		s.Frames = DefaultFrames
	}
	if s.Screen.Width == 0 {
		s.Screen.Width = DefaultScreenWidth
	}
	if s.Screen.Height == 0 {
		s.Screen.Height = DefaultScreenHeight
	}
}

func (s *Scenario) Validate() error {
	if s.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidScenario, s.Dt)
	}
	if s.Frames <= 0 {
		return fmt.Errorf("%w: frames must be positive, got %d", ErrInvalidScenario, s.Frames)
	}
	for i, ev := range s.Events {
		switch ev.Action {
		case ActionGrab, ActionMove, ActionRelease, ActionReset:
		default:
			return fmt.Errorf("%w: event %d: unknown action %q", ErrInvalidScenario, i, ev.Action)
		}
		if ev.Frame < 0 || ev.Frame >= s.Frames {
			return fmt.Errorf("%w: event %d: frame %d outside [0, %d)", ErrInvalidScenario, i, ev.Frame, s.Frames)
		}
	}
	return nil
}

// Inputs expands the event list into one input per frame. The cursor keeps
// its last position between events.
func (s *Scenario) Inputs() []sim.Input {
	events := make([]Event, len(s.Events))
	copy(events, s.Events)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Frame < events[j].Frame })

	inputs := make([]sim.Input, s.Frames)
	var cursor cloth.Vec
	next := 0
	for f := range inputs {
		in := sim.Input{}
		for ; next < len(events) && events[next].Frame == f; next++ {
			ev := events[next]
			switch ev.Action {
			case ActionGrab:
				cursor = cloth.Vec{X: ev.X, Y: ev.Y}
				in.Grab = true
			case ActionMove:
				cursor = cloth.Vec{X: ev.X, Y: ev.Y}
			case ActionRelease:
				in.Release = true
			case ActionReset:
				in.Reset = true
			}
		}
		in.Cursor = cursor
		inputs[f] = in
	}
	return inputs
}

// Builtins are scenarios laid out for the default 80x48 screen and 10x12 cloth.
var Builtins = map[string]*Scenario{
	"settle": {
		Name:        "settle",
		Description: "let the cloth hang in the wind",
		Dt:          DefaultDt,
		Frames:      600,
		Screen:      Screen{DefaultScreenWidth, DefaultScreenHeight},
	},
	"drag": {
		Name:        "drag",
		Description: "pull the bottom-right corner out and let go",
		Dt:          DefaultDt,
		Frames:      360,
		Screen:      Screen{DefaultScreenWidth, DefaultScreenHeight},
		Events:      dragEvents(70, 28.8, 76, 44, 60),
	},
	"reset": {
		Name:        "reset",
		Description: "disturb the cloth then rebuild it",
		Dt:          DefaultDt,
		Frames:      240,
		Screen:      Screen{DefaultScreenWidth, DefaultScreenHeight},
		Events: append(dragEvents(10, 28.8, 2, 40, 40),
			Event{Frame: 120, Action: ActionReset}),
	},
}

// dragEvents grabs at (x0, y0) on frame 0 and moves linearly to (x1, y1) over n
// frames, then releases.
func dragEvents(x0, y0, x1, y1 float64, n int) []Event {
	events := []Event{{Frame: 0, Action: ActionGrab, X: x0, Y: y0}}
	for f := 1; f < n; f++ {
		t := float64(f) / float64(n-1)
		events = append(events, Event{
			Frame:  f,
			Action: ActionMove,
			X:      x0 + (x1-x0)*t,
			Y:      y0 + (y1-y0)*t,
		})
	}
	return append(events, Event{Frame: n, Action: ActionRelease})
}

// Builtin returns a copy of a named builtin scenario.
func Builtin(name string) (*Scenario, error) {
	sc, ok := Builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, name)
	}
	cp := *sc
	cp.Events = append([]Event(nil), sc.Events...)
	return &cp, nil
}

func BuiltinNames() []string {
	names := make([]string, 0, len(Builtins))
	for name := range Builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
