package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/cascade/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Action is what a step does to the engine.
type Action string

const (
	ActionTrigger Action = "trigger"
	ActionPress   Action = "press"
	ActionRelease Action = "release"
	ActionMove    Action = "move"
	ActionTick    Action = "tick"
	ActionInspect Action = "inspect"
)

// ErrInvalidCommand is returned for a command line or script step that
// cannot be parsed.
var ErrInvalidCommand = errors.New("invalid command")

// Step is one scripted interaction.
type Step struct {
	Action Action             `json:"action" yaml:"action"`
	Entity string             `json:"entity,omitempty" yaml:"entity,omitempty"`
	Kind   domain.TriggerKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Delta  *domain.Vec2       `json:"delta,omitempty" yaml:"delta,omitempty"`
}

func (s Step) String() string {
	switch s.Action {
	case ActionTrigger:
		if s.Delta != nil {
			return fmt.Sprintf("%s %s (%g,%g)", s.Kind, s.Entity, s.Delta.X, s.Delta.Y)
		}
		return fmt.Sprintf("%s %s", s.Kind, s.Entity)
	case ActionMove:
		if s.Delta == nil {
			return "move"
		}
		return fmt.Sprintf("move (%g,%g)", s.Delta.X, s.Delta.Y)
	case ActionRelease, ActionTick:
		return string(s.Action)
	default:
		return fmt.Sprintf("%s %s", s.Action, s.Entity)
	}
}

// Validate checks the step carries what its action needs.
func (s Step) Validate() error {
	switch s.Action {
	case ActionTrigger:
		if _, err := domain.ParseTrigger(string(s.Kind)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCommand, err)
		}
		if s.Entity == "" {
			return fmt.Errorf("%w: %s needs an entity", ErrInvalidCommand, s.Kind)
		}
	case ActionPress, ActionInspect:
		if s.Entity == "" {
			return fmt.Errorf("%w: %s needs an entity", ErrInvalidCommand, s.Action)
		}
	case ActionMove:
		if s.Delta == nil {
			return fmt.Errorf("%w: move needs a delta", ErrInvalidCommand)
		}
	case ActionRelease, ActionTick:
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidCommand, s.Action)
	}
	return nil
}

// ParseCommand parses one command line.
func ParseCommand(line string) (Step, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Step{}, fmt.Errorf("%w: empty line", ErrInvalidCommand)
	}
	verb, args := strings.ToLower(fields[0]), fields[1:]

	var (
		step Step
		err  error
	)
	switch verb {
	case "click", "hover":
		if len(args) != 1 {
			return Step{}, usage(verb, "<entity>")
		}
		kind := domain.Clicked
		if verb == "hover" {
			kind = domain.Hover
		}
		step = Step{Action: ActionTrigger, Kind: kind, Entity: args[0]}
	case "trigger":
		if len(args) != 2 && len(args) != 4 {
			return Step{}, usage(verb, "<kind> <entity> [dx dy]")
		}
		step = Step{Action: ActionTrigger, Kind: domain.TriggerKind(strings.ToLower(args[0])), Entity: args[1]}
		if len(args) == 4 {
			step.Delta, err = vec(args[2], args[3])
		}
	case "drag", "scroll":
		if len(args) != 3 {
			return Step{}, usage(verb, "<entity> <dx> <dy>")
		}
		kind := domain.Dragged
		if verb == "scroll" {
			kind = domain.Scrolled
		}
		step = Step{Action: ActionTrigger, Kind: kind, Entity: args[0]}
		step.Delta, err = vec(args[1], args[2])
	case "press", "inspect":
		if len(args) != 1 {
			return Step{}, usage(verb, "<entity>")
		}
		step = Step{Action: Action(verb), Entity: args[0]}
	case "move":
		if len(args) != 2 {
			return Step{}, usage(verb, "<dx> <dy>")
		}
		step = Step{Action: ActionMove}
		step.Delta, err = vec(args[0], args[1])
	case "release", "tick":
		if len(args) != 0 {
			return Step{}, usage(verb, "")
		}
		step = Step{Action: Action(verb)}
	default:
		return Step{}, fmt.Errorf("%w: unknown command %q", ErrInvalidCommand, verb)
	}
	if err != nil {
		return Step{}, err
	}
	return step, step.Validate()
}

func usage(verb, args string) error {
	return fmt.Errorf("%w: usage: %s %s", ErrInvalidCommand, verb, args)
}

func vec(x, y string) (*domain.Vec2, error) {
	dx, err := strconv.ParseFloat(x, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: delta %q: %v", ErrInvalidCommand, x, err)
	}
	dy, err := strconv.ParseFloat(y, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: delta %q: %v", ErrInvalidCommand, y, err)
	}
	return &domain.Vec2{X: dx, Y: dy}, nil
}

// UnmarshalYAML accepts a step either as a command line or as a mapping.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		step, err := ParseCommand(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*s = step
		return nil
	}

	type plain Step
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	if err := Step(p).Validate(); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*s = Step(p)
	return nil
}

// Script is a scripted session.
type Script struct {
	// Scene optionally names the scene file the script was written for.
	Scene string `yaml:"scene,omitempty"`
	// AutoTick runs a tick after every trigger.
	AutoTick bool   `yaml:"auto_tick,omitempty"`
	Steps    []Step `yaml:"steps"`
}

// LoadScript reads a YAML script.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script %s: %w", path, err)
	}
	return &s, nil
}
