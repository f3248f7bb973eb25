package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aretw0/cascade/internal/logging"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/ports"
)

// ErrUnknownEntity is returned when a step names an entity the scene lacks.
var ErrUnknownEntity = errors.New("unknown entity")

// Engine is what the runner drives: the adapter port plus cursor movement
// and single-entity inspection.
type Engine interface {
	ports.Engine
	Move(delta domain.Vec2)
	Describe(id domain.EntityID) (domain.EntitySnapshot, bool)
}

// Runner executes steps against an engine.
type Runner struct {
	Handler  Handler
	Logger   *slog.Logger
	AutoTick bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithHandler sets the output handler (text on stdout by default).
func WithHandler(h Handler) Option {
	return func(r *Runner) {
		r.Handler = h
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithAutoTick runs a tick after every trigger step.
func WithAutoTick(enabled bool) Option {
	return func(r *Runner) {
		r.AutoTick = enabled
	}
}

// New creates a runner.
func New(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	return r
}

// Run executes steps in order and stops at the first failure. Triggers
// still queued when the script ends are applied by a final tick.
func (r *Runner) Run(ctx context.Context, eng Engine, steps []Step) error {
	pending := false
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		ticked, err := r.Exec(ctx, eng, step)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step, err)
		}
		switch {
		case ticked:
			pending = false
		case step.Action == ActionTrigger:
			pending = true
		}
	}
	if pending {
		return r.tick(ctx, eng)
	}
	return nil
}

// RunInteractive reads commands from in until EOF, "quit" or cancellation.
// Bad commands are reported and the loop continues.
func (r *Runner) RunInteractive(ctx context.Context, eng Engine, in io.Reader) error {
	prompt := func() {}
	if th, ok := r.Handler.(*TextHandler); ok {
		prompt = th.Prompt
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()

	for {
		prompt()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return nil
				}
			}
			quit, err := r.handleLine(ctx, eng, line)
			if err != nil {
				r.Logger.DebugContext(ctx, "command failed", "line", line, "err", err)
				if err := r.Handler.SystemOutput(ctx, "error: "+err.Error()); err != nil {
					return err
				}
			}
			if quit {
				return nil
			}
		}
	}
}

func (r *Runner) handleLine(ctx context.Context, eng Engine, line string) (bool, error) {
	clean, err := SanitizeInput(line)
	if err != nil {
		return false, err
	}
	clean = strings.TrimSpace(clean)
	if clean == "" || strings.HasPrefix(clean, "#") {
		return false, nil
	}
	switch strings.ToLower(clean) {
	case "quit", "exit":
		return true, nil
	}
	step, err := ParseCommand(clean)
	if err != nil {
		return false, err
	}
	_, err = r.Exec(ctx, eng, step)
	return false, err
}

// Exec runs one step and reports whether it ran a tick.
func (r *Runner) Exec(ctx context.Context, eng Engine, step Step) (bool, error) {
	if err := step.Validate(); err != nil {
		return false, err
	}
	r.Logger.DebugContext(ctx, "step", "action", step.Action, "entity", step.Entity)

	switch step.Action {
	case ActionTrigger:
		id, err := resolve(eng, step.Entity)
		if err != nil {
			return false, err
		}
		batch, err := eng.Trigger(ctx, domain.Signal{Entity: id, Kind: step.Kind, Delta: step.Delta})
		if err != nil {
			return false, err
		}
		if err := r.Handler.Triggered(ctx, step, batch); err != nil {
			return false, err
		}
		if r.AutoTick {
			return true, r.tick(ctx, eng)
		}
		return false, nil
	case ActionPress:
		id, err := resolve(eng, step.Entity)
		if err != nil {
			return false, err
		}
		eng.Press(id)
		return false, r.Handler.SystemOutput(ctx, "pressed "+id.String())
	case ActionRelease:
		eng.Release()
		return false, r.Handler.SystemOutput(ctx, "released")
	case ActionMove:
		eng.Move(*step.Delta)
		return false, nil
	case ActionTick:
		return true, r.tick(ctx, eng)
	case ActionInspect:
		id, err := resolve(eng, step.Entity)
		if err != nil {
			return false, err
		}
		snap, ok := eng.Describe(id)
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrUnknownEntity, step.Entity)
		}
		return false, r.Handler.Inspected(ctx, snap)
	}
	return false, fmt.Errorf("%w: unknown action %q", ErrInvalidCommand, step.Action)
}

func (r *Runner) tick(ctx context.Context, eng Engine) error {
	report, err := eng.Tick(ctx)
	if err != nil {
		return err
	}
	return r.Handler.Ticked(ctx, report)
}

// resolve maps a name, or a numeric handle optionally prefixed with "e",
// to an entity of the scene.
func resolve(eng Engine, ref string) (domain.EntityID, error) {
	if id, ok := eng.Resolve(ref); ok {
		return id, nil
	}
	if n, err := strconv.ParseUint(strings.TrimPrefix(ref, "e"), 10, 64); err == nil {
		if _, ok := eng.Describe(domain.EntityID(n)); ok {
			return domain.EntityID(n), nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownEntity, ref)
}
