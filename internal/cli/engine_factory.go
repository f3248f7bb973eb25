package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/cascade"
	"github.com/aretw0/cascade/internal/validator"
	loamAdapter "github.com/aretw0/cascade/pkg/adapters/loam"
	"github.com/aretw0/cascade/pkg/adapters/redis"
	"github.com/aretw0/cascade/pkg/observability"
	"github.com/aretw0/cascade/pkg/registry"
	"github.com/aretw0/cascade/pkg/scene"
	"github.com/aretw0/loam"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrNoScene is returned when no scene path was given.
var ErrNoScene = errors.New("no scene given (use --scene or CASCADE_SCENE)")

// Stack is an engine built from a scene together with what it depends on.
type Stack struct {
	Engine   *cascade.Engine
	Spec     *scene.Spec
	Scene    *scene.Instance
	Registry *prometheus.Registry

	closers []func() error
}

// Close releases external connections.
func (s *Stack) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// LoadSpec reads a scene file, or a directory holding one document per
// entity.
func LoadSpec(ctx context.Context, path string) (*scene.Spec, error) {
	if path == "" {
		return nil, ErrNoScene
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene: %w", err)
	}
	if !info.IsDir() {
		return scene.File(path).Load(ctx)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	typed := loam.NewTypedRepository[loamAdapter.EntityMetadata](repo)
	return loamAdapter.New(typed, filepath.Base(absPath)).Load(ctx)
}

// NewStack loads, validates and builds the configured scene and wires an
// engine over it: metrics always, debug hooks at debug level, and a Redis
// queue with an apply lease when RedisAddr is set.
func NewStack(ctx context.Context, cfg Config, logger *slog.Logger) (*Stack, error) {
	spec, err := LoadSpec(ctx, cfg.Scene)
	if err != nil {
		return nil, err
	}
	if cfg.Name != "" {
		spec.Name = cfg.Name
	}
	if err := validator.ValidateScene(spec, registry.Default()); err != nil {
		return nil, err
	}
	in, err := scene.Build(spec)
	if err != nil {
		return nil, err
	}

	st := &Stack{Spec: spec, Scene: in, Registry: prometheus.NewRegistry()}
	hooks := observability.NewMetrics(st.Registry).Hooks()
	if logger.Enabled(ctx, slog.LevelDebug) {
		hooks = hooks.Merge(observability.LoggingHooks(logger))
	}

	opts := []cascade.Option{
		cascade.WithName(spec.Name),
		cascade.WithLogger(logger),
		cascade.WithLifecycleHooks(hooks),
	}
	if cfg.RedisAddr != "" {
		q := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, spec.Name, redis.WithTTL(cfg.QueueTTL), redis.WithLogger(logger))
		st.closers = append(st.closers, q.Close)
		if err := q.Ping(ctx); err != nil {
			_ = st.Close()
			return nil, err
		}
		opts = append(opts,
			cascade.WithQueue(q),
			cascade.WithApplyLocker(redis.NewLocker(q.Client(), "cascade:"), spec.Name, cfg.LeaseTTL),
		)
		logger.Info("sharing descriptor queue", "redis", cfg.RedisAddr, "scene", spec.Name)
	}

	st.Engine = cascade.New(in.Graph, opts...)
	if err := in.Attach(st.Engine); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}
