package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"quirk/internal/backend"
	"quirk/internal/config"
	"quirk/internal/logging"
	"quirk/internal/pipeline"
	"quirk/internal/spec"
	"quirk/internal/telemetry"
	"quirk/sink"
	"quirk/sink/stdout"
	"quirk/source"
	_ "quirk/source/file"
)

type Config struct {
	// AttackFile is the roster to compile. Transforms, when set, is used
	// instead: compact specs such as "swap(rate=0.2)".
	AttackFile string
	Transforms []string

	// RuntimeFile is optional; QUIRK_* env-vars apply either way.
	RuntimeFile string

	// Seed overrides both the attack file and the runtime default.
	Seed *uint64

	Format string // source driver: text|lines|jsonl|transcript
	Input  string // "" or "-" for stdin
	Output io.Writer
	JSON   bool
	Number bool // prefix each output record with its sequence number

	MetricsPort int // 0 disables the listener
	Registerer  prometheus.Registerer
}

// Bootstrap loads configuration and wires the composite between a source
// and a sink. Nothing runs until Run.
func Bootstrap(ctx context.Context, cfg Config) (*Engine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 1. runtime config + logging
	rt, err := config.LoadRuntime(cfg.RuntimeFile)
	if err != nil {
		return nil, fmt.Errorf("runtime: %w", err)
	}
	logging.Configure(logging.Options{Level: rt.Log.Level, JSON: rt.Log.JSON})
	id := uuid.New()
	log := logging.L().With(zap.String("run_id", id.String()))

	// 2. metrics
	var metrics *telemetry.Metrics
	if rt.Metrics || cfg.MetricsPort > 0 {
		reg := cfg.Registerer
		if reg == nil {
			reg = prometheus.NewRegistry()
		}
		if metrics, err = telemetry.New(reg); err != nil {
			return nil, err
		}
		if g, ok := reg.(prometheus.Gatherer); ok && cfg.MetricsPort > 0 {
			telemetry.Expose(cfg.MetricsPort, g, log)
		}
	}

	// 3. backend
	b, err := backend.Select(backend.Options{
		Kind:             rt.Backend,
		MaskCacheSize:    rt.Cache.Masks,
		ProgramCacheSize: rt.Cache.Programs,
		Logger:           log,
	})
	if err != nil {
		return nil, err
	}

	// 4. composite
	attack, err := LoadAttack(cfg.AttackFile, cfg.Transforms)
	if err != nil {
		return nil, fmt.Errorf("attack: %w", err)
	}
	if attack.Seed == nil {
		s := rt.Seed
		attack.Seed = &s
	}
	opts := []pipeline.Option{pipeline.WithBackend(b), pipeline.WithLogger(log), pipeline.WithMetrics(metrics)}
	if cfg.Seed != nil {
		opts = append(opts, pipeline.WithSeed(*cfg.Seed))
	}
	comp, err := pipeline.FromSpec(attack, opts...)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	// 5. source + sink
	format := cfg.Format
	if format == "" {
		format = "text"
	}
	src, err := source.NewAdapter(format)
	if err != nil {
		return nil, err
	}
	if err := src.Configure(source.Config{Path: cfg.Input}); err != nil {
		return nil, err
	}
	snk, err := sink.NewAdapter("stdout")
	if err != nil {
		return nil, err
	}
	if err := snk.Configure(stdout.Config{Writer: cfg.Output, JSON: cfg.JSON, PrintCounter: cfg.Number}); err != nil {
		return nil, err
	}

	e := &Engine{id: id, log: log, composite: comp, source: src, sink: snk}
	if aw, ok := snk.(sink.AckAware); ok {
		aw.BindAck(e.ack)
	}
	return e, nil
}

// LoadAttack reads the attack file, or builds a roster from compact specs
// when any are given.
func LoadAttack(path string, compact []string) (spec.File, error) {
	if len(compact) > 0 {
		f := spec.File{SchemaVersion: config.SupportedSchema}
		for _, t := range compact {
			f.Transforms = append(f.Transforms, spec.TransformSpec{Compact: t})
		}
		return f, nil
	}
	if path == "" {
		return spec.File{}, fmt.Errorf("no attack file and no transforms given")
	}
	return config.LoadAttackSpec(path)
}
