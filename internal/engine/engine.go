package engine

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quirk/internal/pipeline"
	"quirk/sink"
	"quirk/source"
)

type Engine struct {
	id        uuid.UUID
	log       *zap.Logger
	composite *pipeline.Composite
	source    source.Adapter
	sink      sink.Adapter

	written atomic.Int64
}

func (e *Engine) ID() uuid.UUID                  { return e.id }
func (e *Engine) Composite() *pipeline.Composite { return e.composite }

// Written counts records the sink has acknowledged.
func (e *Engine) Written() int64 { return e.written.Load() }

func (e *Engine) ack(int) { e.written.Add(1) }

// Run reads every record, corrupts it and hands it to the sink. The first
// error stops the run; records already written stay written.
func (e *Engine) Run(ctx context.Context) error {
	defer func() {
		_ = e.source.Close()
		_ = e.sink.Close()
	}()
	e.log.Info("run started", zap.Int("transforms", len(e.composite.Transforms())), zap.Uint64("seed", e.composite.Seed()))
	err := e.source.Run(ctx, func(rec source.Record) error {
		out, err := e.composite.Apply(rec.Value)
		if err != nil {
			e.log.Warn("record failed", zap.Int("seq", rec.Seq), zap.Error(err))
			return err
		}
		return e.sink.Push(sink.Record{Seq: rec.Seq, Value: out})
	})
	e.log.Info("run finished", zap.Int64("written", e.Written()), zap.Error(err))
	return err
}
