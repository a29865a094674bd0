// Package backend executes plan steps. The reference backend runs one
// transform at a time through its own body; the fast backend runs whole
// batches of descriptors through the ops kernels without calling back into
// transforms. Both produce identical output for identical input.
package backend

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"quirk/internal/errs"
	"quirk/internal/mask"
	"quirk/internal/transform"
)

// ErrUnavailable is returned by RunBatch when the backend cannot execute the
// batch at all. Callers fall back to the reference backend.
var ErrUnavailable = errors.New("backend unavailable")

// Backend runs a batch of descriptors over text. include and exclude are
// the batch's effective patterns; master is the composite seed.
type Backend interface {
	RunBatch(text string, ds []transform.Descriptor, master uint64, include, exclude []string) (string, error)
	Name() string
}

const (
	KindFast      = "fast"
	KindReference = "reference"
)

type Options struct {
	// Kind is "fast" (default) or "reference".
	Kind             string
	MaskCacheSize    int
	ProgramCacheSize int
	Logger           *zap.Logger
}

// Select builds the backend named by opts.Kind.
func Select(opts Options) (Backend, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	var b Backend
	switch strings.ToLower(strings.TrimSpace(opts.Kind)) {
	case "", KindFast:
		b = NewFast(opts.MaskCacheSize, opts.ProgramCacheSize)
	case KindReference:
		b = NewReference(mask.NewCache(opts.MaskCacheSize))
	default:
		return nil, errs.Config("backend", "unknown backend %q", opts.Kind)
	}
	log.Info("backend selected", zap.String("backend", b.Name()))
	return b, nil
}
