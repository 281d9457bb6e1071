package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloud-bulldozer/fontperf/pkg/config"
	"k8s.io/utils/clock"
)

// ErrUnavailable is returned by Available when the provider cannot serve entries.
var ErrUnavailable = errors.New("resource provider unavailable")

// TableBlob is one table of an entry.
type TableBlob interface {
	Size() int64
}

// TableSet maps a table name to its blob.
type TableSet map[string]TableBlob

// Entry is one item yielded by a Sequence.
type Entry interface {
	Name() string
	GetTables(ctx context.Context) (TableSet, error)
}

// Sequence is a lazy stream of entries. Next returns false once exhausted.
type Sequence interface {
	Next(ctx context.Context) (Entry, bool, error)
}

// Enumerator hands out a fresh Sequence on every Query.
type Enumerator interface {
	Query(ctx context.Context) (Sequence, error)
}

// Provider is an Enumerator the caller can check before benchmarking.
type Provider interface {
	Enumerator
	Name() string
	Available() error
}

// NewProvider returns a Provider based on the scenario configuration.
// It currently supports the "fontdir" and "synthetic" providers.
// If the provider is not recognized, it returns an error.
func NewProvider(cfg config.Config, clk clock.Clock) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderFontDir:
		return NewFontDir(cfg.FontDirs), nil
	case config.ProviderSynthetic:
		s, err := NewSynthetic(cfg.Entries, clk)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

// sliceSequence walks a fixed list of entries.
type sliceSequence struct {
	entries []Entry
	pos     int
}

func (s *sliceSequence) Next(ctx context.Context) (Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if s.pos >= len(s.entries) {
		return nil, false, nil
	}
	e := s.entries[s.pos]
	s.pos++
	return e, true, nil
}
