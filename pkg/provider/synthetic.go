package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/cloud-bulldozer/fontperf/pkg/config"
	"k8s.io/utils/clock"
)

// sizedBlob is a table that only knows its size.
type sizedBlob int64

func (b sizedBlob) Size() int64 { return int64(b) }

type syntheticEntry struct {
	name   string
	delay  time.Duration
	tables TableSet
	fail   bool
	clock  clock.Clock
}

func (e *syntheticEntry) Name() string { return e.name }

// GetTables sleeps for the configured delay on the provider clock, then
// returns a copy of the tables.
func (e *syntheticEntry) GetTables(ctx context.Context) (TableSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.delay > 0 {
		e.clock.Sleep(e.delay)
	}
	if e.fail {
		return nil, fmt.Errorf("entry %s: table fetch failed", e.name)
	}
	ts := make(TableSet, len(e.tables))
	for k, v := range e.tables {
		ts[k] = v
	}
	return ts, nil
}

// Synthetic serves configured entries with fixed sizes and fetch delays.
type Synthetic struct {
	entries []*syntheticEntry
}

// NewSynthetic builds a Synthetic provider. A nil clock means the real clock.
func NewSynthetic(entries []config.EntryConfig, clk clock.Clock) (*Synthetic, error) {
	if clk == nil {
		clk = clock.RealClock{}
	}
	s := &Synthetic{}
	for i, ec := range entries {
		name := ec.Name
		if name == "" {
			name = fmt.Sprintf("entry-%d", i)
		}
		e := &syntheticEntry{
			name:   name,
			delay:  ec.Delay,
			tables: make(TableSet, len(ec.Tables)),
			fail:   ec.Fail,
			clock:  clk,
		}
		for tag, size := range ec.Tables {
			n, err := config.TableSize(size)
			if err != nil {
				return nil, fmt.Errorf("entry %s: table %s: %w", name, tag, err)
			}
			e.tables[tag] = sizedBlob(n)
		}
		s.entries = append(s.entries, e)
	}
	return s, nil
}

// Name of the provider
func (s *Synthetic) Name() string { return config.ProviderSynthetic }

// Available fails when there is nothing to enumerate.
func (s *Synthetic) Available() error {
	if len(s.entries) == 0 {
		return fmt.Errorf("%w: no synthetic entries configured", ErrUnavailable)
	}
	return nil
}

// Query returns the configured entries in configuration order.
func (s *Synthetic) Query(ctx context.Context) (Sequence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seq := &sliceSequence{entries: make([]Entry, 0, len(s.entries))}
	for _, e := range s.entries {
		seq.entries = append(seq.entries, e)
	}
	return seq, nil
}
