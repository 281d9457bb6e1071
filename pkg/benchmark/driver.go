// Package benchmark times repeated passes over a resource provider and
// aggregates what it sees into a Summary and a metrics Sink.
package benchmark

import (
	"context"
	"fmt"
	"time"

	log "github.com/cloud-bulldozer/fontperf/pkg/logging"
	"github.com/cloud-bulldozer/fontperf/pkg/provider"
	result "github.com/cloud-bulldozer/fontperf/pkg/results"
	"github.com/cloud-bulldozer/fontperf/pkg/sample"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// Op names the provider call that failed.
type Op string

// Provider calls made by the driver.
const (
	OpQuery     Op = "query"
	OpNext      Op = "next"
	OpGetTables Op = "getTables"
)

// RunError reports a provider failure and where it happened. Err is the
// provider's error, untouched.
type RunError struct {
	Run   int
	Entry string
	Op    Op
	Err   error
}

func (e *RunError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("run %d: %s %s: %v", e.Run, e.Op, e.Entry, e.Err)
	}
	return fmt.Sprintf("run %d: %s: %v", e.Run, e.Op, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// totals accumulate across every run of one Execute call.
type totals struct {
	bytes       int64
	tableAccess time.Duration
	entries     int
}

// Driver runs benchmark invocations against one Enumerator.
type Driver struct {
	enumerator provider.Enumerator
	clock      clock.PassiveClock
	name       string
}

// Option configures a Driver.
type Option func(*Driver)

// WithClock replaces the real clock, mostly for tests.
func WithClock(c clock.PassiveClock) Option {
	return func(d *Driver) { d.clock = c }
}

// WithName sets the scenario name reported in the Summary.
func WithName(name string) Option {
	return func(d *Driver) { d.name = name }
}

// NewDriver returns a Driver reading from e.
func NewDriver(e provider.Enumerator, opts ...Option) *Driver {
	d := &Driver{
		enumerator: e,
		clock:      clock.RealClock{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Execute performs runs sequential passes over the enumerator and returns
// one Summary for the whole invocation. Byte and access-time totals are
// cumulative across runs. When sink is not nil a RunRecord is appended to it
// after every completed run; the sink is never read or cleared.
//
// A provider failure stops the invocation and is returned as a *RunError with
// a zero Summary. Records of runs completed before the failure stay in the
// sink. runs <= 0 performs no run and returns empty totals.
func (d *Driver) Execute(ctx context.Context, runs int, sink *sample.Sink) (result.Summary, error) {
	var t totals
	start := d.clock.Now()
	for i := 0; i < runs; i++ {
		runStart := d.clock.Now()
		metrics, err := d.run(ctx, i, &t)
		if err != nil {
			return result.Summary{}, err
		}
		elapsed := d.clock.Since(runStart)
		log.WithFields(logrus.Fields{
			"scenario": d.name,
			"run":      i,
			"entries":  len(metrics),
			"elapsed":  elapsed,
		}).Debug("Run complete")
		if sink != nil {
			sink.Append(sample.NewRunRecord(result.Milliseconds(elapsed), metrics))
		}
	}
	end := d.clock.Now()
	return result.Summary{
		Name:            d.name,
		Runs:            runs,
		Entries:         t.entries,
		OverallElapsed:  end.Sub(start),
		TableAccessTime: t.tableAccess,
		TotalBytes:      t.bytes,
		StartTime:       start,
		EndTime:         end,
	}, nil
}

// run consumes one fresh sequence to exhaustion.
func (d *Driver) run(ctx context.Context, run int, t *totals) ([]sample.EntryMetric, error) {
	seq, err := d.enumerator.Query(ctx)
	if err != nil {
		return nil, &RunError{Run: run, Op: OpQuery, Err: err}
	}
	metrics := []sample.EntryMetric{}
	for {
		entry, ok, err := seq.Next(ctx)
		if err != nil {
			return nil, &RunError{Run: run, Op: OpNext, Err: err}
		}
		if !ok {
			return metrics, nil
		}
		fetchStart := d.clock.Now()
		tables, err := entry.GetTables(ctx)
		if err != nil {
			return nil, &RunError{Run: run, Entry: entry.Name(), Op: OpGetTables, Err: err}
		}
		fetchElapsed := d.clock.Since(fetchStart)
		var tableDataSize int64
		for _, blob := range tables {
			tableDataSize += blob.Size()
		}
		t.bytes += tableDataSize
		t.tableAccess += fetchElapsed
		t.entries++
		metrics = append(metrics, sample.EntryMetric{
			ElapsedMs: result.Milliseconds(fetchElapsed),
			Size:      tableDataSize,
		})
	}
}
