package result

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/cloud-bulldozer/fontperf/pkg/sample"
	"github.com/stretchr/testify/assert"
)

func TestSummaryRow(t *testing.T) {
	s := Summary{
		Name:            "two_faces",
		Runs:            2,
		OverallElapsed:  90 * time.Second,
		TableAccessTime: 2 * time.Second,
		TotalBytes:      3 * 1024,
	}
	assert.Equal(t, SummaryRow{
		Count:           2,
		OverallElapsed:  "1.50 mins",
		TableAccessTime: "2.00 secs",
		TotalBytes:      "3.00 KiB",
		Throughput:      "1.50 KiB/sec",
	}, s.Row())
}

// TestSummaryRowSubSecond short durations are blank unless precise output is requested.
func TestSummaryRowSubSecond(t *testing.T) {
	s := Summary{Runs: 2, OverallElapsed: 75 * time.Millisecond, TableAccessTime: 60 * time.Millisecond, TotalBytes: 600}
	row := s.Row()
	assert.Equal(t, "", row.OverallElapsed)
	assert.Equal(t, "", row.TableAccessTime)
	assert.Equal(t, "9.77 KiB/sec", row.Throughput)

	precise := s.PreciseRow()
	assert.Equal(t, "75.00 ms", precise.OverallElapsed)
	assert.Equal(t, "60.00 ms", precise.TableAccessTime)
}

func TestDegenerateThroughput(t *testing.T) {
	empty := Summary{}
	assert.True(t, math.IsNaN(empty.Throughput()))
	assert.Equal(t, "NaN B/sec", empty.Row().Throughput)
	assert.Equal(t, "0 B", empty.Row().TotalBytes)

	noTime := Summary{TotalBytes: 10}
	assert.True(t, math.IsInf(noTime.Throughput(), 1))
}

func TestShowSummaryResult(t *testing.T) {
	var buf bytes.Buffer
	ShowSummaryResult(&buf, ScenarioResults{Results: []Summary{
		{Name: "first", Runs: 1, OverallElapsed: 2 * time.Second, TableAccessTime: time.Second, TotalBytes: 2048},
		{Name: "second", Runs: 5, OverallElapsed: 3 * time.Second, TableAccessTime: time.Second, TotalBytes: 1024},
	}}, false)
	out := buf.String()
	assert.Contains(t, out, "Font Table Access Results")
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "second")
	assert.Contains(t, out, "2.00 KiB/sec")
	assert.Contains(t, out, "1.00 KiB/sec")
}

func TestShowRunResult(t *testing.T) {
	sink := sample.Sink{
		sample.NewRunRecord(35, []sample.EntryMetric{{ElapsedMs: 10, Size: 100}, {ElapsedMs: 20, Size: 200}}),
		sample.NewRunRecord(1, nil),
	}
	b, ms := RunTotal(sink[0])
	assert.Equal(t, 300.0, b)
	assert.Equal(t, 30.0, ms)
	b, ms = RunTotal(sink[1])
	assert.Zero(t, b)
	assert.Zero(t, ms)

	var buf bytes.Buffer
	ShowRunResult(&buf, sink)
	assert.Contains(t, buf.String(), "300.00 B")
	assert.Contains(t, buf.String(), "35.00 ms")

	buf.Reset()
	ShowRunResult(&buf, nil)
	assert.Empty(t, buf.String())
}
