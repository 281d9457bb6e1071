package result

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cloud-bulldozer/fontperf/pkg/logging"
	"github.com/cloud-bulldozer/fontperf/pkg/sample"
	"github.com/cloud-bulldozer/fontperf/pkg/units"
	stats "github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Specify Language specific case wrapper as global variable
var caser = cases.Title(language.English)

// Summary is the raw aggregate of one benchmark invocation. Totals span
// every run of the invocation.
type Summary struct {
	Name            string
	Runs            int
	Entries         int
	OverallElapsed  time.Duration
	TableAccessTime time.Duration
	TotalBytes      int64
	StartTime       time.Time
	EndTime         time.Time
}

// SummaryRow is the formatted form of a Summary.
type SummaryRow struct {
	Count           int
	OverallElapsed  string
	TableAccessTime string
	TotalBytes      string
	Throughput      string
}

// ScenarioResults each invocation contributes one Summary
type ScenarioResults struct {
	Results []Summary
	Metadata
}

// Metadata for the run
type Metadata struct {
	Hostname  string `json:"hostname"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	GoVersion string `json:"goVersion"`
}

// Milliseconds converts d to fractional milliseconds.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Throughput is bytes per second of table access time. It is NaN or +Inf
// when no access time was recorded.
func (s Summary) Throughput() float64 {
	return float64(s.TotalBytes) / s.TableAccessTime.Seconds()
}

// Row formats the summary with the unit formatters.
func (s Summary) Row() SummaryRow {
	return s.row(units.FormatDuration)
}

// PreciseRow is Row with sub-second durations shown in milliseconds.
func (s Summary) PreciseRow() SummaryRow {
	return s.row(units.FormatDurationPrecise)
}

func (s Summary) row(formatDuration func(float64) string) SummaryRow {
	return SummaryRow{
		Count:           s.Runs,
		OverallElapsed:  formatDuration(Milliseconds(s.OverallElapsed)),
		TableAccessTime: formatDuration(Milliseconds(s.TableAccessTime)),
		TotalBytes:      units.FormatBytes(float64(s.TotalBytes)),
		Throughput:      fmt.Sprintf("%s/sec", units.FormatBytes(s.Throughput())),
	}
}

// Method to init common table structure.
func initTable(w io.Writer, header []string) *tablewriter.Table {
	// Create a new table writer with the appropriate header and alignment options
	table := tablewriter.NewWriter(w)
	// Add a header to the table
	table.SetHeader(header)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	return table
}

// ShowSummaryResult renders one row per invocation.
func ShowSummaryResult(w io.Writer, s ScenarioResults, precise bool) {
	logging.Debug("Rendering summary results")
	table := initTable(w, []string{"Result Type", "Scenario", "Runs", "Elapsed", "Table Access Time", "Total Bytes", "Throughput"})
	for _, r := range s.Results {
		row := r.Row()
		if precise {
			row = r.PreciseRow()
		}
		table.Append([]string{fmt.Sprintf("📊 %s Results", caser.String(strings.ReplaceAll(sample.TestName, "_", " "))), r.Name, strconv.Itoa(row.Count), row.OverallElapsed, row.TableAccessTime, row.TotalBytes, row.Throughput})
	}
	table.Render()
}

// RunTotal sums the entry sizes and fetch times of one run.
func RunTotal(r sample.RunRecord) (bytes float64, accessMs float64) {
	m := r.FontTableAccess.FontTableMetrics
	if len(m) == 0 {
		return 0, 0
	}
	sizes := make([]float64, len(m))
	times := make([]float64, len(m))
	for i, e := range m {
		sizes[i] = float64(e.Size)
		times[i] = e.ElapsedMs
	}
	// Sum only fails on empty input
	bytes, _ = stats.Sum(sizes)
	accessMs, _ = stats.Sum(times)
	return bytes, accessMs
}

// ShowRunResult renders one row per recorded run of the sink.
func ShowRunResult(w io.Writer, sink sample.Sink) {
	if len(sink) == 0 {
		return
	}
	logging.Debug("Rendering per-run results")
	table := initTable(w, []string{"Result Type", "Run", "Run Elapsed", "Entries", "Table Bytes", "Table Access Time"})
	for i, r := range sink {
		bytes, accessMs := RunTotal(r)
		table.Append([]string{"Run Results", strconv.Itoa(i + 1), units.FormatDurationPrecise(r.FontTableAccess.RunElapsedMs), strconv.Itoa(len(r.FontTableAccess.FontTableMetrics)), units.FormatBytes(bytes), units.FormatDurationPrecise(accessMs)})
	}
	table.Render()
}
