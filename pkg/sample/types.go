// Package sample holds the structured metrics record produced by benchmark
// runs. Its JSON form is the metrics blob users save and compare.
package sample

import "encoding/json"

// TestName keys every RunRecord.
const TestName = "font_table_access"

// EntryMetric describes one entry's table fetch within one run.
type EntryMetric struct {
	ElapsedMs float64 `json:"elapsed_ms"`
	Size      int64   `json:"size"`
}

// RunMetrics is the timing of one run and its entries, in processing order.
type RunMetrics struct {
	RunElapsedMs     float64       `json:"run_elapsed_ms"`
	FontTableMetrics []EntryMetric `json:"font_table_metrics"`
}

// RunRecord is one completed run keyed by TestName.
type RunRecord struct {
	FontTableAccess RunMetrics `json:"font_table_access"`
}

// NewRunRecord builds the record for a completed run.
func NewRunRecord(elapsedMs float64, entries []EntryMetric) RunRecord {
	if entries == nil {
		entries = []EntryMetric{}
	}
	return RunRecord{FontTableAccess: RunMetrics{
		RunElapsedMs:     elapsedMs,
		FontTableMetrics: entries,
	}}
}

// Sink accumulates RunRecords across invocations. It is owned by the caller;
// benchmark code only appends to it. Mutating a Sink while an invocation is
// appending to it is not supported.
type Sink []RunRecord

// Append adds a record at the end of the sink.
func (s *Sink) Append(r RunRecord) {
	*s = append(*s, r)
}

// Len returns the number of records.
func (s *Sink) Len() int {
	if s == nil {
		return 0
	}
	return len(*s)
}

// MarshalJSON always emits an array, an empty sink included.
func (s Sink) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]RunRecord(s))
}
