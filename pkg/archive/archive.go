package archive

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cloud-bulldozer/fontperf/pkg/logging"
	result "github.com/cloud-bulldozer/fontperf/pkg/results"
	"github.com/cloud-bulldozer/fontperf/pkg/sample"
	"github.com/cloud-bulldozer/go-commons/indexers"
)

// metricName names the local index file of summary documents.
const metricName = "fontperf-summary"

// Doc struct of the JSON document to be indexed
type Doc struct {
	UUID             string          `json:"uuid"`
	Timestamp        time.Time       `json:"timestamp"`
	Test             string          `json:"test"`
	Scenario         string          `json:"scenario"`
	Runs             int             `json:"runs"`
	Entries          int             `json:"entries"`
	StartTime        time.Time       `json:"startTime"`
	EndTime          time.Time       `json:"endTime"`
	ElapsedMs        float64         `json:"elapsedMs"`
	TableAccessMs    float64         `json:"tableAccessMs"`
	TotalBytes       int64           `json:"totalBytes"`
	Throughput       float64         `json:"throughput"`
	ThroughputMetric string          `json:"throughputMetric"`
	ElapsedHuman     string          `json:"elapsedHuman"`
	TableAccessHuman string          `json:"tableAccessHuman"`
	TotalBytesHuman  string          `json:"totalBytesHuman"`
	ThroughputHuman  string          `json:"throughputHuman"`
	Metadata         result.Metadata `json:"metadata"`
}

// Connect returns a client connected to the desired cluster.
func Connect(url, index string) (*indexers.Indexer, error) {
	indexerConfig := indexers.IndexerConfig{
		Type:               "opensearch",
		Servers:            []string{url},
		Index:              index,
		InsecureSkipVerify: true,
	}
	return newIndexer(indexerConfig)
}

// ConnectLocal returns an indexer writing documents below dir.
func ConnectLocal(dir, index string) (*indexers.Indexer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}
	indexerConfig := indexers.IndexerConfig{
		Type:             "local",
		Index:            index,
		MetricsDirectory: dir,
	}
	return newIndexer(indexerConfig)
}

func newIndexer(indexerConfig indexers.IndexerConfig) (*indexers.Indexer, error) {
	logging.Infof("📁 Creating indexer: %s", indexerConfig.Type)
	indexer, err := indexers.NewIndexer(indexerConfig)
	if err != nil {
		logging.Errorf("%v indexer: %v", indexerConfig.Type, err.Error())
		return nil, fmt.Errorf("failure while creating %s indexer: %w", indexerConfig.Type, err)
	}
	return indexer, nil
}

// IndexDocs sends docs to the indexer and returns the indexer's response.
func IndexDocs(indexer *indexers.Indexer, docs []interface{}) (string, error) {
	return (*indexer).Index(docs, indexers.IndexingOpts{MetricName: metricName})
}

// finite replaces NaN and Inf, which JSON cannot carry, with zero.
func finite(name string, v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		logging.Warnf("Unable to process %s (%v), setting value to zero", name, v)
		return 0
	}
	return v
}

// BuildDocs returns the documents that need to be indexed or an error.
func BuildDocs(sr result.ScenarioResults, uuid string) ([]interface{}, error) {
	time := time.Now().UTC()

	var docs []interface{}
	if len(sr.Results) < 1 {
		return nil, fmt.Errorf("no result documents")
	}
	for _, r := range sr.Results {
		row := r.Row()
		d := Doc{
			UUID:             uuid,
			Timestamp:        time,
			Test:             sample.TestName,
			Scenario:         r.Name,
			Runs:             r.Runs,
			Entries:          r.Entries,
			StartTime:        r.StartTime,
			EndTime:          r.EndTime,
			ElapsedMs:        result.Milliseconds(r.OverallElapsed),
			TableAccessMs:    result.Milliseconds(r.TableAccessTime),
			TotalBytes:       r.TotalBytes,
			Throughput:       finite("throughput", r.Throughput()),
			ThroughputMetric: "B/s",
			ElapsedHuman:     row.OverallElapsed,
			TableAccessHuman: row.TableAccessTime,
			TotalBytesHuman:  row.TotalBytes,
			ThroughputHuman:  row.Throughput,
			Metadata:         sr.Metadata,
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// Common csv header fields.
func commonCsvHeaderFields() []string {
	return []string{
		"Test",
		"Scenario",
		"# of Runs",
		"# of Entries",
	}
}

// Common csv data fields.
func commonCsvDataFields(row result.Summary) []string {
	return []string{
		sample.TestName,
		row.Name,
		strconv.Itoa(row.Runs),
		strconv.Itoa(row.Entries),
	}
}

// WriteCSVResult will write the summary results to dir and return the file name
func WriteCSVResult(dir string, r result.ScenarioResults) (string, error) {
	d := time.Now().Unix()
	fn := filepath.Join(dir, fmt.Sprintf("result-%d.csv", d))
	fp, err := os.Create(fn)
	if err != nil {
		return "", fmt.Errorf("failed to open archive file: %w", err)
	}
	defer fp.Close()
	archive := csv.NewWriter(fp)

	data := append(commonCsvHeaderFields(),
		"Elapsed (ms)",
		"Table Access Time (ms)",
		"Total Bytes",
		"Throughput (B/s)",
		"Throughput",
	)
	if err := archive.Write(data); err != nil {
		return "", fmt.Errorf("failed to write result archive to file")
	}
	for _, row := range r.Results {
		data := append(commonCsvDataFields(row),
			strconv.FormatFloat(result.Milliseconds(row.OverallElapsed), 'f', -1, 64),
			strconv.FormatFloat(result.Milliseconds(row.TableAccessTime), 'f', -1, 64),
			strconv.FormatInt(row.TotalBytes, 10),
			strconv.FormatFloat(row.Throughput(), 'f', 2, 64),
			row.Row().Throughput,
		)
		if err := archive.Write(data); err != nil {
			return "", fmt.Errorf("failed to write archive to file")
		}
	}
	archive.Flush()
	if err := archive.Error(); err != nil {
		return "", fmt.Errorf("failed to flush archive: %w", err)
	}
	return fn, nil
}

// WriteJSONResult writes the metrics blob to w
func WriteJSONResult(w io.Writer, sink sample.Sink) error {
	p, err := json.Marshal(sink)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(p))
	return err
}

// SaveMetrics stores the metrics blob at path.
func SaveMetrics(path string, sink sample.Sink) error {
	p, err := json.Marshal(sink)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, p, 0o644); err != nil {
		return fmt.Errorf("failed to save metrics: %w", err)
	}
	logging.Infof("💾 Saved %d run records to %s", len(sink), path)
	return nil
}

// LoadMetrics reads a metrics blob written by SaveMetrics.
func LoadMetrics(path string) (sample.Sink, error) {
	p, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sink sample.Sink
	if err := json.Unmarshal(p, &sink); err != nil {
		return nil, fmt.Errorf("in file %q: %w", path, err)
	}
	return sink, nil
}
