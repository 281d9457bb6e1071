package interactive

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	log "github.com/cloud-bulldozer/fontperf/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOptions(t *testing.T) {
	labels, def := runOptions(RunChoices, 10)
	assert.Equal(t, []string{"1 run", "5 runs", "10 runs", "25 runs", "50 runs", "100 runs"}, labels)
	assert.Equal(t, "10 runs", def)

	_, def = runOptions(RunChoices, 7)
	assert.Equal(t, "1 run", def)
}

func TestParseRunLabel(t *testing.T) {
	for _, n := range RunChoices {
		got, err := parseRunLabel(RunChoices, runLabel(n))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
	_, err := parseRunLabel(RunChoices, "7 runs")
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestSelectRunsNoOptions(t *testing.T) {
	_, err := SelectRuns(nil, 1)
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestPromptsAvoidStdout(t *testing.T) {
	assert.Equal(t, os.Stderr, promptOut)
	assert.NotEqual(t, os.Stdout, promptOut)
}

// TestConfirmAborted an unanswerable prompt is a logged decline.
func TestConfirmAborted(t *testing.T) {
	in, err := os.Create(filepath.Join(t.TempDir(), "stdin"))
	require.NoError(t, err)
	defer in.Close()
	out, err := os.Create(filepath.Join(t.TempDir(), "stderr"))
	require.NoError(t, err)
	defer out.Close()

	oldIn, oldOut := promptIn, promptOut
	promptIn, promptOut = in, out
	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.SetDebug()
	t.Cleanup(func() {
		promptIn, promptOut = oldIn, oldOut
		log.SetOutput(os.Stderr)
		_ = log.SetLevelString("info")
	})

	assert.False(t, Confirm("overwrite?"))
	assert.Contains(t, buf.String(), "confirmation aborted")

	_, err = SelectRuns(RunChoices, 5)
	assert.ErrorIs(t, err, ErrAborted)
	assert.Contains(t, buf.String(), "run selection")
}
