package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseConf Test for success. Ensure we successfully parse a good config file
func TestParseConf(t *testing.T) {
	cfg, err := ParseConf("testdata/test-config.yml")
	require.NoError(t, err, "Parsing config file failed")
	require.Len(t, cfg, 2)

	// scenarios come back sorted by name
	assert.Equal(t, "system_fonts", cfg[0].Name)
	assert.Equal(t, ProviderFontDir, cfg[0].Provider)
	assert.Equal(t, 5, cfg[0].Runs)
	assert.Len(t, cfg[0].FontDirs, 2)

	syn := cfg[1]
	assert.Equal(t, "two_faces", syn.Name)
	require.Len(t, syn.Entries, 2)
	assert.Equal(t, 10*time.Millisecond, syn.Entries[0].Delay)
	assert.Equal(t, 20*time.Millisecond, syn.Entries[1].Delay)
	assert.Equal(t, "200b", syn.Entries[1].Tables["glyf"])
}

// TestShippingConf Test for success. Ensure we successfully parse the default config
func TestShippingConf(t *testing.T) {
	_, err := ParseConf("../../" + DefaultConfigFile)
	require.NoError(t, err, "Parsing config file failed")
}

// TestBadParseConf Test for failure. Each file breaks one rule
func TestBadParseConf(t *testing.T) {
	for _, file := range []string{
		"testdata/test-bad-provider-config.yml",
		"testdata/test-bad-runs-config.yml",
		"testdata/test-bad-size-config.yml",
		"testdata/test-missing-dirs-config.yml",
		"testdata/does-not-exist.yml",
	} {
		_, err := ParseConf(file)
		assert.Error(t, err, "Parsing %s should have failed but succeeded", file)
	}
}

func TestEmptyConf(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "empty.yml")
	require.NoError(t, os.WriteFile(fn, []byte("{}\n"), 0o644))
	_, err := ParseConf(fn)
	assert.Error(t, err)
}

func TestTableSize(t *testing.T) {
	n, err := TableSize("64KiB")
	require.NoError(t, err)
	assert.Equal(t, int64(64*1024), n)

	n, err = TableSize("100")
	require.NoError(t, err)
	assert.Equal(t, int64(100), n)

	_, err = TableSize("-")
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FONTPERF_CONFIG", "bench.yml")
	t.Setenv("FONTPERF_RUNS", "7")
	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "bench.yml", env.ConfigFile)
	assert.Equal(t, 7, env.Runs)

	t.Setenv("FONTPERF_RUNS", "seven")
	_, err = LoadEnv()
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FONTPERF_RUNS=3\n"), 0o644))
	t.Chdir(dir)
	t.Setenv("FONTPERF_RUNS", "")
	os.Unsetenv("FONTPERF_RUNS")
	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, 3, env.Runs)
	assert.Equal(t, DefaultConfigFile, env.ConfigFile)
}
