package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	units "github.com/docker/go-units"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	log "github.com/cloud-bulldozer/fontperf/pkg/logging"
)

// Config describes one benchmark scenario
type Config struct {
	Name     string        `yaml:"-"`
	Runs     int           `yaml:"runs"`
	Provider string        `yaml:"provider"`
	FontDirs []string      `yaml:"fontdirs,omitempty"`
	Entries  []EntryConfig `yaml:"entries,omitempty"`
}

// EntryConfig describes one entry of the synthetic provider
type EntryConfig struct {
	Name   string            `yaml:"name"`
	Delay  time.Duration     `yaml:"delay,omitempty"`
	Tables map[string]string `yaml:"tables"`
	Fail   bool              `yaml:"fail,omitempty"`
}

// Env holds defaults read from the environment or a .env file
type Env struct {
	ConfigFile string
	Runs       int
	LogLevel   string
}

// Providers we support in fontperf
const (
	ProviderFontDir   = "fontdir"
	ProviderSynthetic = "synthetic"
)

// DefaultConfigFile is used when neither a flag nor FONTPERF_CONFIG is set
const DefaultConfigFile = "fontperf.yml"

func validConfig(cfg Config) (bool, error) {
	if cfg.Runs < 1 {
		return false, fmt.Errorf("scenario %q: runs must be > 0", cfg.Name)
	}
	switch cfg.Provider {
	case ProviderFontDir:
		if len(cfg.FontDirs) < 1 {
			return false, fmt.Errorf("scenario %q: fontdirs must list at least one directory", cfg.Name)
		}
	case ProviderSynthetic:
		if len(cfg.Entries) < 1 {
			return false, fmt.Errorf("scenario %q: entries must list at least one entry", cfg.Name)
		}
		for _, e := range cfg.Entries {
			if e.Delay < 0 {
				return false, fmt.Errorf("scenario %q: entry %q: delay must be >= 0", cfg.Name, e.Name)
			}
			for tag, size := range e.Tables {
				if _, err := TableSize(size); err != nil {
					return false, fmt.Errorf("scenario %q: entry %q: table %q: %w", cfg.Name, e.Name, tag, err)
				}
			}
		}
	default:
		return false, fmt.Errorf("scenario %q: unknown provider %q", cfg.Name, cfg.Provider)
	}
	return true, nil
}

// TableSize parses a human size such as "64KiB" or "1.5MB" into bytes.
func TableSize(s string) (int64, error) {
	n, err := units.RAMInBytes(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative size %q", s)
	}
	return n, nil
}

// ParseConf will read in the fontperf configuration file which
// describes which scenarios to run, keyed by scenario name.
// Returns the scenarios sorted by name.
func ParseConf(fn string) ([]Config, error) {
	log.Infof("📒 Reading %s file. ", fn)
	buf, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}
	c := make(map[string]Config)
	err = yaml.Unmarshal(buf, &c)
	if err != nil {
		return nil, fmt.Errorf("in file %q: %v", fn, err)
	}
	if len(c) == 0 {
		return nil, fmt.Errorf("in file %q: no scenarios defined", fn)
	}
	var tests []Config
	for name, value := range c {
		value.Name = name
		ok, err := validConfig(value)
		if !ok {
			return nil, err
		}
		tests = append(tests, value)
	}
	sort.Slice(tests, func(i, j int) bool { return tests[i].Name < tests[j].Name })
	return tests, nil
}

// LoadEnv reads a .env file if present and returns the environment defaults.
func LoadEnv() (Env, error) {
	if err := godotenv.Load(); err != nil {
		// It's okay if the file doesn't exist
		if !os.IsNotExist(err) {
			return Env{}, fmt.Errorf("error loading .env file: %w", err)
		}
	}
	env := Env{
		ConfigFile: getEnv("FONTPERF_CONFIG", DefaultConfigFile),
		LogLevel:   getEnv("LOG_LEVEL", ""),
	}
	runs, err := strconv.Atoi(getEnv("FONTPERF_RUNS", "0"))
	if err != nil {
		return Env{}, fmt.Errorf("invalid FONTPERF_RUNS: %w", err)
	}
	env.Runs = runs
	return env, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Show Display the scenario config
func Show(c Config) {
	switch c.Provider {
	case ProviderFontDir:
		log.Infof("🗒️  Running %s with %s provider over %v for %d runs ", c.Name, c.Provider, c.FontDirs, c.Runs)
	default:
		log.Infof("🗒️  Running %s with %s provider (%d entries) for %d runs ", c.Name, c.Provider, len(c.Entries), c.Runs)
	}
}
