package engine

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the engine settings read from the environment. Command-line
// flags override these; defaults apply when neither is set.
type Config struct {
	LogLevel  string  `env:"TESSERA_LOG" envDefault:"info"`
	LogFormat string  `env:"TESSERA_LOG_FORMAT" envDefault:"text"`
	LogFile   string  `env:"TESSERA_LOG_FILE"`
	TickMS    int     `env:"TESSERA_TICK_MS" envDefault:"80"`
	Seed      *uint64 `env:"TESSERA_SEED"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TickMS <= 0 {
		cfg.TickMS = 80
	}
	return cfg, nil
}

// Tick returns the run-loop tick interval.
func (c Config) Tick() time.Duration {
	return time.Duration(c.TickMS) * time.Millisecond
}

// OpenLogSink picks the writer log output goes to. Interactive runs must keep
// stdout clean for the renderer, so without TESSERA_LOG_FILE they log to
// io.Discard; headless runs log to stderr. The returned closer is nil unless
// a file was opened.
func (c Config) OpenLogSink(headless bool) (io.Writer, io.Closer, error) {
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return f, f, nil
	}
	if headless {
		return os.Stderr, nil, nil
	}
	return io.Discard, nil, nil
}

// RunOptions carries the per-invocation choices from the command line into an
// example's entry point.
type RunOptions struct {
	Seed         *uint64
	ViewOverride string
	Features     []string
	ManifestPath string
	Headless     bool
	ExportPath   string
}

// EffectiveSeed resolves the seed precedence: the --seed flag wins over
// TESSERA_SEED; false means no seed was requested and the generator should
// draw its own.
func (o RunOptions) EffectiveSeed(cfg Config) (uint64, bool) {
	if o.Seed != nil {
		return *o.Seed, true
	}
	if cfg.Seed != nil {
		return *cfg.Seed, true
	}
	return 0, false
}
