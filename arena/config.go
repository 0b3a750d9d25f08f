package arena

import (
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/xyproto/env/v2"
)

// Default sizing and growth parameters, carried over from the teacher's
// arena.go (DefaultGlobalArenaSize, ArenaGrowthNumerator/Denominator, ...),
// adjusted to the block sizes spec.md §3 actually specifies (64 KiB default
// block, vs. the teacher's 16 MiB "global arena" — that file sized whole
// mmap'd program arenas, not the bump-allocator chunks this package manages).
const (
	// DefaultBlockSize is the backing block capacity (spec.md §3).
	DefaultBlockSize = 64 * 1024

	// DefaultCompactThreshold is the fragmentation ratio that triggers
	// compaction (spec.md §4.5, "default 0.5").
	DefaultCompactThreshold = 0.5

	// DefaultGCInterval is the cleaner's sleep interval (spec.md §4.4).
	DefaultGCInterval = 10 * time.Millisecond

	// DefaultCompactInterval is the compactor's sleep interval (spec.md §4.5).
	DefaultCompactInterval = 100 * time.Millisecond

	// DefaultFlushCap bounds gc_flush (spec.md §6).
	DefaultFlushCap = 500 * time.Millisecond

	// MaxArenaSnapshot bounds one BFS tree walk (spec.md §4.4).
	MaxArenaSnapshot = 64

	// InitialTableCapacity is the handle table's starting size (spec.md §4.2).
	InitialTableCapacity = 256

	// InternCacheSize bounds the InternConstant cache (arena/intern.go).
	InternCacheSize = 4096

	// MaxInternableLen is the longest string InternConstant will try to
	// dedupe; longer strings are not worth hashing and comparing.
	MaxInternableLen = 64
)

// Config tunes one root arena and its GC threads. The zero value is not
// meaningful on its own — use DefaultConfig() or LoadConfig() to get sane
// defaults, then override individual fields.
type Config struct {
	BlockSize         int
	CompactThreshold  float64
	GCInterval        time.Duration
	CompactInterval   time.Duration
	FlushCap          time.Duration
	InternStrings     bool
	Logger            logrus.FieldLogger
	RegisterCollector bool // expose diagnostics via a prometheus.Collector
}

// DefaultConfig returns the spec.md-mandated defaults.
func DefaultConfig() Config {
	return Config{
		BlockSize:        DefaultBlockSize,
		CompactThreshold: DefaultCompactThreshold,
		GCInterval:       DefaultGCInterval,
		CompactInterval:  DefaultCompactInterval,
		FlushCap:         DefaultFlushCap,
		InternStrings:    true,
	}
}

// EnvConfig reads the single-value tunables directly from the environment
// using the teacher's own dependency (github.com/xyproto/env/v2), matching
// its minimalist style: one function call per variable, no schema. This is
// the cheap path for embedders that just want VARENA_BLOCK_SIZE and friends
// without pulling in viper's layered config.
func EnvConfig() Config {
	cfg := DefaultConfig()
	cfg.BlockSize = env.Int("VARENA_BLOCK_SIZE", cfg.BlockSize)
	cfg.CompactThreshold = envFloat("VARENA_COMPACT_THRESHOLD", cfg.CompactThreshold)
	cfg.GCInterval = envDuration("VARENA_GC_INTERVAL_MS", cfg.GCInterval)
	cfg.CompactInterval = envDuration("VARENA_COMPACT_INTERVAL_MS", cfg.CompactInterval)
	cfg.InternStrings = env.Bool("VARENA_INTERN_STRINGS", cfg.InternStrings)
	return cfg
}

func envFloat(key string, fallback float64) float64 {
	s := env.Str(key, "")
	if s == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envDuration(key string, fallback time.Duration) time.Duration {
	ms := env.Int(key, -1)
	if ms < 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

// LoadConfig layers viper (env vars under the VARENA_ prefix, plus an
// optional YAML/TOML/JSON file at configPath) over DefaultConfig. This is
// the richer alternative to EnvConfig for embedders that already centralize
// configuration through viper — grounded on alex60217101990-opa's own use of
// viper for exactly this kind of env+file+default layering.
func LoadConfig(configPath string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix("VARENA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("block_size", cfg.BlockSize)
	v.SetDefault("compact_threshold", cfg.CompactThreshold)
	v.SetDefault("gc_interval_ms", int(cfg.GCInterval/time.Millisecond))
	v.SetDefault("compact_interval_ms", int(cfg.CompactInterval/time.Millisecond))
	v.SetDefault("intern_strings", cfg.InternStrings)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return cfg, err
		}
	}

	cfg.BlockSize = v.GetInt("block_size")
	cfg.CompactThreshold = v.GetFloat64("compact_threshold")
	cfg.GCInterval = time.Duration(v.GetInt("gc_interval_ms")) * time.Millisecond
	cfg.CompactInterval = time.Duration(v.GetInt("compact_interval_ms")) * time.Millisecond
	cfg.InternStrings = v.GetBool("intern_strings")
	return cfg, nil
}
