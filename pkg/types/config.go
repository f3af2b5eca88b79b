package types

import (
	"time"
)

// Config holds all configuration for the search service.
type Config struct {
	// Server configuration
	Server ServerConfig `json:"server"`

	// Corpus store configuration (the demo/integration corpus provider)
	Corpus CorpusConfig `json:"corpus"`

	// Index configuration (field weights, tuning)
	Index IndexConfig `json:"index"`

	// Logging configuration
	Log LogConfig `json:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

// CorpusConfig holds the demo corpus store's configuration.
type CorpusConfig struct {
	DataDir    string `json:"data_dir"`
	SyncWrites bool   `json:"sync_writes"`
	CacheSize  int64  `json:"cache_size"` // Pebble cache size in bytes
}

// IndexConfig holds field-collection index tuning.
type IndexConfig struct {
	// FieldWeights maps field name to its multiplicative weight in the
	// composed score (spec.md 4.D). Copied into the field collection at
	// construction time; zero value means "use built-in defaults."
	FieldWeights map[string]float64 `json:"field_weights"`

	// PruneFraction is the fraction passed to Score.RemoveLowValues when
	// the search service prunes noise (spec.md 4.H step 5).
	PruneFraction float64 `json:"prune_fraction"`

	// DefaultPageSize records the configured page size. Search forms take
	// their page size from the DefaultPageSize constant and do not read
	// this field.
	DefaultPageSize int `json:"default_page_size"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Output string `json:"output"` // stdout, stderr, file path
}

// DefaultFieldWeights are the built-in per-field weights used when a
// config doesn't override them. Package name and description dominate;
// the readme and API-symbol corpora contribute but don't drown them out.
var DefaultFieldWeights = map[string]float64{
	"name":        1.0,
	"description": 0.8,
	"readme":      0.5,
	"api_symbols": 0.3,
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Corpus: CorpusConfig{
			DataDir:    "./data",
			SyncWrites: false,
			CacheSize:  64 << 20, // 64 MB
		},
		Index: IndexConfig{
			FieldWeights:    DefaultFieldWeights,
			PruneFraction:   0.01,
			DefaultPageSize: DefaultPageSize,
		},
		Log: LogConfig{
			Level:  "info",
			Output: "stdout",
		},
	}
}
