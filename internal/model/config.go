package model

import "time"

// Config is the full runtime configuration, assembled from defaults, the
// config file (~/.km/config.yaml), KM_* environment variables and CLI flags.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
	Extraction  ExtractionConfig  `yaml:"extraction" mapstructure:"extraction"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
}

// HTTPConfig controls the harvester's HTTP client.
type HTTPConfig struct {
	BaseURL      string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// CacheConfig controls response caching for harvest re-runs.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig sets worker counts for harvesting and batch enrichment.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitConfig throttles requests against the archive host.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
	RespectRobots     bool    `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// EstimationBucket maps catalogue ids below MaxID to a coarse decade
// estimate. Buckets are evaluated in order; the last bucket should have
// MaxID 0, meaning "everything else".
type EstimationBucket struct {
	MaxID int `yaml:"max_id" mapstructure:"max_id"`
	Year  int `yaml:"year" mapstructure:"year"`
}

// ExtractionConfig holds the corpus-specific calibration of the rule engine.
// These are tuning values for one archive's conventions, not general laws,
// which is why they live in configuration.
type ExtractionConfig struct {
	YearMin           int                `yaml:"year_min" mapstructure:"year_min"`
	YearMax           int                `yaml:"year_max" mapstructure:"year_max"`
	BirthYearMin      int                `yaml:"birth_year_min" mapstructure:"birth_year_min"`
	BirthYearMax      int                `yaml:"birth_year_max" mapstructure:"birth_year_max"`
	MinNameLength     int                `yaml:"min_name_length" mapstructure:"min_name_length"`
	EstimationBuckets []EstimationBucket `yaml:"estimation_buckets" mapstructure:"estimation_buckets"`
}

// OutputConfig controls CLI output behavior.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// LLMConfig configures the optional post-hoc report summary. Disabled unless
// a provider is set; never feeds back into extraction or scoring.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"`
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			BaseURL:      "https://gams.uni-graz.at",
			Timeout:      60 * time.Second,
			UserAgent:    "km-harvester/0.3 (+https://github.com/chpollin/km)",
			MaxBodyBytes: 20_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".km-cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 5,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             2,
			RespectRobots:     true,
		},
		Extraction: ExtractionConfig{
			YearMin:       1850,
			YearMax:       1950,
			BirthYearMin:  1800,
			BirthYearMax:  1950,
			MinNameLength: 4,
			EstimationBuckets: []EstimationBucket{
				{MaxID: 100, Year: 1900},
				{MaxID: 500, Year: 1910},
				{MaxID: 1000, Year: 1920},
				{MaxID: 0, Year: 1930},
			},
		},
		Output: OutputConfig{},
		LLM: LLMConfig{
			MaxTokens: 1000,
			Timeout:   30,
		},
	}
}
