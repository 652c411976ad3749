package model

import "fmt"

// Config is the full runtime configuration. Loaded from defaults, then the
// config file and CLAUSULA_ environment overrides, then command flags.
type Config struct {
	Retrieval   RetrievalConfig   `yaml:"retrieval" mapstructure:"retrieval"`
	Classifier  ClassifierConfig  `yaml:"classifier" mapstructure:"classifier"`
	Scoring     ScoringConfig     `yaml:"scoring" mapstructure:"scoring"`
	Inference   BackendConfig     `yaml:"inference" mapstructure:"inference"`
	Embedding   BackendConfig     `yaml:"embedding" mapstructure:"embedding"`
	Corpus      CorpusConfig      `yaml:"corpus" mapstructure:"corpus"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// RetrievalConfig tunes the knowledge retrieval pipeline
type RetrievalConfig struct {
	TopK                 int     `yaml:"top_k" mapstructure:"top_k"`                                   // Result length cap
	RerankCandidateCount int     `yaml:"rerank_candidate_count" mapstructure:"rerank_candidate_count"` // Candidates entering re-rank, >= TopK
	DenseWeight          float64 `yaml:"dense_weight" mapstructure:"dense_weight"`                     // Embedding similarity weight
	SparseWeight         float64 `yaml:"sparse_weight" mapstructure:"sparse_weight"`                   // Lexical overlap weight
	MaxExpansions        int     `yaml:"max_expansions" mapstructure:"max_expansions"`                 // Expanded queries per retrieval, original included
	CitationFloor        float64 `yaml:"citation_floor" mapstructure:"citation_floor"`                 // Minimum relevance to attach a citation to a rule finding
}

// ClassifierConfig tunes document-type classification
type ClassifierConfig struct {
	ConfidenceThreshold float64 `yaml:"confidence_threshold" mapstructure:"confidence_threshold"` // Margin below which the classifier returns unknown
}

// ScoringConfig carries the severity weight table
type ScoringConfig struct {
	SeverityWeights map[Severity]int `yaml:"severity_weights" mapstructure:"severity_weights"` // Signed deductions per rule-based issue
}

// BackendConfig describes one pluggable backend (inference or embedding)
type BackendConfig struct {
	Provider  string  `yaml:"provider" mapstructure:"provider"`           // "openai", "anthropic", "ollama", or "" for disabled
	Model     string  `yaml:"model" mapstructure:"model"`                 // Model name
	APIKey    string  `yaml:"-" mapstructure:"-"`                         // From environment only, never persisted
	BaseURL   string  `yaml:"base_url,omitempty" mapstructure:"base_url"` // Override endpoint (proxies, local gateways)
	TimeoutMs int     `yaml:"timeout_ms" mapstructure:"timeout_ms"`       // Per-call deadline in milliseconds
	MaxTokens int     `yaml:"max_tokens" mapstructure:"max_tokens"`       // Completion budget (inference only)
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`       // Calls per second, 0 = unlimited
}

// CorpusConfig locates the regulatory passage corpus
type CorpusConfig struct {
	DBPath   string `yaml:"db_path" mapstructure:"db_path"`               // SQLite corpus location
	SeedPath string `yaml:"seed_path,omitempty" mapstructure:"seed_path"` // Optional YAML seed override for kb build
}

// CacheConfig controls the embedding and retrieval caches
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Dir     string `yaml:"dir" mapstructure:"dir"`           // Disk cache directory
	TTLSecs int    `yaml:"ttl_secs" mapstructure:"ttl_secs"` // Entry lifetime
}

// ConcurrencyConfig bounds parallel work
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"` // Parallel documents in a batch
}

// LoggingConfig controls the structured logger
type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json" mapstructure:"json"`   // JSON output instead of text
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`         // Report output directory
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"` // Progress output on stderr
}

// DefaultSeverityWeights returns the standard deduction table
func DefaultSeverityWeights() map[Severity]int {
	return map[Severity]int{
		SeverityCritical: -15,
		SeverityHigh:     -5,
		SeverityMedium:   -2,
		SeverityLow:      -1,
		SeverityInfo:     0,
	}
}

// DefaultConfig returns the standard configuration
func DefaultConfig() *Config {
	return &Config{
		Retrieval: RetrievalConfig{
			TopK:                 5,
			RerankCandidateCount: 10,
			DenseWeight:          0.5,
			SparseWeight:         0.5,
			MaxExpansions:        4,
			CitationFloor:        0.35,
		},
		Classifier: ClassifierConfig{
			ConfidenceThreshold: 0.25,
		},
		Scoring: ScoringConfig{
			SeverityWeights: DefaultSeverityWeights(),
		},
		Inference: BackendConfig{
			Provider:  "",
			Model:     "gpt-4o-mini",
			TimeoutMs: 30000,
			MaxTokens: 1500,
			RateLimit: 2,
		},
		Embedding: BackendConfig{
			Provider:  "",
			Model:     "text-embedding-3-small",
			TimeoutMs: 15000,
			RateLimit: 5,
		},
		Corpus: CorpusConfig{
			DBPath: "clausula-corpus.db",
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "",
			TTLSecs: 86400,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Output: OutputConfig{
			Dir: "./clausula-reports",
		},
	}
}

// Validate checks weights and thresholds. Any violation is fatal at startup.
func (c *Config) Validate() error {
	if c.Retrieval.TopK < 1 {
		return fmt.Errorf("%w: retrieval.top_k must be >= 1, got %d", ErrConfiguration, c.Retrieval.TopK)
	}
	if c.Retrieval.RerankCandidateCount < c.Retrieval.TopK {
		return fmt.Errorf("%w: retrieval.rerank_candidate_count (%d) must be >= top_k (%d)",
			ErrConfiguration, c.Retrieval.RerankCandidateCount, c.Retrieval.TopK)
	}
	if c.Retrieval.DenseWeight < 0 || c.Retrieval.SparseWeight < 0 {
		return fmt.Errorf("%w: retrieval weights must be non-negative", ErrConfiguration)
	}
	if c.Retrieval.DenseWeight+c.Retrieval.SparseWeight == 0 {
		return fmt.Errorf("%w: at least one retrieval weight must be positive", ErrConfiguration)
	}
	if c.Retrieval.MaxExpansions < 1 {
		return fmt.Errorf("%w: retrieval.max_expansions must be >= 1, got %d", ErrConfiguration, c.Retrieval.MaxExpansions)
	}
	if c.Classifier.ConfidenceThreshold < 0 || c.Classifier.ConfidenceThreshold > 1 {
		return fmt.Errorf("%w: classifier.confidence_threshold must be in [0,1], got %v",
			ErrConfiguration, c.Classifier.ConfidenceThreshold)
	}
	if len(c.Scoring.SeverityWeights) == 0 {
		return fmt.Errorf("%w: scoring.severity_weights must not be empty", ErrConfiguration)
	}
	for sev, w := range c.Scoring.SeverityWeights {
		if _, ok := ParseSeverity(string(sev)); !ok {
			return fmt.Errorf("%w: unknown severity %q in scoring.severity_weights", ErrConfiguration, sev)
		}
		if w > 0 {
			return fmt.Errorf("%w: severity weight for %q must be <= 0, got %d", ErrConfiguration, sev, w)
		}
	}
	if c.Inference.TimeoutMs <= 0 || c.Embedding.TimeoutMs <= 0 {
		return fmt.Errorf("%w: backend timeout_ms must be positive", ErrConfiguration)
	}
	if c.Concurrency.Workers < 1 {
		return fmt.Errorf("%w: concurrency.workers must be >= 1, got %d", ErrConfiguration, c.Concurrency.Workers)
	}
	return nil
}
