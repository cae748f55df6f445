package model

import "time"

// Config is the full application configuration. Matcher weights and risk
// thresholds are data, not code, so the heuristics can be tuned or replaced
// without touching the assessment logic.
type Config struct {
	Dataset     DatasetConfig     `yaml:"dataset"`
	Ingest      IngestConfig      `yaml:"ingest"`
	Extractor   ExtractorConfig   `yaml:"extractor"`
	Matcher     MatcherConfig     `yaml:"matcher"`
	Cache       CacheConfig       `yaml:"cache"`
	Server      ServerConfig      `yaml:"server"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// DatasetConfig locates the compliance dataset
type DatasetConfig struct {
	Path string `yaml:"path"`
}

// IngestConfig controls fetching of regulatory documents by URL
type IngestConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy"`  // overrides HTTP_PROXY env var
	HTTPSProxy   string        `yaml:"https_proxy"` // overrides HTTPS_PROXY env var
}

// ExtractorConfig bounds the obligation extractor
type ExtractorConfig struct {
	MaxObligations    int `yaml:"max_obligations"`     // hard cap on obligations per requirement
	MinFragmentLength int `yaml:"min_fragment_length"` // numbered fragments shorter than this are noise
	FallbackMinLength int `yaml:"fallback_min_length"` // raw text must exceed this for the general fallback
}

// SemanticCategory is one row of the keyword matching table: if the
// obligation text matches any pattern, every keyword found in the rule text
// adds the category weight to the match score.
type SemanticCategory struct {
	Name     string   `yaml:"name"`     // human-readable label shown in match reasoning
	Patterns []string `yaml:"patterns"` // lowercase substrings tested against obligation text
	Keywords []string `yaml:"keywords"` // lowercase substrings tested against rule text
	Weight   float64  `yaml:"weight"`
}

// MatcherConfig holds the semantic category table and coverage thresholds
type MatcherConfig struct {
	Categories      []SemanticCategory `yaml:"categories"`
	HighThreshold   float64            `yaml:"high_threshold"`
	MediumThreshold float64            `yaml:"medium_threshold"`
	LowThreshold    float64            `yaml:"low_threshold"`
	ConfidenceCap   float64            `yaml:"confidence_cap"`
}

// CacheConfig controls the analysis memoization layer
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"` // disk layer location, empty disables disk layer
	TTL     time.Duration `yaml:"ttl"`
}

// ServerConfig controls the HTTP service
type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	RequestsPerSecond float64       `yaml:"requests_per_second"` // per client
	Burst             int           `yaml:"burst"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
}

// ConcurrencyConfig bounds bulk analysis fan-out
type ConcurrencyConfig struct {
	AnalysisWorkers int `yaml:"analysis_workers"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns the built-in configuration, including the standard
// semantic category table for AML transaction monitoring.
func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Path: "dataset.yaml",
		},
		Ingest: IngestConfig{
			Timeout:      2 * time.Minute,
			UserAgent:    "ComplianceHub/0.1 (+https://github.com/fortify-solutions/compliance-hub)",
			MaxBodyBytes: 2_000_000,
		},
		Extractor: ExtractorConfig{
			MaxObligations:    8,
			MinFragmentLength: 10,
			FallbackMinLength: 200,
		},
		Matcher: MatcherConfig{
			Categories:      DefaultCategories(),
			HighThreshold:   0.7,
			MediumThreshold: 0.4,
			LowThreshold:    0.2,
			ConfidenceCap:   0.95,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     1 * time.Hour,
		},
		Server: ServerConfig{
			Addr:              ":8080",
			RequestsPerSecond: 10,
			Burst:             20,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
		Concurrency: ConcurrencyConfig{
			AnalysisWorkers: 8,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}

// DefaultCategories returns the standard semantic category table. Weights
// are calibrated so that a single strong category match (e.g. a cash rule
// against a cash obligation) lands in the "high" coverage band.
func DefaultCategories() []SemanticCategory {
	return []SemanticCategory{
		{
			Name:     "cash transaction monitoring",
			Patterns: []string{"cash", "deposit", "currency"},
			Keywords: []string{"cash", "deposit", "currency", "ctr"},
			Weight:   0.8,
		},
		{
			Name:     "wire transfer monitoring",
			Patterns: []string{"wire", "transfer", "remittance"},
			Keywords: []string{"wire", "transfer", "swift", "remittance"},
			Weight:   0.7,
		},
		{
			Name:     "velocity and pattern detection",
			Patterns: []string{"velocity", "pattern", "frequency", "rapid", "anomal"},
			Keywords: []string{"velocity", "pattern", "frequency", "rapid", "anomaly", "unusual"},
			Weight:   0.6,
		},
		{
			Name:     "business activity ratio analysis",
			Patterns: []string{"business", "ratio", "turnover", "revenue"},
			Keywords: []string{"business", "ratio", "turnover", "revenue", "commercial"},
			Weight:   0.5,
		},
		{
			Name:     "cross-border monitoring",
			Patterns: []string{"cross-border", "international", "foreign", "overseas"},
			Keywords: []string{"cross-border", "international", "foreign", "correspondent", "jurisdiction"},
			Weight:   0.7,
		},
		{
			Name:     "threshold-based detection",
			Patterns: []string{"$", "threshold", "exceed", "above"},
			Keywords: []string{"threshold", "amount", "limit", "aggregate"},
			Weight:   0.4,
		},
		{
			Name:     "real-time screening",
			Patterns: []string{"real-time", "real time", "immediately", "within 24"},
			Keywords: []string{"real-time", "real time", "screening", "immediate"},
			Weight:   0.5,
		},
	}
}
