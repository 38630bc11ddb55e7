// Package config is the crawl+index+rank configuration surface, built as an
// immutable value through a functional-options chain
// (WithDefault(...).With*(...).Build()). It covers admission/ranking knobs
// alongside the crawl basics: domain/extension blocklists, language
// allowlist, required keywords, BM25 parameters, and query-expansion
// parameters.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"
)

type Config struct {
	// Crawl scope
	seedURLs []url.URL
	maxDepth int
	maxPages int

	// Politeness / concurrency
	maxConcurrent      int
	baseDelay          time.Duration
	jitter             time.Duration
	randomSeed         int64
	maxRetries         int
	retryDelay         time.Duration
	backoffMultiplier  float64
	backoffMaxDuration time.Duration

	// Fetch
	connectTimeout time.Duration
	readTimeout    time.Duration
	totalTimeout   time.Duration
	userAgents     []string

	// Content filter / admission
	domainBlocklist    []string
	extensionBlocklist []string
	allowedLanguages   map[string]struct{}
	requiredKeywords   []string

	// Persistence
	snapshotPath     string
	snapshotInterval time.Duration
	rawBlobDir       string
	compressionLevel int
	shutdownGrace    time.Duration

	// Ranking
	bm25K1                  float64
	bm25B                   float64
	expansionBaseN          int
	expansionDecayRate      float64
	expansionSimilarityMin  float64
	expansionQueryLenCutoff int
}

// WithDefault seeds a builder with the crawl's default tuning: 5s
// connect/read, 10s total fetch budget; max_retries=3, retry_delay=1s;
// max_concurrent=10; BM25 k1=1.5 b=0.75; expansion n=7 decaying past 7
// query terms; similarity cutoff 0.7.
func WithDefault(seedURLs []url.URL) *Config {
	return &Config{
		seedURLs: seedURLs,
		maxDepth: 5,
		maxPages: 100,

		maxConcurrent:      10,
		baseDelay:          time.Second,
		jitter:             500 * time.Millisecond,
		randomSeed:         1,
		maxRetries:         3,
		retryDelay:         time.Second,
		backoffMultiplier:  2.0,
		backoffMaxDuration: 30 * time.Second,

		connectTimeout: 5 * time.Second,
		readTimeout:    5 * time.Second,
		totalTimeout:   10 * time.Second,
		userAgents: []string{
			"vertexcrawl/1.0 (+https://example.invalid/bot)",
		},

		domainBlocklist:    []string{},
		extensionBlocklist: []string{},
		allowedLanguages:   map[string]struct{}{"en": {}, "en-us": {}, "en-gb": {}},
		requiredKeywords:   []string{},

		snapshotPath:     "crawler_states/global.json",
		snapshotInterval: 30 * time.Second,
		rawBlobDir:       "crawler_states/blobs",
		compressionLevel: 3,
		shutdownGrace:    5 * time.Second,

		bm25K1:                  1.5,
		bm25B:                   0.75,
		expansionBaseN:          7,
		expansionDecayRate:      0.08,
		expansionSimilarityMin:  0.7,
		expansionQueryLenCutoff: 7,
	}
}

func (c *Config) WithMaxDepth(d int) *Config { c.maxDepth = d; return c }
func (c *Config) WithMaxPages(p int) *Config { c.maxPages = p; return c }
func (c *Config) WithMaxConcurrent(n int) *Config { c.maxConcurrent = n; return c }
func (c *Config) WithBaseDelay(d time.Duration) *Config { c.baseDelay = d; return c }
func (c *Config) WithJitter(d time.Duration) *Config { c.jitter = d; return c }
func (c *Config) WithRandomSeed(s int64) *Config { c.randomSeed = s; return c }
func (c *Config) WithMaxRetries(n int) *Config { c.maxRetries = n; return c }
func (c *Config) WithRetryDelay(d time.Duration) *Config { c.retryDelay = d; return c }
func (c *Config) WithConnectTimeout(d time.Duration) *Config { c.connectTimeout = d; return c }
func (c *Config) WithReadTimeout(d time.Duration) *Config { c.readTimeout = d; return c }
func (c *Config) WithTotalTimeout(d time.Duration) *Config { c.totalTimeout = d; return c }
func (c *Config) WithUserAgents(ua []string) *Config { c.userAgents = ua; return c }
func (c *Config) WithDomainBlocklist(v []string) *Config { c.domainBlocklist = v; return c }
func (c *Config) WithExtensionBlocklist(v []string) *Config { c.extensionBlocklist = v; return c }
func (c *Config) WithRequiredKeywords(v []string) *Config { c.requiredKeywords = v; return c }
func (c *Config) WithSnapshotPath(p string) *Config { c.snapshotPath = p; return c }
func (c *Config) WithSnapshotInterval(d time.Duration) *Config { c.snapshotInterval = d; return c }
func (c *Config) WithRawBlobDir(p string) *Config { c.rawBlobDir = p; return c }
func (c *Config) WithShutdownGrace(d time.Duration) *Config { c.shutdownGrace = d; return c }
func (c *Config) WithBM25Params(k1, b float64) *Config { c.bm25K1, c.bm25B = k1, b; return c }

func (c *Config) WithAllowedLanguages(codes []string) *Config {
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	c.allowedLanguages = set
	return c
}

func (c *Config) Build() (Config, error) {
	if len(c.seedURLs) == 0 {
		return Config{}, fmt.Errorf("%w: seedURLs cannot be empty", ErrInvalidConfig)
	}
	return *c, nil
}

// configDTO is the JSON-loadable mirror of Config, for WithConfigFile.
type configDTO struct {
	SeedURLs           []string `json:"seedUrls"`
	MaxDepth           int      `json:"maxDepth,omitempty"`
	MaxPages           int      `json:"maxPages,omitempty"`
	MaxConcurrent      int      `json:"maxConcurrent,omitempty"`
	BaseDelayMs        int64    `json:"baseDelayMs,omitempty"`
	JitterMs           int64    `json:"jitterMs,omitempty"`
	RandomSeed         int64    `json:"randomSeed,omitempty"`
	MaxRetries         int      `json:"maxRetries,omitempty"`
	RetryDelayMs       int64    `json:"retryDelayMs,omitempty"`
	DomainBlocklist    []string `json:"domainBlocklist,omitempty"`
	ExtensionBlocklist []string `json:"extensionBlocklist,omitempty"`
	AllowedLanguages   []string `json:"allowedLanguages,omitempty"`
	RequiredKeywords   []string `json:"requiredKeywords,omitempty"`
	SnapshotPath       string   `json:"snapshotPath,omitempty"`
	RawBlobDir         string   `json:"rawBlobDir,omitempty"`
}

func WithConfigFile(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err)
	}
	var dto configDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err)
	}
	if len(dto.SeedURLs) == 0 {
		return Config{}, fmt.Errorf("%w: seedUrls cannot be empty", ErrInvalidConfig)
	}
	seeds := make([]url.URL, 0, len(dto.SeedURLs))
	for _, raw := range dto.SeedURLs {
		u, err := url.Parse(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%w: invalid seed URL %q: %s", ErrConfigParsingFail, raw, err)
		}
		seeds = append(seeds, *u)
	}

	builder := WithDefault(seeds)
	if dto.MaxDepth != 0 {
		builder.WithMaxDepth(dto.MaxDepth)
	}
	if dto.MaxPages != 0 {
		builder.WithMaxPages(dto.MaxPages)
	}
	if dto.MaxConcurrent != 0 {
		builder.WithMaxConcurrent(dto.MaxConcurrent)
	}
	if dto.BaseDelayMs != 0 {
		builder.WithBaseDelay(time.Duration(dto.BaseDelayMs) * time.Millisecond)
	}
	if dto.JitterMs != 0 {
		builder.WithJitter(time.Duration(dto.JitterMs) * time.Millisecond)
	}
	if dto.RandomSeed != 0 {
		builder.WithRandomSeed(dto.RandomSeed)
	}
	if dto.MaxRetries != 0 {
		builder.WithMaxRetries(dto.MaxRetries)
	}
	if dto.RetryDelayMs != 0 {
		builder.WithRetryDelay(time.Duration(dto.RetryDelayMs) * time.Millisecond)
	}
	if len(dto.DomainBlocklist) > 0 {
		builder.WithDomainBlocklist(dto.DomainBlocklist)
	}
	if len(dto.ExtensionBlocklist) > 0 {
		builder.WithExtensionBlocklist(dto.ExtensionBlocklist)
	}
	if len(dto.AllowedLanguages) > 0 {
		builder.WithAllowedLanguages(dto.AllowedLanguages)
	}
	if len(dto.RequiredKeywords) > 0 {
		builder.WithRequiredKeywords(dto.RequiredKeywords)
	}
	if dto.SnapshotPath != "" {
		builder.WithSnapshotPath(dto.SnapshotPath)
	}
	if dto.RawBlobDir != "" {
		builder.WithRawBlobDir(dto.RawBlobDir)
	}
	return builder.Build()
}

// Accessors — Config is passed by value everywhere downstream, so every
// getter returns a defensive copy of any reference-typed field.

func (c Config) SeedURLs() []url.URL {
	out := make([]url.URL, len(c.seedURLs))
	copy(out, c.seedURLs)
	return out
}
func (c Config) MaxDepth() int { return c.maxDepth }
func (c Config) MaxPages() int { return c.maxPages }
func (c Config) MaxConcurrent() int { return c.maxConcurrent }
func (c Config) BaseDelay() time.Duration { return c.baseDelay }
func (c Config) Jitter() time.Duration { return c.jitter }
func (c Config) RandomSeed() int64 { return c.randomSeed }
func (c Config) MaxRetries() int { return c.maxRetries }
func (c Config) RetryDelay() time.Duration { return c.retryDelay }
func (c Config) BackoffMultiplier() float64 { return c.backoffMultiplier }
func (c Config) BackoffMaxDuration() time.Duration { return c.backoffMaxDuration }
func (c Config) ConnectTimeout() time.Duration { return c.connectTimeout }
func (c Config) ReadTimeout() time.Duration { return c.readTimeout }
func (c Config) TotalTimeout() time.Duration { return c.totalTimeout }
func (c Config) UserAgents() []string {
	out := make([]string, len(c.userAgents))
	copy(out, c.userAgents)
	return out
}
func (c Config) DomainBlocklist() []string {
	out := make([]string, len(c.domainBlocklist))
	copy(out, c.domainBlocklist)
	return out
}
func (c Config) ExtensionBlocklist() []string {
	out := make([]string, len(c.extensionBlocklist))
	copy(out, c.extensionBlocklist)
	return out
}
func (c Config) AllowedLanguages() map[string]struct{} {
	out := make(map[string]struct{}, len(c.allowedLanguages))
	for k, v := range c.allowedLanguages {
		out[k] = v
	}
	return out
}
func (c Config) RequiredKeywords() []string {
	out := make([]string, len(c.requiredKeywords))
	copy(out, c.requiredKeywords)
	return out
}
func (c Config) SnapshotPath() string { return c.snapshotPath }
func (c Config) SnapshotInterval() time.Duration { return c.snapshotInterval }
func (c Config) RawBlobDir() string { return c.rawBlobDir }
func (c Config) CompressionLevel() int { return c.compressionLevel }
func (c Config) ShutdownGrace() time.Duration { return c.shutdownGrace }
func (c Config) BM25K1() float64 { return c.bm25K1 }
func (c Config) BM25B() float64 { return c.bm25B }
func (c Config) ExpansionBaseN() int { return c.expansionBaseN }
func (c Config) ExpansionDecayRate() float64 { return c.expansionDecayRate }
func (c Config) ExpansionSimilarityMin() float64 { return c.expansionSimilarityMin }
func (c Config) ExpansionQueryLenCutoff() int { return c.expansionQueryLenCutoff }
