// Package metadata is the crawl's structured-logging boundary. Every stage
// reports through a MetadataSink instead of calling fmt/log directly, so
// crawl behavior never depends on what gets logged.
package metadata

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// ErrorCause is a closed, canonical classification used exclusively for
// observability. It must never be used to derive retry, continuation, or
// abort decisions — those are pkg/failure.Severity's job.
type ErrorCause int

const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CausePolicyDisallow
	CauseContentInvalid
	CauseStorageFailure
	CauseInvariantViolation
)

func (c ErrorCause) String() string {
	switch c {
	case CauseNetworkFailure:
		return "network_failure"
	case CausePolicyDisallow:
		return "policy_disallow"
	case CauseContentInvalid:
		return "content_invalid"
	case CauseStorageFailure:
		return "storage_failure"
	case CauseInvariantViolation:
		return "invariant_violation"
	default:
		return "unknown"
	}
}

type AttributeKey string

const (
	AttrURL        AttributeKey = "url"
	AttrHost       AttributeKey = "host"
	AttrPath       AttributeKey = "path"
	AttrDepth      AttributeKey = "depth"
	AttrField      AttributeKey = "field"
	AttrHTTPStatus AttributeKey = "http_status"
	AttrMessage    AttributeKey = "message"
	AttrTermID     AttributeKey = "term_id"
	AttrDocID      AttributeKey = "doc_id"
)

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

type ArtifactKind string

const (
	ArtifactRawBlob  ArtifactKind = "raw_blob"
	ArtifactDocument ArtifactKind = "document"
)

// ErrorRecord is an observational record of a per-URL or per-stage failure.
type ErrorRecord struct {
	PackageName string
	Action      string
	Cause       ErrorCause
	ErrorString string
	ObservedAt  time.Time
	Attrs       []Attribute
}

// CrawlStats is the terminal, derived summary of a completed crawl.
// Constructed once, by the pipeline coordinator, after the end-of-run
// barrier; never read back to influence scheduling.
type CrawlStats struct {
	TotalPages  int
	TotalErrors int
	TotalTerms  int
	Duration    time.Duration
}

// MetadataSink is the observability boundary every stage writes through.
type MetadataSink interface {
	RecordError(observedAt time.Time, packageName, action string, cause ErrorCause, errString string, attrs []Attribute)
	RecordArtifact(kind ArtifactKind, key string, attrs []Attribute)
	RecordEvent(packageName, action string, attrs []Attribute)
}

// CrawlFinalizer receives exactly one terminal stats record per run.
type CrawlFinalizer interface {
	RecordFinalCrawlStats(stats CrawlStats)
}

// Recorder is the default MetadataSink/CrawlFinalizer: it writes structured
// lines to the standard logger. A production deployment would swap this
// for a sink that ships to the analytical store's own logging table; the
// interfaces above are the seam.
type Recorder struct {
	mu     sync.Mutex
	crawlID string
	logger *log.Logger
}

func NewRecorder(crawlID string) *Recorder {
	return &Recorder{crawlID: crawlID, logger: log.Default()}
}

func (r *Recorder) RecordError(observedAt time.Time, packageName, action string, cause ErrorCause, errString string, attrs []Attribute) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger.Printf("crawl=%s level=error pkg=%s action=%s cause=%s err=%q %s",
		r.crawlID, packageName, action, cause, errString, formatAttrs(attrs))
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, key string, attrs []Attribute) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger.Printf("crawl=%s level=artifact kind=%s key=%s %s", r.crawlID, kind, key, formatAttrs(attrs))
}

func (r *Recorder) RecordEvent(packageName, action string, attrs []Attribute) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger.Printf("crawl=%s level=info pkg=%s action=%s %s", r.crawlID, packageName, action, formatAttrs(attrs))
}

func (r *Recorder) RecordFinalCrawlStats(stats CrawlStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger.Printf("crawl=%s level=stats pages=%d errors=%d terms=%d duration=%s",
		r.crawlID, stats.TotalPages, stats.TotalErrors, stats.TotalTerms, stats.Duration)
}

func formatAttrs(attrs []Attribute) string {
	out := ""
	for _, a := range attrs {
		out += fmt.Sprintf("%s=%q ", a.Key, a.Value)
	}
	return out
}
