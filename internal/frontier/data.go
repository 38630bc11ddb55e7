package frontier

import (
	"net/url"
	"time"
)

// QueueEntry is one URL awaiting a fetch, carrying the admission context the
// pipeline needs downstream: depth for the max-depth cutoff, plus the
// discovering host and discovery time. Snapshots keep queue order and do
// not record the discovery time.
type QueueEntry struct {
	URL          url.URL
	Depth        int
	SourceHost   string
	DiscoveredAt time.Time
}

// snapshotDTO is the frontier's durable-resume on-disk shape: to_crawl
// holds the still-pending queue, ignore_links holds URLs
// the admission policy rejected (so a restored crawl does not re-evaluate
// them), found_links holds every URL the frontier has ever admitted,
// in-flight or completed, so seeds already fetched are never re-queued.
// All three fields are plain string arrays so a snapshot written by any
// prior version of the frontier can still be restored.
type snapshotDTO struct {
	ToCrawl     []string `json:"to_crawl"`
	IgnoreLinks []string `json:"ignore_links"`
	FoundLinks  []string `json:"found_links"`
}
