// Package pipeline is the crawl's coordinator: a pool of goroutines pulling
// work from a shared frontier.Frontier, each carrying one URL through
// robots check, fetch, content filter, and indexing independently. Running
// these stages concurrently rather than as one synchronous loop keeps one
// slow host from stalling fetches to every other host, and gives
// cancellation a natural place to land: each worker checks ctx between
// URLs instead of only at the loop's top.
package pipeline

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rohmanhakim/vertexcrawl/internal/config"
	"github.com/rohmanhakim/vertexcrawl/internal/contentfilter"
	"github.com/rohmanhakim/vertexcrawl/internal/fetcher"
	"github.com/rohmanhakim/vertexcrawl/internal/frontier"
	"github.com/rohmanhakim/vertexcrawl/internal/indexer"
	"github.com/rohmanhakim/vertexcrawl/internal/metadata"
	"github.com/rohmanhakim/vertexcrawl/internal/robots"
	"github.com/rohmanhakim/vertexcrawl/internal/stats"
	"github.com/rohmanhakim/vertexcrawl/internal/storage"
	"github.com/rohmanhakim/vertexcrawl/pkg/limiter"
	"github.com/rohmanhakim/vertexcrawl/pkg/urlutil"
)

// idlePollInterval is how often an idle worker rechecks the frontier
// before deciding the crawl is quiescent. Kept short enough that shutdown
// latency never dominates a short crawl's total run time.
const idlePollInterval = 20 * time.Millisecond

// RobotsChecker is the boundary the pipeline calls through for admission
// decisions — robots.Fetcher satisfies it; tests substitute a stub that
// never touches the network.
type RobotsChecker interface {
	Allowed(ctx context.Context, u url.URL) (robots.Decision, time.Duration, error)
}

type Coordinator struct {
	cfg         config.Config
	frontier    *frontier.Frontier
	robots      RobotsChecker
	fetch       fetcher.Fetcher
	rateLimiter limiter.RateLimiter
	indexer     *indexer.Indexer
	sink        storage.Sink
	metaSink    metadata.MetadataSink
	finalizer   metadata.CrawlFinalizer

	pagesIndexed atomic.Int64
	errorsTotal  atomic.Int64
}

func NewCoordinator(
	cfg config.Config,
	fr *frontier.Frontier,
	rf RobotsChecker,
	fe fetcher.Fetcher,
	rl limiter.RateLimiter,
	ix *indexer.Indexer,
	sink storage.Sink,
	metaSink metadata.MetadataSink,
	finalizer metadata.CrawlFinalizer,
) *Coordinator {
	return &Coordinator{
		cfg:         cfg,
		frontier:    fr,
		robots:      rf,
		fetch:       fe,
		rateLimiter: rl,
		indexer:     ix,
		sink:        sink,
		metaSink:    metaSink,
		finalizer:   finalizer,
	}
}

// Run seeds the frontier, starts MaxConcurrent workers, waits for
// quiescence (or ctx cancellation), rebuilds IDF once crawling has
// genuinely stopped, and reports final stats through the CrawlFinalizer.
func (c *Coordinator) Run(ctx context.Context) error {
	start := time.Now()
	for _, seed := range c.cfg.SeedURLs() {
		c.frontier.Push(frontier.QueueEntry{URL: urlutil.Canonicalize(seed), Depth: 0})
	}

	var wg sync.WaitGroup
	var activeWorkers atomic.Int32
	concurrency := c.cfg.MaxConcurrent()
	if concurrency < 1 {
		concurrency = 1
	}

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.workerLoop(ctx, &activeWorkers)
		}()
	}
	wg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := stats.RebuildIDF(c.sink, 512); err != nil {
		return err
	}

	docCount, _ := c.sink.DocumentCount()
	if c.finalizer != nil {
		c.finalizer.RecordFinalCrawlStats(metadata.CrawlStats{
			TotalPages:  docCount,
			TotalErrors: int(c.errorsTotal.Load()),
			Duration:    time.Since(start),
		})
	}
	return nil
}

// workerLoop pops and processes URLs until the frontier is quiescent or
// ctx is canceled. "Quiescent" means to_crawl is empty AND no worker
// anywhere is mid-flight — checked only once this worker itself has
// nothing to do, so a worker never declares the crawl finished while its
// peers might still discover more links.
func (c *Coordinator) workerLoop(ctx context.Context, activeWorkers *atomic.Int32) {
	for {
		if ctx.Err() != nil {
			return
		}
		entry, ok := c.frontier.Pop()
		if !ok {
			if activeWorkers.Load() == 0 && c.frontier.IsQuiescent() {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(idlePollInterval):
				continue
			}
		}

		activeWorkers.Add(1)
		c.process(ctx, entry)
		activeWorkers.Add(-1)
	}
}

func (c *Coordinator) process(ctx context.Context, entry frontier.QueueEntry) {
	success := false
	defer func() { c.frontier.Complete(entry.URL, success) }()

	decision, crawlDelay, err := c.robots.Allowed(ctx, entry.URL)
	_ = err // Allowed already fails open; a non-nil err never reaches here.
	if decision == robots.DecisionDisallow {
		c.recordEvent("pipeline", "robots_disallow", entry.URL)
		return
	}
	if crawlDelay > 0 && c.rateLimiter != nil {
		c.rateLimiter.SetCrawlDelay(entry.URL.Hostname(), crawlDelay)
	}

	result, classifiedErr := c.fetch.Fetch(ctx, fetcherParam(entry.URL, c.cfg))
	if classifiedErr != nil {
		c.errorsTotal.Add(1)
		c.recordError("fetcher", classifiedErr, entry.URL)
		return
	}

	doc, err := contentfilter.Parse(result.Body, result.FinalURL)
	if err != nil {
		c.errorsTotal.Add(1)
		c.recordEvent("contentfilter", "parse_failed", entry.URL)
		return
	}

	verdict := contentfilter.Evaluate(doc, contentfilter.Options{
		AllowedLanguages: c.cfg.AllowedLanguages(),
		RequiredKeywords: c.cfg.RequiredKeywords(),
	})
	if !verdict.Admit {
		c.recordEvent("contentfilter", "rejected:"+verdict.Reason, entry.URL)
		return
	}

	if _, err := c.indexer.Index(doc, result.Body, result.FetchedAt); err != nil {
		c.errorsTotal.Add(1)
		c.recordEvent("indexer", "index_failed", entry.URL)
		return
	}
	c.pagesIndexed.Add(1)
	success = true

	if entry.Depth < c.cfg.MaxDepth() {
		c.enqueueLinks(doc.Links, entry.Depth+1, entry.URL)
	}
}

func (c *Coordinator) enqueueLinks(links []url.URL, depth int, source url.URL) {
	for _, link := range links {
		if urlutil.ContainsDomain(link.String(), c.cfg.DomainBlocklist()) {
			c.frontier.Ignore(link)
			continue
		}
		c.frontier.Push(frontier.QueueEntry{
			URL:        link,
			Depth:      depth,
			SourceHost: source.Hostname(),
		})
	}
}

func fetcherParam(u url.URL, cfg config.Config) fetcher.FetchParam {
	return fetcher.FetchParam{URL: u, Timeout: cfg.TotalTimeout()}
}

func (c *Coordinator) recordEvent(pkg, action string, u url.URL) {
	if c.metaSink == nil {
		return
	}
	c.metaSink.RecordEvent(pkg, action, []metadata.Attribute{metadata.NewAttr(metadata.AttrURL, u.String())})
}

func (c *Coordinator) recordError(pkg string, err error, u url.URL) {
	if c.metaSink == nil {
		return
	}
	c.metaSink.RecordError(time.Now(), pkg, "fetch", metadata.CauseNetworkFailure, err.Error(),
		[]metadata.Attribute{metadata.NewAttr(metadata.AttrURL, u.String())})
}
