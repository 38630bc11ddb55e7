package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rohmanhakim/vertexcrawl/internal/config"
	"github.com/rohmanhakim/vertexcrawl/internal/fetcher"
	"github.com/rohmanhakim/vertexcrawl/internal/frontier"
	"github.com/rohmanhakim/vertexcrawl/internal/indexer"
	"github.com/rohmanhakim/vertexcrawl/internal/metadata"
	"github.com/rohmanhakim/vertexcrawl/internal/persister"
	"github.com/rohmanhakim/vertexcrawl/internal/pipeline"
	"github.com/rohmanhakim/vertexcrawl/internal/robots"
	"github.com/rohmanhakim/vertexcrawl/internal/storage/memstore"
	"github.com/rohmanhakim/vertexcrawl/pkg/limiter"
	"github.com/rohmanhakim/vertexcrawl/pkg/retry"
	"github.com/rohmanhakim/vertexcrawl/pkg/timeutil"
	"github.com/spf13/cobra"
)

func newCrawlCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl the given seed URLs and build a search index",
		RunE:  runCrawl,
	}
	cmd.Flags().StringSliceVar(&flagSeedURLs, "seed", nil, "seed URL (repeatable)")
	cmd.Flags().IntVar(&flagMaxDepth, "max-depth", 5, "maximum link-following depth")
	cmd.Flags().IntVar(&flagMaxPages, "max-pages", 100, "maximum pages to admit")
	cmd.Flags().IntVar(&flagMaxConcurrent, "max-concurrent", 10, "maximum outbound HTTP concurrency")
	cmd.Flags().StringVar(&flagIndexPath, "index", "crawler_states/index.json", "index snapshot path")
	cmd.Flags().StringVar(&flagSnapshotPath, "frontier-snapshot", "crawler_states/global.json", "frontier snapshot path")
	cmd.Flags().StringSliceVar(&flagLanguages, "allowed-languages", []string{"en"}, "allowed ISO-639-1 language codes")
	cmd.Flags().StringSliceVar(&flagKeywords, "required-keywords", nil, "at least one must appear in an admitted page")
	cmd.Flags().StringSliceVar(&flagDomainBlocklist, "block-domain", nil, "domain substring to reject (repeatable)")
	cmd.MarkFlagRequired("seed")
	return cmd
}

func runCrawl(cmd *cobra.Command, _ []string) error {
	if len(flagSeedURLs) == 0 {
		return fmt.Errorf("at least one --seed is required")
	}
	seeds := make([]url.URL, 0, len(flagSeedURLs))
	for _, raw := range flagSeedURLs {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid seed URL %q: %w", raw, err)
		}
		seeds = append(seeds, *u)
	}

	cfg, err := config.WithDefault(seeds).
		WithMaxDepth(flagMaxDepth).
		WithMaxPages(flagMaxPages).
		WithMaxConcurrent(flagMaxConcurrent).
		WithAllowedLanguages(flagLanguages).
		WithRequiredKeywords(flagKeywords).
		WithDomainBlocklist(flagDomainBlocklist).
		WithSnapshotPath(flagSnapshotPath).
		Build()
	if err != nil {
		return err
	}

	fr, restored, err := frontier.LoadSnapshot(cfg.SnapshotPath(), cfg.MaxPages())
	if err != nil {
		return err
	}
	if !restored {
		fr = frontier.New(uint(cfg.MaxPages()*4+1024), 0.01, cfg.MaxPages())
	}

	sink, restored, err := memstore.LoadSnapshot(flagIndexPath)
	if err != nil {
		return err
	}
	if !restored {
		sink = memstore.New()
	}

	httpClient := &http.Client{Timeout: cfg.TotalTimeout()}
	sem := limiter.NewSemaphore(cfg.MaxConcurrent())
	rateLimiter := limiter.NewConcurrentRateLimiter()
	rateLimiter.SetBaseDelay(cfg.BaseDelay())
	rateLimiter.SetJitter(cfg.Jitter())
	rateLimiter.SetRandomSeed(cfg.RandomSeed())

	retryParam := retry.NewRetryParam(cfg.RetryDelay(), cfg.Jitter(), cfg.RandomSeed(), cfg.MaxRetries(),
		timeutil.NewBackoffParam(cfg.RetryDelay(), cfg.BackoffMultiplier(), cfg.BackoffMaxDuration()))

	fe := fetcher.NewHTTPFetcher(httpClient, sem, rateLimiter, retryParam, cfg.UserAgents())
	rf := robots.NewFetcher(httpClient, cfg.UserAgents()[0], retryParam, time.Hour)
	p := persister.New(cfg.RawBlobDir(), cfg.CompressionLevel())
	ix := indexer.New(sink, p)
	rec := metadata.NewRecorder("crawl")

	coord := pipeline.NewCoordinator(cfg, fr, rf, fe, rateLimiter, ix, sink, rec, rec)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	var interrupted atomic.Bool
	go func() {
		<-sigCh
		interrupted.Store(true)
		cancel()
	}()

	runErr := coord.Run(ctx)

	if err := fr.WriteSnapshot(cfg.SnapshotPath()); err != nil {
		return err
	}
	if err := sink.WriteSnapshot(flagIndexPath); err != nil {
		return err
	}

	if interrupted.Load() {
		return errInterrupted
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

// errInterrupted signals main that the crawl was stopped by SIGINT/SIGTERM
// after saving a durable snapshot, so the exit code can reflect the
// interrupt rather than a generic failure.
var errInterrupted = &interruptedError{}

type interruptedError struct{}

func (*interruptedError) Error() string { return "crawl interrupted; snapshot saved" }
