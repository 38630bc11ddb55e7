package pipeline

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/rohmanhakim/vertexcrawl/internal/config"
	"github.com/rohmanhakim/vertexcrawl/internal/fetcher"
	"github.com/rohmanhakim/vertexcrawl/internal/frontier"
	"github.com/rohmanhakim/vertexcrawl/internal/indexer"
	"github.com/rohmanhakim/vertexcrawl/internal/metadata"
	"github.com/rohmanhakim/vertexcrawl/internal/persister"
	"github.com/rohmanhakim/vertexcrawl/internal/robots"
	"github.com/rohmanhakim/vertexcrawl/internal/storage/memstore"
	"github.com/rohmanhakim/vertexcrawl/pkg/failure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type allowAllRobots struct{}

func (allowAllRobots) Allowed(_ context.Context, _ url.URL) (robots.Decision, time.Duration, error) {
	return robots.DecisionAllow, 0, nil
}

type stubFetcher struct {
	pages map[string]string
}

func (s stubFetcher) Fetch(_ context.Context, param fetcher.FetchParam) (fetcher.FetchResult, failure.ClassifiedError) {
	body, ok := s.pages[param.URL.String()]
	if !ok {
		return fetcher.FetchResult{}, &fetcher.FetchError{URL: param.URL.String(), Cause: fetcher.CauseClientStatus, Err: assertErr{}}
	}
	return fetcher.FetchResult{
		FinalURL:    param.URL,
		StatusCode:  200,
		ContentType: "text/html",
		Body:        []byte(body),
		FetchedAt:   time.Now(),
	}, nil
}

type assertErr struct{}

func (assertErr) Error() string { return "not found" }

func TestCoordinatorCrawlsAndIndexes(t *testing.T) {
	seed, err := url.Parse("https://example.com/")
	require.NoError(t, err)

	pages := map[string]string{
		"https://example.com/": `<html lang="en"><head><title>Home</title></head>
<body>Tübingen is a university city. <a href="/about">about</a></body></html>`,
		"https://example.com/about": `<html lang="en"><head><title>About</title></head>
<body>About Tübingen, Germany.</body></html>`,
	}

	cfg, err := config.WithDefault([]url.URL{*seed}).WithMaxDepth(2).WithMaxConcurrent(2).Build()
	require.NoError(t, err)

	fr := frontier.New(1024, 0.01, 0)
	rf := allowAllRobots{}
	fe := stubFetcher{pages: pages}
	sink := memstore.New()
	p := persister.New(t.TempDir(), 1)
	ix := indexer.New(sink, p)
	rec := metadata.NewRecorder("test-crawl")

	coord := NewCoordinator(cfg, fr, rf, fe, nil, ix, sink, rec, rec)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, coord.Run(ctx))

	count, err := sink.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
