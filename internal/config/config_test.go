package config

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDefaultRequiresSeeds(t *testing.T) {
	_, err := WithDefault(nil).Build()
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBuilderChainAppliesOverrides(t *testing.T) {
	seed, err := url.Parse("https://example.com")
	require.NoError(t, err)

	cfg, err := WithDefault([]url.URL{*seed}).
		WithMaxDepth(3).
		WithMaxPages(50).
		WithBM25Params(1.2, 0.6).
		Build()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxDepth())
	assert.Equal(t, 50, cfg.MaxPages())
	assert.Equal(t, 1.2, cfg.BM25K1())
	assert.Equal(t, 0.6, cfg.BM25B())
}

func TestWithConfigFileMissingPath(t *testing.T) {
	_, err := WithConfigFile("/nonexistent/path.json")
	assert.ErrorIs(t, err, ErrFileDoesNotExist)
}
