package stats

import (
	"math"
	"testing"

	"github.com/rohmanhakim/vertexcrawl/internal/storage"
	"github.com/rohmanhakim/vertexcrawl/internal/storage/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebuildIDFMatchesFormula(t *testing.T) {
	sink := memstore.New()
	require.NoError(t, sink.PutDocument(storage.Document{ID: 1, TokenCount: 5}))
	require.NoError(t, sink.PutDocument(storage.Document{ID: 2, TokenCount: 5}))
	require.NoError(t, sink.PutTerm(storage.Term{ID: 1, Text: "tubingen"}))
	require.NoError(t, sink.UpsertPosting(1, 1, 3))
	require.NoError(t, sink.UpsertPosting(1, 2, 1))

	require.NoError(t, RebuildIDF(sink, 10))

	idf, ok, err := sink.IDFFor(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, math.Log(2.0/2.0), idf, 1e-9)
}

func TestRebuildIDFSkipsZeroFrequencyTerms(t *testing.T) {
	sink := memstore.New()
	require.NoError(t, sink.PutDocument(storage.Document{ID: 1, TokenCount: 5}))
	require.NoError(t, sink.PutTerm(storage.Term{ID: 1, Text: "orphan"}))

	require.NoError(t, RebuildIDF(sink, 10))

	_, ok, err := sink.IDFFor(1)
	require.NoError(t, err)
	assert.False(t, ok)
}
