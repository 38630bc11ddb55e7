package indexer

import (
	"net/url"
	"testing"
	"time"

	"github.com/rohmanhakim/vertexcrawl/internal/contentfilter"
	"github.com/rohmanhakim/vertexcrawl/internal/persister"
	"github.com/rohmanhakim/vertexcrawl/internal/storage/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexAssignsDocIDAndPostings(t *testing.T) {
	sink := memstore.New()
	p := persister.New(t.TempDir(), 3)
	ix := New(sink, p)

	u, _ := url.Parse("https://example.com/a")
	doc := contentfilter.Document{URL: *u, Title: "A", Text: "tubingen is a city in germany"}

	id, err := ix.Index(doc, []byte("<html></html>"), time.Now())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), uint64(id))

	count, err := sink.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	term, ok, err := sink.TermByText("tubingen")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, term.DocFrequency)
}

func TestReindexSameURLReusesDocID(t *testing.T) {
	sink := memstore.New()
	p := persister.New(t.TempDir(), 3)
	ix := New(sink, p)

	u, _ := url.Parse("https://example.com/a")
	doc := contentfilter.Document{URL: *u, Title: "A", Text: "alpha beta"}

	id1, err := ix.Index(doc, []byte("x"), time.Now())
	require.NoError(t, err)

	doc.Text = "gamma delta"
	id2, err := ix.Index(doc, []byte("y"), time.Now())
	require.NoError(t, err)

	assert.Equal(t, id1, id2)

	alpha, ok, err := sink.TermByText("alpha")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, alpha.DocFrequency)

	gamma, ok, err := sink.TermByText("gamma")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, gamma.DocFrequency)
}
