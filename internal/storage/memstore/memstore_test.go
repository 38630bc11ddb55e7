package memstore

import (
	"testing"

	"github.com/rohmanhakim/vertexcrawl/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAndGetDocument(t *testing.T) {
	s := New()
	require.NoError(t, s.PutDocument(storage.Document{ID: 1, URL: "https://example.com/a", TokenCount: 10}))

	doc, ok, err := s.GetDocument(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/a", doc.URL)

	byURL, ok, err := s.DocumentByURL("https://example.com/a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, storage.DocID(1), byURL.ID)
}

func TestUpsertPostingTracksDocFrequency(t *testing.T) {
	s := New()
	require.NoError(t, s.PutTerm(storage.Term{ID: 1, Text: "tubingen"}))

	require.NoError(t, s.UpsertPosting(1, 1, 3))
	require.NoError(t, s.UpsertPosting(1, 2, 1))

	term, ok, err := s.TermByText("tubingen")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, term.DocFrequency)

	postings, err := s.PostingsForTerm(1)
	require.NoError(t, err)
	assert.Len(t, postings, 2)
}

func TestAverageDocLength(t *testing.T) {
	s := New()
	require.NoError(t, s.PutDocument(storage.Document{ID: 1, TokenCount: 10}))
	require.NoError(t, s.PutDocument(storage.Document{ID: 2, TokenCount: 20}))

	avg, err := s.AverageDocLength()
	require.NoError(t, err)
	assert.Equal(t, 15.0, avg)
}
