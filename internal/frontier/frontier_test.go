package frontier

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return *u
}

func TestPushRejectsDuplicate(t *testing.T) {
	f := New(1024, 0.01, 0)
	u := mustURL(t, "https://example.com/a")

	assert.True(t, f.Push(QueueEntry{URL: u}))
	assert.False(t, f.Push(QueueEntry{URL: u}))
	assert.Equal(t, 1, f.Len())
}

func TestPushRespectsMaxPages(t *testing.T) {
	f := New(1024, 0.01, 1)
	assert.True(t, f.Push(QueueEntry{URL: mustURL(t, "https://example.com/a")}))
	assert.False(t, f.Push(QueueEntry{URL: mustURL(t, "https://example.com/b")}))
}

func TestIgnoreBlocksLaterPush(t *testing.T) {
	f := New(1024, 0.01, 0)
	u := mustURL(t, "https://example.com/blocked")

	assert.True(t, f.Ignore(u))
	assert.False(t, f.Push(QueueEntry{URL: u}))
}

func TestPopMarksInFlightThenComplete(t *testing.T) {
	f := New(1024, 0.01, 0)
	u := mustURL(t, "https://example.com/a")
	f.Push(QueueEntry{URL: u})

	entry, ok := f.Pop()
	require.True(t, ok)
	assert.Equal(t, 1, f.InFlightLen())
	assert.False(t, f.IsQuiescent())

	f.Complete(entry.URL, true)
	assert.Equal(t, 0, f.InFlightLen())
	assert.Equal(t, 1, f.VisitedLen())
	assert.True(t, f.IsQuiescent())
}

func TestSnapshotRoundTrip(t *testing.T) {
	f := New(1024, 0.01, 0)
	a := mustURL(t, "https://example.com/a")
	b := mustURL(t, "https://example.com/b")
	c := mustURL(t, "https://example.com/blocked")

	f.Push(QueueEntry{URL: a, Depth: 0})
	f.Push(QueueEntry{URL: b, Depth: 1})
	f.Ignore(c)

	entry, ok := f.Pop()
	require.True(t, ok)
	f.Complete(entry.URL, true)

	data, err := f.Snapshot()
	require.NoError(t, err)

	restored, err := Restore(data, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, restored.VisitedLen())
	assert.Equal(t, 1, restored.Len())
	assert.True(t, restored.Push(QueueEntry{URL: a}) == false)
	assert.True(t, restored.Push(QueueEntry{URL: c}) == false)
}

func TestSnapshotWireShapeIsPlainStringArrays(t *testing.T) {
	f := New(1024, 0.01, 0)
	b := mustURL(t, "https://example.com/b")
	f.Push(QueueEntry{URL: b, Depth: 1})

	data, err := f.Snapshot()
	require.NoError(t, err)

	var raw struct {
		ToCrawl     []string `json:"to_crawl"`
		IgnoreLinks []string `json:"ignore_links"`
		FoundLinks  []string `json:"found_links"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, []string{"https://example.com/b"}, raw.ToCrawl)
}

func TestRestoreAcceptsPriorStringArraySnapshot(t *testing.T) {
	data := []byte(`{"to_crawl":["https://example.com/a"],"ignore_links":[],"found_links":["https://example.com/a"]}`)
	restored, err := Restore(data, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, restored.Len())
}
