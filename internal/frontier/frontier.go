// Package frontier owns the crawl's URL-state machine: every discovered URL
// lives in exactly one of four disjoint collections (to_crawl, in_flight,
// visited, ignored). Admission (the move from "unseen" to "to_crawl" or
// "ignored") is the frontier's only externally visible decision; everything
// else is bookkeeping.
package frontier

import (
	"net/url"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
)

// Frontier is safe for concurrent use: the pipeline's discovery stage pushes
// new links while the scheduling stage pops work, and both race with the
// snapshot writer.
type Frontier struct {
	mu sync.Mutex

	toCrawl  *FIFOQueue[QueueEntry]
	inFlight *Set[string]
	visited  *Set[string]
	ignored  *Set[string]

	// found is authoritative membership for "ever admitted", checked on
	// every bloom-filter positive to rule out false positives. bloomSeen
	// is the probabilistic fast path that lets a high-traffic crawl skip
	// the map lookup on the overwhelmingly common "definitely not seen"
	// case.
	found     *Set[string]
	bloomSeen *bloom.BloomFilter

	maxPages int
	admitted int
}

// New constructs a Frontier sized for expectedURLs discoveries at the given
// false-positive rate; keep this under 1% for corpora in the low millions.
func New(expectedURLs uint, falsePositiveRate float64, maxPages int) *Frontier {
	return &Frontier{
		toCrawl:   NewFIFOQueue[QueueEntry](),
		inFlight:  NewSet[string](),
		visited:   NewSet[string](),
		ignored:   NewSet[string](),
		found:     NewSet[string](),
		bloomSeen: bloom.NewWithEstimates(expectedURLs, falsePositiveRate),
		maxPages:  maxPages,
	}
}

func key(u url.URL) string { return u.String() }

// seen reports whether u has ever been admitted (to any of the four
// collections), consulting the bloom filter first and falling back to the
// authoritative set only on a possible match.
func (f *Frontier) seen(k string) bool {
	if !f.bloomSeen.TestString(k) {
		return false
	}
	return f.found.Has(k)
}

func (f *Frontier) markSeen(k string) {
	f.bloomSeen.AddString(k)
	f.found.Add(k)
}

// Push admits entry into to_crawl if it has never been seen before and the
// crawl has not yet reached its page budget. It returns false when the URL
// was a duplicate or the frontier is saturated — the caller (the content
// filter / discovery stage) must not treat a false return as an error.
func (f *Frontier) Push(entry QueueEntry) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := key(entry.URL)
	if f.seen(k) {
		return false
	}
	if f.maxPages > 0 && f.admitted >= f.maxPages {
		return false
	}
	if entry.DiscoveredAt.IsZero() {
		entry.DiscoveredAt = time.Now()
	}
	f.markSeen(k)
	f.admitted++
	f.toCrawl.Push(entry)
	return true
}

// Ignore admits u directly into the ignored collection without ever
// entering to_crawl — used when the admission policy rejects a discovered
// link outright (robots disallow, blocklisted domain, binary extension) so
// a restored crawl does not re-evaluate it.
func (f *Frontier) Ignore(u url.URL) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := key(u)
	if f.seen(k) {
		return false
	}
	f.markSeen(k)
	f.ignored.Add(k)
	return true
}

// Pop removes the next entry from to_crawl and marks it in_flight. Returns
// ok=false when to_crawl is empty.
func (f *Frontier) Pop() (QueueEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.toCrawl.Pop()
	if !ok {
		return QueueEntry{}, false
	}
	f.inFlight.Add(key(entry.URL))
	return entry, true
}

// Complete moves u out of in_flight and into visited (success) or ignored
// (the fetch or content filter rejected it after the fact).
func (f *Frontier) Complete(u url.URL, success bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := key(u)
	f.inFlight.Remove(k)
	if success {
		f.visited.Add(k)
	} else {
		f.ignored.Add(k)
	}
}

// Requeue moves entry from in_flight back into to_crawl, at the back of the
// queue rather than the front. The pipeline coordinator does not call it: a
// fetch that exhausts its retries is completed as ignored. Returns false if
// the entry was never in flight.
func (f *Frontier) Requeue(entry QueueEntry) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	k := key(entry.URL)
	if !f.inFlight.Has(k) {
		return false
	}
	f.inFlight.Remove(k)
	f.toCrawl.Push(entry)
	return true
}

// Len reports the size of to_crawl. Quiescence (to_crawl empty and
// in_flight empty) is checked by IsQuiescent, not by Len.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.toCrawl.Len()
}

func (f *Frontier) InFlightLen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight.Len()
}

func (f *Frontier) VisitedLen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visited.Len()
}

// IsQuiescent reports whether the crawl has no more work outstanding or
// queued — the pipeline coordinator's end-of-run barrier condition.
func (f *Frontier) IsQuiescent() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.toCrawl.Len() == 0 && f.inFlight.Len() == 0
}
