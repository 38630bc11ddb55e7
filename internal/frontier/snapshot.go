package frontier

import (
	"encoding/json"
	"net/url"

	"github.com/rohmanhakim/vertexcrawl/pkg/fileutil"
)

// Snapshot serializes the frontier to its durable-resume on-disk shape.
// Any URL still in_flight at snapshot time is written back into to_crawl,
// since a crash loses in-memory "in progress" state and the safest
// recovery is to re-fetch it.
func (f *Frontier) Snapshot() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	dto := snapshotDTO{
		ToCrawl:     make([]string, 0, f.toCrawl.Len()),
		IgnoreLinks: f.ignored.Items(),
		FoundLinks:  f.found.Items(),
	}
	for _, entry := range f.toCrawl.Snapshot() {
		dto.ToCrawl = append(dto.ToCrawl, entry.URL.String())
	}
	dto.ToCrawl = append(dto.ToCrawl, f.inFlight.Items()...)
	return json.MarshalIndent(dto, "", "  ")
}

// WriteSnapshot atomically writes the serialized frontier to path.
func (f *Frontier) WriteSnapshot(path string) error {
	data, err := f.Snapshot()
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}

// Restore rebuilds frontier state from a previously written snapshot. Every
// entry in found_links that is not also in ignore_links or still queued in
// to_crawl is treated as already visited, since the only way a URL leaves
// to_crawl without being re-snapshotted there is by completing.
func Restore(data []byte, maxPages int) (*Frontier, error) {
	var dto snapshotDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}

	f := New(uint(len(dto.FoundLinks)+1024), 0.01, maxPages)

	queued := NewSet[string]()
	for _, raw := range dto.ToCrawl {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		// The wire format carries no depth; a resumed entry restarts at
		// depth 0, the same as a freshly discovered seed.
		f.toCrawl.Push(QueueEntry{URL: *u, Depth: 0})
		queued.Add(raw)
	}
	ignored := NewSet[string]()
	for _, k := range dto.IgnoreLinks {
		ignored.Add(k)
		f.ignored.Add(k)
	}
	for _, k := range dto.FoundLinks {
		f.bloomSeen.AddString(k)
		f.found.Add(k)
		if queued.Has(k) || ignored.Has(k) {
			continue
		}
		f.visited.Add(k)
	}
	f.admitted = len(dto.FoundLinks)
	return f, nil
}

// LoadSnapshot reads and restores a frontier from path, returning
// (nil, false, nil) when no snapshot file exists yet — a fresh crawl.
func LoadSnapshot(path string, maxPages int) (*Frontier, bool, error) {
	data, ok, err := fileutil.ReadFileIfExists(path)
	if err != nil || !ok {
		return nil, ok, err
	}
	f, err := Restore(data, maxPages)
	if err != nil {
		return nil, false, err
	}
	return f, true, nil
}
