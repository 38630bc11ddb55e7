// Package contentfilter implements post-fetch admission: deciding whether a
// fetched page enters the index, and extracting the links it discovers for
// the frontier. One DOM walk drives language detection, keyword gating, and
// link discovery together.
package contentfilter

import "net/url"

// Document is the narrow view of a fetched page the filter and the
// downstream indexer both need — everything else about the HTTP exchange
// (headers, timing) stays in fetcher.FetchResult.
type Document struct {
	URL         url.URL
	Title       string
	Description string
	Text        string
	Language    string
	Links       []url.URL
}

// Verdict is the filter's admission decision plus the reason, used only for
// observability (metadata.MetadataSink), never for control flow beyond the
// boolean.
type Verdict struct {
	Admit  bool
	Reason string
}
