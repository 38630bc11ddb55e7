// Package storage defines the index's durable types and the Sink interface
// every storage backend implements. An external analytical SQL/columnar
// store is a plausible production backend, but this package only defines
// the contract plus an in-process reference implementation under
// storage/memstore.
package storage

import "time"

// DocID identifies one admitted page in the index.
type DocID uint64

// TermID identifies one distinct token across the whole corpus.
type TermID uint64

// Document is one indexed page's durable record.
type Document struct {
	ID          DocID
	URL         string
	Title       string
	Description string
	Language    string
	TokenCount  int
	FetchedAt   time.Time
	RawBlobKey  string
}

// Term is one distinct token's durable record: its surface form and the
// document frequency used by IDF.
type Term struct {
	ID           TermID
	Text         string
	DocFrequency int
}

// Posting is one (term, document) occurrence count — the atomic unit of
// the inverted index.
type Posting struct {
	TermID TermID
	DocID  DocID
	Count  int
}

// IDFEntry is one term's precomputed inverse document frequency, valid as
// of the run that built it. IDF is recomputed in a batch pass, not
// incrementally, behind the end-of-run quiescence barrier.
type IDFEntry struct {
	TermID TermID
	Value  float64
}

// Sink is the storage boundary every package above it programs against.
// memstore.Store is the in-process default; a production deployment can
// substitute a sink backed by the analytical store without this package's
// callers changing.
type Sink interface {
	PutDocument(doc Document) error
	GetDocument(id DocID) (Document, bool, error)
	DocumentByURL(url string) (Document, bool, error)
	AllDocuments() ([]Document, error)

	PutTerm(term Term) error
	TermByText(text string) (Term, bool, error)
	AllTerms() ([]Term, error)

	UpsertPosting(termID TermID, docID DocID, delta int) error
	PostingsForTerm(termID TermID) ([]Posting, error)
	PostingsForDocument(docID DocID) ([]Posting, error)

	PutIDF(entries []IDFEntry) error
	IDFFor(termID TermID) (float64, bool, error)

	DocumentCount() (int, error)
	AverageDocLength() (float64, error)
}
