// Package indexer assigns document ids, persists raw bodies, tokenizes
// admitted documents and folds their token counts into the inverted index.
// It is the pipeline stage downstream of contentfilter, feeding
// storage.Sink's document and posting model.
package indexer

import (
	"sync"
	"time"

	"github.com/rohmanhakim/vertexcrawl/internal/contentfilter"
	"github.com/rohmanhakim/vertexcrawl/internal/persister"
	"github.com/rohmanhakim/vertexcrawl/internal/storage"
	"github.com/rohmanhakim/vertexcrawl/internal/tokenizer"
)

type Indexer struct {
	sink      storage.Sink
	persist   *persister.Persister
	stopwords map[string]struct{}

	mu         sync.Mutex
	nextDocID  storage.DocID
	nextTermID storage.TermID
	termIDs    map[string]storage.TermID
}

func New(sink storage.Sink, persist *persister.Persister) *Indexer {
	return &Indexer{
		sink:       sink,
		persist:    persist,
		stopwords:  tokenizer.DefaultStopwords,
		nextDocID:  1,
		nextTermID: 1,
		termIDs:    make(map[string]storage.TermID),
	}
}

// Index persists rawBody, tokenizes doc.Text, assigns (or reuses) the
// document's id, and upserts every resulting posting. Re-indexing a URL
// that was already admitted reuses its existing DocID and replaces its
// postings rather than creating a duplicate Document row, so a re-crawl of
// an already-visited page never grows the corpus.
func (ix *Indexer) Index(doc contentfilter.Document, rawBody []byte, fetchedAt time.Time) (storage.DocID, error) {
	blobKey, err := ix.persist.Write(doc.URL.String(), rawBody)
	if err != nil {
		return 0, err
	}

	tokens := tokenizer.Tokenize(doc.Text, ix.stopwords)
	counts := tokenizer.CountTokens(tokens)

	ix.mu.Lock()
	docID, isNew, err := ix.assignDocID(doc.URL.String())
	ix.mu.Unlock()
	if err != nil {
		return 0, err
	}

	if !isNew {
		if err := ix.clearExistingPostings(docID); err != nil {
			return 0, err
		}
	}

	record := storage.Document{
		ID:          docID,
		URL:         doc.URL.String(),
		Title:       doc.Title,
		Description: doc.Description,
		Language:    doc.Language,
		TokenCount:  len(tokens),
		FetchedAt:   fetchedAt,
		RawBlobKey:  blobKey,
	}
	if err := ix.sink.PutDocument(record); err != nil {
		return 0, err
	}

	for text, count := range counts {
		termID, err := ix.termIDFor(text)
		if err != nil {
			return 0, err
		}
		if err := ix.sink.UpsertPosting(termID, docID, count); err != nil {
			return 0, err
		}
	}
	return docID, nil
}

func (ix *Indexer) assignDocID(url string) (storage.DocID, bool, error) {
	existing, ok, err := ix.sink.DocumentByURL(url)
	if err != nil {
		return 0, false, err
	}
	if ok {
		return existing.ID, false, nil
	}
	id := ix.nextDocID
	ix.nextDocID++
	return id, true, nil
}

func (ix *Indexer) clearExistingPostings(docID storage.DocID) error {
	postings, err := ix.sink.PostingsForDocument(docID)
	if err != nil {
		return err
	}
	for _, p := range postings {
		if err := ix.sink.UpsertPosting(p.TermID, docID, -p.Count); err != nil {
			return err
		}
	}
	return nil
}

func (ix *Indexer) termIDFor(text string) (storage.TermID, error) {
	ix.mu.Lock()
	if id, ok := ix.termIDs[text]; ok {
		ix.mu.Unlock()
		return id, nil
	}
	ix.mu.Unlock()

	existing, ok, err := ix.sink.TermByText(text)
	if err != nil {
		return 0, err
	}
	if ok {
		ix.mu.Lock()
		ix.termIDs[text] = existing.ID
		ix.mu.Unlock()
		return existing.ID, nil
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if id, ok := ix.termIDs[text]; ok {
		return id, nil
	}
	id := ix.nextTermID
	ix.nextTermID++
	ix.termIDs[text] = id
	if err := ix.sink.PutTerm(storage.Term{ID: id, Text: text}); err != nil {
		return 0, err
	}
	return id, nil
}
