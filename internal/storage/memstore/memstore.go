// Package memstore is the in-process default storage.Sink — sufficient for
// a single-machine crawl/index run and for tests; a deployment that needs
// an external analytical store wires a different Sink implementation
// against the same interface.
package memstore

import (
	"sync"

	"github.com/rohmanhakim/vertexcrawl/internal/storage"
)

type Store struct {
	mu sync.RWMutex

	documents   map[storage.DocID]storage.Document
	docsByURL   map[string]storage.DocID
	terms       map[storage.TermID]storage.Term
	termsByText map[string]storage.TermID
	postings    map[storage.TermID]map[storage.DocID]int
	idf         map[storage.TermID]float64
	totalTokens int64
}

func New() *Store {
	return &Store{
		documents:   make(map[storage.DocID]storage.Document),
		docsByURL:   make(map[string]storage.DocID),
		terms:       make(map[storage.TermID]storage.Term),
		termsByText: make(map[string]storage.TermID),
		postings:    make(map[storage.TermID]map[storage.DocID]int),
		idf:         make(map[storage.TermID]float64),
	}
}

func (s *Store) PutDocument(doc storage.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.documents[doc.ID]; ok {
		s.totalTokens -= int64(existing.TokenCount)
	}
	s.documents[doc.ID] = doc
	s.docsByURL[doc.URL] = doc.ID
	s.totalTokens += int64(doc.TokenCount)
	return nil
}

func (s *Store) GetDocument(id storage.DocID) (storage.Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	return doc, ok, nil
}

func (s *Store) DocumentByURL(url string) (storage.Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.docsByURL[url]
	if !ok {
		return storage.Document{}, false, nil
	}
	doc := s.documents[id]
	return doc, true, nil
}

func (s *Store) AllDocuments() ([]storage.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]storage.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		out = append(out, doc)
	}
	return out, nil
}

func (s *Store) PutTerm(term storage.Term) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms[term.ID] = term
	s.termsByText[term.Text] = term.ID
	return nil
}

func (s *Store) TermByText(text string) (storage.Term, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.termsByText[text]
	if !ok {
		return storage.Term{}, false, nil
	}
	return s.terms[id], true, nil
}

func (s *Store) AllTerms() ([]storage.Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]storage.Term, 0, len(s.terms))
	for _, term := range s.terms {
		out = append(out, term)
	}
	return out, nil
}

func (s *Store) UpsertPosting(termID storage.TermID, docID storage.DocID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byDoc, ok := s.postings[termID]
	if !ok {
		byDoc = make(map[storage.DocID]int)
		s.postings[termID] = byDoc
	}
	_, hadDoc := byDoc[docID]
	byDoc[docID] += delta

	term := s.terms[termID]
	if !hadDoc && byDoc[docID] > 0 {
		term.DocFrequency++
		s.terms[termID] = term
	} else if hadDoc && byDoc[docID] <= 0 {
		term.DocFrequency--
		s.terms[termID] = term
		delete(byDoc, docID)
	}
	return nil
}

func (s *Store) PostingsForTerm(termID storage.TermID) ([]storage.Posting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byDoc := s.postings[termID]
	out := make([]storage.Posting, 0, len(byDoc))
	for docID, count := range byDoc {
		out = append(out, storage.Posting{TermID: termID, DocID: docID, Count: count})
	}
	return out, nil
}

func (s *Store) PostingsForDocument(docID storage.DocID) ([]storage.Posting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []storage.Posting
	for termID, byDoc := range s.postings {
		if count, ok := byDoc[docID]; ok {
			out = append(out, storage.Posting{TermID: termID, DocID: docID, Count: count})
		}
	}
	return out, nil
}

func (s *Store) PutIDF(entries []storage.IDFEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.idf[e.TermID] = e.Value
	}
	return nil
}

func (s *Store) IDFFor(termID storage.TermID) (float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.idf[termID]
	return v, ok, nil
}

func (s *Store) DocumentCount() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents), nil
}

func (s *Store) AverageDocLength() (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.documents) == 0 {
		return 0, nil
	}
	return float64(s.totalTokens) / float64(len(s.documents)), nil
}

var _ storage.Sink = (*Store)(nil)
