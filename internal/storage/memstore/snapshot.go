package memstore

import (
	"encoding/json"

	"github.com/rohmanhakim/vertexcrawl/internal/storage"
	"github.com/rohmanhakim/vertexcrawl/pkg/fileutil"
)

// dumpDTO is the on-disk shape of a memstore snapshot, letting the "search"
// CLI command query an index built by a separate "crawl" run without
// standing up the external analytical store — the same atomic-write
// durability the frontier snapshot uses, applied to the index itself.
type dumpDTO struct {
	Documents []storage.Document  `json:"documents"`
	Terms     []storage.Term      `json:"terms"`
	Postings  []storage.Posting   `json:"postings"`
	IDF       []storage.IDFEntry  `json:"idf"`
}

func (s *Store) Dump() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dto := dumpDTO{}
	for _, doc := range s.documents {
		dto.Documents = append(dto.Documents, doc)
	}
	for _, term := range s.terms {
		dto.Terms = append(dto.Terms, term)
	}
	for termID, byDoc := range s.postings {
		for docID, count := range byDoc {
			dto.Postings = append(dto.Postings, storage.Posting{TermID: termID, DocID: docID, Count: count})
		}
	}
	for termID, value := range s.idf {
		dto.IDF = append(dto.IDF, storage.IDFEntry{TermID: termID, Value: value})
	}
	return json.MarshalIndent(dto, "", "  ")
}

func (s *Store) WriteSnapshot(path string) error {
	data, err := s.Dump()
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}

// Load rebuilds a Store from a previously written Dump.
func Load(data []byte) (*Store, error) {
	var dto dumpDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}
	s := New()
	for _, doc := range dto.Documents {
		if err := s.PutDocument(doc); err != nil {
			return nil, err
		}
	}
	for _, term := range dto.Terms {
		if err := s.PutTerm(term); err != nil {
			return nil, err
		}
	}
	for _, p := range dto.Postings {
		byDoc, ok := s.postings[p.TermID]
		if !ok {
			byDoc = make(map[storage.DocID]int)
			s.postings[p.TermID] = byDoc
		}
		byDoc[p.DocID] = p.Count
	}
	if err := s.PutIDF(dto.IDF); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadSnapshot reads and restores a Store from path, returning
// (nil, false, nil) when no snapshot file exists yet.
func LoadSnapshot(path string) (*Store, bool, error) {
	data, ok, err := fileutil.ReadFileIfExists(path)
	if err != nil || !ok {
		return nil, ok, err
	}
	s, err := Load(data)
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}
