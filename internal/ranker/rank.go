package ranker

import (
	"math"
	"sort"

	"github.com/rohmanhakim/vertexcrawl/internal/storage"
	"github.com/rohmanhakim/vertexcrawl/internal/tokenizer"
)

type weightedTerm struct {
	Text   string
	Weight float64
}

// expandQuery builds the weighted term list BM25 scores against. Every
// query term asks for up to n neighbors above the similarity floor: n is
// ExpansionBaseN for a query of at most ExpansionLenCutoff terms, and
// round(ExpansionBaseN * e^(-decay*k)) for a longer query of k terms, so
// only unusually long queries lose expansion breadth.
//
// If expansion finds nothing at all, every original term keeps weight 4,
// the un-expanded BM25 weighting. As soon as any expansion term is found,
// every original term's weight drops to 1 and each expansion term is
// weighted by its similarity/3, so a query that successfully expands never
// lets the exact terms dominate the way an un-expanded query does.
func expandQuery(queryTerms []string, embeddings EmbeddingLookup, params Params) []weightedTerm {
	type expansion struct {
		term       string
		similarity float64
	}
	var expansions []expansion

	if embeddings != nil {
		k := len(queryTerms)
		n := params.ExpansionBaseN
		if k > params.ExpansionLenCutoff {
			n = params.ExpansionBaseN * math.Exp(-params.ExpansionDecayRate*float64(k))
		}
		rounded := int(math.Round(n))
		for _, term := range queryTerms {
			if rounded <= 0 {
				break
			}
			for _, nb := range embeddings.Neighbors(term, rounded) {
				if nb.Similarity > params.ExpansionSimMin {
					expansions = append(expansions, expansion{term: nb.Term, similarity: nb.Similarity})
				}
			}
		}
	}

	originalWeight := 4.0
	if len(expansions) > 0 {
		originalWeight = 1.0
	}

	seen := make(map[string]struct{}, len(queryTerms)+len(expansions))
	weighted := make([]weightedTerm, 0, len(queryTerms)+len(expansions))
	for _, term := range queryTerms {
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		weighted = append(weighted, weightedTerm{Text: term, Weight: originalWeight})
	}
	for _, e := range expansions {
		if _, ok := seen[e.term]; ok {
			continue
		}
		seen[e.term] = struct{}{}
		weighted = append(weighted, weightedTerm{Text: e.term, Weight: e.similarity / 3})
	}
	return weighted
}

// Score ranks every document that shares at least one term with query,
// using BM25 with k1/b from params and the term weights expandQuery
// produces. Results are sorted by descending score.
func Score(sink storage.Sink, query string, embeddings EmbeddingLookup, summarizer Summarizer, params Params) ([]Result, error) {
	if summarizer == nil {
		summarizer = NoopSummarizer{}
	}

	queryTokens := tokenizer.Tokenize(query, tokenizer.DefaultStopwords)
	if len(queryTokens) == 0 {
		return nil, nil
	}
	weighted := expandQuery(queryTokens, embeddings, params)

	avgDocLen, err := sink.AverageDocLength()
	if err != nil {
		return nil, err
	}
	if avgDocLen == 0 {
		avgDocLen = 1
	}

	scores := make(map[storage.DocID]float64)
	for _, wt := range weighted {
		term, ok, err := sink.TermByText(wt.Text)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		idf, ok, err := sink.IDFFor(term.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		postings, err := sink.PostingsForTerm(term.ID)
		if err != nil {
			return nil, err
		}
		for _, p := range postings {
			doc, ok, err := sink.GetDocument(p.DocID)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			tf := float64(p.Count)
			lengthNorm := 1 - params.B + params.B*float64(doc.TokenCount)/avgDocLen
			termScore := idf * (tf * (params.K1 + 1)) / (tf + params.K1*lengthNorm)
			scores[p.DocID] += wt.Weight * termScore
		}
	}

	results := make([]Result, 0, len(scores))
	for docID, score := range scores {
		doc, ok, err := sink.GetDocument(docID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		results = append(results, Result{
			DocID:       uint64(docID),
			URL:         doc.URL,
			Title:       doc.Title,
			Description: doc.Description,
			Summary:     summarizer.Summarize(query, doc.Description),
			Score:       score,
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results, nil
}
