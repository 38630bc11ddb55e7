package ranker

import (
	"testing"

	"github.com/rohmanhakim/vertexcrawl/internal/stats"
	"github.com/rohmanhakim/vertexcrawl/internal/storage"
	"github.com/rohmanhakim/vertexcrawl/internal/storage/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCorpus(t *testing.T) storage.Sink {
	t.Helper()
	sink := memstore.New()
	docs := []struct {
		id   storage.DocID
		text string
	}{
		{1, "tubingen is a university city in germany"},
		{2, "berlin is the capital of germany"},
		{3, "paris is the capital of france"},
	}
	for _, d := range docs {
		require.NoError(t, sink.PutDocument(storage.Document{ID: d.id, URL: "u", TokenCount: len([]rune(d.text)) / 4}))
	}

	termID := storage.TermID(1)
	terms := make(map[string]storage.TermID)
	for _, d := range docs {
		for _, word := range splitWords(d.text) {
			id, ok := terms[word]
			if !ok {
				id = termID
				termID++
				terms[word] = id
				require.NoError(t, sink.PutTerm(storage.Term{ID: id, Text: word}))
			}
			require.NoError(t, sink.UpsertPosting(id, d.id, 1))
		}
	}
	require.NoError(t, stats.RebuildIDF(sink, 100))
	return sink
}

func splitWords(s string) []string {
	var out []string
	word := ""
	for _, r := range s {
		if r == ' ' {
			if word != "" {
				out = append(out, word)
				word = ""
			}
			continue
		}
		word += string(r)
	}
	if word != "" {
		out = append(out, word)
	}
	return out
}

func TestScoreRanksMostRelevantDocFirst(t *testing.T) {
	sink := seedCorpus(t)
	results, err := Score(sink, "tubingen", nil, nil, DefaultParams)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, uint64(1), results[0].DocID)
}

type stubSummarizer struct{}

func (stubSummarizer) Summarize(query, _ string) string { return "summary for " + query }

func TestScorePopulatesSummaryFromSummarizer(t *testing.T) {
	sink := seedCorpus(t)
	results, err := Score(sink, "tubingen", nil, stubSummarizer{}, DefaultParams)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "summary for tubingen", results[0].Summary)
}

type stubEmbedding struct{}

func (stubEmbedding) Neighbors(term string, limit int) []Neighbor {
	if term == "tubingen" {
		return []Neighbor{{Term: "germany", Similarity: 0.9}}
	}
	return nil
}

func TestScoreAppliesExpansionWeighting(t *testing.T) {
	sink := seedCorpus(t)
	results, err := Score(sink, "tubingen", stubEmbedding{}, nil, DefaultParams)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	// berlin's doc shares "germany" via expansion but not "tubingen" itself,
	// so it should score now where it scored zero without expansion.
	var berlinScored bool
	for _, r := range results {
		if r.DocID == 2 {
			berlinScored = true
		}
	}
	assert.True(t, berlinScored)
}

type recordingEmbedding struct {
	limitsSeen []int
}

func (r *recordingEmbedding) Neighbors(_ string, limit int) []Neighbor {
	r.limitsSeen = append(r.limitsSeen, limit)
	return nil
}

func TestExpandQueryOnlyDecaysPastLenCutoff(t *testing.T) {
	params := DefaultParams
	params.ExpansionLenCutoff = 2

	queryTerms := make([]string, 5)
	for i := range queryTerms {
		queryTerms[i] = "term"
	}

	// A 2-term query is within the cutoff (k > 2 is false): every term uses
	// the base count undecayed.
	short := &recordingEmbedding{}
	expandQuery(queryTerms[:2], short, params)
	require.Len(t, short.limitsSeen, 2)
	for _, limit := range short.limitsSeen {
		assert.Equal(t, int(params.ExpansionBaseN), limit)
	}

	// A 5-term query is past it: every term decays to round(7*e^(-0.08*5)) = 5.
	rec := &recordingEmbedding{}
	expandQuery(queryTerms, rec, params)
	require.Len(t, rec.limitsSeen, 5)
	for _, limit := range rec.limitsSeen {
		assert.Less(t, limit, int(params.ExpansionBaseN))
	}
}
