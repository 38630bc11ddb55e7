// Package stats computes the corpus-wide statistics ranking depends on —
// term IDF — as a single batch pass run behind the pipeline's end-of-run
// quiescence barrier: IDF is never updated incrementally mid-crawl, only
// recomputed once crawling has fully stopped.
package stats

import (
	"math"

	"github.com/rohmanhakim/vertexcrawl/internal/storage"
)

// RebuildIDF computes IDF(t) = log(N / df(t)) for every term in sink and
// writes the result back in batches of batchSize.
func RebuildIDF(sink storage.Sink, batchSize int) error {
	if batchSize < 1 {
		batchSize = 1
	}

	docCount, err := sink.DocumentCount()
	if err != nil {
		return err
	}
	if docCount == 0 {
		return nil
	}

	terms, err := sink.AllTerms()
	if err != nil {
		return err
	}

	batch := make([]storage.IDFEntry, 0, batchSize)
	for _, term := range terms {
		if term.DocFrequency <= 0 {
			continue
		}
		value := math.Log(float64(docCount) / float64(term.DocFrequency))
		batch = append(batch, storage.IDFEntry{TermID: term.ID, Value: value})
		if len(batch) >= batchSize {
			if err := sink.PutIDF(batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := sink.PutIDF(batch); err != nil {
			return err
		}
	}
	return nil
}
