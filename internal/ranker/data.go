// Package ranker implements BM25 scoring with embedding-based query
// expansion. The embedding lookup table and the abstractive summarizer
// live outside this module — this package only defines the interfaces
// they satisfy.
package ranker

// Result is one scored hit returned to the caller.
type Result struct {
	DocID       uint64
	URL         string
	Title       string
	Description string
	Summary     string
	Score       float64
}

// Params bundles the ranker's tunables so callers never hardcode them.
type Params struct {
	K1                 float64
	B                  float64
	ExpansionBaseN     float64
	ExpansionDecayRate float64
	ExpansionSimMin    float64
	ExpansionLenCutoff int
}

// DefaultParams matches the reference BM25 k1/b and expansion/decay
// constants this ranker was designed against.
var DefaultParams = Params{
	K1:                 1.5,
	B:                  0.75,
	ExpansionBaseN:     7,
	ExpansionDecayRate: 0.08,
	ExpansionSimMin:    0.7,
	ExpansionLenCutoff: 7,
}
