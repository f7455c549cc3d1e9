package grader

import "math/rand/v2"

// Sampler yields uniform integers in [0, n). *rand.Rand satisfies it; tests
// substitute a deterministic source.
type Sampler interface {
	IntN(n int) int
}

// fallbackPhrases is the fixed set of generic feedback lines used when the
// oracle's output cannot be trusted. Deliberately non-committal: the system
// cannot verify correctness on this path.
var fallbackPhrases = []string{
	"Fair attempt, but lacks depth.",
	"Shows partial understanding of the topic.",
	"Some relevant points, though the answer is incomplete.",
	"Addresses the question but misses key details.",
	"Reasonable effort; the explanation could be clearer.",
}

// FallbackScorer produces bounded pseudo-random scores when grading via the
// oracle fails, so exam processing degrades instead of blocking.
type FallbackScorer struct {
	sampler Sampler
}

// NewFallbackScorer creates a fallback scorer. A nil sampler gets a
// randomly seeded PCG source.
func NewFallbackScorer(s Sampler) *FallbackScorer {
	if s == nil {
		s = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &FallbackScorer{sampler: s}
}

// Score returns a uniformly distributed whole-number mark in
// [0, maxMarks] and a generic feedback phrase.
func (f *FallbackScorer) Score(maxMarks float64) (float64, string) {
	n := int(maxMarks) + 1
	if n < 1 {
		n = 1
	}
	marks := float64(f.sampler.IntN(n))
	if marks > maxMarks {
		marks = maxMarks
	}
	return marks, fallbackPhrases[f.sampler.IntN(len(fallbackPhrases))]
}
