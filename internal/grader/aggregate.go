package grader

import "github.com/gradewise/gradewise/internal/model"

// Aggregate sums the marks of all evaluations, zero-mark entries included,
// and derives the verdict. The threshold comparison is inclusive: a total
// exactly at passMarks is a pass.
func Aggregate(evals []model.Evaluation, passMarks float64) (float64, model.Verdict) {
	var total float64
	for _, e := range evals {
		total += e.Marks
	}
	if total >= passMarks {
		return total, model.VerdictPass
	}
	return total, model.VerdictFail
}
