package grader

import (
	"strings"

	"github.com/gradewise/gradewise/internal/model"
)

// NormalizeNumber puts a submitted question number into its reporting form:
// trimmed and uppercased, suffixes intact. This is what appears in the
// evaluation output, not what matching compares on.
func NormalizeNumber(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// matchKey reduces a question number to the form matching compares on: the
// first run of decimal digits in the normalized number. "Q1a", "1-A" and
// " 1 " all reduce to "1". A number with no digits reduces to its
// normalized form.
func matchKey(number string) string {
	norm := NormalizeNumber(number)
	start := -1
	for i := 0; i < len(norm); i++ {
		if norm[i] >= '0' && norm[i] <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return norm
	}
	end := start
	for end < len(norm) && norm[end] >= '0' && norm[end] <= '9' {
		end++
	}
	return norm[start:end]
}

// MatchQuestion resolves a submitted question number to the exam question
// it refers to, tolerating case, whitespace, and suffix noise. When two
// questions share a digit prefix the first one in the exam's stored order
// wins. The second return is false when nothing matches; absence is an
// expected outcome, handled by the caller as a zero-mark evaluation.
func MatchQuestion(raw string, questions []model.Question) (model.Question, bool) {
	key := matchKey(raw)
	for _, q := range questions {
		if matchKey(q.Number) == key {
			return q, true
		}
	}
	return model.Question{}, false
}
