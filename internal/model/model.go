package model

import "time"

// Verdict is the pass/fail classification of an evaluated submission.
type Verdict string

const (
	// VerdictPending means the submission has not been evaluated yet.
	VerdictPending Verdict = "pending"
	// VerdictPass means total marks reached the exam's passing threshold.
	VerdictPass Verdict = "pass"
	// VerdictFail means total marks fell short of the passing threshold.
	VerdictFail Verdict = "fail"
)

// Question is a single exam question. Number is the identifier printed on
// the paper ("1", "2a", "3-ii"); matching against submitted answers is done
// on its leading digit prefix.
type Question struct {
	ID       int64   `json:"id"`
	ExamID   string  `json:"exam_id"`
	Number   string  `json:"number"`
	Text     string  `json:"text"`
	MaxMarks float64 `json:"max_marks"`
}

// Exam is an answer key: a set of questions plus the passing threshold.
// Read-only during evaluation; questions keep their stored order.
type Exam struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	PassMarks float64    `json:"pass_marks"`
	Questions []Question `json:"questions"`
}

// SubmittedAnswer is one free-text answer from a student's answer sheet.
// QuestionNumber is stored raw, exactly as submitted.
type SubmittedAnswer struct {
	ID             int64  `json:"id"`
	RollNumber     string `json:"roll_number"`
	QuestionNumber string `json:"question_number"`
	Body           string `json:"body"`
}

// Evaluation is the graded outcome for one submitted answer.
type Evaluation struct {
	QuestionNumber string  `json:"question_number"`
	Marks          float64 `json:"marks"`
	Feedback       string  `json:"feedback"`
	UsedFallback   bool    `json:"used_fallback"`
}

// Submission is a student's answer sheet plus its evaluation state.
// ExamID is empty until the first evaluation binds it.
type Submission struct {
	RollNumber  string            `json:"roll_number"`
	StudentName string            `json:"student_name"`
	ExamID      string            `json:"exam_id,omitempty"`
	Answers     []SubmittedAnswer `json:"answers"`
	Evaluations []Evaluation      `json:"evaluations,omitempty"`
	TotalMarks  float64           `json:"total_marks"`
	Verdict     Verdict           `json:"verdict"`
	EvaluatedAt *time.Time        `json:"evaluated_at,omitempty"`
}

// GradeResult is the grading oracle's verdict for one answer.
type GradeResult struct {
	Marks    float64 `json:"marks"`
	Feedback string  `json:"feedback"`
}

// QuestionImport is used for loading exam questions from JSON.
type QuestionImport struct {
	Number   string  `json:"number"`
	Text     string  `json:"text"`
	MaxMarks float64 `json:"max_marks"`
}

// ExamImport is the top-level JSON structure for loading an exam.
type ExamImport struct {
	Title     string           `json:"title"`
	PassMarks float64          `json:"pass_marks"`
	Questions []QuestionImport `json:"questions"`
}
