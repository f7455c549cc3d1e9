package model

import "time"

// ResultExport is the top-level JSON structure for exam result export.
type ResultExport struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Exams       []Exam             `json:"exams"`
	Results     []SubmissionResult `json:"results"`
}

// SubmissionResult holds one student's evaluated submission for export.
type SubmissionResult struct {
	RollNumber  string       `json:"roll_number"`
	StudentName string       `json:"student_name"`
	ExamID      string       `json:"exam_id"`
	ExamTitle   string       `json:"exam_title"`
	Evaluations []Evaluation `json:"evaluations"`
	TotalMarks  float64      `json:"total_marks"`
	Verdict     Verdict      `json:"verdict"`
	EvaluatedAt *time.Time   `json:"evaluated_at,omitempty"`
}
