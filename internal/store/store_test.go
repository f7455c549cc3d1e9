package store

import (
	"database/sql"
	"testing"

	"github.com/gradewise/gradewise/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestExam(t *testing.T, s *Store, id string) model.Exam {
	t.Helper()
	exam := model.Exam{
		ID:        id,
		Title:     "Physics Midterm",
		PassMarks: 12,
		Questions: []model.Question{
			{ExamID: id, Number: "1", Text: "Define velocity.", MaxMarks: 10},
			{ExamID: id, Number: "2a", Text: "State Newton's second law.", MaxMarks: 8},
			{ExamID: id, Number: "3", Text: "Explain inertia.", MaxMarks: 6},
		},
	}
	if err := s.CreateExam(exam); err != nil {
		t.Fatalf("insertTestExam: %v", err)
	}
	return exam
}

func insertTestSubmission(t *testing.T, s *Store, roll string) model.Submission {
	t.Helper()
	sub := model.Submission{
		RollNumber:  roll,
		StudentName: "Asha Verma",
		Answers: []model.SubmittedAnswer{
			{RollNumber: roll, QuestionNumber: "1", Body: "Rate of change of displacement."},
			{RollNumber: roll, QuestionNumber: "q2a", Body: "F = ma."},
		},
	}
	if err := s.CreateSubmission(sub); err != nil {
		t.Fatalf("insertTestSubmission: %v", err)
	}
	return sub
}

func TestExamCRUD(t *testing.T) {
	s := newTestStore(t)

	count, err := s.ExamCount()
	if err != nil {
		t.Fatalf("ExamCount: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 exams, got %d", count)
	}

	insertTestExam(t, s, "exam-1")

	exam, err := s.GetExam("exam-1")
	if err != nil {
		t.Fatalf("GetExam: %v", err)
	}
	if exam.Title != "Physics Midterm" {
		t.Errorf("title = %q, want 'Physics Midterm'", exam.Title)
	}
	if exam.PassMarks != 12 {
		t.Errorf("pass marks = %v, want 12", exam.PassMarks)
	}
	if len(exam.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(exam.Questions))
	}
	// Questions come back in stored order.
	for i, want := range []string{"1", "2a", "3"} {
		if exam.Questions[i].Number != want {
			t.Errorf("question[%d].Number = %q, want %q", i, exam.Questions[i].Number, want)
		}
	}

	// Not found.
	_, err = s.GetExam("no-such-exam")
	if err != sql.ErrNoRows {
		t.Errorf("expected ErrNoRows, got %v", err)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should report true for ErrNoRows")
	}

	exams, err := s.ListExams()
	if err != nil {
		t.Fatalf("ListExams: %v", err)
	}
	if len(exams) != 1 {
		t.Fatalf("expected 1 exam, got %d", len(exams))
	}
}

func TestSubmissionCRUD(t *testing.T) {
	s := newTestStore(t)
	insertTestSubmission(t, s, "R-100")

	sub, err := s.GetSubmission("R-100")
	if err != nil {
		t.Fatalf("GetSubmission: %v", err)
	}
	if sub.StudentName != "Asha Verma" {
		t.Errorf("student name = %q, want 'Asha Verma'", sub.StudentName)
	}
	if sub.ExamID != "" {
		t.Errorf("exam binding = %q, want empty before evaluation", sub.ExamID)
	}
	if sub.Verdict != model.VerdictPending {
		t.Errorf("verdict = %q, want pending", sub.Verdict)
	}
	if len(sub.Answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(sub.Answers))
	}
	if sub.Answers[0].QuestionNumber != "1" || sub.Answers[1].QuestionNumber != "q2a" {
		t.Errorf("answers out of order: %+v", sub.Answers)
	}
	if sub.EvaluatedAt != nil {
		t.Error("evaluated_at should be nil before evaluation")
	}

	_, err = s.GetSubmission("R-999")
	if err != sql.ErrNoRows {
		t.Errorf("expected ErrNoRows, got %v", err)
	}

	// Duplicate roll numbers are rejected.
	if err := s.CreateSubmission(model.Submission{RollNumber: "R-100"}); err == nil {
		t.Error("expected an error for a duplicate roll number")
	}
}

func TestSaveResult(t *testing.T) {
	s := newTestStore(t)
	insertTestExam(t, s, "exam-1")
	sub := insertTestSubmission(t, s, "R-100")

	sub.ExamID = "exam-1"
	sub.Evaluations = []model.Evaluation{
		{QuestionNumber: "1", Marks: 7, Feedback: "Good"},
		{QuestionNumber: "Q2A", Marks: 4, Feedback: "Partial", UsedFallback: true},
	}
	sub.TotalMarks = 11
	sub.Verdict = model.VerdictFail

	if err := s.SaveResult(sub); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	got, err := s.GetSubmission("R-100")
	if err != nil {
		t.Fatalf("GetSubmission: %v", err)
	}
	if got.ExamID != "exam-1" {
		t.Errorf("exam binding = %q, want exam-1", got.ExamID)
	}
	if got.TotalMarks != 11 {
		t.Errorf("total = %v, want 11", got.TotalMarks)
	}
	if got.Verdict != model.VerdictFail {
		t.Errorf("verdict = %q, want fail", got.Verdict)
	}
	if got.EvaluatedAt == nil {
		t.Error("evaluated_at should be set after evaluation")
	}
	if len(got.Evaluations) != 2 {
		t.Fatalf("expected 2 evaluations, got %d", len(got.Evaluations))
	}
	if got.Evaluations[1].QuestionNumber != "Q2A" || !got.Evaluations[1].UsedFallback {
		t.Errorf("unexpected evaluation: %+v", got.Evaluations[1])
	}

	// A re-evaluation replaces the previous evaluation list.
	sub.Evaluations = []model.Evaluation{{QuestionNumber: "1", Marks: 9, Feedback: "Better"}}
	sub.TotalMarks = 9
	sub.Verdict = model.VerdictFail
	if err := s.SaveResult(sub); err != nil {
		t.Fatalf("SaveResult again: %v", err)
	}
	got, err = s.GetSubmission("R-100")
	if err != nil {
		t.Fatalf("GetSubmission: %v", err)
	}
	if len(got.Evaluations) != 1 {
		t.Fatalf("expected 1 evaluation after re-save, got %d", len(got.Evaluations))
	}
	if got.Evaluations[0].Marks != 9 {
		t.Errorf("marks = %v, want 9", got.Evaluations[0].Marks)
	}
}

func TestMetadata(t *testing.T) {
	s := newTestStore(t)

	val, err := s.GetMetadata("missing")
	if err != nil {
		t.Fatalf("GetMetadata: %v", err)
	}
	if val != "" {
		t.Errorf("expected empty value for missing key, got %q", val)
	}

	if err := s.SetMetadata("k", "v1"); err != nil {
		t.Fatalf("SetMetadata: %v", err)
	}
	if err := s.SetMetadata("k", "v2"); err != nil {
		t.Fatalf("SetMetadata upsert: %v", err)
	}
	val, err = s.GetMetadata("k")
	if err != nil {
		t.Fatalf("GetMetadata: %v", err)
	}
	if val != "v2" {
		t.Errorf("value = %q, want v2", val)
	}

	if err := s.SetImportedFileHash("exams/physics.json", "abc123"); err != nil {
		t.Fatalf("SetImportedFileHash: %v", err)
	}
	hash, err := s.GetImportedFileHash("exams/physics.json")
	if err != nil {
		t.Fatalf("GetImportedFileHash: %v", err)
	}
	if hash != "abc123" {
		t.Errorf("hash = %q, want abc123", hash)
	}

	if err := s.SetAdminPasswordHash("bcrypt-hash"); err != nil {
		t.Fatalf("SetAdminPasswordHash: %v", err)
	}
	got, err := s.GetAdminPasswordHash()
	if err != nil {
		t.Fatalf("GetAdminPasswordHash: %v", err)
	}
	if got != "bcrypt-hash" {
		t.Errorf("admin hash = %q, want bcrypt-hash", got)
	}
}

func TestExportAll(t *testing.T) {
	s := newTestStore(t)
	insertTestExam(t, s, "exam-1")
	sub := insertTestSubmission(t, s, "R-100")
	insertTestSubmission(t, s, "R-200")

	sub.ExamID = "exam-1"
	sub.Evaluations = []model.Evaluation{{QuestionNumber: "1", Marks: 7, Feedback: "Good"}}
	sub.TotalMarks = 7
	sub.Verdict = model.VerdictFail
	if err := s.SaveResult(sub); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	export, err := s.ExportAll()
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	if len(export.Exams) != 1 {
		t.Fatalf("expected 1 exam, got %d", len(export.Exams))
	}
	if len(export.Exams[0].Questions) != 3 {
		t.Errorf("expected exam questions in export, got %d", len(export.Exams[0].Questions))
	}
	if len(export.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(export.Results))
	}

	evaluated := export.Results[0]
	if evaluated.RollNumber != "R-100" {
		t.Fatalf("results out of order: %+v", export.Results)
	}
	if evaluated.ExamTitle != "Physics Midterm" {
		t.Errorf("exam title = %q, want 'Physics Midterm'", evaluated.ExamTitle)
	}
	if evaluated.TotalMarks != 7 || len(evaluated.Evaluations) != 1 {
		t.Errorf("unexpected evaluated result: %+v", evaluated)
	}

	pending := export.Results[1]
	if pending.Verdict != model.VerdictPending || len(pending.Evaluations) != 0 {
		t.Errorf("unexpected pending result: %+v", pending)
	}
}
