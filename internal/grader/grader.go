package grader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gradewise/gradewise/internal/model"
)

// NotFoundFeedback is the feedback recorded for an answer whose question
// number matches nothing in the exam.
const NotFoundFeedback = "Question not found in exam config."

// DefaultOracleTimeout bounds a single grading call; the oracle's
// availability is outside this system's control.
const DefaultOracleTimeout = 30 * time.Second

var (
	ErrInvalidInput       = errors.New("roll number and exam id are required")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrExamNotFound       = errors.New("exam not found")
)

// Store is the persistence the orchestrator needs. Missing rows are
// reported as sql.ErrNoRows.
type Store interface {
	GetSubmission(rollNumber string) (model.Submission, error)
	GetExam(id string) (model.Exam, error)
	SaveResult(sub model.Submission) error
}

// Oracle grades one answer against one question.
type Oracle interface {
	Grade(ctx context.Context, question model.Question, answer string) (model.GradeResult, error)
}

// Service drives the per-answer evaluation loop: match the question, ask
// the oracle, fall back on failure, clamp, aggregate, persist.
type Service struct {
	store    Store
	oracle   Oracle
	fallback *FallbackScorer
	timeout  time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates an evaluation service. A zero timeout gets
// DefaultOracleTimeout.
func NewService(store Store, oracle Oracle, fallback *FallbackScorer, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultOracleTimeout
	}
	return &Service{
		store:    store,
		oracle:   oracle,
		fallback: fallback,
		timeout:  timeout,
		locks:    make(map[string]*sync.Mutex),
	}
}

// Evaluate grades every answer of the identified submission against the
// identified exam and persists the result as one atomic write. Evaluations
// of the same submission are serialized; distinct submissions proceed
// independently. Every submitted answer yields exactly one evaluation, in
// submission order.
func (s *Service) Evaluate(ctx context.Context, rollNumber, examID string) (model.Submission, error) {
	if rollNumber == "" || examID == "" {
		return model.Submission{}, ErrInvalidInput
	}

	lock := s.lockFor(rollNumber)
	lock.Lock()
	defer lock.Unlock()

	sub, err := s.store.GetSubmission(rollNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Submission{}, ErrSubmissionNotFound
		}
		return model.Submission{}, fmt.Errorf("get submission: %w", err)
	}

	exam, err := s.store.GetExam(examID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Submission{}, ErrExamNotFound
		}
		return model.Submission{}, fmt.Errorf("get exam: %w", err)
	}

	// First-write-wins binding: the first evaluation adopts the supplied
	// exam. A later call naming a different exam rebinds, loudly.
	if sub.ExamID != "" && sub.ExamID != examID {
		slog.Warn("submission bound to a different exam, rebinding",
			"roll_number", rollNumber, "bound_exam", sub.ExamID, "requested_exam", examID)
	}
	sub.ExamID = examID

	evals := make([]model.Evaluation, 0, len(sub.Answers))
	for _, ans := range sub.Answers {
		evals = append(evals, s.evaluateAnswer(ctx, exam, ans))
	}

	sub.Evaluations = evals
	sub.TotalMarks, sub.Verdict = Aggregate(evals, exam.PassMarks)

	if err := s.store.SaveResult(sub); err != nil {
		return model.Submission{}, fmt.Errorf("save result: %w", err)
	}
	return sub, nil
}

func (s *Service) evaluateAnswer(ctx context.Context, exam model.Exam, ans model.SubmittedAnswer) model.Evaluation {
	eval := model.Evaluation{QuestionNumber: NormalizeNumber(ans.QuestionNumber)}

	question, ok := MatchQuestion(ans.QuestionNumber, exam.Questions)
	if !ok {
		eval.Feedback = NotFoundFeedback
		return eval
	}

	gctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.oracle.Grade(gctx, question, ans.Body)
	if err != nil {
		slog.Warn("grading failed, using fallback",
			"roll_number", ans.RollNumber, "question", question.Number, "error", err)
		eval.Marks, eval.Feedback = s.fallback.Score(question.MaxMarks)
		eval.UsedFallback = true
		return eval
	}

	eval.Marks = clampMarks(result.Marks, question.MaxMarks)
	eval.Feedback = result.Feedback
	return eval
}

func clampMarks(marks, maxMarks float64) float64 {
	if marks < 0 {
		return 0
	}
	if marks > maxMarks {
		return maxMarks
	}
	return marks
}

func (s *Service) lockFor(rollNumber string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[rollNumber]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[rollNumber] = lock
	}
	return lock
}
