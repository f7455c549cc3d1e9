package store

import (
	"time"

	"github.com/gradewise/gradewise/internal/model"
)

// CreateSubmission stores a submission and its answers in one transaction.
func (s *Store) CreateSubmission(sub model.Submission) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO submissions (roll_number, student_name, exam_id, verdict) VALUES (?, ?, ?, 'pending')`,
		sub.RollNumber, sub.StudentName, sub.ExamID,
	)
	if err != nil {
		return err
	}

	for i, a := range sub.Answers {
		_, err := tx.Exec(
			`INSERT INTO answers (roll_number, question_number, body, position) VALUES (?, ?, ?, ?)`,
			sub.RollNumber, a.QuestionNumber, a.Body, i,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetSubmission returns a submission with its answers and any prior
// evaluations, both in stored order. Returns sql.ErrNoRows when the roll
// number is unknown.
func (s *Store) GetSubmission(rollNumber string) (model.Submission, error) {
	var sub model.Submission
	err := s.db.QueryRow(
		`SELECT roll_number, student_name, exam_id, total_marks, verdict, evaluated_at
		 FROM submissions WHERE roll_number = ?`, rollNumber,
	).Scan(&sub.RollNumber, &sub.StudentName, &sub.ExamID, &sub.TotalMarks, &sub.Verdict, &sub.EvaluatedAt)
	if err != nil {
		return sub, err
	}

	rows, err := s.db.Query(
		`SELECT id, roll_number, question_number, body FROM answers WHERE roll_number = ? ORDER BY position`, rollNumber,
	)
	if err != nil {
		return sub, err
	}
	defer rows.Close()
	for rows.Next() {
		var a model.SubmittedAnswer
		if err := rows.Scan(&a.ID, &a.RollNumber, &a.QuestionNumber, &a.Body); err != nil {
			return sub, err
		}
		sub.Answers = append(sub.Answers, a)
	}
	if err := rows.Err(); err != nil {
		return sub, err
	}

	evals, err := s.getEvaluations(rollNumber)
	if err != nil {
		return sub, err
	}
	sub.Evaluations = evals
	return sub, nil
}

func (s *Store) getEvaluations(rollNumber string) ([]model.Evaluation, error) {
	rows, err := s.db.Query(
		`SELECT question_number, marks, feedback, used_fallback
		 FROM evaluations WHERE roll_number = ? ORDER BY position`, rollNumber,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var evals []model.Evaluation
	for rows.Next() {
		var e model.Evaluation
		if err := rows.Scan(&e.QuestionNumber, &e.Marks, &e.Feedback, &e.UsedFallback); err != nil {
			return nil, err
		}
		evals = append(evals, e)
	}
	return evals, rows.Err()
}

// SaveResult persists an evaluated submission: exam binding, the evaluation
// list, total marks, and verdict, replacing any previous result. Runs as a
// single transaction so a partial result is never visible.
func (s *Store) SaveResult(sub model.Submission) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	_, err = tx.Exec(
		`UPDATE submissions SET exam_id = ?, total_marks = ?, verdict = ?, evaluated_at = ? WHERE roll_number = ?`,
		sub.ExamID, sub.TotalMarks, sub.Verdict, now, sub.RollNumber,
	)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM evaluations WHERE roll_number = ?`, sub.RollNumber); err != nil {
		return err
	}
	for i, e := range sub.Evaluations {
		_, err := tx.Exec(
			`INSERT INTO evaluations (roll_number, question_number, marks, feedback, used_fallback, position)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			sub.RollNumber, e.QuestionNumber, e.Marks, e.Feedback, e.UsedFallback, i,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListSubmissions returns all submissions with answers and evaluations.
func (s *Store) ListSubmissions() ([]model.Submission, error) {
	rows, err := s.db.Query(`SELECT roll_number FROM submissions ORDER BY roll_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var rolls []string
	for rows.Next() {
		var roll string
		if err := rows.Scan(&roll); err != nil {
			return nil, err
		}
		rolls = append(rolls, roll)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var subs []model.Submission
	for _, roll := range rolls {
		sub, err := s.GetSubmission(roll)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// SubmissionCount returns the number of submissions in the database.
func (s *Store) SubmissionCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM submissions`).Scan(&count)
	return count, err
}
