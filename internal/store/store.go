package store

import (
	"database/sql"
	"fmt"

	"github.com/gradewise/gradewise/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exams (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		pass_marks REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS questions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		exam_id TEXT NOT NULL,
		number TEXT NOT NULL,
		text TEXT NOT NULL,
		max_marks REAL NOT NULL DEFAULT 10,
		position INTEGER NOT NULL,
		FOREIGN KEY (exam_id) REFERENCES exams(id)
	);

	CREATE TABLE IF NOT EXISTS submissions (
		roll_number TEXT PRIMARY KEY,
		student_name TEXT NOT NULL DEFAULT '',
		exam_id TEXT NOT NULL DEFAULT '',
		total_marks REAL NOT NULL DEFAULT 0,
		verdict TEXT NOT NULL DEFAULT 'pending',
		evaluated_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS answers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		roll_number TEXT NOT NULL,
		question_number TEXT NOT NULL,
		body TEXT NOT NULL,
		position INTEGER NOT NULL,
		FOREIGN KEY (roll_number) REFERENCES submissions(roll_number)
	);

	CREATE TABLE IF NOT EXISTS evaluations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		roll_number TEXT NOT NULL,
		question_number TEXT NOT NULL,
		marks REAL NOT NULL DEFAULT 0,
		feedback TEXT NOT NULL DEFAULT '',
		used_fallback INTEGER NOT NULL DEFAULT 0,
		position INTEGER NOT NULL,
		FOREIGN KEY (roll_number) REFERENCES submissions(roll_number)
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateExam stores an exam and its questions in one transaction.
// The caller assigns the exam ID.
func (s *Store) CreateExam(exam model.Exam) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO exams (id, title, pass_marks) VALUES (?, ?, ?)`,
		exam.ID, exam.Title, exam.PassMarks,
	)
	if err != nil {
		return err
	}

	for i, q := range exam.Questions {
		_, err := tx.Exec(
			`INSERT INTO questions (exam_id, number, text, max_marks, position) VALUES (?, ?, ?, ?, ?)`,
			exam.ID, q.Number, q.Text, q.MaxMarks, i,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetExam returns an exam with its questions in stored order.
// Returns sql.ErrNoRows when the exam does not exist.
func (s *Store) GetExam(id string) (model.Exam, error) {
	var exam model.Exam
	err := s.db.QueryRow(
		`SELECT id, title, pass_marks FROM exams WHERE id = ?`, id,
	).Scan(&exam.ID, &exam.Title, &exam.PassMarks)
	if err != nil {
		return exam, err
	}

	rows, err := s.db.Query(
		`SELECT id, exam_id, number, text, max_marks FROM questions WHERE exam_id = ? ORDER BY position`, id,
	)
	if err != nil {
		return exam, err
	}
	defer rows.Close()
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.ExamID, &q.Number, &q.Text, &q.MaxMarks); err != nil {
			return exam, err
		}
		exam.Questions = append(exam.Questions, q)
	}
	return exam, rows.Err()
}

// ListExams returns all exams without their questions.
func (s *Store) ListExams() ([]model.Exam, error) {
	rows, err := s.db.Query(`SELECT id, title, pass_marks FROM exams ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.Title, &e.PassMarks); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// ExamCount returns the number of exams in the database.
func (s *Store) ExamCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM exams`).Scan(&count)
	return count, err
}
