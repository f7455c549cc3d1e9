package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gradewise/gradewise/internal/model"
)

// ExportAll builds an export of every exam and every submission's result.
func (s *Store) ExportAll() (model.ResultExport, error) {
	export := model.ResultExport{GeneratedAt: time.Now()}

	exams, err := s.ListExams()
	if err != nil {
		return export, fmt.Errorf("list exams: %w", err)
	}
	titles := make(map[string]string)
	for _, e := range exams {
		full, err := s.GetExam(e.ID)
		if err != nil {
			return export, fmt.Errorf("get exam %s: %w", e.ID, err)
		}
		titles[e.ID] = e.Title
		export.Exams = append(export.Exams, full)
	}

	subs, err := s.ListSubmissions()
	if err != nil {
		return export, fmt.Errorf("list submissions: %w", err)
	}
	for _, sub := range subs {
		export.Results = append(export.Results, model.SubmissionResult{
			RollNumber:  sub.RollNumber,
			StudentName: sub.StudentName,
			ExamID:      sub.ExamID,
			ExamTitle:   titles[sub.ExamID],
			Evaluations: sub.Evaluations,
			TotalMarks:  sub.TotalMarks,
			Verdict:     sub.Verdict,
			EvaluatedAt: sub.EvaluatedAt,
		})
	}

	return export, nil
}

// IsNotFound reports whether err means a missing row.
func IsNotFound(err error) bool {
	return err == sql.ErrNoRows
}
