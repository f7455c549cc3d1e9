package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gradewise/gradewise/internal/grader"
	appI18n "github.com/gradewise/gradewise/internal/i18n"
	"github.com/gradewise/gradewise/internal/model"
	"github.com/gradewise/gradewise/internal/store"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store  *store.Store
	grader *grader.Service
}

// New creates a new Handler.
func New(s *store.Store, g *grader.Service) *Handler {
	return &Handler{store: s, grader: g}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Post("/api/evaluations", h.handleEvaluate)
	r.Get("/api/exams/{examID}", h.handleGetExam)
	r.Post("/api/submissions", h.handleCreateSubmission)
	r.Get("/api/submissions/{rollNumber}", h.handleGetSubmission)
	r.Route("/api/admin", func(ar chi.Router) {
		ar.Use(h.requireAdmin)
		ar.Post("/exams", h.handleCreateExam)
	})
}

// evaluateRequest is the inbound payload for an evaluation run.
type evaluateRequest struct {
	RollNumber string `json:"roll_number"`
	ExamID     string `json:"exam_id"`
}

// evaluateResponse is the caller-facing result of an evaluation run.
type evaluateResponse struct {
	Message     string             `json:"message"`
	Evaluations []model.Evaluation `json:"evaluations"`
	TotalMarks  float64            `json:"total_marks"`
	Result      model.Verdict      `json:"result"`
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, appI18n.T(ctx, "BadJSON"))
		return
	}
	if req.RollNumber == "" || req.ExamID == "" {
		respondError(w, http.StatusBadRequest, appI18n.T(ctx, "MissingIdentifiers"))
		return
	}
	if _, err := uuid.Parse(req.ExamID); err != nil {
		respondError(w, http.StatusBadRequest, appI18n.T(ctx, "InvalidExamRef"))
		return
	}

	// Per-answer failures are contained inside the grader; anything that
	// escapes here is structural and aborts the whole evaluation.
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("evaluation panicked", "roll_number", req.RollNumber, "panic", rec)
			respondError(w, http.StatusInternalServerError, appI18n.T(ctx, "InternalError"))
		}
	}()

	sub, err := h.grader.Evaluate(ctx, req.RollNumber, req.ExamID)
	switch {
	case errors.Is(err, grader.ErrSubmissionNotFound):
		respondError(w, http.StatusNotFound, appI18n.T(ctx, "SubmissionNotFound"))
		return
	case errors.Is(err, grader.ErrExamNotFound):
		respondError(w, http.StatusNotFound, appI18n.T(ctx, "ExamNotFound"))
		return
	case errors.Is(err, grader.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, appI18n.T(ctx, "MissingIdentifiers"))
		return
	case err != nil:
		slog.Error("evaluation failed", "roll_number", req.RollNumber, "error", err)
		respondError(w, http.StatusInternalServerError, appI18n.T(ctx, "InternalError"))
		return
	}

	respondJSON(w, http.StatusOK, evaluateResponse{
		Message:     appI18n.T(ctx, "EvaluationComplete"),
		Evaluations: sub.Evaluations,
		TotalMarks:  sub.TotalMarks,
		Result:      sub.Verdict,
	})
}

func (h *Handler) handleGetExam(w http.ResponseWriter, r *http.Request) {
	examID := chi.URLParam(r, "examID")
	if _, err := uuid.Parse(examID); err != nil {
		respondError(w, http.StatusBadRequest, appI18n.T(r.Context(), "InvalidExamRef"))
		return
	}

	exam, err := h.store.GetExam(examID)
	if store.IsNotFound(err) {
		respondError(w, http.StatusNotFound, appI18n.T(r.Context(), "ExamNotFound"))
		return
	}
	if err != nil {
		slog.Error("get exam failed", "exam_id", examID, "error", err)
		respondError(w, http.StatusInternalServerError, appI18n.T(r.Context(), "InternalError"))
		return
	}
	respondJSON(w, http.StatusOK, exam)
}

// createSubmissionRequest carries a student's answer sheet.
type createSubmissionRequest struct {
	RollNumber  string `json:"roll_number"`
	StudentName string `json:"student_name"`
	Answers     []struct {
		QuestionNumber string `json:"question_number"`
		Body           string `json:"body"`
	} `json:"answers"`
}

func (h *Handler) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req createSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, appI18n.T(r.Context(), "BadJSON"))
		return
	}
	if req.RollNumber == "" || len(req.Answers) == 0 {
		respondError(w, http.StatusBadRequest, "roll_number and at least one answer are required")
		return
	}

	sub := model.Submission{
		RollNumber:  req.RollNumber,
		StudentName: req.StudentName,
	}
	for _, a := range req.Answers {
		sub.Answers = append(sub.Answers, model.SubmittedAnswer{
			RollNumber:     req.RollNumber,
			QuestionNumber: a.QuestionNumber,
			Body:           a.Body,
		})
	}

	if err := h.store.CreateSubmission(sub); err != nil {
		slog.Error("create submission failed", "roll_number", req.RollNumber, "error", err)
		respondError(w, http.StatusBadRequest, "failed to create submission: "+err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"message":     appI18n.T(r.Context(), "SubmissionCreated"),
		"roll_number": req.RollNumber,
	})
}

func (h *Handler) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	rollNumber := chi.URLParam(r, "rollNumber")

	sub, err := h.store.GetSubmission(rollNumber)
	if store.IsNotFound(err) {
		respondError(w, http.StatusNotFound, appI18n.T(r.Context(), "SubmissionNotFound"))
		return
	}
	if err != nil {
		slog.Error("get submission failed", "roll_number", rollNumber, "error", err)
		respondError(w, http.StatusInternalServerError, appI18n.T(r.Context(), "InternalError"))
		return
	}
	respondJSON(w, http.StatusOK, sub)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.ExamCount(); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
